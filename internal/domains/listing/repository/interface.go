package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"directory-backend/internal/domains/listing/model"
)

// ListingRepository persists listings. The images column is always
// written together with the rest of the row as one atomic statement.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	Update(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*model.Listing, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Listing, int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ListingStatus) error
	TransferOwnership(ctx context.Context, id, newOwnerID uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]model.Listing, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}
