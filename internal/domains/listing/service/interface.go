package service

import (
	"context"

	"directory-backend/internal/domains/listing/model"
	"directory-backend/internal/media"
)

// ListingService is the business API over listings and their images.
type ListingService interface {
	Create(ctx context.Context, ownerID string, req model.CreateListingRequest, files []media.File) (*model.SaveResult, error)
	Update(ctx context.Context, actorID string, isAdmin bool, id string, req model.UpdateListingRequest, files []media.File) (*model.SaveResult, error)
	GetByID(ctx context.Context, id string) (*model.ListingResponse, error)
	GetBySlug(ctx context.Context, slug string) (*model.ListingResponse, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.ListingResponse, int64, error)
	Moderate(ctx context.Context, id string, req model.ModerateRequest) error
	TransferOwnership(ctx context.Context, id string, req model.TransferOwnershipRequest) error
	Delete(ctx context.Context, actorID string, isAdmin bool, id string) error
	Export(ctx context.Context, filter model.ListFilter) ([]byte, error)
}
