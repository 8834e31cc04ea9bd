package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ListingStatus represents the moderation state of a listing.
type ListingStatus string

const (
	StatusPending   ListingStatus = "pending"
	StatusApproved  ListingStatus = "approved"
	StatusRejected  ListingStatus = "rejected"
	StatusSuspended ListingStatus = "suspended"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSuspended:
		return true
	}
	return false
}

func (s ListingStatus) String() string {
	return string(s)
}

// Listing represents one business listing in the directory.
type Listing struct {
	// Identity
	ID      uuid.UUID `json:"id" db:"id"`
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`
	Name    string    `json:"name" db:"name"`
	Slug    string    `json:"slug" db:"slug"`

	// Classification
	Category    string  `json:"category" db:"category"`
	Description *string `json:"description" db:"description"`

	// Location & contact
	Address string  `json:"address" db:"address"`
	City    string  `json:"city" db:"city"`
	Phone   *string `json:"phone" db:"phone"`
	Email   *string `json:"email" db:"email"`
	Website *string `json:"website" db:"website"`

	// Media. Images holds the full ordered URL array, cover first.
	Images   pq.StringArray `json:"images" db:"images"`
	CoverURL *string        `json:"cover_url" db:"cover_url"`

	// Moderation & visibility
	Status  ListingStatus `json:"status" db:"status"`
	Visible bool          `json:"visible" db:"visible"`

	// Timestamps
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// SetImages stores the resolved URL array and keeps the cover column
// in sync with the first element.
func (l *Listing) SetImages(urls []string) {
	l.Images = pq.StringArray(urls)
	if len(urls) > 0 {
		cover := urls[0]
		l.CoverURL = &cover
	} else {
		l.CoverURL = nil
	}
}
