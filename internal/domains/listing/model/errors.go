package model

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrSlugExists      = errors.New("listing slug already exists")
	ErrNotOwner        = errors.New("user does not own this listing")
	ErrInvalidStatus   = errors.New("invalid listing status")
	ErrListingDeleted  = errors.New("listing has been deleted")
	ErrOwnerUnchanged  = errors.New("listing already belongs to this owner")
)
