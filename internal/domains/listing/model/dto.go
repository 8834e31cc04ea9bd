package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateListingRequest carries the form fields of a new listing. Image
// files arrive separately as multipart parts; PrincipalIndex selects
// the cover among them.
type CreateListingRequest struct {
	Name           string  `json:"name" form:"name"`
	Category       string  `json:"category" form:"category"`
	Description    *string `json:"description" form:"description"`
	Address        string  `json:"address" form:"address"`
	City           string  `json:"city" form:"city"`
	Phone          *string `json:"phone" form:"phone"`
	Email          *string `json:"email" form:"email"`
	Website        *string `json:"website" form:"website"`
	PrincipalIndex int     `json:"principal_index" form:"principal_index"`
}

func (r CreateListingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Category, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Address, validation.Required, validation.Length(2, 300)),
		validation.Field(&r.City, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.PrincipalIndex, validation.Min(0)),
	)
}

// UpdateListingRequest carries the edit form. KeptImages lists the
// previously stored URLs the user retained, in display order;
// PrincipalIndex points into the combined kept-then-new sequence.
type UpdateListingRequest struct {
	Name           string   `json:"name" form:"name"`
	Category       string   `json:"category" form:"category"`
	Description    *string  `json:"description" form:"description"`
	Address        string   `json:"address" form:"address"`
	City           string   `json:"city" form:"city"`
	Phone          *string  `json:"phone" form:"phone"`
	Email          *string  `json:"email" form:"email"`
	Website        *string  `json:"website" form:"website"`
	KeptImages     []string `json:"kept_images" form:"kept_images"`
	PrincipalIndex int      `json:"principal_index" form:"principal_index"`
}

func (r UpdateListingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Category, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Address, validation.Required, validation.Length(2, 300)),
		validation.Field(&r.City, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.PrincipalIndex, validation.Min(0)),
	)
}

// ModerateRequest is the admin moderation action.
type ModerateRequest struct {
	Status string `json:"status"`
}

func (r ModerateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			StatusApproved.String(), StatusRejected.String(), StatusSuspended.String(),
		)),
	)
}

// TransferOwnershipRequest moves a listing to another owner.
type TransferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id"`
}

func (r TransferOwnershipRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewOwnerID, validation.Required, is.UUID),
	)
}

// ListFilter narrows listing queries.
type ListFilter struct {
	OwnerID  string
	Category string
	City     string
	Status   string
	Search   string
	Page     int
	Limit    int
}

// ListingResponse is the public view of a listing.
type ListingResponse struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Category    string   `json:"category"`
	Description *string  `json:"description,omitempty"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Phone       *string  `json:"phone,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Website     *string  `json:"website,omitempty"`
	Images      []string `json:"images"`
	CoverURL    *string  `json:"cover_url,omitempty"`
	Status      string   `json:"status"`
	Visible     bool     `json:"visible"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// SaveResult is returned by create/update together with any non-fatal
// warnings from the image pipeline.
type SaveResult struct {
	Listing  *ListingResponse `json:"listing"`
	Warnings []string         `json:"warnings,omitempty"`
}

// ToResponse maps the entity to its public view.
func (l *Listing) ToResponse() *ListingResponse {
	return &ListingResponse{
		ID:          l.ID.String(),
		OwnerID:     l.OwnerID.String(),
		Name:        l.Name,
		Slug:        l.Slug,
		Category:    l.Category,
		Description: l.Description,
		Address:     l.Address,
		City:        l.City,
		Phone:       l.Phone,
		Email:       l.Email,
		Website:     l.Website,
		Images:      []string(l.Images),
		CoverURL:    l.CoverURL,
		Status:      l.Status.String(),
		Visible:     l.Visible,
		CreatedAt:   l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   l.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
