package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"directory-backend/internal/domains/listing/model"
	"directory-backend/internal/domains/listing/service"
	"directory-backend/internal/media"
	"directory-backend/internal/shared/middleware"
	"directory-backend/internal/shared/response"
	"directory-backend/internal/shared/utils"
)

type ListingHandler struct {
	service service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{service: svc}
}

// Create handles POST /listings as multipart: form fields plus image
// parts under "images".
func (h *ListingHandler) Create(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	files, err := readImageFiles(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), ownerID, req, files)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "listing created", result)
}

// Update handles PUT /listings/:id as multipart. kept_images carries
// the stored URLs the user retained; principal_index selects the cover.
func (h *ListingHandler) Update(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	files, err := readImageFiles(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, _ := c.Get("role")
	result, err := h.service.Update(c.Request.Context(), actorID, role == "admin", c.Param("id"), req, files)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "listing updated", result)
}

func (h *ListingHandler) GetByID(c *gin.Context) {
	listing, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", listing)
}

func (h *ListingHandler) GetBySlug(c *gin.Context) {
	listing, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", listing)
}

func (h *ListingHandler) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)
	filter := model.ListFilter{
		OwnerID:  c.Query("owner_id"),
		Category: c.Query("category"),
		City:     c.Query("city"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	listings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMeta(c, listings, response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: utils.TotalPages(total, limit),
	})
}

func (h *ListingHandler) Delete(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	role, _ := c.Get("role")
	if err := h.service.Delete(c.Request.Context(), actorID, role == "admin", c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "listing deleted", nil)
}

// Moderate handles PATCH /admin/listings/:id/status.
func (h *ListingHandler) Moderate(c *gin.Context) {
	var req model.ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.service.Moderate(c.Request.Context(), c.Param("id"), req); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "listing status updated", nil)
}

// TransferOwnership handles POST /admin/listings/:id/transfer.
func (h *ListingHandler) TransferOwnership(c *gin.Context) {
	var req model.TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.service.TransferOwnership(c.Request.Context(), c.Param("id"), req); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "listing ownership transferred", nil)
}

// Export handles GET /admin/listings/export and streams an xlsx file.
func (h *ListingHandler) Export(c *gin.Context) {
	page, limit := utils.ParsePagination(c)
	filter := model.ListFilter{
		Category: c.Query("category"),
		City:     c.Query("city"),
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	}

	data, err := h.service.Export(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="listings.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *ListingHandler) writeError(c *gin.Context, err error) {
	var vErr *media.ValidationError
	var aggErr *media.UploadAggregateError

	switch {
	case errors.Is(err, model.ErrListingNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrNotOwner):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrSlugExists),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrOwnerUnchanged),
		errors.Is(err, media.ErrCollectionFull):
		response.BadRequest(c, err.Error())
	case errors.As(err, &vErr):
		response.BadRequest(c, vErr.Error())
	case errors.As(err, &aggErr):
		response.Error(c, http.StatusUnprocessableEntity, aggErr.Error(), "upload_failed")
	default:
		response.InternalError(c, "something went wrong")
	}
}

// readImageFiles reads every "images" multipart part into memory for
// the compression pipeline.
func readImageFiles(c *gin.Context) ([]media.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	headers := form.File["images"]
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		data, err := readFileHeader(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, media.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
	}
	return data, nil
}
