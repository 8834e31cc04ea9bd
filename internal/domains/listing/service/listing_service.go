package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"directory-backend/internal/config"
	"directory-backend/internal/domains/listing/model"
	"directory-backend/internal/domains/listing/repository"
	"directory-backend/internal/media"
	"directory-backend/internal/shared/utils"
	pkgcache "directory-backend/pkg/cache"
	"directory-backend/pkg/logger"
)

const (
	cacheTTL         = 10 * time.Minute
	cacheKeyByID     = "listing:id:%s"
	cacheKeyBySlug   = "listing:slug:%s"
	cacheListPattern = "listing:*"
)

// Enqueuer is the subset of the queue client the service needs.
type Enqueuer interface {
	media.CleanupQueue
	EnqueueDeleteListingImages(ctx context.Context, listingID string, paths []string) error
}

type listingService struct {
	repo     repository.ListingRepository
	cache    pkgcache.Cache
	store    media.ObjectStore
	enqueuer Enqueuer
	cfg      config.MediaConfig

	orchestrator *media.Orchestrator
	reconciler   *media.Reconciler
}

// NewListingService wires the listing business logic with the image
// pipeline.
func NewListingService(
	repo repository.ListingRepository,
	cache pkgcache.Cache,
	store media.ObjectStore,
	compressor media.Compressor,
	enqueuer Enqueuer,
	cfg config.MediaConfig,
) ListingService {
	policy := media.Policy{
		MaxBytes:       cfg.MaxUploadBytes,
		MaxDimensionPx: cfg.MaxDimensionPx,
		TargetFormat:   cfg.TargetFormat,
		Quality:        cfg.Quality,
	}
	return &listingService{
		repo:         repo,
		cache:        cache,
		store:        store,
		enqueuer:     enqueuer,
		cfg:          cfg,
		orchestrator: media.NewOrchestrator(compressor, store, policy),
		reconciler:   media.NewReconciler(store, enqueuer),
	}
}

// ===== CREATE =====

func (s *listingService) Create(ctx context.Context, ownerID string, req model.CreateListingRequest, files []media.File) (*model.SaveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}

	col := media.NewCollection(ownerID, s.cfg.MaxImages)
	manager := media.NewManager(col, s.orchestrator, nil, false)
	defer manager.Close()

	ids, err := col.Add(files)
	if err != nil {
		return nil, err
	}
	if req.PrincipalIndex > 0 && req.PrincipalIndex < len(ids) {
		if err := col.SetPrincipal(ids[req.PrincipalIndex]); err != nil {
			return nil, err
		}
	}

	slug, err := s.uniqueSlug(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	listing := &model.Listing{
		ID:          uuid.New(),
		OwnerID:     owner,
		Name:        req.Name,
		Slug:        slug,
		Category:    req.Category,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Status:      model.StatusPending,
		Visible:     false,
	}

	_, warnings, err := manager.Submit(ctx, func(ctx context.Context, images []string) (string, error) {
		listing.SetImages(images)
		if err := s.repo.Create(ctx, listing); err != nil {
			return "", err
		}
		return listing.ID.String(), nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, listing)
	return &model.SaveResult{Listing: listing.ToResponse(), Warnings: warnings}, nil
}

// ===== UPDATE =====

func (s *listingService) Update(ctx context.Context, actorID string, isAdmin bool, id string, req model.UpdateListingRequest, files []media.File) (*model.SaveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	listing, err := s.load(ctx, actorID, isAdmin, id)
	if err != nil {
		return nil, err
	}

	col := media.NewCollectionFromExisting(listing.OwnerID.String(), s.cfg.MaxImages, listing.Images, s.store.PathFromURL)
	manager := media.NewManager(col, s.orchestrator, s.reconciler, true)
	defer manager.Close()

	// Drop stored images the form did not keep.
	kept := make(map[string]bool, len(req.KeptImages))
	for _, u := range req.KeptImages {
		kept[u] = true
	}
	for _, view := range col.Snapshot() {
		if view.Source == media.SourceExisting && !kept[view.RemoteURL] {
			if err := col.Remove(view.ID); err != nil {
				return nil, err
			}
		}
	}

	if _, err := col.Add(files); err != nil {
		return nil, err
	}

	if views := col.Snapshot(); req.PrincipalIndex < len(views) {
		if err := col.SetPrincipal(views[req.PrincipalIndex].ID); err != nil {
			logger.Warn("principal designation rejected", map[string]interface{}{
				"listing_id": id,
				"index":      req.PrincipalIndex,
				"reason":     err.Error(),
			})
		}
	}

	listing.Name = req.Name
	listing.Category = req.Category
	listing.Description = req.Description
	listing.Address = req.Address
	listing.City = req.City
	listing.Phone = req.Phone
	listing.Email = req.Email
	listing.Website = req.Website

	_, warnings, err := manager.Submit(ctx, func(ctx context.Context, images []string) (string, error) {
		listing.SetImages(images)
		if err := s.repo.Update(ctx, listing); err != nil {
			return "", err
		}
		return listing.ID.String(), nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, listing)
	return &model.SaveResult{Listing: listing.ToResponse(), Warnings: warnings}, nil
}

// ===== READS =====

func (s *listingService) GetByID(ctx context.Context, id string) (*model.ListingResponse, error) {
	key := fmt.Sprintf(cacheKeyByID, id)

	var cached model.ListingResponse
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	listingID, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrListingNotFound
	}

	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	resp := listing.ToResponse()
	if err := s.cache.Set(ctx, key, resp, cacheTTL); err != nil {
		logger.Error("failed to cache listing", err)
	}
	return resp, nil
}

func (s *listingService) GetBySlug(ctx context.Context, slug string) (*model.ListingResponse, error) {
	key := fmt.Sprintf(cacheKeyBySlug, slug)

	var cached model.ListingResponse
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	listing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	resp := listing.ToResponse()
	if err := s.cache.Set(ctx, key, resp, cacheTTL); err != nil {
		logger.Error("failed to cache listing", err)
	}
	return resp, nil
}

func (s *listingService) List(ctx context.Context, filter model.ListFilter) ([]model.ListingResponse, int64, error) {
	listings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]model.ListingResponse, 0, len(listings))
	for i := range listings {
		responses = append(responses, *listings[i].ToResponse())
	}
	return responses, total, nil
}

// ===== ADMIN =====

func (s *listingService) Moderate(ctx context.Context, id string, req model.ModerateRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	listingID, err := uuid.Parse(id)
	if err != nil {
		return model.ErrListingNotFound
	}

	status := model.ListingStatus(req.Status)
	if !status.IsValid() {
		return model.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, listingID, status); err != nil {
		return err
	}

	s.invalidateByID(ctx, id)
	return nil
}

func (s *listingService) TransferOwnership(ctx context.Context, id string, req model.TransferOwnershipRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	listingID, err := uuid.Parse(id)
	if err != nil {
		return model.ErrListingNotFound
	}
	newOwner, err := uuid.Parse(req.NewOwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}

	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.OwnerID == newOwner {
		return model.ErrOwnerUnchanged
	}

	if err := s.repo.TransferOwnership(ctx, listingID, newOwner); err != nil {
		return err
	}

	s.invalidate(ctx, listing)
	return nil
}

// ===== DELETE =====

func (s *listingService) Delete(ctx context.Context, actorID string, isAdmin bool, id string) error {
	listing, err := s.load(ctx, actorID, isAdmin, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, listing.ID); err != nil {
		return err
	}

	// Stored objects are removed in the background so the delete
	// request stays fast and retryable.
	if len(listing.Images) > 0 {
		paths := make([]string, 0, len(listing.Images))
		for _, u := range listing.Images {
			paths = append(paths, s.store.PathFromURL(u))
		}
		if err := s.enqueuer.EnqueueDeleteListingImages(ctx, id, paths); err != nil {
			logger.Error("failed to enqueue listing image deletion", err)
		}
	}

	s.invalidate(ctx, listing)
	return nil
}

// ===== HELPERS =====

func (s *listingService) load(ctx context.Context, actorID string, isAdmin bool, id string) (*model.Listing, error) {
	listingID, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrListingNotFound
	}

	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && listing.OwnerID.String() != actorID {
		return nil, model.ErrNotOwner
	}
	return listing, nil
}

func (s *listingService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := utils.GenerateSlug(name)
	slug := base

	for i := 2; i <= 10; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	// Heavily contended name, fall back to a random suffix.
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func (s *listingService) invalidate(ctx context.Context, listing *model.Listing) {
	keys := []string{
		fmt.Sprintf(cacheKeyByID, listing.ID.String()),
		fmt.Sprintf(cacheKeyBySlug, listing.Slug),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Error("failed to invalidate listing cache", err)
	}
}

func (s *listingService) invalidateByID(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, fmt.Sprintf(cacheKeyByID, id)); err != nil {
		logger.Error("failed to invalidate listing cache", err)
	}
	if err := s.cache.DeletePattern(ctx, cacheListPattern); err != nil {
		logger.Error("failed to invalidate listing cache", err)
	}
}
