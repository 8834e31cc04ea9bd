package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"directory-backend/internal/domains/listing/repository"
	"directory-backend/internal/media"
)

const trashRetention = 30 * 24 * time.Hour

// PurgeTrashedHandler permanently deletes listings that were
// soft-deleted longer than the retention window ago, including their
// stored images.
type PurgeTrashedHandler struct {
	repo  repository.ListingRepository
	store media.ObjectStore
}

func NewPurgeTrashedHandler(repo repository.ListingRepository, store media.ObjectStore) *PurgeTrashedHandler {
	return &PurgeTrashedHandler{repo: repo, store: store}
}

func (h *PurgeTrashedHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-trashRetention)

	listings, err := h.repo.ListTrashedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return nil
	}

	purged := 0
	for i := range listings {
		l := &listings[i]

		if len(l.Images) > 0 {
			paths := make([]string, 0, len(l.Images))
			for _, u := range l.Images {
				paths = append(paths, h.store.PathFromURL(u))
			}
			if err := h.store.Remove(ctx, paths); err != nil {
				// Leave the row for the next run so images are not lost
				// track of before their objects are gone.
				log.Error().Err(err).Str("listing_id", l.ID.String()).Msg("failed to delete images of trashed listing")
				continue
			}
		}

		if err := h.repo.HardDelete(ctx, l.ID); err != nil {
			log.Error().Err(err).Str("listing_id", l.ID.String()).Msg("failed to purge trashed listing")
			continue
		}
		purged++
	}

	log.Info().Int("purged", purged).Int("candidates", len(listings)).Msg("trashed listing purge done")
	return nil
}
