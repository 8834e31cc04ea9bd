package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"directory-backend/internal/media"
	"directory-backend/internal/shared"
)

// DeleteImagesHandler removes all stored objects of a deleted listing.
type DeleteImagesHandler struct {
	store media.ObjectStore
}

func NewDeleteImagesHandler(store media.ObjectStore) *DeleteImagesHandler {
	return &DeleteImagesHandler{store: store}
}

func (h *DeleteImagesHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.DeleteListingImagesPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal delete images payload: %w", err)
	}

	if len(payload.Paths) == 0 {
		return nil
	}

	if err := h.store.Remove(ctx, payload.Paths); err != nil {
		log.Error().Err(err).
			Str("listing_id", payload.ListingID).
			Int("count", len(payload.Paths)).
			Msg("listing image deletion failed, will retry")
		return err
	}

	log.Info().
		Str("listing_id", payload.ListingID).
		Int("count", len(payload.Paths)).
		Msg("listing images deleted")
	return nil
}
