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

// CleanupObjectsHandler retries storage deletions that failed inline
// during a listing save.
type CleanupObjectsHandler struct {
	store media.ObjectStore
}

func NewCleanupObjectsHandler(store media.ObjectStore) *CleanupObjectsHandler {
	return &CleanupObjectsHandler{store: store}
}

func (h *CleanupObjectsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.CleanupObjectsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal cleanup payload: %w", err)
	}

	if len(payload.Paths) == 0 {
		return nil
	}

	if err := h.store.Remove(ctx, payload.Paths); err != nil {
		log.Error().Err(err).Int("count", len(payload.Paths)).Msg("deferred object cleanup failed, will retry")
		return err
	}

	log.Info().Int("count", len(payload.Paths)).Msg("deferred object cleanup done")
	return nil
}
