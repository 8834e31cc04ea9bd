package media

import (
	"context"

	"directory-backend/pkg/logger"
)

// CleanupQueue defers object deletions that could not be applied
// inline, typically backed by a background job queue.
type CleanupQueue interface {
	EnqueueCleanup(ctx context.Context, paths []string) error
}

// Reconciler removes stored objects that an edit session dropped from
// the collection. Deletion is strictly best-effort: a stale orphaned
// object is acceptable, an inconsistent listing record is not.
type Reconciler struct {
	store ObjectStore
	queue CleanupQueue
}

func NewReconciler(store ObjectStore, queue CleanupQueue) *Reconciler {
	return &Reconciler{store: store, queue: queue}
}

// Cleanup issues one batched delete for the paths removed since the
// collection was loaded. On failure the paths are handed to the
// cleanup queue for a background retry and a non-fatal warning is
// returned. A nil return means nothing to delete or full success.
func (r *Reconciler) Cleanup(ctx context.Context, col *Collection) *ReconciliationWarning {
	paths := col.takePendingDeletes()
	if len(paths) == 0 {
		return nil
	}

	if err := r.store.Remove(ctx, paths); err != nil {
		logger.Error("image reconciliation delete failed", err)
		if r.queue != nil {
			if qerr := r.queue.EnqueueCleanup(ctx, paths); qerr != nil {
				logger.Error("failed to enqueue deferred image cleanup", qerr)
			}
		}
		return &ReconciliationWarning{Paths: paths, Err: err}
	}

	logger.Info("removed stale listing images", map[string]interface{}{
		"count": len(paths),
	})
	return nil
}
