package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"directory-backend/internal/config"
	"directory-backend/internal/media"
	"directory-backend/internal/shared"
)

// Client enqueues background tasks from the request path.
type Client struct {
	client *asynq.Client
}

var _ media.CleanupQueue = (*Client)(nil)

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// EnqueueCleanup schedules a background retry for storage paths whose
// inline deletion failed.
func (c *Client) EnqueueCleanup(ctx context.Context, paths []string) error {
	payload, err := json.Marshal(shared.CleanupObjectsPayload{Paths: paths})
	if err != nil {
		return fmt.Errorf("failed to marshal cleanup payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeCleanupObjects, payload)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue cleanup task: %w", err)
	}
	return nil
}

// EnqueueDeleteListingImages removes every stored object of a deleted
// listing in the background.
func (c *Client) EnqueueDeleteListingImages(ctx context.Context, listingID string, paths []string) error {
	payload, err := json.Marshal(shared.DeleteListingImagesPayload{
		ListingID: listingID,
		Paths:     paths,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal delete images payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeDeleteListingImages, payload)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue delete images task: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
