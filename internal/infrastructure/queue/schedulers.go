package queue

import (
	"fmt"

	"github.com/hibiken/asynq"

	"directory-backend/internal/config"
	"directory-backend/internal/shared"
	"directory-backend/pkg/logger"
)

// Scheduler registers periodic maintenance tasks.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(cfg config.RedisConfig) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}, nil),
	}
}

// Register wires the periodic entries. Trashed listings are purged
// nightly, which also deletes their stored images.
func (s *Scheduler) Register() error {
	entries := []struct {
		cron string
		task *asynq.Task
		opts []asynq.Option
	}{
		{
			cron: "0 3 * * *",
			task: asynq.NewTask(shared.TypePurgeTrashedListings, nil),
			opts: []asynq.Option{asynq.Queue(shared.QueueLow)},
		},
	}

	for _, e := range entries {
		entryID, err := s.scheduler.Register(e.cron, e.task, e.opts...)
		if err != nil {
			return fmt.Errorf("failed to register scheduled task %s: %w", e.task.Type(), err)
		}
		logger.Info("registered scheduled task", map[string]interface{}{
			"entry_id": entryID,
			"type":     e.task.Type(),
			"cron":     e.cron,
		})
	}
	return nil
}

// Run starts the scheduler loop and blocks.
func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

// Shutdown stops the scheduler.
func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
