package main

import (
	"github.com/hibiken/asynq"

	"directory-backend/internal/config"
	"directory-backend/internal/shared"
)

// workerServer wraps the asynq server with the queue priorities used
// by this deployment.
type workerServer struct {
	server *asynq.Server
}

func newWorkerServer(cfg config.RedisConfig) *workerServer {
	return &workerServer{
		server: asynq.NewServer(
			asynq.RedisClientOpt{
				Addr:     cfg.Addr,
				Password: cfg.Password,
				DB:       cfg.DB,
			},
			asynq.Config{
				Concurrency: 10,
				Queues: map[string]int{
					shared.QueueCritical: 6,
					shared.QueueDefault:  3,
					shared.QueueLow:      1,
				},
			},
		),
	}
}

func (s *workerServer) Run(mux *asynq.ServeMux) error {
	return s.server.Run(mux)
}

func (s *workerServer) Shutdown() {
	s.server.Shutdown()
}
