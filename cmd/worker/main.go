package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"directory-backend/internal/config"
	"directory-backend/internal/infrastructure/database"
	"directory-backend/internal/infrastructure/queue"
	"directory-backend/internal/infrastructure/storage"
	"directory-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.Init(cfg.App.Env)

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect database", err)
		panic(err)
	}
	defer db.Close()

	minioStorage, err := storage.NewMinioStorage(cfg.MinIO)
	if err != nil {
		logger.Error("failed to init storage", err)
		panic(err)
	}

	srv := newWorkerServer(cfg.Redis)
	mux := buildHandlerMux(db, minioStorage)

	scheduler := queue.NewScheduler(cfg.Redis)
	if err := scheduler.Register(); err != nil {
		logger.Error("failed to register scheduled tasks", err)
		panic(err)
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- srv.Run(mux)
	}()
	go func() {
		errCh <- scheduler.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("worker stopped with error", err)
		}
	case sig := <-quit:
		logger.Info("worker shutting down", map[string]interface{}{
			"signal": sig.String(),
		})
	}

	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("worker stopped", nil)
}
