package main

import (
	"context"

	"github.com/joho/godotenv"

	"directory-backend/internal/config"
	"directory-backend/pkg/container"
	"directory-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.Init(cfg.App.Env)

	c, err := container.New(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to initialize application", err)
		panic(err)
	}
	defer c.Cleanup()

	router := setupRouter(c)

	if err := runServer(router, cfg.App.Port); err != nil {
		logger.Error("server stopped with error", err)
	}
}
