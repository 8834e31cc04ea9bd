package container

import (
	"context"
	"fmt"

	"directory-backend/internal/config"
	listinghandler "directory-backend/internal/domains/listing/handler"
	listingrepo "directory-backend/internal/domains/listing/repository"
	listingservice "directory-backend/internal/domains/listing/service"
	"directory-backend/internal/infrastructure/cache"
	"directory-backend/internal/infrastructure/database"
	"directory-backend/internal/infrastructure/queue"
	"directory-backend/internal/infrastructure/storage"
	"directory-backend/pkg/jwt"
	"directory-backend/pkg/logger"
)

// Container wires the application dependency graph in order: config,
// infrastructure, repositories, services, handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB          *database.PostgresDB
	Cache       *cache.RedisCache
	Storage     *storage.MinioStorage
	QueueClient *queue.Client
	JWTManager  *jwt.Manager

	// Repositories
	ListingRepo listingrepo.ListingRepository

	// Services
	ListingService listingservice.ListingService

	// Handlers
	ListingHandler *listinghandler.ListingHandler
}

// New builds the full container. Any failure aborts startup.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	c.DB = db

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}
	c.Cache = redisCache

	minioStorage, err := storage.NewMinioStorage(cfg.MinIO)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	c.Storage = minioStorage

	c.QueueClient = queue.NewClient(cfg.Redis)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	c.ListingRepo = listingrepo.NewPostgresListingRepository(db.Pool)

	c.ListingService = listingservice.NewListingService(
		c.ListingRepo,
		c.Cache,
		c.Storage,
		storage.NewImageProcessor(),
		c.QueueClient,
		cfg.Media,
	)

	c.ListingHandler = listinghandler.NewListingHandler(c.ListingService)

	logger.Info("container initialized", map[string]interface{}{
		"env": cfg.App.Env,
	})
	return c, nil
}

// Cleanup releases infrastructure resources in reverse order.
func (c *Container) Cleanup() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Error("failed to close queue client", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
