package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"directory-backend/internal/shared/middleware"
	"directory-backend/pkg/container"
)

func setupRouter(c *container.Container) *gin.Engine {
	if c.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.ClientIPMiddleware())

	router.GET("/health", func(ctx *gin.Context) {
		if err := c.DB.Ping(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public
	listings := v1.Group("/listings")
	{
		listings.GET("", c.ListingHandler.List)
		listings.GET("/:id", c.ListingHandler.GetByID)
	}
	v1.GET("/slugs/:slug", c.ListingHandler.GetBySlug)

	// Owner (authenticated)
	auth := v1.Group("/listings")
	auth.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		auth.POST("", c.ListingHandler.Create)
		auth.PUT("/:id", c.ListingHandler.Update)
		auth.DELETE("/:id", c.ListingHandler.Delete)
	}

	// Admin
	admin := v1.Group("/admin/listings")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.PATCH("/:id/status", c.ListingHandler.Moderate)
		admin.POST("/:id/transfer", c.ListingHandler.TransferOwnership)
		admin.GET("/export", c.ListingHandler.Export)
	}

	return router
}
