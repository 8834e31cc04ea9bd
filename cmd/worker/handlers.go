package main

import (
	"github.com/hibiken/asynq"

	"directory-backend/internal/domains/listing/job"
	"directory-backend/internal/domains/listing/repository"
	"directory-backend/internal/infrastructure/database"
	"directory-backend/internal/infrastructure/storage"
	"directory-backend/internal/shared"
)

// buildHandlerMux registers every background task handler.
func buildHandlerMux(db *database.PostgresDB, store *storage.MinioStorage) *asynq.ServeMux {
	listingRepo := repository.NewPostgresListingRepository(db.Pool)

	mux := asynq.NewServeMux()
	mux.Handle(shared.TypeCleanupObjects, job.NewCleanupObjectsHandler(store))
	mux.Handle(shared.TypeDeleteListingImages, job.NewDeleteImagesHandler(store))
	mux.Handle(shared.TypePurgeTrashedListings, job.NewPurgeTrashedHandler(listingRepo, store))
	return mux
}
