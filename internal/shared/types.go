package shared

// ===== ASYNQ TASK TYPES =====

const (
	// Media tasks
	TypeCleanupObjects = "media:cleanup_objects"

	// Listing tasks
	TypeDeleteListingImages  = "listing:delete_images"
	TypePurgeTrashedListings = "listing:purge_trashed"
)

// ===== QUEUE NAMES =====

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ===== TASK PAYLOADS =====

// CleanupObjectsPayload carries storage paths whose best-effort deletion
// failed during a listing save and must be retried in the background.
type CleanupObjectsPayload struct {
	Paths []string `json:"paths"`
}

// DeleteListingImagesPayload removes every stored object of a deleted listing.
type DeleteListingImagesPayload struct {
	ListingID string   `json:"listing_id"`
	Paths     []string `json:"paths"`
}
