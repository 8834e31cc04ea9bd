package media

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	ErrCollectionFull       = errors.New("image collection is full")
	ErrSlotNotFound         = errors.New("image slot not found")
	ErrPrincipalNotEligible = errors.New("slot is not eligible as principal image")
	ErrInvalidTransition    = errors.New("invalid slot state transition")
	ErrNotRetryable         = errors.New("slot has no local data left to retry")
)

// ValidationError blocks submission until corrected by the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// CompressionError is a per-slot failure of the re-encode step.
type CompressionError struct {
	SlotID string
	Err    error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("compression failed for slot %s: %v", e.SlotID, e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }

// StoreError is a per-slot failure of the object store put.
type StoreError struct {
	SlotID string
	Path   string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("upload failed for slot %s (%s): %v", e.SlotID, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// UploadAggregateError rejects a submission when one or more slots
// failed. Slots that succeeded stay uploaded and are not retried.
type UploadAggregateError struct {
	Count  int
	Sample string
}

func (e *UploadAggregateError) Error() string {
	return fmt.Sprintf("%d image upload(s) failed: %s", e.Count, e.Sample)
}

// ReconciliationWarning reports a best-effort deletion that did not go
// through. It never blocks a save.
type ReconciliationWarning struct {
	Paths []string
	Err   error
}

func (w *ReconciliationWarning) Error() string {
	return fmt.Sprintf("failed to delete %d stored object(s), cleanup deferred: %v", len(w.Paths), w.Err)
}

func (w *ReconciliationWarning) Unwrap() error { return w.Err }
