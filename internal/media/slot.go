package media

import (
	"fmt"

	"github.com/rs/xid"
)

// SlotState is the lifecycle state of one image slot.
type SlotState string

const (
	StatePending     SlotState = "pending"
	StateCompressing SlotState = "compressing"
	StateUploading   SlotState = "uploading"
	StateUploaded    SlotState = "uploaded"
	StateFailed      SlotState = "failed"
)

// SourceKind tells where a slot's image came from.
type SourceKind string

const (
	SourceNew      SourceKind = "new"
	SourceExisting SourceKind = "existing"
)

// PreviewHandle is an owned, revocable reference to local bytes used
// for display. Release must be called exactly once.
type PreviewHandle interface {
	URL() string
	Release()
}

var validTransitions = map[SlotState][]SlotState{
	StatePending:     {StateCompressing},
	StateCompressing: {StateUploading, StateFailed},
	StateUploading:   {StateUploaded, StateFailed},
	StateFailed:      {StatePending},
}

// Slot tracks one user-selected or pre-existing image through the
// upload lifecycle. During an upload pass each slot is written only by
// the goroutine that owns it.
type Slot struct {
	ID          string
	Source      SourceKind
	State       SlotState
	FileName    string
	RemoteURL   string
	StoragePath string
	ErrorDetail string

	data     []byte
	preview  PreviewHandle
	released bool
}

// newSlot creates a pending slot for a freshly selected file.
func newSlot(fileName, storagePath string, data []byte, preview PreviewHandle) *Slot {
	return &Slot{
		ID:          xid.New().String(),
		Source:      SourceNew,
		State:       StatePending,
		FileName:    fileName,
		StoragePath: storagePath,
		data:        data,
		preview:     preview,
	}
}

// existingSlot creates an uploaded slot seeded from a stored URL.
func existingSlot(remoteURL, storagePath string) *Slot {
	return &Slot{
		ID:          xid.New().String(),
		Source:      SourceExisting,
		State:       StateUploaded,
		RemoteURL:   remoteURL,
		StoragePath: storagePath,
	}
}

func (s *Slot) transition(next SlotState) error {
	for _, allowed := range validTransitions[s.State] {
		if allowed == next {
			s.State = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, next)
}

func (s *Slot) markCompressing() error {
	return s.transition(StateCompressing)
}

func (s *Slot) markUploading() error {
	return s.transition(StateUploading)
}

// markUploaded records the durable location and releases the local
// preview, which is replaced by the remote URL.
func (s *Slot) markUploaded(remoteURL, storagePath string) error {
	if err := s.transition(StateUploaded); err != nil {
		return err
	}
	s.RemoteURL = remoteURL
	s.StoragePath = storagePath
	s.ErrorDetail = ""
	s.data = nil
	s.releasePreview()
	return nil
}

func (s *Slot) markFailed(detail string) error {
	if err := s.transition(StateFailed); err != nil {
		return err
	}
	s.ErrorDetail = detail
	return nil
}

// retry moves a failed slot back to pending. Only possible while the
// local bytes are still held; otherwise the user must remove the slot
// and add the file again.
func (s *Slot) retry() error {
	if s.State != StateFailed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, StatePending)
	}
	if s.Source != SourceNew || s.data == nil {
		return ErrNotRetryable
	}
	if err := s.transition(StatePending); err != nil {
		return err
	}
	s.ErrorDetail = ""
	return nil
}

// retryable reports whether a failed slot can re-enter the pipeline.
func (s *Slot) retryable() bool {
	return s.State == StateFailed && s.Source == SourceNew && s.data != nil
}

// eligiblePrincipal reports whether the slot may be designated as the
// cover image. Slots mid-flight or failed are excluded.
func (s *Slot) eligiblePrincipal() bool {
	switch s.State {
	case StateCompressing, StateUploading, StateFailed:
		return false
	}
	return true
}

func (s *Slot) releasePreview() {
	if s.preview != nil && !s.released {
		s.preview.Release()
		s.released = true
	}
}

// PreviewURL returns what the UI should render for this slot.
func (s *Slot) PreviewURL() string {
	if s.RemoteURL != "" {
		return s.RemoteURL
	}
	if s.preview != nil && !s.released {
		return s.preview.URL()
	}
	return ""
}

// SlotView is a read-only snapshot of a slot for rendering.
type SlotView struct {
	ID          string
	Source      SourceKind
	State       SlotState
	FileName    string
	PreviewURL  string
	RemoteURL   string
	ErrorDetail string
	Principal   bool
}
