package media

import "fmt"

// File is one raw user selection handed to the collection.
type File struct {
	Name    string
	Data    []byte
	Preview PreviewHandle
}

// Collection owns the ordered image slots of one listing edit session,
// the principal designation, and the set of storage paths queued for
// deletion. It is created empty for a new listing or seeded from the
// stored URL array for an edit, and is discarded after submission.
//
// All collection mutations run on the single goroutine driving the
// form session. During an upload pass the orchestrator's goroutines
// write only their own slot's record, so no locking is needed here.
type Collection struct {
	ownerID       string
	maxImages     int
	slots         []*Slot
	principalID   string
	pendingDelete []string
}

// NewCollection creates an empty collection for a new listing.
func NewCollection(ownerID string, maxImages int) *Collection {
	return &Collection{
		ownerID:   ownerID,
		maxImages: maxImages,
	}
}

// NewCollectionFromExisting seeds a collection from a listing's stored
// URLs for the edit flow. The first URL is the current principal.
// pathOf derives the storage path behind each public URL.
func NewCollectionFromExisting(ownerID string, maxImages int, urls []string, pathOf func(url string) string) *Collection {
	c := NewCollection(ownerID, maxImages)
	for _, u := range urls {
		if u == "" {
			continue
		}
		slot := existingSlot(u, pathOf(u))
		c.slots = append(c.slots, slot)
		if c.principalID == "" {
			c.principalID = slot.ID
		}
	}
	return c
}

// Add accepts files up to the remaining capacity. Each accepted file
// becomes a pending slot; the first slot added to an empty collection
// becomes principal. If any file was rejected for capacity the
// accepted ids are still returned together with ErrCollectionFull.
func (c *Collection) Add(files []File) ([]string, error) {
	remaining := c.maxImages - len(c.slots)
	if remaining < 0 {
		remaining = 0
	}

	accepted := files
	rejected := 0
	if len(files) > remaining {
		accepted = files[:remaining]
		rejected = len(files) - remaining
	}

	ids := make([]string, 0, len(accepted))
	for _, f := range accepted {
		slot := newSlot(f.Name, StoragePathStem(c.ownerID, f.Name), f.Data, f.Preview)
		c.slots = append(c.slots, slot)
		ids = append(ids, slot.ID)
		if c.principalID == "" {
			c.principalID = slot.ID
		}
	}

	if rejected > 0 {
		return ids, fmt.Errorf("%w: %d file(s) rejected, limit is %d", ErrCollectionFull, rejected, c.maxImages)
	}
	return ids, nil
}

// Remove deletes a slot. An existing slot's storage path is queued for
// deferred deletion at submission time. Removing the principal
// reassigns it to the lowest-index remaining slot that is not failed.
// The slot's local preview is released here.
func (c *Collection) Remove(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrSlotNotFound
	}

	slot := c.slots[idx]
	if slot.Source == SourceExisting && slot.StoragePath != "" {
		c.pendingDelete = append(c.pendingDelete, slot.StoragePath)
	}
	slot.releasePreview()

	c.slots = append(c.slots[:idx], c.slots[idx+1:]...)

	if c.principalID == id {
		c.principalID = ""
		for _, s := range c.slots {
			if s.State != StateFailed {
				c.principalID = s.ID
				break
			}
		}
	}
	return nil
}

// SetPrincipal designates a slot as the cover image. Slots that are
// mid-flight or failed are not eligible; the current principal is left
// unchanged in that case.
func (c *Collection) SetPrincipal(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrSlotNotFound
	}
	if !c.slots[idx].eligiblePrincipal() {
		return ErrPrincipalNotEligible
	}
	c.principalID = id
	return nil
}

// Snapshot returns a read-only ordered view for rendering.
func (c *Collection) Snapshot() []SlotView {
	views := make([]SlotView, 0, len(c.slots))
	for _, s := range c.slots {
		views = append(views, SlotView{
			ID:          s.ID,
			Source:      s.Source,
			State:       s.State,
			FileName:    s.FileName,
			PreviewURL:  s.PreviewURL(),
			RemoteURL:   s.RemoteURL,
			ErrorDetail: s.ErrorDetail,
			Principal:   s.ID == c.principalID,
		})
	}
	return views
}

// Len returns the number of slots.
func (c *Collection) Len() int {
	return len(c.slots)
}

// PrincipalID returns the current principal slot id, empty if the
// collection is empty.
func (c *Collection) PrincipalID() string {
	return c.principalID
}

// Close releases every remaining local preview handle. Called on
// session teardown; safe after a submission already released some.
func (c *Collection) Close() {
	for _, s := range c.slots {
		s.releasePreview()
	}
}

func (c *Collection) indexOf(id string) int {
	for i, s := range c.slots {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// pendingSlots returns the slots awaiting compression and upload.
func (c *Collection) pendingSlots() []*Slot {
	var out []*Slot
	for _, s := range c.slots {
		if s.State == StatePending {
			out = append(out, s)
		}
	}
	return out
}

// failedCount counts slots stuck in the failed state.
func (c *Collection) failedCount() (int, string) {
	count := 0
	sample := ""
	for _, s := range c.slots {
		if s.State == StateFailed {
			count++
			if sample == "" {
				sample = s.ErrorDetail
			}
		}
	}
	return count, sample
}

// retryFailed moves every failed slot that still holds local bytes
// back to pending. Slots whose bytes are gone stay failed until the
// user removes them.
func (c *Collection) retryFailed() {
	for _, s := range c.slots {
		if s.retryable() {
			_ = s.retry()
		}
	}
}

// takePendingDeletes consumes the deferred deletion set. It is drained
// once per submission attempt so a retried save does not re-issue
// deletions already handed off.
func (c *Collection) takePendingDeletes() []string {
	paths := c.pendingDelete
	c.pendingDelete = nil
	return paths
}

// resolvePrincipalURL returns the URL to store first in the image
// array. When the designated principal no longer resolves it falls
// back to the first slot with a remote URL and reports the fallback.
func (c *Collection) resolvePrincipalURL() (url string, fellBack bool) {
	if idx := c.indexOf(c.principalID); idx >= 0 {
		if s := c.slots[idx]; s.State == StateUploaded && s.RemoteURL != "" {
			return s.RemoteURL, false
		}
	}
	for _, s := range c.slots {
		if s.State == StateUploaded && s.RemoteURL != "" {
			return s.RemoteURL, true
		}
	}
	return "", false
}

// finalURLs builds the persisted array: principal first, then the
// remaining uploaded URLs in collection order, without duplicates.
func (c *Collection) finalURLs(principalURL string) []string {
	urls := []string{principalURL}
	seen := map[string]bool{principalURL: true}
	for _, s := range c.slots {
		if s.State != StateUploaded || s.RemoteURL == "" || seen[s.RemoteURL] {
			continue
		}
		urls = append(urls, s.RemoteURL)
		seen[s.RemoteURL] = true
	}
	return urls
}
