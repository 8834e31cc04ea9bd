package media

import "context"

// ObjectStore is the consumed storage contract. Put returns the public
// URL of the stored object. Remove is batch and best-effort at the
// call sites that use it that way. PublicURL and PathFromURL are
// deterministic derivations with no network call.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, paths []string) error
	PublicURL(path string) string
	PathFromURL(url string) string
}

// Orchestrator drives the concurrent compress-and-upload pass over a
// collection's pending slots.
type Orchestrator struct {
	compressor Compressor
	store      ObjectStore
	policy     Policy
}

func NewOrchestrator(compressor Compressor, store ObjectStore, policy Policy) *Orchestrator {
	return &Orchestrator{
		compressor: compressor,
		store:      store,
		policy:     policy,
	}
}

// Upload fans out one goroutine per pending slot, each running
// compression then store put, and joins on every outcome before
// deciding. No admission control is needed since the collection
// cardinality is capped. Each goroutine updates only its own slot.
//
// If any slot ends up failed, including failures left over from a
// previous attempt, an UploadAggregateError is returned and the
// submission must be rejected. Slots that succeeded stay uploaded so a
// retry does not re-upload them. Existing slots pass through untouched.
func (o *Orchestrator) Upload(ctx context.Context, col *Collection) error {
	pending := col.pendingSlots()

	done := make(chan struct{}, len(pending))
	for _, slot := range pending {
		go func(s *Slot) {
			o.process(ctx, s)
			done <- struct{}{}
		}(slot)
	}
	for range pending {
		<-done
	}

	if count, sample := col.failedCount(); count > 0 {
		return &UploadAggregateError{Count: count, Sample: sample}
	}
	return nil
}

// process runs one slot through the pipeline. It owns the slot record
// for the duration of the pass and writes nothing else.
func (o *Orchestrator) process(ctx context.Context, s *Slot) {
	if err := s.markCompressing(); err != nil {
		return
	}

	compressed, err := o.compressor.Compress(ctx, s.data, o.policy)
	if err != nil {
		cerr := &CompressionError{SlotID: s.ID, Err: err}
		_ = s.markFailed(cerr.Error())
		return
	}

	if err := s.markUploading(); err != nil {
		return
	}

	path := pathWithExt(s.StoragePath, compressed.Ext)
	url, err := o.store.Put(ctx, path, compressed.Data, compressed.ContentType)
	if err != nil {
		serr := &StoreError{SlotID: s.ID, Path: path, Err: err}
		_ = s.markFailed(serr.Error())
		return
	}

	_ = s.markUploaded(url, path)
}
