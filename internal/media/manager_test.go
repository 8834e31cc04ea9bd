package media

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	calls  int
	images []string
	err    error
}

func (w *recordingWriter) write(ctx context.Context, images []string) (string, error) {
	w.calls++
	w.images = images
	if w.err != nil {
		return "", w.err
	}
	return "listing-123", nil
}

type fakeCleanupQueue struct {
	mu    sync.Mutex
	paths [][]string
	err   error
}

func (q *fakeCleanupQueue) EnqueueCleanup(ctx context.Context, paths []string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.paths = append(q.paths, paths)
	return q.err
}

func newTestManager(col *Collection, store *fakeStore, queue CleanupQueue, editing bool) *Manager {
	orch := NewOrchestrator(&fakeCompressor{}, store, testPolicy())
	var rec *Reconciler
	if editing {
		rec = NewReconciler(store, queue)
	}
	return NewManager(col, orch, rec, editing)
}

func TestSubmitEmptyCollectionIsValidationError(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(NewCollection("owner-1", 5), store, nil, false)

	writer := &recordingWriter{}
	_, _, err := m.Submit(context.Background(), writer.write)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "images", vErr.Field)
	assert.Zero(t, writer.calls)
}

func TestSubmitNewListingWritesPrincipalFirst(t *testing.T) {
	store := newFakeStore()
	col := NewCollection("owner-1", 5)
	m := newTestManager(col, store, nil, false)

	ids, err := col.Add([]File{testFile("f1.jpg"), testFile("f2.jpg"), testFile("f3.jpg")})
	require.NoError(t, err)
	require.NoError(t, col.SetPrincipal(ids[1]))

	writer := &recordingWriter{}
	listingID, warnings, err := m.Submit(context.Background(), writer.write)
	require.NoError(t, err)

	assert.Equal(t, "listing-123", listingID)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, writer.calls)

	require.Len(t, writer.images, 3)
	assert.Equal(t, col.slots[1].RemoteURL, writer.images[0])

	seen := map[string]bool{}
	for _, u := range writer.images {
		assert.False(t, seen[u], "duplicate url %s", u)
		seen[u] = true
	}
}

// Three files added, one removed before submit: the remaining two are
// written with the untouched principal first.
func TestSubmitAfterRemovingNonPrincipal(t *testing.T) {
	store := newFakeStore()
	col := NewCollection("owner-1", 5)
	m := newTestManager(col, store, nil, false)

	ids, err := col.Add([]File{testFile("f1.jpg"), testFile("f2.jpg"), testFile("f3.jpg")})
	require.NoError(t, err)

	require.NoError(t, col.Remove(ids[1]))
	require.Equal(t, ids[0], col.PrincipalID())

	writer := &recordingWriter{}
	_, warnings, err := m.Submit(context.Background(), writer.write)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, writer.images, 2)
	assert.Equal(t, col.slots[0].RemoteURL, writer.images[0])
	assert.Equal(t, col.slots[1].RemoteURL, writer.images[1])
}

func TestSubmitFailedSlotWithoutDataBlocksWrite(t *testing.T) {
	store := newFakeStore()
	col := NewCollection("owner-1", 5)
	m := newTestManager(col, store, nil, false)

	_, err := col.Add([]File{testFile("a.jpg")})
	require.NoError(t, err)

	slot := col.slots[0]
	require.NoError(t, slot.markCompressing())
	require.NoError(t, slot.markFailed("boom"))
	slot.data = nil

	writer := &recordingWriter{}
	_, _, err = m.Submit(context.Background(), writer.write)

	var aggErr *UploadAggregateError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, 1, aggErr.Count)
	assert.Zero(t, writer.calls)
}

func TestSubmitRetriesFailedSlotWithData(t *testing.T) {
	store := newFakeStore()
	col := NewCollection("owner-1", 5)
	m := newTestManager(col, store, nil, false)

	_, err := col.Add([]File{testFile("a.jpg")})
	require.NoError(t, err)

	slot := col.slots[0]
	require.NoError(t, slot.markCompressing())
	require.NoError(t, slot.markFailed("transient"))

	writer := &recordingWriter{}
	_, _, err = m.Submit(context.Background(), writer.write)
	require.NoError(t, err)

	assert.Equal(t, StateUploaded, slot.State)
	assert.Equal(t, 1, writer.calls)
}

func TestSubmitAggregateFailureLeavesNoWrite(t *testing.T) {
	store := newFakeStore()
	store.failPut = func(path string) bool { return true }
	col := NewCollection("owner-1", 5)
	m := newTestManager(col, store, nil, false)

	_, err := col.Add([]File{testFile("a.jpg"), testFile("b.jpg")})
	require.NoError(t, err)

	writer := &recordingWriter{}
	_, _, err = m.Submit(context.Background(), writer.write)

	var aggErr *UploadAggregateError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, 2, aggErr.Count)
	assert.Zero(t, writer.calls)
}

// Edit session seeded with [A, B, C]: removing B and adding D must
// delete exactly B's object and write [A, C, urlOf(D)].
func TestSubmitEditReconcilesRemovedImages(t *testing.T) {
	store := newFakeStore()
	urlA := store.PublicURL("owner-1/a.jpg")
	urlB := store.PublicURL("owner-1/b.jpg")
	urlC := store.PublicURL("owner-1/c.jpg")

	col := NewCollectionFromExisting("owner-1", 5, []string{urlA, urlB, urlC}, store.PathFromURL)
	m := newTestManager(col, store, nil, true)

	views := col.Snapshot()
	require.NoError(t, col.Remove(views[1].ID))
	_, err := col.Add([]File{testFile("d.jpg")})
	require.NoError(t, err)

	writer := &recordingWriter{}
	_, warnings, err := m.Submit(context.Background(), writer.write)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, store.removed, 1)
	assert.Equal(t, []string{"owner-1/b.jpg"}, store.removed[0])

	require.Len(t, writer.images, 3)
	assert.Equal(t, urlA, writer.images[0])
	assert.Equal(t, urlC, writer.images[1])
	assert.Equal(t, col.slots[2].RemoteURL, writer.images[2])
}

func TestSubmitEditWithoutRemovalsNeverCallsRemove(t *testing.T) {
	store := newFakeStore()
	urlA := store.PublicURL("owner-1/a.jpg")

	col := NewCollectionFromExisting("owner-1", 5, []string{urlA}, store.PathFromURL)
	m := newTestManager(col, store, nil, true)

	writer := &recordingWriter{}
	_, _, err := m.Submit(context.Background(), writer.write)
	require.NoError(t, err)

	assert.Empty(t, store.removed)
}

func TestSubmitReconciliationFailureIsWarningNotError(t *testing.T) {
	store := newFakeStore()
	store.failRemove = errors.New("store unavailable")
	urlA := store.PublicURL("owner-1/a.jpg")
	urlB := store.PublicURL("owner-1/b.jpg")

	col := NewCollectionFromExisting("owner-1", 5, []string{urlA, urlB}, store.PathFromURL)
	queue := &fakeCleanupQueue{}
	m := newTestManager(col, store, queue, true)

	views := col.Snapshot()
	require.NoError(t, col.Remove(views[1].ID))

	writer := &recordingWriter{}
	_, warnings, err := m.Submit(context.Background(), writer.write)
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "cleanup deferred")
	assert.Equal(t, 1, writer.calls)

	// Failed deletions are handed to the background queue.
	require.Len(t, queue.paths, 1)
	assert.Equal(t, []string{"owner-1/b.jpg"}, queue.paths[0])
}

func TestSubmitRecordWriteFailurePropagates(t *testing.T) {
	store := newFakeStore()
	col := NewCollection("owner-1", 5)
	m := newTestManager(col, store, nil, false)

	_, err := col.Add([]File{testFile("a.jpg")})
	require.NoError(t, err)

	writer := &recordingWriter{err: errors.New("connection lost")}
	_, _, err = m.Submit(context.Background(), writer.write)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing record write failed")
}

func TestSubmitRetryAfterFailedSubmissionDoesNotRedeleteOrReupload(t *testing.T) {
	store := newFakeStore()
	urlA := store.PublicURL("owner-1/a.jpg")
	urlB := store.PublicURL("owner-1/b.jpg")

	col := NewCollectionFromExisting("owner-1", 5, []string{urlA, urlB}, store.PathFromURL)
	m := newTestManager(col, store, nil, true)

	views := col.Snapshot()
	require.NoError(t, col.Remove(views[1].ID))
	_, err := col.Add([]File{testFile("new.jpg")})
	require.NoError(t, err)

	// First attempt: the record write fails after reconciliation and
	// upload both went through.
	writer := &recordingWriter{err: errors.New("db down")}
	_, _, err = m.Submit(context.Background(), writer.write)
	require.Error(t, err)
	require.Len(t, store.removed, 1)
	uploadedURL := col.slots[1].RemoteURL
	require.NotEmpty(t, uploadedURL)

	// Second attempt succeeds without re-deleting or re-uploading.
	writer.err = nil
	_, _, err = m.Submit(context.Background(), writer.write)
	require.NoError(t, err)

	assert.Len(t, store.removed, 1)
	assert.Equal(t, uploadedURL, col.slots[1].RemoteURL)
	assert.Equal(t, []string{urlA, uploadedURL}, writer.images)
}
