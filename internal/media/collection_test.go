package media

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePreview struct {
	url      string
	released int
}

func (p *fakePreview) URL() string { return p.url }
func (p *fakePreview) Release()    { p.released++ }

func testFile(name string) File {
	return File{Name: name, Data: []byte(name)}
}

func pathOf(url string) string {
	return "path-of-" + url
}

func TestCollectionAddAssignsPrincipal(t *testing.T) {
	col := NewCollection("owner-1", 5)

	ids, err := col.Add([]File{testFile("a.jpg"), testFile("b.jpg"), testFile("c.jpg")})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	assert.Equal(t, 3, col.Len())
	assert.Equal(t, ids[0], col.PrincipalID())

	for _, view := range col.Snapshot() {
		assert.Equal(t, StatePending, view.State)
		assert.Equal(t, SourceNew, view.Source)
	}
}

func TestCollectionCapacityBound(t *testing.T) {
	col := NewCollection("owner-1", 2)

	ids, err := col.Add([]File{testFile("a.jpg"), testFile("b.jpg"), testFile("c.jpg")})
	require.ErrorIs(t, err, ErrCollectionFull)
	assert.Len(t, ids, 2)
	assert.Equal(t, 2, col.Len())

	// Full collection rejects everything.
	ids, err = col.Add([]File{testFile("d.jpg")})
	require.ErrorIs(t, err, ErrCollectionFull)
	assert.Empty(t, ids)
	assert.Equal(t, 2, col.Len())
}

func TestCollectionLengthNeverExceedsMax(t *testing.T) {
	col := NewCollection("owner-1", 4)

	var ids []string
	for i := 0; i < 10; i++ {
		added, _ := col.Add([]File{testFile(fmt.Sprintf("f%d.jpg", i))})
		ids = append(ids, added...)
		assert.LessOrEqual(t, col.Len(), 4)

		if i%3 == 2 && len(ids) > 0 {
			require.NoError(t, col.Remove(ids[0]))
			ids = ids[1:]
			assert.LessOrEqual(t, col.Len(), 4)
		}
	}
}

func TestCollectionRemovePrincipalReassigns(t *testing.T) {
	col := NewCollection("owner-1", 5)
	ids, err := col.Add([]File{testFile("a.jpg"), testFile("b.jpg"), testFile("c.jpg")})
	require.NoError(t, err)

	require.Equal(t, ids[0], col.PrincipalID())

	// Removing a non-principal slot leaves the principal alone.
	require.NoError(t, col.Remove(ids[1]))
	assert.Equal(t, ids[0], col.PrincipalID())

	// Removing the principal promotes the lowest-index remaining slot.
	require.NoError(t, col.Remove(ids[0]))
	assert.Equal(t, ids[2], col.PrincipalID())

	// Emptying the collection clears the principal.
	require.NoError(t, col.Remove(ids[2]))
	assert.Equal(t, 0, col.Len())
	assert.Empty(t, col.PrincipalID())
}

func TestCollectionRemovePrincipalSkipsFailedSlots(t *testing.T) {
	col := NewCollection("owner-1", 5)
	ids, err := col.Add([]File{testFile("a.jpg"), testFile("b.jpg"), testFile("c.jpg")})
	require.NoError(t, err)

	second := col.slots[1]
	require.NoError(t, second.markCompressing())
	require.NoError(t, second.markFailed("boom"))

	require.NoError(t, col.Remove(ids[0]))
	assert.Equal(t, ids[2], col.PrincipalID())
}

func TestCollectionSetPrincipalEligibility(t *testing.T) {
	col := NewCollection("owner-1", 5)
	ids, err := col.Add([]File{testFile("a.jpg"), testFile("b.jpg")})
	require.NoError(t, err)

	require.NoError(t, col.SetPrincipal(ids[1]))
	assert.Equal(t, ids[1], col.PrincipalID())

	assert.ErrorIs(t, col.SetPrincipal("nope"), ErrSlotNotFound)

	// A slot mid-flight cannot become principal; the current one stays.
	require.NoError(t, col.slots[0].markCompressing())
	assert.ErrorIs(t, col.SetPrincipal(ids[0]), ErrPrincipalNotEligible)
	assert.Equal(t, ids[1], col.PrincipalID())

	require.NoError(t, col.slots[0].markFailed("boom"))
	assert.ErrorIs(t, col.SetPrincipal(ids[0]), ErrPrincipalNotEligible)
	assert.Equal(t, ids[1], col.PrincipalID())
}

func TestCollectionRemoveExistingQueuesDeletion(t *testing.T) {
	urls := []string{"http://s/a.jpg", "http://s/b.jpg"}
	col := NewCollectionFromExisting("owner-1", 5, urls, pathOf)
	require.Equal(t, 2, col.Len())

	views := col.Snapshot()
	require.NoError(t, col.Remove(views[1].ID))

	assert.Equal(t, []string{"path-of-http://s/b.jpg"}, col.takePendingDeletes())
	assert.Empty(t, col.takePendingDeletes())
}

func TestCollectionRemoveNewSlotDoesNotQueueDeletion(t *testing.T) {
	col := NewCollection("owner-1", 5)
	ids, err := col.Add([]File{testFile("a.jpg")})
	require.NoError(t, err)

	require.NoError(t, col.Remove(ids[0]))
	assert.Empty(t, col.takePendingDeletes())
}

func TestCollectionPreviewReleasedOnce(t *testing.T) {
	preview := &fakePreview{url: "blob:1"}
	col := NewCollection("owner-1", 5)
	ids, err := col.Add([]File{{Name: "a.jpg", Data: []byte("a"), Preview: preview}})
	require.NoError(t, err)

	require.NoError(t, col.Remove(ids[0]))
	col.Close()

	assert.Equal(t, 1, preview.released)
}

func TestCollectionCloseReleasesRemainingPreviews(t *testing.T) {
	p1 := &fakePreview{url: "blob:1"}
	p2 := &fakePreview{url: "blob:2"}

	col := NewCollection("owner-1", 5)
	_, err := col.Add([]File{
		{Name: "a.jpg", Data: []byte("a"), Preview: p1},
		{Name: "b.jpg", Data: []byte("b"), Preview: p2},
	})
	require.NoError(t, err)

	col.Close()
	col.Close()

	assert.Equal(t, 1, p1.released)
	assert.Equal(t, 1, p2.released)
}

func TestCollectionSeededFromExistingIsUploaded(t *testing.T) {
	urls := []string{"http://s/a.jpg", "http://s/b.jpg", "http://s/c.jpg"}
	col := NewCollectionFromExisting("owner-1", 15, urls, pathOf)

	views := col.Snapshot()
	require.Len(t, views, 3)
	assert.True(t, views[0].Principal)
	for i, v := range views {
		assert.Equal(t, SourceExisting, v.Source)
		assert.Equal(t, StateUploaded, v.State)
		assert.Equal(t, urls[i], v.RemoteURL)
	}
}
