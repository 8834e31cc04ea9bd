package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLifecycleHappyPath(t *testing.T) {
	s := newSlot("a.jpg", "owner/t-a", []byte("a"), nil)
	assert.Equal(t, StatePending, s.State)

	require.NoError(t, s.markCompressing())
	require.NoError(t, s.markUploading())
	require.NoError(t, s.markUploaded("http://s/a.jpg", "owner/t-a.jpg"))

	assert.Equal(t, StateUploaded, s.State)
	assert.Equal(t, "http://s/a.jpg", s.RemoteURL)
	assert.Equal(t, "owner/t-a.jpg", s.StoragePath)
	assert.Nil(t, s.data)
}

func TestSlotUploadedNeverRegressesToFailed(t *testing.T) {
	s := newSlot("a.jpg", "owner/t-a", []byte("a"), nil)
	require.NoError(t, s.markCompressing())
	require.NoError(t, s.markUploading())
	require.NoError(t, s.markUploaded("http://s/a.jpg", "owner/t-a.jpg"))

	assert.ErrorIs(t, s.markFailed("late failure"), ErrInvalidTransition)
	assert.Equal(t, StateUploaded, s.State)
	assert.Empty(t, s.ErrorDetail)
}

func TestSlotInvalidTransitions(t *testing.T) {
	s := newSlot("a.jpg", "owner/t-a", []byte("a"), nil)

	assert.ErrorIs(t, s.markUploading(), ErrInvalidTransition)
	assert.ErrorIs(t, s.markUploaded("u", "p"), ErrInvalidTransition)
	assert.ErrorIs(t, s.markFailed("x"), ErrInvalidTransition)
}

func TestSlotRetryRequiresLocalData(t *testing.T) {
	s := newSlot("a.jpg", "owner/t-a", []byte("a"), nil)
	require.NoError(t, s.markCompressing())
	require.NoError(t, s.markFailed("boom"))

	require.NoError(t, s.retry())
	assert.Equal(t, StatePending, s.State)
	assert.Empty(t, s.ErrorDetail)

	require.NoError(t, s.markCompressing())
	require.NoError(t, s.markFailed("boom again"))
	s.data = nil

	assert.ErrorIs(t, s.retry(), ErrNotRetryable)
	assert.Equal(t, StateFailed, s.State)
}

func TestExistingSlotCannotRetry(t *testing.T) {
	s := existingSlot("http://s/a.jpg", "owner/a.jpg")
	s.State = StateFailed

	assert.ErrorIs(t, s.retry(), ErrNotRetryable)
}

func TestSlotPrincipalEligibility(t *testing.T) {
	s := newSlot("a.jpg", "owner/t-a", []byte("a"), nil)
	assert.True(t, s.eligiblePrincipal())

	require.NoError(t, s.markCompressing())
	assert.False(t, s.eligiblePrincipal())

	require.NoError(t, s.markUploading())
	assert.False(t, s.eligiblePrincipal())

	require.NoError(t, s.markUploaded("u", "p"))
	assert.True(t, s.eligiblePrincipal())
}

func TestSlotPreviewURLPrefersRemote(t *testing.T) {
	preview := &fakePreview{url: "blob:local"}
	s := newSlot("a.jpg", "owner/t-a", []byte("a"), preview)
	assert.Equal(t, "blob:local", s.PreviewURL())

	require.NoError(t, s.markCompressing())
	require.NoError(t, s.markUploading())
	require.NoError(t, s.markUploaded("http://s/a.jpg", "owner/t-a.jpg"))

	assert.Equal(t, "http://s/a.jpg", s.PreviewURL())
	assert.Equal(t, 1, preview.released)
}
