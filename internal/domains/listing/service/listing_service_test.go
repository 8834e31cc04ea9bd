package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"directory-backend/internal/config"
	"directory-backend/internal/domains/listing/model"
	"directory-backend/internal/media"
)

// ===== MOCKS =====

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Create(ctx context.Context, listing *model.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) Update(ctx context.Context, listing *model.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *mockListingRepo) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *mockListingRepo) List(ctx context.Context, filter model.ListFilter) ([]model.Listing, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *mockListingRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockListingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ListingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockListingRepo) TransferOwnership(ctx context.Context, id, newOwnerID uuid.UUID) error {
	args := m.Called(ctx, id, newOwnerID)
	return args.Error(0)
}

func (m *mockListingRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepo) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]model.Listing, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Listing), args.Error(1)
}

func (m *mockListingRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, keys ...string) error        { return nil }
func (noopCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (noopCache) Ping(ctx context.Context) error                          { return nil }

type stubStore struct {
	mu      sync.Mutex
	puts    []string
	removed [][]string
}

func (s *stubStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = append(s.puts, path)
	return s.PublicURL(path), nil
}

func (s *stubStore) Remove(ctx context.Context, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, paths)
	return nil
}

func (s *stubStore) PublicURL(path string) string {
	return "http://store.test/bucket/" + path
}

func (s *stubStore) PathFromURL(url string) string {
	return strings.TrimPrefix(url, "http://store.test/bucket/")
}

type stubCompressor struct{}

func (stubCompressor) Compress(ctx context.Context, data []byte, policy media.Policy) (*media.Compressed, error) {
	return &media.Compressed{Data: data, ContentType: "image/jpeg", Ext: "jpg"}, nil
}

type stubEnqueuer struct {
	cleanup [][]string
	deleted []string
}

func (e *stubEnqueuer) EnqueueCleanup(ctx context.Context, paths []string) error {
	e.cleanup = append(e.cleanup, paths)
	return nil
}

func (e *stubEnqueuer) EnqueueDeleteListingImages(ctx context.Context, listingID string, paths []string) error {
	e.deleted = append(e.deleted, listingID)
	return nil
}

func testMediaConfig() config.MediaConfig {
	return config.MediaConfig{
		MaxImages:      15,
		MaxUploadBytes: 10 << 20,
		MaxDimensionPx: 1920,
		TargetFormat:   "jpeg",
		Quality:        90,
	}
}

func newTestService(repo *mockListingRepo, store *stubStore, enq *stubEnqueuer) ListingService {
	return NewListingService(repo, noopCache{}, store, stubCompressor{}, enq, testMediaConfig())
}

// ===== TESTS =====

func TestCreateWritesImagesPrincipalFirst(t *testing.T) {
	repo := new(mockListingRepo)
	store := &stubStore{}
	svc := newTestService(repo, store, &stubEnqueuer{})

	repo.On("SlugExists", mock.Anything, "cafe-central").Return(false, nil)

	var saved *model.Listing
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Listing")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*model.Listing)
		}).
		Return(nil)

	ownerID := uuid.NewString()
	req := model.CreateListingRequest{
		Name:     "Cafe Central",
		Category: "restaurant",
		Address:  "1 Main Street",
		City:     "Springfield",
	}
	files := []media.File{
		{Name: "front.jpg", Data: []byte("front")},
		{Name: "inside.jpg", Data: []byte("inside")},
	}

	result, err := svc.Create(context.Background(), ownerID, req, files)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Len(t, saved.Images, 2)
	require.NotNil(t, saved.CoverURL)
	assert.Equal(t, saved.Images[0], *saved.CoverURL)
	assert.Equal(t, model.StatusPending, saved.Status)
	assert.False(t, saved.Visible)
	assert.Equal(t, "cafe-central", saved.Slug)
	assert.Len(t, result.Listing.Images, 2)

	repo.AssertExpectations(t)
}

func TestCreateRejectsTooManyImages(t *testing.T) {
	repo := new(mockListingRepo)
	svc := newTestService(repo, &stubStore{}, &stubEnqueuer{})

	files := make([]media.File, 16)
	for i := range files {
		files[i] = media.File{Name: "f.jpg", Data: []byte("x")}
	}

	req := model.CreateListingRequest{
		Name:     "Cafe Central",
		Category: "restaurant",
		Address:  "1 Main Street",
		City:     "Springfield",
	}

	_, err := svc.Create(context.Background(), uuid.NewString(), req, files)
	assert.ErrorIs(t, err, media.ErrCollectionFull)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateReconcilesDroppedImages(t *testing.T) {
	repo := new(mockListingRepo)
	store := &stubStore{}
	svc := newTestService(repo, store, &stubEnqueuer{})

	ownerID := uuid.New()
	listingID := uuid.New()
	existing := &model.Listing{
		ID:      listingID,
		OwnerID: ownerID,
		Name:    "Cafe Central",
		Slug:    "cafe-central",
		Status:  model.StatusApproved,
	}
	urlA := store.PublicURL("owner/a.jpg")
	urlB := store.PublicURL("owner/b.jpg")
	existing.SetImages([]string{urlA, urlB})

	repo.On("GetByID", mock.Anything, listingID).Return(existing, nil)

	var saved *model.Listing
	repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Listing")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*model.Listing)
		}).
		Return(nil)

	req := model.UpdateListingRequest{
		Name:       "Cafe Central",
		Category:   "restaurant",
		Address:    "1 Main Street",
		City:       "Springfield",
		KeptImages: []string{urlA},
	}

	_, err := svc.Update(context.Background(), ownerID.String(), false, listingID.String(), req, nil)
	require.NoError(t, err)

	require.Len(t, store.removed, 1)
	assert.Equal(t, []string{"owner/b.jpg"}, store.removed[0])

	require.NotNil(t, saved)
	assert.Equal(t, []string{urlA}, []string(saved.Images))
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	repo := new(mockListingRepo)
	svc := newTestService(repo, &stubStore{}, &stubEnqueuer{})

	listingID := uuid.New()
	existing := &model.Listing{
		ID:      listingID,
		OwnerID: uuid.New(),
		Name:    "Cafe Central",
	}
	existing.SetImages([]string{"http://store.test/bucket/owner/a.jpg"})

	repo.On("GetByID", mock.Anything, listingID).Return(existing, nil)

	req := model.UpdateListingRequest{
		Name:     "Cafe Central",
		Category: "restaurant",
		Address:  "1 Main Street",
		City:     "Springfield",
	}

	_, err := svc.Update(context.Background(), uuid.NewString(), false, listingID.String(), req, nil)
	assert.ErrorIs(t, err, model.ErrNotOwner)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteEnqueuesImageCleanup(t *testing.T) {
	repo := new(mockListingRepo)
	store := &stubStore{}
	enq := &stubEnqueuer{}
	svc := newTestService(repo, store, enq)

	ownerID := uuid.New()
	listingID := uuid.New()
	existing := &model.Listing{ID: listingID, OwnerID: ownerID}
	existing.SetImages([]string{store.PublicURL("owner/a.jpg")})

	repo.On("GetByID", mock.Anything, listingID).Return(existing, nil)
	repo.On("SoftDelete", mock.Anything, listingID).Return(nil)

	err := svc.Delete(context.Background(), ownerID.String(), false, listingID.String())
	require.NoError(t, err)

	assert.Equal(t, []string{listingID.String()}, enq.deleted)
	repo.AssertExpectations(t)
}

func TestModerateRejectsUnknownStatus(t *testing.T) {
	repo := new(mockListingRepo)
	svc := newTestService(repo, &stubStore{}, &stubEnqueuer{})

	err := svc.Moderate(context.Background(), uuid.NewString(), model.ModerateRequest{Status: "archived"})
	require.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
