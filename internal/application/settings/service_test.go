package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-notify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSettingsStore struct{ mock.Mock }

func (m *mockSettingsStore) GetByUser(ctx context.Context, userID string) (*domain.NotificationSettings, error) {
	args := m.Called(ctx, userID)
	if s, _ := args.Get(0).(*domain.NotificationSettings); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSettingsStore) Put(ctx context.Context, s *domain.NotificationSettings) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSettingsStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

// fakeCache is an in-memory settingsCache that records cache traffic.
type fakeCache struct {
	data        map[string][]byte
	invalidates int
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (f *fakeCache) Get(_ context.Context, key string, _ time.Duration) ([]byte, bool) {
	v, ok := f.data[key]
	return v, ok
}
func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	f.data[key] = value
}
func (f *fakeCache) Invalidate(_ context.Context, key string) {
	f.invalidates++
	delete(f.data, key)
}

// --- helpers ---

func newService(repo *mockSettingsStore, cache *fakeCache) Service {
	return NewService(ServiceDeps{SettingsRepo: repo, Cache: cache, CacheTTL: time.Hour})
}

func enabledSettings(userID string) *domain.NotificationSettings {
	return &domain.NotificationSettings{
		SettingsID:          "s1",
		UserID:              userID,
		InAppNotifications:  true,
		EmailNotifications:  true,
		FriendRequests:      true,
		GameUpdates:         true,
		Achievements:        true,
		Purchases:           true,
		SystemNotifications: true,
	}
}

func ptr[T any](v T) *T { return &v }

// --- Get tests ---

func TestGet_CacheHit_SkipsStore(t *testing.T) {
	repo := &mockSettingsStore{}
	cache := newFakeCache()
	raw, _ := json.Marshal(enabledSettings("u1"))
	cache.data[CacheKey("u1")] = raw

	svc := newService(repo, cache)
	got, err := svc.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	repo.AssertNotCalled(t, "GetByUser")
}

func TestGet_CacheMiss_LoadsAndPopulates(t *testing.T) {
	repo := &mockSettingsStore{}
	repo.On("GetByUser", mock.Anything, "u1").Return(enabledSettings("u1"), nil)
	cache := newFakeCache()

	svc := newService(repo, cache)
	got, err := svc.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.True(t, got.EmailNotifications)
	_, cached := cache.data[CacheKey("u1")]
	assert.True(t, cached, "cache must be populated after a miss")
	repo.AssertExpectations(t)
}

func TestGet_MissingRecord_CreatesDefaults(t *testing.T) {
	repo := &mockSettingsStore{}
	repo.On("GetByUser", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.NotificationSettings")).Return(nil)
	cache := newFakeCache()

	svc := newService(repo, cache)
	got, err := svc.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.InAppNotifications)
	assert.True(t, got.EmailNotifications)
	assert.True(t, got.Purchases)
	assert.NotEmpty(t, got.SettingsID)
	repo.AssertExpectations(t)
}

func TestGet_StoreError_Propagates(t *testing.T) {
	repo := &mockSettingsStore{}
	storeErr := errors.New("dynamo down")
	repo.On("GetByUser", mock.Anything, "u1").Return(nil, storeErr)

	svc := newService(repo, newFakeCache())
	_, err := svc.Get(context.Background(), "u1")

	require.Error(t, err)
	assert.Equal(t, storeErr, err)
}

func TestGet_CorruptCacheEntry_FallsBackToStore(t *testing.T) {
	repo := &mockSettingsStore{}
	repo.On("GetByUser", mock.Anything, "u1").Return(enabledSettings("u1"), nil)
	cache := newFakeCache()
	cache.data[CacheKey("u1")] = []byte("{not json")

	svc := newService(repo, cache)
	got, err := svc.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	repo.AssertExpectations(t)
}

// --- Update tests ---

func TestUpdate_EmptyRequest_ReturnsCurrent(t *testing.T) {
	repo := &mockSettingsStore{}
	repo.On("GetByUser", mock.Anything, "u1").Return(enabledSettings("u1"), nil)

	svc := newService(repo, newFakeCache())
	got, err := svc.Update(context.Background(), "u1", domain.UpdateSettingsRequest{})

	require.NoError(t, err)
	assert.True(t, got.EmailNotifications)
	repo.AssertNotCalled(t, "Update")
}

func TestUpdate_PartialFields_OnlyThoseChange(t *testing.T) {
	repo := &mockSettingsStore{}
	repo.On("GetByUser", mock.Anything, "u1").Return(enabledSettings("u1"), nil).Once()
	repo.On("Update", mock.Anything, "u1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		_, hasEmail := updates[fieldEmail]
		_, hasInApp := updates[fieldInApp]
		_, hasUpdatedAt := updates[fieldUpdatedAt]
		return hasEmail && hasUpdatedAt && !hasInApp
	})).Return(nil)
	updated := enabledSettings("u1")
	updated.EmailNotifications = false
	repo.On("GetByUser", mock.Anything, "u1").Return(updated, nil).Once()

	svc := newService(repo, newFakeCache())
	got, err := svc.Update(context.Background(), "u1", domain.UpdateSettingsRequest{
		EmailNotifications: ptr(false),
	})

	require.NoError(t, err)
	assert.False(t, got.EmailNotifications)
	assert.True(t, got.InAppNotifications)
	repo.AssertExpectations(t)
}

func TestUpdate_RefreshesCache(t *testing.T) {
	repo := &mockSettingsStore{}
	repo.On("GetByUser", mock.Anything, "u1").Return(enabledSettings("u1"), nil).Once()
	repo.On("Update", mock.Anything, "u1", mock.Anything).Return(nil)
	updated := enabledSettings("u1")
	updated.EmailNotifications = false
	repo.On("GetByUser", mock.Anything, "u1").Return(updated, nil).Once()

	cache := newFakeCache()
	svc := newService(repo, cache)
	_, err := svc.Update(context.Background(), "u1", domain.UpdateSettingsRequest{
		EmailNotifications: ptr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.invalidates)

	// Settings round-trip: a cache-only read now observes the new value.
	raw, ok := cache.data[CacheKey("u1")]
	require.True(t, ok)
	var cached domain.NotificationSettings
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.False(t, cached.EmailNotifications)
}

func TestUpdate_MissingRecord_CreatesThenApplies(t *testing.T) {
	repo := &mockSettingsStore{}
	repo.On("GetByUser", mock.Anything, "u1").Return(nil, domain.ErrNotFound).Once()
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.NotificationSettings")).Return(nil)
	repo.On("Update", mock.Anything, "u1", mock.Anything).Return(nil)
	updated := enabledSettings("u1")
	updated.Purchases = false
	repo.On("GetByUser", mock.Anything, "u1").Return(updated, nil).Once()

	svc := newService(repo, newFakeCache())
	got, err := svc.Update(context.Background(), "u1", domain.UpdateSettingsRequest{
		Purchases: ptr(false),
	})

	require.NoError(t, err)
	assert.False(t, got.Purchases)
	repo.AssertExpectations(t)
}

func TestUpdate_PersistError_Propagates(t *testing.T) {
	repo := &mockSettingsStore{}
	repo.On("GetByUser", mock.Anything, "u1").Return(enabledSettings("u1"), nil)
	storeErr := errors.New("dynamo down")
	repo.On("Update", mock.Anything, "u1", mock.Anything).Return(storeErr)

	svc := newService(repo, newFakeCache())
	_, err := svc.Update(context.Background(), "u1", domain.UpdateSettingsRequest{
		GameUpdates: ptr(false),
	})

	require.Error(t, err)
	assert.Equal(t, storeErr, err)
}
