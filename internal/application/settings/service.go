package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-notify-api/internal/domain"
	"github.com/go-notify-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldInApp          = "in_app_notifications"
	fieldEmail          = "email_notifications"
	fieldFriendRequests = "friend_requests"
	fieldGameUpdates    = "game_updates"
	fieldAchievements   = "achievements"
	fieldPurchases      = "purchases"
	fieldSystem         = "system_notifications"
	fieldUpdatedAt      = "updated_at"
)

// CacheKey returns the cache key for a user's settings, shared across tiers.
func CacheKey(userID string) string { return "settings:" + userID }

type Service interface {
	Get(ctx context.Context, userID string) (*domain.NotificationSettings, error)
	Update(ctx context.Context, userID string, req domain.UpdateSettingsRequest) (*domain.NotificationSettings, error)
}

type settingsStore interface {
	GetByUser(ctx context.Context, userID string) (*domain.NotificationSettings, error)
	Put(ctx context.Context, s *domain.NotificationSettings) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type settingsCache interface {
	Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
}

type service struct {
	repo     settingsStore
	cache    settingsCache
	cacheTTL time.Duration
}

type ServiceDeps struct {
	SettingsRepo settingsStore
	Cache        settingsCache
	CacheTTL     time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.SettingsRepo,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
	}
}

// Get returns the user's settings, reading through the cache. A user without
// a settings record gets a default-enabled one created on the spot — absence
// is never an error.
func (s *service) Get(ctx context.Context, userID string) (*domain.NotificationSettings, error) {
	key := CacheKey(userID)
	if raw, ok := s.cache.Get(ctx, key, s.cacheTTL); ok {
		var cached domain.NotificationSettings
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		// Corrupt entry reads as a miss; the write below replaces it.
	}

	loaded, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.populateCache(ctx, key, loaded)
	return loaded, nil
}

// Update applies the non-nil fields, persists, and refreshes the cache so a
// cache-only read immediately after observes the new value.
func (s *service) Update(ctx context.Context, userID string, req domain.UpdateSettingsRequest) (*domain.NotificationSettings, error) {
	current, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.InAppNotifications != nil {
		updates[fieldInApp] = *req.InAppNotifications
	}
	if req.EmailNotifications != nil {
		updates[fieldEmail] = *req.EmailNotifications
	}
	if req.FriendRequests != nil {
		updates[fieldFriendRequests] = *req.FriendRequests
	}
	if req.GameUpdates != nil {
		updates[fieldGameUpdates] = *req.GameUpdates
	}
	if req.Achievements != nil {
		updates[fieldAchievements] = *req.Achievements
	}
	if req.Purchases != nil {
		updates[fieldPurchases] = *req.Purchases
	}
	if req.SystemNotifications != nil {
		updates[fieldSystem] = *req.SystemNotifications
	}
	if len(updates) == 0 {
		return current, nil
	}
	updates[fieldUpdatedAt] = time.Now().UTC()

	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	merged, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := CacheKey(userID)
	s.cache.Invalidate(ctx, key)
	s.populateCache(ctx, key, merged)
	return merged, nil
}

func (s *service) loadOrCreate(ctx context.Context, userID string) (*domain.NotificationSettings, error) {
	existing, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	defaults := &domain.NotificationSettings{
		SettingsID:          id.New(),
		UserID:              userID,
		InAppNotifications:  true,
		EmailNotifications:  true,
		FriendRequests:      true,
		GameUpdates:         true,
		Achievements:        true,
		Purchases:           true,
		SystemNotifications: true,
		UpdatedAt:           time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

func (s *service) populateCache(ctx context.Context, key string, settings *domain.NotificationSettings) {
	raw, err := json.Marshal(settings)
	if err != nil {
		log.Printf("WARN: marshal settings for cache %s: %v", key, err)
		return
	}
	s.cache.Set(ctx, key, raw, s.cacheTTL)
}
