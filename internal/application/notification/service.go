package notification

import (
	"context"
	"log"
	"time"

	"github.com/go-notify-api/internal/domain"
	"github.com/go-notify-api/internal/pkg/id"
)

type Service interface {
	// Create routes one normalized event. A (nil, nil) return means the
	// event was suppressed by the user's settings — nothing was persisted.
	Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error)
	List(ctx context.Context, userID string, req domain.ListNotificationsRequest) (*domain.NotificationPage, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
	CreateBulk(ctx context.Context, req domain.CreateBulkRequest) (*domain.BulkResult, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string, typ *string, isRead *bool) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) error
}

type settingsProvider interface {
	Get(ctx context.Context, userID string) (*domain.NotificationSettings, error)
}

type emailDeliverer interface {
	SendNotificationEmail(ctx context.Context, n *domain.Notification) error
}

type service struct {
	repo      notificationStore
	settings  settingsProvider
	deliverer emailDeliverer
	batchSize int
}

type ServiceDeps struct {
	NotificationRepo notificationStore
	Settings         settingsProvider
	Deliverer        emailDeliverer
	BulkBatchSize    int
}

func NewService(deps ServiceDeps) Service {
	batchSize := deps.BulkBatchSize
	if batchSize < 1 {
		batchSize = 50
	}
	return &service{
		repo:      deps.NotificationRepo,
		settings:  deps.Settings,
		deliverer: deps.Deliverer,
		batchSize: batchSize,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error) {
	settings, err := s.settings.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if !settings.InAppNotifications && !settings.EmailNotifications {
		return nil, nil
	}
	if !settings.AllowsType(req.Type) {
		return nil, nil
	}

	requested := req.Channels
	if len(requested) == 0 {
		requested = []string{domain.ChannelInApp}
	}
	channels := filterChannels(requested, settings)
	if len(channels) == 0 {
		return nil, nil
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	now := time.Now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         req.UserID,
		Type:           req.Type,
		Title:          req.Title,
		Message:        req.Message,
		Priority:       priority,
		Metadata:       req.Metadata,
		Channels:       channels,
		ExpiresAt:      req.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}

	// Email is a best-effort consequence of creation: it runs detached from
	// the request context, and a failed delivery never undoes the record.
	if n.HasChannel(domain.ChannelEmail) {
		go func(n domain.Notification) {
			if err := s.deliverer.SendNotificationEmail(context.Background(), &n); err != nil {
				log.Printf("WARN: email delivery for notification %s: %v", n.NotificationID, err)
			}
		}(*n)
	}

	return n, nil
}

// filterChannels drops every requested channel whose global toggle is off,
// deduplicating as it goes. The survivors become the notification's permanent
// channel set.
func filterChannels(requested []string, settings *domain.NotificationSettings) []string {
	var channels []string
	seen := map[string]bool{}
	for _, ch := range requested {
		if seen[ch] {
			continue
		}
		seen[ch] = true
		switch ch {
		case domain.ChannelInApp:
			if settings.InAppNotifications {
				channels = append(channels, ch)
			}
		case domain.ChannelEmail:
			if settings.EmailNotifications {
				channels = append(channels, ch)
			}
		}
	}
	return channels
}

func (s *service) List(ctx context.Context, userID string, req domain.ListNotificationsRequest) (*domain.NotificationPage, error) {
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	all, err := s.repo.ListByUser(ctx, userID, req.Type, req.IsRead)
	if err != nil {
		return nil, err
	}

	total := len(all)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	page := all[start:end]
	if page == nil {
		page = []domain.Notification{}
	}
	return &domain.NotificationPage{Data: page, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	if err := s.repo.MarkAsRead(ctx, notificationID, userID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, notificationID)
}
