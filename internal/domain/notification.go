package domain

import "time"

// Notification types. Free-form values are allowed; only the ones below map
// to a per-type settings toggle and a dedicated email template.
const (
	TypePurchase      = "purchase"
	TypeAchievement   = "achievement"
	TypeFriendRequest = "friend_request"
	TypeGameUpdate    = "game_update"
	TypeSystem        = "system"
)

// Delivery channels.
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
)

// Priorities (informational only).
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityLow    = "low"
)

type Notification struct {
	NotificationID string                 `json:"id" dynamodbav:"notification_id"`
	UserID         string                 `json:"user_id" dynamodbav:"user_id"`
	Type           string                 `json:"type" dynamodbav:"type"`
	Title          string                 `json:"title" dynamodbav:"title"`
	Message        string                 `json:"message" dynamodbav:"message"`
	IsRead         bool                   `json:"is_read" dynamodbav:"is_read"`
	Priority       string                 `json:"priority" dynamodbav:"priority"`
	Metadata       map[string]interface{} `json:"metadata,omitempty" dynamodbav:"metadata"`
	Channels       []string               `json:"channels" dynamodbav:"channels"`
	ExpiresAt      *time.Time             `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
	CreatedAt      time.Time              `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time              `json:"updated" dynamodbav:"updated_at"`
}

// HasChannel reports whether ch is one of the channels fixed at creation time.
func (n *Notification) HasChannel(ch string) bool {
	for _, c := range n.Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// CreateNotificationRequest is the normalized event record produced by the
// external webhook layer. Channels defaults to [in_app] when empty.
type CreateNotificationRequest struct {
	UserID    string                 `json:"user_id" validate:"required"`
	Type      string                 `json:"type" validate:"required"`
	Title     string                 `json:"title" validate:"required"`
	Message   string                 `json:"message" validate:"required"`
	Priority  string                 `json:"priority"`
	Metadata  map[string]interface{} `json:"metadata"`
	Channels  []string               `json:"channels" validate:"omitempty,dive,oneof=in_app email"`
	ExpiresAt *time.Time             `json:"expires_at"`
}

// NotificationTemplate is the per-user payload a bulk send fans out.
type NotificationTemplate struct {
	Type      string                 `json:"type" validate:"required"`
	Title     string                 `json:"title" validate:"required"`
	Message   string                 `json:"message" validate:"required"`
	Priority  string                 `json:"priority"`
	Metadata  map[string]interface{} `json:"metadata"`
	Channels  []string               `json:"channels" validate:"omitempty,dive,oneof=in_app email"`
	ExpiresAt *time.Time             `json:"expires_at"`
}

// CreateBulkRequest drives a batched fan-out of one template to many users.
type CreateBulkRequest struct {
	UserIDs  []string             `json:"user_ids" validate:"required,min=1"`
	Template NotificationTemplate `json:"template" validate:"required"`
}

// BulkResult aggregates a bulk send. Skipped covers both settings suppression
// and per-user failures; Failed breaks out the failures for consumers that
// need the distinction. Created+Skipped always equals the input size.
type BulkResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ListNotificationsRequest filters and pages a user's notifications.
type ListNotificationsRequest struct {
	Limit  int
	Offset int
	Type   *string
	IsRead *bool
}

// NotificationPage is the paged query result.
type NotificationPage struct {
	Data   []Notification `json:"data"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
