package domain

import "time"

// NotificationSettings holds one user's delivery preferences. Exactly one
// record exists per user; a missing record means everything is enabled.
type NotificationSettings struct {
	SettingsID          string    `json:"id" dynamodbav:"settings_id"`
	UserID              string    `json:"user_id" dynamodbav:"user_id"`
	InAppNotifications  bool      `json:"in_app_notifications" dynamodbav:"in_app_notifications"`
	EmailNotifications  bool      `json:"email_notifications" dynamodbav:"email_notifications"`
	FriendRequests      bool      `json:"friend_requests" dynamodbav:"friend_requests"`
	GameUpdates         bool      `json:"game_updates" dynamodbav:"game_updates"`
	Achievements        bool      `json:"achievements" dynamodbav:"achievements"`
	Purchases           bool      `json:"purchases" dynamodbav:"purchases"`
	SystemNotifications bool      `json:"system_notifications" dynamodbav:"system_notifications"`
	UpdatedAt           time.Time `json:"updated" dynamodbav:"updated_at"`
}

// AllowsType reports whether the per-type toggle for typ is on. Types without
// a toggle are never type-suppressed.
func (s *NotificationSettings) AllowsType(typ string) bool {
	switch typ {
	case TypePurchase:
		return s.Purchases
	case TypeAchievement:
		return s.Achievements
	case TypeFriendRequest:
		return s.FriendRequests
	case TypeGameUpdate:
		return s.GameUpdates
	case TypeSystem:
		return s.SystemNotifications
	default:
		return true
	}
}

// UpdateSettingsRequest carries a partial settings change; nil fields keep
// their prior values.
type UpdateSettingsRequest struct {
	InAppNotifications  *bool `json:"in_app_notifications"`
	EmailNotifications  *bool `json:"email_notifications"`
	FriendRequests      *bool `json:"friend_requests"`
	GameUpdates         *bool `json:"game_updates"`
	Achievements        *bool `json:"achievements"`
	Purchases           *bool `json:"purchases"`
	SystemNotifications *bool `json:"system_notifications"`
}
