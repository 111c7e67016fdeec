package http

import (
	"github.com/go-notify-api/internal/infrastructure/cache"
	"github.com/go-notify-api/internal/infrastructure/dynamo"
	"github.com/go-notify-api/internal/infrastructure/email"
	jwtinfra "github.com/go-notify-api/internal/infrastructure/jwt"
	"github.com/go-notify-api/internal/infrastructure/users"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	NotificationRepo *dynamo.NotificationRepo
	SettingsRepo     *dynamo.SettingsRepo
	Cache            *cache.Tiered
	EmailSender      email.Sender
	Users            users.Lookup
	JWTProvider      *jwtinfra.Provider
}
