package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-notify-api/internal/application/delivery"
	"github.com/go-notify-api/internal/application/notification"
	"github.com/go-notify-api/internal/application/settings"
	"github.com/go-notify-api/internal/config"
	"github.com/go-notify-api/internal/domain"
	"github.com/go-notify-api/internal/transport/http/handler"
	appmiddleware "github.com/go-notify-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 20 events/second, burst of 40 — the ingest endpoint takes webhook
	// traffic and needs more headroom than a login form would.
	ingestRL := appmiddleware.NewRateLimiter(rate.Limit(20), 40)

	settingsSvc := settings.NewService(settings.ServiceDeps{
		SettingsRepo: deps.SettingsRepo,
		Cache:        deps.Cache,
		CacheTTL:     time.Duration(cfg.CacheTTLSeconds) * time.Second,
	})
	deliverySvc := delivery.NewService(delivery.ServiceDeps{
		Sender:     deps.EmailSender,
		Users:      deps.Users,
		MaxRetries: cfg.EmailMaxRetries,
		RetryDelay: time.Duration(cfg.EmailRetryDelayMs) * time.Millisecond,
	})
	notifSvc := notification.NewService(notification.ServiceDeps{
		NotificationRepo: deps.NotificationRepo,
		Settings:         settingsSvc,
		Deliverer:        deliverySvc,
		BulkBatchSize:    cfg.BulkBatchSize,
	})

	healthH := handler.NewHealthHandler(deps.Cache)
	eventH := handler.NewEventHandler(notifSvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/status", healthH.Status)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/notifications", notifH.List)
			r.Put("/notifications/{id}/read", notifH.MarkAsRead)
			r.Get("/settings", settingsH.Get)
			r.Put("/settings", settingsH.Update)

			// Event ingest is for upstream services, not end users.
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleService, domain.RoleAdmin))

				r.With(ingestRL.Limit).Post("/events", eventH.Create)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/notifications/bulk", eventH.CreateBulk)
			})
		})
	})

	return r
}
