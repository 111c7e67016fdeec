package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health-check and test endpoints.
type HealthHandler struct {
	cache sharedStatus
}

type sharedStatus interface {
	SharedConnected() bool
}

func NewHealthHandler(cache sharedStatus) *HealthHandler {
	return &HealthHandler{cache: cache}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	if action == "ping" {
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
		return
	}
	writeError(w, http.StatusBadRequest, "unknown action")
}

// Status reports liveness plus the state of the optional shared cache tier.
// The service is healthy either way; the field exists for dashboards.
func (h *HealthHandler) Status(w http.ResponseWriter, _ *http.Request) {
	shared := "disconnected"
	if h.cache != nil && h.cache.SharedConnected() {
		shared = "connected"
	}
	writeJSON(w, http.StatusOK, struct {
		Message     string `json:"message"`
		SharedCache string `json:"shared_cache"`
	}{Message: "ok", SharedCache: shared})
}
