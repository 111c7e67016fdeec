package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-notify-api/internal/application/notification"
	"github.com/go-notify-api/internal/domain"
	"github.com/go-notify-api/internal/pkg/validate"
)

// EventHandler consumes normalized event records from the webhook layer and
// drives notification creation.
type EventHandler struct {
	svc notification.Service
}

func NewEventHandler(svc notification.Service) *EventHandler {
	return &EventHandler{svc: svc}
}

// Create routes one event. 201 carries the persisted notification; 202 means
// the event was valid but suppressed by the recipient's settings.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	if n == nil {
		writeJSON(w, http.StatusAccepted, MessageEnvelope{Message: "suppressed by user settings"})
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// CreateBulk fans one template out to many users.
func (h *EventHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.CreateBulk(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
