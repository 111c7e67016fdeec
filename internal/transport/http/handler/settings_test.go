package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-notify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func allOnSettings(userID string) *domain.NotificationSettings {
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

func TestSettingsGet_MissingClaims(t *testing.T) {
	h := NewSettingsHandler(&mockSettingsSvc{})
	r := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
	rr := httptest.NewRecorder()
	h.Get(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSettingsGet_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSettingsSvc{}
	svc.On("Get", mock.Anything, "u1").Return(allOnSettings("u1"), nil)
	h := NewSettingsHandler(svc)

	r := bearerReq(t, p, http.MethodGet, "/v1/settings", "u1", domain.RoleUser, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Get), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp domain.NotificationSettings
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "u1", resp.UserID)
	assert.True(t, resp.EmailNotifications)
	svc.AssertExpectations(t)
}

func TestSettingsUpdate_InvalidBody(t *testing.T) {
	p := newTestJWTProvider(t)
	h := NewSettingsHandler(&mockSettingsSvc{})
	r := bearerReq(t, p, http.MethodPut, "/v1/settings", "u1", domain.RoleUser, []byte("not-json"))
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Update), rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSettingsUpdate_PartialChange(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSettingsSvc{}
	updated := allOnSettings("u1")
	updated.EmailNotifications = false
	svc.On("Update", mock.Anything, "u1", mock.MatchedBy(func(req domain.UpdateSettingsRequest) bool {
		return req.EmailNotifications != nil && !*req.EmailNotifications &&
			req.InAppNotifications == nil
	})).Return(updated, nil)
	h := NewSettingsHandler(svc)

	r := bearerReq(t, p, http.MethodPut, "/v1/settings", "u1", domain.RoleUser,
		[]byte(`{"email_notifications": false}`))
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Update), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp domain.NotificationSettings
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.EmailNotifications)
	assert.True(t, resp.InAppNotifications)
	svc.AssertExpectations(t)
}

func TestSettingsUpdate_ServiceError(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSettingsSvc{}
	svc.On("Update", mock.Anything, "u1", mock.Anything).Return(nil, assert.AnError)
	h := NewSettingsHandler(svc)

	r := bearerReq(t, p, http.MethodPut, "/v1/settings", "u1", domain.RoleUser, []byte(`{}`))
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Update), rr, r)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
