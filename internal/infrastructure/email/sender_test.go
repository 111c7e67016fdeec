package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-notify-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender(provider, url string) Sender {
	return NewSender(&config.Config{
		EmailProvider: provider,
		EmailAPIURL:   url,
		EmailAPIKey:   "key123",
		EmailFrom:     "noreply@example.com",
	})
}

func captureServer(t *testing.T, status int) (*httptest.Server, *http.Header, *map[string]interface{}) {
	t.Helper()
	var header http.Header
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &header, &body
}

func TestSendEmail_MissingConfig_FailsImmediately(t *testing.T) {
	s := NewSender(&config.Config{EmailProvider: ProviderSendgrid})
	err := s.SendEmail(context.Background(), "a@b.com", "hi", "<p>hi</p>")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigMissing))
}

func TestSendEmail_SendgridShape(t *testing.T) {
	srv, header, body := captureServer(t, http.StatusAccepted)
	s := newTestSender(ProviderSendgrid, srv.URL)

	require.NoError(t, s.SendEmail(context.Background(), "a@b.com", "hi", "<p>hi</p>"))

	assert.Equal(t, "Bearer key123", header.Get("Authorization"))
	assert.Contains(t, *body, "personalizations")
	assert.Contains(t, *body, "content")
	assert.Equal(t, "hi", (*body)["subject"])
}

func TestSendEmail_MailgunShape(t *testing.T) {
	srv, header, body := captureServer(t, http.StatusOK)
	s := newTestSender(ProviderMailgun, srv.URL)

	require.NoError(t, s.SendEmail(context.Background(), "a@b.com", "hi", "<p>hi</p>"))

	// Basic auth over "api:<key>".
	assert.Equal(t, "Basic YXBpOmtleTEyMw==", header.Get("Authorization"))
	assert.Equal(t, "a@b.com", (*body)["to"])
	assert.Equal(t, "<p>hi</p>", (*body)["html"])
}

func TestSendEmail_ResendShape(t *testing.T) {
	srv, header, body := captureServer(t, http.StatusOK)
	s := newTestSender(ProviderResend, srv.URL)

	require.NoError(t, s.SendEmail(context.Background(), "a@b.com", "hi", "<p>hi</p>"))

	assert.Equal(t, "Bearer key123", header.Get("Authorization"))
	assert.Equal(t, []interface{}{"a@b.com"}, (*body)["to"])
}

func TestSendEmail_UnknownProvider_GenericShape(t *testing.T) {
	srv, header, body := captureServer(t, http.StatusOK)
	s := newTestSender("mystery-esp", srv.URL)

	require.NoError(t, s.SendEmail(context.Background(), "a@b.com", "hi", "<p>hi</p>"))

	assert.Equal(t, "key123", header.Get("X-Api-Key"))
	assert.Equal(t, "a@b.com", (*body)["to"])
	assert.Equal(t, "<p>hi</p>", (*body)["body"])
}

func TestSendEmail_Non2xxIsError(t *testing.T) {
	srv, _, _ := captureServer(t, http.StatusBadGateway)
	s := newTestSender(ProviderResend, srv.URL)

	err := s.SendEmail(context.Background(), "a@b.com", "hi", "<p>hi</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestSendEmail_RespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	s := newTestSender(ProviderResend, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.SendEmail(ctx, "a@b.com", "hi", "<p>hi</p>")
	require.Error(t, err)
}
