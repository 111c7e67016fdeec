package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-notify-api/internal/config"
)

// ErrConfigMissing indicates an incomplete provider configuration. It is
// fatal: the caller must not retry a send that fails with it.
var ErrConfigMissing = errors.New("email provider configuration missing")

// Sender performs one outbound email call per invocation. Retry policy lives
// with the caller.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// Provider tags understood by buildPayload. Anything else gets the generic shape.
const (
	ProviderSendgrid = "sendgrid"
	ProviderMailgun  = "mailgun"
	ProviderResend   = "resend"
)

type sender struct {
	provider string
	baseURL  string
	apiKey   string
	from     string
	client   *http.Client
}

func NewSender(cfg *config.Config) Sender {
	return &sender{
		provider: cfg.EmailProvider,
		baseURL:  cfg.EmailAPIURL,
		apiKey:   cfg.EmailAPIKey,
		from:     cfg.EmailFrom,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *sender) SendEmail(ctx context.Context, to, subject, html string) error {
	if s.baseURL == "" || s.apiKey == "" || s.from == "" {
		return fmt.Errorf("base URL, API key and from-address are all required: %w", ErrConfigMissing)
	}

	body, headers := buildPayload(s.provider, s.apiKey, to, s.from, subject, html)
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email via %s: %w", s.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send email via %s: status %d: %s", s.provider, resp.StatusCode, msg)
	}
	return nil
}

// buildPayload returns the provider-specific request body and auth headers.
// The three shapes carry the same logical fields (recipient, sender, subject,
// html body) under different names and auth conventions.
func buildPayload(provider, apiKey, to, from, subject, html string) (map[string]interface{}, map[string]string) {
	switch provider {
	case ProviderSendgrid:
		return map[string]interface{}{
				"personalizations": []map[string]interface{}{
					{"to": []map[string]string{{"email": to}}},
				},
				"from":    map[string]string{"email": from},
				"subject": subject,
				"content": []map[string]string{
					{"type": "text/html", "value": html},
				},
			}, map[string]string{
				"Authorization": "Bearer " + apiKey,
			}
	case ProviderMailgun:
		return map[string]interface{}{
				"from":    from,
				"to":      to,
				"subject": subject,
				"html":    html,
			}, map[string]string{
				"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte("api:"+apiKey)),
			}
	case ProviderResend:
		return map[string]interface{}{
				"from":    from,
				"to":      []string{to},
				"subject": subject,
				"html":    html,
			}, map[string]string{
				"Authorization": "Bearer " + apiKey,
			}
	default:
		return map[string]interface{}{
				"to":      to,
				"from":    from,
				"subject": subject,
				"body":    html,
			}, map[string]string{
				"X-Api-Key": apiKey,
			}
	}
}
