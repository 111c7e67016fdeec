package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/go-notify-api/internal/domain"
	infraemail "github.com/go-notify-api/internal/infrastructure/email"
)

type Service interface {
	// SendNotificationEmail resolves the recipient, renders the email for the
	// notification's type, and sends it with bounded retry. A user without a
	// resolvable email address is a silent skip, not an error.
	SendNotificationEmail(ctx context.Context, n *domain.Notification) error
}

type emailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

type userLookup interface {
	EmailByUserID(ctx context.Context, userID string) (string, error)
}

type service struct {
	sender     emailSender
	users      userLookup
	maxRetries int
	retryDelay time.Duration
}

type ServiceDeps struct {
	Sender     emailSender
	Users      userLookup
	MaxRetries int
	RetryDelay time.Duration
}

func NewService(deps ServiceDeps) Service {
	maxRetries := deps.MaxRetries
	if maxRetries < 1 {
		maxRetries = 3
	}
	retryDelay := deps.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &service{
		sender:     deps.Sender,
		users:      deps.Users,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

func (s *service) SendNotificationEmail(ctx context.Context, n *domain.Notification) error {
	address, err := s.users.EmailByUserID(ctx, n.UserID)
	if err != nil || address == "" {
		log.Printf("WARN: no email address for user %s, skipping email channel: %v", n.UserID, err)
		return nil
	}

	html := renderBody(templateFor(n.Type), n)
	return s.sendWithRetry(ctx, address, n.Title, html)
}

// sendWithRetry performs up to maxRetries attempts with a constant delay
// between them. Configuration errors are never retried; after the final
// attempt the last error is returned.
func (s *service) sendWithRetry(ctx context.Context, to, subject, html string) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		lastErr = s.sender.SendEmail(ctx, to, subject, html)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, infraemail.ErrConfigMissing) {
			return lastErr
		}
		if attempt == s.maxRetries {
			break
		}
		log.Printf("WARN: email send attempt %d/%d to %s failed: %v", attempt, s.maxRetries, to, lastErr)

		timer := time.NewTimer(s.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("email to %s failed after %d attempts: %w", to, s.maxRetries, lastErr)
}

// Template names by notification type; everything unmapped shares the
// generic "notification" template.
func templateFor(typ string) string {
	switch typ {
	case domain.TypePurchase:
		return "purchase"
	case domain.TypeAchievement:
		return "achievement"
	case domain.TypeFriendRequest:
		return "friend-request"
	default:
		return "notification"
	}
}

var emailTemplates = template.Must(template.New("email").Parse(`
{{define "purchase"}}<html><body><h2>{{.Title}}</h2><p>{{.Message}}</p><p>Thank you for your purchase. A receipt is available in your account.</p></body></html>{{end}}
{{define "achievement"}}<html><body><h2>&#127942; {{.Title}}</h2><p>{{.Message}}</p><p>Keep it up!</p></body></html>{{end}}
{{define "friend-request"}}<html><body><h2>{{.Title}}</h2><p>{{.Message}}</p><p>Open the app to respond.</p></body></html>{{end}}
{{define "notification"}}<html><body><h2>{{.Title}}</h2><p>{{.Message}}</p></body></html>{{end}}
`))

// renderBody executes the named template, falling back to a minimal inline
// body when the template cannot be rendered.
func renderBody(name string, n *domain.Notification) string {
	var buf bytes.Buffer
	err := emailTemplates.ExecuteTemplate(&buf, name, map[string]string{
		"Title":   n.Title,
		"Message": n.Message,
	})
	if err != nil {
		log.Printf("WARN: render email template %q: %v", name, err)
		return fmt.Sprintf("<html><body><h2>%s</h2><p>%s</p></body></html>",
			template.HTMLEscapeString(n.Title), template.HTMLEscapeString(n.Message))
	}
	return buf.String()
}
