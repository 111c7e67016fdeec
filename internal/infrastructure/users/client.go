package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-notify-api/internal/config"
	"github.com/go-notify-api/internal/domain"
)

// Lookup resolves a user's email address from the external user service.
type Lookup interface {
	EmailByUserID(ctx context.Context, userID string) (string, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Lookup {
	return &client{
		baseURL:    strings.TrimRight(cfg.UserServiceBaseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *client) EmailByUserID(ctx context.Context, userID string) (string, error) {
	url := fmt.Sprintf("%s/api/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("user lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("user lookup: status %d", resp.StatusCode)
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("user lookup: decode response: %w", err)
	}
	return body.Email, nil
}
