package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BrevoConfig configures the Brevo transactional API client.
type BrevoConfig struct {
	BaseURL    string
	APIKey     string
	FromEmail  string
	FromName   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// BrevoSender posts messages to Brevo's /v3/smtp/email endpoint.
type BrevoSender struct {
	endpoint string
	apiKey   string
	from     brevoContact
	timeout  time.Duration
	client   *http.Client
}

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoContact      `json:"sender"`
	To          []brevoContact    `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// NewBrevoSender validates configuration and builds the client.
func NewBrevoSender(cfg BrevoConfig) (*BrevoSender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("brevo api key is required")
	}
	if strings.TrimSpace(cfg.FromEmail) == "" {
		return nil, errors.New("sender email is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.brevo.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &BrevoSender{
		endpoint: base + "/v3/smtp/email",
		apiKey:   cfg.APIKey,
		from:     brevoContact{Name: cfg.FromName, Email: cfg.FromEmail},
		timeout:  timeout,
		client:   client,
	}, nil
}

// Send performs one bounded POST. There is no retry.
func (s *BrevoSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("no recipient specified")
	}

	payload, err := json.Marshal(brevoRequest{
		Sender:      s.from,
		To:          []brevoContact{{Email: msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		Headers:     msg.Headers,
	})
	if err != nil {
		return fmt.Errorf("encode brevo payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build brevo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("brevo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
