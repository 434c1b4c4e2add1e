// Package notify alerts the human operator through a Twilio-style messaging
// API using pre-approved content templates.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tbourn/lead-webhook/internal/config"
	"github.com/tbourn/lead-webhook/internal/domain"
)

var (
	// ErrNotConfigured is returned when credentials or endpoints are missing.
	ErrNotConfigured = errors.New("notifier not configured")
	// ErrNoTemplate is returned when no template id is set for the trip type.
	ErrNoTemplate = errors.New("no template for trip type")
)

// Client sends template messages to the configured operator.
type Client struct {
	baseURL   string
	sid       string
	token     string
	from      string
	to        string
	templates map[domain.TripType]string
	http      *http.Client
}

// New returns a client for cfg. A client without credentials is still
// usable; every call fails with ErrNotConfigured.
func New(cfg config.NotifyConfig, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		sid:     cfg.AccountSID,
		token:   cfg.AuthToken,
		from:    cfg.From,
		to:      cfg.To,
		templates: map[domain.TripType]string{
			domain.TripFlight: strings.TrimSpace(cfg.FlightTemplate),
			domain.TripCruise: strings.TrimSpace(cfg.CruiseTemplate),
		},
		http: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether calls will reach the API.
func (c *Client) Enabled() bool {
	return c != nil && c.sid != "" && c.token != "" && c.from != "" && c.to != ""
}

// Supports reports whether a template is configured for trip.
func (c *Client) Supports(trip domain.TripType) bool {
	return c != nil && c.templates[trip] != ""
}

type messageResponse struct {
	SID     string `json:"sid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts n as a template message and returns the provider's message id.
func (c *Client) Send(ctx context.Context, n domain.Notification) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	if !c.Supports(n.TripType) {
		return "", fmt.Errorf("%w: %s", ErrNoTemplate, n.TripType)
	}
	template := c.templates[n.TripType]

	vars, err := ContentVariables(n.Variables)
	if err != nil {
		return "", err
	}
	form := url.Values{
		"To":               {c.to},
		"From":             {c.from},
		"ContentSid":       {template},
		"ContentVariables": {vars},
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(c.sid))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.sid, c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("notify request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
	var out messageResponse
	_ = json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := out.Message
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return "", fmt.Errorf("notify returned %d: %s", resp.StatusCode, msg)
	}
	return out.SID, nil
}

// ContentVariables encodes ordered values as the provider's {"1": ...}
// placeholder object.
func ContentVariables(values []string) (string, error) {
	m := make(map[string]string, len(values))
	for i, v := range values {
		m[strconv.Itoa(i+1)] = v
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal content variables: %w", err)
	}
	return string(b), nil
}
