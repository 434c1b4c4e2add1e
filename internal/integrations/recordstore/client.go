// Package recordstore creates lead pages in a Notion-style document database.
// The client is create-only: it never reads, updates or deduplicates.
package recordstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tbourn/lead-webhook/internal/config"
	"github.com/tbourn/lead-webhook/internal/domain"
)

// ErrNotConfigured is returned when the API key or database id is missing.
var ErrNotConfigured = errors.New("record store not configured")

// Client posts pages to the record store.
type Client struct {
	baseURL    string
	apiKey     string
	databaseID string
	version    string
	http       *http.Client
}

// New returns a client for cfg. A client without credentials is still
// usable; every call fails with ErrNotConfigured.
func New(cfg config.RecordStoreConfig, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		databaseID: strings.TrimSpace(cfg.DatabaseID),
		version:    cfg.Version,
		http:       &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether calls will reach the API.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != "" && c.databaseID != ""
}

type pageRequest struct {
	Parent     pageParent          `json:"parent"`
	Properties map[string]Property `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

// CreateRecord creates one page for lead. It returns the HTTP status of the
// API call (0 when no call was made) and an error for any non-2xx reply.
func (c *Client) CreateRecord(ctx context.Context, lead domain.Lead) (int, error) {
	if !c.Enabled() {
		return 0, ErrNotConfigured
	}

	body, err := json.Marshal(pageRequest{
		Parent:     pageParent{DatabaseID: c.databaseID},
		Properties: LeadProperties(lead),
	})
	if err != nil {
		return 0, fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.version != "" {
		req.Header.Set("Notion-Version", c.version)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("record store request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return resp.StatusCode, fmt.Errorf("record store returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
