package queue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPForwarder is a Processor that posts each body to the worker endpoint
// of a webhook instance, authenticated with the shared secret.
type HTTPForwarder struct {
	url    string
	secret string
	http   *http.Client
}

// NewHTTPForwarder returns a forwarder for url.
func NewHTTPForwarder(url, secret string, timeout time.Duration) *HTTPForwarder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPForwarder{url: url, secret: secret, http: &http.Client{Timeout: timeout}}
}

// Process implements Processor. Any non-2xx reply is an error so the queue
// retries the task.
func (f *HTTPForwarder) Process(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, f.secret)

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("worker request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("worker returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
