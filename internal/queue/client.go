package queue

import (
	"context"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/tbourn/lead-webhook/internal/config"
)

// Client enqueues finalize tasks.
type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewClient connects lazily to the redis instance in cfg.RedisURL.
func NewClient(cfg config.QueueConfig) (*Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, ErrNotConfigured
	}

	opt, err := redisClientOpt(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.Name
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client:   asynq.NewClient(opt),
		queue:    queue,
		maxRetry: cfg.MaxRetry,
	}, nil
}

// Close releases the redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Enqueue stores body as a finalize task and returns the task id. A nil
// client reports ErrNotConfigured.
func (c *Client) Enqueue(ctx context.Context, body []byte) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrNotConfigured
	}

	info, err := c.client.EnqueueContext(ctx, NewFinalizeTask(body),
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
	)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}
