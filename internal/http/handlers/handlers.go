package handlers

import (
	"context"

	"github.com/tbourn/lead-webhook/internal/domain"
)

// Fulfiller serves one webhook turn. raw is the body as received and is what
// gets queued in queue mode.
type Fulfiller interface {
	Handle(ctx context.Context, req domain.WebhookRequest, raw []byte) (domain.WebhookResponse, error)
}

// TaskProcessor runs delivery for a body posted to the worker endpoint.
type TaskProcessor interface {
	Process(ctx context.Context, body []byte) error
}

// Handlers groups the webhook and worker endpoints.
type Handlers struct {
	fulfill      Fulfiller
	worker       TaskProcessor
	workerSecret string
}

// New binds the handlers to their services. An empty workerSecret leaves the
// worker endpoint answering 503.
func New(f Fulfiller, p TaskProcessor, workerSecret string) *Handlers {
	return &Handlers{fulfill: f, worker: p, workerSecret: workerSecret}
}
