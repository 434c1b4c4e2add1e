package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// deliveries counts delivery attempts by collaborator (store|notify) and
	// outcome (ok|error|skipped).
	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_delivery_total",
			Help: "Lead delivery attempts by collaborator and outcome.",
		},
		[]string{"collaborator", "outcome"},
	)

	// turns counts handled turns by action and delivery path.
	turns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_turns_total",
			Help: "Fulfillment turns by action and path (inline|queued|worker).",
		},
		[]string{"action", "path"},
	)
)

func init() {
	prometheus.MustRegister(deliveries, turns)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCollaboratorDisabled):
		return "skipped"
	default:
		return "error"
	}
}
