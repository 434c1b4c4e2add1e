// Package services – LeadService
//
// LeadService turns a finalize turn into a lead and hands it to the two
// external collaborators: the record store, then the operator notifier. The
// steps are independent: a store failure is logged and never prevents the
// notification. Nothing is rolled back.
//
// Observability: Deliver is OpenTelemetry-instrumented and every collaborator
// outcome is counted in lead_delivery_total.

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/lead-webhook/internal/domain"
)

// RecordStore creates lead records.
type RecordStore interface {
	Enabled() bool
	CreateRecord(ctx context.Context, lead domain.Lead) (int, error)
}

// Notifier alerts the operator about a new lead. Supports reports whether
// a template exists for the trip type.
type Notifier interface {
	Enabled() bool
	Supports(trip domain.TripType) bool
	Send(ctx context.Context, n domain.Notification) (string, error)
}

// DeliveryReport is the per-collaborator result of one delivery.
type DeliveryReport struct {
	Lead domain.Lead

	StoreStatus int
	StoreErr    error

	NotifyID  string
	NotifyErr error
}

// LeadService assembles and delivers leads.
type LeadService struct {
	Store    RecordStore
	Notifier Notifier
	Options  LeadOptions
}

// Deliver assembles the lead for trip and attempts both collaborators in
// order. Failures are logged and reported, never returned. A collaborator
// that is not configured is skipped and reported as ErrCollaboratorDisabled.
func (s *LeadService) Deliver(ctx context.Context, trip domain.TripType, params domain.Params, identifier string) DeliveryReport {
	tr := otel.Tracer("services/LeadService")
	ctx, span := tr.Start(ctx, "Deliver",
		trace.WithAttributes(attribute.String("lead.trip", string(trip))),
	)
	defer span.End()

	l := loggerFrom(ctx).With().Str("trip", string(trip)).Logger()

	lead, note := AssembleLead(ctx, trip, params, identifier, s.Options)
	rep := DeliveryReport{Lead: lead}

	rep.StoreStatus, rep.StoreErr = s.createRecord(ctx, lead)
	deliveries.WithLabelValues("store", outcomeLabel(rep.StoreErr)).Inc()
	span.SetAttributes(attribute.Int("store.status", rep.StoreStatus))
	switch {
	case errors.Is(rep.StoreErr, ErrCollaboratorDisabled):
		l.Warn().Err(rep.StoreErr).Msg("lead_store_skipped")
	case rep.StoreErr != nil:
		span.RecordError(rep.StoreErr)
		l.Error().Err(rep.StoreErr).Int("status", rep.StoreStatus).Msg("lead_store_failed")
	default:
		l.Info().Int("status", rep.StoreStatus).Msg("lead_stored")
	}

	rep.NotifyID, rep.NotifyErr = s.send(ctx, note)
	deliveries.WithLabelValues("notify", outcomeLabel(rep.NotifyErr)).Inc()
	switch {
	case errors.Is(rep.NotifyErr, ErrCollaboratorDisabled):
		l.Warn().Err(rep.NotifyErr).Msg("lead_notify_skipped")
	case rep.NotifyErr != nil:
		span.RecordError(rep.NotifyErr)
		span.SetStatus(codes.Error, "notify failed")
		l.Error().Err(rep.NotifyErr).Msg("lead_notify_failed")
	default:
		l.Info().Str("message_id", rep.NotifyID).Msg("lead_notified")
	}
	return rep
}

func (s *LeadService) createRecord(ctx context.Context, lead domain.Lead) (int, error) {
	if s.Store == nil || !s.Store.Enabled() {
		return 0, fmt.Errorf("record store: %w", ErrCollaboratorDisabled)
	}
	return s.Store.CreateRecord(ctx, lead)
}

func (s *LeadService) send(ctx context.Context, n domain.Notification) (string, error) {
	if s.Notifier == nil || !s.Notifier.Enabled() {
		return "", fmt.Errorf("notifier: %w", ErrCollaboratorDisabled)
	}
	if !s.Notifier.Supports(n.TripType) {
		return "", fmt.Errorf("notifier: no %s template: %w", n.TripType, ErrCollaboratorDisabled)
	}
	return s.Notifier.Send(ctx, n)
}

// NewLeadOptions builds assembly options from configuration values.
func NewLeadOptions(timezone, status string) (LeadOptions, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return LeadOptions{}, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return LeadOptions{Location: loc, Status: status, Now: time.Now}, nil
}
