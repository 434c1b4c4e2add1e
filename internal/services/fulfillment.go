// Package services – FulfillmentService
//
// FulfillmentService is the webhook's entry point. Each turn is routed with
// Decide, its effects are performed against the customer store, the lead
// collaborators or the queue, and Compose turns the outcome into exactly one
// response.
//
// Delivery discipline depends on the deployment mode:
//
//   - sync:  leads are delivered inline; a failed operator notification is
//     returned as ErrNotifyFailed so the caller can answer 500 and the
//     platform retries.
//   - queue: the verbatim request is enqueued and confirmed at once. If the
//     queue is missing or refuses the task, the lead is delivered inline and
//     failures are only logged.
//
// Process is the worker side: it runs delivery for a queued body and only
// logs collaborator failures.

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/lead-webhook/internal/config"
	"github.com/tbourn/lead-webhook/internal/domain"
)

// Enqueuer hands a request body to the async queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, body []byte) (string, error)
}

// FulfillmentService routes turns and performs their effects.
type FulfillmentService struct {
	Customers *CustomerService
	Leads     *LeadService
	Queue     Enqueuer // nil disables the queue path
	Mode      string   // config.DeliverySync or config.DeliveryQueue
}

// Handle serves one webhook turn. raw is the request body as received; it is
// what gets enqueued in queue mode. The only error returned is a wrapped
// ErrNotifyFailed in sync mode.
func (s *FulfillmentService) Handle(ctx context.Context, req domain.WebhookRequest, raw []byte) (domain.WebhookResponse, error) {
	turn := req.Turn()
	d := Decide(turn)

	tr := otel.Tracer("services/FulfillmentService")
	ctx, span := tr.Start(ctx, "Handle",
		trace.WithAttributes(
			attribute.String("fulfillment.action", d.Action.String()),
			attribute.Bool("identifier.present", d.Identifier != ""),
		),
	)
	defer span.End()

	l := loggerFrom(ctx).With().Str("action", d.Action.String()).Logger()
	if d.Action == ActionUnknown {
		l.Warn().Str("tag", turn.Tag).Msg("fulfillment_unknown_tag")
	}

	var o Outcome
	path := "inline"

	if d.Has(EffectLookupName) {
		o.CustomerName, o.LookupErr = s.Customers.LatestName(ctx, d.Identifier)
		if o.LookupErr != nil {
			l.Error().Err(o.LookupErr).Msg("customer_lookup_failed")
		}
	}

	if d.Action == ActionCaptureName && !d.Has(EffectSaveCustomer) {
		l.Warn().Bool("has_identifier", d.Identifier != "").Bool("has_name", d.CustomerName != "").
			Msg("customer_name_not_saved")
	}
	if d.Has(EffectSaveCustomer) {
		if o.SaveErr = s.Customers.SaveName(ctx, d.Identifier, d.CustomerName); o.SaveErr != nil {
			l.Error().Err(o.SaveErr).Msg("customer_save_failed")
		}
	}

	if d.Has(EffectDeliverLead) {
		if s.Mode == config.DeliveryQueue {
			if id, err := s.enqueue(ctx, req, raw); err == nil {
				o.Queued = true
				path = "queued"
				l.Info().Str("task_id", id).Msg("lead_enqueued")
			} else {
				l.Warn().Err(err).Msg("lead_enqueue_failed_delivering_inline")
			}
		}
		if !o.Queued {
			o.Delivery = s.Leads.Deliver(ctx, d.Trip, turn.Parameters, d.Identifier)
			if s.Mode != config.DeliveryQueue && failed(o.Delivery.NotifyErr) {
				turns.WithLabelValues(d.Action.String(), path).Inc()
				span.RecordError(o.Delivery.NotifyErr)
				return domain.WebhookResponse{}, fmt.Errorf("%w: %v", ErrNotifyFailed, o.Delivery.NotifyErr)
			}
		}
	}

	turns.WithLabelValues(d.Action.String(), path).Inc()
	return Compose(d, o), nil
}

// Process runs delivery for a body taken off the queue or posted to the
// worker endpoint. The body is either the original webhook request or an
// envelope {identifier, tag, parameters}; without a finalize tag the trip
// type is inferred from the parameters. Collaborator failures are logged
// only; the sole error is ErrBadPayload.
func (s *FulfillmentService) Process(ctx context.Context, body []byte) error {
	var req domain.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if req.Empty() {
		return fmt.Errorf("%w: empty body", ErrBadPayload)
	}

	turn := req.Turn()
	d := Decide(turn)
	l := loggerFrom(ctx).With().Str("action", d.Action.String()).Logger()

	switch {
	case d.Has(EffectDeliverLead):
	case strings.TrimSpace(turn.Tag) == "":
		d.Trip = InferTrip(turn.Parameters)
	default:
		l.Warn().Str("tag", turn.Tag).Msg("worker_ignored_non_finalize_tag")
		return nil
	}

	tr := otel.Tracer("services/FulfillmentService")
	ctx, span := tr.Start(ctx, "Process", trace.WithAttributes(attribute.String("lead.trip", string(d.Trip))))
	defer span.End()

	rep := s.Leads.Deliver(ctx, d.Trip, turn.Parameters, d.Identifier)
	turns.WithLabelValues(d.Action.String(), "worker").Inc()
	if rep.StoreErr != nil || rep.NotifyErr != nil {
		l.Warn().
			AnErr("store_err", rep.StoreErr).
			AnErr("notify_err", rep.NotifyErr).
			Msg("worker_delivery_incomplete")
	}
	return nil
}

// InferTrip picks the lead type from the parameter names a cruise flow sets.
func InferTrip(params domain.Params) domain.TripType {
	for _, k := range []string{"destino_cruzeiro", "adultos_cruzeiro", "periodo_cruzeiro", "porto_embarque"} {
		if _, ok := params[k]; ok {
			return domain.TripCruise
		}
	}
	return domain.TripFlight
}

func (s *FulfillmentService) enqueue(ctx context.Context, req domain.WebhookRequest, raw []byte) (string, error) {
	if s.Queue == nil {
		return "", errors.New("queue not configured")
	}
	if len(raw) == 0 {
		b, err := json.Marshal(req)
		if err != nil {
			return "", err
		}
		raw = b
	}
	return s.Queue.Enqueue(ctx, raw)
}

// failed reports whether err is a real collaborator failure rather than a
// skipped, unconfigured step.
func failed(err error) bool {
	return err != nil && !errors.Is(err, ErrCollaboratorDisabled)
}
