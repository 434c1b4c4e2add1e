package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/tbourn/lead-webhook/internal/config"
	"github.com/tbourn/lead-webhook/internal/domain"
)

func newFulfillment(t *testing.T, mode string) (*FulfillmentService, *fakeStore, *fakeNotifier, *fakeQueue) {
	t.Helper()
	store := &fakeStore{status: 200}
	notifier := &fakeNotifier{}
	q := &fakeQueue{}
	svc := &FulfillmentService{
		Customers: newCustomerService(t),
		Leads:     &LeadService{Store: store, Notifier: notifier, Options: fixedOptions()},
		Queue:     q,
		Mode:      mode,
	}
	return svc, store, notifier, q
}

func turnRequest(tag string, params domain.Params) domain.WebhookRequest {
	return domain.WebhookRequest{
		FulfillmentInfo: &domain.FulfillmentInfo{Tag: tag},
		SessionInfo:     &domain.SessionInfo{Session: session, Parameters: params},
	}
}

func TestHandle_IdentifyAfterCaptureName(t *testing.T) {
	svc, _, _, _ := newFulfillment(t, config.DeliverySync)
	ctx := context.Background()

	resp, err := svc.Handle(ctx, turnRequest("identify-customer", nil), nil)
	if err != nil || resp.FirstText() != TextWelcomeNew {
		t.Fatalf("first contact = %q, %v", resp.FirstText(), err)
	}

	resp, err = svc.Handle(ctx, turnRequest("capture-name", domain.Params{"person": map[string]any{"resolvedValue": "ana"}}), nil)
	if err != nil {
		t.Fatalf("capture-name: %v", err)
	}
	if b, _ := json.Marshal(resp); string(b) != "{}" {
		t.Fatalf("capture-name reply = %s", b)
	}

	resp, _ = svc.Handle(ctx, turnRequest("identificar_cliente", nil), nil)
	if !strings.Contains(resp.FirstText(), "Olá, Ana!") {
		t.Fatalf("returning customer greeting = %q", resp.FirstText())
	}
}

func TestHandle_IdentifyStoreUnavailable(t *testing.T) {
	svc, _, _, _ := newFulfillment(t, config.DeliverySync)
	svc.Customers = &CustomerService{Conn: failingConn{err: errors.New("refused")}}

	resp, err := svc.Handle(context.Background(), turnRequest("identify-customer", nil), nil)
	if err != nil || resp.FirstText() != TextWelcomeFallback {
		t.Fatalf("reply = %q, %v", resp.FirstText(), err)
	}

	resp, err = svc.Handle(context.Background(), turnRequest("capture-name", domain.Params{"person": "Ana"}), nil)
	if err != nil || resp.FulfillmentResponse != nil {
		t.Fatalf("capture-name must still reply empty when the store is down: %+v, %v", resp, err)
	}
}

func TestHandle_SyncFinalize(t *testing.T) {
	svc, store, notifier, q := newFulfillment(t, config.DeliverySync)

	resp, err := svc.Handle(context.Background(), turnRequest("finalize-flight-lead", flightParams()), []byte(`{}`))
	if err != nil || resp.FirstText() != TextLeadConfirmed {
		t.Fatalf("reply = %q, %v", resp.FirstText(), err)
	}
	if store.calls() != 1 || notifier.calls() != 1 || len(q.bodies) != 0 {
		t.Fatalf("store=%d notify=%d queued=%d", store.calls(), notifier.calls(), len(q.bodies))
	}
	if store.leads[0].Phone != "+5511987654321" {
		t.Fatalf("lead phone should come from the session, got %q", store.leads[0].Phone)
	}
}

func TestHandle_SyncStoreFailureIsDegraded(t *testing.T) {
	svc, store, notifier, _ := newFulfillment(t, config.DeliverySync)
	store.err = errors.New("down")

	resp, err := svc.Handle(context.Background(), turnRequest("finalize-cruise-lead", domain.Params{}), nil)
	if err != nil || resp.FirstText() != TextLeadDegraded {
		t.Fatalf("reply = %q, %v", resp.FirstText(), err)
	}
	if notifier.calls() != 1 {
		t.Fatalf("notify must still run")
	}
}

func TestHandle_SyncNotifyFailureIsAnError(t *testing.T) {
	svc, _, notifier, _ := newFulfillment(t, config.DeliverySync)
	notifier.err = errors.New("401 Authenticate")

	_, err := svc.Handle(context.Background(), turnRequest("finalize-flight-lead", flightParams()), nil)
	if !errors.Is(err, ErrNotifyFailed) {
		t.Fatalf("want ErrNotifyFailed, got %v", err)
	}

	notifier.err = nil
	notifier.disabled = true
	if _, err := svc.Handle(context.Background(), turnRequest("finalize-flight-lead", flightParams()), nil); err != nil {
		t.Fatalf("an unconfigured notifier is skipped, not a failure: %v", err)
	}
}

func TestHandle_SyncMissingTemplateIsSkipped(t *testing.T) {
	svc, store, notifier, _ := newFulfillment(t, config.DeliverySync)
	notifier.noTemplate = domain.TripCruise

	for i := 0; i < 3; i++ {
		resp, err := svc.Handle(context.Background(), turnRequest("finalize-cruise-lead", domain.Params{}), nil)
		if err != nil || resp.FirstText() != TextLeadConfirmed {
			t.Fatalf("attempt %d: reply = %q, %v", i, resp.FirstText(), err)
		}
	}
	if store.calls() != 3 || notifier.calls() != 0 {
		t.Fatalf("store=%d notify=%d", store.calls(), notifier.calls())
	}

	if _, err := svc.Handle(context.Background(), turnRequest("finalize-flight-lead", flightParams()), nil); err != nil || notifier.calls() != 1 {
		t.Fatalf("flight template is configured: err=%v calls=%d", err, notifier.calls())
	}
}

func TestHandle_SyncUnconfiguredStoreIsNotDegraded(t *testing.T) {
	svc, store, notifier, _ := newFulfillment(t, config.DeliverySync)
	store.disabled = true

	resp, err := svc.Handle(context.Background(), turnRequest("finalize-flight-lead", flightParams()), nil)
	if err != nil || resp.FirstText() != TextLeadConfirmed {
		t.Fatalf("reply = %q, %v", resp.FirstText(), err)
	}
	if store.calls() != 0 || notifier.calls() != 1 {
		t.Fatalf("store=%d notify=%d", store.calls(), notifier.calls())
	}
}

func TestHandle_QueueMode(t *testing.T) {
	svc, store, notifier, q := newFulfillment(t, config.DeliveryQueue)
	raw := []byte(`{"tag":"finalize-flight-lead","session":"s/5511987654321"}`)

	resp, err := svc.Handle(context.Background(), domain.WebhookRequest{Tag: "finalize-flight-lead", Session: "s/5511987654321"}, raw)
	if err != nil || resp.FirstText() != TextLeadConfirmed {
		t.Fatalf("reply = %q, %v", resp.FirstText(), err)
	}
	if len(q.bodies) != 1 || string(q.bodies[0]) != string(raw) {
		t.Fatalf("queued bodies = %q", q.bodies)
	}
	if store.calls() != 0 || notifier.calls() != 0 {
		t.Fatalf("queue mode must not deliver inline")
	}
}

func TestHandle_QueueFailureFallsBackInline(t *testing.T) {
	svc, store, notifier, q := newFulfillment(t, config.DeliveryQueue)
	q.err = errors.New("redis down")
	notifier.err = errors.New("boom")

	resp, err := svc.Handle(context.Background(), turnRequest("finalize-flight-lead", flightParams()), nil)
	if err != nil {
		t.Fatalf("inline fallback only logs failures, got %v", err)
	}
	if resp.FirstText() != TextLeadConfirmed || store.calls() != 1 || notifier.calls() != 1 {
		t.Fatalf("fallback: reply=%q store=%d notify=%d", resp.FirstText(), store.calls(), notifier.calls())
	}

	svc.Queue = nil
	if _, err := svc.Handle(context.Background(), turnRequest("finalize-flight-lead", flightParams()), nil); err != nil || store.calls() != 2 {
		t.Fatalf("missing queue should deliver inline: err=%v store=%d", err, store.calls())
	}
}

func TestHandle_UnknownTag(t *testing.T) {
	svc, store, notifier, _ := newFulfillment(t, config.DeliverySync)
	resp, err := svc.Handle(context.Background(), turnRequest("book-hotel", nil), nil)
	if err != nil || resp.FirstText() != TextUnknownTag {
		t.Fatalf("reply = %q, %v", resp.FirstText(), err)
	}
	if store.calls() != 0 || notifier.calls() != 0 {
		t.Fatalf("unknown tag must not deliver")
	}
}

func TestProcess(t *testing.T) {
	svc, store, notifier, _ := newFulfillment(t, config.DeliveryQueue)
	notifier.err = errors.New("boom")
	ctx := context.Background()

	if err := svc.Process(ctx, []byte(`{"tag":"finalize-flight-lead","session":"s/5511987654321","parameters":{"destino":"Natal"}}`)); err != nil {
		t.Fatalf("Process original body: %v", err)
	}
	if store.calls() != 1 || store.leads[0].Phone != "+5511987654321" {
		t.Fatalf("lead = %+v", store.leads)
	}

	if err := svc.Process(ctx, []byte(`{"identifier":"+5521900000000","parameters":{"destino_cruzeiro":"Caribe"}}`)); err != nil {
		t.Fatalf("Process envelope: %v", err)
	}
	got := store.leads[1]
	if got.TripType != domain.TripCruise || got.Phone != "+5521900000000" {
		t.Fatalf("envelope lead = %+v", got)
	}

	if err := svc.Process(ctx, []byte(`{"tag":"identify-customer","session":"s/55"}`)); err != nil || store.calls() != 2 {
		t.Fatalf("non-finalize tag should be ignored: err=%v store=%d", err, store.calls())
	}

	for _, bad := range []string{`not json`, `{}`, `[]`} {
		if err := svc.Process(ctx, []byte(bad)); !errors.Is(err, ErrBadPayload) {
			t.Fatalf("Process(%s) = %v; want ErrBadPayload", bad, err)
		}
	}
}

func TestInferTrip(t *testing.T) {
	if InferTrip(domain.Params{"porto_embarque": "Santos"}) != domain.TripCruise {
		t.Fatalf("cruise params should infer cruise")
	}
	if InferTrip(domain.Params{"origem": "Recife"}) != domain.TripFlight {
		t.Fatalf("default should be flight")
	}
}
