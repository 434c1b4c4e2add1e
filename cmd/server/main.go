// Command server runs the lead fulfillment webhook.
//
// @title          Lead Webhook API
// @version        1.0
// @description    Fulfillment webhook for a travel-agency chatbot: customer greeting,
// @description    name capture, flight and cruise lead delivery, date corrections and
// @description    the queue worker endpoint.
// @BasePath       /api/v1
// @schemes        http https
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	_ "github.com/tbourn/lead-webhook/docs"
	"github.com/tbourn/lead-webhook/internal/config"
	"github.com/tbourn/lead-webhook/internal/domain"
	httpapi "github.com/tbourn/lead-webhook/internal/http"
	"github.com/tbourn/lead-webhook/internal/integrations/notify"
	"github.com/tbourn/lead-webhook/internal/integrations/recordstore"
	"github.com/tbourn/lead-webhook/internal/observability"
	"github.com/tbourn/lead-webhook/internal/queue"
	"github.com/tbourn/lead-webhook/internal/repo"
	"github.com/tbourn/lead-webhook/internal/services"
	"github.com/tbourn/lead-webhook/internal/sysutil"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	version := sysutil.Version(os.Getenv("APP_VERSION"))
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName, version)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, observability.ServiceInfo{
		Version:      version,
		DeliveryMode: cfg.DeliveryMode,
	})
	if err != nil {
		log.Warn().Err(err).Msg("otel_setup_failed_tracing_disabled")
	}
	defer func() {
		if err := observability.ShutdownWithin(shutdownOTel, 5*time.Second); err != nil {
			log.Warn().Err(err).Msg("otel_shutdown_failed")
		}
	}()

	// Customer store. The first open is attempted eagerly so a bad DSN shows
	// up in the startup log; the service keeps running and retries per call.
	conn := repo.NewConn(func() (*gorm.DB, error) { return repo.Open(cfg.DB) })
	defer func() { _ = conn.Close() }()
	if _, err := conn.DB(ctx); err != nil {
		log.Warn().Err(err).Str("driver", cfg.DB.Driver).Msg("customer_store_unavailable_at_startup")
	}

	store := recordstore.New(cfg.RecordStore, cfg.HTTPClientTimeout)
	if !store.Enabled() {
		log.Warn().Msg("record_store_disabled_missing_credentials")
	}
	notifier := notify.New(cfg.Notify, cfg.HTTPClientTimeout)
	if !notifier.Enabled() {
		log.Warn().Msg("notifier_disabled_missing_credentials")
	} else {
		for _, trip := range []domain.TripType{domain.TripFlight, domain.TripCruise} {
			if !notifier.Supports(trip) {
				log.Warn().Str("trip", string(trip)).Msg("notifier_template_missing_alerts_skipped")
			}
		}
	}

	leadOpts, err := services.NewLeadOptions(cfg.LocalTimezone, cfg.LeadStatus)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.LocalTimezone).Msg("invalid_local_timezone")
	}

	svc := &services.FulfillmentService{
		Customers: &services.CustomerService{Conn: conn},
		Leads: &services.LeadService{
			Store:    store,
			Notifier: notifier,
			Options:  leadOpts,
		},
		Mode: cfg.DeliveryMode,
	}

	if cfg.DeliveryMode == config.DeliveryQueue {
		startQueue(ctx, cfg, svc)
	}

	engine := gin.New()
	httpapi.RegisterRoutes(engine, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("base_path", cfg.APIBasePath).
			Str("delivery_mode", cfg.DeliveryMode).
			Msg("http_server_listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http_server_failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http_server_shutdown_failed")
	}
}

// startQueue attaches the asynq client to svc and starts the in-process
// worker. Either half may be unavailable; the webhook then delivers inline.
func startQueue(ctx context.Context, cfg config.Config, svc *services.FulfillmentService) {
	client, err := queue.NewClient(cfg.Queue)
	if err != nil {
		log.Warn().Err(err).Msg("queue_client_unavailable_delivering_inline")
	} else {
		svc.Queue = client
		go func() {
			<-ctx.Done()
			_ = client.Close()
		}()
	}

	var proc queue.Processor
	if cfg.Queue.WorkerURL != "" {
		proc = queue.NewHTTPForwarder(cfg.Queue.WorkerURL, cfg.Queue.Secret, cfg.HTTPClientTimeout)
	} else {
		// Delivery failures are already logged by the service; a payload that
		// cannot be parsed will never succeed, so nothing is retried here.
		proc = queue.ProcessorFunc(func(ctx context.Context, body []byte) error {
			if err := svc.Process(ctx, body); err != nil {
				log.Ctx(ctx).Error().Err(err).Msg("queue_payload_rejected")
			}
			return nil
		})
	}

	worker, err := queue.NewWorker(cfg.Queue, proc)
	if err != nil {
		log.Warn().Err(err).Msg("queue_worker_not_started")
		return
	}
	go worker.Run(ctx)
	log.Info().Str("queue", cfg.Queue.Name).Bool("forwarding", cfg.Queue.WorkerURL != "").Msg("queue_worker_started")
}
