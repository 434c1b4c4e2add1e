// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, the customer database, the external record-store and messaging
// collaborators, the task queue, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Delivery modes for completed leads.
const (
	DeliverySync  = "sync"  // deliver inside the webhook request
	DeliveryQueue = "queue" // enqueue and deliver from the worker
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects and parameterizes the customer-record database.
type DBConfig struct {
	Driver   string // sqlite|postgres
	Path     string // SQLite file
	URL      string // DATABASE_URL, wins over the discrete postgres fields
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// RecordStoreConfig holds the document-database API credentials.
type RecordStoreConfig struct {
	BaseURL    string
	APIKey     string
	DatabaseID string
	Version    string
}

// Enabled reports whether both credential and target are present.
func (c RecordStoreConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.DatabaseID) != ""
}

// NotifyConfig holds the messaging provider credentials and template ids.
type NotifyConfig struct {
	BaseURL        string
	AccountSID     string
	AuthToken      string
	From           string
	To             string
	FlightTemplate string
	CruiseTemplate string
}

// Enabled reports whether the provider can be called at all.
func (c NotifyConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != "" && c.To != ""
}

// QueueConfig holds the task-queue routing parameters.
type QueueConfig struct {
	RedisURL    string
	Name        string
	MaxRetry    int
	Concurrency int
	WorkerURL   string // when set, the queue worker forwards tasks here
	Secret      string // shared secret for the worker endpoint
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Fulfillment
	DeliveryMode      string        // sync|queue
	LocalTimezone     string        // IANA zone used for contact timestamps
	LeadStatus        string        // status written on every new lead
	HTTPClientTimeout time.Duration // per outbound call

	// Rate limiting
	RateRPS   float64 // tokens per second (0 disables)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Collaborators
	DB          DBConfig
	RecordStore RecordStoreConfig
	Notify      NotifyConfig
	Queue       QueueConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Fulfillment
		DeliveryMode:      strings.ToLower(getenv("DELIVERY_MODE", DeliverySync)),
		LocalTimezone:     getenv("LOCAL_TIMEZONE", "America/Sao_Paulo"),
		LeadStatus:        getenv("LEAD_STATUS", "Aguardando Pesquisa"),
		HTTPClientTimeout: getdur("HTTP_CLIENT_TIMEOUT", 10*time.Second),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 20.0),
		RateBurst: getint("RATE_BURST", 40),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		DB: DBConfig{
			Driver:   strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			Path:     getenv("DB_PATH", "app.db"),
			URL:      getenv("DATABASE_URL", ""),
			Host:     getenv("DB_HOST", ""),
			Port:     getenv("DB_PORT", "5432"),
			Name:     getenv("DB_NAME", ""),
			User:     getenv("DB_USER", ""),
			Password: getenv("DB_PASSWORD", ""),
			SSLMode:  getenv("DB_SSLMODE", "require"),
		},
		RecordStore: RecordStoreConfig{
			BaseURL:    getenv("RECORDSTORE_BASE_URL", "https://api.notion.com"),
			APIKey:     getenv("RECORDSTORE_API_KEY", ""),
			DatabaseID: getenv("RECORDSTORE_DATABASE_ID", ""),
			Version:    getenv("RECORDSTORE_VERSION", "2022-06-28"),
		},
		Notify: NotifyConfig{
			BaseURL:        getenv("NOTIFY_BASE_URL", "https://api.twilio.com"),
			AccountSID:     getenv("NOTIFY_ACCOUNT_SID", ""),
			AuthToken:      getenv("NOTIFY_AUTH_TOKEN", ""),
			From:           getenv("NOTIFY_FROM", ""),
			To:             getenv("NOTIFY_TO", ""),
			FlightTemplate: getenv("NOTIFY_FLIGHT_TEMPLATE", ""),
			CruiseTemplate: getenv("NOTIFY_CRUISE_TEMPLATE", ""),
		},
		Queue: QueueConfig{
			RedisURL:    getenv("REDIS_URL", ""),
			Name:        getenv("QUEUE_NAME", "leads"),
			MaxRetry:    getint("QUEUE_MAX_RETRY", 5),
			Concurrency: getint("QUEUE_CONCURRENCY", 4),
			WorkerURL:   getenv("WORKER_URL", ""),
			Secret:      getenv("WORKER_SECRET", ""),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "lead-webhook"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "postgresql" || cfg.DB.Driver == "pg" {
		cfg.DB.Driver = "postgres"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DeliveryMode {
	case DeliverySync, DeliveryQueue:
	default:
		return cfg, errors.New("DELIVERY_MODE must be one of: sync, queue")
	}
	switch cfg.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.HTTPClientTimeout <= 0 {
		return cfg, errors.New("HTTP_CLIENT_TIMEOUT must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.Queue.MaxRetry < 0 {
		return cfg, errors.New("QUEUE_MAX_RETRY must be >= 0")
	}
	if cfg.Queue.Concurrency < 1 {
		return cfg, errors.New("QUEUE_CONCURRENCY must be >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
