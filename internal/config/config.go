// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, the language-model
// provider, conversation-context caching, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-order-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// OpenAIConfig defines the chat-completions provider settings used by the
// language-model client. BaseURL may point at any endpoint implementing the
// chat-completions contract (self-hosted gateways included).
type OpenAIConfig struct {
	APIKey           string        // OPENAI_API_KEY
	BaseURL          string        // OPENAI_API_URL (provider default when empty)
	Model            string        // OPENAI_DEFAULT_MODEL
	MaxTokens        int           // OPENAI_MAX_TOKENS (reply token cap)
	Temperature      float64       // OPENAI_TEMPERATURE
	FrequencyPenalty float64       // OPENAI_FREQUENCY_PENALTY
	Timeout          time.Duration // OPENAI_TIMEOUT (per-request wire timeout)
}

// ChannelConfig defines the outbound message-channel publisher (NATS).
// When disabled, replies are only returned on the HTTP response.
type ChannelConfig struct {
	Enabled bool   // CHANNEL_ENABLED
	URL     string // CHANNEL_NATS_URL (e.g. nats://localhost:4222)
	Subject string // CHANNEL_SUBJECT (chunked replies are published here)
}

// PaymentsConfig defines the payment-gateway client settings.
type PaymentsConfig struct {
	GatewayURL string // PAYMENTS_GATEWAY_URL
	Token      string // PAYMENTS_ACCESS_TOKEN
}

// DeliveryConfig defines the routing-API delivery estimator settings.
type DeliveryConfig struct {
	RoutingURL string  // DELIVERY_ROUTING_URL (directions endpoint)
	APIKey     string  // DELIVERY_ROUTING_KEY
	FeePerKM   float64 // DELIVERY_FEE_PER_KM (currency units per kilometer)
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

	// App
	DBPath          string        // SQLite path
	MaxMessageChars int           // inbound message length cap
	ReplyChunkSize  int           // chars per chunk before the " &# " delimiter
	ContextTTL      time.Duration // conversation context cache expiry
	ContextMaxTurns int           // turn pairs retained per client context

	// Providers
	OpenAI   OpenAIConfig
	Channel  ChannelConfig
	Payments PaymentsConfig
	Delivery DeliveryConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

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
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:          getenv("DB_PATH", "app.db"),
		MaxMessageChars: getint("MAX_MESSAGE_CHARS", 1000),
		ReplyChunkSize:  getint("REPLY_CHUNK_SIZE", 500),
		ContextTTL:      getdur("CONTEXT_TTL", 60*time.Minute),
		ContextMaxTurns: getint("CONTEXT_MAX_TURNS", 5),

		// Providers
		OpenAI: OpenAIConfig{
			APIKey:           getenv("OPENAI_API_KEY", ""),
			BaseURL:          getenv("OPENAI_API_URL", ""),
			Model:            getenv("OPENAI_DEFAULT_MODEL", "gpt-4o-mini"),
			MaxTokens:        getint("OPENAI_MAX_TOKENS", 500),
			Temperature:      getfloat("OPENAI_TEMPERATURE", 0.7),
			FrequencyPenalty: getfloat("OPENAI_FREQUENCY_PENALTY", 0.0),
			Timeout:          getdur("OPENAI_TIMEOUT", 30*time.Second),
		},
		Channel: ChannelConfig{
			Enabled: getbool("CHANNEL_ENABLED", false),
			URL:     getenv("CHANNEL_NATS_URL", "nats://localhost:4222"),
			Subject: getenv("CHANNEL_SUBJECT", "channel.outbound"),
		},
		Payments: PaymentsConfig{
			GatewayURL: getenv("PAYMENTS_GATEWAY_URL", ""),
			Token:      getenv("PAYMENTS_ACCESS_TOKEN", ""),
		},
		Delivery: DeliveryConfig{
			RoutingURL: getenv("DELIVERY_ROUTING_URL", ""),
			APIKey:     getenv("DELIVERY_ROUTING_KEY", ""),
			FeePerKM:   getfloat("DELIVERY_FEE_PER_KM", 5.0),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-order-backend"),
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
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.MaxMessageChars <= 0 {
		return cfg, errors.New("MAX_MESSAGE_CHARS must be > 0")
	}
	if cfg.ReplyChunkSize <= 0 {
		return cfg, errors.New("REPLY_CHUNK_SIZE must be > 0")
	}
	if cfg.ContextTTL <= 0 {
		return cfg, errors.New("CONTEXT_TTL must be > 0")
	}
	if cfg.ContextMaxTurns <= 0 {
		return cfg, errors.New("CONTEXT_MAX_TURNS must be > 0")
	}
	if cfg.OpenAI.MaxTokens <= 0 {
		return cfg, errors.New("OPENAI_MAX_TOKENS must be > 0")
	}
	if cfg.OpenAI.Temperature < 0 || cfg.OpenAI.Temperature > 2 {
		return cfg, errors.New("OPENAI_TEMPERATURE must be in [0,2]")
	}
	if cfg.OpenAI.Timeout <= 0 {
		return cfg, errors.New("OPENAI_TIMEOUT must be > 0")
	}
	if cfg.Delivery.FeePerKM < 0 {
		return cfg, errors.New("DELIVERY_FEE_PER_KM must be >= 0")
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
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

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
