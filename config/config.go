package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig
	PolisAPI PolisAPIConfig
	Report   ReportConfig
	Redis    RedisConfig
	Logging  LoggingConfig
	OTel     OTelConfig
}

type ServerConfig struct {
	Port            int           `env:"PORT" envDefault:"9300"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"0s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SSEHeartbeat    time.Duration `env:"SERVER_SSE_HEARTBEAT" envDefault:"15s"`
	CORSOrigins     []string      `env:"SERVER_CORS_ORIGINS" envDefault:"http://localhost:5000" envSeparator:","`
}

type PolisAPIConfig struct {
	BaseURL             string        `env:"POLIS_API_BASE_URL" envDefault:"http://localhost:5000"`
	RequestTimeout      time.Duration `env:"POLIS_API_REQUEST_TIMEOUT" envDefault:"15s"`
	RateLimitRPS        float64       `env:"POLIS_API_RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst      int           `env:"POLIS_API_RATE_LIMIT_BURST" envDefault:"10"`
	MaxIdleConnsPerHost int           `env:"POLIS_API_MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
	BreakerFailures     int           `env:"POLIS_API_BREAKER_FAILURES" envDefault:"5"`
	BreakerSuccesses    int           `env:"POLIS_API_BREAKER_SUCCESSES" envDefault:"2"`
	BreakerOpenTimeout  time.Duration `env:"POLIS_API_BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
}

type ReportConfig struct {
	CorrelationMatrixEnabled bool          `env:"REPORT_CORRELATION_MATRIX_ENABLED" envDefault:"true"`
	CommentSelectionEnabled  bool          `env:"REPORT_COMMENT_SELECTION_ENABLED" envDefault:"true"`
	StrictValidation         bool          `env:"REPORT_STRICT_VALIDATION" envDefault:"false"`
	PollShortDelay           time.Duration `env:"REPORT_POLL_SHORT_DELAY" envDefault:"200ms"`
	PollLongDelay            time.Duration `env:"REPORT_POLL_LONG_DELAY" envDefault:"3s"`
	PollShortAttempts        int           `env:"REPORT_POLL_SHORT_ATTEMPTS" envDefault:"10"`
	ResizeThrottle           time.Duration `env:"REPORT_RESIZE_THROTTLE" envDefault:"500ms"`
	CacheSize                int           `env:"REPORT_CACHE_SIZE" envDefault:"256"`
	CacheTTL                 time.Duration `env:"REPORT_CACHE_TTL" envDefault:"1m"`
	MaxViews                 int           `env:"REPORT_MAX_VIEWS" envDefault:"1000"`
}

type RedisConfig struct {
	Enabled        bool          `env:"REDIS_ENABLED" envDefault:"false"`
	Addr           string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" envDefault:"0"`
	CorrelationTTL time.Duration `env:"REDIS_CORRELATION_TTL" envDefault:"10m"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type OTelConfig struct {
	Enabled        bool    `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName    string  `env:"OTEL_SERVICE_NAME" envDefault:"report-assembler"`
	ServiceVersion string  `env:"SERVICE_VERSION" envDefault:"0.0.0"`
	Environment    string  `env:"DEPLOYMENT_ENV" envDefault:"development"`
	Endpoint       string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"http://localhost:4318"`
	SampleRatio    float64 `env:"OTEL_TRACE_SAMPLE_RATIO" envDefault:"0.1"`
}

// NewConfig parses the environment and validates the result.
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
