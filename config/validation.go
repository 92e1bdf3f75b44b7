package config

import (
	"fmt"
	"net/url"
	"time"
)

// MinResizeThrottle is the shortest allowed interval between two
// dimension updates of a report view.
const MinResizeThrottle = 500 * time.Millisecond

// validateConfig validates the loaded configuration values
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validatePolisAPIConfig(&config.PolisAPI); err != nil {
		return fmt.Errorf("polis api config validation failed: %w", err)
	}

	if err := validateReportConfig(&config.Report); err != nil {
		return fmt.Errorf("report config validation failed: %w", err)
	}

	if err := validateRedisConfig(&config.Redis); err != nil {
		return fmt.Errorf("redis config validation failed: %w", err)
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	if err := validateOTelConfig(&config.OTel); err != nil {
		return fmt.Errorf("otel config validation failed: %w", err)
	}

	return nil
}

func validateServerConfig(config *ServerConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}

	if config.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", config.ReadTimeout)
	}

	// WriteTimeout may be zero: SSE streams stay open indefinitely.
	if config.WriteTimeout < 0 {
		return fmt.Errorf("write timeout must not be negative, got %v", config.WriteTimeout)
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %v", config.ShutdownTimeout)
	}

	if config.SSEHeartbeat < time.Second {
		return fmt.Errorf("sse heartbeat must be at least 1s, got %v", config.SSEHeartbeat)
	}

	return nil
}

func validatePolisAPIConfig(config *PolisAPIConfig) error {
	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url must be an absolute URL, got %q", config.BaseURL)
	}

	if config.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", config.RequestTimeout)
	}

	if config.RateLimitRPS <= 0 || config.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit must be positive, got rps=%v burst=%d", config.RateLimitRPS, config.RateLimitBurst)
	}

	if config.BreakerFailures < 1 || config.BreakerSuccesses < 1 {
		return fmt.Errorf("breaker thresholds must be at least 1, got failures=%d successes=%d", config.BreakerFailures, config.BreakerSuccesses)
	}

	return nil
}

func validateReportConfig(config *ReportConfig) error {
	if config.PollShortDelay <= 0 || config.PollLongDelay <= 0 {
		return fmt.Errorf("poll delays must be positive, got short=%v long=%v", config.PollShortDelay, config.PollLongDelay)
	}

	if config.PollShortAttempts < 0 {
		return fmt.Errorf("poll short attempts must not be negative, got %d", config.PollShortAttempts)
	}

	if config.ResizeThrottle < MinResizeThrottle {
		return fmt.Errorf("resize throttle must be at least %v, got %v", MinResizeThrottle, config.ResizeThrottle)
	}

	if config.CacheSize < 1 {
		return fmt.Errorf("cache size must be at least 1, got %d", config.CacheSize)
	}

	if config.MaxViews < 1 {
		return fmt.Errorf("max views must be at least 1, got %d", config.MaxViews)
	}

	return nil
}

func validateRedisConfig(config *RedisConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Addr == "" {
		return fmt.Errorf("redis addr is required when redis is enabled")
	}

	if config.CorrelationTTL <= 0 {
		return fmt.Errorf("correlation ttl must be positive, got %v", config.CorrelationTTL)
	}

	return nil
}

func validateLoggingConfig(config *LoggingConfig) error {
	switch config.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", config.Level)
	}

	switch config.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", config.Format)
	}

	return nil
}

func validateOTelConfig(config *OTelConfig) error {
	if config.SampleRatio < 0 || config.SampleRatio > 1 {
		return fmt.Errorf("sample ratio must be between 0 and 1, got %v", config.SampleRatio)
	}
	return nil
}
