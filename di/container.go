package di

import (
	"fmt"
	"log/slog"

	"report-assembler/config"
	"report-assembler/driver/polis_api"
	"report-assembler/driver/redis_cache"
	"report-assembler/gateway/correlation_matrix_gateway"
	"report-assembler/gateway/report_source_gateway"
	"report-assembler/usecase/report_assembly_usecase"
	"report-assembler/usecase/report_view_usecase"
	"report-assembler/utils/metrics"
	"report-assembler/utils/resilience"
)

type ApplicationComponents struct {
	PolisAPIClient *polis_api.Client
	// RedisCache is nil unless REDIS_ENABLED is set.
	RedisCache *redis_cache.RedisCacheDriver

	ReportAssembler report_view_usecase.ReportLoader
	ViewRegistry    *report_view_usecase.ViewRegistry
}

func NewApplicationComponents(cfg *config.Config, logger *slog.Logger) (*ApplicationComponents, error) {
	breaker := resilience.CircuitBreakerConfig{
		Name:             "polis_api",
		FailureThreshold: cfg.PolisAPI.BreakerFailures,
		SuccessThreshold: cfg.PolisAPI.BreakerSuccesses,
		OpenTimeout:      cfg.PolisAPI.BreakerOpenTimeout,
		OnStateChange: func(name string, from, to resilience.CircuitState) {
			metrics.SetCircuitBreakerState(name, int(to))
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	polisClient, err := polis_api.NewClient(polis_api.Config{
		BaseURL:             cfg.PolisAPI.BaseURL,
		Timeout:             cfg.PolisAPI.RequestTimeout,
		RateLimitRPS:        cfg.PolisAPI.RateLimitRPS,
		RateLimitBurst:      cfg.PolisAPI.RateLimitBurst,
		MaxIdleConnsPerHost: cfg.PolisAPI.MaxIdleConnsPerHost,
		Breaker:             breaker,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create polis api client: %w", err)
	}

	reportSourceGatewayImpl := report_source_gateway.NewReportSourceGateway(polisClient, report_source_gateway.Config{
		ReportCacheSize: cfg.Report.CacheSize,
		ReportCacheTTL:  cfg.Report.CacheTTL,
	})

	var (
		redisCache   *redis_cache.RedisCacheDriver
		payloadCache correlation_matrix_gateway.PayloadCache
	)
	if cfg.Redis.Enabled {
		redisCache = redis_cache.NewRedisCacheDriver(redis_cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		payloadCache = redisCache
	}
	correlationGatewayImpl := correlation_matrix_gateway.NewCorrelationMatrixGateway(polisClient, payloadCache, cfg.Redis.CorrelationTTL, logger)

	poller := report_assembly_usecase.NewCorrelationMatrixPoller(correlationGatewayImpl, report_assembly_usecase.PollerConfig{
		ShortDelay:              cfg.Report.PollShortDelay,
		LongDelay:               cfg.Report.PollLongDelay,
		ShortAttempts:           cfg.Report.PollShortAttempts,
		CommentSelectionEnabled: cfg.Report.CommentSelectionEnabled,
	}, logger)

	reportAssemblyUsecase := report_assembly_usecase.NewReportAssemblyUsecase(reportSourceGatewayImpl, poller, report_assembly_usecase.Config{
		CorrelationMatrixEnabled: cfg.Report.CorrelationMatrixEnabled,
		StrictValidation:         cfg.Report.StrictValidation,
	}, logger)

	viewRegistry := report_view_usecase.NewViewRegistry(reportAssemblyUsecase, report_view_usecase.RegistryConfig{
		ResizeThrottle: cfg.Report.ResizeThrottle,
		MaxViews:       cfg.Report.MaxViews,
	}, logger)

	return &ApplicationComponents{
		PolisAPIClient:  polisClient,
		RedisCache:      redisCache,
		ReportAssembler: reportAssemblyUsecase,
		ViewRegistry:    viewRegistry,
	}, nil
}

// Close unmounts every view and releases the cache connection.
func (c *ApplicationComponents) Close() error {
	if c.ViewRegistry != nil {
		c.ViewRegistry.Close()
	}
	if c.RedisCache != nil {
		return c.RedisCache.Close()
	}
	return nil
}
