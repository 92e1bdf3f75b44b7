package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"report-assembler/config"
	"report-assembler/di"
	"report-assembler/rest"
	"report-assembler/utils/logger"
	"report-assembler/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
)

func main() {
	// Docker healthcheck in distroless image
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("report-assembler exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	shutdownOTel, err := otel.InitProvider(ctx, otel.Config{
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.OTel.ServiceVersion,
		Environment:    cfg.OTel.Environment,
		OTLPEndpoint:   cfg.OTel.Endpoint,
		Enabled:        cfg.OTel.Enabled,
		SampleRatio:    cfg.OTel.SampleRatio,

		PolisAPIBaseURL:          cfg.PolisAPI.BaseURL,
		CorrelationMatrixEnabled: cfg.Report.CorrelationMatrixEnabled,
		StrictValidation:         cfg.Report.StrictValidation,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize otel: %w", err)
	}
	defer func() {
		otelCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(otelCtx); err != nil {
			slog.Error("failed to shutdown otel", "error", err)
		}
	}()

	log := logger.New(logger.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: cfg.OTel.ServiceName,
		EnableOTel:  cfg.OTel.Enabled,
	})
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"polis_api", cfg.PolisAPI.BaseURL,
		"correlation_matrix", cfg.Report.CorrelationMatrixEnabled,
		"comment_selection", cfg.Report.CommentSelectionEnabled,
		"strict_validation", cfg.Report.StrictValidation,
		"redis", cfg.Redis.Enabled)

	container, err := di.NewApplicationComponents(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error("failed to close components", "error", err)
		}
	}()

	if container.RedisCache != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := container.RedisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			// The cache is optional; misses fall through to the backend.
			log.Warn("redis unreachable at startup", "addr", cfg.Redis.Addr, "error", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout
	rest.RegisterRoutes(e, container, cfg)

	address := fmt.Sprintf(":%d", cfg.Server.Port)
	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting report-assembler server", "address", address)
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down server", "signal", sig.String())
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	// SSE streams only end once their views close, so unmount before
	// waiting on in-flight requests.
	container.ViewRegistry.Close()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited properly")
	return nil
}

func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9300"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/v1/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
