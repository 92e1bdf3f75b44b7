package polis_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"report-assembler/utils/metrics"
	"report-assembler/utils/resilience"
)

const (
	EndpointReports      = "reports"
	EndpointMath         = "math"
	EndpointComments     = "comments"
	EndpointParticipants = "ptptois"
	EndpointConversation = "conversations"
	EndpointDemographics = "group_demographics"
	EndpointCorrelation  = "correlation_matrix"
)

// maxErrorBody bounds how much of an error response is kept for diagnostics.
const maxErrorBody = 512

type Config struct {
	BaseURL             string
	Timeout             time.Duration
	RateLimitRPS        float64
	RateLimitBurst      int
	MaxIdleConnsPerHost int
	Breaker             resilience.CircuitBreakerConfig
}

// APIError is a non-2xx answer from the polis backend.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("polis backend %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Temporary reports whether the backend itself is failing, as opposed to
// rejecting the request.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Client is a read-only JSON client for the polis v3 REST API. Every call
// is rate limited, guarded by a circuit breaker and traced.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *resilience.CircuitBreaker
	tracer     trace.Tracer
	logger     *slog.Logger
	cacheBust  func() string
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", cfg.BaseURL)
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConnsPerHost * 2,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     120 * time.Second,
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		breaker:   resilience.NewCircuitBreaker(cfg.Breaker),
		tracer:    otel.Tracer("report-assembler/driver/polis_api"),
		logger:    logger,
		cacheBust: func() string { return strconv.FormatInt(time.Now().UnixNano(), 36) },
	}, nil
}

// BreakerStats exposes the circuit breaker state for health reporting.
func (c *Client) BreakerStats() resilience.CircuitBreakerStats {
	return c.breaker.Stats()
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	ctx, span := c.tracer.Start(ctx, "polis_api."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("polis.endpoint", endpoint),
			attribute.String("http.request.method", http.MethodGet),
		),
	)
	defer span.End()

	start := time.Now()
	status := "error"
	defer func() {
		metrics.RecordBackendRequest(endpoint, status, time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		status = "rate_limited"
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate limiter wait failed")
		return fmt.Errorf("rate limiter wait for %s: %w", endpoint, err)
	}

	// Rejections (4xx) are returned to the caller without counting
	// against the breaker.
	var rejected error
	_, err := resilience.Execute(ctx, c.breaker, func(ctx context.Context) (struct{}, error) {
		err := c.do(ctx, endpoint, path, query, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			rejected = err
			return struct{}{}, nil
		}
		return struct{}{}, err
	})
	if err == nil {
		err = rejected
	}

	if err != nil {
		var apiErr *APIError
		switch {
		case errors.Is(err, resilience.ErrCircuitOpen):
			status = "circuit_open"
		case errors.As(err, &apiErr):
			status = strconv.Itoa(apiErr.StatusCode)
			span.SetAttributes(attribute.Int("http.response.status_code", apiErr.StatusCode))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WarnContext(ctx, "polis backend request failed",
			"endpoint", endpoint,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return err
	}

	status = "ok"
	span.SetAttributes(attribute.Int("http.response.status_code", http.StatusOK))
	c.logger.DebugContext(ctx, "polis backend request completed",
		"endpoint", endpoint,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
