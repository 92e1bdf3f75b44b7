package correlation_matrix_gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"report-assembler/domain"
	apperrors "report-assembler/utils/errors"
	"report-assembler/utils/metrics"
)

const (
	layer     = "gateway"
	component = "CorrelationMatrixGateway"
)

type CorrelationMatrixDriver interface {
	GetCorrelationMatrix(ctx context.Context, mathTick int64, reportID string) (*domain.CorrelationMatrix, error)
}

// PayloadCache stores serialized correlation matrices.
type PayloadCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// CorrelationMatrixGateway reads correlation matrices through an optional
// shared cache. Only terminal matrices are cached: a matrix computed for a
// math tick never changes.
type CorrelationMatrixGateway struct {
	api    CorrelationMatrixDriver
	cache  PayloadCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCorrelationMatrixGateway builds the gateway. cache may be nil.
func NewCorrelationMatrixGateway(api CorrelationMatrixDriver, cache PayloadCache, ttl time.Duration, logger *slog.Logger) *CorrelationMatrixGateway {
	return &CorrelationMatrixGateway{api: api, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(mathTick int64, reportID string) string {
	return fmt.Sprintf("correlation:%d:%s", mathTick, reportID)
}

func (g *CorrelationMatrixGateway) FetchCorrelationMatrix(ctx context.Context, mathTick int64, reportID string) (*domain.CorrelationMatrix, error) {
	key := cacheKey(mathTick, reportID)

	if cached, ok := g.lookup(ctx, key); ok {
		return cached, nil
	}

	m, err := g.api.GetCorrelationMatrix(ctx, mathTick, reportID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("FetchCorrelationMatrix cancelled: %w", err)
		}
		return nil, apperrors.NewExternalAPIContextError("failed to fetch correlation matrix", layer, component, "FetchCorrelationMatrix", err,
			map[string]any{"math_tick": mathTick, "report_id": reportID})
	}

	if !m.IsPending() && !m.NeedsCommentSelection() {
		g.store(ctx, key, m)
	}
	return m, nil
}

// Cache failures degrade to a backend read.
func (g *CorrelationMatrixGateway) lookup(ctx context.Context, key string) (*domain.CorrelationMatrix, bool) {
	if g.cache == nil {
		return nil, false
	}

	data, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.WarnContext(ctx, "correlation cache read failed", "key", key, "error", err)
		return nil, false
	}
	metrics.RecordCacheLookup("correlation", ok)
	if !ok {
		return nil, false
	}

	var m domain.CorrelationMatrix
	if err := json.Unmarshal(data, &m); err != nil {
		g.logger.WarnContext(ctx, "discarding undecodable cached correlation matrix", "key", key, "error", err)
		return nil, false
	}
	return &m, true
}

func (g *CorrelationMatrixGateway) store(ctx context.Context, key string, m *domain.CorrelationMatrix) {
	if g.cache == nil {
		return
	}

	data, err := json.Marshal(m)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to encode correlation matrix for cache", "key", key, "error", err)
		return
	}
	if err := g.cache.Set(ctx, key, data, g.ttl); err != nil {
		g.logger.WarnContext(ctx, "correlation cache write failed", "key", key, "error", err)
	}
}
