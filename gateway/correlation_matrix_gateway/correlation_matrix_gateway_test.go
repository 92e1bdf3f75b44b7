package correlation_matrix_gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"report-assembler/domain"
	"report-assembler/driver/redis_cache"
	apperrors "report-assembler/utils/errors"
)

type MockCorrelationMatrixDriver struct {
	mock.Mock
}

func (m *MockCorrelationMatrixDriver) GetCorrelationMatrix(ctx context.Context, mathTick int64, reportID string) (*domain.CorrelationMatrix, error) {
	args := m.Called(ctx, mathTick, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CorrelationMatrix), args.Error(1)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRedisCache(t *testing.T) (*redis_cache.RedisCacheDriver, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	d := redis_cache.NewRedisCacheDriver(redis_cache.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = d.Close() })
	return d, mr
}

func readyMatrix() *domain.CorrelationMatrix {
	return &domain.CorrelationMatrix{
		Comments: []int{1, 2},
		Matrix: []domain.CorrelationRow{
			{Values: []float64{1, 0.3}},
			{Invalid: true},
		},
	}
}

func TestFetchCorrelationMatrix_CachesTerminalMatrix(t *testing.T) {
	cache, _ := newRedisCache(t)
	api := new(MockCorrelationMatrixDriver)
	api.On("GetCorrelationMatrix", mock.Anything, int64(7), "r1").Return(readyMatrix(), nil).Once()
	g := NewCorrelationMatrixGateway(api, cache, time.Minute, testLogger)

	first, err := g.FetchCorrelationMatrix(context.Background(), 7, "r1")
	require.NoError(t, err)
	second, err := g.FetchCorrelationMatrix(context.Background(), 7, "r1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, second.Matrix[1].Invalid)
	api.AssertNumberOfCalls(t, "GetCorrelationMatrix", 1)
}

func TestFetchCorrelationMatrix_DoesNotCachePending(t *testing.T) {
	cache, mr := newRedisCache(t)
	api := new(MockCorrelationMatrixDriver)
	api.On("GetCorrelationMatrix", mock.Anything, int64(7), "r1").
		Return(&domain.CorrelationMatrix{Status: domain.CorrelationStatusPending}, nil).Twice()
	g := NewCorrelationMatrixGateway(api, cache, time.Minute, testLogger)

	for i := 0; i < 2; i++ {
		m, err := g.FetchCorrelationMatrix(context.Background(), 7, "r1")
		require.NoError(t, err)
		assert.True(t, m.IsPending())
	}

	assert.Empty(t, mr.Keys())
	api.AssertExpectations(t)
}

func TestFetchCorrelationMatrix_CacheOutageFallsBackToBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache := redis_cache.NewRedisCacheDriver(redis_cache.Options{Addr: mr.Addr()})
	defer func() { _ = cache.Close() }()
	mr.Close()

	api := new(MockCorrelationMatrixDriver)
	api.On("GetCorrelationMatrix", mock.Anything, int64(1), "r1").Return(readyMatrix(), nil)
	g := NewCorrelationMatrixGateway(api, cache, time.Minute, testLogger)

	m, err := g.FetchCorrelationMatrix(context.Background(), 1, "r1")

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, m.Comments)
}

func TestFetchCorrelationMatrix_WithoutCache(t *testing.T) {
	api := new(MockCorrelationMatrixDriver)
	api.On("GetCorrelationMatrix", mock.Anything, int64(3), "r9").Return(nil, errors.New("connection reset"))
	g := NewCorrelationMatrixGateway(api, nil, 0, testLogger)

	_, err := g.FetchCorrelationMatrix(context.Background(), 3, "r9")

	appErr, ok := apperrors.AsAppContextError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalAPI, appErr.Code)
	assert.Equal(t, int64(3), appErr.Context["math_tick"])
}
