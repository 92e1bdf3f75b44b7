package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppContextError_Error(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewExternalAPIContextError("failed to fetch report", "gateway", "ReportSourceGateway", "FetchReport", cause, nil)

	assert.Equal(t, "[gateway:ReportSourceGateway:FetchReport] EXTERNAL_API_ERROR: failed to fetch report (caused by: connection refused)", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "external_api", err.Context["error_type"])
}

func TestAppContextError_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		err      *AppContextError
		expected int
	}{
		{NewValidationContextError("bad", "rest", "h", "op", nil), http.StatusBadRequest},
		{NewNotFoundContextError("missing", "rest", "h", "op", nil, nil), http.StatusNotFound},
		{NewConflictContextError("blocked", "rest", "h", "op", nil, nil), http.StatusConflict},
		{NewRateLimitContextError("slow down", "driver", "c", "op", nil, nil), http.StatusTooManyRequests},
		{NewExternalAPIContextError("upstream", "driver", "c", "op", nil, nil), http.StatusBadGateway},
		{NewTimeoutContextError("late", "driver", "c", "op", nil, nil), http.StatusGatewayTimeout},
		{NewUnknownContextError("?", "usecase", "u", "op", nil, nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.HTTPStatusCode())
		})
	}
}

func TestAppContextError_IsRetryable(t *testing.T) {
	assert.True(t, NewTimeoutContextError("late", "driver", "c", "op", nil, nil).IsRetryable())
	assert.False(t, NewValidationContextError("bad", "rest", "h", "op", nil).IsRetryable())
}

func TestAsAppContextError(t *testing.T) {
	inner := NewNotFoundContextError("report missing", "gateway", "g", "FetchReport", nil, map[string]any{"report_id": "r1"})
	wrapped := fmt.Errorf("load failed: %w", inner)

	got, ok := AsAppContextError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, got.Code)

	resp := got.ToHTTPResponse()
	assert.Equal(t, "error", resp.Error)
	assert.Equal(t, "r1", resp.Context["report_id"])
	assert.False(t, resp.Retryable)
	assert.True(t, NewExternalAPIContextError("upstream", "gateway", "g", "op", nil, nil).ToHTTPResponse().Retryable)

	_, ok = AsAppContextError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestSentinelHelpers(t *testing.T) {
	err := fmt.Errorf("fetch: %w", ErrBackendUnavailable)
	assert.True(t, IsBackendUnavailable(err))
	assert.True(t, IsRetryableError(err))
	assert.False(t, IsRetryableError(ErrInvalidInput))
	assert.True(t, IsRetryableError(NewRateLimitContextError("slow down", "gateway", "g", "op", fmt.Errorf("%w: 429", ErrRateLimitExceeded), nil)))
	assert.True(t, stderrors.Is(NewValidationContextError("bad", "rest", "h", "op", nil), ErrInvalidInput))
}
