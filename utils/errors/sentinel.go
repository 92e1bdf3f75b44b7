package errors

import "errors"

// Sentinel errors matched with errors.Is across layers.
var (
	ErrBackendUnavailable = errors.New("polis backend unavailable")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrOperationTimeout   = errors.New("operation timeout")
	ErrInvalidInput       = errors.New("invalid input")
)

func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrOperationTimeout)
}

// IsRetryableError determines if an error represents a condition that can be retried
func IsRetryableError(err error) bool {
	return IsRateLimitError(err) ||
		IsTimeoutError(err) ||
		IsBackendUnavailable(err)
}
