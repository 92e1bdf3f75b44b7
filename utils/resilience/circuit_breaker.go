// Package resilience guards calls to the polis backend.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and not allowing requests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

type CircuitBreakerConfig struct {
	Name string
	// FailureThreshold is the number of consecutive failures before opening the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive successes in half-open state before closing.
	SuccessThreshold int
	// OpenTimeout is how long the circuit stays open before a trial request is let through.
	OpenTimeout time.Duration
	// OnStateChange is called with the lock released after every transition.
	OnStateChange func(name string, from, to CircuitState)
}

func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

type CircuitBreakerStats struct {
	State           CircuitState
	TotalSuccesses  int64
	TotalFailures   int64
	ConsecFailures  int
	ConsecSuccesses int
}

type CircuitBreaker struct {
	mu sync.Mutex

	config CircuitBreakerConfig
	now    func() time.Time

	state           CircuitState
	consecFailures  int
	consecSuccesses int
	openedAt        time.Time

	totalSuccesses int64
	totalFailures  int64
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		config: config,
		now:    time.Now,
		state:  StateClosed,
	}
}

// State returns the current state, reporting HALF_OPEN once the open
// timeout has elapsed even if no trial request has run yet.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.config.OpenTimeout {
		return StateHalfOpen
	}
	return cb.state
}

// Allow checks if a request should be allowed through.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	from := cb.state
	allowed := false

	switch cb.state {
	case StateClosed, StateHalfOpen:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.config.OpenTimeout {
			cb.state = StateHalfOpen
			cb.consecSuccesses = 0
			allowed = true
		}
	}
	to := cb.state
	cb.mu.Unlock()

	cb.notify(from, to)
	return allowed
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	from := cb.state
	cb.totalSuccesses++
	cb.consecFailures = 0
	cb.consecSuccesses++

	if cb.state == StateHalfOpen && cb.consecSuccesses >= cb.config.SuccessThreshold {
		cb.state = StateClosed
		cb.consecSuccesses = 0
	}
	to := cb.state
	cb.mu.Unlock()

	cb.notify(from, to)
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	from := cb.state
	cb.totalFailures++
	cb.consecSuccesses = 0
	cb.consecFailures++

	switch cb.state {
	case StateClosed:
		if cb.consecFailures >= cb.config.FailureThreshold {
			cb.state = StateOpen
			cb.openedAt = cb.now()
		}
	case StateHalfOpen:
		// a failed trial request re-opens for a full timeout
		cb.state = StateOpen
		cb.openedAt = cb.now()
	}
	to := cb.state
	cb.mu.Unlock()

	cb.notify(from, to)
}

func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerStats{
		State:           cb.state,
		TotalSuccesses:  cb.totalSuccesses,
		TotalFailures:   cb.totalFailures,
		ConsecFailures:  cb.consecFailures,
		ConsecSuccesses: cb.consecSuccesses,
	}
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.state = StateClosed
	cb.consecFailures = 0
	cb.consecSuccesses = 0
	cb.mu.Unlock()

	cb.notify(from, StateClosed)
}

func (cb *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

// Execute runs fn if the breaker allows it and records the outcome.
// Cancellation of ctx by the caller is not counted against the backend.
func Execute[T any](ctx context.Context, cb *CircuitBreaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if !cb.Allow() {
		return zero, ErrCircuitOpen
	}

	result, err := fn(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return result, err
		}
		cb.RecordFailure()
		return result, err
	}

	cb.RecordSuccess()
	return result, nil
}
