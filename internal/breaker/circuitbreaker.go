// Package breaker implements a thread-safe circuit breaker guarding calls to
// the storage boundary, so a failing backing store fails fast instead of
// stalling every connection's 60-second read timeout.
package breaker

import (
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows all calls through. Failures are counted; when the
	// threshold is reached the circuit transitions to Open.
	StateClosed State = iota
	// StateOpen rejects all calls immediately with ErrOpen. After the
	// configured timeout the circuit transitions to Half-Open.
	StateOpen
	// StateHalfOpen lets calls through as probes. On success the circuit
	// resets to Closed; on failure it returns to Open. The number of probe
	// calls in flight at once is not limited.
	StateHalfOpen
)

const (
	defaultThreshold   = 5
	defaultTimeout     = 10 * time.Second
	defaultHalfOpenMax = 1
)

// ErrOpen is returned when a call is rejected because the circuit is open.
var ErrOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to an unreliable dependency.
type CircuitBreaker struct {
	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	lastFailure   time.Time
	threshold     int
	timeout       time.Duration
	halfOpenMax   int
	onStateChange func(from, to State)
	nowFunc       func() time.Time
}

// Option configures the circuit breaker.
type Option func(*CircuitBreaker)

// WithThreshold sets the consecutive failure count that trips the circuit to Open. Default: 5.
func WithThreshold(n int) Option {
	return func(cb *CircuitBreaker) {
		if n > 0 {
			cb.threshold = n
		}
	}
}

// WithTimeout sets how long the circuit stays Open before probing again. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(cb *CircuitBreaker) { cb.timeout = d }
}

// WithOnStateChange registers a callback invoked on every state transition.
func WithOnStateChange(fn func(from, to State)) Option {
	return func(cb *CircuitBreaker) { cb.onStateChange = fn }
}

// New creates a CircuitBreaker with the given options.
func New(opts ...Option) *CircuitBreaker {
	cb := &CircuitBreaker{
		state:       StateClosed,
		threshold:   defaultThreshold,
		timeout:     defaultTimeout,
		halfOpenMax: defaultHalfOpenMax,
		nowFunc:     time.Now,
	}

	for _, opt := range opts {
		opt(cb)
	}

	return cb
}

// Execute runs fn if the circuit allows it. Returns ErrOpen when the breaker
// is open and the timeout has not yet elapsed.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()

	switch cb.state {
	case StateOpen:
		if cb.nowFunc().Sub(cb.lastFailure) >= cb.timeout {
			cb.transitionTo(StateHalfOpen)
		} else {
			cb.mu.Unlock()
			return ErrOpen
		}
	case StateHalfOpen:
		if cb.successes >= cb.halfOpenMax {
			cb.mu.Unlock()
			return ErrOpen
		}
	case StateClosed:
	}

	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}

	return err
}

// State returns the current circuit breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.halfOpenMax {
			cb.transitionTo(StateClosed)
		}
	case StateOpen:
	}
}

func (cb *CircuitBreaker) onFailure() {
	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.threshold {
			cb.lastFailure = cb.nowFunc()
			cb.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		cb.lastFailure = cb.nowFunc()
		cb.transitionTo(StateOpen)
	case StateOpen:
	}
}

func (cb *CircuitBreaker) transitionTo(to State) {
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0

	if cb.onStateChange != nil {
		cb.onStateChange(from, to)
	}
}
