// Package circuitbreaker tracks the health of a single tool endpoint. The
// cascade keeps one breaker per candidate URL and skips endpoints whose
// breaker is open.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration
type Config struct {
	Name           string
	MaxFailures    int           // consecutive failures before opening
	CooldownPeriod time.Duration // open duration before a half-open trial call
}

// CircuitBreaker opens after MaxFailures consecutive failures and lets a
// single trial call through once the cooldown has elapsed.
type CircuitBreaker struct {
	mu            sync.Mutex
	name          string
	state         State
	failureCount  int
	openedAt      time.Time
	trialInFlight bool

	maxFailures    int
	cooldownPeriod time.Duration
	now            func() time.Time
}

func NewCircuitBreaker(config Config) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 3
	}
	if config.CooldownPeriod <= 0 {
		config.CooldownPeriod = 30 * time.Second
	}

	return &CircuitBreaker{
		name:           config.Name,
		state:          StateClosed,
		maxFailures:    config.MaxFailures,
		cooldownPeriod: config.CooldownPeriod,
		now:            time.Now,
	}
}

// Allow reports whether a call may proceed. In half-open state only one
// trial call is admitted until its outcome is recorded.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.cooldownPeriod {
			return ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
		cb.trialInFlight = true
		return nil
	case StateHalfOpen:
		if cb.trialInFlight {
			return ErrCircuitOpen
		}
		cb.trialInFlight = true
		return nil
	default:
		return nil
	}
}

// Record feeds the outcome of an admitted call back into the breaker.
func (cb *CircuitBreaker) Record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trialInFlight = false
	if err == nil {
		cb.failureCount = 0
		if cb.state != StateClosed {
			cb.setState(StateClosed)
		}
		return
	}

	cb.failureCount++
	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.maxFailures {
			cb.open()
		}
	case StateHalfOpen:
		cb.open()
	}
}

// Abandon releases an admitted call whose outcome says nothing about the
// endpoint, such as one cancelled by the caller.
func (cb *CircuitBreaker) Abandon() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.trialInFlight = false
}

func (cb *CircuitBreaker) open() {
	cb.openedAt = cb.now()
	cb.setState(StateOpen)
}

func (cb *CircuitBreaker) setState(s State) {
	if cb.state == s {
		return
	}
	slog.Info("Endpoint circuit breaker state changed", "endpoint", cb.name, "from", cb.state, "to", s)
	cb.state = s
}

// GetState returns the current state
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
