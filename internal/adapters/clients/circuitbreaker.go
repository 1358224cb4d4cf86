package clients

import (
	"sync"
	"time"
)

// State represents the current state of the circuit breaker.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the cool-down elapses.
	StateOpen

	// StateHalfOpen lets a limited number of probe requests through.
	StateHalfOpen
)

// String returns a human-readable name for the state.
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

// Outcome is what a finished request tells the breaker about upstream health.
type Outcome int

const (
	// OutcomeSuccess is any received response below 500.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure is a 5xx, a network error or an attempt timeout.
	OutcomeFailure
	// OutcomeIgnored is a request the caller abandoned, e.g. the siblings
	// of a failed batch. It releases its slot without counting either way.
	OutcomeIgnored
)

const (
	defaultBreakerMaxFailures   = 5
	defaultBreakerTimeout       = 30 * time.Second
	defaultBreakerHalfOpenLimit = 1
)

// CircuitBreakerConfig configures the circuit breaker behavior.
// Zero values fall back to 5 failures, a 30s cool-down and a single probe.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int

	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration

	// HalfOpenLimit is both the number of concurrent probes and the number of
	// probe successes needed to close the circuit again.
	HalfOpenLimit int
}

// Ticket is handed out by Acquire and must be passed back to Release.
// It ties a request to the breaker generation it was admitted under, so a
// slow request admitted before a transition cannot skew the new state's counts.
type Ticket struct {
	generation uint64
}

// CircuitBreaker guards the upstream against request storms while it is failing.
//
//	closed    -> open       after MaxFailures consecutive failures
//	open      -> half-open  once Timeout has passed since opening
//	half-open -> closed     after HalfOpenLimit probe successes
//	half-open -> open       on any probe failure
type CircuitBreaker struct {
	mu         sync.Mutex
	cfg        CircuitBreakerConfig
	state      State
	generation uint64
	openedAt   time.Time

	failures  int // consecutive, closed state only
	successes int // probe successes, half-open only
	inFlight  int // probes in flight, half-open only

	onStateChange func(from, to State)
	now           func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = defaultBreakerMaxFailures
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultBreakerTimeout
	}
	if cfg.HalfOpenLimit <= 0 {
		cfg.HalfOpenLimit = defaultBreakerHalfOpenLimit
	}

	return &CircuitBreaker{
		cfg: cfg,
		now: time.Now,
	}
}

// OnStateChange registers a callback invoked after every transition,
// outside the breaker's lock.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onStateChange = fn
}

// Acquire admits a request or returns ErrCircuitOpen.
// An open circuit whose cool-down has elapsed moves to half-open and admits
// the caller as its first probe.
func (cb *CircuitBreaker) Acquire() (Ticket, error) {
	cb.mu.Lock()

	var notify func()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.cfg.Timeout {
			cb.mu.Unlock()
			return Ticket{}, ErrCircuitOpen
		}
		notify = cb.transitionLocked(StateHalfOpen)
		cb.inFlight = 1

	case StateHalfOpen:
		if cb.inFlight >= cb.cfg.HalfOpenLimit {
			cb.mu.Unlock()
			return Ticket{}, ErrCircuitOpen
		}
		cb.inFlight++
	}

	ticket := Ticket{generation: cb.generation}
	cb.mu.Unlock()

	if notify != nil {
		notify()
	}

	return ticket, nil
}

// Release reports how an admitted request ended.
func (cb *CircuitBreaker) Release(ticket Ticket, outcome Outcome) {
	cb.mu.Lock()

	if ticket.generation != cb.generation {
		cb.mu.Unlock()
		return
	}

	var notify func()

	switch cb.state {
	case StateClosed:
		switch outcome {
		case OutcomeSuccess:
			cb.failures = 0
		case OutcomeFailure:
			cb.failures++
			if cb.failures >= cb.cfg.MaxFailures {
				notify = cb.transitionLocked(StateOpen)
			}
		}

	case StateHalfOpen:
		cb.inFlight--
		switch outcome {
		case OutcomeSuccess:
			cb.successes++
			if cb.successes >= cb.cfg.HalfOpenLimit {
				notify = cb.transitionLocked(StateClosed)
			}
		case OutcomeFailure:
			notify = cb.transitionLocked(StateOpen)
		}
	}

	cb.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// State returns the current state without advancing an expired open circuit.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// transitionLocked moves to next, starts a new generation and returns the
// pending callback invocation. Must be called with mu held.
func (cb *CircuitBreaker) transitionLocked(next State) func() {
	prev := cb.state
	cb.state = next
	cb.generation++
	cb.failures = 0
	cb.successes = 0
	cb.inFlight = 0

	if next == StateOpen {
		cb.openedAt = cb.now()
	}

	if cb.onStateChange == nil {
		return nil
	}

	fn := cb.onStateChange
	return func() { fn(prev, next) }
}
