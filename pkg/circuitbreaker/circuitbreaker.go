// Package circuitbreaker guards calls to flaky external collaborators,
// currently the broker the outbox publishes through. After a run of
// consecutive failures it rejects calls outright for a cool-down period,
// then lets a single probe through before closing again.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrOpen is returned while the breaker is rejecting calls.
var ErrOpen = errors.New("circuit breaker open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

type Settings struct {
	// Name identifies the breaker in logs.
	Name string
	// FailureThreshold is the run of consecutive failures that opens the
	// breaker.
	FailureThreshold int
	// CoolDown is how long the open breaker rejects calls before allowing
	// a probe.
	CoolDown time.Duration
}

type CircuitBreaker struct {
	name      string
	threshold int
	coolDown  time.Duration

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.CoolDown <= 0 {
		settings.CoolDown = 30 * time.Second
	}
	return &CircuitBreaker{
		name:      settings.Name,
		threshold: settings.FailureThreshold,
		coolDown:  settings.CoolDown,
		state:     StateClosed,
	}
}

// Execute runs fn unless the breaker is open, and feeds the outcome back
// into the breaker state. Rejected calls fail fast with ErrOpen and never
// invoke fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrOpen
	}
	err := fn()
	cb.record(err)
	return err
}

// State reports the breaker's current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if time.Since(cb.lastFailure) < cb.coolDown {
			return false
		}
		cb.setState(StateHalfOpen)
	}
	return true
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		if cb.state == StateHalfOpen {
			cb.setState(StateClosed)
		}
		cb.failures = 0
		return
	}

	cb.failures++
	cb.lastFailure = time.Now()
	// A failed probe re-opens immediately; closed trips on the threshold.
	if cb.state == StateHalfOpen || cb.failures >= cb.threshold {
		cb.setState(StateOpen)
	}
}

func (cb *CircuitBreaker) setState(next State) {
	if cb.state == next {
		return
	}
	log.Warn().
		Str("breaker", cb.name).
		Stringer("from", cb.state).
		Stringer("to", next).
		Msg("circuit breaker state change")
	cb.state = next
}
