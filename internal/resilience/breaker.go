// Package resilience provides failure-isolation primitives shared by the
// adapters: a circuit breaker guarding broker publishes and a concurrency
// limiter bounding worker ticks.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// Breaker isolates a flaky dependency. After threshold consecutive failures
// it rejects calls outright for the cooldown period, then admits a single
// probe call: success closes the circuit, failure reopens it. The registry
// wraps event publishes in one so a dead broker cannot stall the
// synchronous lifecycle path.
type Breaker struct {
	mu        sync.Mutex
	state     circuitState
	failures  int
	threshold int
	cooldown  time.Duration
	openedAt  time.Time
	clock     func() time.Time // swapped in tests
}

// NewBreaker creates a breaker that trips after threshold consecutive
// failures and stays open for the cooldown.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{threshold: threshold, cooldown: cooldown, clock: time.Now}
}

// Execute runs fn unless the circuit is open. The error from fn is returned
// unchanged so callers can still inspect it.
func (b *Breaker) Execute(fn func() error) error {
	if !b.admit() {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		if b.state == circuitHalfOpen || b.failures >= b.threshold {
			b.state = circuitOpen
			b.openedAt = b.clock()
		}
		return err
	}

	b.failures = 0
	b.state = circuitClosed
	return nil
}

// admit reports whether a call may proceed, moving an expired open circuit
// to half-open.
func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == circuitOpen {
		if b.clock().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = circuitHalfOpen
	}
	return true
}
