package infra

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is one of closed, open or half-open.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned without calling the wrapped function.
var ErrBreakerOpen = errors.New("circuit breaker is open")

type BreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the breaker
	SuccessThreshold int           // consecutive half-open successes that close it
	OpenTimeout      time.Duration // time spent open before letting a probe through
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, SuccessThreshold: 2, OpenTimeout: 30 * time.Second}
}

// CircuitBreaker fast-fails calls to a dependency that keeps erroring, so a
// dead image resizer does not add its timeout to every catalog read.
type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       BreakerConfig
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
	now       func() time.Time
}

func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	def := DefaultBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentLocked()
}

// currentLocked moves open → half-open once the timeout has elapsed.
func (cb *CircuitBreaker) currentLocked() BreakerState {
	if cb.state == BreakerOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.state = BreakerHalfOpen
		cb.successes = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open and records its outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.currentLocked() == BreakerOpen {
		cb.mu.Unlock()
		return ErrBreakerOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		if cb.state == BreakerHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
			cb.state = BreakerOpen
			cb.openedAt = cb.now()
			cb.failures = 0
		}
		return err
	}

	cb.failures = 0
	if cb.state == BreakerHalfOpen {
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.state = BreakerClosed
			cb.successes = 0
		}
	}
	return nil
}
