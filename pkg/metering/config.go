package metering

import (
	"log/slog"
	"time"
)

// RetryPolicy bounds the backoff loop applied to transient settlement
// failures. Attempt n, when it fails transiently, is followed by a sleep of
// BaseDelay*Multiplier^(n-1) before attempt n+1; attempt MaxAttempts is the
// last.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  int64
}

// Backoff returns the sleep that follows a failed attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= time.Duration(p.Multiplier)
	}
	return d
}

// StallPolicy decides what happens to an active session when the ledger stays
// unavailable after the retry budget is spent.
type StallPolicy int

const (
	// StallFail fails the session outright.
	StallFail StallPolicy = iota
	// StallPause parks the session: no new ticks are consumed and the pending
	// tick is retried on a capped schedule until the ledger recovers or the
	// viewer leaves.
	StallPause
)

// Config carries the engine's tuning knobs.
type Config struct {
	TickInterval  time.Duration
	MaxLockTicks  int64
	Retry         RetryPolicy
	Stall         StallPolicy
	PauseInterval time.Duration
}

// DefaultConfig returns the engine defaults: one-second ticks, a 3600-tick
// lock budget, five attempts backing off from 100ms doubling, fail on stall.
func DefaultConfig() Config {
	return Config{
		TickInterval:  time.Second,
		MaxLockTicks:  3600,
		Retry:         RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, Multiplier: 2},
		Stall:         StallFail,
		PauseInterval: 5 * time.Second,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTickInterval sets the billing interval for new sessions.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.cfg.TickInterval = d
	}
}

// WithMaxLockTicks sets the lock budget, in ticks, for sessions that do not
// request their own. Requests above it are clamped.
func WithMaxLockTicks(n int64) Option {
	return func(e *Engine) {
		e.cfg.MaxLockTicks = n
	}
}

// WithRetryPolicy sets the bounded backoff applied to transient failures.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(e *Engine) {
		e.cfg.Retry = p
	}
}

// WithStallPolicy sets the behavior when the ledger outlasts the retry budget.
func WithStallPolicy(p StallPolicy) Option {
	return func(e *Engine) {
		e.cfg.Stall = p
	}
}

// WithPauseInterval sets the re-attempt cadence for sessions parked under
// StallPause.
func WithPauseInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.cfg.PauseInterval = d
	}
}
