package core

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/Pavitra-A/queuectl/backoff"
)

// Config holds engine configuration
type Config struct {
	// Concurrency is the number of sequential worker loops sharing the store.
	Concurrency int
	// PollInterval is how long a worker sleeps when no job is ready.
	PollInterval time.Duration
	// Strategy computes retry delays for failed jobs.
	Strategy backoff.Strategy
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
	// RateLimit throttles job claims across each worker; nil means unlimited.
	RateLimit *rate.Limiter
	// Clock returns the current time; replaced in tests.
	Clock func() time.Time
}

// EngineOption is a function that modifies engine configuration
type EngineOption func(*Config)

// defaultConfig returns default configuration
func defaultConfig() *Config {
	return &Config{
		Concurrency:     1,
		PollInterval:    2 * time.Second,
		Strategy:        backoff.NewExponential(backoff.DefaultBase),
		ShutdownTimeout: 30 * time.Second,
		Clock:           func() time.Time { return time.Now().UTC() },
	}
}

// WithConcurrency sets the number of concurrent worker loops
func WithConcurrency(n int) EngineOption {
	return func(c *Config) {
		if n > 0 {
			c.Concurrency = n
		}
	}
}

// WithPollInterval sets the sleep interval when no job is ready
func WithPollInterval(d time.Duration) EngineOption {
	return func(c *Config) {
		c.PollInterval = d
	}
}

// WithBackoff sets the retry delay strategy
func WithBackoff(s backoff.Strategy) EngineOption {
	return func(c *Config) {
		c.Strategy = s
	}
}

// WithBaseDelay sets an uncapped exponential backoff with the given base
func WithBaseDelay(base time.Duration) EngineOption {
	return func(c *Config) {
		c.Strategy = backoff.NewExponential(base)
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout
func WithShutdownTimeout(d time.Duration) EngineOption {
	return func(c *Config) {
		c.ShutdownTimeout = d
	}
}

// WithRateLimit throttles claims to limit events per second with the given
// burst, shared across all workers of the engine
func WithRateLimit(limit rate.Limit, burst int) EngineOption {
	return func(c *Config) {
		c.RateLimit = rate.NewLimiter(limit, burst)
	}
}

// WithClock replaces the time source, for tests
func WithClock(clock func() time.Time) EngineOption {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}
