package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/Pavitra-A/queuectl/backoff"
)

func TestDefaultConfig(t *testing.T) {
	config := defaultConfig()

	assert.Equal(t, 1, config.Concurrency)
	assert.Equal(t, 2*time.Second, config.PollInterval)
	assert.Equal(t, 30*time.Second, config.ShutdownTimeout)
	assert.Nil(t, config.RateLimit)
	assert.NotNil(t, config.Clock)

	// Default backoff is exponential off a 5s base with no cap.
	assert.Equal(t, 5*time.Second, config.Strategy.Delay(1))
	assert.Equal(t, 10*time.Second, config.Strategy.Delay(2))
}

func TestMultipleOptions(t *testing.T) {
	config := defaultConfig()

	// Apply multiple options
	options := []EngineOption{
		WithConcurrency(15),
		WithPollInterval(3 * time.Second),
		WithShutdownTimeout(60 * time.Second),
		WithBaseDelay(time.Second),
		WithRateLimit(rate.Limit(100), 10),
	}

	for _, option := range options {
		option(config)
	}

	// Verify all options were applied
	assert.Equal(t, 15, config.Concurrency)
	assert.Equal(t, 3*time.Second, config.PollInterval)
	assert.Equal(t, 60*time.Second, config.ShutdownTimeout)
	assert.Equal(t, time.Second, config.Strategy.Delay(1))
	assert.NotNil(t, config.RateLimit)
}

func TestWithConcurrency_IgnoresNonPositive(t *testing.T) {
	config := defaultConfig()

	WithConcurrency(0)(config)
	assert.Equal(t, 1, config.Concurrency)

	WithConcurrency(-5)(config)
	assert.Equal(t, 1, config.Concurrency)
}

func TestWithBackoff(t *testing.T) {
	config := defaultConfig()

	WithBackoff(&backoff.Fixed{Interval: 7 * time.Second})(config)

	assert.Equal(t, 7*time.Second, config.Strategy.Delay(1))
	assert.Equal(t, 7*time.Second, config.Strategy.Delay(4))
}

func TestWithClock(t *testing.T) {
	config := defaultConfig()

	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	WithClock(func() time.Time { return fixed })(config)
	assert.Equal(t, fixed, config.Clock())

	// A nil clock is ignored.
	WithClock(nil)(config)
	assert.Equal(t, fixed, config.Clock())
}
