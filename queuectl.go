package queuectl

import (
	"context"
	"fmt"

	"github.com/Pavitra-A/queuectl/config"
	"github.com/Pavitra-A/queuectl/core"
	"github.com/Pavitra-A/queuectl/events"
	eventsamqp "github.com/Pavitra-A/queuectl/events/amqp"
	"github.com/Pavitra-A/queuectl/registry"
	"github.com/Pavitra-A/queuectl/statistics/noop"
	statsredis "github.com/Pavitra-A/queuectl/statistics/redis"
	"github.com/Pavitra-A/queuectl/stores/gormstore"
)

// Engine is a pre-wired queue engine: store, registry, statistics, and event
// publisher assembled with sensible defaults.
type Engine struct {
	engine    *core.Engine
	store     core.Store
	stats     core.Statistics
	registry  *registry.Registry
	publisher core.Publisher
}

// New creates an engine from options. Zero-value options give a SQLite store
// in the working directory, no-op statistics, and no event publishing.
func New(options Options) *Engine {
	store := options.Store
	if store == nil {
		store = gormstore.NewStore(gormstore.DefaultOptions())
	}

	stats := options.Statistics
	if stats == nil {
		stats = noop.NewStatistics()
	}

	publisher := options.Publisher
	if publisher == nil {
		publisher = events.NewNop()
	}

	reg := registry.NewRegistry()

	engine := core.NewEngine(store, stats, reg, publisher, options.EngineOptions...)

	return &Engine{
		engine:    engine,
		store:     store,
		stats:     stats,
		registry:  reg,
		publisher: publisher,
	}
}

// FromConfig assembles an engine from environment configuration: the store
// from the DB settings, Redis statistics when a Redis URI is set, and AMQP
// events when an AMQP URI is set.
func FromConfig(cfg config.Config, engineOptions ...core.EngineOption) (*Engine, error) {
	options := DefaultOptions()

	switch cfg.DBDriver {
	case string(gormstore.DriverSQLite):
		options.Store = gormstore.NewSQLite(cfg.DBPath)
	case string(gormstore.DriverPostgres):
		options.Store = gormstore.NewPostgres(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.DBDriver)
	}

	if cfg.RedisURI != "" {
		statsOptions := statsredis.DefaultOptions()
		statsOptions.URI = cfg.RedisURI
		options.Statistics = statsredis.NewStatistics(statsOptions)
	}

	if cfg.AMQPURI != "" {
		pubOptions := eventsamqp.DefaultOptions()
		pubOptions.URI = cfg.AMQPURI
		options.Publisher = eventsamqp.NewPublisher(pubOptions)
	}

	options.EngineOptions = append([]core.EngineOption{
		core.WithConcurrency(cfg.Concurrency),
		core.WithPollInterval(cfg.PollInterval),
		core.WithBaseDelay(cfg.BaseDelay),
	}, engineOptions...)

	return New(options), nil
}

// Register adds a handler for a job type
func (e *Engine) Register(jobType string, handler core.HandlerFunc) error {
	return e.registry.Register(jobType, handler)
}

// Run starts the engine and blocks until shutdown
func (e *Engine) Run(ctx context.Context) error {
	return e.engine.Run(ctx)
}

// Start begins processing jobs
func (e *Engine) Start(ctx context.Context) error {
	return e.engine.Start(ctx)
}

// Stop gracefully shuts down the engine
func (e *Engine) Stop() error {
	return e.engine.Stop()
}

// MustRun starts the engine and panics on error
func (e *Engine) MustRun(ctx context.Context) {
	if err := e.Run(ctx); err != nil {
		panic(fmt.Sprintf("queuectl: Run failed: %v", err))
	}
}

// Health returns the engine health status
func (e *Engine) Health() core.HealthStatus {
	return e.engine.Health()
}

// Queue returns the control-surface operations bound to this engine's store
func (e *Engine) Queue() *core.Queue {
	return e.engine.Queue()
}

// Component accessors

// GetStore returns the job store
func (e *Engine) GetStore() core.Store {
	return e.store
}

// GetRegistry returns the handler registry
func (e *Engine) GetRegistry() *registry.Registry {
	return e.registry
}

// GetStats returns the statistics backend
func (e *Engine) GetStats() core.Statistics {
	return e.stats
}
