package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Pavitra-A/queuectl/errors"
)

// Engine orchestrates a set of workers over a shared store
type Engine struct {
	store     Store
	stats     Statistics
	registry  Registry
	publisher Publisher
	config    *Config
	queue     *Queue

	workers       []*Worker
	activeWorkers int32

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates a new engine with dependency injection
func NewEngine(
	store Store,
	stats Statistics,
	registry Registry,
	publisher Publisher,
	options ...EngineOption,
) *Engine {
	config := defaultConfig()
	for _, opt := range options {
		opt(config)
	}

	return &Engine{
		store:     store,
		stats:     stats,
		registry:  registry,
		publisher: publisher,
		config:    config,
		queue:     NewQueue(store, publisher),
	}
}

// Start connects the backends and begins processing jobs
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	if err := e.store.Connect(e.ctx); err != nil {
		return errors.NewConnectionError("",
			fmt.Errorf("failed to connect store: %w", err))
	}

	if err := e.stats.Connect(e.ctx); err != nil {
		return errors.NewConnectionError("",
			fmt.Errorf("failed to connect statistics: %w", err))
	}

	// Publishers that hold connections (e.g. AMQP) expose Connect.
	if connector, ok := e.publisher.(interface{ Connect(context.Context) error }); ok {
		if err := connector.Connect(e.ctx); err != nil {
			return errors.NewConnectionError("",
				fmt.Errorf("failed to connect publisher: %w", err))
		}
	}

	e.workers = make([]*Worker, 0, e.config.Concurrency)
	for i := 0; i < e.config.Concurrency; i++ {
		e.workers = append(e.workers, NewWorker(e.store, e.registry, e.stats, e.publisher, e.config))
	}

	for _, worker := range e.workers {
		e.wg.Add(1)
		go func(w *Worker) {
			defer e.wg.Done()
			atomic.AddInt32(&e.activeWorkers, 1)
			defer atomic.AddInt32(&e.activeWorkers, -1)

			if err := w.Run(e.ctx); err != nil {
				// Store failures terminate the worker; remaining workers
				// are the only redundancy.
				slog.Error("Worker terminated", "id", w.GetID(), "error", err)
			}
		}(worker)
	}

	slog.Info("Engine started", "concurrency", e.config.Concurrency)
	return nil
}

// Stop gracefully shuts down the engine. In-flight jobs run to completion
// before their worker observes the cancellation.
func (e *Engine) Stop() error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Engine stopped gracefully")
	case <-time.After(e.config.ShutdownTimeout):
		slog.Warn("Engine shutdown timeout exceeded")
	}

	if err := e.store.Close(); err != nil {
		slog.Error("Error closing store", "error", err)
	}

	if err := e.stats.Close(); err != nil {
		slog.Error("Error closing statistics", "error", err)
	}

	if err := e.publisher.Close(); err != nil {
		slog.Error("Error closing publisher", "error", err)
	}

	return nil
}

// Run starts the engine and blocks until shutdown signals are received.
// This is a convenience method that combines Start() + signal handling + Stop().
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(ctx); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
	}

	return e.Stop()
}

// Health returns the current health status
func (e *Engine) Health() HealthStatus {
	storeHealth := e.store.Health()
	statsHealth := e.stats.Health()

	return HealthStatus{
		Healthy:       storeHealth == nil && statsHealth == nil,
		StoreHealth:   storeHealth,
		StatsHealth:   statsHealth,
		ActiveWorkers: e.ActiveWorkers(),
		LastCheck:     time.Now(),
	}
}

// ActiveWorkers returns the number of running worker loops
func (e *Engine) ActiveWorkers() int {
	return int(atomic.LoadInt32(&e.activeWorkers))
}

// Queue returns the control-surface operations bound to this engine's store
func (e *Engine) Queue() *Queue {
	return e.queue
}

// Register adds a handler for a job type
func (e *Engine) Register(jobType string, handler HandlerFunc) error {
	return e.registry.Register(jobType, handler)
}

// GetWorkerStats returns counters for all workers
func (e *Engine) GetWorkerStats() []WorkerStats {
	stats := make([]WorkerStats, 0, len(e.workers))
	for _, worker := range e.workers {
		stats = append(stats, worker.GetStats())
	}
	return stats
}
