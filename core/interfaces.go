package core

import (
	"context"
	"time"

	"github.com/Pavitra-A/queuectl/events"
	"github.com/Pavitra-A/queuectl/job"
)

// HandlerFunc is the capability executed per job type. It receives the decoded
// payload document; payloads that fail to decode never reach a handler.
// Returning a non-nil error (or panicking) counts as an execution failure.
type HandlerFunc func(ctx context.Context, payload job.Document) error

// Store interface defines what core needs from the persistent job store.
// Every mutation is atomic and restricted to a single row by id.
type Store interface {
	// Insert creates a pending job and backfills its assigned ID.
	// ID assignment is unique and ordering-stable.
	Insert(ctx context.Context, j *job.Job) error

	// ClaimNextReady atomically selects the oldest (lowest id) pending job
	// with available_at <= now, transitions it to running, and returns its
	// snapshot with Status already set to running. Returns (nil, nil) when
	// no job is ready. Concurrent callers never receive the same job.
	ClaimNextReady(ctx context.Context, now time.Time) (*job.Job, error)

	// Complete marks a running job completed.
	Complete(ctx context.Context, id uint64) error

	// Reschedule returns a failed job to pending with its new attempt count,
	// next availability, and failure text.
	Reschedule(ctx context.Context, id uint64, attempts int, availableAt time.Time, lastError string) error

	// RouteToDLQ dead-letters a job, recording the attempt count and the
	// failure or rejection text.
	RouteToDLQ(ctx context.Context, id uint64, attempts int, lastError string) error

	// ResetFromDLQ requeues a dead-lettered job as pending with attempts=0
	// and last_error cleared.
	ResetFromDLQ(ctx context.Context, id uint64, availableAt time.Time) error

	// Get returns a job snapshot, or errors.ErrNotFound.
	Get(ctx context.Context, id uint64) (*job.Job, error)

	// List returns job snapshots, newest id first, optionally filtered
	// by status.
	List(ctx context.Context, status *job.Status) ([]job.Job, error)

	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Health() error
}

// Statistics interface defines what core needs from a metrics backend
type Statistics interface {
	// Worker lifecycle
	RegisterWorker(ctx context.Context, worker WorkerInfo) error
	UnregisterWorker(ctx context.Context, workerID string) error

	// Job metrics
	RecordJobStarted(ctx context.Context, j *job.Job, worker WorkerInfo) error
	RecordJobCompleted(ctx context.Context, j *job.Job, worker WorkerInfo, duration time.Duration) error
	RecordJobFailed(ctx context.Context, j *job.Job, worker WorkerInfo, err error, duration time.Duration) error
	RecordJobDeadLettered(ctx context.Context, j *job.Job, reason string) error

	// Health and connection
	Connect(ctx context.Context) error
	Close() error
	Health() error
	Type() string
}

// Registry interface defines what core needs from a handler registry
type Registry interface {
	// Register adds a handler for a job type
	Register(jobType string, handler HandlerFunc) error

	// Get retrieves a handler by job type
	Get(jobType string) (HandlerFunc, bool)
}

// Publisher is re-exported here so engine constructors read naturally
type Publisher = events.Publisher

// WorkerInfo describes a worker
type WorkerInfo struct {
	ID       string
	Hostname string
	Pid      int
	Started  time.Time
}

// WorkerStats contains counters for a single worker
type WorkerStats struct {
	ID        string
	Processed int64
	Failed    int64
	StartTime time.Time
}

// HealthStatus represents the health of the engine
type HealthStatus struct {
	Healthy       bool
	StoreHealth   error
	StatsHealth   error
	ActiveWorkers int
	LastCheck     time.Time
}
