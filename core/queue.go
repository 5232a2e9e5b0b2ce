package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Pavitra-A/queuectl/errors"
	"github.com/Pavitra-A/queuectl/events"
	"github.com/Pavitra-A/queuectl/job"
)

// DefaultMaxAttempts is applied when an enqueue request does not set one
const DefaultMaxAttempts = 5

// Queue exposes the control-surface operations against a store. It carries an
// explicit store handle so callers can run several isolated queues, e.g. in
// tests.
type Queue struct {
	store     Store
	publisher Publisher
	clock     func() time.Time
}

// NewQueue creates a queue over a store. A nil publisher disables events.
func NewQueue(store Store, publisher Publisher) *Queue {
	if publisher == nil {
		publisher = events.NewNop()
	}
	return &Queue{
		store:     store,
		publisher: publisher,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// EnqueueOptions carries the optional enqueue parameters
type EnqueueOptions struct {
	// MaxAttempts is the retry ceiling; 0 means DefaultMaxAttempts.
	MaxAttempts int
	// AvailableAt delays the first claim; zero means immediately.
	AvailableAt time.Time
}

// Enqueue validates and persists a new pending job, returning it with its
// assigned ID. Validation failures surface synchronously and nothing is
// persisted.
func (q *Queue) Enqueue(ctx context.Context, jobType string, payload string, opts EnqueueOptions) (*job.Job, error) {
	if jobType == "" {
		return nil, errors.NewValidationError("type", errors.ErrEmptyJobType)
	}

	var doc job.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, errors.NewValidationError("payload", err)
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if maxAttempts < 1 {
		return nil, errors.NewValidationError("max_attempts", errors.ErrInvalidConfig)
	}

	availableAt := opts.AvailableAt
	if availableAt.IsZero() {
		availableAt = q.clock()
	}

	j := &job.Job{
		Type:        jobType,
		Payload:     payload,
		Status:      job.StatusPending,
		Attempts:    0,
		MaxAttempts: maxAttempts,
		AvailableAt: availableAt,
	}

	if err := q.store.Insert(ctx, j); err != nil {
		return nil, errors.NewStoreError("insert", err)
	}

	q.publish(ctx, events.New(events.KindEnqueued, j, 0, ""))
	return j, nil
}

// Get returns a job snapshot by id
func (q *Queue) Get(ctx context.Context, id uint64) (*job.Job, error) {
	return q.store.Get(ctx, id)
}

// List returns job snapshots, newest first, optionally filtered by status
func (q *Queue) List(ctx context.Context, status *job.Status) ([]job.Job, error) {
	return q.store.List(ctx, status)
}

// RetryDLQ requeues a dead-lettered job as pending with attempts reset to 0
// and last_error cleared. It rejects jobs that are not in the DLQ without
// mutating them.
func (q *Queue) RetryDLQ(ctx context.Context, id uint64) error {
	j, err := q.store.Get(ctx, id)
	if err != nil {
		return err
	}

	transition, err := DecideRetryFromDLQ(j, q.clock())
	if err != nil {
		return err
	}

	if err := ApplyTransition(ctx, q.store, id, transition); err != nil {
		return errors.NewStoreError(string(transition.Kind), err)
	}

	q.publish(ctx, events.New(events.KindReset, j, 0, ""))
	return nil
}

func (q *Queue) publish(ctx context.Context, ev events.Event) {
	if err := q.publisher.Publish(ctx, ev); err != nil {
		slog.Error("Failed to publish event", "kind", ev.Kind, "job_id", ev.JobID, "error", err)
	}
}
