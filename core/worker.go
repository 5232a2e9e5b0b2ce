package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Pavitra-A/queuectl/errors"
	"github.com/Pavitra-A/queuectl/events"
	"github.com/Pavitra-A/queuectl/job"
)

// Worker is a single sequential claim -> dispatch -> transition loop.
// Multiple workers may share one store; all coordination happens through the
// store's atomic claim. A worker never holds more than one running job.
type Worker struct {
	id        string
	hostname  string
	pid       int
	store     Store
	registry  Registry
	stats     Statistics
	publisher Publisher
	config    *Config

	// Statistics
	processed int64
	failed    int64
	startTime time.Time
}

// NewWorker creates a new worker
func NewWorker(
	store Store,
	registry Registry,
	stats Statistics,
	publisher Publisher,
	config *Config,
) *Worker {
	hostname, _ := os.Hostname()

	return &Worker{
		id:        uuid.NewString(),
		hostname:  hostname,
		pid:       os.Getpid(),
		store:     store,
		registry:  registry,
		stats:     stats,
		publisher: publisher,
		config:    config,
		startTime: time.Now(),
	}
}

// GetID returns the worker's unique ID
func (w *Worker) GetID() string {
	return fmt.Sprintf("%s:%d-%s", w.hostname, w.pid, w.id)
}

// Run processes jobs until the context is cancelled. Handler failures are
// absorbed into lifecycle transitions and never abort the loop; claim or
// persistence failures are fatal and returned to the caller. Cancellation
// takes effect between iterations, never mid-job.
func (w *Worker) Run(ctx context.Context) error {
	workerInfo := WorkerInfo{
		ID:       w.GetID(),
		Hostname: w.hostname,
		Pid:      w.pid,
		Started:  w.startTime,
	}

	if err := w.stats.RegisterWorker(ctx, workerInfo); err != nil {
		slog.Error("Failed to register worker", "error", err)
	}

	defer func() {
		if err := w.stats.UnregisterWorker(context.WithoutCancel(ctx), w.GetID()); err != nil {
			slog.Error("Failed to unregister worker", "error", err)
		}
	}()

	slog.Info("Worker started", "id", w.GetID(), "poll_interval", w.config.PollInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Worker stopping", "id", w.GetID())
			return nil
		default:
		}

		if w.config.RateLimit != nil {
			if err := w.config.RateLimit.Wait(ctx); err != nil {
				slog.Info("Worker stopping", "id", w.GetID())
				return nil
			}
		}

		claimed, err := w.store.ClaimNextReady(ctx, w.config.Clock())
		if err != nil {
			return errors.NewStoreError("claim_next_ready", err)
		}

		if claimed == nil {
			// No job ready; this is the only place the loop sleeps.
			select {
			case <-ctx.Done():
				slog.Info("Worker stopping", "id", w.GetID())
				return nil
			case <-time.After(w.config.PollInterval):
			}
			continue
		}

		if err := w.processJob(ctx, claimed, workerInfo); err != nil {
			return err
		}
	}
}

// processJob resolves a claimed job to exactly one of completed, rescheduled
// pending, or dlq. The returned error is non-nil only for persistence
// failures.
func (w *Worker) processJob(ctx context.Context, j *job.Job, workerInfo WorkerInfo) error {
	startTime := time.Now()

	slog.Info("Picked job", "id", j.ID, "type", j.Type, "attempts", j.Attempts)

	if err := w.stats.RecordJobStarted(ctx, j, workerInfo); err != nil {
		slog.Error("Failed to record job start", "error", err)
	}
	w.publish(ctx, events.New(events.KindClaimed, j, j.Attempts, ""))

	// Routing checks run before any handler execution. Both reject straight
	// to the DLQ with the attempt count preserved.
	payload, err := j.DecodePayload()
	if err != nil {
		slog.Error("Job has invalid JSON payload, moving to DLQ", "id", j.ID)
		return w.reject(ctx, j, ReasonInvalidPayload)
	}

	handler, ok := w.registry.Get(j.Type)
	if !ok {
		slog.Error("No handler for job type, moving to DLQ", "id", j.ID, "type", j.Type)
		return w.reject(ctx, j, UnknownTypeReason(j.Type))
	}

	execErr := w.executeHandler(ctx, handler, j.Type, payload)

	if execErr != nil {
		return w.handleJobFailure(ctx, j, workerInfo, execErr, startTime)
	}
	return w.handleJobSuccess(ctx, j, workerInfo, startTime)
}

// executeHandler runs the handler with panic recovery
func (w *Worker) executeHandler(ctx context.Context, handler HandlerFunc, jobType string, payload job.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewHandlerError(jobType, fmt.Errorf("panic: %v", r))
		}
	}()

	if execErr := handler(ctx, payload); execErr != nil {
		return errors.NewHandlerError(jobType, execErr)
	}

	return nil
}

// handleJobSuccess persists completion
func (w *Worker) handleJobSuccess(ctx context.Context, j *job.Job, workerInfo WorkerInfo, startTime time.Time) error {
	if err := w.store.Complete(ctx, j.ID); err != nil {
		return errors.NewStoreError("complete", err)
	}

	duration := time.Since(startTime)
	atomic.AddInt64(&w.processed, 1)

	if err := w.stats.RecordJobCompleted(ctx, j, workerInfo, duration); err != nil {
		slog.Error("Failed to record job completion", "error", err)
	}
	w.publish(ctx, events.New(events.KindCompleted, j, j.Attempts, ""))

	slog.Info("Job completed", "id", j.ID, "type", j.Type, "duration", duration)
	return nil
}

// handleJobFailure persists the retry-or-DLQ transition
func (w *Worker) handleJobFailure(ctx context.Context, j *job.Job, workerInfo WorkerInfo, execErr error, startTime time.Time) error {
	duration := time.Since(startTime)
	atomic.AddInt64(&w.failed, 1)

	transition, err := DecideFailure(j, execErr.Error(), w.config.Strategy, w.config.Clock())
	if err != nil {
		// The claim produced a running snapshot, so this cannot happen
		// unless the store is corrupt.
		return err
	}

	if err := ApplyTransition(ctx, w.store, j.ID, transition); err != nil {
		return errors.NewStoreError(string(transition.Kind), err)
	}

	if err := w.stats.RecordJobFailed(ctx, j, workerInfo, execErr, duration); err != nil {
		slog.Error("Failed to record job failure", "error", err)
	}

	switch transition.Kind {
	case KindDeadLetter:
		w.publish(ctx, events.New(events.KindDeadLettered, j, transition.Attempts, execErr.Error()))
		slog.Error("Job exhausted retries, moved to DLQ",
			"id", j.ID, "type", j.Type, "attempts", transition.Attempts, "error", execErr)
	default:
		w.publish(ctx, events.New(events.KindRescheduled, j, transition.Attempts, execErr.Error()))
		slog.Warn("Job failed, rescheduled with backoff",
			"id", j.ID, "type", j.Type, "attempts", transition.Attempts,
			"available_at", transition.AvailableAt, "error", execErr)
	}

	return nil
}

// reject dead-letters a job for a routing error; the handler never ran and
// the attempt count is preserved. The loop continues immediately.
func (w *Worker) reject(ctx context.Context, j *job.Job, reason string) error {
	transition := DecideClaimRejection(j, reason)

	if err := ApplyTransition(ctx, w.store, j.ID, transition); err != nil {
		return errors.NewStoreError(string(transition.Kind), err)
	}

	if err := w.stats.RecordJobDeadLettered(ctx, j, reason); err != nil {
		slog.Error("Failed to record dead-lettered job", "error", err)
	}
	w.publish(ctx, events.New(events.KindDeadLettered, j, j.Attempts, reason))

	return nil
}

// publish delivers an event, logging failures rather than surfacing them
func (w *Worker) publish(ctx context.Context, ev events.Event) {
	if err := w.publisher.Publish(ctx, ev); err != nil {
		slog.Error("Failed to publish event", "kind", ev.Kind, "job_id", ev.JobID, "error", err)
	}
}

// GetStats returns current worker counters
func (w *Worker) GetStats() WorkerStats {
	return WorkerStats{
		ID:        w.GetID(),
		Processed: atomic.LoadInt64(&w.processed),
		Failed:    atomic.LoadInt64(&w.failed),
		StartTime: w.startTime,
	}
}
