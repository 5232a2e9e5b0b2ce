package core

import (
	"context"
	"fmt"
	"time"

	"github.com/Pavitra-A/queuectl/backoff"
	"github.com/Pavitra-A/queuectl/errors"
	"github.com/Pavitra-A/queuectl/job"
)

// Diagnostic texts recorded for routing errors. Routing errors are detected
// at claim time, before any handler runs, and do not consume an attempt.
const (
	ReasonInvalidPayload = "Invalid JSON payload stored"
)

// UnknownTypeReason returns the diagnostic recorded when no handler is
// registered for a job's type.
func UnknownTypeReason(jobType string) string {
	return fmt.Sprintf("Unknown job type: %s", jobType)
}

// TransitionKind selects the store operation that applies a transition
type TransitionKind string

// Transition kinds
const (
	// KindReschedule returns a failed job to pending with backoff
	KindReschedule TransitionKind = "reschedule"
	// KindDeadLetter routes a job to the DLQ
	KindDeadLetter TransitionKind = "dead_letter"
	// KindReset requeues a DLQ job as pending with a clean slate
	KindReset TransitionKind = "reset"
)

// Transition is an authorized state change. Deciding a transition has no side
// effects; the caller persists it with ApplyTransition.
type Transition struct {
	Kind        TransitionKind
	Target      job.Status
	Attempts    int
	AvailableAt time.Time
	// LastError is the failure text to record; nil means clear it.
	LastError *string
}

// DecideFailure computes the transition for a handler failure. The attempt
// count is incremented first; the job reschedules as pending with
// strategy.Delay(newAttempts) of backoff while attempts remain, and
// dead-letters once attempts reach max_attempts.
//
// Precondition: j.Status == running.
func DecideFailure(j *job.Job, errMsg string, strategy backoff.Strategy, now time.Time) (Transition, error) {
	if j.Status != job.StatusRunning {
		return Transition{}, errors.NewStateError(j.ID, j.Status.String(), errors.ErrInvalidState)
	}

	attempts := j.Attempts + 1

	if attempts >= j.MaxAttempts {
		return Transition{
			Kind:      KindDeadLetter,
			Target:    job.StatusDLQ,
			Attempts:  attempts,
			LastError: &errMsg,
		}, nil
	}

	return Transition{
		Kind:        KindReschedule,
		Target:      job.StatusPending,
		Attempts:    attempts,
		AvailableAt: now.Add(strategy.Delay(attempts)),
		LastError:   &errMsg,
	}, nil
}

// DecideClaimRejection computes the transition for a routing error: the stored
// payload is undecodable or the type has no registered handler. The job goes
// straight to the DLQ with its attempt count preserved.
func DecideClaimRejection(j *job.Job, reason string) Transition {
	return Transition{
		Kind:      KindDeadLetter,
		Target:    job.StatusDLQ,
		Attempts:  j.Attempts,
		LastError: &reason,
	}
}

// DecideRetryFromDLQ computes the operator reset transition: attempts back to
// zero, last_error cleared, available immediately. Only DLQ jobs qualify.
func DecideRetryFromDLQ(j *job.Job, now time.Time) (Transition, error) {
	if j.Status != job.StatusDLQ {
		return Transition{}, errors.NewStateError(j.ID, j.Status.String(), errors.ErrInvalidState)
	}

	return Transition{
		Kind:        KindReset,
		Target:      job.StatusPending,
		Attempts:    0,
		AvailableAt: now,
		LastError:   nil,
	}, nil
}

// ApplyTransition persists an authorized transition through the matching
// store operation. Keeping this in one place means the worker loop and the
// control surface share a single persistence path.
func ApplyTransition(ctx context.Context, store Store, id uint64, t Transition) error {
	switch t.Kind {
	case KindReschedule:
		return store.Reschedule(ctx, id, t.Attempts, t.AvailableAt, *t.LastError)
	case KindDeadLetter:
		return store.RouteToDLQ(ctx, id, t.Attempts, *t.LastError)
	case KindReset:
		return store.ResetFromDLQ(ctx, id, t.AvailableAt)
	default:
		return fmt.Errorf("unknown transition kind: %q", t.Kind)
	}
}
