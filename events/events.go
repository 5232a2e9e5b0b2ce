// Package events defines lifecycle transition events and the publisher
// capability. Publishing is observability only: a failed publish is logged by
// the caller and never affects the job lifecycle.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Pavitra-A/queuectl/job"
)

// Kind identifies the lifecycle transition an event describes
type Kind string

// Event kinds
const (
	KindEnqueued     Kind = "enqueued"
	KindClaimed      Kind = "claimed"
	KindCompleted    Kind = "completed"
	KindRescheduled  Kind = "rescheduled"
	KindDeadLettered Kind = "dead_lettered"
	KindReset        Kind = "reset"
)

// Event describes a single job lifecycle transition
type Event struct {
	ID       string    `json:"id"`
	JobID    uint64    `json:"job_id"`
	JobType  string    `json:"job_type"`
	Kind     Kind      `json:"kind"`
	Attempts int       `json:"attempts"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

// New builds an event for a job transition. errText is empty for
// success-path transitions.
func New(kind Kind, j *job.Job, attempts int, errText string) Event {
	return Event{
		ID:       uuid.NewString(),
		JobID:    j.ID,
		JobType:  j.Type,
		Kind:     kind,
		Attempts: attempts,
		Error:    errText,
		At:       time.Now().UTC(),
	}
}

// Publisher delivers lifecycle events to an external system
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop is a Publisher that discards all events. It is the default.
type Nop struct{}

// NewNop creates a no-op publisher
func NewNop() *Nop { return &Nop{} }

// Publish discards the event
func (*Nop) Publish(context.Context, Event) error { return nil }

// Close is a no-op
func (*Nop) Close() error { return nil }
