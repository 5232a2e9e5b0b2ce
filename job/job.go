// Package job defines the persisted job entity and its status machine.
package job

import (
	"encoding/json"
	"fmt"
	"time"
)

// Field names used in store queries
const (
	StatusField      = "status"
	AvailableAtField = "available_at"
)

// Status represents the current state of a job
type Status string

// Job status constants
const (
	// StatusPending indicates the job is waiting to be claimed
	StatusPending Status = "pending"
	// StatusRunning indicates the job is held by exactly one worker
	StatusRunning Status = "running"
	// StatusCompleted indicates the handler finished successfully (terminal)
	StatusCompleted Status = "completed"
	// StatusFailed is transient: every failure resolves to pending or dlq,
	// so no job persists in this state
	StatusFailed Status = "failed"
	// StatusDLQ indicates the job is dead-lettered until an operator resets it
	StatusDLQ Status = "dlq"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status
func ParseStatus(str string) (Status, error) {
	switch str {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusRunning):
		return StatusRunning, nil
	case string(StatusCompleted):
		return StatusCompleted, nil
	case string(StatusFailed):
		return StatusFailed, nil
	case string(StatusDLQ):
		return StatusDLQ, nil
	default:
		return "", fmt.Errorf("invalid job status: %q", str)
	}
}

// Terminal reports whether a job in this status is done from the worker's
// point of view. DLQ jobs can still be reset by an operator.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusDLQ
}

// Job represents a unit of background work.
//
// Payload is stored verbatim as JSON text and handed to the handler decoded.
// Attempts counts execution failures, not claims: it starts at 0 and is
// incremented only when a handler fails.
type Job struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Type        string    `json:"type" gorm:"not null;index"`
	Payload     string    `json:"payload" gorm:"not null;type:text"`
	Status      Status    `json:"status" gorm:"not null;index:idx_jobs_status_available_at"`
	Attempts    int       `json:"attempts" gorm:"not null;default:0"`
	MaxAttempts int       `json:"max_attempts" gorm:"not null;default:5"`
	AvailableAt time.Time `json:"available_at" gorm:"not null;index:idx_jobs_status_available_at"`
	LastError   *string   `json:"last_error" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Job) TableName() string {
	return "jobs"
}

// Document is a decoded JSON payload as handed to handlers
type Document = map[string]any

// DecodePayload decodes the stored payload text. A failure here is a routing
// error: the job must be dead-lettered without invoking any handler.
func (j *Job) DecodePayload() (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(j.Payload), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LastErrorString returns the last error text, or "" when none is recorded
func (j *Job) LastErrorString() string {
	if j.LastError == nil {
		return ""
	}
	return *j.LastError
}

// Ready reports whether the job may be claimed at the given time
func (j *Job) Ready(now time.Time) bool {
	return j.Status == StatusPending && !j.AvailableAt.After(now)
}
