// Package memory provides an in-memory Store implementation for tests and
// examples. It honors the same claim exclusivity and ordering guarantees as
// the durable stores.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Pavitra-A/queuectl/errors"
	"github.com/Pavitra-A/queuectl/job"
)

// MemoryStore implements the core.Store interface using in-memory state
type MemoryStore struct {
	mu        sync.Mutex
	jobs      map[uint64]*job.Job
	nextID    uint64
	connected bool
}

// NewStore creates a new in-memory store
func NewStore() *MemoryStore {
	return &MemoryStore{
		jobs:   make(map[uint64]*job.Job),
		nextID: 1,
	}
}

// Connect establishes the store (no-op beyond flagging)
func (m *MemoryStore) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = true
	return nil
}

// Close discards nothing; jobs survive Close for test inspection
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	return nil
}

// Health checks the store health
func (m *MemoryStore) Health() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return errors.ErrNotConnected
	}
	return nil
}

// Insert creates a pending job and assigns the next monotonic ID
func (m *MemoryStore) Insert(ctx context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	j.ID = m.nextID
	m.nextID++
	j.CreatedAt = now
	j.UpdatedAt = now

	stored := *j
	m.jobs[stored.ID] = &stored
	return nil
}

// ClaimNextReady selects the oldest ready pending job and marks it running.
// The mutex makes the read-then-update sequence atomic: concurrent callers
// never receive the same job.
func (m *MemoryStore) ClaimNextReady(ctx context.Context, now time.Time) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidate *job.Job
	for _, j := range m.jobs {
		if !j.Ready(now) {
			continue
		}
		if candidate == nil || j.ID < candidate.ID {
			candidate = j
		}
	}

	if candidate == nil {
		return nil, nil
	}

	candidate.Status = job.StatusRunning
	candidate.UpdatedAt = time.Now().UTC()

	snapshot := *candidate
	return &snapshot, nil
}

// Complete marks a job completed
func (m *MemoryStore) Complete(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return errors.ErrNotFound
	}

	j.Status = job.StatusCompleted
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// Reschedule returns a job to pending with backoff bookkeeping
func (m *MemoryStore) Reschedule(ctx context.Context, id uint64, attempts int, availableAt time.Time, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return errors.ErrNotFound
	}

	j.Status = job.StatusPending
	j.Attempts = attempts
	j.AvailableAt = availableAt
	j.LastError = &lastError
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// RouteToDLQ dead-letters a job
func (m *MemoryStore) RouteToDLQ(ctx context.Context, id uint64, attempts int, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return errors.ErrNotFound
	}

	j.Status = job.StatusDLQ
	j.Attempts = attempts
	j.LastError = &lastError
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// ResetFromDLQ requeues a dead-lettered job with a clean slate
func (m *MemoryStore) ResetFromDLQ(ctx context.Context, id uint64, availableAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return errors.ErrNotFound
	}

	j.Status = job.StatusPending
	j.Attempts = 0
	j.AvailableAt = availableAt
	j.LastError = nil
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// Get returns a snapshot of a job
func (m *MemoryStore) Get(ctx context.Context, id uint64) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return nil, errors.ErrNotFound
	}

	snapshot := *j
	return &snapshot, nil
}

// List returns snapshots, newest id first, optionally filtered by status
func (m *MemoryStore) List(ctx context.Context, status *job.Status) ([]job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]job.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		if status != nil && j.Status != *status {
			continue
		}
		out = append(out, *j)
	}

	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	return out, nil
}
