package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Pavitra-A/queuectl/errors"
	"github.com/Pavitra-A/queuectl/events"
	"github.com/Pavitra-A/queuectl/job"
)

// Mock implementations for testing

// MockStore implements the Store interface for testing
type MockStore struct {
	mu             sync.RWMutex
	connected      bool
	connectError   error
	healthError    error
	insertError    error
	claimError     error
	completeError  error
	transitionErr  error
	jobs           map[uint64]*job.Job
	nextID         uint64
	claimedIDs     []uint64
	completedIDs   []uint64
	rescheduledIDs []uint64
	deadLetteredIDs []uint64
	resetIDs       []uint64
}

func NewMockStore() *MockStore {
	return &MockStore{
		jobs:   make(map[uint64]*job.Job),
		nextID: 1,
	}
}

func (m *MockStore) Insert(ctx context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertError != nil {
		return m.insertError
	}

	j.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	stored := *j
	m.jobs[j.ID] = &stored
	return nil
}

func (m *MockStore) ClaimNextReady(ctx context.Context, now time.Time) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.claimError != nil {
		return nil, m.claimError
	}

	var candidate *job.Job
	for _, j := range m.jobs {
		if j.Status != job.StatusPending || j.AvailableAt.After(now) {
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
	candidate.UpdatedAt = now
	m.claimedIDs = append(m.claimedIDs, candidate.ID)

	snapshot := *candidate
	return &snapshot, nil
}

func (m *MockStore) Complete(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.completeError != nil {
		return m.completeError
	}

	j, ok := m.jobs[id]
	if !ok {
		return errors.ErrNotFound
	}
	j.Status = job.StatusCompleted
	m.completedIDs = append(m.completedIDs, id)
	return nil
}

func (m *MockStore) Reschedule(ctx context.Context, id uint64, attempts int, availableAt time.Time, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.transitionErr != nil {
		return m.transitionErr
	}

	j, ok := m.jobs[id]
	if !ok {
		return errors.ErrNotFound
	}
	j.Status = job.StatusPending
	j.Attempts = attempts
	j.AvailableAt = availableAt
	j.LastError = &lastError
	m.rescheduledIDs = append(m.rescheduledIDs, id)
	return nil
}

func (m *MockStore) RouteToDLQ(ctx context.Context, id uint64, attempts int, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.transitionErr != nil {
		return m.transitionErr
	}

	j, ok := m.jobs[id]
	if !ok {
		return errors.ErrNotFound
	}
	j.Status = job.StatusDLQ
	j.Attempts = attempts
	j.LastError = &lastError
	m.deadLetteredIDs = append(m.deadLetteredIDs, id)
	return nil
}

func (m *MockStore) ResetFromDLQ(ctx context.Context, id uint64, availableAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.transitionErr != nil {
		return m.transitionErr
	}

	j, ok := m.jobs[id]
	if !ok {
		return errors.ErrNotFound
	}
	j.Status = job.StatusPending
	j.Attempts = 0
	j.AvailableAt = availableAt
	j.LastError = nil
	m.resetIDs = append(m.resetIDs, id)
	return nil
}

func (m *MockStore) Get(ctx context.Context, id uint64) (*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	j, ok := m.jobs[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	snapshot := *j
	return &snapshot, nil
}

func (m *MockStore) List(ctx context.Context, status *job.Status) ([]job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]job.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		if status != nil && j.Status != *status {
			continue
		}
		jobs = append(jobs, *j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].ID > jobs[k].ID })
	return jobs, nil
}

func (m *MockStore) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connectError != nil {
		return m.connectError
	}

	m.connected = true
	return nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	return nil
}

func (m *MockStore) Health() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.healthError != nil {
		return m.healthError
	}

	if !m.connected {
		return fmt.Errorf("not connected")
	}

	return nil
}

// Test helpers
func (m *MockStore) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectError = err
}

func (m *MockStore) SetHealthError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthError = err
}

func (m *MockStore) SetInsertError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertError = err
}

func (m *MockStore) SetClaimError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claimError = err
}

func (m *MockStore) SetTransitionError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitionErr = err
}

// AddJob seeds a job directly, bypassing Insert, and returns its ID
func (m *MockStore) AddJob(j job.Job) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j.ID == 0 {
		j.ID = m.nextID
	}
	if j.ID >= m.nextID {
		m.nextID = j.ID + 1
	}
	m.jobs[j.ID] = &j
	return j.ID
}

// GetJob returns the stored job without copying semantics applied to errors
func (m *MockStore) GetJob(id uint64) (job.Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	j, ok := m.jobs[id]
	if !ok {
		return job.Job{}, false
	}
	return *j, true
}

func (m *MockStore) GetCompletedIDs() []uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]uint64(nil), m.completedIDs...)
}

func (m *MockStore) GetRescheduledIDs() []uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]uint64(nil), m.rescheduledIDs...)
}

func (m *MockStore) GetDeadLetteredIDs() []uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]uint64(nil), m.deadLetteredIDs...)
}

func (m *MockStore) GetResetIDs() []uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]uint64(nil), m.resetIDs...)
}

// MockJobCall records a statistics call for assertions
type MockJobCall struct {
	JobID    uint64
	Type     string
	WorkerID string
	Reason   string
}

// MockStatistics implements the Statistics interface for testing
type MockStatistics struct {
	mu               sync.RWMutex
	connected        bool
	connectError     error
	healthError      error
	workers          map[string]WorkerInfo
	jobsStarted      []MockJobCall
	jobsCompleted    []MockJobCall
	jobsFailed       []MockJobCall
	jobsDeadLettered []MockJobCall
}

func NewMockStatistics() *MockStatistics {
	return &MockStatistics{
		workers: make(map[string]WorkerInfo),
	}
}

func (m *MockStatistics) RegisterWorker(ctx context.Context, worker WorkerInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers[worker.ID] = worker
	return nil
}

func (m *MockStatistics) UnregisterWorker(ctx context.Context, workerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.workers, workerID)
	return nil
}

func (m *MockStatistics) RecordJobStarted(ctx context.Context, j *job.Job, worker WorkerInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsStarted = append(m.jobsStarted, MockJobCall{JobID: j.ID, Type: j.Type, WorkerID: worker.ID})
	return nil
}

func (m *MockStatistics) RecordJobCompleted(ctx context.Context, j *job.Job, worker WorkerInfo, duration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCompleted = append(m.jobsCompleted, MockJobCall{JobID: j.ID, Type: j.Type, WorkerID: worker.ID})
	return nil
}

func (m *MockStatistics) RecordJobFailed(ctx context.Context, j *job.Job, worker WorkerInfo, err error, duration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsFailed = append(m.jobsFailed, MockJobCall{JobID: j.ID, Type: j.Type, WorkerID: worker.ID, Reason: err.Error()})
	return nil
}

func (m *MockStatistics) RecordJobDeadLettered(ctx context.Context, j *job.Job, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsDeadLettered = append(m.jobsDeadLettered, MockJobCall{JobID: j.ID, Type: j.Type, Reason: reason})
	return nil
}

func (m *MockStatistics) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connectError != nil {
		return m.connectError
	}

	m.connected = true
	return nil
}

func (m *MockStatistics) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	return nil
}

func (m *MockStatistics) Health() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.healthError != nil {
		return m.healthError
	}

	if !m.connected {
		return fmt.Errorf("not connected")
	}

	return nil
}

func (m *MockStatistics) Type() string {
	return "mock"
}

// Test helpers
func (m *MockStatistics) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectError = err
}

func (m *MockStatistics) SetHealthError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthError = err
}

func (m *MockStatistics) GetWorkers() map[string]WorkerInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	workers := make(map[string]WorkerInfo, len(m.workers))
	for id, info := range m.workers {
		workers[id] = info
	}
	return workers
}

func (m *MockStatistics) GetJobsStarted() []MockJobCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MockJobCall(nil), m.jobsStarted...)
}

func (m *MockStatistics) GetJobsCompleted() []MockJobCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MockJobCall(nil), m.jobsCompleted...)
}

func (m *MockStatistics) GetJobsFailed() []MockJobCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MockJobCall(nil), m.jobsFailed...)
}

func (m *MockStatistics) GetJobsDeadLettered() []MockJobCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MockJobCall(nil), m.jobsDeadLettered...)
}

// MockRegistry implements the Registry interface for testing
type MockRegistry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		handlers: make(map[string]HandlerFunc),
	}
}

func (m *MockRegistry) Register(jobType string, handler HandlerFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[jobType] = handler
	return nil
}

func (m *MockRegistry) Get(jobType string) (HandlerFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	handler, ok := m.handlers[jobType]
	return handler, ok
}

// MockPublisher implements the Publisher interface for testing
type MockPublisher struct {
	mu           sync.RWMutex
	publishError error
	published    []events.Event
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, ev events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishError != nil {
		return m.publishError
	}

	m.published = append(m.published, ev)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// Test helpers
func (m *MockPublisher) SetPublishError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishError = err
}

func (m *MockPublisher) GetPublished() []events.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]events.Event(nil), m.published...)
}

// GetPublishedKinds returns the kinds of published events in order
func (m *MockPublisher) GetPublishedKinds() []events.Kind {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kinds := make([]events.Kind, 0, len(m.published))
	for _, ev := range m.published {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}
