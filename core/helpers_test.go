package core

import (
	"log/slog"
	"os"
	"time"

	"github.com/Pavitra-A/queuectl/job"
)

// TestSetup provides common test dependencies
type TestSetup struct {
	Store     *MockStore
	Stats     *MockStatistics
	Registry  *MockRegistry
	Publisher *MockPublisher
}

// NewTestSetup creates a standard test setup with all mocks
func NewTestSetup() *TestSetup {
	// Set up a quiet logger for tests to avoid noise
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}))
	slog.SetDefault(logger)

	return &TestSetup{
		Store:     NewMockStore(),
		Stats:     NewMockStatistics(),
		Registry:  NewMockRegistry(),
		Publisher: NewMockPublisher(),
	}
}

// NewEngine creates an engine over the setup's mocks
func (s *TestSetup) NewEngine(options ...EngineOption) *Engine {
	return NewEngine(s.Store, s.Stats, s.Registry, s.Publisher, options...)
}

// NewWorker creates a worker over the setup's mocks
func (s *TestSetup) NewWorker(options ...EngineOption) *Worker {
	config := defaultConfig()
	for _, opt := range options {
		opt(config)
	}
	return NewWorker(s.Store, s.Registry, s.Stats, s.Publisher, config)
}

// NewQueue creates a queue over the setup's mock store
func (s *TestSetup) NewQueue() *Queue {
	return NewQueue(s.Store, s.Publisher)
}

// AddPendingJob seeds a ready pending job and returns its ID
func (s *TestSetup) AddPendingJob(jobType, payload string, maxAttempts int) uint64 {
	return s.Store.AddJob(job.Job{
		Type:        jobType,
		Payload:     payload,
		Status:      job.StatusPending,
		MaxAttempts: maxAttempts,
		AvailableAt: time.Time{},
	})
}

// runningJob builds a running job snapshot for transition decisions
func runningJob(id uint64, attempts, maxAttempts int) *job.Job {
	return &job.Job{
		ID:          id,
		Type:        "test_job",
		Payload:     `{}`,
		Status:      job.StatusRunning,
		Attempts:    attempts,
		MaxAttempts: maxAttempts,
	}
}

// dlqJob builds a dead-lettered job snapshot
func dlqJob(id uint64, attempts, maxAttempts int) *job.Job {
	lastError := "handler failed"
	return &job.Job{
		ID:          id,
		Type:        "test_job",
		Payload:     `{}`,
		Status:      job.StatusDLQ,
		Attempts:    attempts,
		MaxAttempts: maxAttempts,
		LastError:   &lastError,
	}
}
