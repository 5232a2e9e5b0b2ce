// Package gormstore provides the durable job store over GORM. SQLite is the
// single-node default; Postgres is selected with a different dialector and
// shares all query logic.
package gormstore

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Pavitra-A/queuectl/errors"
	"github.com/Pavitra-A/queuectl/job"
)

// Store implements the core.Store interface over a relational database
type Store struct {
	db      *gorm.DB
	options Options
}

// NewStore creates a store from options; the connection is established
// by Connect
func NewStore(options Options) *Store {
	return &Store{options: options}
}

// NewSQLite creates a SQLite-backed store for the given database file
func NewSQLite(path string) *Store {
	opts := DefaultOptions()
	opts.Path = path
	return NewStore(opts)
}

// NewPostgres creates a Postgres-backed store for the given DSN
func NewPostgres(dsn string) *Store {
	opts := DefaultOptions()
	opts.Driver = DriverPostgres
	opts.DSN = dsn
	return NewStore(opts)
}

// Connect opens the database and runs migrations
func (s *Store) Connect(ctx context.Context) error {
	var dialector gorm.Dialector
	switch s.options.Driver {
	case DriverSQLite:
		// Concurrent claimers hit SQLITE_BUSY without a busy timeout.
		dialector = sqlite.Open(s.options.Path + "?_busy_timeout=5000")
	case DriverPostgres:
		dialector = postgres.Open(s.options.DSN)
	default:
		return fmt.Errorf("%w: unsupported driver %q", errors.ErrInvalidConfig, s.options.Driver)
	}

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			LogLevel:                  s.options.LogLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return errors.NewConnectionError(s.target(), err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&job.Job{}); err != nil {
		return errors.NewStoreError("migrate", err)
	}

	s.db = db
	return nil
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks database connectivity
func (s *Store) Health() error {
	if s.db == nil {
		return errors.ErrNotConnected
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Insert creates a pending job; GORM backfills the auto-incremented ID
func (s *Store) Insert(ctx context.Context, j *job.Job) error {
	return s.db.WithContext(ctx).Create(j).Error
}

// ClaimNextReady selects the oldest ready pending job and transitions it to
// running. Exclusivity comes from the guarded UPDATE: the status and
// updated_at predicates make the transition succeed only for a claimer whose
// selected snapshot is still current, and a loser retries the selection until
// no candidate remains. Guarding on updated_at closes the window where a
// concurrent claimer runs and reschedules the job between our selection and
// update, which would otherwise hand out a stale attempts snapshot.
func (s *Store) ClaimNextReady(ctx context.Context, now time.Time) (*job.Job, error) {
	for {
		var candidate job.Job
		err := s.db.WithContext(ctx).
			Where("status = ? AND available_at <= ?", job.StatusPending, now).
			Order("id ASC").
			First(&candidate).Error
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		result := s.db.WithContext(ctx).
			Model(&job.Job{}).
			Where("id = ? AND status = ? AND updated_at = ?",
				candidate.ID, job.StatusPending, candidate.UpdatedAt).
			Updates(map[string]any{
				"status":     job.StatusRunning,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race to a concurrent claimer; pick again.
			continue
		}

		candidate.Status = job.StatusRunning
		return &candidate, nil
	}
}

// Complete marks a job completed
func (s *Store) Complete(ctx context.Context, id uint64) error {
	return s.update(ctx, id, map[string]any{
		"status": job.StatusCompleted,
	})
}

// Reschedule returns a failed job to pending with backoff bookkeeping
func (s *Store) Reschedule(ctx context.Context, id uint64, attempts int, availableAt time.Time, lastError string) error {
	return s.update(ctx, id, map[string]any{
		"status":       job.StatusPending,
		"attempts":     attempts,
		"available_at": availableAt,
		"last_error":   lastError,
	})
}

// RouteToDLQ dead-letters a job
func (s *Store) RouteToDLQ(ctx context.Context, id uint64, attempts int, lastError string) error {
	return s.update(ctx, id, map[string]any{
		"status":     job.StatusDLQ,
		"attempts":   attempts,
		"last_error": lastError,
	})
}

// ResetFromDLQ requeues a dead-lettered job with a clean slate
func (s *Store) ResetFromDLQ(ctx context.Context, id uint64, availableAt time.Time) error {
	return s.update(ctx, id, map[string]any{
		"status":       job.StatusPending,
		"attempts":     0,
		"available_at": availableAt,
		"last_error":   nil,
	})
}

// Get returns a job snapshot by id
func (s *Store) Get(ctx context.Context, id uint64) (*job.Job, error) {
	var j job.Job
	err := s.db.WithContext(ctx).First(&j, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// List returns job snapshots, newest id first, optionally filtered by status
func (s *Store) List(ctx context.Context, status *job.Status) ([]job.Job, error) {
	query := s.db.WithContext(ctx).Order("id DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var jobs []job.Job
	err := query.Find(&jobs).Error
	return jobs, err
}

// update applies a single-row update; updated_at rides along on every change
func (s *Store) update(ctx context.Context, id uint64, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()

	result := s.db.WithContext(ctx).
		Model(&job.Job{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (s *Store) target() string {
	if s.options.Driver == DriverPostgres {
		return "postgres"
	}
	return s.options.Path
}
