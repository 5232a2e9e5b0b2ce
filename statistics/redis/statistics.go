// Package redis provides a Statistics backend keeping job and worker counters
// in Redis, so operators can watch throughput without querying the job table.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/Pavitra-A/queuectl/core"
	"github.com/Pavitra-A/queuectl/errors"
	redisUtils "github.com/Pavitra-A/queuectl/internal/redis"
	"github.com/Pavitra-A/queuectl/job"
)

// RedisStatistics implements the Statistics interface over Redis
type RedisStatistics struct {
	pool      *redis.Pool
	namespace string
	options   Options
}

// NewStatistics creates a new Redis statistics backend
func NewStatistics(options Options) *RedisStatistics {
	return &RedisStatistics{
		namespace: options.Namespace,
		options:   options,
	}
}

// Connect establishes connection to Redis
func (r *RedisStatistics) Connect(ctx context.Context) error {
	pool, err := redisUtils.CreatePool(r.options)
	if err != nil {
		return errors.NewConnectionError(r.options.URI,
			fmt.Errorf("failed to create Redis pool: %w", err))
	}

	r.pool = pool

	conn := r.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("PING"); err != nil {
		return errors.NewConnectionError(r.options.URI,
			fmt.Errorf("ping failed: %w", err))
	}

	return nil
}

// Close closes the Redis connection pool
func (r *RedisStatistics) Close() error {
	if r.pool != nil {
		return r.pool.Close()
	}
	return nil
}

// Health checks the Redis connection health
func (r *RedisStatistics) Health() error {
	if r.pool == nil {
		return errors.ErrNotConnected
	}

	conn := r.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("PING"); err != nil {
		return errors.NewConnectionError(r.options.URI,
			fmt.Errorf("health check failed: %w", err))
	}

	return nil
}

// Type returns the statistics backend type
func (r *RedisStatistics) Type() string {
	return "redis"
}

// RegisterWorker adds the worker to the live set and stores its info
func (r *RedisStatistics) RegisterWorker(ctx context.Context, worker core.WorkerInfo) error {
	conn := r.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("SADD", r.workersKey(), worker.ID); err != nil {
		return fmt.Errorf("failed to add worker to set: %w", err)
	}

	workerData, err := json.Marshal(worker)
	if err != nil {
		return fmt.Errorf("failed to marshal worker info: %w", err)
	}

	if _, err := conn.Do("SET", r.workerKey(worker.ID), workerData); err != nil {
		return fmt.Errorf("failed to set worker info: %w", err)
	}

	return nil
}

// UnregisterWorker removes the worker from the live set
func (r *RedisStatistics) UnregisterWorker(ctx context.Context, workerID string) error {
	conn := r.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("SREM", r.workersKey(), workerID); err != nil {
		return fmt.Errorf("failed to remove worker from set: %w", err)
	}

	if _, err := conn.Do("DEL", r.workerKey(workerID)); err != nil {
		return fmt.Errorf("failed to delete worker info: %w", err)
	}

	return nil
}

// RecordJobStarted stores the in-flight job for the worker
func (r *RedisStatistics) RecordJobStarted(ctx context.Context, j *job.Job, worker core.WorkerInfo) error {
	conn := r.pool.Get()
	defer conn.Close()

	workData := map[string]any{
		"job_id":   j.ID,
		"job_type": j.Type,
		"attempts": j.Attempts,
		"run_at":   time.Now().UTC().Format(time.RFC3339),
	}

	workJSON, err := json.Marshal(workData)
	if err != nil {
		return fmt.Errorf("failed to marshal work data: %w", err)
	}

	if _, err := conn.Do("SET", r.workerJobKey(worker.ID), workJSON); err != nil {
		return fmt.Errorf("failed to set worker job: %w", err)
	}

	return nil
}

// RecordJobCompleted increments processed counters
func (r *RedisStatistics) RecordJobCompleted(ctx context.Context, j *job.Job, worker core.WorkerInfo, duration time.Duration) error {
	conn := r.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("INCR", r.processedKey("")); err != nil {
		return fmt.Errorf("failed to increment global processed: %w", err)
	}

	if _, err := conn.Do("INCR", r.processedKey(j.Type)); err != nil {
		return fmt.Errorf("failed to increment type processed: %w", err)
	}

	if _, err := conn.Do("DEL", r.workerJobKey(worker.ID)); err != nil {
		return fmt.Errorf("failed to clear worker job: %w", err)
	}

	return nil
}

// RecordJobFailed increments failed counters
func (r *RedisStatistics) RecordJobFailed(ctx context.Context, j *job.Job, worker core.WorkerInfo, err error, duration time.Duration) error {
	conn := r.pool.Get()
	defer conn.Close()

	if _, doErr := conn.Do("INCR", r.failedKey("")); doErr != nil {
		return fmt.Errorf("failed to increment global failed: %w", doErr)
	}

	if _, doErr := conn.Do("INCR", r.failedKey(j.Type)); doErr != nil {
		return fmt.Errorf("failed to increment type failed: %w", doErr)
	}

	if _, doErr := conn.Do("DEL", r.workerJobKey(worker.ID)); doErr != nil {
		return fmt.Errorf("failed to clear worker job: %w", doErr)
	}

	return nil
}

// RecordJobDeadLettered increments the dead-letter counter
func (r *RedisStatistics) RecordJobDeadLettered(ctx context.Context, j *job.Job, reason string) error {
	conn := r.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("INCR", r.deadKey()); err != nil {
		return fmt.Errorf("failed to increment dead-lettered: %w", err)
	}

	return nil
}

// GetProcessed returns the processed counter, globally or per type
func (r *RedisStatistics) GetProcessed(ctx context.Context, jobType string) (int64, error) {
	return r.getCounter(r.processedKey(jobType))
}

// GetFailed returns the failed counter, globally or per type
func (r *RedisStatistics) GetFailed(ctx context.Context, jobType string) (int64, error) {
	return r.getCounter(r.failedKey(jobType))
}

func (r *RedisStatistics) getCounter(key string) (int64, error) {
	conn := r.pool.Get()
	defer conn.Close()

	n, err := redis.Int64(conn.Do("GET", key))
	if err == redis.ErrNil {
		return 0, nil
	}
	return n, err
}

// Key helpers

func (r *RedisStatistics) workersKey() string {
	return r.namespace + "workers"
}

func (r *RedisStatistics) workerKey(workerID string) string {
	return fmt.Sprintf("%sworker:%s", r.namespace, workerID)
}

func (r *RedisStatistics) workerJobKey(workerID string) string {
	return fmt.Sprintf("%sworker:%s:job", r.namespace, workerID)
}

func (r *RedisStatistics) processedKey(jobType string) string {
	if jobType == "" {
		return r.namespace + "stat:processed"
	}
	return fmt.Sprintf("%sstat:processed:%s", r.namespace, jobType)
}

func (r *RedisStatistics) failedKey(jobType string) string {
	if jobType == "" {
		return r.namespace + "stat:failed"
	}
	return fmt.Sprintf("%sstat:failed:%s", r.namespace, jobType)
}

func (r *RedisStatistics) deadKey() string {
	return r.namespace + "stat:dead"
}
