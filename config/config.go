// Package config reads queuectl configuration from the environment, with an
// optional .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvDBDriver     = "QUEUECTL_DB_DRIVER"
	EnvDBPath       = "QUEUECTL_DB_PATH"
	EnvDBDSN        = "QUEUECTL_DB_DSN"
	EnvRedisURI     = "QUEUECTL_REDIS_URI"
	EnvAMQPURI      = "QUEUECTL_AMQP_URI"
	EnvPollInterval = "QUEUECTL_POLL_INTERVAL"
	EnvBaseDelay    = "QUEUECTL_BASE_DELAY"
	EnvConcurrency  = "QUEUECTL_CONCURRENCY"
)

// Config is the resolved CLI configuration
type Config struct {
	// DBDriver is "sqlite" or "postgres"
	DBDriver string
	// DBPath is the SQLite database file
	DBPath string
	// DBDSN is the Postgres connection string
	DBDSN string
	// RedisURI enables the Redis statistics backend when non-empty
	RedisURI string
	// AMQPURI enables the AMQP event publisher when non-empty
	AMQPURI string
	// PollInterval is the worker sleep when no job is ready
	PollInterval time.Duration
	// BaseDelay is the exponential backoff base
	BaseDelay time.Duration
	// Concurrency is the number of worker loops per process
	Concurrency int
}

// Load resolves configuration from the environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBDriver:     GetEnv(EnvDBDriver, "sqlite"),
		DBPath:       GetEnv(EnvDBPath, "queuectl.db"),
		DBDSN:        GetEnv(EnvDBDSN, ""),
		RedisURI:     GetEnv(EnvRedisURI, ""),
		AMQPURI:      GetEnv(EnvAMQPURI, ""),
		PollInterval: GetEnvDuration(EnvPollInterval, 2*time.Second),
		BaseDelay:    GetEnvDuration(EnvBaseDelay, 5*time.Second),
		Concurrency:  GetEnvInt(EnvConcurrency, 1),
	}
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvInt retrieves an integer environment variable with a fallback
func GetEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvDuration retrieves a duration environment variable with a fallback.
// Plain numbers are read as seconds.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
