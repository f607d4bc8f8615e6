// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New builds a Config holding every default.
// - Load layers .env, an optional YAML file and MERGINGTON_* env vars on top.
// - Errors returned by Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"slices"
	"time"
)

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// TeachersFile is the JSON credentials file read once at startup.
	// A missing file yields an empty credential set.
	TeachersFile string `koanf:"teachers_file"`

	// SessionBackend is "memory" or "redis".
	SessionBackend string `koanf:"session_backend"`

	// RedisURL is required when SessionBackend is "redis".
	RedisURL string `koanf:"redis_url"`

	// SessionTTLSeconds expires sessions; 0 keeps them for the process lifetime.
	SessionTTLSeconds int `koanf:"session_ttl_seconds"`

	// EnforceCapacity rejects signups once an activity reaches max_participants.
	EnforceCapacity bool `koanf:"enforce_capacity"`

	// AuditQueueSize bounds the in-memory roster event queue.
	AuditQueueSize int `koanf:"audit_queue_size"`

	// AuditWorkers sets the number of goroutines draining the audit queue.
	AuditWorkers int `koanf:"audit_workers"`

	// AuditJournalSize caps how many roster events are retained.
	AuditJournalSize int `koanf:"audit_journal_size"`

	// MaxAuditLimit caps GET /audit?limit.
	MaxAuditLimit int `koanf:"max_audit_limit"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBuckets overrides the millisecond latency histogram buckets.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`

	// MetricsConstLabels are attached to every metric, e.g. {"campus": "north"}.
	MetricsConstLabels map[string]string `koanf:"metrics_const_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8000",
		TeachersFile:      "teachers.json",
		SessionBackend:    SessionBackendMemory,
		SessionTTLSeconds: 0,
		EnforceCapacity:   false,
		AuditQueueSize:    1024,
		AuditWorkers:      2,
		AuditJournalSize:  500,
		MaxAuditLimit:     100,
		MetricsNamespace:  "mergington",
		MetricsSubsystem:  "activities",
	}
}

// SessionTTL returns the session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SessionBackend != SessionBackendMemory && c.SessionBackend != SessionBackendRedis:
		return fmt.Errorf("%w: session_backend must be %q or %q", ErrInvalidConfig, SessionBackendMemory, SessionBackendRedis)
	case c.SessionBackend == SessionBackendRedis && c.RedisURL == "":
		return fmt.Errorf("%w: redis_url is required for the redis session backend", ErrInvalidConfig)
	case c.SessionTTLSeconds < 0:
		return fmt.Errorf("%w: session_ttl_seconds must not be negative", ErrInvalidConfig)
	case c.AuditQueueSize < 1, c.AuditWorkers < 1, c.AuditJournalSize < 1:
		return fmt.Errorf("%w: audit sizes must be positive", ErrInvalidConfig)
	case c.MaxAuditLimit < 1:
		return fmt.Errorf("%w: max_audit_limit must be positive", ErrInvalidConfig)
	case c.MetricsNamespace == "":
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	case !slices.IsSorted(c.MetricsLatencyBuckets):
		return fmt.Errorf("%w: metrics_latency_buckets must be in increasing order", ErrInvalidConfig)
	}
	return nil
}
