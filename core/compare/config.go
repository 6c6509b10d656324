package compare

import (
	"time"

	"tablediff/core/endpoint"
)

// Config tunes comparison runs.
type Config struct {
	// OpTimeoutSeconds bounds each endpoint operation (describe, cursor open, row fetch).
	OpTimeoutSeconds int `mapstructure:"op_timeout_seconds" default:"30"`
	// QueueSize is the capacity of each feeder queue.
	QueueSize int `mapstructure:"queue_size" default:"4"`
	// SortMode is server, memory or auto.
	SortMode string `mapstructure:"sort_mode" default:"auto"`
	// MaterializeLimit caps the rows a memory-sorted cursor may hold.
	MaterializeLimit int64 `mapstructure:"materialize_limit" default:"100000"`
	// SchemaCacheTTLSeconds is how long table descriptions are reused. Zero disables caching.
	SchemaCacheTTLSeconds int `mapstructure:"schema_cache_ttl_seconds" default:"60"`
	// MaxConcurrentRuns caps how many runs execute at once. Extra runs wait as pending.
	MaxConcurrentRuns int `mapstructure:"max_concurrent_runs" default:"4"`
}

// OpTimeout returns the per-operation timeout.
func (c Config) OpTimeout() time.Duration {
	if c.OpTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.OpTimeoutSeconds) * time.Second
}

// SchemaCacheTTL returns how long table descriptions are reused.
func (c Config) SchemaCacheTTL() time.Duration {
	return time.Duration(c.SchemaCacheTTLSeconds) * time.Second
}

// EndpointOptions returns the adapter options derived from c.
func (c Config) EndpointOptions() endpoint.Options {
	return endpoint.Options{
		SortMode:         endpoint.SortMode(c.SortMode),
		MaterializeLimit: c.MaterializeLimit,
		Timeout:          c.OpTimeout(),
	}
}
