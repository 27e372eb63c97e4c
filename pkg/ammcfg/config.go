// Package ammcfg loads engine configuration from environment variables,
// in the singleton-plus-envconfig.Process style of
// blinklabs-io-shai/internal/config/config.go.
package ammcfg

import (
	"errors"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Logging   LoggingConfig
	Cache     CacheConfig
	Lifecycle LifecycleConfig
	Rpc       RpcConfig
}

type LoggingConfig struct {
	Level string `envconfig:"LOGGING_LEVEL" default:"info"`
}

// CacheConfig holds cache-related settings.
type CacheConfig struct {
	// MaxTraceQueueDepth is a buffer size for an asynchronous trace sink.
	// No package in this module reads it; pkg/cache delivers trace events
	// synchronously and drops none.
	MaxTraceQueueDepth int `envconfig:"CACHE_MAX_TRACE_QUEUE_DEPTH" default:"4096"`
}

// LifecycleConfig tunes the pkg/lifecycle topology state machine.
type LifecycleConfig struct {
	// MeteoraArrayRadius is R in spec.md §4.3's MeteoraDlmm coverage
	// window (implementation picks R=1).
	MeteoraArrayRadius int64 `envconfig:"LIFECYCLE_METEORA_ARRAY_RADIUS" default:"1"`
}

// RpcConfig configures the bootstrap-fetch RPC client pkg/ingest's
// BootstrapFetcher wraps.
type RpcConfig struct {
	Endpoint           string `envconfig:"RPC_ENDPOINT" required:"true"`
	RequestsPerSecond  int    `envconfig:"RPC_REQUESTS_PER_SECOND" default:"10"`
	Burst              int    `envconfig:"RPC_BURST" default:"5"`
}

var globalConfig = &Config{
	Logging: LoggingConfig{Level: "info"},
	Cache:   CacheConfig{MaxTraceQueueDepth: 4096},
	Lifecycle: LifecycleConfig{
		MeteoraArrayRadius: 1,
	},
	Rpc: RpcConfig{RequestsPerSecond: 10, Burst: 5},
}

// Load populates globalConfig from environment variables and returns it.
// Each field is read from AMMENGINE_ followed by its envconfig tag (for
// example AMMENGINE_RPC_ENDPOINT); an unset or empty RPC endpoint is an
// error.
func Load() (*Config, error) {
	sections := []any{&globalConfig.Logging, &globalConfig.Cache, &globalConfig.Lifecycle, &globalConfig.Rpc}
	for _, section := range sections {
		if err := envconfig.Process("ammengine", section); err != nil {
			return nil, err
		}
	}
	if globalConfig.Rpc.Endpoint == "" {
		return nil, errors.New("ammcfg: AMMENGINE_RPC_ENDPOINT is empty")
	}
	return globalConfig, nil
}

// GetConfig returns the process-wide config instance.
func GetConfig() *Config {
	return globalConfig
}
