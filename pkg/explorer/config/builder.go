package config

import (
	"embed"
	"fmt"
	"time"

	"github.com/garunski/api-explorer/pkg/explorer"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
)

// Builder provides a fluent interface for building explorer configuration.
type Builder struct {
	config explorer.Config
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		config: explorer.DefaultConfig(),
	}
}

// FromConfig starts a builder from an existing configuration.
func FromConfig(cfg explorer.Config) *Builder {
	return &Builder{config: cfg}
}

func (b *Builder) WithAppName(name string) *Builder {
	b.config.AppName = name
	return b
}

func (b *Builder) WithAppVersion(version string) *Builder {
	b.config.AppVersion = version
	return b
}

// WithCustomTemplateFS sets custom HTML templates.
func (b *Builder) WithCustomTemplateFS(fs *embed.FS) *Builder {
	b.config.CustomTemplateFS = fs
	return b
}

func (b *Builder) WithPort(port string) *Builder {
	b.config.Port = port
	return b
}

// WithDataPath sets the badger directory holding the activity log and,
// with the badger backend, the stored URL.
func (b *Builder) WithDataPath(path string) *Builder {
	b.config.DataPath = path
	return b
}

// WithStorage selects the settings store backend.
func (b *Builder) WithStorage(backend string) *Builder {
	b.config.Storage = backend
	return b
}

// WithRedis selects the redis backend at addr.
func (b *Builder) WithRedis(cfg storage.RedisConfig) *Builder {
	b.config.Storage = storage.BackendRedis
	b.config.Redis = cfg
	return b
}

// WithStorageQuota limits the memory backend to quota bytes.
func (b *Builder) WithStorageQuota(quota int) *Builder {
	b.config.StorageQuota = quota
	return b
}

func (b *Builder) WithRequestTimeout(timeout time.Duration) *Builder {
	b.config.RequestTimeout = timeout
	return b
}

// WithRetries sets how many times a timed out fetch is retried and the
// base delay of the linear backoff.
func (b *Builder) WithRetries(maxRetries int, delay time.Duration) *Builder {
	b.config.MaxRetries = maxRetries
	b.config.RetryDelay = delay
	return b
}

func (b *Builder) WithFetchAllPause(pause time.Duration) *Builder {
	b.config.FetchAllPause = pause
	return b
}

// WithLogRetentionDays sets the activity log retention period in days.
func (b *Builder) WithLogRetentionDays(days int) *Builder {
	b.config.LogRetentionDays = days
	return b
}

// WithLogCleanupInterval sets the activity log cleanup interval.
func (b *Builder) WithLogCleanupInterval(interval time.Duration) *Builder {
	b.config.LogCleanupInterval = interval
	return b
}

func (b *Builder) WithLogLevel(level string) *Builder {
	b.config.Logging.Level = level
	return b
}

// WithLogFile writes logs to a rotating file in addition to stdout.
func (b *Builder) WithLogFile(path string) *Builder {
	b.config.Logging.FilePath = path
	b.config.Logging.Output = "both"
	return b
}

// Build returns the configured Config and validates it.
// Returns an error if validation fails.
func (b *Builder) Build() (explorer.Config, error) {
	if err := b.config.Validate(); err != nil {
		return explorer.Config{}, err
	}
	return b.config, nil
}

// MustBuild returns the configured Config and panics if validation fails.
func (b *Builder) MustBuild() explorer.Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}
	return cfg
}
