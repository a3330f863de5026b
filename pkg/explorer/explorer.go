// Package explorer runs the API explorer: a page that tests a base API
// URL and fetches its fixed endpoint set with timeout and retry.
package explorer

import (
	"context"
	"embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/garunski/api-explorer/pkg/explorer/controller"
	"github.com/garunski/api-explorer/pkg/explorer/logging"
	"github.com/garunski/api-explorer/pkg/explorer/server"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
)

// Config holds all explorer configuration
type Config struct {
	// Application metadata
	AppName    string `yaml:"appName"`
	AppVersion string `yaml:"appVersion"`

	// Server configuration
	Port             string    `yaml:"port"`
	CustomTemplateFS *embed.FS `yaml:"-"`

	// Storage configuration
	DataPath     string              `yaml:"dataPath"`
	Storage      string              `yaml:"storage"`
	Redis        storage.RedisConfig `yaml:"redis"`
	StorageQuota int                 `yaml:"storageQuota"`

	// Request behaviour
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	MaxRetries     int           `yaml:"maxRetries"`
	RetryDelay     time.Duration `yaml:"retryDelay"`
	FetchAllPause  time.Duration `yaml:"fetchAllPause"`

	// Activity log retention
	LogRetentionDays   int           `yaml:"logRetentionDays"`
	LogCleanupInterval time.Duration `yaml:"logCleanupInterval"`

	Logging logging.Config `yaml:"logging"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	opts := controller.DefaultOptions()

	logCfg := logging.DefaultConfig()
	logCfg.Level = getEnvOrDefault("EXPLORER_LOG_LEVEL", logCfg.Level)
	logCfg.Format = getEnvOrDefault("EXPLORER_LOG_FORMAT", logCfg.Format)
	logCfg.Output = getEnvOrDefault("EXPLORER_LOG_OUTPUT", logCfg.Output)
	logCfg.FilePath = getEnvOrDefault("EXPLORER_LOG_FILE", logCfg.FilePath)

	return Config{
		AppName:            "API Explorer",
		AppVersion:         getEnvOrDefault("VERSION", "dev"),
		Port:               getEnvOrDefault("EXPLORER_PORT", "8080"),
		DataPath:           getEnvOrDefault("EXPLORER_DATA_PATH", "/data/badger"),
		Storage:            getEnvOrDefault("EXPLORER_STORAGE", storage.BackendBadger),
		Redis:              storage.RedisConfig{Addr: getEnvOrDefault("EXPLORER_REDIS_ADDR", "localhost:6379"), Password: os.Getenv("EXPLORER_REDIS_PASSWORD")},
		StorageQuota:       parseIntOrDefault("EXPLORER_STORAGE_QUOTA", 0),
		RequestTimeout:     parseDurationOrDefault("EXPLORER_REQUEST_TIMEOUT", opts.Timeout),
		MaxRetries:         parseIntOrDefault("EXPLORER_MAX_RETRIES", opts.MaxRetries),
		RetryDelay:         parseDurationOrDefault("EXPLORER_RETRY_DELAY", opts.RetryDelay),
		FetchAllPause:      parseDurationOrDefault("EXPLORER_FETCH_ALL_PAUSE", opts.FetchAllPause),
		LogRetentionDays:   parseIntOrDefault("EXPLORER_EVENT_RETENTION_DAYS", 7),
		LogCleanupInterval: parseDurationOrDefault("EXPLORER_EVENT_CLEANUP_INTERVAL", time.Hour),
		Logging:            logCfg,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("AppName cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("Port cannot be empty")
	}
	if _, err := storage.ParseBackend(c.Storage); err != nil {
		return err
	}
	if c.DataPath == "" {
		return fmt.Errorf("DataPath cannot be empty")
	}
	if b, _ := storage.ParseBackend(c.Storage); b == storage.BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("Redis address cannot be empty with the redis backend")
	}
	if c.StorageQuota < 0 {
		return fmt.Errorf("StorageQuota cannot be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("RequestTimeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MaxRetries cannot be negative")
	}
	if c.RetryDelay < 0 || c.FetchAllPause < 0 {
		return fmt.Errorf("RetryDelay and FetchAllPause cannot be negative")
	}
	if c.LogRetentionDays < 0 {
		return fmt.Errorf("LogRetentionDays cannot be negative")
	}
	if c.LogCleanupInterval <= 0 {
		return fmt.Errorf("LogCleanupInterval must be positive")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}
	return nil
}

// ControllerOptions returns the controller settings derived from the config.
func (c *Config) ControllerOptions() controller.Options {
	opts := controller.DefaultOptions()
	opts.Timeout = c.RequestTimeout
	opts.MaxRetries = c.MaxRetries
	opts.RetryDelay = c.RetryDelay
	opts.FetchAllPause = c.FetchAllPause
	return opts
}

// Run starts the explorer with the given configuration and blocks until
// ctx ends or the process is signalled.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logs, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logs.Close()
	logger := logs.Logr()

	logger.Info("Starting explorer", "appName", cfg.AppName, "version", cfg.AppVersion, "storage", cfg.Storage)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, err := server.NewServer(&server.Config{
		AppName:            cfg.AppName,
		AppVersion:         cfg.AppVersion,
		DataPath:           cfg.DataPath,
		Port:               cfg.Port,
		Storage:            cfg.Storage,
		Redis:              cfg.Redis,
		StorageQuota:       cfg.StorageQuota,
		LogRetentionDays:   cfg.LogRetentionDays,
		LogCleanupInterval: cfg.LogCleanupInterval,
		Controller:         cfg.ControllerOptions(),
		CustomTemplateFS:   cfg.CustomTemplateFS,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error(err, "failed to close server")
		}
	}()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if err := srv.WaitForShutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
