package server

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/garunski/api-explorer/pkg/explorer/database"
	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
)

// StorageComponents holds all storage-related components
type StorageComponents struct {
	DB         *database.DB
	EventStore *events.Storage
	Store      storage.Store
}

// NewStorageComponents opens the database backing the activity log and the
// settings store selected by cfg.Storage.
func NewStorageComponents(cfg *Config, logger logr.Logger) (*StorageComponents, error) {
	backend, err := storage.ParseBackend(cfg.Storage)
	if err != nil {
		return nil, err
	}

	logger.Info("Opening BadgerDB", "path", cfg.DataPath)
	db, err := database.NewDB(cfg.DataPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	eventStore := events.NewStorage(db, logger)
	logger.Info("Event storage initialized")

	var store storage.Store
	switch backend {
	case storage.BackendRedis:
		rs := storage.NewRedisStore(cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), DefaultStorePingTimeout)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		store = rs
	case storage.BackendMemory:
		store = storage.NewMemoryStore(cfg.StorageQuota)
	default:
		store = storage.NewBadgerStore(db)
	}
	logger.Info("Settings store initialized", "backend", backend)

	return &StorageComponents{
		DB:         db,
		EventStore: eventStore,
		Store:      store,
	}, nil
}
