package storage

import (
	"context"
	"fmt"
	"strings"
)

// URLKey is the persisted key holding the last configured base URL.
const URLKey = "learnNodeApiUrl"

// Backend names accepted by New.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Store is the local key-value persistence used for explorer settings.
// A missing key is reported with ok=false and a nil error.
type Store interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Close() error
}

// ParseBackend normalizes a backend name.
func ParseBackend(name string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(name)); b {
	case "", BackendBadger:
		return BackendBadger, nil
	case BackendRedis, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q (must be one of: badger, redis, memory)", name)
	}
}
