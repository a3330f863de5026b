package storage

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
)

// MemoryStore is a process-local store. A positive quota caps the total
// size of keys and values in bytes, like a browser storage quota.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
	quota int
	used  int
}

func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]string),
		quota: quota,
	}
}

func (s *MemoryStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.items[key]
	return val, ok, nil
}

func (s *MemoryStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used + len(key) + len(value)
	if old, ok := s.items[key]; ok {
		used -= len(key) + len(old)
	}
	if s.quota > 0 && used > s.quota {
		return apperrors.WrapStorage(apperrors.ErrQuotaExceeded, fmt.Sprintf("set %s (%d of %d bytes)", key, used, s.quota))
	}

	s.items[key] = value
	s.used = used
	return nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.items[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.items, key)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
