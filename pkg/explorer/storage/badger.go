package storage

import (
	"context"
	"errors"

	"github.com/garunski/api-explorer/pkg/explorer/database"
)

const badgerKeyPrefix = "local/"

// BadgerStore keeps settings in the shared BadgerDB under the local/ prefix.
type BadgerStore struct {
	db *database.DB
}

func NewBadgerStore(db *database.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) GetItem(_ context.Context, key string) (string, bool, error) {
	val, err := s.db.Get(badgerKeyPrefix + key)
	if errors.Is(err, database.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(val), true, nil
}

func (s *BadgerStore) SetItem(_ context.Context, key, value string) error {
	return s.db.Set(badgerKeyPrefix+key, []byte(value))
}

func (s *BadgerStore) RemoveItem(_ context.Context, key string) error {
	return s.db.Delete(badgerKeyPrefix + key)
}

// Close is a no-op; the database is owned by the server.
func (s *BadgerStore) Close() error {
	return nil
}
