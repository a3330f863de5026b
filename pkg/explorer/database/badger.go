package database

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
)

var ErrNotFound = errors.New("key not found")

// DB is a thin key-value layer over BadgerDB shared by the URL store and
// the activity log.
type DB struct {
	db     *badger.DB
	logger logr.Logger
}

func NewDB(path string, logger logr.Logger) (*DB, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, apperrors.WrapStorage(err, fmt.Sprintf("create directory %s", path))
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	// the explorer writes a handful of small values; keep the footprint small
	opts.ValueLogFileSize = 64 << 20
	opts.NumMemtables = 2
	opts.NumLevelZeroTables = 2

	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.WrapStorage(err, fmt.Sprintf("open database at %s", path))
	}

	logger.V(1).Info("opened badger database", "path", path)
	return &DB{db: db, logger: logger}, nil
}

func (d *DB) Get(key string) ([]byte, error) {
	var value []byte
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, apperrors.WrapStorage(err, "get "+key)
	}
	return value, nil
}

func (d *DB) update(operation, key string, fn func(*badger.Txn) error) error {
	if err := d.db.Update(fn); err != nil {
		return apperrors.WrapStorage(err, operation+" "+key)
	}
	return nil
}

func (d *DB) Set(key string, value []byte) error {
	return d.update("set", key, func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (d *DB) Delete(key string) error {
	return d.update("delete", key, func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// List returns every key/value pair under prefix.
func (d *DB) List(prefix string) (map[string][]byte, error) {
	results := make(map[string][]byte)
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			results[string(item.KeyCopy(nil))] = val
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.WrapStorage(err, "list "+prefix)
	}
	return results, nil
}

func (d *DB) BatchSet(items map[string][]byte) error {
	txn := d.db.NewTransaction(true)
	defer txn.Discard()

	for key, value := range items {
		if err := txn.Set([]byte(key), value); err != nil {
			return apperrors.WrapStorage(err, "batch set "+key)
		}
	}

	if err := txn.Commit(); err != nil {
		return apperrors.WrapStorage(err, "batch set commit")
	}
	return nil
}

func (d *DB) BatchDelete(keys []string) error {
	txn := d.db.NewTransaction(true)
	defer txn.Discard()

	for _, key := range keys {
		if err := txn.Delete([]byte(key)); err != nil {
			d.logger.V(1).Info("failed to delete key in batch", "key", key, "error", err)
		}
	}

	if err := txn.Commit(); err != nil {
		return apperrors.WrapStorage(err, "batch delete commit")
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// NewTestDB creates an in-memory database closed with the test.
func NewTestDB(t testing.TB) (*DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create test DB: %w", err)
	}
	testDB := &DB{db: db, logger: logr.Discard()}
	if t != nil {
		t.Cleanup(func() { testDB.Close() })
	}
	return testDB, nil
}
