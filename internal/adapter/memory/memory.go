// Package memory implements an in-memory key-value backend for development and testing.
package memory

import (
	"context"
	"sync"

	"bettertogether/internal/adapter/kv"
)

// DB implements an in-memory key-value storage.
type DB struct {
	mu     sync.Mutex
	values map[string][]byte
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{values: make(map[string][]byte)}
}

// Ensure interfaces are met.
var _ kv.Backend = (*DB)(nil)

// Get returns a copy of the value stored at key.
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	v, ok := db.values[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put replaces the value stored at key.
func (db *DB) Put(ctx context.Context, key string, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.values[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op; it lets the in-memory DB stand in for the SQL backends.
func (db *DB) Close() error {
	return nil
}
