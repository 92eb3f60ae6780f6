// Package kvstore is the durable key-value collaborator the repositories
// persist their JSON collections in.
package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrUndeclaredKey is returned when a transaction touches a key it did not declare
	ErrUndeclaredKey = errors.New("key not declared for transaction")
	// ErrConflict is returned when optimistic retries are exhausted
	ErrConflict = errors.New("transaction conflict, retries exhausted")
)

// Store maps string keys to JSON-serializable values
type Store interface {
	// Get decodes the value stored at key into dst. It reports false when the key is absent.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	// Set replaces the value stored at key.
	Set(ctx context.Context, key string, value interface{}) error
	// Atomic runs fn as a single read-modify-write over keys. Writes become
	// visible together when fn returns nil and are discarded otherwise.
	// fn may be invoked more than once and must not have side effects outside tx.
	Atomic(ctx context.Context, keys []string, fn func(tx Tx) error) error
	Close() error
}

// Tx is the view of the store inside Atomic
type Tx interface {
	Get(key string, dst interface{}) (bool, error)
	Set(key string, value interface{}) error
}

func declaredSet(keys []string) map[string]bool {
	declared := make(map[string]bool, len(keys))
	for _, k := range keys {
		declared[k] = true
	}
	return declared
}
