package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore creates a process-local Store. Values are kept as encoded
// JSON so callers never share mutable state with the store.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}

	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Atomic(ctx context.Context, keys []string, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		base:     m.data,
		declared: declaredSet(keys),
		writes:   make(map[string][]byte),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for k, v := range tx.writes {
		m.data[k] = v
	}
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}

type memoryTx struct {
	base     map[string][]byte
	declared map[string]bool
	writes   map[string][]byte
}

func (t *memoryTx) Get(key string, dst interface{}) (bool, error) {
	if !t.declared[key] {
		return false, fmt.Errorf("%w: %s", ErrUndeclaredKey, key)
	}

	raw, ok := t.writes[key]
	if !ok {
		raw, ok = t.base[key]
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

func (t *memoryTx) Set(key string, value interface{}) error {
	if !t.declared[key] {
		return fmt.Errorf("%w: %s", ErrUndeclaredKey, key)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	t.writes[key] = raw
	return nil
}
