package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisRetries = 5

type redisStore struct {
	client     *redis.Client
	prefix     string
	maxRetries int
}

// NewRedisStore creates a Store backed by Redis. Every key is namespaced with
// prefix. Atomic uses WATCH/MULTI and retries up to maxRetries times on conflict.
func NewRedisStore(client *redis.Client, prefix string, maxRetries int) Store {
	if maxRetries <= 0 {
		maxRetries = defaultRedisRetries
	}
	return &redisStore{client: client, prefix: prefix, maxRetries: maxRetries}
}

func (r *redisStore) key(k string) string {
	return r.prefix + k
}

func (r *redisStore) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %q: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

func (r *redisStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}

	if err := r.client.Set(ctx, r.key(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

func (r *redisStore) Atomic(ctx context.Context, keys []string, fn func(tx Tx) error) error {
	watched := make([]string, len(keys))
	for i, k := range keys {
		watched[i] = r.key(k)
	}

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		err := r.client.Watch(ctx, func(rtx *redis.Tx) error {
			tx := &redisTx{
				ctx:      ctx,
				rtx:      rtx,
				store:    r,
				declared: declaredSet(keys),
				writes:   make(map[string][]byte),
			}
			if err := fn(tx); err != nil {
				return err
			}
			if len(tx.writes) == 0 {
				return nil
			}

			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for k, v := range tx.writes {
					pipe.Set(ctx, r.key(k), v, 0)
				}
				return nil
			})
			return err
		}, watched...)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return ErrConflict
}

func (r *redisStore) Close() error {
	return r.client.Close()
}

type redisTx struct {
	ctx      context.Context
	rtx      *redis.Tx
	store    *redisStore
	declared map[string]bool
	writes   map[string][]byte
}

func (t *redisTx) Get(key string, dst interface{}) (bool, error) {
	if !t.declared[key] {
		return false, fmt.Errorf("%w: %s", ErrUndeclaredKey, key)
	}

	raw, ok := t.writes[key]
	if !ok {
		var err error
		raw, err = t.rtx.Get(t.ctx, t.store.key(key)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return false, nil
			}
			return false, fmt.Errorf("failed to get %q: %w", key, err)
		}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

func (t *redisTx) Set(key string, value interface{}) error {
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
