package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Store over the kv_entries table. The table is
// created by the database migrations.
func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func getValue(ctx context.Context, q queryer, key string, dst interface{}) (bool, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1`

	var raw []byte
	err := q.QueryRowContext(ctx, query, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %q: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

func putValue(ctx context.Context, q queryer, key string, raw []byte) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := q.ExecContext(ctx, query, key, string(raw)); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

func (p *postgresStore) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	return getValue(ctx, p.db, key, dst)
}

func (p *postgresStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return putValue(ctx, p.db, key, raw)
}

func (p *postgresStore) Atomic(ctx context.Context, keys []string, fn func(tx Tx) error) error {
	sqlTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	// Advisory locks cover keys that have no row yet; sorted to avoid deadlocks.
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	for _, k := range sorted {
		if _, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, k); err != nil {
			return fmt.Errorf("failed to lock %q: %w", k, err)
		}
	}

	tx := &postgresTx{
		ctx:      ctx,
		sqlTx:    sqlTx,
		declared: declaredSet(keys),
		writes:   make(map[string][]byte),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for k, raw := range tx.writes {
		if err := putValue(ctx, sqlTx, k, raw); err != nil {
			return err
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *postgresStore) Close() error {
	return p.db.Close()
}

type postgresTx struct {
	ctx      context.Context
	sqlTx    *sql.Tx
	declared map[string]bool
	writes   map[string][]byte
}

func (t *postgresTx) Get(key string, dst interface{}) (bool, error) {
	if !t.declared[key] {
		return false, fmt.Errorf("%w: %s", ErrUndeclaredKey, key)
	}

	if raw, ok := t.writes[key]; ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			return false, fmt.Errorf("failed to decode %q: %w", key, err)
		}
		return true, nil
	}
	return getValue(t.ctx, t.sqlTx, key, dst)
}

func (t *postgresTx) Set(key string, value interface{}) error {
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
