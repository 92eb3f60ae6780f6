package repository

import (
	"context"
	"errors"
	"testing"

	"bebida-express/internal/domain"
	"bebida-express/internal/kvstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBackedStore(t *testing.T) kvstore.Store {
	mr := miniredis.RunT(t)
	store := kvstore.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "bebida:", 10)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRepository_Backends(t *testing.T) {
	backends := map[string]func(t *testing.T) kvstore.Store{
		"memory": func(t *testing.T) kvstore.Store { return kvstore.NewMemoryStore() },
		"redis":  newRedisBackedStore,
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewStoreRepository(newStore(t))

			require.NoError(t, repo.Create(ctx, &domain.Store{ID: "s1", Name: "Adega", IsOnline: true}))

			got, err := repo.FindByID(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, "Adega", got.Name)

			updated, err := repo.Update(ctx, "s1", func(s *domain.Store) error {
				s.IsOnline = !s.IsOnline
				return nil
			})
			require.NoError(t, err)
			assert.False(t, updated.IsOnline)

			stores, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, stores, 1)
			assert.False(t, stores[0].IsOnline)
		})
	}
}

func TestStoreRepository_UpdateErrorsLeaveStoreUntouched(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(kvstore.NewMemoryStore())
	require.NoError(t, repo.Create(ctx, &domain.Store{ID: "s1", Reputation: 80}))
	boom := errors.New("boom")

	_, err := repo.Update(ctx, "s1", func(s *domain.Store) error {
		s.Reputation = 10
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.Update(ctx, "missing", func(s *domain.Store) error { return nil })
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 80, got.Reputation)
}

func TestStoreRepository_DeleteRemovesProducts(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	stores := NewStoreRepository(kv)
	products := NewProductRepository(kv)

	require.NoError(t, stores.Create(ctx, &domain.Store{ID: "s1"}))
	require.NoError(t, stores.Create(ctx, &domain.Store{ID: "s2"}))
	require.NoError(t, products.Save(ctx, &domain.Product{ID: "1", StoreID: "s1"}))
	require.NoError(t, products.Save(ctx, &domain.Product{ID: "2", StoreID: "s2"}))

	require.NoError(t, stores.Delete(ctx, "s1"))

	_, err := stores.FindByID(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)

	remaining, err := products.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "2", remaining[0].ID)

	assert.ErrorIs(t, stores.Delete(ctx, "s1"), domain.ErrStoreNotFound)
}
