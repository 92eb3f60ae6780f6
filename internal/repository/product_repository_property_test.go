package repository

import (
	"context"
	"fmt"
	"testing"

	"bebida-express/internal/domain"
	"bebida-express/internal/kvstore"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_ProductSavePreservesAttributes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("saving and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, cents int64, stock int, promo bool) bool {
			ctx := context.Background()
			repo := NewProductRepository(kvstore.NewMemoryStore())

			product := &domain.Product{
				ID:          "p1",
				StoreID:     "store_1",
				Name:        name,
				Description: description,
				Price:       decimal.New(cents, -2),
				Category:    domain.CategoryBeer,
				Stock:       stock,
				IsPromo:     promo,
			}
			if err := repo.Save(ctx, product); err != nil {
				t.Logf("FAIL: Failed to save product: %v", err)
				return false
			}

			got, err := repo.FindByID(ctx, "p1")
			if err != nil {
				t.Logf("FAIL: Failed to find product: %v", err)
				return false
			}

			return got.Name == name &&
				got.Description == description &&
				got.Price.Equal(product.Price) &&
				got.Stock == stock &&
				got.IsPromo == promo &&
				got.StoreID == "store_1"
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Int64Range(0, 1000000),
		gen.IntRange(0, 10000),
		gen.Bool(),
	))

	properties.Property("upsert keeps catalog order and size", prop.ForAll(
		func(count int, target int) bool {
			products := make([]domain.Product, count)
			for i := range products {
				products[i] = domain.Product{ID: fmt.Sprintf("p%d", i)}
			}
			id := fmt.Sprintf("p%d", target%count)

			got := UpsertProduct(products, domain.Product{ID: id, Name: "updated"})
			if len(got) != count {
				return false
			}
			for i, p := range got {
				if p.ID != fmt.Sprintf("p%d", i) {
					return false
				}
				if (p.ID == id) != (p.Name == "updated") {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_ListFiltersByStore(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(kvstore.NewMemoryStore())

	for _, p := range []domain.Product{
		{ID: "1", StoreID: "a"},
		{ID: "2", StoreID: "b"},
		{ID: "3", StoreID: "a"},
	} {
		p := p
		require.NoError(t, repo.Save(ctx, &p))
	}

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	ofA, err := repo.List(ctx, "a")
	require.NoError(t, err)
	ofC, err := repo.List(ctx, "c")
	require.NoError(t, err)

	assert.Len(t, all, 3)
	require.Len(t, ofA, 2)
	assert.Equal(t, "1", ofA[0].ID)
	assert.Equal(t, "3", ofA[1].ID)
	assert.Empty(t, ofC)
	assert.NotNil(t, ofC)
}

func TestProductRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(kvstore.NewMemoryStore())
	require.NoError(t, repo.Save(ctx, &domain.Product{ID: "1"}))

	require.NoError(t, repo.Delete(ctx, "1"))

	_, err := repo.FindByID(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "1"), domain.ErrProductNotFound)
}

func TestProductRepository_EmptyCollection(t *testing.T) {
	repo := NewProductRepository(kvstore.NewMemoryStore())

	got, err := repo.List(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProperty_ListIsRepeatable(t *testing.T) {
	properties := gopter.NewProperties(nil)
	backends := map[string]kvstore.Store{
		"memory": kvstore.NewMemoryStore(),
		"redis":  newRedisBackedStore(t),
	}

	properties.Property("two reads with no write in between are identical", prop.ForAll(
		func(backend string, inStoreA []bool, query string) bool {
			ctx := context.Background()
			kv := backends[backend]
			repo := NewProductRepository(kv)
			if err := kv.Set(ctx, ProductsKey, []domain.Product{}); err != nil {
				return false
			}
			for i, inA := range inStoreA {
				storeID := "b"
				if inA {
					storeID = "a"
				}
				p := domain.Product{ID: fmt.Sprintf("p%d", i), StoreID: storeID, Price: decimal.New(int64(i*125), -2)}
				if err := repo.Save(ctx, &p); err != nil {
					return false
				}
			}

			first, err := repo.List(ctx, query)
			if err != nil {
				return false
			}
			second, err := repo.List(ctx, query)
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(first, second)
		},
		gen.OneConstOf("memory", "redis"),
		gen.SliceOf(gen.Bool()),
		gen.OneConstOf("", "a", "b", "c"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(kvstore.NewMemoryStore())

	var seen *domain.Product
	require.NoError(t, repo.Upsert(ctx, &domain.Product{ID: "1", SalesCount: 4}, func(existing *domain.Product) error {
		seen = existing
		return nil
	}))
	assert.Nil(t, seen)

	require.NoError(t, repo.Upsert(ctx, &domain.Product{ID: "1", Name: "renamed"}, func(existing *domain.Product) error {
		seen = existing
		return nil
	}))
	require.NotNil(t, seen)
	assert.Equal(t, 4, seen.SalesCount)

	err := repo.Upsert(ctx, &domain.Product{ID: "1", Name: "rejected"}, func(*domain.Product) error {
		return domain.ErrForbidden
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
}
