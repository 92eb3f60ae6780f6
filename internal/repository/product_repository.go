package repository

import (
	"context"

	"bebida-express/internal/domain"
	"bebida-express/internal/kvstore"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// List returns the catalog in insertion order, filtered by storeID when it is not empty.
	List(ctx context.Context, storeID string) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// Save replaces the product with the same ID or appends it.
	Save(ctx context.Context, product *domain.Product) error
	// Upsert is Save with a hook that sees the stored copy (nil when new) in
	// the same transaction. An error from fn aborts the write.
	Upsert(ctx context.Context, product *domain.Product, fn func(existing *domain.Product) error) error
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	store kvstore.Store
	uow   UnitOfWork
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(store kvstore.Store) ProductRepository {
	return &productRepository{store: store, uow: NewUnitOfWork(store)}
}

func (r *productRepository) List(ctx context.Context, storeID string) ([]domain.Product, error) {
	products, err := load[domain.Product](ctx, r.store, ProductsKey)
	if err != nil {
		return nil, err
	}
	return FilterProductsByStore(products, storeID), nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := load[domain.Product](ctx, r.store, ProductsKey)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.Upsert(ctx, product, nil)
}

func (r *productRepository) Upsert(ctx context.Context, product *domain.Product, fn func(existing *domain.Product) error) error {
	return r.uow.Do(ctx, []string{ProductsKey}, func(tx *Tx) error {
		products, err := tx.Products()
		if err != nil {
			return err
		}

		if fn != nil {
			var existing *domain.Product
			for i := range products {
				if products[i].ID == product.ID {
					stored := products[i]
					existing = &stored
					break
				}
			}
			if err := fn(existing); err != nil {
				return err
			}
		}
		return tx.PutProducts(UpsertProduct(products, *product))
	})
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.uow.Do(ctx, []string{ProductsKey}, func(tx *Tx) error {
		products, err := tx.Products()
		if err != nil {
			return err
		}

		kept := products[:0]
		found := false
		for _, p := range products {
			if p.ID == id {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		if !found {
			return domain.ErrProductNotFound
		}
		return tx.PutProducts(kept)
	})
}

// FilterProductsByStore keeps catalog order. An empty storeID keeps everything.
func FilterProductsByStore(products []domain.Product, storeID string) []domain.Product {
	if storeID == "" {
		return products
	}

	filtered := []domain.Product{}
	for _, p := range products {
		if p.StoreID == storeID {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// UpsertProduct replaces the entry with the same ID in place or appends product
func UpsertProduct(products []domain.Product, product domain.Product) []domain.Product {
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			return products
		}
	}
	return append(products, product)
}
