package repository

import (
	"context"

	"bebida-express/internal/domain"
	"bebida-express/internal/kvstore"
)

// StoreRepository defines the interface for store data access
type StoreRepository interface {
	List(ctx context.Context) ([]domain.Store, error)
	FindByID(ctx context.Context, id string) (*domain.Store, error)
	Create(ctx context.Context, store *domain.Store) error
	// Update applies fn to the stored copy and persists the result.
	Update(ctx context.Context, id string, fn func(store *domain.Store) error) (*domain.Store, error)
	// Delete removes the store together with its products.
	Delete(ctx context.Context, id string) error
}

type storeRepository struct {
	store kvstore.Store
	uow   UnitOfWork
}

// NewStoreRepository creates a new instance of StoreRepository
func NewStoreRepository(store kvstore.Store) StoreRepository {
	return &storeRepository{store: store, uow: NewUnitOfWork(store)}
}

func (r *storeRepository) List(ctx context.Context) ([]domain.Store, error) {
	return load[domain.Store](ctx, r.store, StoresKey)
}

func (r *storeRepository) FindByID(ctx context.Context, id string) (*domain.Store, error) {
	stores, err := load[domain.Store](ctx, r.store, StoresKey)
	if err != nil {
		return nil, err
	}
	return FindStore(stores, id)
}

func (r *storeRepository) Create(ctx context.Context, store *domain.Store) error {
	return r.uow.Do(ctx, []string{StoresKey}, func(tx *Tx) error {
		stores, err := tx.Stores()
		if err != nil {
			return err
		}
		return tx.PutStores(append(stores, *store))
	})
}

func (r *storeRepository) Update(ctx context.Context, id string, fn func(store *domain.Store) error) (*domain.Store, error) {
	var updated domain.Store

	err := r.uow.Do(ctx, []string{StoresKey}, func(tx *Tx) error {
		stores, err := tx.Stores()
		if err != nil {
			return err
		}

		for i := range stores {
			if stores[i].ID != id {
				continue
			}
			if err := fn(&stores[i]); err != nil {
				return err
			}
			updated = stores[i]
			return tx.PutStores(stores)
		}
		return domain.ErrStoreNotFound
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *storeRepository) Delete(ctx context.Context, id string) error {
	return r.uow.Do(ctx, []string{StoresKey, ProductsKey}, func(tx *Tx) error {
		stores, err := tx.Stores()
		if err != nil {
			return err
		}

		keptStores := stores[:0]
		found := false
		for _, s := range stores {
			if s.ID == id {
				found = true
				continue
			}
			keptStores = append(keptStores, s)
		}
		if !found {
			return domain.ErrStoreNotFound
		}

		products, err := tx.Products()
		if err != nil {
			return err
		}
		keptProducts := products[:0]
		for _, p := range products {
			if p.StoreID != id {
				keptProducts = append(keptProducts, p)
			}
		}

		if err := tx.PutStores(keptStores); err != nil {
			return err
		}
		return tx.PutProducts(keptProducts)
	})
}

// FindStore looks up id in stores
func FindStore(stores []domain.Store, id string) (*domain.Store, error) {
	for i := range stores {
		if stores[i].ID == id {
			return &stores[i], nil
		}
	}
	return nil, domain.ErrStoreNotFound
}
