package repository

import (
	"context"
	"fmt"

	"bebida-express/internal/domain"
	"bebida-express/internal/kvstore"
)

// Keys under which each collection is stored. Every mutation rewrites the
// whole collection.
const (
	MerchantsKey     = "merchants"
	StoresKey        = "stores"
	ProductsKey      = "products"
	OrdersKey        = "orders"
	CustomersKey     = "customers"
	NotificationsKey = "notifications"
)

// Tx gives typed access to the collections inside one atomic unit of work
type Tx struct {
	kv kvstore.Tx
}

// UnitOfWork runs multi-collection mutations atomically
type UnitOfWork interface {
	Do(ctx context.Context, keys []string, fn func(tx *Tx) error) error
}

type unitOfWork struct {
	store kvstore.Store
}

// NewUnitOfWork creates a UnitOfWork over store
func NewUnitOfWork(store kvstore.Store) UnitOfWork {
	return &unitOfWork{store: store}
}

func (u *unitOfWork) Do(ctx context.Context, keys []string, fn func(tx *Tx) error) error {
	return u.store.Atomic(ctx, keys, func(kv kvstore.Tx) error {
		return fn(&Tx{kv: kv})
	})
}

func loadTx[T any](tx kvstore.Tx, key string) ([]T, error) {
	var items []T
	if _, err := tx.Get(key, &items); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func storeTx[T any](tx kvstore.Tx, key string, items []T) error {
	if err := tx.Set(key, items); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func load[T any](ctx context.Context, store kvstore.Store, key string) ([]T, error) {
	var items []T
	if _, err := store.Get(ctx, key, &items); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (t *Tx) Products() ([]domain.Product, error) {
	return loadTx[domain.Product](t.kv, ProductsKey)
}

func (t *Tx) PutProducts(products []domain.Product) error {
	return storeTx(t.kv, ProductsKey, products)
}

func (t *Tx) Stores() ([]domain.Store, error) {
	return loadTx[domain.Store](t.kv, StoresKey)
}

func (t *Tx) PutStores(stores []domain.Store) error {
	return storeTx(t.kv, StoresKey, stores)
}

// Orders returns the order history newest-first
func (t *Tx) Orders() ([]domain.Order, error) {
	return loadTx[domain.Order](t.kv, OrdersKey)
}

func (t *Tx) PutOrders(orders []domain.Order) error {
	return storeTx(t.kv, OrdersKey, orders)
}

func (t *Tx) Merchants() ([]domain.Merchant, error) {
	return loadTx[domain.Merchant](t.kv, MerchantsKey)
}

func (t *Tx) PutMerchants(merchants []domain.Merchant) error {
	return storeTx(t.kv, MerchantsKey, merchants)
}

func (t *Tx) Customers() ([]domain.Customer, error) {
	return loadTx[domain.Customer](t.kv, CustomersKey)
}

func (t *Tx) PutCustomers(customers []domain.Customer) error {
	return storeTx(t.kv, CustomersKey, customers)
}

func (t *Tx) Notifications() ([]domain.Notification, error) {
	return loadTx[domain.Notification](t.kv, NotificationsKey)
}

func (t *Tx) PutNotifications(notifications []domain.Notification) error {
	return storeTx(t.kv, NotificationsKey, notifications)
}
