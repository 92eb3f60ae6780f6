package repository

import (
	"context"

	"bebida-express/internal/domain"
	"bebida-express/internal/kvstore"
)

// OrderRepository defines the interface for order data access. Reads are
// always newest-first.
type OrderRepository interface {
	// List returns orders of storeID, or of every store when storeID is empty.
	List(ctx context.Context, storeID string) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// Update applies fn to the stored copy and persists the result.
	Update(ctx context.Context, id string, fn func(order *domain.Order) error) (*domain.Order, error)
}

type orderRepository struct {
	store kvstore.Store
	uow   UnitOfWork
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(store kvstore.Store) OrderRepository {
	return &orderRepository{store: store, uow: NewUnitOfWork(store)}
}

func (r *orderRepository) List(ctx context.Context, storeID string) ([]domain.Order, error) {
	orders, err := load[domain.Order](ctx, r.store, OrdersKey)
	if err != nil {
		return nil, err
	}
	if storeID == "" {
		return orders, nil
	}

	filtered := []domain.Order{}
	for _, o := range orders {
		if o.StoreID == storeID {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := load[domain.Order](ctx, r.store, OrdersKey)
	if err != nil {
		return nil, err
	}
	return OrdersOfUser(orders, userID), nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := load[domain.Order](ctx, r.store, OrdersKey)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *orderRepository) Update(ctx context.Context, id string, fn func(order *domain.Order) error) (*domain.Order, error) {
	var updated domain.Order

	err := r.uow.Do(ctx, []string{OrdersKey}, func(tx *Tx) error {
		orders, err := tx.Orders()
		if err != nil {
			return err
		}

		for i := range orders {
			if orders[i].ID != id {
				continue
			}
			if err := fn(&orders[i]); err != nil {
				return err
			}
			updated = orders[i]
			return tx.PutOrders(orders)
		}
		return domain.ErrOrderNotFound
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// OrdersOfUser filters orders placed by userID, preserving order
func OrdersOfUser(orders []domain.Order, userID string) []domain.Order {
	filtered := []domain.Order{}
	for _, o := range orders {
		if o.UserID == userID {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// PrependOrder puts order at the head of the newest-first history
func PrependOrder(orders []domain.Order, order domain.Order) []domain.Order {
	return append([]domain.Order{order}, orders...)
}
