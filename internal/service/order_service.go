package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bebida-express/internal/domain"
	"bebida-express/internal/events"
	"bebida-express/internal/insight"
	"bebida-express/internal/metrics"
	"bebida-express/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PendingWindow is how recent a pending order must be to count as new
const PendingWindow = 6 * time.Second

// CreateOrderInput is a customer's checkout request
type CreateOrderInput struct {
	Items []domain.OrderItem
	// DeclaredTotal, when set, must equal the sum of the line totals.
	DeclaredTotal *decimal.Decimal
	Customer      domain.Customer
	PaymentMethod domain.PaymentMethod
}

// OrderService defines the interface for order orchestration
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, sess domain.Session, orderID string, to domain.OrderStatus) (*domain.Order, error)
	ListStoreOrders(ctx context.Context, sess domain.Session, storeID string) ([]domain.Order, error)
	ListCustomerOrders(ctx context.Context, userID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	HasRecentPending(ctx context.Context, storeID string, window time.Duration) (bool, error)
	SubscribePending(sess domain.Session, storeID string) (<-chan events.OrderEvent, func(), error)
}

type orderService struct {
	uow        repository.UnitOfWork
	orderRepo  repository.OrderRepository
	broker     *events.Broker
	publisher  events.Publisher
	metrics    *metrics.OrderMetrics
	commission CommissionPolicy
	logger     *zap.Logger
	now        func() time.Time
}

// NewOrderService creates a new instance of OrderService. Committed changes
// are published to publisher; broker serves pending-order subscriptions and
// should be among publisher's targets.
func NewOrderService(
	uow repository.UnitOfWork,
	orderRepo repository.OrderRepository,
	broker *events.Broker,
	publisher events.Publisher,
	orderMetrics *metrics.OrderMetrics,
	commission CommissionPolicy,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		uow:        uow,
		orderRepo:  orderRepo,
		broker:     broker,
		publisher:  publisher,
		metrics:    orderMetrics,
		commission: commission,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder validates the cart, labels the customer, persists the order
// and applies the sale to the catalog as one atomic unit.
func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentMethodWhatsApp
	}
	total, err := validateCart(in)
	if err != nil {
		s.metrics.RecordError("invalid_cart")
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}
	now := s.now()
	storeID := in.Items[0].StoreID

	var order domain.Order
	err = s.uow.Do(ctx, []string{repository.StoresKey, repository.OrdersKey, repository.ProductsKey}, func(tx *repository.Tx) error {
		stores, err := tx.Stores()
		if err != nil {
			return err
		}
		store, err := repository.FindStore(stores, storeID)
		if err != nil || !store.IsOnline {
			return domain.ErrStoreUnavailable
		}

		history, err := tx.Orders()
		if err != nil {
			return err
		}

		order = domain.Order{
			ID:            id.String(),
			StoreID:       store.ID,
			UserID:        in.Customer.ID,
			UserName:      in.Customer.Name,
			Items:         in.Items,
			Total:         total,
			Commission:    total.Mul(s.commission(store)),
			Status:        domain.OrderStatusPending,
			PaymentMethod: in.PaymentMethod,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		orderInsight := insight.ComputeInsight(&order, &in.Customer, history, now)
		order.Insights = &orderInsight

		if err := tx.PutOrders(repository.PrependOrder(history, order)); err != nil {
			return err
		}

		products, err := tx.Products()
		if err != nil {
			return err
		}
		applySale(products, in.Items)
		return tx.PutProducts(products)
	})
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			s.metrics.RecordError("store_unavailable")
			return nil, err
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("store_id", order.StoreID),
		zap.String("total", order.Total.String()),
		zap.String("customer_label", string(order.Insights.CustomerLabel)),
	)
	s.metrics.RecordOrderCreated(order.StoreID, string(order.PaymentMethod), order.Total, order.Commission)
	s.publish(ctx, events.NewOrderEvent(events.TypeOrderCreated, &order))

	return &order, nil
}

func validateCart(in CreateOrderInput) (decimal.Decimal, error) {
	if len(in.Items) == 0 {
		return decimal.Zero, fmt.Errorf("%w: cart is empty", domain.ErrInvalidCart)
	}
	if in.Items[0].StoreID == "" {
		return decimal.Zero, fmt.Errorf("%w: items reference no store", domain.ErrInvalidCart)
	}
	if !in.PaymentMethod.Valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidCart, in.PaymentMethod)
	}
	for _, item := range in.Items {
		if item.StoreID != in.Items[0].StoreID {
			return decimal.Zero, fmt.Errorf("%w: %s belongs to another store", domain.ErrInvalidCart, item.ProductID)
		}
		if item.Quantity < 1 {
			return decimal.Zero, fmt.Errorf("%w: quantity of %s must be at least 1", domain.ErrInvalidCart, item.ProductID)
		}
		if item.Price.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: price of %s is negative", domain.ErrInvalidCart, item.ProductID)
		}
	}

	total := domain.ItemsTotal(in.Items)
	if in.DeclaredTotal != nil && !in.DeclaredTotal.Equal(total) {
		return decimal.Zero, fmt.Errorf("%w: declared total %s does not match %s", domain.ErrInvalidCart, in.DeclaredTotal, total)
	}
	return total, nil
}

// applySale decrements stock and records sales for every item whose product
// is still in the catalog.
func applySale(products []domain.Product, items []domain.OrderItem) {
	for _, item := range items {
		for i := range products {
			if products[i].ID == item.ProductID {
				products[i].ApplySale(item.Quantity)
				break
			}
		}
	}
}

// UpdateStatus moves an order along the status state machine
func (s *orderService) UpdateStatus(ctx context.Context, sess domain.Session, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orderRepo.Update(ctx, orderID, func(order *domain.Order) error {
		if !sess.CanManageStore(order.StoreID) {
			return domain.ErrForbidden
		}
		if !order.Status.CanTransitionTo(to) {
			return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, order.Status, to)
		}
		order.Status = to
		order.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)),
	)
	s.metrics.RecordStatus(order.StoreID, string(order.Status))
	s.publish(ctx, events.NewOrderEvent(events.TypeOrderStatusChanged, order))

	return order, nil
}

// ListStoreOrders returns the orders of storeID newest-first. Platform
// sessions may pass an empty storeID to list every store.
func (s *orderService) ListStoreOrders(ctx context.Context, sess domain.Session, storeID string) ([]domain.Order, error) {
	if storeID == "" {
		storeID = sess.StoreID
	}
	if !sess.CanManageStore(storeID) {
		return nil, domain.ErrForbidden
	}

	orders, err := s.orderRepo.List(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) ListCustomerOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// HasRecentPending reports whether storeID has a pending order created less
// than window ago.
func (s *orderService) HasRecentPending(ctx context.Context, storeID string, window time.Duration) (bool, error) {
	if window <= 0 {
		window = PendingWindow
	}

	orders, err := s.orderRepo.List(ctx, storeID)
	if err != nil {
		return false, fmt.Errorf("failed to list orders: %w", err)
	}

	now := s.now()
	for _, o := range orders {
		if o.Status == domain.OrderStatusPending && now.Sub(o.CreatedAt) < window {
			return true, nil
		}
	}
	return false, nil
}

// SubscribePending streams newly created orders of storeID. The returned
// function ends the subscription and closes the channel.
func (s *orderService) SubscribePending(sess domain.Session, storeID string) (<-chan events.OrderEvent, func(), error) {
	if storeID == "" {
		storeID = sess.StoreID
	}
	if !sess.CanManageStore(storeID) {
		return nil, nil, domain.ErrForbidden
	}

	all, unsubscribe := s.broker.Subscribe(storeID)
	pending := make(chan events.OrderEvent, 1)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			unsubscribe()
		})
	}

	go func() {
		defer close(pending)
		for event := range all {
			if event.Type != events.TypeOrderCreated {
				continue
			}
			select {
			case pending <- event:
			case <-done:
				return
			}
		}
	}()
	return pending, cancel, nil
}

func (s *orderService) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("order_id", event.OrderID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}
