package service

import (
	"context"
	"testing"
	"time"

	"bebida-express/internal/config"
	"bebida-express/internal/domain"
	"bebida-express/internal/events"
	"bebida-express/internal/kvstore"
	"bebida-express/internal/metrics"
	"bebida-express/internal/repository"
	"bebida-express/internal/seed"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

var testNow = time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

// testEnv wires every service over a seeded in-memory store
type testEnv struct {
	store    kvstore.Store
	broker   *events.Broker
	metrics  *metrics.OrderMetrics
	products repository.ProductRepository
	stores   repository.StoreRepository
	orders   repository.OrderRepository

	orderSvc        OrderService
	catalogSvc      CatalogService
	storeSvc        StoreService
	merchantSvc     MerchantService
	customerSvc     CustomerService
	notificationSvc NotificationService
	insightSvc      InsightService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCommission(t, PlatformCommission(domain.DefaultCommissionRate))
}

func newTestEnvWithCommission(t *testing.T, commission CommissionPolicy) *testEnv {
	t.Helper()

	store := kvstore.NewMemoryStore()
	data, err := seed.Demo(bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, seed.Apply(context.Background(), store, data, zap.NewNop()))

	logger := zap.NewNop()
	uow := repository.NewUnitOfWork(store)
	env := &testEnv{
		store:    store,
		broker:   events.NewBroker(),
		metrics:  metrics.NewOrderMetrics(),
		products: repository.NewProductRepository(store),
		stores:   repository.NewStoreRepository(store),
		orders:   repository.NewOrderRepository(store),
	}

	orderSvc := NewOrderService(uow, env.orders, env.broker, env.broker, env.metrics, commission, logger).(*orderService)
	orderSvc.now = func() time.Time { return testNow }
	env.orderSvc = orderSvc

	env.notificationSvc = NewNotificationService(repository.NewNotificationRepository(store), logger)
	env.catalogSvc = NewCatalogService(env.products, env.notificationSvc, logger)
	env.storeSvc = NewStoreService(env.stores, logger)
	env.customerSvc = NewCustomerService(repository.NewCustomerRepository(store), logger)
	env.insightSvc = NewInsightService(env.products, env.orders, env.stores)

	merchantSvc := NewMerchantService(
		uow,
		repository.NewMerchantRepository(store),
		config.JWTConfig{Secret: testSecret, AccessExpiry: 15},
		config.PlatformConfig{AdminEmail: "admin@bebidaexpress.com", AdminPassword: "admin"},
		logger,
	).(*merchantService)
	merchantSvc.cost = bcrypt.MinCost
	env.merchantSvc = merchantSvc

	return env
}

func (e *testEnv) product(t *testing.T, id string) *domain.Product {
	t.Helper()
	p, err := e.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func itemOf(p *domain.Product, quantity int) domain.OrderItem {
	return domain.OrderItem{
		ProductID: p.ID,
		StoreID:   p.StoreID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Quantity:  quantity,
	}
}

func customer() domain.Customer {
	return domain.Customer{ID: "u1", Name: "Cliente Exemplo", Address: "Av. Principal, 1000 - Centro"}
}

func merchantSession(storeID string) domain.Session {
	return domain.Session{MerchantID: "m", StoreID: storeID}
}

var platformSession = domain.Session{MerchantID: PlatformMerchantID, PlatformAdmin: true}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}
