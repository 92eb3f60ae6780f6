package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bebida-express/internal/config"
	"bebida-express/internal/domain"
	"bebida-express/internal/events"
	"bebida-express/internal/kvstore"
	"bebida-express/internal/metrics"
	"bebida-express/internal/middleware"
	"bebida-express/internal/repository"
	"bebida-express/internal/seed"
	"bebida-express/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type handlers struct {
	merchants service.MerchantService
	products  repository.ProductRepository
	orders    repository.OrderRepository
	merchant  *MerchantHandler
	order     *OrderHandler
	admin     *AdminHandler
	platform  *PlatformHandler
}

// newHandlers wires real services over a seeded in-memory store
func newHandlers(t *testing.T) *handlers {
	t.Helper()

	store := kvstore.NewMemoryStore()
	data, err := seed.Demo(bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, seed.Apply(context.Background(), store, data, zap.NewNop()))

	logger := zap.NewNop()
	uow := repository.NewUnitOfWork(store)
	productRepo := repository.NewProductRepository(store)
	storeRepo := repository.NewStoreRepository(store)
	orderRepo := repository.NewOrderRepository(store)

	notificationSvc := service.NewNotificationService(repository.NewNotificationRepository(store), logger)
	catalogSvc := service.NewCatalogService(productRepo, notificationSvc, logger)
	storeSvc := service.NewStoreService(storeRepo, logger)
	merchantSvc := service.NewMerchantService(
		uow,
		repository.NewMerchantRepository(store),
		config.JWTConfig{Secret: testSecret, AccessExpiry: 15},
		config.PlatformConfig{AdminEmail: "admin@bebidaexpress.com", AdminPassword: "platform-pass"},
		logger,
	)
	broker := events.NewBroker()
	orderSvc := service.NewOrderService(
		uow,
		orderRepo,
		broker,
		broker,
		metrics.NewOrderMetrics(),
		service.PlatformCommission(domain.DefaultCommissionRate),
		logger,
	)

	insightSvc := service.NewInsightService(productRepo, orderRepo, storeRepo)

	return &handlers{
		merchants: merchantSvc,
		products:  productRepo,
		orders:    orderRepo,
		merchant:  NewMerchantHandler(merchantSvc, logger),
		order:     NewOrderHandler(orderSvc, storeSvc, logger),
		admin:     NewAdminHandler(catalogSvc, orderSvc, storeSvc, insightSvc, notificationSvc, logger),
		platform:  NewPlatformHandler(storeSvc, insightSvc, logger),
	}
}

// router mounts every handler under test behind the real auth middleware
func (h *handlers) router() chi.Router {
	r := chi.NewRouter()
	auth := middleware.AuthMiddleware(testSecret, zap.NewNop())
	h.merchant.RegisterRoutes(r, auth)
	h.order.RegisterRoutes(r, nil)
	h.admin.RegisterRoutes(r, auth)
	h.platform.RegisterRoutes(r, auth)
	return r
}

// login returns a bearer token for the given credentials
func (h *handlers) login(t *testing.T, email, password string) string {
	t.Helper()

	result, err := h.merchants.Login(context.Background(), email, password)
	require.NoError(t, err)
	return "Bearer " + result.AccessToken
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}
