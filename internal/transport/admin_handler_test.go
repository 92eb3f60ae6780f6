package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bebida-express/internal/domain"
	"bebida-express/internal/insight"
	"bebida-express/internal/seed"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func do(t *testing.T, router chi.Router, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func placeOrder(t *testing.T, router chi.Router) *domain.Order {
	t.Helper()

	w := do(t, router, jsonRequest(t, http.MethodPost, "/api/orders/", checkout("store_1", "1", "7.50", 2)), "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateOrderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Order
}

func TestAdmin_RequiresToken(t *testing.T) {
	router := newHandlers(t).router()

	w := do(t, router, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil), "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_OrderLifecycle(t *testing.T) {
	h := newHandlers(t)
	router := h.router()
	token := h.login(t, "adega@admin.com", seed.DemoPassword)

	order := placeOrder(t, router)

	w := do(t, router, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil), token)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []domain.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	steps := []struct {
		to   domain.OrderStatus
		code int
	}{
		{domain.OrderStatusDelivered, http.StatusConflict},
		{domain.OrderStatusInRoute, http.StatusOK},
		{domain.OrderStatusDeclined, http.StatusConflict},
		{domain.OrderStatusDelivered, http.StatusOK},
		{domain.OrderStatusCancelled, http.StatusConflict},
	}
	for _, step := range steps {
		w := do(t, router, jsonRequest(t, http.MethodPatch, "/api/admin/orders/"+order.ID+"/status", StatusRequest{Status: step.to}), token)
		assert.Equal(t, step.code, w.Code, "transition to %s", step.to)
	}

	stored, err := h.orders.FindByID(t.Context(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, stored.Status)
}

func TestAdmin_OtherStoreIsForbidden(t *testing.T) {
	h := newHandlers(t)
	router := h.router()
	order := placeOrder(t, router)

	// Merchant of store_2 cannot touch an order of store_1
	token := h.login(t, "ze@admin.com", seed.DemoPassword)
	w := do(t, router, jsonRequest(t, http.MethodPatch, "/api/admin/orders/"+order.ID+"/status", StatusRequest{Status: domain.OrderStatusInRoute}), token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, httptest.NewRequest(http.MethodGet, "/api/platform/summary", nil), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdmin_ToggleStoreBlocksCheckout(t *testing.T) {
	h := newHandlers(t)
	router := h.router()
	token := h.login(t, "adega@admin.com", seed.DemoPassword)

	w := do(t, router, httptest.NewRequest(http.MethodPost, "/api/admin/store/toggle", nil), token)
	require.Equal(t, http.StatusOK, w.Code)
	var state map[string]bool
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	assert.False(t, state["is_online"])

	w = do(t, router, jsonRequest(t, http.MethodPost, "/api/orders/", checkout("store_1", "1", "7.50", 1)), "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, httptest.NewRequest(http.MethodPost, "/api/admin/store/toggle", nil), token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	assert.True(t, state["is_online"])
}

func TestAdmin_PromoSaveBroadcastsAndInsights(t *testing.T) {
	h := newHandlers(t)
	router := h.router()
	token := h.login(t, "adega@admin.com", seed.DemoPassword)

	w := do(t, router, jsonRequest(t, http.MethodPost, "/api/admin/products", ProductRequest{
		Name:     "Brahma 350ml",
		Price:    decimal.RequireFromString("3.50"),
		Category: domain.CategoryBeer,
		Stock:    5,
		IsPromo:  true,
	}), token)
	require.Equal(t, http.StatusOK, w.Code)

	var saved domain.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&saved))
	assert.Equal(t, "store_1", saved.StoreID)
	assert.NotEmpty(t, saved.ID)

	w = do(t, router, httptest.NewRequest(http.MethodGet, "/api/admin/insights", nil), token)
	require.Equal(t, http.StatusOK, w.Code)

	var insights insight.StoreInsights
	require.NoError(t, json.NewDecoder(w.Body).Decode(&insights))
	assert.Contains(t, insights.StockAlerts, "low stock: Brahma 350ml (5 units)")
	assert.Equal(t, 100, insights.AcceptanceRate)
	assert.Contains(t, insights.PriceSuggestion, "Skol 350ml")
}

func TestPlatform_SummaryAndReputation(t *testing.T) {
	h := newHandlers(t)
	router := h.router()
	placeOrder(t, router)
	token := h.login(t, "admin@bebidaexpress.com", "platform-pass")

	w := do(t, router, httptest.NewRequest(http.MethodGet, "/api/platform/summary", nil), token)
	require.Equal(t, http.StatusOK, w.Code)

	var summary insight.PlatformSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 1, summary.TotalOrders)
	assert.Equal(t, 2, summary.Stores)
	assert.Equal(t, 1, summary.OnlineStores)
	assert.True(t, decimal.RequireFromString("15").Equal(summary.TotalRevenue))
	assert.True(t, decimal.RequireFromString("0.75").Equal(summary.TotalCommission))

	score := 101
	w = do(t, router, jsonRequest(t, http.MethodPut, "/api/platform/stores/store_2/reputation", ReputationRequest{Reputation: &score}), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	score = 70
	w = do(t, router, jsonRequest(t, http.MethodPut, "/api/platform/stores/store_2/reputation", ReputationRequest{Reputation: &score}), token)
	require.Equal(t, http.StatusOK, w.Code)

	var store domain.Store
	require.NoError(t, json.NewDecoder(w.Body).Decode(&store))
	assert.Equal(t, 70, store.Reputation)
}

func TestAdmin_StreamLogsUnsupportedWriteDeadline(t *testing.T) {
	h := newHandlers(t)
	core, logs := observer.New(zapcore.DebugLevel)
	h.admin.logger = zap.New(core)
	token := h.login(t, "adega@admin.com", seed.DemoPassword)

	// The client is already gone, so the stream opens and closes at once
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders/stream", nil).WithContext(ctx)
	w := do(t, h.router(), req, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	entries := logs.FilterMessage("Order stream keeps the server write deadline").All()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Context, 1)
	err, ok := entries[0].Context[0].Interface.(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, http.ErrNotSupported)
}
