package insight

import (
	"reflect"
	"testing"
	"time"

	"bebida-express/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStoreInsights_Empty(t *testing.T) {
	got := ComputeStoreInsights(nil, nil)

	assert.Equal(t, 100, got.AcceptanceRate)
	assert.Empty(t, got.StockAlerts)
	assert.NotNil(t, got.StockAlerts)
	assert.Equal(t, "", got.PriceSuggestion)
	assert.True(t, got.Revenue.IsZero())
}

func TestComputeStoreInsights_AlertsAndTopSeller(t *testing.T) {
	products := []domain.Product{
		{Name: "Gelo 5kg", Stock: 19, SalesCount: 50},
		{Name: "Skol", Stock: 200, SalesCount: 300},
		{Name: "Heineken", Stock: 20, SalesCount: 300},
		{Name: "Vodka", Stock: 0, SalesCount: 12},
	}

	got := ComputeStoreInsights(products, nil)

	assert.Equal(t, []string{"low stock: Gelo 5kg (19 units)", "low stock: Vodka (0 units)"}, got.StockAlerts)
	assert.Equal(t, "high demand for Skol; consider a 5% price increase.", got.PriceSuggestion)
}

func TestComputeStoreInsights_AcceptanceRateAndRevenue(t *testing.T) {
	orders := []domain.Order{
		{Status: domain.OrderStatusPending, Total: decimal.NewFromInt(10)},
		{Status: domain.OrderStatusDelivered, Total: decimal.NewFromInt(20)},
		{Status: domain.OrderStatusDeclined, Total: decimal.NewFromInt(40)},
	}

	got := ComputeStoreInsights(nil, orders)

	assert.Equal(t, 67, got.AcceptanceRate)
	assert.True(t, decimal.NewFromInt(30).Equal(got.Revenue))
}

func TestProperty_AcceptanceRateBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("acceptance rate stays within 0..100", prop.ForAll(
		func(statuses []string) bool {
			orders := make([]domain.Order, len(statuses))
			for i, s := range statuses {
				orders[i] = domain.Order{Status: domain.OrderStatus(s)}
			}
			rate := ComputeStoreInsights(nil, orders).AcceptanceRate
			return rate >= 0 && rate <= 100
		},
		gen.SliceOf(gen.OneConstOf("pending", "in_route", "delivered", "declined", "cancelled"), reflect.TypeOf("")),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestComputeDashboardStats(t *testing.T) {
	products := []domain.Product{
		{Stock: 5, IsPromo: true},
		{Stock: 10},
		{Stock: 9},
	}
	orders := []domain.Order{
		{Total: decimal.RequireFromString("7.50")},
		{Total: decimal.RequireFromString("2.50")},
	}

	got := ComputeDashboardStats(products, orders)

	assert.True(t, decimal.NewFromInt(10).Equal(got.TotalSales))
	assert.Equal(t, 2, got.TotalOrders)
	assert.Equal(t, 1, got.ActivePromos)
	assert.Equal(t, 2, got.LowStock)
}

func TestComputePlatformSummary(t *testing.T) {
	stores := []domain.Store{{ID: "a", IsOnline: true}, {ID: "b"}}
	orders := []domain.Order{
		{Total: decimal.NewFromInt(100), Commission: decimal.NewFromInt(5)},
		{Total: decimal.NewFromInt(40), Commission: decimal.NewFromInt(2)},
	}

	got := ComputePlatformSummary(stores, orders)

	assert.True(t, decimal.NewFromInt(140).Equal(got.TotalRevenue))
	assert.True(t, decimal.NewFromInt(7).Equal(got.TotalCommission))
	assert.Equal(t, 2, got.TotalOrders)
	assert.Equal(t, 2, got.Stores)
	assert.Equal(t, 1, got.OnlineStores)
}

func TestRecommendations(t *testing.T) {
	products := []domain.Product{
		{ID: "a", SalesCount: 1},
		{ID: "b", SalesCount: 9},
		{ID: "c", SalesCount: 5},
		{ID: "d", SalesCount: 9},
		{ID: "e", SalesCount: 3},
	}

	got := Recommendations(products, 0)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"b", "d", "c", "e"}, []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
	assert.Equal(t, "a", products[0].ID, "input must not be reordered")
}

func TestCombos(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Category: domain.CategoryCombo},
		{ID: "b", Category: domain.CategoryBeer},
	}

	got := Combos(products)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestGreeting(t *testing.T) {
	at := func(hour int) time.Time { return time.Date(2026, 1, 1, hour, 0, 0, 0, time.UTC) }

	assert.Contains(t, Greeting("Ana", at(7)), "Good morning, Ana")
	assert.Contains(t, Greeting("Ana", at(13)), "Good afternoon, Ana")
	assert.Contains(t, Greeting("Ana", at(22)), "Hey Ana")
	assert.Contains(t, Greeting("Ana", at(3)), "Hey Ana")
}
