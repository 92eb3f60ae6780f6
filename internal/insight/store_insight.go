package insight

import (
	"fmt"
	"math"
	"sort"
	"time"

	"bebida-express/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	stockAlertThreshold     = 20
	dashboardLowStockBefore = 10
	defaultRecommendations  = 4
)

// StoreInsights is the admin dashboard's heuristic panel
type StoreInsights struct {
	StockAlerts     []string        `json:"stock_alerts"`
	PriceSuggestion string          `json:"price_suggestion"`
	AcceptanceRate  int             `json:"acceptance_rate"`
	Revenue         decimal.Decimal `json:"revenue"`
}

// ComputeStoreInsights aggregates the catalog and order set of one store,
// or of every store when called with unscoped data.
func ComputeStoreInsights(products []domain.Product, orders []domain.Order) StoreInsights {
	insights := StoreInsights{
		StockAlerts: []string{},
		Revenue:     decimal.Zero,
	}

	var top *domain.Product
	for i := range products {
		p := &products[i]
		if p.Stock < stockAlertThreshold {
			insights.StockAlerts = append(insights.StockAlerts, fmt.Sprintf("low stock: %s (%d units)", p.Name, p.Stock))
		}
		// Strictly greater keeps the first product on ties.
		if top == nil || p.SalesCount > top.SalesCount {
			top = p
		}
	}
	if top != nil {
		insights.PriceSuggestion = fmt.Sprintf("high demand for %s; consider a 5%% price increase.", top.Name)
	}

	accepted := 0
	for _, o := range orders {
		if o.Status.Accepted() {
			accepted++
			insights.Revenue = insights.Revenue.Add(o.Total)
		}
	}

	insights.AcceptanceRate = 100
	if len(orders) > 0 {
		insights.AcceptanceRate = int(math.Round(float64(accepted) / float64(len(orders)) * 100))
	}

	return insights
}

// DashboardStats are the merchant dashboard counters
type DashboardStats struct {
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalOrders  int             `json:"total_orders"`
	ActivePromos int             `json:"active_promos"`
	LowStock     int             `json:"low_stock"`
}

// ComputeDashboardStats sums every order and counts promos and products under ten units
func ComputeDashboardStats(products []domain.Product, orders []domain.Order) DashboardStats {
	stats := DashboardStats{TotalSales: decimal.Zero, TotalOrders: len(orders)}
	for _, o := range orders {
		stats.TotalSales = stats.TotalSales.Add(o.Total)
	}
	for _, p := range products {
		if p.IsPromo {
			stats.ActivePromos++
		}
		if p.Stock < dashboardLowStockBefore {
			stats.LowStock++
		}
	}
	return stats
}

// PlatformSummary aggregates every store for the platform operator
type PlatformSummary struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalOrders     int             `json:"total_orders"`
	Stores          int             `json:"stores"`
	OnlineStores    int             `json:"online_stores"`
}

// ComputePlatformSummary totals revenue and commission over all orders and counts online stores
func ComputePlatformSummary(stores []domain.Store, orders []domain.Order) PlatformSummary {
	summary := PlatformSummary{
		TotalRevenue:    decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalOrders:     len(orders),
		Stores:          len(stores),
	}
	for _, o := range orders {
		summary.TotalRevenue = summary.TotalRevenue.Add(o.Total)
		summary.TotalCommission = summary.TotalCommission.Add(o.Commission)
	}
	for _, s := range stores {
		if s.IsOnline {
			summary.OnlineStores++
		}
	}
	return summary
}

// Recommendations returns up to limit products with the highest sales
// count. The input slice is not modified.
func Recommendations(products []domain.Product, limit int) []domain.Product {
	if limit <= 0 {
		limit = defaultRecommendations
	}

	ranked := append([]domain.Product(nil), products...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SalesCount > ranked[j].SalesCount
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Combos returns the combo products in catalog order
func Combos(products []domain.Product) []domain.Product {
	combos := []domain.Product{}
	for _, p := range products {
		if p.Category == domain.CategoryCombo {
			combos = append(combos, p)
		}
	}
	return combos
}

// Greeting picks a salutation for the local hour of now
func Greeting(name string, now time.Time) string {
	switch hour := now.Hour(); {
	case hour >= 5 && hour < 12:
		return fmt.Sprintf("Good morning, %s! Time to stock up?", name)
	case hour >= 12 && hour < 18:
		return fmt.Sprintf("Good afternoon, %s! How about something cold?", name)
	default:
		return fmt.Sprintf("Hey %s, ready for another cold one?", name)
	}
}
