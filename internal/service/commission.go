package service

import (
	"bebida-express/internal/config"
	"bebida-express/internal/domain"

	"github.com/shopspring/decimal"
)

// CommissionPolicy picks the commission rate applied to an order of store
type CommissionPolicy func(store *domain.Store) decimal.Decimal

// PlatformCommission applies the same rate to every store
func PlatformCommission(rate decimal.Decimal) CommissionPolicy {
	return func(*domain.Store) decimal.Decimal {
		return rate
	}
}

// StoreCommission applies each store's own rate, or fallback when the store
// has none configured.
func StoreCommission(fallback decimal.Decimal) CommissionPolicy {
	return func(store *domain.Store) decimal.Decimal {
		if store.CommissionRate.IsZero() {
			return fallback
		}
		return store.CommissionRate
	}
}

// CommissionFromConfig builds the policy selected by cfg
func CommissionFromConfig(cfg config.CommissionConfig) CommissionPolicy {
	rate := decimal.NewFromFloat(cfg.PlatformRate)
	if cfg.Source == config.CommissionSourceStore {
		return StoreCommission(rate)
	}
	return PlatformCommission(rate)
}
