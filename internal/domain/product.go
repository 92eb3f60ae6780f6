package domain

import (
	"github.com/shopspring/decimal"
)

// Category is the catalog tag used by the heuristics and the storefront filters
type Category string

const (
	CategoryBeer      Category = "beer"
	CategoryWine      Category = "wine"
	CategorySpirits   Category = "spirits"
	CategoryEnergy    Category = "energy"
	CategoryIce       Category = "ice"
	CategoryCombo     Category = "combo"
	CategoryChocolate Category = "chocolate"
	CategorySnacks    Category = "snacks"
	CategoryOlives    Category = "olives"
	CategoryCharcoal  Category = "charcoal"
	CategoryOther     Category = "other"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryBeer,
	CategoryWine,
	CategorySpirits,
	CategoryEnergy,
	CategoryIce,
	CategoryCombo,
	CategoryChocolate,
	CategorySnacks,
	CategoryOlives,
	CategoryCharcoal,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a product in a store catalog
type Product struct {
	ID          string           `json:"id"`
	StoreID     string           `json:"store_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Image       string           `json:"image,omitempty"`
	Category    Category         `json:"category"`
	Stock       int              `json:"stock"`
	SalesCount  int              `json:"sales_count"`
	IsPromo     bool             `json:"is_promo,omitempty"`
	OldPrice    *decimal.Decimal `json:"old_price,omitempty"`
}

// ApplySale removes quantity units from stock, never going below zero,
// and records them as sold.
func (p *Product) ApplySale(quantity int) {
	p.Stock -= quantity
	if p.Stock < 0 {
		p.Stock = 0
	}
	p.SalesCount += quantity
}
