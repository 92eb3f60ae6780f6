package domain

import "github.com/shopspring/decimal"

// DefaultCommissionRate is the platform fee applied to every order
var DefaultCommissionRate = decimal.NewFromFloat(0.05)

// DefaultStoreReputation is the score a freshly registered store starts with
const DefaultStoreReputation = 100

// Store is a merchant-operated catalog and order scope
type Store struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Image          string          `json:"image,omitempty"`
	WhatsApp       string          `json:"whatsapp"`
	Address        string          `json:"address"`
	OwnerID        string          `json:"owner_id"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsOnline       bool            `json:"is_online"`
	// Reputation is advisory and only changes through an explicit setter.
	Reputation int `json:"reputation"`
}
