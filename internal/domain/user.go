package domain

import "time"

// Customer is a storefront user placing orders
type Customer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	Preferences []Category `json:"preferences"`
}

// Merchant is the account principal that owns and manages one store
type Merchant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	StoreID      string    `json:"store_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Roles carried in merchant access tokens
const (
	RoleMerchant = "merchant"
	RolePlatform = "platform"
)

// Session is the acting principal for a service call. It replaces any
// process-wide "current store" state and must be passed explicitly.
type Session struct {
	MerchantID    string
	StoreID       string
	PlatformAdmin bool
}

// CanManageStore reports whether the session may act on storeID
func (s Session) CanManageStore(storeID string) bool {
	return s.PlatformAdmin || (s.StoreID != "" && s.StoreID == storeID)
}
