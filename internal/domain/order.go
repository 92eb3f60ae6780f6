package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInRoute   OrderStatus = "in_route"
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled is part of the enumeration but no transition reaches it.
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusDeclined  OrderStatus = "declined"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusInRoute, OrderStatusDeclined},
	OrderStatusInRoute: {OrderStatusDelivered},
}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInRoute, OrderStatusDelivered, OrderStatusCancelled, OrderStatusDeclined:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows moving from s to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Accepted reports whether the order counts toward acceptance and revenue
func (s OrderStatus) Accepted() bool {
	return s != OrderStatusDeclined && s != OrderStatusCancelled
}

// PaymentMethod is how the customer intends to pay
type PaymentMethod string

const (
	// PaymentMethodWhatsApp means payment is arranged with the merchant on delivery.
	PaymentMethodWhatsApp PaymentMethod = "whatsapp"
	PaymentMethodPix      PaymentMethod = "pix"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodWhatsApp || m == PaymentMethodPix
}

// CustomerLabel classifies a customer from their order history
type CustomerLabel string

const (
	CustomerLabelNew       CustomerLabel = "Novo"
	CustomerLabelRecurring CustomerLabel = "Recorrente"
	CustomerLabelVIP       CustomerLabel = "VIP"
	CustomerLabelAbsent    CustomerLabel = "Ausente"
)

// OrderInsight is computed once at order creation and never changed afterwards
type OrderInsight struct {
	CustomerLabel   CustomerLabel `json:"customer_label"`
	ChurnRisk       bool          `json:"churn_risk"`
	SuggestedAction string        `json:"suggested_action"`
	PriorityScore   int           `json:"priority_score"`
}

// OrderItem is a product snapshot taken when the order was placed
type OrderItem struct {
	ProductID string          `json:"product_id"`
	StoreID   string          `json:"store_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  Category        `json:"category"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer order placed against a single store
type Order struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	UserID        string          `json:"user_id"`
	UserName      string          `json:"user_name"`
	Items         []OrderItem     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Commission    decimal.Decimal `json:"commission"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Insights      *OrderInsight   `json:"insights,omitempty"`
}

// ItemsTotal sums the line totals of items
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// HasCategory reports whether any item belongs to category c
func (o *Order) HasCategory(c Category) bool {
	for _, item := range o.Items {
		if item.Category == c {
			return true
		}
	}
	return false
}
