// Package events carries order lifecycle notifications to in-process
// subscribers and to the message broker.
package events

import (
	"context"
	"errors"
	"time"

	"bebida-express/internal/domain"

	"github.com/shopspring/decimal"
)

// Event types
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the wire and in-process representation of an order change
type OrderEvent struct {
	Type          string               `json:"type"`
	OrderID       string               `json:"order_id"`
	StoreID       string               `json:"store_id"`
	UserID        string               `json:"user_id"`
	Status        domain.OrderStatus   `json:"status"`
	Total         decimal.Decimal      `json:"total"`
	Commission    decimal.Decimal      `json:"commission"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	CustomerLabel domain.CustomerLabel `json:"customer_label,omitempty"`
	PriorityScore int                  `json:"priority_score,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewOrderEvent snapshots order as an event of eventType
func NewOrderEvent(eventType string, order *domain.Order) OrderEvent {
	event := OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		StoreID:       order.StoreID,
		UserID:        order.UserID,
		Status:        order.Status,
		Total:         order.Total,
		Commission:    order.Commission,
		PaymentMethod: order.PaymentMethod,
		OccurredAt:    order.UpdatedAt,
	}
	if order.Insights != nil {
		event.CustomerLabel = order.Insights.CustomerLabel
		event.PriorityScore = order.Insights.PriorityScore
	}
	return event
}

// Publisher delivers order events
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

type fanout []Publisher

// Fanout publishes every event to each of publishers in turn. All of them
// are attempted; their errors are joined.
func Fanout(publishers ...Publisher) Publisher {
	return fanout(publishers)
}

func (f fanout) Publish(ctx context.Context, event OrderEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) error { return nil }
