// Package insight holds the deterministic heuristics the storefront calls
// "AI": customer labeling at order time and store-level aggregates.
package insight

import (
	"time"

	"bebida-express/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	churnAfter = 30 * 24 * time.Hour

	vipSpendThreshold = 500
	vipOrderThreshold = 10
	recurringOrders   = 2
)

// Suggested actions, also embedded in the merchant's order message
const (
	ActionWelcomeGift = "offer a welcome gift or first-purchase coupon."
	ActionVIP         = "VIP customer, prioritize delivery."
	ActionLoyal       = "thank the loyal customer."
	ActionDefault     = "verify address and welcome."
	ActionReturning   = "returning after inactivity, handle warmly."

	SuggestIce    = " (suggest ice at confirmation)"
	SuggestSnacks = " (suggest snacks)"
)

// ComputeInsight labels the customer placing order from their history.
// history is newest-first and may span every store; orders by other users
// and the candidate order itself are ignored. now anchors the churn check.
func ComputeInsight(order *domain.Order, customer *domain.Customer, history []domain.Order, now time.Time) domain.OrderInsight {
	var prior []domain.Order
	for _, o := range history {
		if o.UserID == customer.ID && o.ID != order.ID {
			prior = append(prior, o)
		}
	}

	orderCount := len(prior)
	totalSpent := decimal.Zero
	for _, o := range prior {
		totalSpent = totalSpent.Add(o.Total)
	}

	result := domain.OrderInsight{
		CustomerLabel:   domain.CustomerLabelNew,
		SuggestedAction: ActionDefault,
		PriorityScore:   5,
	}

	switch {
	case orderCount == 0:
		result.PriorityScore = 8
		result.SuggestedAction = ActionWelcomeGift
	case totalSpent.GreaterThan(decimal.NewFromInt(vipSpendThreshold)) || orderCount > vipOrderThreshold:
		result.CustomerLabel = domain.CustomerLabelVIP
		result.PriorityScore = 10
		result.SuggestedAction = ActionVIP
	case orderCount > recurringOrders:
		result.CustomerLabel = domain.CustomerLabelRecurring
		result.PriorityScore = 6
		result.SuggestedAction = ActionLoyal
	}

	// Priority is not clamped: VIP plus churn yields 11.
	if orderCount > 0 && now.Sub(prior[0].CreatedAt) > churnAfter {
		result.ChurnRisk = true
		result.CustomerLabel = domain.CustomerLabelAbsent
		result.SuggestedAction = ActionReturning
		result.PriorityScore++
	}

	hasBeer := order.HasCategory(domain.CategoryBeer)
	switch {
	case hasBeer && !order.HasCategory(domain.CategoryIce):
		result.SuggestedAction += SuggestIce
	case hasBeer && !order.HasCategory(domain.CategorySnacks):
		result.SuggestedAction += SuggestSnacks
	}

	return result
}
