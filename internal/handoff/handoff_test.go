package handoff

import (
	"net/url"
	"strings"
	"testing"

	"bebida-express/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder(method domain.PaymentMethod, insights *domain.OrderInsight) *domain.Order {
	items := []domain.OrderItem{
		{ProductID: "1", Name: "Heineken 330ml", Price: decimal.RequireFromString("7.50"), Quantity: 3},
		{ProductID: "3", Name: "Gelo 5kg", Price: decimal.RequireFromString("12.00"), Quantity: 1},
	}
	return &domain.Order{
		ID:            "0190f1c2-aaaa-7bbb-8ccc-123456abcdef",
		Items:         items,
		Total:         domain.ItemsTotal(items),
		PaymentMethod: method,
		Insights:      insights,
	}
}

func TestOrderMessage_WithInsightAndPix(t *testing.T) {
	store := &domain.Store{Name: "Adega Central"}
	customer := &domain.Customer{Name: "Ana", Address: "Rua 1"}
	insight := &domain.OrderInsight{CustomerLabel: domain.CustomerLabelVIP, SuggestedAction: "VIP customer, prioritize delivery."}

	msg := OrderMessage(sampleOrder(domain.PaymentMethodPix, insight), store, customer)

	assert.True(t, strings.HasPrefix(msg, "*New Order - Adega Central*\n"))
	assert.Contains(t, msg, "*Customer:* VIP\n")
	assert.Contains(t, msg, "*Tip:* VIP customer, prioritize delivery.\n")
	assert.Contains(t, msg, "*Customer:* Ana\n")
	assert.Contains(t, msg, "*Address:* Rua 1\n")
	assert.Contains(t, msg, "• 3x Heineken 330ml - R$ 22.50\n")
	assert.Contains(t, msg, "• 1x Gelo 5kg - R$ 12.00\n")
	assert.Contains(t, msg, "*Total:* R$ 34.50")
	assert.Contains(t, msg, "Pix (receipt attached)")
	assert.True(t, strings.HasSuffix(msg, "Order #abcdef"))
}

func TestOrderMessage_WithoutInsight(t *testing.T) {
	msg := OrderMessage(sampleOrder(domain.PaymentMethodWhatsApp, nil), &domain.Store{Name: "Zé"}, &domain.Customer{Name: "Bia"})

	assert.NotContains(t, msg, "[Insight]")
	assert.Contains(t, msg, "to be arranged on delivery")
}

func TestOrderRef(t *testing.T) {
	assert.Equal(t, "abcdef", OrderRef("123abcdef"))
	assert.Equal(t, "abc", OrderRef("abc"))
}

func TestDeepLink(t *testing.T) {
	link := DeepLink("(11) 99999-9999", "Hi there & bye")

	assert.Equal(t, "https://wa.me/5511999999999?text=Hi%20there%20%26%20bye", link)
}

func TestDeepLink_KeepsExistingCountryCode(t *testing.T) {
	assert.Equal(t, "https://wa.me/5511988888888?text=oi", DeepLink("+55 11 98888-8888", "oi"))
	assert.Equal(t, "https://wa.me/5555999999999?text=oi", DeepLink("55999999999", "oi"))
}

func TestProperty_DeepLinkRoundTripsText(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("query text decodes back to the message", prop.ForAll(
		func(phone string, text string) bool {
			parsed, err := url.Parse(DeepLink(phone, text))
			if err != nil {
				return false
			}
			return parsed.Query().Get("text") == text
		},
		gen.NumString(),
		gen.AnyString(),
	))

	properties.Property("link path carries only digits", prop.ForAll(
		func(phone string) bool {
			parsed, err := url.Parse(DeepLink(phone, "x"))
			if err != nil {
				return false
			}
			for _, r := range strings.TrimPrefix(parsed.Path, "/") {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDeepLink_EmbedsOrderMessage(t *testing.T) {
	msg := OrderMessage(sampleOrder(domain.PaymentMethodPix, nil), &domain.Store{Name: "A"}, &domain.Customer{Name: "B"})

	parsed, err := url.Parse(DeepLink("5511999999999", msg))
	require.NoError(t, err)
	assert.Equal(t, msg, parsed.Query().Get("text"))
}
