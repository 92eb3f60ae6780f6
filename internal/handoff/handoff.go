// Package handoff renders the order message a customer sends to the
// merchant and the WhatsApp deep link that carries it.
package handoff

import (
	"fmt"
	"net/url"
	"strings"

	"bebida-express/internal/domain"
)

const (
	deepLinkBase   = "https://wa.me/"
	countryCode    = "55"
	orderRefLength = 6
)

// OrderMessage formats order for the merchant of store on behalf of customer
func OrderMessage(order *domain.Order, store *domain.Store, customer *domain.Customer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*New Order - %s*\n", store.Name)
	b.WriteString("_Via Bebida Express_\n\n")

	if order.Insights != nil {
		b.WriteString("*[Insight]*\n")
		fmt.Fprintf(&b, "*Customer:* %s\n", order.Insights.CustomerLabel)
		fmt.Fprintf(&b, "*Tip:* %s\n", order.Insights.SuggestedAction)
		b.WriteString("--------------------------------\n\n")
	}

	fmt.Fprintf(&b, "*Customer:* %s\n", customer.Name)
	fmt.Fprintf(&b, "*Address:* %s\n\n", customer.Address)
	b.WriteString("*Items:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %dx %s - R$ %s\n", item.Quantity, item.Name, item.LineTotal().StringFixed(2))
	}

	fmt.Fprintf(&b, "\n*Total:* R$ %s", order.Total.StringFixed(2))
	if order.PaymentMethod == domain.PaymentMethodPix {
		b.WriteString("\n*Payment:* Pix (receipt attached)")
	} else {
		b.WriteString("\n*Payment:* to be arranged on delivery")
	}

	fmt.Fprintf(&b, "\n\nOrder #%s", OrderRef(order.ID))
	return b.String()
}

// OrderRef returns the short reference shown to humans: the last six
// characters of id.
func OrderRef(id string) string {
	if len(id) <= orderRefLength {
		return id
	}
	return id[len(id)-orderRefLength:]
}

// DeepLink builds the wa.me link opening a chat with phone prefilled with
// text. Non-digits are stripped from phone and the Brazilian country code
// is added unless the number already carries it.
func DeepLink(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if !(strings.HasPrefix(digits, countryCode) && len(digits) >= 12) {
		digits = countryCode + digits
	}

	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return deepLinkBase + digits + "?text=" + escaped
}
