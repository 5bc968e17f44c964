package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

// MailSink renders the order as a plain-text summary wrapped in a mailto URI.
// Opening the URI and actually sending the mail is entirely up to the user's
// mail client, so the sink can never acknowledge delivery.
type MailSink struct {
	To string
}

func (m *MailSink) Deliver(_ context.Context, order *models.Order) (*Receipt, error) {
	subject := fmt.Sprintf("Robotics Fundraiser Order - %s %s",
		order.Customer.FirstName, order.Customer.LastName)

	uri := fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		m.To, encodeComponent(subject), encodeComponent(Summary(order)))

	return &Receipt{
		Sink:      "mail",
		MailtoURI: uri,
	}, nil
}

// Summary is the fixed plain-text order template: customer block, itemized
// lines, total, date.
func Summary(order *models.Order) string {
	c := order.Customer

	var b strings.Builder
	b.WriteString("NEW ROBOTICS FUNDRAISER ORDER\n\n")
	b.WriteString("Customer Information:\n")
	fmt.Fprintf(&b, "Name: %s %s\n", c.FirstName, c.LastName)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	fmt.Fprintf(&b, "Address: %s\n", c.Address)
	fmt.Fprintf(&b, "City: %s, %s %s\n\n", c.City, c.State, c.ZipCode)

	b.WriteString("Order Details:\n")
	for i := range order.Items {
		it := &order.Items[i]
		fmt.Fprintf(&b, "- %s (Size: %s) - Qty: %d - $%s\n",
			it.Name, it.Size, it.Quantity, models.FormatCents(it.LineTotalCents))
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n", models.FormatCents(order.TotalCents))
	fmt.Fprintf(&b, "Order Date: %s\n\n", order.CreatedAt.Format("01/02/2006"))
	b.WriteString("Please contact the customer to arrange payment and pickup.")
	return b.String()
}

// encodeComponent percent-encodes like JS encodeURIComponent; QueryEscape
// alone would turn spaces into '+', which mail clients do not decode.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
