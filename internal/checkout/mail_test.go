package checkout

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:        "order-1",
		CreatedAt: time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		Customer:  validCustomer(),
		Items: []models.OrderItem{
			{ProductID: 1, Name: "DM130 Tri blend Tee", Size: "M", UnitPriceCents: 1400, Quantity: 1, LineTotalCents: 1400},
			{ProductID: 1, Name: "DM130 Tri blend Tee", Size: "XXL", UnitPriceCents: 1600, Quantity: 2, LineTotalCents: 3200},
		},
		TotalCents: 4600,
	}
}

func TestSummaryTemplate(t *testing.T) {
	body := Summary(sampleOrder())

	require.True(t, strings.HasPrefix(body, "NEW ROBOTICS FUNDRAISER ORDER\n"))
	require.Contains(t, body, "Name: Jordan Reyes")
	require.Contains(t, body, "City: Henderson, NV 89044")
	require.Contains(t, body, "- DM130 Tri blend Tee (Size: M) - Qty: 1 - $14.00")
	require.Contains(t, body, "- DM130 Tri blend Tee (Size: XXL) - Qty: 2 - $32.00")
	require.Contains(t, body, "Total: $46.00")
	require.Contains(t, body, "Order Date: 03/14/2026")
	require.Contains(t, body, "arrange payment and pickup")
}

func TestMailtoURIEncoding(t *testing.T) {
	sink := &MailSink{To: "anna.egbert@pinecrestnv.org"}

	receipt, err := sink.Deliver(context.Background(), sampleOrder())
	require.NoError(t, err)

	// Spaces must be %20, not '+': mail clients don't decode form encoding.
	require.NotContains(t, receipt.MailtoURI, "+")
	require.Contains(t, receipt.MailtoURI, "subject=Robotics%20Fundraiser%20Order%20-%20Jordan%20Reyes")

	parts := strings.SplitN(receipt.MailtoURI, "body=", 2)
	require.Len(t, parts, 2)
	body, err := url.QueryUnescape(parts[1])
	require.NoError(t, err)
	require.Equal(t, Summary(sampleOrder()), body)
}
