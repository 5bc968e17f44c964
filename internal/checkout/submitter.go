// Package checkout turns the current cart plus customer details into an
// immutable order snapshot and delivers it through the configured sink.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/cart"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/orderlog"
)

var (
	ErrValidation = errors.New("validation")
	ErrEmptyCart  = errors.New("cart is empty")
	ErrInFlight   = errors.New("submission already in progress")
)

// Receipt is the explicit outcome of a delivery attempt. Acknowledged means
// only that the sink call completed without a transport error; for the HTTP
// sink the remote response is not inspected, so this is deliberately NOT a
// claim that the server accepted the order. For the mail sink delivery is
// deferred to the user's mail client entirely, so Acknowledged stays false
// and the caller is handed the mailto URI to open.
type Receipt struct {
	OrderID      string `json:"order_id"`
	Sink         string `json:"sink"`
	Acknowledged bool   `json:"acknowledged"`
	MailtoURI    string `json:"mailto_uri,omitempty"`
	TotalCents   int64  `json:"total_cents"`
}

type Sink interface {
	Deliver(ctx context.Context, order *models.Order) (*Receipt, error)
}

type Submitter struct {
	DB   *gorm.DB
	Cart *cart.Store
	Sink Sink

	mu       sync.Mutex
	inflight map[string]struct{}
}

func (s *Submitter) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		s.inflight = make(map[string]struct{})
	}
	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *Submitter) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}

// Submit runs the whole checkout: guard, snapshot, deliver, record, clear.
// On any failure the cart and order log are left exactly as they were and
// the user may retry; there is no automatic retry.
func (s *Submitter) Submit(ctx context.Context, sessionID string, customer models.Customer) (*Receipt, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	// One submission per session at a time. This is the server-side twin of
	// disabling the submit button while a request is in flight.
	if !s.begin(sessionID) {
		return nil, ErrInFlight
	}
	defer s.end(sessionID)

	lines, err := s.Cart.Lines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := snapshot(lines, customer)

	receipt, err := s.Sink.Deliver(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("deliver order: %w", err)
	}

	// Append to the order log and clear the cart in one transaction so a
	// recorded order always implies an emptied cart.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := orderlog.RecordIn(tx, order); err != nil {
			return err
		}
		return tx.Where("session_id = ?", sessionID).Delete(&models.CartLine{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}
	if s.Cart.Notify != nil {
		s.Cart.Notify(ctx, "cart_cleared", sessionID)
	}

	receipt.OrderID = order.ID
	receipt.TotalCents = order.TotalCents
	return receipt, nil
}

// snapshot copies the cart into an order that stays immutable afterwards.
func snapshot(lines []models.CartLine, customer models.Customer) *models.Order {
	order := &models.Order{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Customer:  customer,
		Items:     make([]models.OrderItem, 0, len(lines)),
	}
	for i := range lines {
		l := &lines[i]
		order.Items = append(order.Items, models.OrderItem{
			OrderID:        order.ID,
			ProductID:      l.ProductID,
			Name:           l.Name,
			Size:           l.Size,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       l.Quantity,
			LineTotalCents: l.LineTotalCents(),
		})
		order.TotalCents += l.LineTotalCents()
	}
	return order
}

func validateCustomer(c models.Customer) error {
	required := []struct {
		name  string
		value string
	}{
		{"first_name", c.FirstName},
		{"last_name", c.LastName},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
		{"state", c.State},
		{"zip_code", c.ZipCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, f.name)
		}
	}
	return nil
}
