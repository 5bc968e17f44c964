// Package cart holds the per-session cart store. A line is identified by
// (productID, size); adding the same pair again merges by incrementing the
// quantity, never by appending a duplicate line.
package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/catalog"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

type Store struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog

	// Notify fires after every successful mutation so the view layer can
	// refresh its cart badge, line list and total. Optional.
	Notify func(ctx context.Context, event, sessionID string)
}

func (s *Store) notify(ctx context.Context, event, sessionID string) {
	if s.Notify != nil {
		s.Notify(ctx, event, sessionID)
	}
}

// Add puts quantity units of (productID, size) into the session's cart,
// merging into an existing line when one exists. The unit price is resolved
// from the catalog at add time and frozen on the line.
func (s *Store) Add(ctx context.Context, sessionID string, productID int, size string, quantity uint) (*models.CartLine, error) {
	if size == "" {
		return nil, fmt.Errorf("%w: no size selected", ErrValidation)
	}
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.Catalog.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}
	if !catalog.HasSize(product, size) {
		return nil, fmt.Errorf("%w: size %q not available for %s", ErrValidation, size, product.Name)
	}

	line := models.CartLine{
		SessionID:      sessionID,
		ProductID:      productID,
		Size:           size,
		Name:           product.Name,
		UnitPriceCents: catalog.UnitPriceCents(product, size),
		Quantity:       quantity,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartLine{}).
			Where("session_id = ? AND product_id = ? AND size = ?", sessionID, productID, size).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("session_id = ? AND product_id = ? AND size = ?", sessionID, productID, size).
				First(&line).Error
		}
		return tx.Create(&line).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "cart_line_added", sessionID)
	return &line, nil
}

// UpdateQuantity adjusts a line by delta. Driving the quantity to zero or
// below removes the line instead of persisting a non-positive quantity; the
// returned bool reports whether the line was removed.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID string, productID int, size string, delta int) (*models.CartLine, bool, error) {
	var (
		line    models.CartLine
		removed bool
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ? AND product_id = ? AND size = ?", sessionID, productID, size).
			First(&line).Error; err != nil {
			return err
		}
		newQty := int(line.Quantity) + delta
		if newQty <= 0 {
			removed = true
			return tx.Delete(&line).Error
		}
		line.Quantity = uint(newQty)
		return tx.Model(&line).Update("quantity", newQty).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("%w: cart line", ErrNotFound)
		}
		return nil, false, err
	}

	s.notify(ctx, "cart_line_updated", sessionID)
	if removed {
		return nil, true, nil
	}
	return &line, false, nil
}

// Remove deletes the (productID, size) line outright.
func (s *Store) Remove(ctx context.Context, sessionID string, productID int, size string) error {
	res := s.DB.WithContext(ctx).
		Where("session_id = ? AND product_id = ? AND size = ?", sessionID, productID, size).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: cart line", ErrNotFound)
	}

	s.notify(ctx, "cart_line_removed", sessionID)
	return nil
}

// Lines returns the session's cart in insertion order.
func (s *Store) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at, id").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) TotalCents(ctx context.Context, sessionID string) (int64, error) {
	lines, err := s.Lines(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	var total int64
	for i := range lines {
		total += lines[i].LineTotalCents()
	}
	return total, nil
}

// Clear empties the session's cart. Called after an acknowledged submission;
// clearing an already-empty cart is not an error.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartLine{}).Error; err != nil {
		return err
	}
	s.notify(ctx, "cart_cleared", sessionID)
	return nil
}
