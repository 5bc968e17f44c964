// Package orderlog is the append-only record of submitted orders backing the
// admin view. Orders are never updated or evicted; unbounded growth is an
// accepted limitation of the fundraiser's scale.
package orderlog

import (
	"context"

	"gorm.io/gorm"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

type Stats struct {
	Count        int64 `json:"count"`
	RevenueCents int64 `json:"revenue_cents"`
}

type Log struct {
	DB *gorm.DB
}

// Record appends an order. RecordIn exists so checkout can append inside the
// same transaction that clears the cart.
func (l *Log) Record(ctx context.Context, order *models.Order) error {
	return RecordIn(l.DB.WithContext(ctx), order)
}

func RecordIn(tx *gorm.DB, order *models.Order) error {
	return tx.Create(order).Error
}

func (l *Log) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := l.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_cents), 0) AS revenue_cents").
		Scan(&s).Error
	if err != nil {
		return Stats{}, err
	}
	return s, nil
}

// Recent returns the last n orders, most recent first, with their items.
func (l *Log) Recent(ctx context.Context, n int) ([]models.Order, error) {
	if n <= 0 {
		n = 5
	}
	var orders []models.Order
	err := l.DB.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(n).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
