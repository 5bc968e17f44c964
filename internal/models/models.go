package models

import (
	"fmt"
	"strings"
	"time"
)

// FormatCents renders integer cents as a dollar string ("46.00"). Prices are
// stored as cents everywhere; dollar strings exist only at presentation
// boundaries (JSON DTOs, mail bodies).
func FormatCents(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

type Product struct {
	ID             int    `gorm:"primaryKey"  json:"id"`
	Name           string `gorm:"not null"    json:"name"`
	Description    string `gorm:"not null"    json:"description"`
	PriceBaseCents int64  `gorm:"not null"    json:"price_base_cents"`
	PriceXXLCents  int64  `gorm:"not null"    json:"price_xxl_cents"`
	Sizes          string `gorm:"not null"    json:"sizes"`
	ImageRef       string `json:"image_ref"`
}

// SizeList splits the comma-joined size set stored in the sizes column.
func (p *Product) SizeList() []string {
	return strings.Split(p.Sizes, ",")
}

type CartLine struct {
	ID             uint      `gorm:"primaryKey"                                            json:"-"`
	SessionID      string    `gorm:"uniqueIndex:idx_session_product_size;not null;size:36" json:"-"`
	ProductID      int       `gorm:"uniqueIndex:idx_session_product_size;not null"         json:"product_id"`
	Size           string    `gorm:"uniqueIndex:idx_session_product_size;not null"         json:"size"`
	Name           string    `gorm:"not null"                                              json:"name"`
	UnitPriceCents int64     `gorm:"not null"                                              json:"unit_price_cents"`
	Quantity       uint      `gorm:"default:1;check:quantity>0"                            json:"quantity"`
	CreatedAt      time.Time `json:"-"`
}

func (l *CartLine) LineTotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
}

// Order is the immutable snapshot taken at submit time. It is never updated
// after creation; the order log only appends and reads.
type Order struct {
	ID         string      `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt  time.Time   `gorm:"not null;index"     json:"created_at"`
	Customer   Customer    `gorm:"embedded"           json:"customer"`
	TotalCents int64       `gorm:"not null"           json:"total_cents"`
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

type OrderItem struct {
	ID             uint   `gorm:"primaryKey"             json:"-"`
	OrderID        string `gorm:"index;not null;size:36" json:"-"`
	ProductID      int    `gorm:"not null"               json:"product_id"`
	Name           string `gorm:"not null"               json:"name"`
	Size           string `gorm:"not null"               json:"size"`
	UnitPriceCents int64  `gorm:"not null"               json:"unit_price_cents"`
	Quantity       uint   `gorm:"not null"               json:"quantity"`
	LineTotalCents int64  `gorm:"not null"               json:"line_total_cents"`
}
