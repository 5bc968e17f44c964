package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

var ErrNotFound = errors.New("product not found")

// seed is the fixed fundraiser lineup. The catalog is read-only at runtime;
// products are inserted once on first startup and never mutated.
var seed = []models.Product{
	{
		ID:             1,
		Name:           "DM130 Tri blend Tee",
		Description:    "Comfortable tri-blend t-shirt featuring the Pinecrest Sloan Canyon Robotics logo. Perfect for showing team spirit!",
		PriceBaseCents: 1400,
		PriceXXLCents:  1600,
		Sizes:          "XS,S,M,L,XL,XXL",
		ImageRef:       "dm130-tee.jpg",
	},
	{
		ID:             2,
		Name:           "DT6104 Crewneck Fleece",
		Description:    "Warm and cozy crewneck fleece with the official Pinecrest Sloan Canyon Robotics team logo.",
		PriceBaseCents: 2100,
		PriceXXLCents:  2300,
		Sizes:          "XS,S,M,L,XL,XXL",
		ImageRef:       "dt6104-crewneck.jpg",
	},
	{
		ID:             3,
		Name:           "DM132 Long Sleeve Tee",
		Description:    "Long sleeve t-shirt with the Pinecrest Sloan Canyon Robotics team logo. Great for cooler weather!",
		PriceBaseCents: 1800,
		PriceXXLCents:  2000,
		Sizes:          "XS,S,M,L,XL,XXL",
		ImageRef:       "dm132-longsleeve.jpg",
	},
}

type Catalog struct {
	DB *gorm.DB
}

// Seed inserts the product lineup when the table is empty. Safe to call on
// every startup.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := db.Create(&seed).Error; err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return nil
}

func (cat *Catalog) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := cat.DB.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (cat *Catalog) Get(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	if err := cat.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UnitPriceCents resolves the per-unit price for a size. XXL carries a
// surcharge; every other size uses the base price.
func UnitPriceCents(p *models.Product, size string) int64 {
	if size == "XXL" {
		return p.PriceXXLCents
	}
	return p.PriceBaseCents
}

func HasSize(p *models.Product, size string) bool {
	for _, s := range p.SizeList() {
		if s == size {
			return true
		}
	}
	return false
}
