package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func TestSeedIsIdempotent(t *testing.T) {
	db := InitTestDB(t)

	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.Equal(t, int64(3), count)
}

func TestListReturnsLineupInOrder(t *testing.T) {
	db := InitTestDB(t)
	require.NoError(t, Seed(db))

	cat := &Catalog{DB: db}
	products, err := cat.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	require.Equal(t, "DM130 Tri blend Tee", products[0].Name)
	require.Equal(t, "DT6104 Crewneck Fleece", products[1].Name)
	require.Equal(t, "DM132 Long Sleeve Tee", products[2].Name)
}

func TestGetUnknownProduct(t *testing.T) {
	db := InitTestDB(t)
	require.NoError(t, Seed(db))

	cat := &Catalog{DB: db}
	_, err := cat.Get(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUnitPriceCents(t *testing.T) {
	db := InitTestDB(t)
	require.NoError(t, Seed(db))

	cat := &Catalog{DB: db}
	tee, err := cat.Get(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, int64(1400), UnitPriceCents(tee, "M"))
	require.Equal(t, int64(1400), UnitPriceCents(tee, "XS"))
	require.Equal(t, int64(1600), UnitPriceCents(tee, "XXL"))
}

func TestHasSize(t *testing.T) {
	db := InitTestDB(t)
	require.NoError(t, Seed(db))

	cat := &Catalog{DB: db}
	tee, err := cat.Get(context.Background(), 1)
	require.NoError(t, err)

	require.True(t, HasSize(tee, "M"))
	require.True(t, HasSize(tee, "XXL"))
	require.False(t, HasSize(tee, "XXXL"))
	require.False(t, HasSize(tee, ""))
}
