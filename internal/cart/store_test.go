package cart

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/catalog"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

const testSession = "11111111-1111-1111-1111-111111111111"

func newTestStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Product{}, &models.CartLine{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	require.NoError(t, catalog.Seed(db))

	return &Store{DB: db, Catalog: &catalog.Catalog{DB: db}}
}

func TestAddMergesSameProductAndSize(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, testSession, 1, "M", 1)
	require.NoError(t, err)
	line, err := s.Add(ctx, testSession, 1, "M", 2)
	require.NoError(t, err)
	require.Equal(t, uint(3), line.Quantity)

	lines, err := s.Lines(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, uint(3), lines[0].Quantity)
}

func TestAddKeepsSizesAsSeparateLines(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, testSession, 1, "M", 1)
	require.NoError(t, err)
	_, err = s.Add(ctx, testSession, 1, "XXL", 2)
	require.NoError(t, err)

	lines, err := s.Lines(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// 14.00 + 2 * 16.00 = 46.00
	total, err := s.TotalCents(ctx, testSession)
	require.NoError(t, err)
	require.Equal(t, int64(4600), total)
}

func TestAddRequiresSize(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, testSession, 1, "", 1)
	require.ErrorIs(t, err, ErrValidation)

	lines, err := s.Lines(ctx, testSession)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestAddRejectsUnknownSize(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add(context.Background(), testSession, 1, "XXXL", 1)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAddRejectsUnknownProduct(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add(context.Background(), testSession, 99, "M", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	s := newTestStore(t)

	line, err := s.Add(context.Background(), testSession, 2, "L", 0)
	require.NoError(t, err)
	require.Equal(t, uint(1), line.Quantity)
	require.Equal(t, int64(2100), line.UnitPriceCents)
}

func TestAddFreezesUnitPriceBySize(t *testing.T) {
	s := newTestStore(t)

	line, err := s.Add(context.Background(), testSession, 3, "XXL", 1)
	require.NoError(t, err)
	require.Equal(t, int64(2000), line.UnitPriceCents)
	require.Equal(t, "DM132 Long Sleeve Tee", line.Name)
}

func TestUpdateQuantityIncrements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, testSession, 1, "M", 1)
	require.NoError(t, err)

	line, removed, err := s.UpdateQuantity(ctx, testSession, 1, "M", 2)
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, uint(3), line.Quantity)
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, testSession, 1, "M", 1)
	require.NoError(t, err)

	line, removed, err := s.UpdateQuantity(ctx, testSession, 1, "M", -1)
	require.NoError(t, err)
	require.True(t, removed)
	require.Nil(t, line)

	lines, err := s.Lines(ctx, testSession)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestUpdateQuantityBelowZeroRemovesLine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, testSession, 1, "M", 2)
	require.NoError(t, err)

	_, removed, err := s.UpdateQuantity(ctx, testSession, 1, "M", -5)
	require.NoError(t, err)
	require.True(t, removed)

	total, err := s.TotalCents(ctx, testSession)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.UpdateQuantity(context.Background(), testSession, 1, "M", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveExcludesLineFromTotal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, testSession, 1, "M", 1)
	require.NoError(t, err)
	_, err = s.Add(ctx, testSession, 2, "L", 1)
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, testSession, 2, "L"))

	total, err := s.TotalCents(ctx, testSession)
	require.NoError(t, err)
	require.Equal(t, int64(1400), total)
}

func TestRemoveMissingLine(t *testing.T) {
	s := newTestStore(t)

	err := s.Remove(context.Background(), testSession, 1, "M")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveOnlyTouchesMatchingSize(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, testSession, 1, "M", 1)
	require.NoError(t, err)
	_, err = s.Add(ctx, testSession, 1, "XXL", 1)
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, testSession, 1, "M"))

	lines, err := s.Lines(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "XXL", lines[0].Size)
}

func TestClearEmptiesCart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, testSession, 1, "M", 3)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, testSession))
	require.NoError(t, s.Clear(ctx, testSession))

	lines, err := s.Lines(ctx, testSession)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	other := "22222222-2222-2222-2222-222222222222"

	_, err := s.Add(ctx, testSession, 1, "M", 1)
	require.NoError(t, err)
	_, err = s.Add(ctx, other, 2, "L", 1)
	require.NoError(t, err)

	lines, err := s.Lines(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 1, lines[0].ProductID)
}

func TestNotifyFiresOnMutations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var got []string
	s.Notify = func(_ context.Context, event, sessionID string) {
		require.Equal(t, testSession, sessionID)
		got = append(got, event)
	}

	_, err := s.Add(ctx, testSession, 1, "M", 1)
	require.NoError(t, err)
	_, _, err = s.UpdateQuantity(ctx, testSession, 1, "M", 1)
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, testSession, 1, "M"))
	require.NoError(t, s.Clear(ctx, testSession))

	require.Equal(t, []string{"cart_line_added", "cart_line_updated", "cart_line_removed", "cart_cleared"}, got)
}
