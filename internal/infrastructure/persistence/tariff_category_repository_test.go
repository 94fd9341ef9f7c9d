package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

func TestGormTariffCategoryRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTariffCategoryRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Rumah Tangga", 25000)

	found, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rumah Tangga", found.Name)
	assert.True(t, found.MonthlyPrice.Equal(decimal.NewFromInt(25000)))
}

func TestGormTariffCategoryRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTariffCategoryRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTariffCategoryRepository_UpdatePrice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTariffCategoryRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Rumah Tangga", 25000)

	require.NoError(t, category.UpdatePrice(valueobject.NewMoneyIDRFromInt(30000)))
	require.NoError(t, repo.Save(ctx, category))

	found, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.True(t, found.MonthlyPrice.Equal(decimal.NewFromInt(30000)))
}

func TestGormTariffCategoryRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTariffCategoryRepository(db)
	ctx := context.Background()

	seedCategory(t, db, "Rumah Tangga", 25000)
	seedCategory(t, db, "Niaga Kecil", 50000)
	seedCategory(t, db, "Niaga Besar", 100000)

	t.Run("orders by name by default", func(t *testing.T) {
		categories, err := repo.FindAll(ctx, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "Niaga Besar", categories[0].Name)
		assert.Equal(t, "Niaga Kecil", categories[1].Name)
		assert.Equal(t, "Rumah Tangga", categories[2].Name)
	})

	t.Run("search by name", func(t *testing.T) {
		categories, err := repo.FindAll(ctx, shared.Filter{Search: "Niaga"})
		require.NoError(t, err)
		assert.Len(t, categories, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		page1, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		page2, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, page2, 1)
	})

	t.Run("count", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = repo.Count(ctx, shared.Filter{Search: "Rumah"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormTariffCategoryRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTariffCategoryRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Rumah Tangga", 25000)

	require.NoError(t, repo.Delete(ctx, category.ID))

	_, err := repo.FindByID(ctx, category.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, category.ID), shared.ErrNotFound)
}
