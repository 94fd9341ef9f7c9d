package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
)

func TestGormStatusPeriodRepository_FindOpenByCustomer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStatusPeriodRepository(db)
	ctx := context.Background()

	customer := seedCustomer(t, db, "Budi Santoso", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	t.Run("no periods yet", func(t *testing.T) {
		_, err := repo.FindOpenByCustomer(ctx, customer.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns the open period", func(t *testing.T) {
		closed, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusActive, customer.JoinDate)
		require.NoError(t, err)
		require.NoError(t, closed.Close(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, repo.Save(ctx, closed))

		open, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusInactive, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, open))

		found, err := repo.FindOpenByCustomer(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, open.ID, found.ID)
		assert.Equal(t, billing.CustomerStatusInactive, found.Status)
		assert.Nil(t, found.End)
	})
}

func TestGormStatusPeriodRepository_FindByCustomer_OrderedByStart(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStatusPeriodRepository(db)
	ctx := context.Background()

	customer := seedCustomer(t, db, "Budi Santoso", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	second, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusInactive, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	first, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusActive, customer.JoinDate)
	require.NoError(t, err)
	require.NoError(t, first.Close(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Save(ctx, first))

	periods, err := repo.FindByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, first.ID, periods[0].ID)
	assert.Equal(t, second.ID, periods[1].ID)
}

func TestGormStatusPeriodRepository_SaveToggle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStatusPeriodRepository(db)
	customerRepo := NewGormCustomerRepository(db)
	ctx := context.Background()

	t.Run("persists customer, closed and opened together", func(t *testing.T) {
		customer := seedCustomer(t, db, "Budi Santoso", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

		current, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusActive, customer.JoinDate)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, current))

		now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, current.Close(now))
		opened, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusInactive, now)
		require.NoError(t, err)
		require.NoError(t, customer.SetStatus(billing.CustomerStatusInactive))

		require.NoError(t, repo.SaveToggle(ctx, customer, current, opened))

		savedCustomer, err := customerRepo.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.CustomerStatusInactive, savedCustomer.Status)

		periods, err := repo.FindByCustomer(ctx, customer.ID)
		require.NoError(t, err)
		require.Len(t, periods, 2)
		require.NotNil(t, periods[0].End)
		assert.True(t, periods[0].End.Equal(now))
		assert.Nil(t, periods[1].End)
	})

	t.Run("nil closed period is allowed", func(t *testing.T) {
		customer := seedCustomer(t, db, "Siti Aminah", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, customer.SetStatus(billing.CustomerStatusInactive))

		opened, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusInactive, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		require.NoError(t, repo.SaveToggle(ctx, customer, nil, opened))

		periods, err := repo.FindByCustomer(ctx, customer.ID)
		require.NoError(t, err)
		require.Len(t, periods, 1)
		assert.Equal(t, opened.ID, periods[0].ID)
	})
}

func TestGormStatusPeriodRepository_FindByCustomerIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStatusPeriodRepository(db)
	ctx := context.Background()

	alpha := seedCustomer(t, db, "Budi Santoso", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	bravo := seedCustomer(t, db, "Siti Aminah", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	for _, c := range []*billing.Customer{alpha, bravo} {
		p, err := billing.NewStatusPeriod(c.ID, billing.CustomerStatusActive, c.JoinDate)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
	}

	periods, err := repo.FindByCustomerIDs(ctx, []uuid.UUID{alpha.ID, bravo.ID})
	require.NoError(t, err)
	assert.Len(t, periods, 2)

	empty, err := repo.FindByCustomerIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
