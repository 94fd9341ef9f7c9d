package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
	"github.com/retribusi/backend/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory SQLite database with all tables migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(models.AllModels()...)
	require.NoError(t, err)

	return db
}

func mustMonth(t *testing.T, token string) valueobject.Month {
	t.Helper()
	m, err := valueobject.ParseMonth(token)
	require.NoError(t, err)
	return m
}

func seedCategory(t *testing.T, db *gorm.DB, name string, price int64) *billing.TariffCategory {
	t.Helper()

	category, err := billing.NewTariffCategory(name, valueobject.NewMoneyIDRFromInt(price))
	require.NoError(t, err)
	require.NoError(t, NewGormTariffCategoryRepository(db).Save(context.Background(), category))
	return category
}

func seedCustomer(t *testing.T, db *gorm.DB, name string, joinDate time.Time) *billing.Customer {
	t.Helper()

	category := seedCategory(t, db, name+" tarif", 25000)
	customer, err := billing.NewCustomer(name, "Jl. Melati 12", "RW 03", joinDate, category.ID, time.Time{})
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(context.Background(), customer))
	return customer
}
