package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// Test fixtures

func createTestCategory(name string, monthlyPrice int64) *billing.TariffCategory {
	category, err := billing.NewTariffCategory(name, valueobject.NewMoneyIDRFromInt(monthlyPrice))
	if err != nil {
		panic(err)
	}
	return category
}

func createTestCustomer(joinDate time.Time, categoryID uuid.UUID) *billing.Customer {
	customer, err := billing.NewCustomer("Budi Santoso", "Jl. Melati 12", "RW 05", joinDate, categoryID, time.Time{})
	if err != nil {
		panic(err)
	}
	return customer
}

func month(token string) valueobject.Month {
	return valueobject.MustParseMonth(token)
}

func midMonth(token string) time.Time {
	return month(token).Date().AddDate(0, 0, 14)
}
