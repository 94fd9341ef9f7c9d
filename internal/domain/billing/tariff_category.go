package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// TariffCategory represents a named monthly price reference.
// Editing the price affects future tariff resolutions only; payment
// breakdowns recorded earlier are never recomputed.
type TariffCategory struct {
	shared.BaseAggregateRoot
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
}

// NewTariffCategory creates a new tariff category
func NewTariffCategory(name string, monthlyPrice valueobject.Money) (*TariffCategory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tariff category name cannot be empty")
	}
	if monthlyPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Monthly price cannot be negative")
	}

	return &TariffCategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		MonthlyPrice:      monthlyPrice.Amount(),
	}, nil
}

// GetMonthlyPriceMoney returns the monthly price as Money
func (tc *TariffCategory) GetMonthlyPriceMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(tc.MonthlyPrice)
}

// UpdatePrice changes the monthly price for future resolutions
func (tc *TariffCategory) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Monthly price cannot be negative")
	}

	tc.MonthlyPrice = price.Amount()
	tc.UpdatedAt = time.Now()
	tc.IncrementVersion()
	return nil
}
