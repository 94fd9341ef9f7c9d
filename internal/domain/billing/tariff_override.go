package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// TariffOverride is a manually entered amount for one customer/month.
// At most one override exists per (customer, month); it is the highest
// priority tariff source.
type TariffOverride struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID         `json:"customer_id"`
	Month      valueobject.Month `json:"month"`
	Amount     decimal.Decimal   `json:"amount"`
	Note       string            `json:"note"`
}

// NewTariffOverride creates a new manual tariff override
func NewTariffOverride(customerID uuid.UUID, month valueobject.Month, amount valueobject.Money, note string) (*TariffOverride, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if month.IsZero() {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Override amount cannot be negative")
	}

	return &TariffOverride{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Month:             month,
		Amount:            amount.Amount(),
		Note:              note,
	}, nil
}

// GetAmountMoney returns the override amount as Money
func (o *TariffOverride) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(o.Amount)
}

// Resolution converts the override into a TariffResolution
func (o *TariffOverride) Resolution() TariffResolution {
	return TariffResolution{
		Month:   o.Month,
		Amount:  o.Amount,
		Source:  TariffSourceOverride,
		Details: o.Note,
	}
}
