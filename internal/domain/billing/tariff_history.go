package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// TariffHistory preserves the amount a customer was charged for one
// month before a tariff change. At most one entry exists per
// (customer, month); once written it is never overwritten, so manual
// corrections survive later preservation runs. It is the second
// priority tariff source, after overrides.
type TariffHistory struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID         `json:"customer_id"`
	Month      valueobject.Month `json:"month"`
	Amount     decimal.Decimal   `json:"amount"`
	Note       string            `json:"note"`
}

// NewTariffHistory creates a new preserved tariff history entry
func NewTariffHistory(customerID uuid.UUID, month valueobject.Month, amount valueobject.Money, note string) (*TariffHistory, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if month.IsZero() {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "History amount cannot be negative")
	}

	return &TariffHistory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Month:             month,
		Amount:            amount.Amount(),
		Note:              note,
	}, nil
}

// GetAmountMoney returns the preserved amount as Money
func (h *TariffHistory) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(h.Amount)
}

// Resolution converts the history entry into a TariffResolution
func (h *TariffHistory) Resolution() TariffResolution {
	return TariffResolution{
		Month:   h.Month,
		Amount:  h.Amount,
		Source:  TariffSourceHistory,
		Details: h.Note,
	}
}
