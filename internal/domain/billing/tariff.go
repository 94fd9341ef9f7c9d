package billing

import (
	"github.com/shopspring/decimal"

	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// TariffSource identifies where a resolved per-month amount came from.
// Resolution is strict priority: override beats history beats the
// customer's current category default.
type TariffSource string

const (
	TariffSourceOverride TariffSource = "override"
	TariffSourceHistory  TariffSource = "history"
	TariffSourceDefault  TariffSource = "default"
)

// IsValid checks if the source is a valid TariffSource
func (s TariffSource) IsValid() bool {
	switch s {
	case TariffSourceOverride, TariffSourceHistory, TariffSourceDefault:
		return true
	}
	return false
}

// String returns the string representation of TariffSource
func (s TariffSource) String() string {
	return string(s)
}

// TariffResolution is the outcome of resolving the amount a customer
// owes for one month, with provenance.
type TariffResolution struct {
	Month   valueobject.Month `json:"month"`
	Amount  decimal.Decimal   `json:"amount"`
	Source  TariffSource      `json:"source"`
	Details string            `json:"details"`
}

// GetAmountMoney returns the resolved amount as Money
func (r TariffResolution) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(r.Amount)
}

// DetailsBeforeEffectiveDate is the provenance detail for months that
// predate the customer's tariff effective month.
const DetailsBeforeEffectiveDate = "before effective date"
