package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// PaymentMethod represents how a payment was collected
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodGateway  PaymentMethod = "GATEWAY"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodGateway:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// BreakdownEntry is the price snapshot for one paid month, captured at
// payment time. Receipts and reports read this snapshot; it is never
// recomputed when tariffs change later.
type BreakdownEntry struct {
	Amount  decimal.Decimal `json:"amount"`
	Source  TariffSource    `json:"source"`
	Details string          `json:"details,omitempty"`
}

// MonthBreakdown maps billing months to their price snapshots. It is
// stored as JSONB keyed by the canonical "YYYY-MM" token, the external
// shape receipt and reporting consumers depend on.
type MonthBreakdown map[valueobject.Month]BreakdownEntry

// Months returns the covered months in chronological order
func (b MonthBreakdown) Months() []valueobject.Month {
	months := make([]valueobject.Month, 0, len(b))
	for m := range b {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// Total sums the snapshotted amounts
func (b MonthBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range b {
		total = total.Add(entry.Amount)
	}
	return total
}

// Value implements driver.Valuer for GORM to store as JSONB
func (b MonthBreakdown) Value() (driver.Value, error) {
	if b == nil {
		return "{}", nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (b *MonthBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = MonthBreakdown{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan MonthBreakdown: unsupported type %T", value)
	}

	if len(bytes) == 0 {
		*b = MonthBreakdown{}
		return nil
	}

	return json.Unmarshal(bytes, b)
}

// Payment is an immutable ledger record of one collected payment. It
// carries the list of settled months and the per-month breakdown
// snapshotted when the payment was recorded. A payment can only be
// deleted while not yet deposited; the deposited flag itself flips
// separately during cash reconciliation.
type Payment struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID             `json:"customer_id"`
	Months      valueobject.MonthList `json:"months"`
	PaymentDate time.Time             `json:"payment_date"`
	Amount      decimal.Decimal       `json:"amount"`
	Subtotal    *decimal.Decimal      `json:"subtotal,omitempty"`
	Discount    *decimal.Decimal      `json:"discount,omitempty"`
	Method      PaymentMethod         `json:"method"`
	Note        string                `json:"note"`
	Breakdown   MonthBreakdown        `json:"breakdown"`
	Deposited   bool                  `json:"deposited"`
	DepositedAt *time.Time            `json:"deposited_at,omitempty"`
}

// NewPayment creates a new payment record with its breakdown snapshot.
// The final amount is grossAmount minus discount; subtotal and discount
// are only retained when a discount was actually given. The breakdown
// amounts are not required to sum to the final amount: collective
// partial payments distribute a smaller amount across months and rely
// on the installment ledger for the remainder.
func NewPayment(
	customerID uuid.UUID,
	months valueobject.MonthList,
	paymentDate time.Time,
	grossAmount valueobject.Money,
	discount valueobject.Money,
	method PaymentMethod,
	note string,
	breakdown MonthBreakdown,
) (*Payment, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(months) == 0 {
		return nil, shared.NewDomainError("INVALID_MONTHS", "Payment must cover at least one month")
	}
	seen := make(map[valueobject.Month]struct{}, len(months))
	for _, m := range months {
		if _, dup := seen[m]; dup {
			return nil, shared.NewDomainError("INVALID_MONTHS", fmt.Sprintf("Month %s appears more than once", m))
		}
		seen[m] = struct{}{}
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	if !grossAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.IsZero() {
		// A zero-value Money carries no currency; align it with the gross
		// amount so the comparison and subtraction below cannot mismatch.
		discount = valueobject.Zero(grossAmount.Currency())
	}
	exceeds, err := discount.GreaterThan(grossAmount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", err.Error())
	}
	if exceeds {
		return nil, shared.NewDomainError("DISCOUNT_EXCEEDS_AMOUNT",
			fmt.Sprintf("Discount %s exceeds payment amount %s", discount, grossAmount))
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	for _, m := range months {
		if _, ok := breakdown[m]; !ok {
			return nil, shared.NewDomainError("INVALID_BREAKDOWN", fmt.Sprintf("Breakdown is missing month %s", m))
		}
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Months:            months,
		PaymentDate:       paymentDate,
		Amount:            grossAmount.MustSubtract(discount).Amount(),
		Method:            method,
		Note:              note,
		Breakdown:         breakdown,
		Deposited:         false,
	}
	if discount.IsPositive() {
		subtotal := grossAmount.Amount()
		disc := discount.Amount()
		p.Subtotal = &subtotal
		p.Discount = &disc
	}
	return p, nil
}

// GetAmountMoney returns the final amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(p.Amount)
}

// HasDiscount returns true if a discount was applied
func (p *Payment) HasDiscount() bool {
	return p.Discount != nil && p.Discount.IsPositive()
}

// MarkDeposited flips the cash reconciliation marker. Once deposited,
// the payment can no longer be deleted.
func (p *Payment) MarkDeposited(at time.Time) error {
	if p.Deposited {
		return shared.NewDomainError("INVALID_STATE", "Payment is already deposited")
	}

	p.Deposited = true
	p.DepositedAt = &at
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// EnsureCancellable returns an error when the payment may no longer be
// deleted. Deletion is allowed only pre-reconciliation.
func (p *Payment) EnsureCancellable() error {
	if p.Deposited {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a deposited payment")
	}
	return nil
}
