package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// InstallmentStatus represents the settlement state of one billed month
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusPartial InstallmentStatus = "PARTIAL"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPartial, InstallmentStatusPaid:
		return true
	}
	return false
}

// PaymentIDs is a list of contributing payment record ids stored as JSONB
type PaymentIDs []uuid.UUID

// Value implements driver.Valuer for GORM to store as JSONB
func (p PaymentIDs) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (p *PaymentIDs) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentIDs{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan PaymentIDs: unsupported type %T", value)
	}

	if len(bytes) == 0 {
		*p = PaymentIDs{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Installment tracks how much of one billed month has been settled
// when payments cover it only partially. Invariants: paid never
// exceeds owed, and the status is PAID exactly when nothing remains.
type Installment struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID         `json:"customer_id"`
	Month      valueobject.Month `json:"month"`
	Owed       decimal.Decimal   `json:"owed"`
	Paid       decimal.Decimal   `json:"paid"`
	Status     InstallmentStatus `json:"status"`
	PaymentIDs PaymentIDs        `json:"payment_ids"`
}

// NewInstallment opens an installment record for one billed month
func NewInstallment(customerID uuid.UUID, month valueobject.Month, owed valueobject.Money) (*Installment, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if month.IsZero() {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month is required")
	}
	if !owed.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Owed amount must be positive")
	}

	return &Installment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Month:             month,
		Owed:              owed.Amount(),
		Paid:              decimal.Zero,
		Status:            InstallmentStatusPending,
		PaymentIDs:        PaymentIDs{},
	}, nil
}

// Remaining returns what is still owed for the month
func (i *Installment) Remaining() decimal.Decimal {
	return i.Owed.Sub(i.Paid)
}

// IsSettled returns true when nothing remains
func (i *Installment) IsSettled() bool {
	return i.Remaining().IsZero()
}

// ApplyPayment credits part of a payment against the month. The
// applied amount may never push paid past owed.
func (i *Installment) ApplyPayment(amount valueobject.Money, paymentID uuid.UUID) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Applied amount must be positive")
	}
	if paymentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if amount.Amount().GreaterThan(i.Remaining()) {
		return shared.NewDomainError("EXCEEDS_REMAINING",
			fmt.Sprintf("Applied amount %s exceeds remaining %s for month %s",
				amount.Amount(), i.Remaining(), i.Month))
	}

	i.Paid = i.Paid.Add(amount.Amount())
	i.PaymentIDs = append(i.PaymentIDs, paymentID)
	if i.Remaining().IsZero() {
		i.Status = InstallmentStatusPaid
	} else {
		i.Status = InstallmentStatusPartial
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}
