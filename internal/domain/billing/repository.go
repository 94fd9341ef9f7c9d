package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAll finds customers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// FindActive finds all currently active customers
	FindActive(ctx context.Context) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Delete removes a customer
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// TariffCategoryRepository defines the interface for tariff category persistence
type TariffCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TariffCategory, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]TariffCategory, error)
	Save(ctx context.Context, category *TariffCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// TariffOverrideRepository defines the interface for manual tariff override persistence.
// The storage enforces at most one override per (customer, month).
type TariffOverrideRepository interface {
	// FindByCustomerAndMonth returns the override for one customer/month,
	// or shared.ErrNotFound when none exists
	FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month valueobject.Month) (*TariffOverride, error)

	// FindByCustomer returns all overrides for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]TariffOverride, error)

	// FindByCustomerIDs returns overrides for many customers in one query
	FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]TariffOverride, error)

	// Save creates or updates an override
	Save(ctx context.Context, override *TariffOverride) error

	// Delete removes an override
	Delete(ctx context.Context, id uuid.UUID) error
}

// TariffHistoryRepository defines the interface for preserved tariff history persistence.
// The storage enforces at most one entry per (customer, month).
type TariffHistoryRepository interface {
	// FindByCustomerAndMonth returns the history entry for one customer/month,
	// or shared.ErrNotFound when none exists
	FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month valueobject.Month) (*TariffHistory, error)

	// FindByCustomer returns all history entries for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]TariffHistory, error)

	// FindByCustomerIDs returns history entries for many customers in one query
	FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]TariffHistory, error)

	// CreateIfAbsent inserts the entry unless one already exists for the
	// same (customer, month). Returns false without error when the row
	// was already present; existing entries are never overwritten.
	CreateIfAbsent(ctx context.Context, history *TariffHistory) (bool, error)

	// Delete removes a history entry
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatusPeriodRepository defines the interface for status timeline persistence
type StatusPeriodRepository interface {
	// FindByCustomer returns a customer's periods ordered by start
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (StatusPeriods, error)

	// FindOpenByCustomer returns the customer's open period, or
	// shared.ErrNotFound when every period is closed
	FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) (*StatusPeriod, error)

	// FindByCustomerIDs returns periods for many customers in one query
	FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]StatusPeriod, error)

	// Save creates or updates a period
	Save(ctx context.Context, period *StatusPeriod) error

	// SaveToggle persists a status toggle atomically: the updated
	// customer, the closed current period (may be nil when the customer
	// had no open period) and the newly opened period, in one transaction.
	SaveToggle(ctx context.Context, customer *Customer, closed *StatusPeriod, opened *StatusPeriod) error
}

// PaymentRepository defines the interface for payment ledger persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByCustomer returns a customer's payments, newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Payment, error)

	// FindByCustomerIDs returns payments for many customers in one query
	FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]Payment, error)

	// Save creates a payment record with its breakdown
	Save(ctx context.Context, payment *Payment) error

	// Delete removes a payment record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// InstallmentRepository defines the interface for installment ledger persistence
type InstallmentRepository interface {
	// FindByCustomerAndMonth returns the installment for one customer/month,
	// or shared.ErrNotFound when none exists
	FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month valueobject.Month) (*Installment, error)

	// FindByCustomer returns all installments for a customer ordered by month
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Installment, error)

	// Save creates or updates an installment
	Save(ctx context.Context, installment *Installment) error
}
