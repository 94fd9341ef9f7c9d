package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// CustomerStatus represents the lifecycle status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// IsValid checks if the status is a valid CustomerStatus
func (s CustomerStatus) IsValid() bool {
	return s == CustomerStatusActive || s == CustomerStatusInactive
}

// String returns the string representation of CustomerStatus
func (s CustomerStatus) String() string {
	return string(s)
}

// Customer represents a recurring billing customer aggregate root.
// A customer owes one collection fee per calendar month from the join
// month onward, priced by the assigned tariff category unless a
// per-month override or preserved history entry takes precedence.
type Customer struct {
	shared.BaseAggregateRoot
	Name                string         `json:"name"`
	Address             string         `json:"address"`
	Region              string         `json:"region"`
	JoinDate            time.Time      `json:"join_date"`
	TariffCategoryID    uuid.UUID      `json:"tariff_category_id"`
	TariffEffectiveDate time.Time      `json:"tariff_effective_date"`
	Status              CustomerStatus `json:"status"`
}

// NewCustomer creates a new customer with its default tariff assignment
func NewCustomer(
	name string,
	address string,
	region string,
	joinDate time.Time,
	tariffCategoryID uuid.UUID,
	tariffEffectiveDate time.Time,
) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	if joinDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_JOIN_DATE", "Join date is required")
	}
	if tariffCategoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARIFF_CATEGORY", "Tariff category ID cannot be empty")
	}
	if tariffEffectiveDate.IsZero() {
		tariffEffectiveDate = joinDate
	}

	return &Customer{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Name:                name,
		Address:             address,
		Region:              region,
		JoinDate:            joinDate,
		TariffCategoryID:    tariffCategoryID,
		TariffEffectiveDate: tariffEffectiveDate,
		Status:              CustomerStatusActive,
	}, nil
}

// JoinMonth returns the first billable month
func (c *Customer) JoinMonth() valueobject.Month {
	return valueobject.MonthOf(c.JoinDate)
}

// EffectiveMonth returns the month from which the current tariff
// category price applies. Months strictly before it resolve to zero
// unless an override or history entry exists.
func (c *Customer) EffectiveMonth() valueobject.Month {
	return valueobject.MonthOf(c.TariffEffectiveDate)
}

// IsActive returns true if the customer is currently active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// ChangeTariff reassigns the tariff category and/or effective date.
// Already-recorded payments keep their snapshotted breakdowns; callers
// are responsible for preserving old per-month prices for unpaid months
// before the new effective date (see the tariff history preserver).
func (c *Customer) ChangeTariff(categoryID uuid.UUID, effectiveDate time.Time) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_TARIFF_CATEGORY", "Tariff category ID cannot be empty")
	}
	if effectiveDate.IsZero() {
		return shared.NewDomainError("INVALID_EFFECTIVE_DATE", "Effective date is required")
	}

	c.TariffCategoryID = categoryID
	c.TariffEffectiveDate = effectiveDate
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetStatus transitions the customer lifecycle status
func (c *Customer) SetStatus(status CustomerStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status is not valid")
	}
	if c.Status == status {
		return shared.NewDomainError("INVALID_STATE", "Customer is already in the requested status")
	}

	c.Status = status
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
