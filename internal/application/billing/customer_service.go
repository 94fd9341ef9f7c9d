package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// CustomerService manages customer records, tariff categories and
// manual per-month overrides.
type CustomerService struct {
	customerRepo billing.CustomerRepository
	categoryRepo billing.TariffCategoryRepository
	overrideRepo billing.TariffOverrideRepository
	periodRepo   billing.StatusPeriodRepository
	clock        shared.Clock
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo billing.CustomerRepository,
	categoryRepo billing.TariffCategoryRepository,
	overrideRepo billing.TariffOverrideRepository,
	periodRepo billing.StatusPeriodRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		categoryRepo: categoryRepo,
		overrideRepo: overrideRepo,
		periodRepo:   periodRepo,
		clock:        clock,
		logger:       logger,
	}
}

// CreateCustomerInput carries a validated customer creation request
type CreateCustomerInput struct {
	Name                string
	Address             string
	Region              string
	JoinDate            time.Time
	TariffCategoryID    uuid.UUID
	TariffEffectiveDate time.Time
}

// CreateCustomer registers a new customer and opens its first ACTIVE
// status period at the join date.
func (s *CustomerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*billing.Customer, error) {
	if _, err := s.categoryRepo.FindByID(ctx, input.TariffCategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Tariff category not found")
		}
		return nil, fmt.Errorf("failed to get tariff category: %w", err)
	}

	customer, err := billing.NewCustomer(
		input.Name,
		input.Address,
		input.Region,
		input.JoinDate,
		input.TariffCategoryID,
		input.TariffEffectiveDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	period, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusActive, customer.JoinDate)
	if err != nil {
		return nil, err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		s.logger.Warn("Failed to open initial status period",
			zap.String("customer_id", customer.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("name", customer.Name))

	return customer, nil
}

// GetCustomer returns one customer
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*billing.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// ListCustomers returns customers matching the filter, paginated
func (s *CustomerService) ListCustomers(ctx context.Context, filter shared.Filter) (shared.Paginated[billing.Customer], error) {
	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Customer]{}, fmt.Errorf("failed to list customers: %w", err)
	}
	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Customer]{}, fmt.Errorf("failed to count customers: %w", err)
	}
	return shared.NewPaginated(customers, total, filter.Page, filter.PageSize), nil
}

// UpdateCustomerInput carries the editable customer profile fields
type UpdateCustomerInput struct {
	Name    string
	Address string
	Region  string
}

// UpdateCustomer edits the customer profile. Tariff assignment changes
// go through the tariff history service instead so old prices are
// preserved first.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*billing.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	customer.Name = input.Name
	customer.Address = input.Address
	customer.Region = input.Region
	customer.UpdatedAt = s.clock.Now()
	customer.IncrementVersion()

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return customer, nil
}

// CreateTariffCategory registers a new named monthly price
func (s *CustomerService) CreateTariffCategory(ctx context.Context, name string, monthlyPrice valueobject.Money) (*billing.TariffCategory, error) {
	category, err := billing.NewTariffCategory(name, monthlyPrice)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save tariff category: %w", err)
	}

	s.logger.Info("Tariff category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
		zap.String("monthly_price", category.MonthlyPrice.String()))

	return category, nil
}

// GetTariffCategory returns one tariff category
func (s *CustomerService) GetTariffCategory(ctx context.Context, id uuid.UUID) (*billing.TariffCategory, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Tariff category not found")
		}
		return nil, fmt.Errorf("failed to get tariff category: %w", err)
	}
	return category, nil
}

// ListTariffCategories returns all tariff categories
func (s *CustomerService) ListTariffCategories(ctx context.Context, filter shared.Filter) ([]billing.TariffCategory, error) {
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariff categories: %w", err)
	}
	return categories, nil
}

// UpdateTariffCategoryPrice changes a category's monthly price for
// future resolutions. Recorded payment breakdowns are unaffected.
func (s *CustomerService) UpdateTariffCategoryPrice(ctx context.Context, id uuid.UUID, price valueobject.Money) (*billing.TariffCategory, error) {
	category, err := s.GetTariffCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.UpdatePrice(price); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save tariff category: %w", err)
	}
	return category, nil
}

// SetTariffOverride creates or replaces the manual amount for one
// customer/month. The override becomes the highest priority source for
// that month's resolution.
func (s *CustomerService) SetTariffOverride(ctx context.Context, customerID uuid.UUID, month valueobject.Month, amount valueobject.Money, note string) (*billing.TariffOverride, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	override, err := s.overrideRepo.FindByCustomerAndMonth(ctx, customerID, month)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to get tariff override: %w", err)
		}
		override, err = billing.NewTariffOverride(customerID, month, amount, note)
		if err != nil {
			return nil, err
		}
	} else {
		if amount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Override amount cannot be negative")
		}
		override.Amount = amount.Amount()
		override.Note = note
		override.UpdatedAt = s.clock.Now()
		override.IncrementVersion()
	}

	if err := s.overrideRepo.Save(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to save tariff override: %w", err)
	}

	s.logger.Info("Tariff override set",
		zap.String("customer_id", customerID.String()),
		zap.String("month", month.String()),
		zap.String("amount", override.Amount.String()))

	return override, nil
}

// ListTariffOverrides returns a customer's overrides
func (s *CustomerService) ListTariffOverrides(ctx context.Context, customerID uuid.UUID) ([]billing.TariffOverride, error) {
	overrides, err := s.overrideRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariff overrides: %w", err)
	}
	return overrides, nil
}

// RemoveTariffOverride deletes the manual amount for one customer/month
func (s *CustomerService) RemoveTariffOverride(ctx context.Context, customerID uuid.UUID, month valueobject.Month) error {
	override, err := s.overrideRepo.FindByCustomerAndMonth(ctx, customerID, month)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("OVERRIDE_NOT_FOUND", "Tariff override not found")
		}
		return fmt.Errorf("failed to get tariff override: %w", err)
	}
	if err := s.overrideRepo.Delete(ctx, override.ID); err != nil {
		return fmt.Errorf("failed to delete tariff override: %w", err)
	}
	return nil
}
