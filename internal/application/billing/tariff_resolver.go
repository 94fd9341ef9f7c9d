package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// TariffResolver resolves the amount a customer owes for one billing
// month, with provenance. Resolution is strict priority with
// short-circuiting: manual override, then preserved history, then the
// customer's current tariff category default.
type TariffResolver struct {
	customerRepo billing.CustomerRepository
	categoryRepo billing.TariffCategoryRepository
	overrideRepo billing.TariffOverrideRepository
	historyRepo  billing.TariffHistoryRepository
}

// NewTariffResolver creates a new TariffResolver
func NewTariffResolver(
	customerRepo billing.CustomerRepository,
	categoryRepo billing.TariffCategoryRepository,
	overrideRepo billing.TariffOverrideRepository,
	historyRepo billing.TariffHistoryRepository,
) *TariffResolver {
	return &TariffResolver{
		customerRepo: customerRepo,
		categoryRepo: categoryRepo,
		overrideRepo: overrideRepo,
		historyRepo:  historyRepo,
	}
}

// Resolve returns the tariff that applies for one customer/month.
// A missing customer is a hard error; a missing override or history
// entry simply falls through to the next priority.
func (s *TariffResolver) Resolve(ctx context.Context, customerID uuid.UUID, month valueobject.Month) (billing.TariffResolution, error) {
	override, err := s.overrideRepo.FindByCustomerAndMonth(ctx, customerID, month)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return billing.TariffResolution{}, fmt.Errorf("failed to look up tariff override: %w", err)
	}
	if override != nil {
		return override.Resolution(), nil
	}

	history, err := s.historyRepo.FindByCustomerAndMonth(ctx, customerID, month)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return billing.TariffResolution{}, fmt.Errorf("failed to look up tariff history: %w", err)
	}
	if history != nil {
		return history.Resolution(), nil
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return billing.TariffResolution{}, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return billing.TariffResolution{}, fmt.Errorf("failed to get customer: %w", err)
	}

	category, err := s.categoryRepo.FindByID(ctx, customer.TariffCategoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return billing.TariffResolution{}, shared.NewDomainError("CATEGORY_NOT_FOUND", "Tariff category not found")
		}
		return billing.TariffResolution{}, fmt.Errorf("failed to get tariff category: %w", err)
	}

	return defaultResolution(customer, category, month), nil
}

// defaultResolution computes the lowest-priority resolution from the
// customer's current tariff category. Months before the effective
// month resolve to zero; they are not owed at the category price.
// Both the repository-backed path and the preloaded batch path go
// through this routine so they cannot diverge.
func defaultResolution(customer *billing.Customer, category *billing.TariffCategory, month valueobject.Month) billing.TariffResolution {
	if month.Before(customer.EffectiveMonth()) {
		return billing.TariffResolution{
			Month:   month,
			Amount:  decimal.Zero,
			Source:  billing.TariffSourceDefault,
			Details: billing.DetailsBeforeEffectiveDate,
		}
	}
	return billing.TariffResolution{
		Month:   month,
		Amount:  category.MonthlyPrice,
		Source:  billing.TariffSourceDefault,
		Details: category.Name,
	}
}
