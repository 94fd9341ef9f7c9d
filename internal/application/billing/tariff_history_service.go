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

// TariffHistoryService preserves per-month prices before a tariff
// change so old unpaid months keep resolving to what the customer was
// actually charged. Paid months are skipped because their price lives
// in the payment breakdown snapshot already.
type TariffHistoryService struct {
	customerRepo billing.CustomerRepository
	categoryRepo billing.TariffCategoryRepository
	historyRepo  billing.TariffHistoryRepository
	paymentRepo  billing.PaymentRepository
	logger       *zap.Logger
}

// NewTariffHistoryService creates a new TariffHistoryService
func NewTariffHistoryService(
	customerRepo billing.CustomerRepository,
	categoryRepo billing.TariffCategoryRepository,
	historyRepo billing.TariffHistoryRepository,
	paymentRepo billing.PaymentRepository,
	logger *zap.Logger,
) *TariffHistoryService {
	return &TariffHistoryService{
		customerRepo: customerRepo,
		categoryRepo: categoryRepo,
		historyRepo:  historyRepo,
		paymentRepo:  paymentRepo,
		logger:       logger,
	}
}

// PreserveFailure records one month that could not be preserved
type PreserveFailure struct {
	Month valueobject.Month `json:"month"`
	Error string            `json:"error"`
}

// PreserveReport tells the caller exactly what a preservation run did:
// which months got new history entries, which already had one, and
// which failed to persist.
type PreserveReport struct {
	CustomerID uuid.UUID           `json:"customer_id"`
	Created    []valueobject.Month `json:"created"`
	Skipped    []valueobject.Month `json:"skipped"`
	Failed     []PreserveFailure   `json:"failed"`
}

// Preserve writes history entries for the customer's unpaid months
// strictly before newEffectiveDate's month, each at the price the
// current (pre-change) tariff assignment resolves to. Existing entries
// are never overwritten, so running this twice is safe and manual
// corrections survive. Per-month persistence failures are collected in
// the report rather than aborting the run.
func (s *TariffHistoryService) Preserve(ctx context.Context, customerID uuid.UUID, newEffectiveDate time.Time) (*PreserveReport, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return s.preserveFor(ctx, customer, newEffectiveDate)
}

// preserveFor runs preservation against an already loaded customer,
// pricing months by its current in-memory tariff assignment. ChangeTariff
// calls this before mutating the customer.
func (s *TariffHistoryService) preserveFor(ctx context.Context, customer *billing.Customer, newEffectiveDate time.Time) (*PreserveReport, error) {
	if newEffectiveDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EFFECTIVE_DATE", "Effective date is required")
	}

	report := &PreserveReport{CustomerID: customer.ID}

	newEffectiveMonth := valueobject.MonthOf(newEffectiveDate)
	months := valueobject.MonthsBetween(customer.JoinMonth(), newEffectiveMonth.Prev())
	if len(months) == 0 {
		return report, nil
	}

	category, err := s.categoryRepo.FindByID(ctx, customer.TariffCategoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Tariff category not found")
		}
		return nil, fmt.Errorf("failed to get tariff category: %w", err)
	}

	paidMonths, err := s.paidMonths(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Preserved from tariff %s before change effective %s", category.Name, newEffectiveMonth)
	for _, month := range months {
		if _, paid := paidMonths[month]; paid {
			report.Skipped = append(report.Skipped, month)
			continue
		}

		resolution := defaultResolution(customer, category, month)
		if !resolution.Amount.IsPositive() {
			// Months before the assignment's effective date resolve to
			// zero; writing them would turn a default-priced month into
			// a history-priced one. Leave them to default resolution.
			report.Skipped = append(report.Skipped, month)
			continue
		}
		history, err := billing.NewTariffHistory(customer.ID, month, resolution.GetAmountMoney(), note)
		if err != nil {
			report.Failed = append(report.Failed, PreserveFailure{Month: month, Error: err.Error()})
			continue
		}

		created, err := s.historyRepo.CreateIfAbsent(ctx, history)
		if err != nil {
			s.logger.Warn("Failed to preserve tariff history",
				zap.String("customer_id", customer.ID.String()),
				zap.String("month", month.String()),
				zap.Error(err))
			report.Failed = append(report.Failed, PreserveFailure{Month: month, Error: err.Error()})
			continue
		}
		if created {
			report.Created = append(report.Created, month)
		} else {
			report.Skipped = append(report.Skipped, month)
		}
	}

	s.logger.Info("Tariff history preserved",
		zap.String("customer_id", customer.ID.String()),
		zap.Int("created", len(report.Created)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)))

	return report, nil
}

// ChangeTariff preserves the customer's current per-month prices and
// then reassigns the tariff category and effective date. Preservation
// runs first, against the pre-change assignment; if it errors outright
// the change is not applied.
func (s *TariffHistoryService) ChangeTariff(ctx context.Context, customerID uuid.UUID, newCategoryID uuid.UUID, effectiveDate time.Time) (*PreserveReport, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if _, err := s.categoryRepo.FindByID(ctx, newCategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Tariff category not found")
		}
		return nil, fmt.Errorf("failed to get tariff category: %w", err)
	}

	report, err := s.preserveFor(ctx, customer, effectiveDate)
	if err != nil {
		return nil, err
	}

	if err := customer.ChangeTariff(newCategoryID, effectiveDate); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.Info("Customer tariff changed",
		zap.String("customer_id", customer.ID.String()),
		zap.String("category_id", newCategoryID.String()),
		zap.Time("effective_date", effectiveDate))

	return report, nil
}

// BulkPreserveFailure records one customer whose preservation run
// errored outright.
type BulkPreserveFailure struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Error      string    `json:"error"`
}

// BulkPreserveResult aggregates the per-customer reports of a bulk
// preservation run.
type BulkPreserveResult struct {
	Reports []PreserveReport      `json:"reports"`
	Failed  []BulkPreserveFailure `json:"failed"`
}

// PreserveBulk runs Preserve for each customer against the same new
// effective date. One customer failing does not stop the others; the
// failure is recorded in the result.
func (s *TariffHistoryService) PreserveBulk(ctx context.Context, customerIDs []uuid.UUID, newEffectiveDate time.Time) (*BulkPreserveResult, error) {
	if newEffectiveDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EFFECTIVE_DATE", "Effective date is required")
	}

	result := &BulkPreserveResult{}
	for _, customerID := range customerIDs {
		report, err := s.Preserve(ctx, customerID, newEffectiveDate)
		if err != nil {
			s.logger.Warn("Bulk preservation failed for customer",
				zap.String("customer_id", customerID.String()),
				zap.Error(err))
			result.Failed = append(result.Failed, BulkPreserveFailure{CustomerID: customerID, Error: err.Error()})
			continue
		}
		result.Reports = append(result.Reports, *report)
	}
	return result, nil
}

// ListHistory returns a customer's preserved history entries
func (s *TariffHistoryService) ListHistory(ctx context.Context, customerID uuid.UUID) ([]billing.TariffHistory, error) {
	entries, err := s.historyRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariff history: %w", err)
	}
	return entries, nil
}

// paidMonths collects every month covered by any of the customer's
// payment records.
func (s *TariffHistoryService) paidMonths(ctx context.Context, customerID uuid.UUID) (map[valueobject.Month]struct{}, error) {
	payments, err := s.paymentRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	paid := make(map[valueobject.Month]struct{})
	for _, payment := range payments {
		for _, month := range payment.Months {
			paid[month] = struct{}{}
		}
	}
	return paid, nil
}
