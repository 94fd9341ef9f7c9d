package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// ArrearsSummary lists a customer's billable, unpaid months up to the
// current month and their total.
type ArrearsSummary struct {
	CustomerID   uuid.UUID                 `json:"customer_id"`
	TotalArrears decimal.Decimal           `json:"total_arrears"`
	Months       []billing.TariffResolution `json:"months"`
	TotalMonths  int                       `json:"total_months"`
}

// TotalArrearsReport aggregates arrears across all active customers
type TotalArrearsReport struct {
	TotalArrears  decimal.Decimal `json:"total_arrears"`
	CustomerCount int             `json:"customer_count"`
	SkippedCount  int             `json:"skipped_count"`
}

// ArrearsService computes which months a customer still owes. It is
// read-only; listing, reporting and dashboard code call into it.
type ArrearsService struct {
	customerRepo billing.CustomerRepository
	categoryRepo billing.TariffCategoryRepository
	overrideRepo billing.TariffOverrideRepository
	historyRepo  billing.TariffHistoryRepository
	statusRepo   billing.StatusPeriodRepository
	paymentRepo  billing.PaymentRepository
	clock        shared.Clock
	logger       *zap.Logger
}

// NewArrearsService creates a new ArrearsService
func NewArrearsService(
	customerRepo billing.CustomerRepository,
	categoryRepo billing.TariffCategoryRepository,
	overrideRepo billing.TariffOverrideRepository,
	historyRepo billing.TariffHistoryRepository,
	statusRepo billing.StatusPeriodRepository,
	paymentRepo billing.PaymentRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *ArrearsService {
	return &ArrearsService{
		customerRepo: customerRepo,
		categoryRepo: categoryRepo,
		overrideRepo: overrideRepo,
		historyRepo:  historyRepo,
		statusRepo:   statusRepo,
		paymentRepo:  paymentRepo,
		clock:        clock,
		logger:       logger,
	}
}

// customerLedger is a fully preloaded view of one customer's billing
// state, so batch reporting resolves months without per-month queries.
type customerLedger struct {
	customer   *billing.Customer
	category   *billing.TariffCategory
	overrides  map[valueobject.Month]billing.TariffOverride
	histories  map[valueobject.Month]billing.TariffHistory
	periods    billing.StatusPeriods
	paidMonths map[valueobject.Month]struct{}
}

// resolve mirrors TariffResolver.Resolve on the preloaded state
func (l *customerLedger) resolve(month valueobject.Month) billing.TariffResolution {
	if override, ok := l.overrides[month]; ok {
		return override.Resolution()
	}
	if history, ok := l.histories[month]; ok {
		return history.Resolution()
	}
	return defaultResolution(l.customer, l.category, month)
}

// CalculateArrears computes the owed months for one customer, from the
// join month through the current month. A month is owed when it is not
// covered by any payment, the customer was billable in it, and it
// resolves to a positive amount. Zero-amount months (before the tariff
// effective date) are not owed at all.
func (s *ArrearsService) CalculateArrears(ctx context.Context, customerID uuid.UUID) (*ArrearsSummary, error) {
	ledger, err := s.loadLedger(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.calculateFromLedger(ledger), nil
}

// CalculateMultipleArrears computes arrears per customer independently.
// One customer's failure is logged and skipped; it never aborts the batch.
func (s *ArrearsService) CalculateMultipleArrears(ctx context.Context, customerIDs []uuid.UUID) ([]ArrearsSummary, error) {
	summaries := make([]ArrearsSummary, 0, len(customerIDs))
	for _, id := range customerIDs {
		summary, err := s.CalculateArrears(ctx, id)
		if err != nil {
			s.logger.Warn("Skipping customer in batch arrears calculation",
				zap.String("customer_id", id.String()),
				zap.Error(err))
			continue
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// CalculateTotalArrears sums arrears across all active customers for
// dashboard aggregates. This is O(active customers x months since
// join) and deliberately uncached; customers are processed
// sequentially to bound load, with per-customer failures logged and
// skipped. Billing state is bulk-loaded up front to avoid per-customer
// query fan-out.
func (s *ArrearsService) CalculateTotalArrears(ctx context.Context) (*TotalArrearsReport, error) {
	customers, err := s.customerRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active customers: %w", err)
	}
	if len(customers) == 0 {
		return &TotalArrearsReport{TotalArrears: decimal.Zero}, nil
	}

	customerIDs := make([]uuid.UUID, len(customers))
	for i := range customers {
		customerIDs[i] = customers[i].ID
	}

	overrides, err := s.overrideRepo.FindByCustomerIDs(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk-load tariff overrides: %w", err)
	}
	histories, err := s.historyRepo.FindByCustomerIDs(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk-load tariff history: %w", err)
	}
	periods, err := s.statusRepo.FindByCustomerIDs(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk-load status periods: %w", err)
	}
	payments, err := s.paymentRepo.FindByCustomerIDs(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk-load payments: %w", err)
	}

	overridesByCustomer := make(map[uuid.UUID]map[valueobject.Month]billing.TariffOverride)
	for _, o := range overrides {
		if overridesByCustomer[o.CustomerID] == nil {
			overridesByCustomer[o.CustomerID] = make(map[valueobject.Month]billing.TariffOverride)
		}
		overridesByCustomer[o.CustomerID][o.Month] = o
	}
	historiesByCustomer := make(map[uuid.UUID]map[valueobject.Month]billing.TariffHistory)
	for _, h := range histories {
		if historiesByCustomer[h.CustomerID] == nil {
			historiesByCustomer[h.CustomerID] = make(map[valueobject.Month]billing.TariffHistory)
		}
		historiesByCustomer[h.CustomerID][h.Month] = h
	}
	periodsByCustomer := make(map[uuid.UUID]billing.StatusPeriods)
	for _, p := range periods {
		periodsByCustomer[p.CustomerID] = append(periodsByCustomer[p.CustomerID], p)
	}
	paidByCustomer := make(map[uuid.UUID]map[valueobject.Month]struct{})
	for _, payment := range payments {
		if paidByCustomer[payment.CustomerID] == nil {
			paidByCustomer[payment.CustomerID] = make(map[valueobject.Month]struct{})
		}
		for _, m := range payment.Months {
			paidByCustomer[payment.CustomerID][m] = struct{}{}
		}
	}

	categories := make(map[uuid.UUID]*billing.TariffCategory)

	report := &TotalArrearsReport{TotalArrears: decimal.Zero}
	for i := range customers {
		customer := &customers[i]

		category, ok := categories[customer.TariffCategoryID]
		if !ok {
			category, err = s.categoryRepo.FindByID(ctx, customer.TariffCategoryID)
			if err != nil {
				s.logger.Warn("Skipping customer in total arrears calculation",
					zap.String("customer_id", customer.ID.String()),
					zap.Error(err))
				report.SkippedCount++
				continue
			}
			categories[customer.TariffCategoryID] = category
		}

		ledger := &customerLedger{
			customer:   customer,
			category:   category,
			overrides:  overridesByCustomer[customer.ID],
			histories:  historiesByCustomer[customer.ID],
			periods:    periodsByCustomer[customer.ID],
			paidMonths: paidByCustomer[customer.ID],
		}
		summary := s.calculateFromLedger(ledger)
		report.TotalArrears = report.TotalArrears.Add(summary.TotalArrears)
		report.CustomerCount++
	}
	return report, nil
}

// calculateFromLedger is the single arrears routine shared by the
// per-customer and the preloaded batch paths.
func (s *ArrearsService) calculateFromLedger(ledger *customerLedger) *ArrearsSummary {
	now := s.clock.Now()
	currentMonth := valueobject.MonthOf(now)

	summary := &ArrearsSummary{
		CustomerID:   ledger.customer.ID,
		TotalArrears: decimal.Zero,
		Months:       []billing.TariffResolution{},
	}

	for _, month := range valueobject.MonthsBetween(ledger.customer.JoinMonth(), currentMonth) {
		if month.After(currentMonth) {
			continue
		}
		if _, paid := ledger.paidMonths[month]; paid {
			continue
		}
		if !ledger.periods.IsBillable(month, now) {
			continue
		}
		resolution := ledger.resolve(month)
		if !resolution.Amount.IsPositive() {
			continue
		}
		summary.Months = append(summary.Months, resolution)
		summary.TotalArrears = summary.TotalArrears.Add(resolution.Amount)
	}
	summary.TotalMonths = len(summary.Months)
	return summary
}

// loadLedger loads one customer's full billing state
func (s *ArrearsService) loadLedger(ctx context.Context, customerID uuid.UUID) (*customerLedger, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	category, err := s.categoryRepo.FindByID(ctx, customer.TariffCategoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Tariff category not found")
		}
		return nil, fmt.Errorf("failed to get tariff category: %w", err)
	}

	overrides, err := s.overrideRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff overrides: %w", err)
	}
	histories, err := s.historyRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff history: %w", err)
	}
	periods, err := s.statusRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status periods: %w", err)
	}
	payments, err := s.paymentRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	ledger := &customerLedger{
		customer:   customer,
		category:   category,
		overrides:  make(map[valueobject.Month]billing.TariffOverride, len(overrides)),
		histories:  make(map[valueobject.Month]billing.TariffHistory, len(histories)),
		periods:    periods,
		paidMonths: make(map[valueobject.Month]struct{}),
	}
	for _, o := range overrides {
		ledger.overrides[o.Month] = o
	}
	for _, h := range histories {
		ledger.histories[h.Month] = h
	}
	for _, payment := range payments {
		for _, m := range payment.Months {
			ledger.paidMonths[m] = struct{}{}
		}
	}
	return ledger, nil
}
