package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
)

// StatusService maintains the customer activation timeline. Every
// toggle closes the open period and opens a new one, so the timeline
// stays gapless going forward and arrears can tell billable months
// from inactive ones.
type StatusService struct {
	customerRepo billing.CustomerRepository
	periodRepo   billing.StatusPeriodRepository
	clock        shared.Clock
	logger       *zap.Logger
}

// NewStatusService creates a new StatusService
func NewStatusService(
	customerRepo billing.CustomerRepository,
	periodRepo billing.StatusPeriodRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *StatusService {
	return &StatusService{
		customerRepo: customerRepo,
		periodRepo:   periodRepo,
		clock:        clock,
		logger:       logger,
	}
}

// ToggleStatus flips the customer between ACTIVE and INACTIVE. The
// currently open status period is closed at the toggle instant and a
// new period with the new status is opened; customer and both periods
// persist in one transaction.
func (s *StatusService) ToggleStatus(ctx context.Context, customerID uuid.UUID) (*billing.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	now := s.clock.Now()

	var closed *billing.StatusPeriod
	open, err := s.periodRepo.FindOpenByCustomer(ctx, customerID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to get open status period: %w", err)
		}
	} else {
		if err := open.Close(now); err != nil {
			return nil, err
		}
		closed = open
	}

	newStatus := billing.CustomerStatusInactive
	if !customer.IsActive() {
		newStatus = billing.CustomerStatusActive
	}

	opened, err := billing.NewStatusPeriod(customerID, newStatus, now)
	if err != nil {
		return nil, err
	}
	if err := customer.SetStatus(newStatus); err != nil {
		return nil, err
	}

	if err := s.periodRepo.SaveToggle(ctx, customer, closed, opened); err != nil {
		return nil, fmt.Errorf("failed to save status toggle: %w", err)
	}

	s.logger.Info("Customer status toggled",
		zap.String("customer_id", customerID.String()),
		zap.String("status", newStatus.String()))

	return customer, nil
}

// GetTimeline returns the customer's status periods ordered by start
func (s *StatusService) GetTimeline(ctx context.Context, customerID uuid.UUID) (billing.StatusPeriods, error) {
	periods, err := s.periodRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status periods: %w", err)
	}
	return periods, nil
}
