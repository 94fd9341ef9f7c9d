package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// PaymentService is the only writer of payment records. It snapshots
// each month's price at payment time, applies an optional discount and
// persists an immutable payment, then feeds the installment ledger.
type PaymentService struct {
	customerRepo    billing.CustomerRepository
	paymentRepo     billing.PaymentRepository
	installmentRepo billing.InstallmentRepository
	resolver        *TariffResolver
	clock           shared.Clock
	logger          *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	customerRepo billing.CustomerRepository,
	paymentRepo billing.PaymentRepository,
	installmentRepo billing.InstallmentRepository,
	resolver *TariffResolver,
	clock shared.Clock,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		customerRepo:    customerRepo,
		paymentRepo:     paymentRepo,
		installmentRepo: installmentRepo,
		resolver:        resolver,
		clock:           clock,
		logger:          logger,
	}
}

// RecordPaymentInput carries a validated payment request. The month
// list may include owed months and future prepaid months; the caller
// has already chosen which months to settle.
type RecordPaymentInput struct {
	CustomerID  uuid.UUID
	Months      valueobject.MonthList
	GrossAmount valueobject.Money
	Discount    valueobject.Money
	Method      billing.PaymentMethod
	Note        string
}

// RecordPayment resolves each requested month's current price into a
// breakdown snapshot and persists the payment. The snapshot is what
// receipts and reports read later; it is never recomputed when tariffs
// change. The breakdown is not required to sum to the final amount:
// collective partial payments are allocated oldest-first against the
// installment ledger.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*billing.Payment, error) {
	if _, err := s.customerRepo.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	breakdown := make(billing.MonthBreakdown, len(input.Months))
	for _, month := range input.Months {
		resolution, err := s.resolver.Resolve(ctx, input.CustomerID, month)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tariff for %s: %w", month, err)
		}
		breakdown[month] = billing.BreakdownEntry{
			Amount:  resolution.Amount,
			Source:  resolution.Source,
			Details: resolution.Details,
		}
	}

	payment, err := billing.NewPayment(
		input.CustomerID,
		input.Months,
		s.clock.Now(),
		input.GrossAmount,
		input.Discount,
		input.Method,
		input.Note,
		breakdown,
	)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	s.settleInstallments(ctx, payment)

	s.logger.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("customer_id", payment.CustomerID.String()),
		zap.Strings("months", payment.Months.Tokens()),
		zap.String("amount", payment.Amount.String()))

	return payment, nil
}

// settleInstallments allocates the payment's final amount across its
// months oldest-first. The installment ledger tracks the remainder per
// month; a ledger write failure is logged and never fails the payment.
func (s *PaymentService) settleInstallments(ctx context.Context, payment *billing.Payment) {
	months := make([]valueobject.Month, len(payment.Months))
	copy(months, payment.Months)
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	pool := payment.Amount
	for _, month := range months {
		if !pool.IsPositive() {
			return
		}
		owed := payment.Breakdown[month].Amount
		if !owed.IsPositive() {
			continue
		}

		installment, err := s.installmentRepo.FindByCustomerAndMonth(ctx, payment.CustomerID, month)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("Skipping installment update",
					zap.String("customer_id", payment.CustomerID.String()),
					zap.String("month", month.String()),
					zap.Error(err))
				continue
			}
			installment, err = billing.NewInstallment(payment.CustomerID, month, valueobject.NewMoneyIDR(owed))
			if err != nil {
				s.logger.Warn("Skipping installment creation",
					zap.String("customer_id", payment.CustomerID.String()),
					zap.String("month", month.String()),
					zap.Error(err))
				continue
			}
		}

		applied := decimal.Min(pool, installment.Remaining())
		if !applied.IsPositive() {
			continue
		}
		if err := installment.ApplyPayment(valueobject.NewMoneyIDR(applied), payment.ID); err != nil {
			s.logger.Warn("Skipping installment application",
				zap.String("customer_id", payment.CustomerID.String()),
				zap.String("month", month.String()),
				zap.Error(err))
			continue
		}
		if err := s.installmentRepo.Save(ctx, installment); err != nil {
			s.logger.Warn("Failed to save installment",
				zap.String("customer_id", payment.CustomerID.String()),
				zap.String("month", month.String()),
				zap.Error(err))
			continue
		}
		pool = pool.Sub(applied)
	}
}

// GetPayment returns one payment record
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPayments returns a customer's payments, newest first
func (s *PaymentService) ListPayments(ctx context.Context, customerID uuid.UUID) ([]billing.Payment, error) {
	payments, err := s.paymentRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListInstallments returns a customer's installment ledger
func (s *PaymentService) ListInstallments(ctx context.Context, customerID uuid.UUID) ([]billing.Installment, error) {
	installments, err := s.installmentRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	return installments, nil
}

// CancelPayment deletes a payment record. Deletion is refused once the
// payment has been deposited; that is a business-rule error surfaced
// to the caller, never retried.
func (s *PaymentService) CancelPayment(ctx context.Context, id uuid.UUID) error {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return err
	}
	if err := payment.EnsureCancellable(); err != nil {
		return err
	}
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	s.logger.Info("Payment cancelled",
		zap.String("payment_id", id.String()),
		zap.String("customer_id", payment.CustomerID.String()))
	return nil
}

// MarkDeposited flips the cash reconciliation marker on a payment
func (s *PaymentService) MarkDeposited(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := payment.MarkDeposited(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	return payment, nil
}
