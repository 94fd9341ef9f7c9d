package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// Mock implementations

type mockCustomerRepository struct {
	mock.Mock
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *mockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Customer), args.Error(1)
}

func (m *mockCustomerRepository) FindActive(ctx context.Context) ([]billing.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Customer), args.Error(1)
}

func (m *mockCustomerRepository) Save(ctx context.Context, customer *billing.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *mockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockTariffCategoryRepository struct {
	mock.Mock
}

func (m *mockTariffCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.TariffCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.TariffCategory), args.Error(1)
}

func (m *mockTariffCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.TariffCategory, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.TariffCategory), args.Error(1)
}

func (m *mockTariffCategoryRepository) Save(ctx context.Context, category *billing.TariffCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockTariffCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTariffCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockTariffOverrideRepository struct {
	mock.Mock
}

func (m *mockTariffOverrideRepository) FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month valueobject.Month) (*billing.TariffOverride, error) {
	args := m.Called(ctx, customerID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.TariffOverride), args.Error(1)
}

func (m *mockTariffOverrideRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.TariffOverride, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.TariffOverride), args.Error(1)
}

func (m *mockTariffOverrideRepository) FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]billing.TariffOverride, error) {
	args := m.Called(ctx, customerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.TariffOverride), args.Error(1)
}

func (m *mockTariffOverrideRepository) Save(ctx context.Context, override *billing.TariffOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *mockTariffOverrideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTariffHistoryRepository struct {
	mock.Mock
}

func (m *mockTariffHistoryRepository) FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month valueobject.Month) (*billing.TariffHistory, error) {
	args := m.Called(ctx, customerID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.TariffHistory), args.Error(1)
}

func (m *mockTariffHistoryRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.TariffHistory, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.TariffHistory), args.Error(1)
}

func (m *mockTariffHistoryRepository) FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]billing.TariffHistory, error) {
	args := m.Called(ctx, customerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.TariffHistory), args.Error(1)
}

func (m *mockTariffHistoryRepository) CreateIfAbsent(ctx context.Context, history *billing.TariffHistory) (bool, error) {
	args := m.Called(ctx, history)
	return args.Bool(0), args.Error(1)
}

func (m *mockTariffHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStatusPeriodRepository struct {
	mock.Mock
}

func (m *mockStatusPeriodRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (billing.StatusPeriods, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(billing.StatusPeriods), args.Error(1)
}

func (m *mockStatusPeriodRepository) FindOpenByCustomer(ctx context.Context, customerID uuid.UUID) (*billing.StatusPeriod, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.StatusPeriod), args.Error(1)
}

func (m *mockStatusPeriodRepository) FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]billing.StatusPeriod, error) {
	args := m.Called(ctx, customerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.StatusPeriod), args.Error(1)
}

func (m *mockStatusPeriodRepository) Save(ctx context.Context, period *billing.StatusPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *mockStatusPeriodRepository) SaveToggle(ctx context.Context, customer *billing.Customer, closed *billing.StatusPeriod, opened *billing.StatusPeriod) error {
	args := m.Called(ctx, customer, closed, opened)
	return args.Error(0)
}

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *mockPaymentRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *mockPaymentRepository) FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, customerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *mockPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockInstallmentRepository struct {
	mock.Mock
}

func (m *mockInstallmentRepository) FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month valueobject.Month) (*billing.Installment, error) {
	args := m.Called(ctx, customerID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Installment), args.Error(1)
}

func (m *mockInstallmentRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.Installment, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Installment), args.Error(1)
}

func (m *mockInstallmentRepository) Save(ctx context.Context, installment *billing.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

// Compile-time checks that every mock satisfies its repository interface
var (
	_ billing.CustomerRepository       = (*mockCustomerRepository)(nil)
	_ billing.TariffCategoryRepository = (*mockTariffCategoryRepository)(nil)
	_ billing.TariffOverrideRepository = (*mockTariffOverrideRepository)(nil)
	_ billing.TariffHistoryRepository  = (*mockTariffHistoryRepository)(nil)
	_ billing.StatusPeriodRepository   = (*mockStatusPeriodRepository)(nil)
	_ billing.PaymentRepository        = (*mockPaymentRepository)(nil)
	_ billing.InstallmentRepository    = (*mockInstallmentRepository)(nil)
)
