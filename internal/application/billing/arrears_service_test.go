package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

type arrearsFixture struct {
	customerRepo *mockCustomerRepository
	categoryRepo *mockTariffCategoryRepository
	overrideRepo *mockTariffOverrideRepository
	historyRepo  *mockTariffHistoryRepository
	statusRepo   *mockStatusPeriodRepository
	paymentRepo  *mockPaymentRepository
	service      *ArrearsService
}

func newArrearsFixture(now time.Time) *arrearsFixture {
	f := &arrearsFixture{
		customerRepo: new(mockCustomerRepository),
		categoryRepo: new(mockTariffCategoryRepository),
		overrideRepo: new(mockTariffOverrideRepository),
		historyRepo:  new(mockTariffHistoryRepository),
		statusRepo:   new(mockStatusPeriodRepository),
		paymentRepo:  new(mockPaymentRepository),
	}
	f.service = NewArrearsService(
		f.customerRepo,
		f.categoryRepo,
		f.overrideRepo,
		f.historyRepo,
		f.statusRepo,
		f.paymentRepo,
		shared.NewFixedClock(now),
		zap.NewNop(),
	)
	return f
}

func (f *arrearsFixture) stubLedger(
	customer *billing.Customer,
	category *billing.TariffCategory,
	overrides []billing.TariffOverride,
	histories []billing.TariffHistory,
	periods billing.StatusPeriods,
	payments []billing.Payment,
) {
	f.customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	f.overrideRepo.On("FindByCustomer", mock.Anything, customer.ID).Return(overrides, nil)
	f.historyRepo.On("FindByCustomer", mock.Anything, customer.ID).Return(histories, nil)
	f.statusRepo.On("FindByCustomer", mock.Anything, customer.ID).Return(periods, nil)
	f.paymentRepo.On("FindByCustomer", mock.Anything, customer.ID).Return(payments, nil)
}

func createTestPayment(t *testing.T, customer *billing.Customer, amount int64, months ...valueobject.Month) billing.Payment {
	t.Helper()
	breakdown := make(billing.MonthBreakdown, len(months))
	per := decimal.NewFromInt(amount).Div(decimal.NewFromInt(int64(len(months))))
	for _, m := range months {
		breakdown[m] = billing.BreakdownEntry{Amount: per, Source: billing.TariffSourceDefault}
	}
	payment, err := billing.NewPayment(
		customer.ID,
		valueobject.MonthList(months),
		time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
		valueobject.NewMoneyIDRFromInt(amount),
		valueobject.ZeroIDR(),
		billing.PaymentMethodCash,
		"",
		breakdown,
	)
	require.NoError(t, err)
	return *payment
}

func TestCalculateArrears(t *testing.T) {
	t.Run("accumulates every unpaid month from join through the current month", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-04"))
		category := createTestCategory("Rumah Tangga", 25000)
		customer := createTestCustomer(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), category.ID)
		f.stubLedger(customer, category, nil, nil, billing.StatusPeriods{}, nil)

		summary, err := f.service.CalculateArrears(context.Background(), customer.ID)

		require.NoError(t, err)
		assert.True(t, summary.TotalArrears.Equal(decimal.NewFromInt(100000)))
		assert.Equal(t, 4, summary.TotalMonths)
		require.Len(t, summary.Months, 4)
		assert.Equal(t, month("2024-01"), summary.Months[0].Month)
		assert.Equal(t, month("2024-04"), summary.Months[3].Month)
		for _, r := range summary.Months {
			assert.Equal(t, billing.TariffSourceDefault, r.Source)
		}
	})

	t.Run("excludes months covered by payments", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-04"))
		category := createTestCategory("Rumah Tangga", 25000)
		customer := createTestCustomer(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), category.ID)
		payment := createTestPayment(t, customer, 50000, month("2024-01"), month("2024-02"))
		f.stubLedger(customer, category, nil, nil, billing.StatusPeriods{}, []billing.Payment{payment})

		summary, err := f.service.CalculateArrears(context.Background(), customer.ID)

		require.NoError(t, err)
		assert.True(t, summary.TotalArrears.Equal(decimal.NewFromInt(50000)))
		assert.Equal(t, 2, summary.TotalMonths)
		assert.Equal(t, month("2024-03"), summary.Months[0].Month)
		assert.Equal(t, month("2024-04"), summary.Months[1].Month)
	})

	t.Run("uses overrides and history per month", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-03"))
		category := createTestCategory("Rumah Tangga", 30000)
		customer := createTestCustomer(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), category.ID)

		override, err := billing.NewTariffOverride(customer.ID, month("2024-01"), valueobject.NewMoneyIDRFromInt(10000), "")
		require.NoError(t, err)
		history, err := billing.NewTariffHistory(customer.ID, month("2024-02"), valueobject.NewMoneyIDRFromInt(25000), "")
		require.NoError(t, err)

		f.stubLedger(customer, category,
			[]billing.TariffOverride{*override},
			[]billing.TariffHistory{*history},
			billing.StatusPeriods{}, nil)

		summary, err := f.service.CalculateArrears(context.Background(), customer.ID)

		require.NoError(t, err)
		// 10000 override + 25000 history + 30000 default
		assert.True(t, summary.TotalArrears.Equal(decimal.NewFromInt(65000)))
		assert.Equal(t, billing.TariffSourceOverride, summary.Months[0].Source)
		assert.Equal(t, billing.TariffSourceHistory, summary.Months[1].Source)
		assert.Equal(t, billing.TariffSourceDefault, summary.Months[2].Source)
	})

	t.Run("skips months where the customer was inactive", func(t *testing.T) {
		now := midMonth("2024-04")
		f := newArrearsFixture(now)
		category := createTestCategory("Rumah Tangga", 25000)
		joinDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		customer := createTestCustomer(joinDate, category.ID)

		active, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusActive, joinDate)
		require.NoError(t, err)
		toggleAt := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
		require.NoError(t, active.Close(toggleAt))
		inactive, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusInactive, toggleAt)
		require.NoError(t, err)

		f.stubLedger(customer, category, nil, nil, billing.StatusPeriods{*active, *inactive}, nil)

		summary, err := f.service.CalculateArrears(context.Background(), customer.ID)

		require.NoError(t, err)
		// Jan and Feb fall in the active period, Mar and Apr in the
		// open inactive one
		assert.True(t, summary.TotalArrears.Equal(decimal.NewFromInt(50000)))
		assert.Equal(t, 2, summary.TotalMonths)
	})

	t.Run("months outside every recorded period stay billable", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-02"))
		category := createTestCategory("Rumah Tangga", 25000)
		customer := createTestCustomer(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), category.ID)

		late, err := billing.NewStatusPeriod(customer.ID, billing.CustomerStatusActive, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		f.stubLedger(customer, category, nil, nil, billing.StatusPeriods{*late}, nil)

		summary, err := f.service.CalculateArrears(context.Background(), customer.ID)

		require.NoError(t, err)
		// 2024-01 predates the only period but is still owed
		assert.Equal(t, 2, summary.TotalMonths)
		assert.Equal(t, month("2024-01"), summary.Months[0].Month)
	})

	t.Run("zero-amount months before the effective date are not owed", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-04"))
		category := createTestCategory("Rumah Tangga", 25000)
		customer := createTestCustomer(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), category.ID)
		require.NoError(t, customer.ChangeTariff(category.ID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

		f.stubLedger(customer, category, nil, nil, billing.StatusPeriods{}, nil)

		summary, err := f.service.CalculateArrears(context.Background(), customer.ID)

		require.NoError(t, err)
		assert.True(t, summary.TotalArrears.Equal(decimal.NewFromInt(50000)))
		assert.Equal(t, 2, summary.TotalMonths)
		assert.Equal(t, month("2024-03"), summary.Months[0].Month)
	})

	t.Run("missing customer is a domain error", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-04"))
		customerID := uuid.New()
		f.customerRepo.On("FindByID", mock.Anything, customerID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CalculateArrears(context.Background(), customerID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CUSTOMER_NOT_FOUND", domainErr.Code)
	})
}

func TestCalculateMultipleArrears(t *testing.T) {
	t.Run("one failing customer does not abort the batch", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-03"))
		category := createTestCategory("Rumah Tangga", 25000)
		customer := createTestCustomer(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), category.ID)
		f.stubLedger(customer, category, nil, nil, billing.StatusPeriods{}, nil)

		missingID := uuid.New()
		f.customerRepo.On("FindByID", mock.Anything, missingID).Return(nil, shared.ErrNotFound)

		summaries, err := f.service.CalculateMultipleArrears(context.Background(), []uuid.UUID{missingID, customer.ID})

		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, customer.ID, summaries[0].CustomerID)
		assert.True(t, summaries[0].TotalArrears.Equal(decimal.NewFromInt(75000)))
	})
}

func TestCalculateTotalArrears(t *testing.T) {
	t.Run("sums across active customers with bulk-loaded state", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-03"))
		category := createTestCategory("Rumah Tangga", 25000)
		alpha := createTestCustomer(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), category.ID)
		bravo := createTestCustomer(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), category.ID)
		payment := createTestPayment(t, bravo, 25000, month("2024-02"))

		ids := []uuid.UUID{alpha.ID, bravo.ID}
		f.customerRepo.On("FindActive", mock.Anything).Return([]billing.Customer{*alpha, *bravo}, nil)
		f.overrideRepo.On("FindByCustomerIDs", mock.Anything, ids).Return([]billing.TariffOverride{}, nil)
		f.historyRepo.On("FindByCustomerIDs", mock.Anything, ids).Return([]billing.TariffHistory{}, nil)
		f.statusRepo.On("FindByCustomerIDs", mock.Anything, ids).Return([]billing.StatusPeriod{}, nil)
		f.paymentRepo.On("FindByCustomerIDs", mock.Anything, ids).Return([]billing.Payment{payment}, nil)
		f.categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil).Once()

		report, err := f.service.CalculateTotalArrears(context.Background())

		require.NoError(t, err)
		// alpha owes Jan-Mar, bravo paid Feb and owes Mar
		assert.True(t, report.TotalArrears.Equal(decimal.NewFromInt(100000)))
		assert.Equal(t, 2, report.CustomerCount)
		assert.Equal(t, 0, report.SkippedCount)
		// the category is loaded once and cached across customers
		f.categoryRepo.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("customer with an unresolvable category is skipped and counted", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-03"))
		category := createTestCategory("Rumah Tangga", 25000)
		ok := createTestCustomer(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), category.ID)
		broken := createTestCustomer(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), uuid.New())

		ids := []uuid.UUID{ok.ID, broken.ID}
		f.customerRepo.On("FindActive", mock.Anything).Return([]billing.Customer{*ok, *broken}, nil)
		f.overrideRepo.On("FindByCustomerIDs", mock.Anything, ids).Return([]billing.TariffOverride{}, nil)
		f.historyRepo.On("FindByCustomerIDs", mock.Anything, ids).Return([]billing.TariffHistory{}, nil)
		f.statusRepo.On("FindByCustomerIDs", mock.Anything, ids).Return([]billing.StatusPeriod{}, nil)
		f.paymentRepo.On("FindByCustomerIDs", mock.Anything, ids).Return([]billing.Payment{}, nil)
		f.categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		f.categoryRepo.On("FindByID", mock.Anything, broken.TariffCategoryID).Return(nil, shared.ErrNotFound)

		report, err := f.service.CalculateTotalArrears(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, report.CustomerCount)
		assert.Equal(t, 1, report.SkippedCount)
		assert.True(t, report.TotalArrears.Equal(decimal.NewFromInt(75000)))
	})

	t.Run("no active customers yields a zero report", func(t *testing.T) {
		f := newArrearsFixture(midMonth("2024-03"))
		f.customerRepo.On("FindActive", mock.Anything).Return([]billing.Customer{}, nil)

		report, err := f.service.CalculateTotalArrears(context.Background())

		require.NoError(t, err)
		assert.True(t, report.TotalArrears.IsZero())
		assert.Equal(t, 0, report.CustomerCount)
	})
}
