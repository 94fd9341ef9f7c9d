package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	billingapp "github.com/retribusi/backend/internal/application/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
	"github.com/retribusi/backend/internal/infrastructure/persistence"
	"github.com/retribusi/backend/internal/infrastructure/persistence/models"
	"github.com/retribusi/backend/internal/interfaces/http/dto"
)

// testAPI bundles the HTTP engine with the services behind it so tests
// can seed data directly.
type testAPI struct {
	engine          *gin.Engine
	customerService *billingapp.CustomerService
	paymentService  *billingapp.PaymentService
}

// testNow is the pinned instant all handler tests run at
var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	customerRepo := persistence.NewGormCustomerRepository(db)
	categoryRepo := persistence.NewGormTariffCategoryRepository(db)
	overrideRepo := persistence.NewGormTariffOverrideRepository(db)
	historyRepo := persistence.NewGormTariffHistoryRepository(db)
	statusPeriodRepo := persistence.NewGormStatusPeriodRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	installmentRepo := persistence.NewGormInstallmentRepository(db)

	clock := shared.NewFixedClock(testNow)
	log := zap.NewNop()
	resolver := billingapp.NewTariffResolver(customerRepo, categoryRepo, overrideRepo, historyRepo)
	customerService := billingapp.NewCustomerService(customerRepo, categoryRepo, overrideRepo, statusPeriodRepo, clock, log)
	statusService := billingapp.NewStatusService(customerRepo, statusPeriodRepo, clock, log)
	historyService := billingapp.NewTariffHistoryService(customerRepo, categoryRepo, historyRepo, paymentRepo, log)
	arrearsService := billingapp.NewArrearsService(customerRepo, categoryRepo, overrideRepo, historyRepo, statusPeriodRepo, paymentRepo, clock, log)
	paymentService := billingapp.NewPaymentService(customerRepo, paymentRepo, installmentRepo, resolver, clock, log)

	customerHandler := NewCustomerHandler(customerService, statusService)
	tariffHandler := NewTariffHandler(customerService, historyService, resolver)
	paymentHandler := NewPaymentHandler(paymentService)
	arrearsHandler := NewArrearsHandler(arrearsService)

	engine := gin.New()
	api := engine.Group("/api/v1/billing")

	api.POST("/customers", customerHandler.Create)
	api.GET("/customers", customerHandler.List)
	api.GET("/customers/:id", customerHandler.GetByID)
	api.PUT("/customers/:id", customerHandler.Update)
	api.POST("/customers/:id/toggle-status", customerHandler.ToggleStatus)
	api.GET("/customers/:id/timeline", customerHandler.Timeline)

	api.POST("/tariff-categories", tariffHandler.CreateCategory)
	api.GET("/tariff-categories", tariffHandler.ListCategories)
	api.GET("/tariff-categories/:id", tariffHandler.GetCategory)
	api.PUT("/tariff-categories/:id/price", tariffHandler.UpdateCategoryPrice)
	api.POST("/customers/:id/tariff-overrides", tariffHandler.SetOverride)
	api.GET("/customers/:id/tariff-overrides", tariffHandler.ListOverrides)
	api.DELETE("/customers/:id/tariff-overrides/:month", tariffHandler.RemoveOverride)
	api.GET("/customers/:id/tariff-history", tariffHandler.ListHistory)
	api.POST("/customers/:id/change-tariff", tariffHandler.ChangeTariff)
	api.POST("/tariff/preserve/bulk", tariffHandler.PreserveBulk)
	api.GET("/customers/:id/tariff/:month", tariffHandler.Resolve)

	api.POST("/payments", paymentHandler.Record)
	api.GET("/payments/:id", paymentHandler.GetByID)
	api.DELETE("/payments/:id", paymentHandler.Cancel)
	api.POST("/payments/:id/deposit", paymentHandler.MarkDeposited)
	api.GET("/customers/:id/payments", paymentHandler.ListByCustomer)
	api.GET("/customers/:id/installments", paymentHandler.ListInstallments)

	api.GET("/customers/:id/arrears", arrearsHandler.GetByCustomer)
	api.POST("/arrears/batch", arrearsHandler.Batch)
	api.GET("/arrears/total", arrearsHandler.Total)

	return &testAPI{
		engine:          engine,
		customerService: customerService,
		paymentService:  paymentService,
	}
}

func (a *testAPI) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// decodeData unmarshals the data field of a success response into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	resp := decodeResponse(t, w)
	require.True(t, resp.Success, "expected success response, body: %s", w.Body.String())
	payload, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, out))
}

// seedCategory creates a tariff category directly through the service
func (a *testAPI) seedCategory(t *testing.T, name string, price int64) string {
	t.Helper()
	category, err := a.customerService.CreateTariffCategory(
		context.Background(), name, valueobject.NewMoneyIDRFromInt(price))
	require.NoError(t, err)
	return category.ID.String()
}

// seedCustomer creates a customer joined at the given date
func (a *testAPI) seedCustomer(t *testing.T, name, categoryID string, joinDate time.Time) string {
	t.Helper()
	customer, err := a.customerService.CreateCustomer(context.Background(), billingapp.CreateCustomerInput{
		Name:             name,
		Address:          "Jl. Melati 12",
		Region:           "RW 03",
		JoinDate:         joinDate,
		TariffCategoryID: mustUUID(t, categoryID),
	})
	require.NoError(t, err)
	return customer.ID.String()
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	resp := decodeResponse(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code)
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
