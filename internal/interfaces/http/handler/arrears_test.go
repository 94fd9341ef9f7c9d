package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/retribusi/backend/internal/application/billing"
)

func TestArrearsHandlerGetByCustomer(t *testing.T) {
	api := setupTestAPI(t)
	categoryID := api.seedCategory(t, "Rumah Tangga", 25000)
	customerID := api.seedCustomer(t, "Budi Santoso", categoryID, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	w := api.request(t, http.MethodGet, "/api/v1/billing/customers/"+customerID+"/arrears", nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	// January through June at the pinned clock, all unpaid
	var summary billingapp.ArrearsSummary
	decodeData(t, w, &summary)
	assert.Equal(t, 6, summary.TotalMonths)
	assert.Equal(t, "150000", summary.TotalArrears.String())
}

func TestArrearsHandlerGetByCustomerAfterPayment(t *testing.T) {
	api := setupTestAPI(t)
	categoryID := api.seedCategory(t, "Rumah Tangga", 25000)
	customerID := api.seedCustomer(t, "Budi Santoso", categoryID, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	w := api.request(t, http.MethodPost, "/api/v1/billing/payments", RecordPaymentRequest{
		CustomerID: customerID,
		Months:     []string{"2024-01", "2024-02"},
		Amount:     50000,
		Method:     "CASH",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.request(t, http.MethodGet, "/api/v1/billing/customers/"+customerID+"/arrears", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary billingapp.ArrearsSummary
	decodeData(t, w, &summary)
	assert.Equal(t, 4, summary.TotalMonths)
	assert.Equal(t, "100000", summary.TotalArrears.String())
}

func TestArrearsHandlerGetByCustomerNotFound(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request(t, http.MethodGet, "/api/v1/billing/customers/"+uuid.NewString()+"/arrears", nil)
	assertErrorCode(t, w, http.StatusNotFound, "CUSTOMER_NOT_FOUND")
}

func TestArrearsHandlerBatch(t *testing.T) {
	api := setupTestAPI(t)
	categoryID := api.seedCategory(t, "Rumah Tangga", 25000)
	firstID := api.seedCustomer(t, "Budi Santoso", categoryID, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	secondID := api.seedCustomer(t, "Siti Rahma", categoryID, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	w := api.request(t, http.MethodPost, "/api/v1/billing/arrears/batch", BatchArrearsRequest{
		CustomerIDs: []string{firstID, secondID},
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var summaries []billingapp.ArrearsSummary
	decodeData(t, w, &summaries)
	require.Len(t, summaries, 2)
	assert.Equal(t, 6, summaries[0].TotalMonths)
	assert.Equal(t, 2, summaries[1].TotalMonths)
}

func TestArrearsHandlerBatchSkipsUnknownCustomer(t *testing.T) {
	api := setupTestAPI(t)
	categoryID := api.seedCategory(t, "Rumah Tangga", 25000)
	customerID := api.seedCustomer(t, "Budi Santoso", categoryID, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	w := api.request(t, http.MethodPost, "/api/v1/billing/arrears/batch", BatchArrearsRequest{
		CustomerIDs: []string{customerID, uuid.NewString()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []billingapp.ArrearsSummary
	decodeData(t, w, &summaries)
	require.Len(t, summaries, 1)
}

func TestArrearsHandlerTotal(t *testing.T) {
	api := setupTestAPI(t)
	categoryID := api.seedCategory(t, "Rumah Tangga", 25000)
	api.seedCustomer(t, "Budi Santoso", categoryID, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	api.seedCustomer(t, "Siti Rahma", categoryID, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	w := api.request(t, http.MethodGet, "/api/v1/billing/arrears/total", nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var report billingapp.TotalArrearsReport
	decodeData(t, w, &report)
	assert.Equal(t, 2, report.CustomerCount)
	assert.Equal(t, "200000", report.TotalArrears.String())
}
