package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/retribusi/backend/internal/application/billing"
	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// PaymentHandler handles payment and installment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest represents a request to record a payment for one
// or more billing months
type RecordPaymentRequest struct {
	CustomerID string   `json:"customer_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Months     []string `json:"months" binding:"required,min=1" example:"2024-05,2024-06"`
	Amount     float64  `json:"amount" binding:"required,gt=0" example:"50000"`
	Discount   float64  `json:"discount" binding:"gte=0" example:"0"`
	Method     string   `json:"method" binding:"required,oneof=CASH TRANSFER GATEWAY" example:"CASH"`
	Note       string   `json:"note" binding:"max=500" example:"bayar 2 bulan"`
}

// Record records a payment with its per-month price breakdown snapshot
// and settles the installment ledger oldest-first
func (h *PaymentHandler) Record(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	months, err := valueobject.ParseMonthList(req.Months)
	if err != nil {
		h.BadRequest(c, "Invalid month format, expected YYYY-MM")
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), billingapp.RecordPaymentInput{
		CustomerID:  customerID,
		Months:      months,
		GrossAmount: valueobject.NewMoneyIDRFromFloat(req.Amount),
		Discount:    valueobject.NewMoneyIDRFromFloat(req.Discount),
		Method:      billing.PaymentMethod(req.Method),
		Note:        req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPaymentResponse(payment))
}

// GetByID retrieves a payment by its ID
func (h *PaymentHandler) GetByID(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// ListByCustomer retrieves all payments of a customer, newest first
func (h *PaymentHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponses(payments))
}

// Cancel deletes a not yet deposited payment
func (h *PaymentHandler) Cancel(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	if err := h.paymentService.CancelPayment(c.Request.Context(), paymentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// MarkDeposited flags a payment as handed over during cash reconciliation
func (h *PaymentHandler) MarkDeposited(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.MarkDeposited(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// ListInstallments retrieves the installment ledger of a customer,
// oldest month first
func (h *PaymentHandler) ListInstallments(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	installments, err := h.paymentService.ListInstallments(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInstallmentResponses(installments))
}
