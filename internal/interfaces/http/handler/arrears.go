package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/retribusi/backend/internal/application/billing"
)

// ArrearsHandler handles arrears calculation endpoints
type ArrearsHandler struct {
	BaseHandler
	arrearsService *billingapp.ArrearsService
}

// NewArrearsHandler creates a new ArrearsHandler
func NewArrearsHandler(arrearsService *billingapp.ArrearsService) *ArrearsHandler {
	return &ArrearsHandler{arrearsService: arrearsService}
}

// BatchArrearsRequest represents a request to compute arrears for a set
// of customers in one call
type BatchArrearsRequest struct {
	CustomerIDs []string `json:"customer_ids" binding:"required,min=1,dive,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// GetByCustomer computes the unpaid months and total arrears of one
// customer up to the current month
func (h *ArrearsHandler) GetByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	summary, err := h.arrearsService.CalculateArrears(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Batch computes arrears for several customers at once
func (h *ArrearsHandler) Batch(c *gin.Context) {
	var req BatchArrearsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerIDs := make([]uuid.UUID, 0, len(req.CustomerIDs))
	for _, raw := range req.CustomerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		customerIDs = append(customerIDs, id)
	}

	summaries, err := h.arrearsService.CalculateMultipleArrears(c.Request.Context(), customerIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summaries)
}

// Total aggregates outstanding arrears across all active customers
func (h *ArrearsHandler) Total(c *gin.Context) {
	report, err := h.arrearsService.CalculateTotalArrears(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
