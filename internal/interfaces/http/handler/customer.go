package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/retribusi/backend/internal/application/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/interfaces/http/dto"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *billingapp.CustomerService
	statusService   *billingapp.StatusService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *billingapp.CustomerService, statusService *billingapp.StatusService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		statusService:   statusService,
	}
}

// CreateCustomerRequest represents a request to register a new customer
type CreateCustomerRequest struct {
	Name                string     `json:"name" binding:"required,min=1,max=200" example:"Budi Santoso"`
	Address             string     `json:"address" binding:"max=500" example:"Jl. Melati 12"`
	Region              string     `json:"region" binding:"max=100" example:"RW 03"`
	JoinDate            time.Time  `json:"join_date" binding:"required" example:"2024-01-15T00:00:00Z"`
	TariffCategoryID    string     `json:"tariff_category_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	TariffEffectiveDate *time.Time `json:"tariff_effective_date" example:"2024-03-01T00:00:00Z"`
}

// UpdateCustomerRequest represents a request to edit a customer profile
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200" example:"Budi Santoso"`
	Address string `json:"address" binding:"max=500" example:"Jl. Melati 12"`
	Region  string `json:"region" binding:"max=100" example:"RW 03"`
}

// Create registers a new customer and opens its first status period
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.TariffCategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid tariff category ID format")
		return
	}

	input := billingapp.CreateCustomerInput{
		Name:             req.Name,
		Address:          req.Address,
		Region:           req.Region,
		JoinDate:         req.JoinDate,
		TariffCategoryID: categoryID,
	}
	if req.TariffEffectiveDate != nil {
		input.TariffEffectiveDate = *req.TariffEffectiveDate
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCustomerResponse(customer))
}

// GetByID retrieves a customer by its ID
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCustomerResponse(customer))
}

// List retrieves a paginated list of customers with optional filtering
func (h *CustomerHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  map[string]interface{}{},
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if region := c.Query("region"); region != "" {
		filter.Filters["region"] = region
	}
	if categoryID := c.Query("tariff_category_id"); categoryID != "" {
		filter.Filters["tariff_category_id"] = categoryID
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toCustomerResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Update edits a customer profile
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), customerID, billingapp.UpdateCustomerInput{
		Name:    req.Name,
		Address: req.Address,
		Region:  req.Region,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCustomerResponse(customer))
}

// ToggleStatus flips a customer between ACTIVE and INACTIVE, closing
// the open status period and opening a new one
func (h *CustomerHandler) ToggleStatus(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.statusService.ToggleStatus(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCustomerResponse(customer))
}

// Timeline retrieves the full status period history of a customer
func (h *CustomerHandler) Timeline(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	periods, err := h.statusService.GetTimeline(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toStatusPeriodResponses(periods))
}
