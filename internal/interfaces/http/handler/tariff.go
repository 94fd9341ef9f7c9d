package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/retribusi/backend/internal/application/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
	"github.com/retribusi/backend/internal/interfaces/http/dto"
)

// TariffHandler handles tariff category, override and history endpoints
type TariffHandler struct {
	BaseHandler
	customerService *billingapp.CustomerService
	historyService  *billingapp.TariffHistoryService
	resolver        *billingapp.TariffResolver
}

// NewTariffHandler creates a new TariffHandler
func NewTariffHandler(
	customerService *billingapp.CustomerService,
	historyService *billingapp.TariffHistoryService,
	resolver *billingapp.TariffResolver,
) *TariffHandler {
	return &TariffHandler{
		customerService: customerService,
		historyService:  historyService,
		resolver:        resolver,
	}
}

// CreateTariffCategoryRequest represents a request to create a tariff category
type CreateTariffCategoryRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100" example:"Rumah Tangga"`
	MonthlyPrice float64 `json:"monthly_price" binding:"required,gt=0" example:"25000"`
}

// UpdateTariffCategoryPriceRequest represents a request to change a category price
type UpdateTariffCategoryPriceRequest struct {
	MonthlyPrice float64 `json:"monthly_price" binding:"required,gt=0" example:"30000"`
}

// SetTariffOverrideRequest represents a request to set a per-month price override
type SetTariffOverrideRequest struct {
	Month  string  `json:"month" binding:"required" example:"2024-06"`
	Amount float64 `json:"amount" binding:"gte=0" example:"20000"`
	Note   string  `json:"note" binding:"max=500" example:"keringanan RT"`
}

// ChangeTariffRequest represents a request to move a customer to another
// tariff category from an effective date onward
type ChangeTariffRequest struct {
	TariffCategoryID string    `json:"tariff_category_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	EffectiveDate    time.Time `json:"effective_date" binding:"required" example:"2024-06-01T00:00:00Z"`
}

// BulkPreserveRequest represents a request to preserve tariff history
// for several customers ahead of the same effective date
type BulkPreserveRequest struct {
	CustomerIDs   []string  `json:"customer_ids" binding:"required,min=1,dive,uuid"`
	EffectiveDate time.Time `json:"effective_date" binding:"required" example:"2024-06-01T00:00:00Z"`
}

// CreateCategory creates a new tariff category
func (h *TariffHandler) CreateCategory(c *gin.Context) {
	var req CreateTariffCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.customerService.CreateTariffCategory(
		c.Request.Context(), req.Name, valueobject.NewMoneyIDRFromFloat(req.MonthlyPrice))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTariffCategoryResponse(category))
}

// GetCategory retrieves a tariff category by ID
func (h *TariffHandler) GetCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tariff category ID format")
		return
	}

	category, err := h.customerService.GetTariffCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTariffCategoryResponse(category))
}

// ListCategories retrieves tariff categories
func (h *TariffHandler) ListCategories(c *gin.Context) {
	filter := shared.DefaultFilter()
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Search = req.Search

	categories, err := h.customerService.ListTariffCategories(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTariffCategoryResponses(categories))
}

// UpdateCategoryPrice changes the monthly price of a tariff category.
// Past payment breakdowns keep their recorded amounts; only future
// resolutions pick up the new price.
func (h *TariffHandler) UpdateCategoryPrice(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tariff category ID format")
		return
	}

	var req UpdateTariffCategoryPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.customerService.UpdateTariffCategoryPrice(
		c.Request.Context(), categoryID, valueobject.NewMoneyIDRFromFloat(req.MonthlyPrice))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTariffCategoryResponse(category))
}

// SetOverride creates or replaces the manual price override of one
// customer month
func (h *TariffHandler) SetOverride(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req SetTariffOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	month, err := valueobject.ParseMonth(req.Month)
	if err != nil {
		h.BadRequest(c, "Invalid month format, expected YYYY-MM")
		return
	}

	override, err := h.customerService.SetTariffOverride(
		c.Request.Context(), customerID, month, valueobject.NewMoneyIDRFromFloat(req.Amount), req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTariffOverrideResponse(override))
}

// ListOverrides retrieves all overrides of a customer
func (h *TariffHandler) ListOverrides(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	overrides, err := h.customerService.ListTariffOverrides(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTariffOverrideResponses(overrides))
}

// RemoveOverride deletes the override of one customer month
func (h *TariffHandler) RemoveOverride(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	month, err := valueobject.ParseMonth(c.Param("month"))
	if err != nil {
		h.BadRequest(c, "Invalid month format, expected YYYY-MM")
		return
	}

	if err := h.customerService.RemoveTariffOverride(c.Request.Context(), customerID, month); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListHistory retrieves the preserved tariff history of a customer
func (h *TariffHandler) ListHistory(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	entries, err := h.historyService.ListHistory(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTariffHistoryResponses(entries))
}

// ChangeTariff preserves the customer's unpaid months at the old price,
// then moves the customer to the new category
func (h *TariffHandler) ChangeTariff(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req ChangeTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.TariffCategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid tariff category ID format")
		return
	}

	report, err := h.historyService.ChangeTariff(c.Request.Context(), customerID, categoryID, req.EffectiveDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// PreserveBulk preserves unpaid-month prices for several customers at
// once, ahead of a shared effective date. Customers that fail are
// reported individually; the run itself still succeeds.
func (h *TariffHandler) PreserveBulk(c *gin.Context) {
	var req BulkPreserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerIDs := make([]uuid.UUID, len(req.CustomerIDs))
	for i, raw := range req.CustomerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		customerIDs[i] = id
	}

	result, err := h.historyService.PreserveBulk(c.Request.Context(), customerIDs, req.EffectiveDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Resolve returns the effective price of one customer month with its
// provenance
func (h *TariffHandler) Resolve(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	month, err := valueobject.ParseMonth(c.Param("month"))
	if err != nil {
		h.BadRequest(c, "Invalid month format, expected YYYY-MM")
		return
	}

	resolution, err := h.resolver.Resolve(c.Request.Context(), customerID, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTariffResolutionResponse(resolution))
}
