package handler

import (
	"time"

	"github.com/retribusi/backend/internal/domain/billing"
)

// TariffCategoryResponse represents a tariff category in API responses
type TariffCategoryResponse struct {
	ID           string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Name         string  `json:"name" example:"Rumah Tangga"`
	MonthlyPrice float64 `json:"monthly_price" example:"25000"`
	CreatedAt    string  `json:"created_at" example:"2024-01-15T12:00:00Z"`
	UpdatedAt    string  `json:"updated_at" example:"2024-01-15T12:00:00Z"`
	Version      int     `json:"version" example:"1"`
}

func toTariffCategoryResponse(cat *billing.TariffCategory) TariffCategoryResponse {
	return TariffCategoryResponse{
		ID:           cat.ID.String(),
		Name:         cat.Name,
		MonthlyPrice: cat.MonthlyPrice.InexactFloat64(),
		CreatedAt:    cat.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    cat.UpdatedAt.Format(time.RFC3339),
		Version:      cat.Version,
	}
}

func toTariffCategoryResponses(categories []billing.TariffCategory) []TariffCategoryResponse {
	out := make([]TariffCategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toTariffCategoryResponse(&categories[i]))
	}
	return out
}

// TariffOverrideResponse represents a per-month manual price override
type TariffOverrideResponse struct {
	ID         string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440003"`
	CustomerID string  `json:"customer_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Month      string  `json:"month" example:"2024-06"`
	Amount     float64 `json:"amount" example:"20000"`
	Note       string  `json:"note" example:"keringanan RT"`
	CreatedAt  string  `json:"created_at" example:"2024-06-01T12:00:00Z"`
}

func toTariffOverrideResponse(o *billing.TariffOverride) TariffOverrideResponse {
	return TariffOverrideResponse{
		ID:         o.ID.String(),
		CustomerID: o.CustomerID.String(),
		Month:      o.Month.String(),
		Amount:     o.Amount.InexactFloat64(),
		Note:       o.Note,
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
}

func toTariffOverrideResponses(overrides []billing.TariffOverride) []TariffOverrideResponse {
	out := make([]TariffOverrideResponse, 0, len(overrides))
	for i := range overrides {
		out = append(out, toTariffOverrideResponse(&overrides[i]))
	}
	return out
}

// TariffHistoryResponse represents a preserved historical month price
type TariffHistoryResponse struct {
	ID         string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440004"`
	CustomerID string  `json:"customer_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Month      string  `json:"month" example:"2024-03"`
	Amount     float64 `json:"amount" example:"25000"`
	Note       string  `json:"note" example:"tarif lama Rumah Tangga"`
	CreatedAt  string  `json:"created_at" example:"2024-06-01T12:00:00Z"`
}

func toTariffHistoryResponses(entries []billing.TariffHistory) []TariffHistoryResponse {
	out := make([]TariffHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, TariffHistoryResponse{
			ID:         e.ID.String(),
			CustomerID: e.CustomerID.String(),
			Month:      e.Month.String(),
			Amount:     e.Amount.InexactFloat64(),
			Note:       e.Note,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// TariffResolutionResponse represents the resolved price for one month
type TariffResolutionResponse struct {
	Month   string  `json:"month" example:"2024-06"`
	Amount  float64 `json:"amount" example:"25000"`
	Source  string  `json:"source" example:"default" enums:"override,history,default"`
	Details string  `json:"details" example:"Rumah Tangga"`
}

func toTariffResolutionResponse(r billing.TariffResolution) TariffResolutionResponse {
	return TariffResolutionResponse{
		Month:   r.Month.String(),
		Amount:  r.Amount.InexactFloat64(),
		Source:  string(r.Source),
		Details: r.Details,
	}
}
