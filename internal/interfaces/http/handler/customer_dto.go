package handler

import (
	"time"

	"github.com/retribusi/backend/internal/domain/billing"
)

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                  string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name                string `json:"name" example:"Budi Santoso"`
	Address             string `json:"address" example:"Jl. Melati 12"`
	Region              string `json:"region" example:"RW 03"`
	JoinDate            string `json:"join_date" example:"2024-01-15T00:00:00Z"`
	TariffCategoryID    string `json:"tariff_category_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	TariffEffectiveDate string `json:"tariff_effective_date" example:"2024-01-15T00:00:00Z"`
	Status              string `json:"status" example:"ACTIVE" enums:"ACTIVE,INACTIVE"`
	CreatedAt           string `json:"created_at" example:"2024-01-15T12:00:00Z"`
	UpdatedAt           string `json:"updated_at" example:"2024-01-15T12:00:00Z"`
	Version             int    `json:"version" example:"1"`
}

func toCustomerResponse(c *billing.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                  c.ID.String(),
		Name:                c.Name,
		Address:             c.Address,
		Region:              c.Region,
		JoinDate:            c.JoinDate.Format(time.RFC3339),
		TariffCategoryID:    c.TariffCategoryID.String(),
		TariffEffectiveDate: c.TariffEffectiveDate.Format(time.RFC3339),
		Status:              c.Status.String(),
		CreatedAt:           c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           c.UpdatedAt.Format(time.RFC3339),
		Version:             c.Version,
	}
}

func toCustomerResponses(customers []billing.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, toCustomerResponse(&customers[i]))
	}
	return out
}

// StatusPeriodResponse represents one entry of a customer's status timeline
type StatusPeriodResponse struct {
	ID     string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440002"`
	Status string  `json:"status" example:"ACTIVE" enums:"ACTIVE,INACTIVE"`
	Start  string  `json:"start" example:"2024-01-15T00:00:00Z"`
	End    *string `json:"end,omitempty" example:"2024-06-01T00:00:00Z"`
}

func toStatusPeriodResponses(periods billing.StatusPeriods) []StatusPeriodResponse {
	out := make([]StatusPeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp := StatusPeriodResponse{
			ID:     p.ID.String(),
			Status: p.Status.String(),
			Start:  p.Start.Format(time.RFC3339),
		}
		if p.End != nil {
			end := p.End.Format(time.RFC3339)
			resp.End = &end
		}
		out = append(out, resp)
	}
	return out
}
