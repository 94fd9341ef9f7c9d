package handler

import (
	"time"

	"github.com/retribusi/backend/internal/domain/billing"
)

// BreakdownEntryResponse represents one month of a payment's price snapshot
type BreakdownEntryResponse struct {
	Amount  float64 `json:"amount" example:"25000"`
	Source  string  `json:"source" example:"default" enums:"override,history,default"`
	Details string  `json:"details" example:"Rumah Tangga"`
}

// PaymentResponse represents a recorded payment in API responses
type PaymentResponse struct {
	ID          string                            `json:"id" example:"550e8400-e29b-41d4-a716-446655440005"`
	CustomerID  string                            `json:"customer_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Months      []string                          `json:"months" example:"2024-05,2024-06"`
	PaymentDate string                            `json:"payment_date" example:"2024-06-10T09:30:00Z"`
	Amount      float64                           `json:"amount" example:"50000"`
	Subtotal    *float64                          `json:"subtotal,omitempty" example:"50000"`
	Discount    *float64                          `json:"discount,omitempty" example:"5000"`
	Method      string                            `json:"method" example:"CASH" enums:"CASH,TRANSFER,GATEWAY"`
	Note        string                            `json:"note" example:"bayar 2 bulan"`
	Breakdown   map[string]BreakdownEntryResponse `json:"breakdown"`
	Deposited   bool                              `json:"deposited" example:"false"`
	DepositedAt *string                           `json:"deposited_at,omitempty" example:"2024-06-15T17:00:00Z"`
	CreatedAt   string                            `json:"created_at" example:"2024-06-10T09:30:00Z"`
}

func toPaymentResponse(p *billing.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:          p.ID.String(),
		CustomerID:  p.CustomerID.String(),
		Months:      p.Months.Tokens(),
		PaymentDate: p.PaymentDate.Format(time.RFC3339),
		Amount:      p.Amount.InexactFloat64(),
		Method:      p.Method.String(),
		Note:        p.Note,
		Breakdown:   make(map[string]BreakdownEntryResponse, len(p.Breakdown)),
		Deposited:   p.Deposited,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
	if p.Subtotal != nil {
		v := p.Subtotal.InexactFloat64()
		resp.Subtotal = &v
	}
	if p.Discount != nil {
		v := p.Discount.InexactFloat64()
		resp.Discount = &v
	}
	if p.DepositedAt != nil {
		v := p.DepositedAt.Format(time.RFC3339)
		resp.DepositedAt = &v
	}
	for month, entry := range p.Breakdown {
		resp.Breakdown[month.String()] = BreakdownEntryResponse{
			Amount:  entry.Amount.InexactFloat64(),
			Source:  string(entry.Source),
			Details: entry.Details,
		}
	}
	return resp
}

func toPaymentResponses(payments []billing.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, toPaymentResponse(&payments[i]))
	}
	return out
}

// InstallmentResponse represents one month of the installment ledger
type InstallmentResponse struct {
	ID         string   `json:"id" example:"550e8400-e29b-41d4-a716-446655440006"`
	CustomerID string   `json:"customer_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Month      string   `json:"month" example:"2024-05"`
	Owed       float64  `json:"owed" example:"25000"`
	Paid       float64  `json:"paid" example:"10000"`
	Remaining  float64  `json:"remaining" example:"15000"`
	Status     string   `json:"status" example:"PENDING" enums:"PENDING,PARTIAL,PAID"`
	PaymentIDs []string `json:"payment_ids"`
}

func toInstallmentResponses(installments []billing.Installment) []InstallmentResponse {
	out := make([]InstallmentResponse, 0, len(installments))
	for i := range installments {
		inst := &installments[i]
		ids := make([]string, 0, len(inst.PaymentIDs))
		for _, id := range inst.PaymentIDs {
			ids = append(ids, id.String())
		}
		out = append(out, InstallmentResponse{
			ID:         inst.ID.String(),
			CustomerID: inst.CustomerID.String(),
			Month:      inst.Month.String(),
			Owed:       inst.Owed.InexactFloat64(),
			Paid:       inst.Paid.InexactFloat64(),
			Remaining:  inst.Remaining().InexactFloat64(),
			Status:     string(inst.Status),
			PaymentIDs: ids,
		})
	}
	return out
}
