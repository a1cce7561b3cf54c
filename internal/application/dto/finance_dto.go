package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// SettleObligationRequest liquidación de una cuenta; sin Amount se liquida
// por el total.
type SettleObligationRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// ObligationResponse representación HTTP de una obligación financiera.
type ObligationResponse struct {
	ID            string           `json:"id"`
	Kind          string           `json:"kind"`
	Counterparty  string           `json:"counterparty"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"`
	IssueDate     time.Time        `json:"issue_date"`
	DueDate       time.Time        `json:"due_date"`
	SettledAt     *time.Time       `json:"settled_at,omitempty"`
	SettledAmount *decimal.Decimal `json:"settled_amount,omitempty"`
	Status        string           `json:"status"`
	Origin        string           `json:"origin"`
	OrderID       string           `json:"order_id,omitempty"`
	DocumentID    string           `json:"document_id,omitempty"`
}

// ToObligationResponse mapea la entidad al DTO.
func ToObligationResponse(o *entity.Obligation) *ObligationResponse {
	if o == nil {
		return nil
	}
	return &ObligationResponse{
		ID:            o.ID,
		Kind:          o.Kind,
		Counterparty:  o.Counterparty,
		Description:   o.Description,
		Amount:        o.Amount,
		IssueDate:     o.IssueDate,
		DueDate:       o.DueDate,
		SettledAt:     o.SettledAt,
		SettledAmount: o.SettledAmount,
		Status:        o.Status,
		Origin:        o.Origin,
		OrderID:       o.OrderID,
		DocumentID:    o.DocumentID,
	}
}
