package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// SaveCommissionConfigRequest crea o reemplaza la regla de comisión de un
// mecánico. Los porcentajes se expresan 0..100.
type SaveCommissionConfigRequest struct {
	MechanicID  string          `json:"mechanic_id" validate:"required"`
	CalcType    string          `json:"calc_type" validate:"required,oneof=percent_labor percent_total fixed mixed"`
	LaborPct    decimal.Decimal `json:"labor_pct"`
	TotalPct    decimal.Decimal `json:"total_pct"`
	FixedAmount decimal.Decimal `json:"fixed_amount"`
	Active      *bool           `json:"active,omitempty"`
}

// CommissionConfigResponse representación HTTP de una regla de comisión.
type CommissionConfigResponse struct {
	ID          string          `json:"id"`
	MechanicID  string          `json:"mechanic_id"`
	CalcType    string          `json:"calc_type"`
	LaborPct    decimal.Decimal `json:"labor_pct"`
	TotalPct    decimal.Decimal `json:"total_pct"`
	FixedAmount decimal.Decimal `json:"fixed_amount"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PayCommissionRequest marca una comisión como pagada.
type PayCommissionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// CancelCommissionRequest anula una comisión pendiente.
type CancelCommissionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// CommissionResponse representación HTTP de una comisión devengada.
type CommissionResponse struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	MechanicID   string          `json:"mechanic_id"`
	LaborTotal   decimal.Decimal `json:"labor_total"`
	OrderTotal   decimal.Decimal `json:"order_total"`
	CalcType     string          `json:"calc_type"`
	AppliedPct   decimal.Decimal `json:"applied_pct"`
	AppliedFixed decimal.Decimal `json:"applied_fixed"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToCommissionConfigResponse mapea la entidad al DTO.
func ToCommissionConfigResponse(cfg *entity.CommissionConfig) *CommissionConfigResponse {
	if cfg == nil {
		return nil
	}
	return &CommissionConfigResponse{
		ID:          cfg.ID,
		MechanicID:  cfg.MechanicID,
		CalcType:    cfg.CalcType,
		LaborPct:    cfg.LaborPct,
		TotalPct:    cfg.TotalPct,
		FixedAmount: cfg.FixedAmount,
		Active:      cfg.Active,
		CreatedAt:   cfg.CreatedAt,
	}
}

// ToCommissionResponse mapea la entidad al DTO.
func ToCommissionResponse(c *entity.Commission) *CommissionResponse {
	if c == nil {
		return nil
	}
	return &CommissionResponse{
		ID:           c.ID,
		OrderID:      c.OrderID,
		MechanicID:   c.MechanicID,
		LaborTotal:   c.LaborTotal,
		OrderTotal:   c.OrderTotal,
		CalcType:     c.CalcType,
		AppliedPct:   c.AppliedPct,
		AppliedFixed: c.AppliedFixed,
		Amount:       c.Amount,
		Status:       c.Status,
		PaidAt:       c.PaidAt,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
	}
}
