package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de cálculo de la comisión de un mecánico.
const (
	CommissionPercentLabor = "percent_labor" // % sobre mano de obra
	CommissionPercentTotal = "percent_total" // % sobre el total de la OS
	CommissionFixed        = "fixed"         // monto fijo por OS
	CommissionMixed        = "mixed"         // % sobre mano de obra + monto fijo
)

// Estados de una comisión.
const (
	CommissionPending   = "pending"
	CommissionPaid      = "paid"
	CommissionCancelled = "cancelled"
)

// CommissionConfig es la regla de comisión vigente de un mecánico. A lo sumo
// una por mecánico y taller; una config inactiva no genera comisiones.
type CommissionConfig struct {
	ID          string
	WorkshopID  string
	MechanicID  string
	CalcType    string
	LaborPct    decimal.Decimal // porcentaje 0..100 sobre mano de obra
	TotalPct    decimal.Decimal // porcentaje 0..100 sobre el total
	FixedAmount decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Commission es la comisión devengada por un mecánico al facturarse una OS.
// Congela los valores de la orden y de la regla aplicada al momento de
// generarse: cambiar la config después no recalcula comisiones existentes.
type Commission struct {
	ID           string
	WorkshopID   string
	OrderID      string
	MechanicID   string
	LaborTotal   decimal.Decimal // mano de obra de la OS al generarse
	OrderTotal   decimal.Decimal // total de la OS al generarse
	CalcType     string
	AppliedPct   decimal.Decimal
	AppliedFixed decimal.Decimal
	Amount       decimal.Decimal
	Status       string
	PaidAt       *time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsCalcType indica si s es un modo de cálculo reconocido.
func IsCalcType(s string) bool {
	switch s {
	case CommissionPercentLabor, CommissionPercentTotal, CommissionFixed, CommissionMixed:
		return true
	}
	return false
}
