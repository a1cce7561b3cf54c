package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un presupuesto.
const (
	BudgetOpen      = "open"
	BudgetApproved  = "approved"
	BudgetDeclined  = "declined"
	BudgetExpired   = "expired"
	BudgetConverted = "converted"
)

// Budget representa un presupuesto (orçamento). Un presupuesto aprobado se
// convierte a lo sumo una vez en exactamente una orden de servicio; los ítems
// se copian como snapshot, editar el presupuesto después no afecta la OS.
type Budget struct {
	ID            string
	WorkshopID    string
	Number        int64
	CustomerID    string
	VehicleID     string
	ValidityDays  int
	PartsTotal    decimal.Decimal
	LaborTotal    decimal.Decimal
	DiscountTotal decimal.Decimal
	GrandTotal    decimal.Decimal
	Status        string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BudgetItem representa una línea de presupuesto, misma forma que la línea de OS.
type BudgetItem struct {
	ID          string
	BudgetID    string
	Type        string // product, labor
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	CreatedAt   time.Time
}
