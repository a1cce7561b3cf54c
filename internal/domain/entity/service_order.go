package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de servicio. El ciclo de vida lo gobierna únicamente
// la tabla de transiciones de internal/domain/order; estas constantes son los
// valores persistidos.
const (
	OrderOpen          = "open"
	OrderInProgress    = "in_progress"
	OrderAwaitingParts = "awaiting_parts"
	OrderCompleted     = "completed"
	OrderInvoiced      = "invoiced"
	OrderCancelled     = "cancelled"
)

// Tipos de ítem de una orden o presupuesto.
const (
	ItemProduct = "product" // repuesto del catálogo
	ItemLabor   = "labor"   // mano de obra / servicio
)

// ServiceOrder representa una orden de servicio (OS) del taller, desde el
// ingreso del vehículo hasta el facturado. Los totales son derivados de los
// ítems y no se editan de forma independiente una vez cargados.
type ServiceOrder struct {
	ID            string
	WorkshopID    string
	Number        int64
	BudgetID      string // presupuesto origen, vacío si la OS es manual
	CustomerID    string
	VehicleID     string
	MechanicID    string
	OdometerIn    int64 // km del vehículo al ingreso
	Diagnosis     string
	Notes         string
	PartsTotal    decimal.Decimal
	LaborTotal    decimal.Decimal
	DiscountTotal decimal.Decimal
	GrandTotal    decimal.Decimal
	Status        string
	OpenedAt      time.Time
	ClosedAt      *time.Time // se fija en la transición a completed
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ServiceOrderItem representa una línea de la OS (repuesto o mano de obra).
type ServiceOrderItem struct {
	ID          string
	OrderID     string
	Type        string // product, labor
	ProductID   string // vacío para labor
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	CreatedAt   time.Time
}

// Terminal indica si el estado ya no admite transiciones.
func (o *ServiceOrder) Terminal() bool {
	return o.Status == OrderInvoiced || o.Status == OrderCancelled
}
