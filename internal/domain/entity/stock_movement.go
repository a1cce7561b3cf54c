package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento de stock.
const (
	MovementIn  = "in"  // entrada
	MovementOut = "out" // salida
)

// Orígenes de un movimiento (referencia al documento que lo generó).
const (
	MovementRefImport     = "nfe_import"
	MovementRefOrder      = "service_order"
	MovementRefAdjustment = "adjustment"
)

// StockMovement representa un asiento inmutable del libro de stock.
// Las correcciones son siempre movimientos compensatorios nuevos, nunca
// ediciones. Invariante de cadena: QuantityAfter = QuantityBefore ± Quantity
// (según Type), y el QuantityBefore del siguiente movimiento del mismo
// producto debe coincidir con este QuantityAfter.
type StockMovement struct {
	ID             string
	WorkshopID     string
	ProductID      string
	Type           string          // in, out
	Quantity       decimal.Decimal // siempre positiva; el signo lo da Type
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	UnitCost       decimal.Decimal // costo unitario al momento del movimiento
	RefType        string          // ver constantes MovementRef*
	RefID          string          // id del documento/orden origen
	Note           string
	CreatedBy      string // UserID, vacío si fue un proceso automático
	CreatedAt      time.Time
}

// SignedQuantity devuelve la cantidad con signo según la dirección.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Type == MovementOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
