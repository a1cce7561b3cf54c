package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoBarcodeSentinel es el valor que la SEFAZ usa en <cEAN> cuando el producto
// no tiene código de barras. Nunca debe participar en la conciliación por barcode.
const NoBarcodeSentinel = "SEM GTIN"

// Product representa un ítem del catálogo del taller (repuestos, insumos).
// CurrentStock es un saldo cacheado: el valor canónico es la suma de los
// StockMovement del producto y solo se modifica al registrar movimientos.
// CostPrice puede refrescarse además durante la conciliación de una NF-e.
type Product struct {
	ID           string
	WorkshopID   string
	Code         string // código interno, único por taller
	Barcode      string // EAN/GTIN; vacío o NoBarcodeSentinel = sin código
	Description  string
	Unit         string // unidad de medida (UN, LT, KG...)
	NCM          string
	CFOPInState  string // CFOP venta dentro del estado
	CFOPOutState string // CFOP venta fuera del estado
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	ProfitMargin decimal.Decimal // porcentaje sobre el costo
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasBarcode indica si el producto tiene un código de barras utilizable
// para conciliación (no vacío y distinto del centinela SEM GTIN).
func (p *Product) HasBarcode() bool {
	return p.Barcode != "" && p.Barcode != NoBarcodeSentinel
}
