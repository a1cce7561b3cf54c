package importing

import "github.com/shopspring/decimal"

// CFOP por defecto para productos creados desde una NF-e: venta dentro y
// fuera del estado.
const (
	defaultCFOPInState  = "5102"
	defaultCFOPOutState = "6102"
)

// Policy parámetros de creación de productos nuevos durante la importación.
type Policy struct {
	SaleMarkup  decimal.Decimal // factor sobre el costo para el precio inicial
	MinStock    decimal.Decimal
	DefaultUnit string
}

// DefaultPolicy margen 1.5 sobre costo, stock mínimo 5, unidad UN.
func DefaultPolicy() Policy {
	return Policy{
		SaleMarkup:  decimal.NewFromFloat(1.5),
		MinStock:    decimal.NewFromInt(5),
		DefaultUnit: "UN",
	}
}

func (p Policy) normalized() Policy {
	if !p.SaleMarkup.GreaterThan(decimal.Zero) {
		p.SaleMarkup = decimal.NewFromFloat(1.5)
	}
	if p.MinStock.IsNegative() {
		p.MinStock = decimal.Zero
	}
	if p.DefaultUnit == "" {
		p.DefaultUnit = "UN"
	}
	return p
}
