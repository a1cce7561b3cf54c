package decimals

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse convierte la forma textual de un decimal aceptando tanto "." como ","
// como separador decimal. Las NF-e reales traen ambos formatos según el
// emisor ("35.00" y "35,00" deben producir el mismo valor exacto).
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	// Coma como separador decimal: "1.234,56" -> "1234.56"
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// ParseOrZero es Parse pero degradando a cero ante texto no numérico.
// Útil para campos opcionales del XML donde ausencia equivale a cero.
func ParseOrZero(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Money redondea a 2 decimales (half-up), la escala de los montos monetarios.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
