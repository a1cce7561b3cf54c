package nfe

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice es la representación normalizada de una NF-e de proveedor,
// tal como la consume el caso de uso de importación.
type Invoice struct {
	AccessKey     string // chave de acesso (44 dígitos)
	Number        string
	Series        string
	IssueDate     time.Time
	SupplierTaxID string // CNPJ del emisor
	SupplierName  string
	DeclaredTotal decimal.Decimal // vNF
	Lines         []Line
}

// Line es una línea de producto de la NF-e.
type Line struct {
	Code        string // cProd: código interno del emisor
	Barcode     string // cEAN; puede ser "SEM GTIN"
	Description string
	NCM         string
	CFOP        string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}
