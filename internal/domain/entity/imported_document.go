package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportedDocument registra una NF-e de proveedor ya ingresada.
// AccessKey (chave de acesso, 44 dígitos) es única por taller: el constraint
// UNIQUE (workshop_id, access_key) en base de datos es la garantía de
// idempotencia del importador, no un flag de aplicación.
type ImportedDocument struct {
	ID             string
	WorkshopID     string
	AccessKey      string
	Number         string
	Series         string
	IssueDate      time.Time
	SupplierTaxID  string // CNPJ del emisor
	SupplierName   string
	DeclaredTotal  decimal.Decimal // vNF declarado en el XML
	LinesProcessed int
	Processed      bool
	CreatedAt      time.Time
}
