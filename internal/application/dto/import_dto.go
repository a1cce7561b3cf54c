package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportResult resume una importación de NF-e: cuántos productos se crearon
// y cuántos ya existían, y el vencimiento de la cuenta por pagar generada.
type ImportResult struct {
	DocumentID     string          `json:"document_id"`
	AccessKey      string          `json:"access_key"`
	Number         string          `json:"number"`
	SupplierName   string          `json:"supplier_name"`
	SupplierTaxID  string          `json:"supplier_tax_id"`
	IssueDate      time.Time       `json:"issue_date"`
	DeclaredTotal  decimal.Decimal `json:"declared_total"`
	LinesProcessed int             `json:"lines_processed"`
	NewItems       int             `json:"new_items"`
	ExistingItems  int             `json:"existing_items"`
	PayableDueDate time.Time       `json:"payable_due_date"`
}

// ImportedDocumentResponse entrada del historial de importaciones.
type ImportedDocumentResponse struct {
	ID             string          `json:"id"`
	AccessKey      string          `json:"access_key"`
	Number         string          `json:"number"`
	Series         string          `json:"series"`
	IssueDate      time.Time       `json:"issue_date"`
	SupplierName   string          `json:"supplier_name"`
	SupplierTaxID  string          `json:"supplier_tax_id"`
	DeclaredTotal  decimal.Decimal `json:"declared_total"`
	LinesProcessed int             `json:"lines_processed"`
	CreatedAt      time.Time       `json:"created_at"`
}
