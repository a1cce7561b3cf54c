package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de obligación financiera.
const (
	ObligationPayable    = "payable"    // cuenta por pagar
	ObligationReceivable = "receivable" // cuenta por cobrar
)

// Estados de una obligación.
const (
	ObligationOpen      = "open"
	ObligationPaid      = "paid"
	ObligationOverdue   = "overdue"
	ObligationCancelled = "cancelled"
)

// Orígenes de una obligación.
const (
	ObligationOriginManual   = "manual"
	ObligationOriginOrder    = "order"
	ObligationOriginDocument = "document_import"
)

// Obligation representa una cuenta por pagar o por cobrar.
// Creada por el generador de obligaciones como efecto de una importación de
// NF-e (payable) o del facturado de una orden de servicio (receivable), o
// registrada a mano. DueDate = IssueDate + plazo configurado.
type Obligation struct {
	ID            string
	WorkshopID    string
	Kind          string // payable, receivable
	CustomerID    string // solo receivables; vacío si no aplica
	Counterparty  string // nombre del proveedor o cliente
	Description   string
	Amount        decimal.Decimal
	IssueDate     time.Time
	DueDate       time.Time
	SettledAt     *time.Time       // fecha de pago/cobro, nil si sigue abierta
	SettledAmount *decimal.Decimal // monto efectivamente pagado/cobrado
	Status        string           // open, paid, overdue, cancelled
	Origin        string           // manual, order, document_import
	OrderID       string           // referencia a la OS origen (receivables)
	DocumentID    string           // referencia a la NF-e origen (payables)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
