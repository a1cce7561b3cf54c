package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/pkg/decimals"
)

// Terms plazos de vencimiento configurables por origen.
type Terms struct {
	PayableDays    int // NF-e importada
	ReceivableDays int // OS facturada
}

// DefaultTerms plazo estándar de 30 días para ambos orígenes.
func DefaultTerms() Terms {
	return Terms{PayableDays: 30, ReceivableDays: 30}
}

// Generator construye obligaciones financieras derivadas de eventos del
// sistema. Centraliza el cálculo de vencimientos y el etiquetado de origen:
// la creación de cuentas nunca se duplica en las pantallas que la disparan.
type Generator struct {
	terms Terms
}

// NewGenerator construye el generador.
func NewGenerator(terms Terms) *Generator {
	if terms.PayableDays <= 0 {
		terms.PayableDays = 30
	}
	if terms.ReceivableDays <= 0 {
		terms.ReceivableDays = 30
	}
	return &Generator{terms: terms}
}

// PayableFromImport deriva la cuenta por pagar de una NF-e importada.
// Monto = total declarado del documento; vencimiento = emisión + plazo.
func (g *Generator) PayableFromImport(doc *entity.ImportedDocument, now time.Time) *entity.Obligation {
	issue := doc.IssueDate
	if issue.IsZero() {
		issue = now
	}
	return &entity.Obligation{
		ID:           uuid.New().String(),
		WorkshopID:   doc.WorkshopID,
		Kind:         entity.ObligationPayable,
		Counterparty: doc.SupplierName,
		Description:  fmt.Sprintf("NF-e %s - %s", doc.Number, doc.SupplierName),
		Amount:       doc.DeclaredTotal,
		IssueDate:    issue,
		DueDate:      issue.AddDate(0, 0, g.terms.PayableDays),
		Status:       entity.ObligationOpen,
		Origin:       entity.ObligationOriginDocument,
		DocumentID:   doc.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CommissionFromOrder deriva la comisión del mecánico al facturarse una OS.
// Devuelve nil cuando no corresponde generar: sin mecánico asignado, sin
// regla o regla inactiva. Los valores de la orden y de la regla quedan
// congelados en el registro.
func (g *Generator) CommissionFromOrder(cfg *entity.CommissionConfig, o *entity.ServiceOrder, now time.Time) *entity.Commission {
	if cfg == nil || !cfg.Active || o.MechanicID == "" {
		return nil
	}

	cien := decimal.NewFromInt(100)
	var amount, pct, fixed decimal.Decimal
	switch cfg.CalcType {
	case entity.CommissionPercentLabor:
		pct = cfg.LaborPct
		amount = o.LaborTotal.Mul(pct).Div(cien)
	case entity.CommissionPercentTotal:
		pct = cfg.TotalPct
		amount = o.GrandTotal.Mul(pct).Div(cien)
	case entity.CommissionFixed:
		fixed = cfg.FixedAmount
		amount = fixed
	case entity.CommissionMixed:
		pct = cfg.LaborPct
		fixed = cfg.FixedAmount
		amount = o.LaborTotal.Mul(pct).Div(cien).Add(fixed)
	default:
		return nil
	}

	return &entity.Commission{
		ID:           uuid.New().String(),
		WorkshopID:   o.WorkshopID,
		OrderID:      o.ID,
		MechanicID:   o.MechanicID,
		LaborTotal:   o.LaborTotal,
		OrderTotal:   o.GrandTotal,
		CalcType:     cfg.CalcType,
		AppliedPct:   pct,
		AppliedFixed: fixed,
		Amount:       decimals.Money(amount),
		Status:       entity.CommissionPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ReceivableFromOrder deriva la cuenta por cobrar del facturado de una OS.
// Siempre usa el tenant de la propia orden; monto = total de la orden;
// vencimiento = fecha de conclusión + plazo (o now si la OS no registra cierre).
func (g *Generator) ReceivableFromOrder(o *entity.ServiceOrder, customerName string, now time.Time) *entity.Obligation {
	base := now
	if o.ClosedAt != nil {
		base = *o.ClosedAt
	}
	return &entity.Obligation{
		ID:           uuid.New().String(),
		WorkshopID:   o.WorkshopID,
		Kind:         entity.ObligationReceivable,
		CustomerID:   o.CustomerID,
		Counterparty: customerName,
		Description:  fmt.Sprintf("OS #%d - %s", o.Number, customerName),
		Amount:       o.GrandTotal,
		IssueDate:    now,
		DueDate:      base.AddDate(0, 0, g.terms.ReceivableDays),
		Status:       entity.ObligationOpen,
		Origin:       entity.ObligationOriginOrder,
		OrderID:      o.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
