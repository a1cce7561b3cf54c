package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/application/finance"
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

const testWorkshopID = "00000000-0000-0000-0000-000000000010"

// ──────────────────────────────────────────────────────────────────────────────
// Doble en memoria del repositorio de obligaciones
// ──────────────────────────────────────────────────────────────────────────────

type fakeObligationRepo struct {
	obligations map[string]*entity.Obligation
}

func newFakeObligationRepo() *fakeObligationRepo {
	return &fakeObligationRepo{obligations: make(map[string]*entity.Obligation)}
}

func (r *fakeObligationRepo) Create(o *entity.Obligation) error {
	cp := *o
	r.obligations[o.ID] = &cp
	return nil
}

func (r *fakeObligationRepo) GetByID(id string) (*entity.Obligation, error) {
	if o, ok := r.obligations[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeObligationRepo) ListByWorkshop(workshopID, kind, status string, limit, offset int) ([]*entity.Obligation, error) {
	var out []*entity.Obligation
	for _, o := range r.obligations {
		if o.WorkshopID != workshopID {
			continue
		}
		if kind != "" && o.Kind != kind {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeObligationRepo) ListByOrder(orderID string) ([]*entity.Obligation, error) {
	return nil, nil
}

func (r *fakeObligationRepo) Update(o *entity.Obligation) error {
	if _, ok := r.obligations[o.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *o
	r.obligations[o.ID] = &cp
	return nil
}

func (r *fakeObligationRepo) MarkOverdue(ref time.Time) (int64, error) {
	var n int64
	for _, o := range r.obligations {
		if o.Status == entity.ObligationOpen && o.DueDate.Before(ref) {
			o.Status = entity.ObligationOverdue
			n++
		}
	}
	return n, nil
}

func seedObligation(r *fakeObligationRepo, id, status string, amount float64, due time.Time) {
	r.obligations[id] = &entity.Obligation{
		ID:         id,
		WorkshopID: testWorkshopID,
		Kind:       entity.ObligationPayable,
		Amount:     decimal.NewFromFloat(amount),
		DueDate:    due,
		Status:     status,
		Origin:     entity.ObligationOriginManual,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Generador de obligaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerator_PayableDesdeImportacion(t *testing.T) {
	gen := finance.NewGenerator(finance.DefaultTerms())
	issue := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	doc := &entity.ImportedDocument{
		ID:            "doc-1",
		WorkshopID:    testWorkshopID,
		Number:        "1234",
		SupplierName:  "Distribuidora Ltda",
		DeclaredTotal: decimal.NewFromFloat(1150.00),
		IssueDate:     issue,
	}

	o := gen.PayableFromImport(doc, time.Now().UTC())
	assert.Equal(t, entity.ObligationPayable, o.Kind)
	assert.Equal(t, entity.ObligationOpen, o.Status)
	assert.Equal(t, entity.ObligationOriginDocument, o.Origin)
	assert.Equal(t, "doc-1", o.DocumentID)
	assert.True(t, o.Amount.Equal(decimal.NewFromFloat(1150.00)))
	assert.True(t, o.DueDate.Equal(issue.AddDate(0, 0, 30)), "vencimiento = emisión + 30 días")
}

func TestGenerator_PayableSinFechaDeEmision(t *testing.T) {
	gen := finance.NewGenerator(finance.DefaultTerms())
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	doc := &entity.ImportedDocument{ID: "doc-1", WorkshopID: testWorkshopID, DeclaredTotal: decimal.NewFromInt(100)}

	o := gen.PayableFromImport(doc, now)
	assert.True(t, o.IssueDate.Equal(now), "sin dhEmi, la emisión cae en now")
	assert.True(t, o.DueDate.Equal(now.AddDate(0, 0, 30)))
}

func TestGenerator_ReceivableUsaTallerDeLaOrden(t *testing.T) {
	gen := finance.NewGenerator(finance.Terms{ReceivableDays: 15})
	closed := time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)
	o := &entity.ServiceOrder{
		ID:         "os-1",
		WorkshopID: "taller-de-la-orden",
		Number:     42,
		CustomerID: "cli-1",
		GrandTotal: decimal.NewFromFloat(350.00),
		ClosedAt:   &closed,
	}

	oblig := gen.ReceivableFromOrder(o, "Maria Souza", time.Now().UTC())
	assert.Equal(t, "taller-de-la-orden", oblig.WorkshopID, "siempre el tenant de la propia orden")
	assert.Equal(t, entity.ObligationReceivable, oblig.Kind)
	assert.Equal(t, "os-1", oblig.OrderID)
	assert.True(t, oblig.Amount.Equal(decimal.NewFromFloat(350.00)))
	assert.True(t, oblig.DueDate.Equal(closed.AddDate(0, 0, 15)), "vencimiento = conclusión + plazo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Liquidación y vencimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestSettle_PorElTotal(t *testing.T) {
	repo := newFakeObligationRepo()
	seedObligation(repo, "ob-1", entity.ObligationOpen, 500.00, time.Now().Add(24*time.Hour))
	uc := finance.NewObligationUseCase(repo)

	res, err := uc.Settle(context.Background(), testWorkshopID, "ob-1", dto.SettleObligationRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.ObligationPaid, res.Status)
	require.NotNil(t, res.SettledAmount)
	assert.True(t, res.SettledAmount.Equal(decimal.NewFromFloat(500.00)), "sin monto explícito se liquida por el total")
	require.NotNil(t, res.SettledAt)
	assert.Equal(t, time.UTC, res.SettledAt.Location(), "la fecha de liquidación se registra en UTC")
}

func TestSettle_MontoParcialExplicito(t *testing.T) {
	repo := newFakeObligationRepo()
	seedObligation(repo, "ob-1", entity.ObligationOverdue, 500.00, time.Now().Add(-time.Hour))
	uc := finance.NewObligationUseCase(repo)

	parcial := decimal.NewFromFloat(480.00)
	res, err := uc.Settle(context.Background(), testWorkshopID, "ob-1", dto.SettleObligationRequest{Amount: &parcial})
	require.NoError(t, err)
	assert.True(t, res.SettledAmount.Equal(parcial))
}

func TestSettle_EstadosNoLiquidables(t *testing.T) {
	repo := newFakeObligationRepo()
	uc := finance.NewObligationUseCase(repo)
	for _, status := range []string{entity.ObligationPaid, entity.ObligationCancelled} {
		seedObligation(repo, "ob-x", status, 100.00, time.Now())
		_, err := uc.Settle(context.Background(), testWorkshopID, "ob-x", dto.SettleObligationRequest{})
		require.ErrorIs(t, err, domain.ErrConflict, "estado %s", status)
	}
}

func TestSettle_OtroTaller(t *testing.T) {
	repo := newFakeObligationRepo()
	seedObligation(repo, "ob-1", entity.ObligationOpen, 100.00, time.Now())
	uc := finance.NewObligationUseCase(repo)

	_, err := uc.Settle(context.Background(), "otro-taller", "ob-1", dto.SettleObligationRequest{})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMarkOverdue_SoloVencidasAbiertas(t *testing.T) {
	repo := newFakeObligationRepo()
	now := time.Now().UTC()
	seedObligation(repo, "vencida", entity.ObligationOpen, 100.00, now.Add(-48*time.Hour))
	seedObligation(repo, "al-dia", entity.ObligationOpen, 100.00, now.Add(48*time.Hour))
	seedObligation(repo, "pagada", entity.ObligationPaid, 100.00, now.Add(-48*time.Hour))
	uc := finance.NewObligationUseCase(repo)

	n, err := uc.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, _ := repo.GetByID("vencida")
	assert.Equal(t, entity.ObligationOverdue, v.Status)
	d, _ := repo.GetByID("al-dia")
	assert.Equal(t, entity.ObligationOpen, d.Status)
}
