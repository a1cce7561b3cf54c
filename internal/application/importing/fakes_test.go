package importing_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los repositorios, compartiendo el mismo estado que
// vería una transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product // por ID
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*entity.Product)}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByWorkshopAndCode(workshopID, code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.WorkshopID == workshopID && p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByWorkshopAndBarcode(workshopID, barcode string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.WorkshopID == workshopID && p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateCostAndStock(productID string, cost, stock decimal.Decimal) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CostPrice = cost
	p.CurrentStock = stock
	return nil
}

func (r *fakeProductRepo) ListByWorkshop(workshopID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.WorkshopID == workshopID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
	failOn    int // índice del Create que falla; -1 nunca
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{failOn: -1}
}

var errInjected = errors.New("fallo inyectado")

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	if r.failOn >= 0 && len(r.movements) == r.failOn {
		return errInjected
	}
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeDocumentRepo struct {
	docs map[string]*entity.ImportedDocument // por workshopID + "|" + accessKey
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*entity.ImportedDocument)}
}

func (r *fakeDocumentRepo) Create(doc *entity.ImportedDocument) error {
	key := doc.WorkshopID + "|" + doc.AccessKey
	if _, ok := r.docs[key]; ok {
		return domain.ErrDuplicateImport
	}
	cp := *doc
	r.docs[key] = &cp
	return nil
}

func (r *fakeDocumentRepo) GetByAccessKey(workshopID, accessKey string) (*entity.ImportedDocument, error) {
	if d, ok := r.docs[workshopID+"|"+accessKey]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeDocumentRepo) ListByWorkshop(workshopID string, limit, offset int) ([]*entity.ImportedDocument, error) {
	var out []*entity.ImportedDocument
	for _, d := range r.docs {
		if d.WorkshopID == workshopID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeObligationRepo struct {
	obligations []*entity.Obligation
}

func (r *fakeObligationRepo) Create(o *entity.Obligation) error {
	cp := *o
	r.obligations = append(r.obligations, &cp)
	return nil
}

func (r *fakeObligationRepo) GetByID(id string) (*entity.Obligation, error) {
	for _, o := range r.obligations {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
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
	var out []*entity.Obligation
	for _, o := range r.obligations {
		if o.OrderID == orderID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeObligationRepo) Update(o *entity.Obligation) error {
	for i, cur := range r.obligations {
		if cur.ID == o.ID {
			cp := *o
			r.obligations[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
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

// fakeTxEnv agrupa los repositorios y un runner que simula la transacción:
// si fn devuelve error, restaura el estado previo (rollback).
type fakeTxEnv struct {
	products    *fakeProductRepo
	movements   *fakeMovementRepo
	documents   *fakeDocumentRepo
	obligations *fakeObligationRepo
}

func newFakeTxEnv() *fakeTxEnv {
	return &fakeTxEnv{
		products:    newFakeProductRepo(),
		movements:   newFakeMovementRepo(),
		documents:   newFakeDocumentRepo(),
		obligations: &fakeObligationRepo{},
	}
}

func (e *fakeTxEnv) snapshot() *fakeTxEnv {
	cp := newFakeTxEnv()
	for k, v := range e.products.products {
		p := *v
		cp.products.products[k] = &p
	}
	for _, m := range e.movements.movements {
		mm := *m
		cp.movements.movements = append(cp.movements.movements, &mm)
	}
	for k, v := range e.documents.docs {
		d := *v
		cp.documents.docs[k] = &d
	}
	for _, o := range e.obligations.obligations {
		oo := *o
		cp.obligations.obligations = append(cp.obligations.obligations, &oo)
	}
	return cp
}

func (e *fakeTxEnv) restore(s *fakeTxEnv) {
	e.products.products = s.products.products
	e.movements.movements = s.movements.movements
	e.documents.docs = s.documents.docs
	e.obligations.obligations = s.obligations.obligations
}

func (e *fakeTxEnv) RunImport(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	docRepo repository.ImportedDocumentRepository,
	obligRepo repository.ObligationRepository,
) error) error {
	snap := e.snapshot()
	if err := fn(e.products, e.movements, e.documents, e.obligations); err != nil {
		e.restore(snap)
		return err
	}
	return nil
}
