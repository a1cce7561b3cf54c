package orders_test

import (
	"context"
	"errors"
	"time"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los repositorios de órdenes, presupuestos,
// obligaciones, comisiones, clientes y vehículos.
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders     map[string]*entity.ServiceOrder
	items      map[string][]*entity.ServiceOrderItem // por orderID
	nextNumber int64
	// statusOverride simula una transición concurrente: antes del UPDATE
	// condicionado, el estado real de la fila ya cambió.
	statusOverride string
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[string]*entity.ServiceOrder),
		items:  make(map[string][]*entity.ServiceOrderItem),
	}
}

func (r *fakeOrderRepo) Create(o *entity.ServiceOrder) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateItem(item *entity.ServiceOrderItem) error {
	cp := *item
	r.items[item.OrderID] = append(r.items[item.OrderID], &cp)
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.ServiceOrder, error) {
	if o, ok := r.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) ListItems(orderID string) ([]*entity.ServiceOrderItem, error) {
	var out []*entity.ServiceOrderItem
	for _, it := range r.items[orderID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByWorkshop(workshopID, status string, limit, offset int) ([]*entity.ServiceOrder, error) {
	var out []*entity.ServiceOrder
	for _, o := range r.orders {
		if o.WorkshopID != workshopID {
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

func (r *fakeOrderRepo) UpdateStatus(id, from, to string, closedAt *time.Time) (bool, error) {
	o, ok := r.orders[id]
	if !ok {
		return false, nil
	}
	current := o.Status
	if r.statusOverride != "" {
		current = r.statusOverride
	}
	if current != from {
		return false, nil
	}
	o.Status = to
	if closedAt != nil {
		o.ClosedAt = closedAt
	}
	return true, nil
}

func (r *fakeOrderRepo) NextNumber(workshopID string) (int64, error) {
	r.nextNumber++
	return r.nextNumber, nil
}

type fakeBudgetRepo struct {
	budgets map[string]*entity.Budget
	items   map[string][]*entity.BudgetItem
	nextNum int64
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{
		budgets: make(map[string]*entity.Budget),
		items:   make(map[string][]*entity.BudgetItem),
	}
}

func (r *fakeBudgetRepo) Create(b *entity.Budget) error {
	cp := *b
	r.budgets[b.ID] = &cp
	return nil
}

func (r *fakeBudgetRepo) CreateItem(item *entity.BudgetItem) error {
	cp := *item
	r.items[item.BudgetID] = append(r.items[item.BudgetID], &cp)
	return nil
}

func (r *fakeBudgetRepo) GetByID(id string) (*entity.Budget, error) {
	if b, ok := r.budgets[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeBudgetRepo) ListItems(budgetID string) ([]*entity.BudgetItem, error) {
	var out []*entity.BudgetItem
	for _, it := range r.items[budgetID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBudgetRepo) ListByWorkshop(workshopID, status string, limit, offset int) ([]*entity.Budget, error) {
	var out []*entity.Budget
	for _, b := range r.budgets {
		if b.WorkshopID != workshopID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBudgetRepo) UpdateStatus(id, from, to string) (bool, error) {
	b, ok := r.budgets[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (r *fakeBudgetRepo) NextNumber(workshopID string) (int64, error) {
	r.nextNum++
	return r.nextNum, nil
}

func (r *fakeBudgetRepo) MarkExpired(ref time.Time) (int64, error) {
	var n int64
	for _, b := range r.budgets {
		if b.Status != entity.BudgetOpen {
			continue
		}
		if b.CreatedAt.AddDate(0, 0, b.ValidityDays).Before(ref) {
			b.Status = entity.BudgetExpired
			n++
		}
	}
	return n, nil
}

type fakeObligationRepo struct {
	obligations []*entity.Obligation
	failCreate  bool
}

var errInjected = errors.New("fallo inyectado")

func (r *fakeObligationRepo) Create(o *entity.Obligation) error {
	if r.failCreate {
		return errInjected
	}
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
		if o.WorkshopID == workshopID {
			cp := *o
			out = append(out, &cp)
		}
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

func (r *fakeObligationRepo) Update(o *entity.Obligation) error { return nil }

func (r *fakeObligationRepo) MarkOverdue(ref time.Time) (int64, error) { return 0, nil }

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if c, ok := r.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ListByWorkshop(workshopID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		if c.WorkshopID == workshopID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeVehicleRepo struct {
	vehicles map[string]*entity.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[string]*entity.Vehicle)}
}

func (r *fakeVehicleRepo) Create(v *entity.Vehicle) error {
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *fakeVehicleRepo) GetByID(id string) (*entity.Vehicle, error) {
	if v, ok := r.vehicles[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeVehicleRepo) ListByCustomer(customerID string) ([]*entity.Vehicle, error) {
	var out []*entity.Vehicle
	for _, v := range r.vehicles {
		if v.CustomerID == customerID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeCommissionConfigRepo struct {
	configs map[string]*entity.CommissionConfig
}

func newFakeCommissionConfigRepo() *fakeCommissionConfigRepo {
	return &fakeCommissionConfigRepo{configs: make(map[string]*entity.CommissionConfig)}
}

func (r *fakeCommissionConfigRepo) Save(cfg *entity.CommissionConfig) error {
	for id, c := range r.configs {
		if c.WorkshopID == cfg.WorkshopID && c.MechanicID == cfg.MechanicID {
			delete(r.configs, id)
		}
	}
	cp := *cfg
	r.configs[cfg.ID] = &cp
	return nil
}

func (r *fakeCommissionConfigRepo) GetByID(id string) (*entity.CommissionConfig, error) {
	if c, ok := r.configs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCommissionConfigRepo) GetActiveByMechanic(workshopID, mechanicID string) (*entity.CommissionConfig, error) {
	for _, c := range r.configs {
		if c.WorkshopID == workshopID && c.MechanicID == mechanicID && c.Active {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCommissionConfigRepo) ListByWorkshop(workshopID string) ([]*entity.CommissionConfig, error) {
	var out []*entity.CommissionConfig
	for _, c := range r.configs {
		if c.WorkshopID == workshopID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCommissionConfigRepo) Delete(id string) error {
	delete(r.configs, id)
	return nil
}

type fakeCommissionRepo struct {
	commissions []*entity.Commission
}

func (r *fakeCommissionRepo) Create(c *entity.Commission) error {
	cp := *c
	r.commissions = append(r.commissions, &cp)
	return nil
}

func (r *fakeCommissionRepo) GetByID(id string) (*entity.Commission, error) {
	for _, c := range r.commissions {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCommissionRepo) ListByWorkshop(workshopID, mechanicID, status string, limit, offset int) ([]*entity.Commission, error) {
	var out []*entity.Commission
	for _, c := range r.commissions {
		if c.WorkshopID != workshopID {
			continue
		}
		if mechanicID != "" && c.MechanicID != mechanicID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCommissionRepo) Update(c *entity.Commission) error {
	for i, prev := range r.commissions {
		if prev.ID == c.ID {
			cp := *c
			r.commissions[i] = &cp
			return nil
		}
	}
	return nil
}

// fakeOrdersTx runner transaccional: si fn falla, restaura el estado previo.
type fakeOrdersTx struct {
	orders      *fakeOrderRepo
	budgets     *fakeBudgetRepo
	obligations *fakeObligationRepo
	commissions *fakeCommissionRepo
}

func newFakeOrdersTx() *fakeOrdersTx {
	return &fakeOrdersTx{
		orders:      newFakeOrderRepo(),
		budgets:     newFakeBudgetRepo(),
		obligations: &fakeObligationRepo{},
		commissions: &fakeCommissionRepo{},
	}
}

func (t *fakeOrdersTx) RunOrders(ctx context.Context, fn func(
	orderRepo repository.ServiceOrderRepository,
	budgetRepo repository.BudgetRepository,
	obligRepo repository.ObligationRepository,
	commissionRepo repository.CommissionRepository,
) error) error {
	ordersSnap := make(map[string]*entity.ServiceOrder, len(t.orders.orders))
	for k, v := range t.orders.orders {
		cp := *v
		ordersSnap[k] = &cp
	}
	budgetsSnap := make(map[string]*entity.Budget, len(t.budgets.budgets))
	for k, v := range t.budgets.budgets {
		cp := *v
		budgetsSnap[k] = &cp
	}
	obligSnap := append([]*entity.Obligation(nil), t.obligations.obligations...)
	commSnap := append([]*entity.Commission(nil), t.commissions.commissions...)

	if err := fn(t.orders, t.budgets, t.obligations, t.commissions); err != nil {
		t.orders.orders = ordersSnap
		t.budgets.budgets = budgetsSnap
		t.obligations.obligations = obligSnap
		t.commissions.commissions = commSnap
		return err
	}
	return nil
}
