package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/application/finance"
	"github.com/pacoficinas/oficina-api/internal/application/orders"
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/order"
	"github.com/pacoficinas/oficina-api/pkg/logger"
)

const (
	testWorkshopID = "00000000-0000-0000-0000-000000000010"
	testUserID     = "00000000-0000-0000-0000-000000000020"
	testCustomerID = "00000000-0000-0000-0000-000000000030"
	testVehicleID  = "00000000-0000-0000-0000-000000000040"
	testMechanicID = "00000000-0000-0000-0000-000000000050"
)

type testEnv struct {
	tx             *fakeOrdersTx
	customers      *fakeCustomerRepo
	vehicles       *fakeVehicleRepo
	commissionCfgs *fakeCommissionConfigRepo
	orderUC        *orders.OrderUseCase
	budgetUC       *orders.BudgetUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tx := newFakeOrdersTx()
	customers := newFakeCustomerRepo()
	customers.customers[testCustomerID] = &entity.Customer{
		ID:         testCustomerID,
		WorkshopID: testWorkshopID,
		Name:       "Maria Souza",
	}
	vehicles := newFakeVehicleRepo()
	vehicles.vehicles[testVehicleID] = &entity.Vehicle{
		ID:         testVehicleID,
		WorkshopID: testWorkshopID,
		CustomerID: testCustomerID,
		Plate:      "BRA2E19",
	}
	commissionCfgs := newFakeCommissionConfigRepo()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	gen := finance.NewGenerator(finance.DefaultTerms())
	return &testEnv{
		tx:             tx,
		customers:      customers,
		vehicles:       vehicles,
		commissionCfgs: commissionCfgs,
		orderUC:        orders.NewOrderUseCase(tx, tx.orders, tx.budgets, customers, vehicles, commissionCfgs, gen, log),
		budgetUC:       orders.NewBudgetUseCase(tx, tx.budgets, customers, vehicles, log),
	}
}

func seedOrder(env *testEnv, id, status string, total float64) *entity.ServiceOrder {
	o := &entity.ServiceOrder{
		ID:         id,
		WorkshopID: testWorkshopID,
		Number:     7,
		CustomerID: testCustomerID,
		VehicleID:  testVehicleID,
		GrandTotal: decimal.NewFromFloat(total),
		Status:     status,
		OpenedAt:   time.Now().UTC().Add(-24 * time.Hour),
	}
	env.tx.orders.orders[id] = o
	return o
}

func itemsFixture() []dto.OrderItemRequest {
	return []dto.OrderItemRequest{
		{Type: entity.ItemProduct, Description: "Pastilha de freio", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromFloat(80.00)},
		{Type: entity.ItemLabor, Description: "Troca de pastilhas", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(120.00)},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_TotalesDerivados(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.orderUC.Create(context.Background(), testWorkshopID, testUserID, dto.CreateOrderRequest{
		CustomerID: testCustomerID,
		VehicleID:  testVehicleID,
		Items:      itemsFixture(),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderOpen, res.Status)
	assert.Equal(t, int64(1), res.Number)
	assert.True(t, res.PartsTotal.Equal(decimal.NewFromFloat(160.00)), "repuestos: 2 x 80.00")
	assert.True(t, res.LaborTotal.Equal(decimal.NewFromFloat(120.00)))
	assert.True(t, res.GrandTotal.Equal(decimal.NewFromFloat(280.00)))
	require.Len(t, res.Items, 2)
}

func TestCreateOrder_ClienteDeOtroTaller(t *testing.T) {
	env := newTestEnv(t)
	env.customers.customers["ajeno"] = &entity.Customer{ID: "ajeno", WorkshopID: "otro-taller", Name: "X"}

	_, err := env.orderUC.Create(context.Background(), testWorkshopID, testUserID, dto.CreateOrderRequest{
		CustomerID: "ajeno",
		VehicleID:  testVehicleID,
		Items:      itemsFixture(),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateOrder_VehiculoInexistente(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.orderUC.Create(context.Background(), testWorkshopID, testUserID, dto.CreateOrderRequest{
		CustomerID: testCustomerID,
		VehicleID:  "no-existe",
		Items:      itemsFixture(),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, env.tx.orders.orders)
}

func TestCreateOrder_VehiculoDeOtroCliente(t *testing.T) {
	env := newTestEnv(t)
	env.customers.customers["otro-cliente"] = &entity.Customer{
		ID: "otro-cliente", WorkshopID: testWorkshopID, Name: "Joao Lima",
	}
	env.vehicles.vehicles["veh-ajeno"] = &entity.Vehicle{
		ID: "veh-ajeno", WorkshopID: testWorkshopID, CustomerID: "otro-cliente", Plate: "XYZ1A23",
	}

	_, err := env.orderUC.Create(context.Background(), testWorkshopID, testUserID, dto.CreateOrderRequest{
		CustomerID: testCustomerID,
		VehicleID:  "veh-ajeno",
		Items:      itemsFixture(),
	})
	require.ErrorIs(t, err, domain.ErrForbidden, "el vehículo pertenece a otro cliente")
}

func TestCreateOrder_VehiculoDeOtroTaller(t *testing.T) {
	env := newTestEnv(t)
	env.vehicles.vehicles["veh-fuera"] = &entity.Vehicle{
		ID: "veh-fuera", WorkshopID: "otro-taller", CustomerID: testCustomerID, Plate: "QWE4R56",
	}

	_, err := env.orderUC.Create(context.Background(), testWorkshopID, testUserID, dto.CreateOrderRequest{
		CustomerID: testCustomerID,
		VehicleID:  "veh-fuera",
		Items:      itemsFixture(),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_CicloCompleto(t *testing.T) {
	env := newTestEnv(t)
	seedOrder(env, "os-1", entity.OrderOpen, 280.00)

	pasos := []struct {
		event string
		want  string
	}{
		{order.EventStart, entity.OrderInProgress},
		{order.EventPause, entity.OrderAwaitingParts},
		{order.EventResume, entity.OrderInProgress},
		{order.EventComplete, entity.OrderCompleted},
		{order.EventInvoice, entity.OrderInvoiced},
	}
	for _, paso := range pasos {
		res, err := env.orderUC.Transition(context.Background(), testWorkshopID, "os-1", paso.event)
		require.NoError(t, err, "evento %s", paso.event)
		assert.Equal(t, paso.want, res.Status)
	}

	// complete dejó registrada la fecha de conclusión
	o, _ := env.tx.orders.GetByID("os-1")
	require.NotNil(t, o.ClosedAt)

	// invoice generó exactamente una cuenta por cobrar
	obligs, _ := env.tx.obligations.ListByOrder("os-1")
	require.Len(t, obligs, 1)
	oblig := obligs[0]
	assert.Equal(t, entity.ObligationReceivable, oblig.Kind)
	assert.Equal(t, entity.ObligationOriginOrder, oblig.Origin)
	assert.Equal(t, "Maria Souza", oblig.Counterparty)
	assert.True(t, oblig.Amount.Equal(decimal.NewFromFloat(280.00)))
	wantDue := o.ClosedAt.AddDate(0, 0, 30)
	assert.True(t, oblig.DueDate.Equal(wantDue), "vencimiento = conclusión + 30 días")
}

func TestTransition_ReceivableUsaTallerDeLaOrden(t *testing.T) {
	env := newTestEnv(t)
	o := seedOrder(env, "os-1", entity.OrderCompleted, 500.00)
	now := time.Now().UTC()
	o.ClosedAt = &now

	_, err := env.orderUC.Transition(context.Background(), testWorkshopID, "os-1", order.EventInvoice)
	require.NoError(t, err)

	obligs, _ := env.tx.obligations.ListByOrder("os-1")
	require.Len(t, obligs, 1)
	assert.Equal(t, o.WorkshopID, obligs[0].WorkshopID, "la cuenta por cobrar pertenece al taller de la orden")
}

func TestTransition_ParesIlegales(t *testing.T) {
	env := newTestEnv(t)
	casos := []struct {
		status string
		event  string
	}{
		{entity.OrderAwaitingParts, order.EventComplete}, // debe pasar por in_progress
		{entity.OrderOpen, order.EventComplete},
		{entity.OrderOpen, order.EventInvoice},
		{entity.OrderCompleted, order.EventStart},
		{entity.OrderInvoiced, order.EventCancel}, // terminal
		{entity.OrderCancelled, order.EventStart}, // terminal
	}
	for i, c := range casos {
		id := "os-ilegal"
		seedOrder(env, id, c.status, 100.00)
		_, err := env.orderUC.Transition(context.Background(), testWorkshopID, id, c.event)
		require.ErrorIs(t, err, domain.ErrInvalidTransition, "caso %d: %s + %s", i, c.status, c.event)

		o, _ := env.tx.orders.GetByID(id)
		assert.Equal(t, c.status, o.Status, "la transición ilegal no cambia el estado")
	}
	assert.Empty(t, env.tx.obligations.obligations, "ninguna transición ilegal genera cuentas")
}

func TestTransition_EventoDesconocido(t *testing.T) {
	env := newTestEnv(t)
	seedOrder(env, "os-1", entity.OrderOpen, 100.00)
	_, err := env.orderUC.Transition(context.Background(), testWorkshopID, "os-1", "reabrir")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_CarreraConcurrente(t *testing.T) {
	env := newTestEnv(t)
	seedOrder(env, "os-1", entity.OrderOpen, 100.00)
	// Otra transición ya movió la fila a in_progress entre la lectura y el UPDATE.
	env.tx.orders.statusOverride = entity.OrderInProgress

	_, err := env.orderUC.Transition(context.Background(), testWorkshopID, "os-1", order.EventStart)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransition_FacturadoAtomico(t *testing.T) {
	env := newTestEnv(t)
	seedOrder(env, "os-1", entity.OrderCompleted, 300.00)
	env.tx.obligations.failCreate = true

	_, err := env.orderUC.Transition(context.Background(), testWorkshopID, "os-1", order.EventInvoice)
	require.ErrorIs(t, err, errInjected)

	o, _ := env.tx.orders.GetByID("os-1")
	assert.Equal(t, entity.OrderCompleted, o.Status, "si la cuenta por cobrar falla, el estado se revierte")
	assert.Empty(t, env.tx.obligations.obligations)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comisiones devengadas al facturar
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_FacturarDevengaComision(t *testing.T) {
	env := newTestEnv(t)
	o := seedOrder(env, "os-1", entity.OrderCompleted, 280.00)
	o.MechanicID = testMechanicID
	o.LaborTotal = decimal.NewFromFloat(120.00)
	env.commissionCfgs.configs["cfg-1"] = &entity.CommissionConfig{
		ID:         "cfg-1",
		WorkshopID: testWorkshopID,
		MechanicID: testMechanicID,
		CalcType:   entity.CommissionPercentLabor,
		LaborPct:   decimal.NewFromInt(10),
		Active:     true,
	}

	_, err := env.orderUC.Transition(context.Background(), testWorkshopID, "os-1", order.EventInvoice)
	require.NoError(t, err)

	require.Len(t, env.tx.commissions.commissions, 1)
	comm := env.tx.commissions.commissions[0]
	assert.Equal(t, entity.CommissionPending, comm.Status)
	assert.Equal(t, testMechanicID, comm.MechanicID)
	assert.Equal(t, "os-1", comm.OrderID)
	assert.True(t, comm.Amount.Equal(decimal.NewFromFloat(12.00)), "10%% de mano de obra 120.00")
	assert.True(t, comm.LaborTotal.Equal(decimal.NewFromFloat(120.00)), "los valores de la orden quedan congelados")
	assert.True(t, comm.OrderTotal.Equal(decimal.NewFromFloat(280.00)))
}

func TestTransition_SinReglaNoHayComision(t *testing.T) {
	env := newTestEnv(t)
	o := seedOrder(env, "os-1", entity.OrderCompleted, 280.00)
	o.MechanicID = testMechanicID
	o.LaborTotal = decimal.NewFromFloat(120.00)

	_, err := env.orderUC.Transition(context.Background(), testWorkshopID, "os-1", order.EventInvoice)
	require.NoError(t, err)

	obligs, _ := env.tx.obligations.ListByOrder("os-1")
	require.Len(t, obligs, 1, "la cuenta por cobrar se genera igual")
	assert.Empty(t, env.tx.commissions.commissions)
}

func TestTransition_SinMecanicoNoHayComision(t *testing.T) {
	env := newTestEnv(t)
	seedOrder(env, "os-1", entity.OrderCompleted, 280.00)

	_, err := env.orderUC.Transition(context.Background(), testWorkshopID, "os-1", order.EventInvoice)
	require.NoError(t, err)
	assert.Empty(t, env.tx.commissions.commissions)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión de presupuestos
// ──────────────────────────────────────────────────────────────────────────────

func seedBudget(env *testEnv, id, status string) *entity.Budget {
	b := &entity.Budget{
		ID:           id,
		WorkshopID:   testWorkshopID,
		Number:       3,
		CustomerID:   testCustomerID,
		VehicleID:    testVehicleID,
		ValidityDays: 15,
		PartsTotal:   decimal.NewFromFloat(160.00),
		LaborTotal:   decimal.NewFromFloat(120.00),
		GrandTotal:   decimal.NewFromFloat(280.00),
		Status:       status,
	}
	env.tx.budgets.budgets[id] = b
	env.tx.budgets.items[id] = []*entity.BudgetItem{
		{ID: "bi-1", BudgetID: id, Type: entity.ItemProduct, Description: "Pastilha de freio", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromFloat(80.00), LineTotal: decimal.NewFromFloat(160.00)},
		{ID: "bi-2", BudgetID: id, Type: entity.ItemLabor, Description: "Troca de pastilhas", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(120.00), LineTotal: decimal.NewFromFloat(120.00)},
	}
	return b
}

func TestConvertBudget_Aprobado(t *testing.T) {
	env := newTestEnv(t)
	seedBudget(env, "pre-1", entity.BudgetApproved)

	res, err := env.orderUC.ConvertBudget(context.Background(), testWorkshopID, "pre-1", testUserID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderOpen, res.Status)
	assert.Equal(t, "pre-1", res.BudgetID)
	assert.True(t, res.GrandTotal.Equal(decimal.NewFromFloat(280.00)))
	require.Len(t, res.Items, 2, "los ítems se copian como snapshot")

	b, _ := env.tx.budgets.GetByID("pre-1")
	assert.Equal(t, entity.BudgetConverted, b.Status)
}

func TestConvertBudget_SnapshotInmutable(t *testing.T) {
	env := newTestEnv(t)
	seedBudget(env, "pre-1", entity.BudgetApproved)

	res, err := env.orderUC.ConvertBudget(context.Background(), testWorkshopID, "pre-1", testUserID)
	require.NoError(t, err)

	// Editar los ítems del presupuesto después no afecta la OS creada.
	env.tx.budgets.items["pre-1"][0].UnitPrice = decimal.NewFromFloat(999.00)
	items, _ := env.tx.orders.ListItems(res.ID)
	require.Len(t, items, 2)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromFloat(80.00)))
}

func TestConvertBudget_ALoSumoUnaVez(t *testing.T) {
	env := newTestEnv(t)
	seedBudget(env, "pre-1", entity.BudgetApproved)

	_, err := env.orderUC.ConvertBudget(context.Background(), testWorkshopID, "pre-1", testUserID)
	require.NoError(t, err)

	_, err = env.orderUC.ConvertBudget(context.Background(), testWorkshopID, "pre-1", testUserID)
	require.ErrorIs(t, err, domain.ErrAlreadyConverted)

	assert.Len(t, env.tx.orders.orders, 1, "la segunda conversión no crea otra OS")
}

func TestConvertBudget_NoAprobado(t *testing.T) {
	env := newTestEnv(t)
	for _, status := range []string{entity.BudgetOpen, entity.BudgetDeclined, entity.BudgetExpired} {
		seedBudget(env, "pre-x", status)
		_, err := env.orderUC.ConvertBudget(context.Background(), testWorkshopID, "pre-x", testUserID)
		require.ErrorIs(t, err, domain.ErrNotApproved, "estado %s", status)
	}
	assert.Empty(t, env.tx.orders.orders)
}

// ──────────────────────────────────────────────────────────────────────────────
// Presupuestos
// ──────────────────────────────────────────────────────────────────────────────

func TestBudget_CrearAprobarConvertir(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.budgetUC.Create(context.Background(), testWorkshopID, testUserID, dto.CreateBudgetRequest{
		CustomerID: testCustomerID,
		VehicleID:  testVehicleID,
		Items:      itemsFixture(),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BudgetOpen, res.Status)
	assert.Equal(t, 15, res.ValidityDays, "validez por defecto")

	require.NoError(t, env.budgetUC.Approve(context.Background(), testWorkshopID, res.ID))

	converted, err := env.orderUC.ConvertBudget(context.Background(), testWorkshopID, res.ID, testUserID)
	require.NoError(t, err)
	assert.True(t, converted.GrandTotal.Equal(res.GrandTotal))
}

func TestBudget_RechazarDosVeces(t *testing.T) {
	env := newTestEnv(t)
	seedBudget(env, "pre-1", entity.BudgetOpen)

	require.NoError(t, env.budgetUC.Decline(context.Background(), testWorkshopID, "pre-1"))
	err := env.budgetUC.Decline(context.Background(), testWorkshopID, "pre-1")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestBudget_BarridoExpiraSoloVencidosAbiertos(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

	vencido := seedBudget(env, "pre-viejo", entity.BudgetOpen)
	vencido.CreatedAt = now.AddDate(0, 0, -20) // validez 15 días, ya pasó
	vigente := seedBudget(env, "pre-nuevo", entity.BudgetOpen)
	vigente.CreatedAt = now.AddDate(0, 0, -3)
	aprobado := seedBudget(env, "pre-aprobado", entity.BudgetApproved)
	aprobado.CreatedAt = now.AddDate(0, 0, -20)

	n, err := env.budgetUC.MarkExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, entity.BudgetExpired, env.tx.budgets.budgets["pre-viejo"].Status)
	assert.Equal(t, entity.BudgetOpen, env.tx.budgets.budgets["pre-nuevo"].Status)
	assert.Equal(t, entity.BudgetApproved, env.tx.budgets.budgets["pre-aprobado"].Status)
}
