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

const testMechanicID = "00000000-0000-0000-0000-000000000050"

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de reglas y comisiones
// ──────────────────────────────────────────────────────────────────────────────

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
	commissions map[string]*entity.Commission
}

func newFakeCommissionRepo() *fakeCommissionRepo {
	return &fakeCommissionRepo{commissions: make(map[string]*entity.Commission)}
}

func (r *fakeCommissionRepo) Create(c *entity.Commission) error {
	cp := *c
	r.commissions[c.ID] = &cp
	return nil
}

func (r *fakeCommissionRepo) GetByID(id string) (*entity.Commission, error) {
	if c, ok := r.commissions[id]; ok {
		cp := *c
		return &cp, nil
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
	if _, ok := r.commissions[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.commissions[c.ID] = &cp
	return nil
}

func seedCommission(r *fakeCommissionRepo, id, status string, amount float64) {
	r.commissions[id] = &entity.Commission{
		ID:         id,
		WorkshopID: testWorkshopID,
		OrderID:    "os-1",
		MechanicID: testMechanicID,
		Amount:     decimal.NewFromFloat(amount),
		Status:     status,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Cálculo de comisiones
// ──────────────────────────────────────────────────────────────────────────────

func orderFixture() *entity.ServiceOrder {
	return &entity.ServiceOrder{
		ID:         "os-1",
		WorkshopID: testWorkshopID,
		MechanicID: testMechanicID,
		LaborTotal: decimal.NewFromFloat(120.00),
		GrandTotal: decimal.NewFromFloat(280.00),
	}
}

func TestCommissionFromOrder_TiposDeCalculo(t *testing.T) {
	gen := finance.NewGenerator(finance.DefaultTerms())
	now := time.Now().UTC()

	casos := []struct {
		name string
		cfg  entity.CommissionConfig
		want float64
	}{
		{"porcentaje de mano de obra", entity.CommissionConfig{CalcType: entity.CommissionPercentLabor, LaborPct: decimal.NewFromInt(10)}, 12.00},
		{"porcentaje del total", entity.CommissionConfig{CalcType: entity.CommissionPercentTotal, TotalPct: decimal.NewFromInt(5)}, 14.00},
		{"monto fijo", entity.CommissionConfig{CalcType: entity.CommissionFixed, FixedAmount: decimal.NewFromFloat(50.00)}, 50.00},
		{"mixto", entity.CommissionConfig{CalcType: entity.CommissionMixed, LaborPct: decimal.NewFromInt(10), FixedAmount: decimal.NewFromFloat(20.00)}, 32.00},
	}
	for _, c := range casos {
		c.cfg.WorkshopID = testWorkshopID
		c.cfg.MechanicID = testMechanicID
		c.cfg.Active = true

		comm := gen.CommissionFromOrder(&c.cfg, orderFixture(), now)
		require.NotNil(t, comm, c.name)
		assert.True(t, comm.Amount.Equal(decimal.NewFromFloat(c.want)), "%s: esperado %.2f, calculado %s", c.name, c.want, comm.Amount)
		assert.Equal(t, entity.CommissionPending, comm.Status)
		assert.Equal(t, c.cfg.CalcType, comm.CalcType)
	}
}

func TestCommissionFromOrder_CongelaValoresDeLaOrden(t *testing.T) {
	gen := finance.NewGenerator(finance.DefaultTerms())
	cfg := &entity.CommissionConfig{
		WorkshopID: testWorkshopID,
		MechanicID: testMechanicID,
		CalcType:   entity.CommissionPercentLabor,
		LaborPct:   decimal.NewFromFloat(7.5),
		Active:     true,
	}
	o := orderFixture()
	o.LaborTotal = decimal.NewFromFloat(99.99)

	comm := gen.CommissionFromOrder(cfg, o, time.Now().UTC())
	require.NotNil(t, comm)
	assert.True(t, comm.Amount.Equal(decimal.NewFromFloat(7.50)), "7.5%% de 99.99 redondeado a centavos")
	assert.True(t, comm.LaborTotal.Equal(o.LaborTotal))
	assert.True(t, comm.AppliedPct.Equal(cfg.LaborPct), "la regla aplicada queda registrada")
}

func TestCommissionFromOrder_NoCorresponde(t *testing.T) {
	gen := finance.NewGenerator(finance.DefaultTerms())
	now := time.Now().UTC()
	activa := &entity.CommissionConfig{
		WorkshopID: testWorkshopID, MechanicID: testMechanicID,
		CalcType: entity.CommissionFixed, FixedAmount: decimal.NewFromInt(10), Active: true,
	}

	assert.Nil(t, gen.CommissionFromOrder(nil, orderFixture(), now), "sin regla")

	inactiva := *activa
	inactiva.Active = false
	assert.Nil(t, gen.CommissionFromOrder(&inactiva, orderFixture(), now), "regla inactiva")

	sinMecanico := orderFixture()
	sinMecanico.MechanicID = ""
	assert.Nil(t, gen.CommissionFromOrder(activa, sinMecanico, now), "orden sin mecánico")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de comisión
// ──────────────────────────────────────────────────────────────────────────────

func TestSaveConfig_ReemplazaLaReglaDelMecanico(t *testing.T) {
	configs := newFakeCommissionConfigRepo()
	uc := finance.NewCommissionUseCase(configs, newFakeCommissionRepo())

	_, err := uc.SaveConfig(context.Background(), testWorkshopID, dto.SaveCommissionConfigRequest{
		MechanicID: testMechanicID,
		CalcType:   entity.CommissionPercentLabor,
		LaborPct:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	res, err := uc.SaveConfig(context.Background(), testWorkshopID, dto.SaveCommissionConfigRequest{
		MechanicID:  testMechanicID,
		CalcType:    entity.CommissionFixed,
		FixedAmount: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.True(t, res.Active, "activa por defecto")

	list, err := uc.ListConfigs(context.Background(), testWorkshopID)
	require.NoError(t, err)
	require.Len(t, list, 1, "una regla por par taller-mecánico")
	assert.Equal(t, entity.CommissionFixed, list[0].CalcType)
}

func TestSaveConfig_EntradasInvalidas(t *testing.T) {
	uc := finance.NewCommissionUseCase(newFakeCommissionConfigRepo(), newFakeCommissionRepo())
	casos := []dto.SaveCommissionConfigRequest{
		{MechanicID: testMechanicID, CalcType: "por_hora"},
		{MechanicID: testMechanicID, CalcType: entity.CommissionPercentLabor, LaborPct: decimal.NewFromInt(150)},
		{MechanicID: testMechanicID, CalcType: entity.CommissionPercentTotal, TotalPct: decimal.NewFromInt(-5)},
		{MechanicID: testMechanicID, CalcType: entity.CommissionFixed, FixedAmount: decimal.NewFromInt(-10)},
		{MechanicID: "", CalcType: entity.CommissionFixed},
	}
	for i, in := range casos {
		_, err := uc.SaveConfig(context.Background(), testWorkshopID, in)
		require.ErrorIs(t, err, domain.ErrInvalidInput, "caso %d", i)
	}
}

func TestDeleteConfig_OtroTaller(t *testing.T) {
	configs := newFakeCommissionConfigRepo()
	configs.configs["cfg-1"] = &entity.CommissionConfig{
		ID: "cfg-1", WorkshopID: "otro-taller", MechanicID: testMechanicID,
		CalcType: entity.CommissionFixed, Active: true,
	}
	uc := finance.NewCommissionUseCase(configs, newFakeCommissionRepo())

	err := uc.DeleteConfig(context.Background(), testWorkshopID, "cfg-1")
	require.ErrorIs(t, err, domain.ErrForbidden)

	err = uc.DeleteConfig(context.Background(), testWorkshopID, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pago y cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkPaid_Pendiente(t *testing.T) {
	commissions := newFakeCommissionRepo()
	seedCommission(commissions, "com-1", entity.CommissionPending, 12.00)
	uc := finance.NewCommissionUseCase(newFakeCommissionConfigRepo(), commissions)

	res, err := uc.MarkPaid(context.Background(), testWorkshopID, "com-1", dto.PayCommissionRequest{Notes: "pago semanal"})
	require.NoError(t, err)
	assert.Equal(t, entity.CommissionPaid, res.Status)
	require.NotNil(t, res.PaidAt)
	assert.Equal(t, time.UTC, res.PaidAt.Location(), "la fecha de pago se registra en UTC")
	assert.Equal(t, "pago semanal", res.Notes)
}

func TestMarkPaid_EstadosNoPendientes(t *testing.T) {
	commissions := newFakeCommissionRepo()
	uc := finance.NewCommissionUseCase(newFakeCommissionConfigRepo(), commissions)
	for _, status := range []string{entity.CommissionPaid, entity.CommissionCancelled} {
		seedCommission(commissions, "com-x", status, 12.00)
		_, err := uc.MarkPaid(context.Background(), testWorkshopID, "com-x", dto.PayCommissionRequest{})
		require.ErrorIs(t, err, domain.ErrConflict, "estado %s", status)
	}
}

func TestMarkPaid_OtroTaller(t *testing.T) {
	commissions := newFakeCommissionRepo()
	seedCommission(commissions, "com-1", entity.CommissionPending, 12.00)
	uc := finance.NewCommissionUseCase(newFakeCommissionConfigRepo(), commissions)

	_, err := uc.MarkPaid(context.Background(), "otro-taller", "com-1", dto.PayCommissionRequest{})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCancel_SoloPendientes(t *testing.T) {
	commissions := newFakeCommissionRepo()
	seedCommission(commissions, "com-1", entity.CommissionPending, 12.00)
	uc := finance.NewCommissionUseCase(newFakeCommissionConfigRepo(), commissions)

	res, err := uc.Cancel(context.Background(), testWorkshopID, "com-1", dto.CancelCommissionRequest{Notes: "orden anulada"})
	require.NoError(t, err)
	assert.Equal(t, entity.CommissionCancelled, res.Status)

	_, err = uc.Cancel(context.Background(), testWorkshopID, "com-1", dto.CancelCommissionRequest{})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestList_FiltraPorMecanicoYEstado(t *testing.T) {
	commissions := newFakeCommissionRepo()
	seedCommission(commissions, "com-1", entity.CommissionPending, 12.00)
	seedCommission(commissions, "com-2", entity.CommissionPaid, 50.00)
	commissions.commissions["com-3"] = &entity.Commission{
		ID: "com-3", WorkshopID: testWorkshopID, OrderID: "os-2",
		MechanicID: "otro-mecanico", Amount: decimal.NewFromInt(8), Status: entity.CommissionPending,
	}
	uc := finance.NewCommissionUseCase(newFakeCommissionConfigRepo(), commissions)

	pendientes, err := uc.List(context.Background(), testWorkshopID, testMechanicID, entity.CommissionPending, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, pendientes, 1)
	assert.Equal(t, "com-1", pendientes[0].ID)

	todas, err := uc.List(context.Background(), testWorkshopID, "", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, todas, 3)
}
