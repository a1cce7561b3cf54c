package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// CommissionUseCase administra las reglas de comisión por mecánico y el
// ciclo pendiente → pagada/cancelada de las comisiones devengadas. El
// devengado en sí ocurre en la transición de facturado de la OS.
type CommissionUseCase struct {
	configRepo     repository.CommissionConfigRepository
	commissionRepo repository.CommissionRepository
}

// NewCommissionUseCase construye el caso de uso.
func NewCommissionUseCase(configRepo repository.CommissionConfigRepository, commissionRepo repository.CommissionRepository) *CommissionUseCase {
	return &CommissionUseCase{configRepo: configRepo, commissionRepo: commissionRepo}
}

func validPct(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
}

// SaveConfig crea o reemplaza la regla de comisión del mecánico. Una regla
// por par (taller, mecánico); guardar de nuevo pisa la anterior.
func (uc *CommissionUseCase) SaveConfig(ctx context.Context, workshopID string, in dto.SaveCommissionConfigRequest) (*dto.CommissionConfigResponse, error) {
	if workshopID == "" || in.MechanicID == "" || !entity.IsCalcType(in.CalcType) {
		return nil, domain.ErrInvalidInput
	}
	if !validPct(in.LaborPct) || !validPct(in.TotalPct) || in.FixedAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := time.Now().UTC()
	cfg := &entity.CommissionConfig{
		ID:          uuid.New().String(),
		WorkshopID:  workshopID,
		MechanicID:  in.MechanicID,
		CalcType:    in.CalcType,
		LaborPct:    in.LaborPct,
		TotalPct:    in.TotalPct,
		FixedAmount: in.FixedAmount,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.configRepo.Save(cfg); err != nil {
		return nil, err
	}
	return dto.ToCommissionConfigResponse(cfg), nil
}

// ListConfigs devuelve las reglas del taller.
func (uc *CommissionUseCase) ListConfigs(ctx context.Context, workshopID string) ([]*dto.CommissionConfigResponse, error) {
	if workshopID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.configRepo.ListByWorkshop(workshopID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CommissionConfigResponse, 0, len(list))
	for _, cfg := range list {
		out = append(out, dto.ToCommissionConfigResponse(cfg))
	}
	return out, nil
}

// DeleteConfig elimina una regla del taller.
func (uc *CommissionUseCase) DeleteConfig(ctx context.Context, workshopID, configID string) error {
	cfg, err := uc.configRepo.GetByID(configID)
	if err != nil {
		return err
	}
	if cfg == nil {
		return domain.ErrNotFound
	}
	if cfg.WorkshopID != workshopID {
		return domain.ErrForbidden
	}
	return uc.configRepo.Delete(configID)
}

// List devuelve comisiones del taller, opcionalmente por mecánico y estado.
func (uc *CommissionUseCase) List(ctx context.Context, workshopID, mechanicID, status string, page dto.PageRequest) ([]*dto.CommissionResponse, error) {
	if workshopID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.commissionRepo.ListByWorkshop(workshopID, mechanicID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CommissionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ToCommissionResponse(c))
	}
	return out, nil
}

// MarkPaid marca una comisión pendiente como pagada.
func (uc *CommissionUseCase) MarkPaid(ctx context.Context, workshopID, commissionID string, in dto.PayCommissionRequest) (*dto.CommissionResponse, error) {
	c, err := uc.pending(workshopID, commissionID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c.Status = entity.CommissionPaid
	c.PaidAt = &now
	if in.Notes != "" {
		c.Notes = in.Notes
	}
	c.UpdatedAt = now
	if err := uc.commissionRepo.Update(c); err != nil {
		return nil, err
	}
	return dto.ToCommissionResponse(c), nil
}

// Cancel anula una comisión pendiente.
func (uc *CommissionUseCase) Cancel(ctx context.Context, workshopID, commissionID string, in dto.CancelCommissionRequest) (*dto.CommissionResponse, error) {
	c, err := uc.pending(workshopID, commissionID)
	if err != nil {
		return nil, err
	}
	c.Status = entity.CommissionCancelled
	if in.Notes != "" {
		c.Notes = in.Notes
	}
	c.UpdatedAt = time.Now().UTC()
	if err := uc.commissionRepo.Update(c); err != nil {
		return nil, err
	}
	return dto.ToCommissionResponse(c), nil
}

// pending carga la comisión y valida tenant y estado pendiente.
func (uc *CommissionUseCase) pending(workshopID, commissionID string) (*entity.Commission, error) {
	c, err := uc.commissionRepo.GetByID(commissionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}
	if c.Status != entity.CommissionPending {
		return nil, domain.ErrConflict
	}
	return c, nil
}
