package finance

import (
	"context"
	"time"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// ObligationUseCase consultas y liquidación de cuentas por pagar/cobrar.
type ObligationUseCase struct {
	obligationRepo repository.ObligationRepository
}

// NewObligationUseCase construye el caso de uso.
func NewObligationUseCase(obligationRepo repository.ObligationRepository) *ObligationUseCase {
	return &ObligationUseCase{obligationRepo: obligationRepo}
}

// List devuelve obligaciones del taller filtradas por clase y estado.
func (uc *ObligationUseCase) List(ctx context.Context, workshopID, kind, status string, page dto.PageRequest) ([]*dto.ObligationResponse, error) {
	if workshopID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.obligationRepo.ListByWorkshop(workshopID, kind, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ObligationResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.ToObligationResponse(o))
	}
	return out, nil
}

// Settle marca una obligación como pagada/cobrada. Solo open u overdue son
// liquidables; sin monto explícito se liquida por el total.
func (uc *ObligationUseCase) Settle(ctx context.Context, workshopID, obligationID string, in dto.SettleObligationRequest) (*dto.ObligationResponse, error) {
	o, err := uc.obligationRepo.GetByID(obligationID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}
	if o.Status != entity.ObligationOpen && o.Status != entity.ObligationOverdue {
		return nil, domain.ErrConflict
	}

	now := time.Now().UTC()
	amount := o.Amount
	if in.Amount != nil {
		amount = *in.Amount
	}
	o.Status = entity.ObligationPaid
	o.SettledAt = &now
	o.SettledAmount = &amount
	o.UpdatedAt = now
	if err := uc.obligationRepo.Update(o); err != nil {
		return nil, err
	}
	return dto.ToObligationResponse(o), nil
}

// MarkOverdue pasa a overdue toda obligación open vencida. Lo dispara el
// scheduler diario; devuelve la cantidad de cuentas afectadas.
func (uc *ObligationUseCase) MarkOverdue(ctx context.Context, ref time.Time) (int64, error) {
	return uc.obligationRepo.MarkOverdue(ref)
}
