package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
	"github.com/pacoficinas/oficina-api/pkg/logger"
)

// BudgetUseCase gestiona presupuestos: alta, aprobación y rechazo. La
// conversión a OS vive en OrderUseCase porque cruza ambos agregados.
type BudgetUseCase struct {
	txRunner     TxRunner
	budgetRepo   repository.BudgetRepository
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
	log          *logger.Logger
}

// NewBudgetUseCase construye el caso de uso.
func NewBudgetUseCase(
	txRunner TxRunner,
	budgetRepo repository.BudgetRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	log *logger.Logger,
) *BudgetUseCase {
	return &BudgetUseCase{
		txRunner:     txRunner,
		budgetRepo:   budgetRepo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		log:          log.Component("budgets"),
	}
}

// Create da de alta un presupuesto en estado open.
func (uc *BudgetUseCase) Create(ctx context.Context, workshopID, userID string, in dto.CreateBudgetRequest) (*dto.BudgetResponse, error) {
	if workshopID == "" || in.CustomerID == "" || in.VehicleID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := checkCustomerAndVehicle(uc.customerRepo, uc.vehicleRepo, workshopID, in.CustomerID, in.VehicleID); err != nil {
		return nil, err
	}

	lines, parts, labor, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	if in.DiscountTotal.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	grand := parts.Add(labor).Sub(in.DiscountTotal)
	if grand.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	validity := in.ValidityDays
	if validity <= 0 {
		validity = 15
	}

	now := time.Now().UTC()
	b := &entity.Budget{
		ID:            uuid.New().String(),
		WorkshopID:    workshopID,
		CustomerID:    in.CustomerID,
		VehicleID:     in.VehicleID,
		ValidityDays:  validity,
		PartsTotal:    parts,
		LaborTotal:    labor,
		DiscountTotal: in.DiscountTotal,
		GrandTotal:    grand,
		Status:        entity.BudgetOpen,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created []*entity.BudgetItem
	err = uc.txRunner.RunOrders(ctx, func(
		_ repository.ServiceOrderRepository,
		budgetRepo repository.BudgetRepository,
		_ repository.ObligationRepository,
		_ repository.CommissionRepository,
	) error {
		number, err := budgetRepo.NextNumber(workshopID)
		if err != nil {
			return err
		}
		b.Number = number
		if err := budgetRepo.Create(b); err != nil {
			return err
		}
		for _, line := range lines {
			item := &entity.BudgetItem{
				ID:          uuid.New().String(),
				BudgetID:    b.ID,
				Type:        line.Type,
				ProductID:   line.ProductID,
				Description: line.Description,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				LineTotal:   line.LineTotal,
				CreatedAt:   now,
			}
			if err := budgetRepo.CreateItem(item); err != nil {
				return err
			}
			created = append(created, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("budget_id", b.ID).Int64("number", b.Number).Msg("presupuesto creado")
	return dto.ToBudgetResponse(b, created), nil
}

// Get devuelve un presupuesto con sus ítems.
func (uc *BudgetUseCase) Get(ctx context.Context, workshopID, budgetID string) (*dto.BudgetResponse, error) {
	b, err := uc.budgetRepo.GetByID(budgetID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if b.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.budgetRepo.ListItems(b.ID)
	if err != nil {
		return nil, err
	}
	return dto.ToBudgetResponse(b, items), nil
}

// List devuelve los presupuestos del taller, opcionalmente por estado.
func (uc *BudgetUseCase) List(ctx context.Context, workshopID, status string, page dto.PageRequest) ([]*dto.BudgetResponse, error) {
	page.DefaultPage()
	list, err := uc.budgetRepo.ListByWorkshop(workshopID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BudgetResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.ToBudgetResponse(b, nil))
	}
	return out, nil
}

// Approve marca un presupuesto open como approved.
func (uc *BudgetUseCase) Approve(ctx context.Context, workshopID, budgetID string) error {
	return uc.setStatus(ctx, workshopID, budgetID, entity.BudgetOpen, entity.BudgetApproved)
}

// Decline marca un presupuesto open como declined.
func (uc *BudgetUseCase) Decline(ctx context.Context, workshopID, budgetID string) error {
	return uc.setStatus(ctx, workshopID, budgetID, entity.BudgetOpen, entity.BudgetDeclined)
}

// MarkExpired pasa a expired todo presupuesto open cuya validez venció.
// Lo dispara el job programado; cruza todos los talleres.
func (uc *BudgetUseCase) MarkExpired(ctx context.Context, ref time.Time) (int64, error) {
	n, err := uc.budgetRepo.MarkExpired(ref)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Info().Int64("marcados", n).Msg("presupuestos vencidos")
	}
	return n, nil
}

func (uc *BudgetUseCase) setStatus(ctx context.Context, workshopID, budgetID, from, to string) error {
	b, err := uc.budgetRepo.GetByID(budgetID)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrNotFound
	}
	if b.WorkshopID != workshopID {
		return domain.ErrForbidden
	}
	if b.Status != from {
		return domain.ErrConflict
	}
	ok, err := uc.budgetRepo.UpdateStatus(budgetID, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}
