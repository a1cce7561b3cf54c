package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/application/finance"
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/order"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
	"github.com/pacoficinas/oficina-api/pkg/decimals"
	"github.com/pacoficinas/oficina-api/pkg/logger"
)

// OrderUseCase gobierna el ciclo de vida de las órdenes de servicio: alta,
// transiciones de estado y conversión de presupuestos aprobados.
type OrderUseCase struct {
	txRunner     TxRunner
	orderRepo    repository.ServiceOrderRepository
	budgetRepo   repository.BudgetRepository
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
	configRepo   repository.CommissionConfigRepository
	generator    *finance.Generator
	log          *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.ServiceOrderRepository,
	budgetRepo repository.BudgetRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	configRepo repository.CommissionConfigRepository,
	generator *finance.Generator,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		budgetRepo:   budgetRepo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		configRepo:   configRepo,
		generator:    generator,
		log:          log.Component("orders"),
	}
}

// checkCustomerAndVehicle valida que cliente y vehículo existan, pertenezcan
// al taller y que el vehículo sea del cliente indicado.
func checkCustomerAndVehicle(
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	workshopID, customerID, vehicleID string,
) (*entity.Customer, error) {
	customer, err := customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}
	vehicle, err := vehicleRepo.GetByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, domain.ErrNotFound
	}
	if vehicle.WorkshopID != workshopID || vehicle.CustomerID != customerID {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}

// buildItems valida y materializa las líneas de una OS o presupuesto.
// Devuelve las líneas junto con los subtotales de repuestos y mano de obra.
func buildItems(items []dto.OrderItemRequest) ([]entity.ServiceOrderItem, decimal.Decimal, decimal.Decimal, error) {
	parts := decimal.Zero
	labor := decimal.Zero
	out := make([]entity.ServiceOrderItem, 0, len(items))
	for _, in := range items {
		if in.Type != entity.ItemProduct && in.Type != entity.ItemLabor {
			return nil, parts, labor, domain.ErrInvalidInput
		}
		if in.Description == "" || !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, parts, labor, domain.ErrInvalidInput
		}
		if in.UnitPrice.IsNegative() {
			return nil, parts, labor, domain.ErrInvalidInput
		}
		lineTotal := decimals.Money(in.Quantity.Mul(in.UnitPrice))
		switch in.Type {
		case entity.ItemProduct:
			parts = parts.Add(lineTotal)
		case entity.ItemLabor:
			labor = labor.Add(lineTotal)
		}
		out = append(out, entity.ServiceOrderItem{
			ID:          uuid.New().String(),
			Type:        in.Type,
			ProductID:   in.ProductID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   lineTotal,
		})
	}
	return out, parts, labor, nil
}

// Create da de alta una orden de servicio manual en estado open.
func (uc *OrderUseCase) Create(ctx context.Context, workshopID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if workshopID == "" || in.CustomerID == "" || in.VehicleID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := checkCustomerAndVehicle(uc.customerRepo, uc.vehicleRepo, workshopID, in.CustomerID, in.VehicleID); err != nil {
		return nil, err
	}

	items, parts, labor, err := buildItems(in.Items)
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

	now := time.Now().UTC()
	o := &entity.ServiceOrder{
		ID:            uuid.New().String(),
		WorkshopID:    workshopID,
		CustomerID:    in.CustomerID,
		VehicleID:     in.VehicleID,
		MechanicID:    in.MechanicID,
		OdometerIn:    in.OdometerIn,
		Diagnosis:     in.Diagnosis,
		Notes:         in.Notes,
		PartsTotal:    parts,
		LaborTotal:    labor,
		DiscountTotal: in.DiscountTotal,
		GrandTotal:    grand,
		Status:        entity.OrderOpen,
		OpenedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created []*entity.ServiceOrderItem
	err = uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.ServiceOrderRepository,
		_ repository.BudgetRepository,
		_ repository.ObligationRepository,
		_ repository.CommissionRepository,
	) error {
		number, err := orderRepo.NextNumber(workshopID)
		if err != nil {
			return err
		}
		o.Number = number
		if err := orderRepo.Create(o); err != nil {
			return err
		}
		for i := range items {
			item := items[i]
			item.OrderID = o.ID
			item.CreatedAt = now
			if err := orderRepo.CreateItem(&item); err != nil {
				return err
			}
			created = append(created, &item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_id", o.ID).Int64("number", o.Number).Msg("orden de servicio creada")
	return dto.ToOrderResponse(o, created), nil
}

// Get devuelve una orden con sus ítems.
func (uc *OrderUseCase) Get(ctx context.Context, workshopID, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.orderRepo.ListItems(o.ID)
	if err != nil {
		return nil, err
	}
	return dto.ToOrderResponse(o, items), nil
}

// List devuelve las órdenes del taller, opcionalmente filtradas por estado.
func (uc *OrderUseCase) List(ctx context.Context, workshopID, status string, page dto.PageRequest) ([]*dto.OrderResponse, error) {
	page.DefaultPage()
	list, err := uc.orderRepo.ListByWorkshop(workshopID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.ToOrderResponse(o, nil))
	}
	return out, nil
}

// Transition aplica un evento del ciclo de vida sobre la orden.
//
// El cambio de estado es un UPDATE condicionado al estado leído: si otra
// transición concurrente ganó la carrera, no se afecta ninguna fila y la
// operación devuelve ErrConflict sin efectos parciales. El facturado genera
// la cuenta por cobrar en la misma transacción, siempre contra el taller de
// la propia orden, y devenga la comisión del mecánico asignado si tiene una
// regla activa.
func (uc *OrderUseCase) Transition(ctx context.Context, workshopID, orderID, event string) (*dto.OrderResponse, error) {
	event = strings.ToLower(strings.TrimSpace(event))
	if !order.IsEvent(event) {
		return nil, domain.ErrInvalidInput
	}

	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}

	tr, err := order.Next(o.Status, event)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var closedAt *time.Time
	if tr.SetClosedAt {
		closedAt = &now
	}

	var counterparty string
	if tr.CreateReceivable {
		customer, err := uc.customerRepo.GetByID(o.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			counterparty = customer.Name
		}
	}

	// La regla de comisión se lee fuera de la transacción; el devengado
	// congela los valores igual, así que una edición concurrente de la regla
	// no compromete nada.
	var commissionCfg *entity.CommissionConfig
	if tr.CreateCommission && o.MechanicID != "" {
		commissionCfg, err = uc.configRepo.GetActiveByMechanic(o.WorkshopID, o.MechanicID)
		if err != nil {
			return nil, err
		}
	}

	err = uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.ServiceOrderRepository,
		_ repository.BudgetRepository,
		obligRepo repository.ObligationRepository,
		commissionRepo repository.CommissionRepository,
	) error {
		ok, err := orderRepo.UpdateStatus(o.ID, o.Status, tr.To, closedAt)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		if tr.CreateReceivable {
			oblig := uc.generator.ReceivableFromOrder(o, counterparty, now)
			if err := obligRepo.Create(oblig); err != nil {
				return err
			}
		}
		if comm := uc.generator.CommissionFromOrder(commissionCfg, o, now); comm != nil {
			if err := commissionRepo.Create(comm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.Status = tr.To
	if closedAt != nil {
		o.ClosedAt = closedAt
	}
	uc.log.Info().Str("order_id", o.ID).Str("event", event).Str("status", o.Status).Msg("transición aplicada")

	items, err := uc.orderRepo.ListItems(o.ID)
	if err != nil {
		return nil, err
	}
	return dto.ToOrderResponse(o, items), nil
}

// ConvertBudget convierte un presupuesto aprobado en una orden de servicio.
//
// La conversión es a lo sumo una: el flip approved→converted es un UPDATE
// condicionado, de modo que dos conversiones concurrentes producen
// exactamente una OS. Los ítems se copian como snapshot; editar el
// presupuesto después no toca la orden.
func (uc *OrderUseCase) ConvertBudget(ctx context.Context, workshopID, budgetID, userID string) (*dto.OrderResponse, error) {
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
	switch b.Status {
	case entity.BudgetApproved:
		// sigue
	case entity.BudgetConverted:
		return nil, domain.ErrAlreadyConverted
	default:
		return nil, domain.ErrNotApproved
	}

	budgetItems, err := uc.budgetRepo.ListItems(b.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &entity.ServiceOrder{
		ID:            uuid.New().String(),
		WorkshopID:    b.WorkshopID,
		BudgetID:      b.ID,
		CustomerID:    b.CustomerID,
		VehicleID:     b.VehicleID,
		PartsTotal:    b.PartsTotal,
		LaborTotal:    b.LaborTotal,
		DiscountTotal: b.DiscountTotal,
		GrandTotal:    b.GrandTotal,
		Status:        entity.OrderOpen,
		Notes:         b.Notes,
		OpenedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created []*entity.ServiceOrderItem
	err = uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.ServiceOrderRepository,
		budgetRepo repository.BudgetRepository,
		_ repository.ObligationRepository,
		_ repository.CommissionRepository,
	) error {
		ok, err := budgetRepo.UpdateStatus(b.ID, entity.BudgetApproved, entity.BudgetConverted)
		if err != nil {
			return err
		}
		if !ok {
			// Otra conversión ganó la carrera.
			return domain.ErrAlreadyConverted
		}
		number, err := orderRepo.NextNumber(b.WorkshopID)
		if err != nil {
			return err
		}
		o.Number = number
		if err := orderRepo.Create(o); err != nil {
			return err
		}
		for _, bi := range budgetItems {
			item := &entity.ServiceOrderItem{
				ID:          uuid.New().String(),
				OrderID:     o.ID,
				Type:        bi.Type,
				ProductID:   bi.ProductID,
				Description: bi.Description,
				Quantity:    bi.Quantity,
				UnitPrice:   bi.UnitPrice,
				LineTotal:   bi.LineTotal,
				CreatedAt:   now,
			}
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
			created = append(created, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("budget_id", b.ID).Str("order_id", o.ID).Msg("presupuesto convertido en OS")
	return dto.ToOrderResponse(o, created), nil
}
