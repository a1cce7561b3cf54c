package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// PostInput describe un movimiento a asentar en el libro de stock.
type PostInput struct {
	WorkshopID string
	ProductID  string
	Type       string          // entity.MovementIn / entity.MovementOut
	Quantity   decimal.Decimal // siempre positiva
	UnitCost   decimal.Decimal
	RefType    string
	RefID      string
	Note       string
	UserID     string
	Now        time.Time
	// UpdateCost refresca el costo del producto con UnitCost (entradas por
	// NF-e); en false el movimiento se asienta al costo vigente.
	UpdateCost bool
}

// PostInTx asienta un movimiento usando los repositorios del caller (misma
// transacción). Bloquea la fila del producto (SELECT FOR UPDATE), calcula
// quantity-before desde el saldo cacheado, encadena quantity-after y deja el
// saldo actualizado. El bloqueo de fila es lo que serializa los movimientos
// por producto: dos transacciones concurrentes nunca leen el mismo before.
func PostInTx(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	in PostInput,
) (*entity.StockMovement, error) {
	if in.Type != entity.MovementIn && in.Type != entity.MovementOut {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.WorkshopID != in.WorkshopID {
		return nil, domain.ErrForbidden
	}

	before := product.CurrentStock
	var after decimal.Decimal
	switch in.Type {
	case entity.MovementIn:
		after = before.Add(in.Quantity)
	case entity.MovementOut:
		if before.LessThan(in.Quantity) {
			return nil, domain.ErrInsufficientStock
		}
		after = before.Sub(in.Quantity)
	}

	cost := product.CostPrice
	if in.UpdateCost {
		cost = in.UnitCost
	}
	unitCost := in.UnitCost
	if unitCost.IsZero() {
		unitCost = product.CostPrice
	}

	if err := productRepo.UpdateCostAndStock(product.ID, cost, after); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		WorkshopID:     in.WorkshopID,
		ProductID:      in.ProductID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		UnitCost:       unitCost,
		RefType:        in.RefType,
		RefID:          in.RefID,
		Note:           in.Note,
		CreatedBy:      in.UserID,
		CreatedAt:      in.Now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
