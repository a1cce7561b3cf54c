package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// AdjustStockUseCase registra ajustes manuales de stock (entrada o salida)
// a través del libro de movimientos, nunca editando el saldo directamente.
type AdjustStockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, productRepo: productRepo}
}

// Adjust valida la entrada y asienta el movimiento en su propia transacción.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, workshopID, userID string, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	if workshopID == "" || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Type != entity.MovementIn && in.Type != entity.MovementOut {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Lectura fuera de la tx solo para fallar rápido con 404/403; la
	// verificación definitiva corre bajo el lock dentro de PostInTx.
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}

	unitCost := decimal.Zero
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}

	var mov *entity.StockMovement
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		mov, err = PostInTx(productRepo, movRepo, PostInput{
			WorkshopID: workshopID,
			ProductID:  in.ProductID,
			Type:       in.Type,
			Quantity:   in.Quantity,
			UnitCost:   unitCost,
			RefType:    entity.MovementRefAdjustment,
			RefID:      "",
			Note:       in.Note,
			UserID:     userID,
			Now:        time.Now(),
			UpdateCost: false,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponse(mov), nil
}
