package repository

import (
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de stock (append-only:
// no hay Update ni Delete).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
}
