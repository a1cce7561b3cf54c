package repository

import (
	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE): es el punto
// de serialización por producto que protege la cadena de movimientos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByWorkshopAndCode(workshopID, code string) (*entity.Product, error)
	GetByWorkshopAndBarcode(workshopID, barcode string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateCostAndStock(productID string, cost, stock decimal.Decimal) error
	ListByWorkshop(workshopID string, limit, offset int) ([]*entity.Product, error)
}
