package repository

import (
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(c *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	ListByWorkshop(workshopID string, limit, offset int) ([]*entity.Customer, error)
}
