package repository

import (
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// VehicleRepository define el puerto de persistencia para vehículos.
type VehicleRepository interface {
	Create(v *entity.Vehicle) error
	GetByID(id string) (*entity.Vehicle, error)
	ListByCustomer(customerID string) ([]*entity.Vehicle, error)
}
