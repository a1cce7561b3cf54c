package repository

import (
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// CommissionConfigRepository define el puerto de persistencia para las
// reglas de comisión por mecánico.
type CommissionConfigRepository interface {
	// Save crea o reemplaza la regla del par (taller, mecánico).
	Save(cfg *entity.CommissionConfig) error
	GetByID(id string) (*entity.CommissionConfig, error)
	// GetActiveByMechanic devuelve la regla activa del mecánico, nil si no hay.
	GetActiveByMechanic(workshopID, mechanicID string) (*entity.CommissionConfig, error)
	ListByWorkshop(workshopID string) ([]*entity.CommissionConfig, error)
	Delete(id string) error
}

// CommissionRepository define el puerto de persistencia para comisiones
// devengadas.
type CommissionRepository interface {
	Create(c *entity.Commission) error
	GetByID(id string) (*entity.Commission, error)
	ListByWorkshop(workshopID, mechanicID, status string, limit, offset int) ([]*entity.Commission, error)
	Update(c *entity.Commission) error
}
