package repository

import (
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// WorkshopRepository define el puerto de persistencia para talleres (tenants).
type WorkshopRepository interface {
	Create(w *entity.Workshop) error
	GetByID(id string) (*entity.Workshop, error)
}
