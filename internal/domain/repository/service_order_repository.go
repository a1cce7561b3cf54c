package repository

import (
	"time"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// ServiceOrderRepository define el puerto de persistencia para órdenes de servicio.
type ServiceOrderRepository interface {
	Create(o *entity.ServiceOrder) error
	CreateItem(item *entity.ServiceOrderItem) error
	GetByID(id string) (*entity.ServiceOrder, error)
	ListItems(orderID string) ([]*entity.ServiceOrderItem, error)
	ListByWorkshop(workshopID, status string, limit, offset int) ([]*entity.ServiceOrder, error)
	// UpdateStatus aplica el cambio de estado con chequeo optimista:
	// UPDATE ... WHERE id = $1 AND status = from. Devuelve false si ninguna
	// fila coincide (estado ya cambió de forma concurrente).
	UpdateStatus(id, from, to string, closedAt *time.Time) (bool, error)
	// NextNumber devuelve el siguiente consecutivo de OS del taller.
	NextNumber(workshopID string) (int64, error)
}
