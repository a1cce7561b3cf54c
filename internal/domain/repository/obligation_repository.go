package repository

import (
	"time"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// ObligationRepository define el puerto de persistencia para obligaciones
// financieras (cuentas por pagar y por cobrar).
type ObligationRepository interface {
	Create(o *entity.Obligation) error
	GetByID(id string) (*entity.Obligation, error)
	ListByWorkshop(workshopID, kind, status string, limit, offset int) ([]*entity.Obligation, error)
	ListByOrder(orderID string) ([]*entity.Obligation, error)
	Update(o *entity.Obligation) error
	// MarkOverdue marca como overdue toda obligación open con vencimiento
	// anterior a ref. Devuelve la cantidad de filas afectadas.
	MarkOverdue(ref time.Time) (int64, error)
}
