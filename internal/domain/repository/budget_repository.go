package repository

import (
	"time"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// BudgetRepository define el puerto de persistencia para presupuestos.
type BudgetRepository interface {
	Create(b *entity.Budget) error
	CreateItem(item *entity.BudgetItem) error
	GetByID(id string) (*entity.Budget, error)
	ListItems(budgetID string) ([]*entity.BudgetItem, error)
	ListByWorkshop(workshopID, status string, limit, offset int) ([]*entity.Budget, error)
	// UpdateStatus con chequeo optimista; false si el estado actual no es from.
	UpdateStatus(id, from, to string) (bool, error)
	NextNumber(workshopID string) (int64, error)
	// MarkExpired pasa a expired todo presupuesto open cuya validez venció.
	MarkExpired(ref time.Time) (int64, error)
}
