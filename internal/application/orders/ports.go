package orders

import (
	"context"

	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// TxRunner ejecuta las operaciones de órdenes y presupuestos en una sola
// transacción de BD: cambio de estado, ítems, obligaciones y comisiones se
// confirman o se revierten juntos.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orderRepo repository.ServiceOrderRepository,
		budgetRepo repository.BudgetRepository,
		obligRepo repository.ObligationRepository,
		commissionRepo repository.CommissionRepository,
	) error) error
}
