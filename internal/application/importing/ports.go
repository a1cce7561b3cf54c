package importing

import (
	"context"

	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// TxRunner ejecuta la importación completa de un documento en una sola
// transacción de BD: registro del documento, movimientos de stock y cuenta
// por pagar se confirman o se revierten juntos.
type TxRunner interface {
	RunImport(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		docRepo repository.ImportedDocumentRepository,
		obligRepo repository.ObligationRepository,
	) error) error
}
