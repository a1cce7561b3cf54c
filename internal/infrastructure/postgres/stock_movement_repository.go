package postgres

import (
	"context"
	"fmt"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de stock sobre PostgreSQL.
// El libro es append-only: no existen UPDATE ni DELETE sobre esta tabla.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create asienta un movimiento con su cadena before/after.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, workshop_id, product_id, type, quantity,
			quantity_before, quantity_after, unit_cost, ref_type, ref_id, note,
			created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.WorkshopID, m.ProductID, m.Type, m.Quantity,
		m.QuantityBefore, m.QuantityAfter, m.UnitCost,
		nullIfEmpty(m.RefType), nullIfEmpty(m.RefID), nullIfEmpty(m.Note),
		nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct devuelve el kardex del producto en orden cronológico.
func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, workshop_id, product_id, type, quantity, quantity_before,
			quantity_after, unit_cost, ref_type, ref_id, note, created_by, created_at
		FROM stock_movements
		WHERE product_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var refType, refID, note, createdBy *string
		if err := rows.Scan(
			&m.ID, &m.WorkshopID, &m.ProductID, &m.Type, &m.Quantity,
			&m.QuantityBefore, &m.QuantityAfter, &m.UnitCost,
			&refType, &refID, &note, &createdBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if refType != nil {
			m.RefType = *refType
		}
		if refID != nil {
			m.RefID = *refID
		}
		if note != nil {
			m.Note = *note
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
