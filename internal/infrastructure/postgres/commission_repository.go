package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

var _ repository.CommissionRepository = (*CommissionRepo)(nil)

const commissionColumns = `id, workshop_id, order_id, mechanic_id, labor_total,
	order_total, calc_type, applied_pct, applied_fixed, amount, status,
	paid_at, notes, created_at, updated_at`

// CommissionRepo comisiones devengadas sobre PostgreSQL.
type CommissionRepo struct {
	q Querier
}

// NewCommissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommissionRepository(q Querier) *CommissionRepo {
	return &CommissionRepo{q: q}
}

func scanCommission(row pgx.Row) (*entity.Commission, error) {
	var c entity.Commission
	err := row.Scan(
		&c.ID, &c.WorkshopID, &c.OrderID, &c.MechanicID, &c.LaborTotal,
		&c.OrderTotal, &c.CalcType, &c.AppliedPct, &c.AppliedFixed, &c.Amount,
		&c.Status, &c.PaidAt, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una comisión devengada.
func (r *CommissionRepo) Create(c *entity.Commission) error {
	query := `
		INSERT INTO commissions (id, workshop_id, order_id, mechanic_id, labor_total,
			order_total, calc_type, applied_pct, applied_fixed, amount, status,
			paid_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.WorkshopID, c.OrderID, c.MechanicID, c.LaborTotal,
		c.OrderTotal, c.CalcType, c.AppliedPct, c.AppliedFixed, c.Amount,
		c.Status, c.PaidAt, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert commission: %w", err)
	}
	return nil
}

// GetByID obtiene una comisión por ID.
func (r *CommissionRepo) GetByID(id string) (*entity.Commission, error) {
	c, err := scanCommission(r.q.QueryRow(context.Background(),
		`SELECT `+commissionColumns+` FROM commissions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get commission: %w", err)
	}
	return c, nil
}

// ListByWorkshop lista comisiones filtradas por mecánico y estado (filtros vacíos = todas).
func (r *CommissionRepo) ListByWorkshop(workshopID, mechanicID, status string, limit, offset int) ([]*entity.Commission, error) {
	query := `
		SELECT ` + commissionColumns + ` FROM commissions
		WHERE workshop_id = $1
		  AND ($2 = '' OR mechanic_id = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, workshopID, mechanicID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	defer rows.Close()

	var out []*entity.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commission: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update persiste pago, cancelación y notas.
func (r *CommissionRepo) Update(c *entity.Commission) error {
	query := `
		UPDATE commissions SET status = $2, paid_at = $3, notes = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Status, c.PaidAt, c.Notes, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update commission: %w", err)
	}
	return nil
}
