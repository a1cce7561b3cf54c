package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

var _ repository.CommissionConfigRepository = (*CommissionConfigRepo)(nil)

const commissionConfigColumns = `id, workshop_id, mechanic_id, calc_type,
	labor_pct, total_pct, fixed_amount, active, created_at, updated_at`

// CommissionConfigRepo reglas de comisión por mecánico sobre PostgreSQL.
type CommissionConfigRepo struct {
	q Querier
}

// NewCommissionConfigRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommissionConfigRepository(q Querier) *CommissionConfigRepo {
	return &CommissionConfigRepo{q: q}
}

func scanCommissionConfig(row pgx.Row) (*entity.CommissionConfig, error) {
	var c entity.CommissionConfig
	err := row.Scan(
		&c.ID, &c.WorkshopID, &c.MechanicID, &c.CalcType,
		&c.LaborPct, &c.TotalPct, &c.FixedAmount, &c.Active,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Save crea o reemplaza la regla del par (taller, mecánico).
func (r *CommissionConfigRepo) Save(cfg *entity.CommissionConfig) error {
	query := `
		INSERT INTO commission_configs (id, workshop_id, mechanic_id, calc_type,
			labor_pct, total_pct, fixed_amount, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (workshop_id, mechanic_id) DO UPDATE SET
			calc_type = EXCLUDED.calc_type,
			labor_pct = EXCLUDED.labor_pct,
			total_pct = EXCLUDED.total_pct,
			fixed_amount = EXCLUDED.fixed_amount,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		cfg.ID, cfg.WorkshopID, cfg.MechanicID, cfg.CalcType,
		cfg.LaborPct, cfg.TotalPct, cfg.FixedAmount, cfg.Active,
		cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save commission config: %w", err)
	}
	return nil
}

// GetByID obtiene una regla por ID.
func (r *CommissionConfigRepo) GetByID(id string) (*entity.CommissionConfig, error) {
	c, err := scanCommissionConfig(r.q.QueryRow(context.Background(),
		`SELECT `+commissionConfigColumns+` FROM commission_configs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get commission config: %w", err)
	}
	return c, nil
}

// GetActiveByMechanic devuelve la regla activa del mecánico, nil si no hay.
func (r *CommissionConfigRepo) GetActiveByMechanic(workshopID, mechanicID string) (*entity.CommissionConfig, error) {
	c, err := scanCommissionConfig(r.q.QueryRow(context.Background(),
		`SELECT `+commissionConfigColumns+` FROM commission_configs
		 WHERE workshop_id = $1 AND mechanic_id = $2 AND active = TRUE`,
		workshopID, mechanicID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active commission config: %w", err)
	}
	return c, nil
}

// ListByWorkshop lista las reglas del taller.
func (r *CommissionConfigRepo) ListByWorkshop(workshopID string) ([]*entity.CommissionConfig, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+commissionConfigColumns+` FROM commission_configs
		 WHERE workshop_id = $1 ORDER BY created_at ASC`,
		workshopID)
	if err != nil {
		return nil, fmt.Errorf("list commission configs: %w", err)
	}
	defer rows.Close()

	var out []*entity.CommissionConfig
	for rows.Next() {
		c, err := scanCommissionConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commission config: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete elimina una regla.
func (r *CommissionConfigRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM commission_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete commission config: %w", err)
	}
	return nil
}
