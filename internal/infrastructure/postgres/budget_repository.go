package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

var _ repository.BudgetRepository = (*BudgetRepo)(nil)

const budgetColumns = `id, workshop_id, number, customer_id, vehicle_id,
	validity_days, parts_total, labor_total, discount_total, grand_total,
	status, notes, created_at, updated_at`

// BudgetRepo presupuestos sobre PostgreSQL.
type BudgetRepo struct {
	q Querier
}

// NewBudgetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBudgetRepository(q Querier) *BudgetRepo {
	return &BudgetRepo{q: q}
}

func scanBudget(row pgx.Row) (*entity.Budget, error) {
	var b entity.Budget
	var notes *string
	err := row.Scan(
		&b.ID, &b.WorkshopID, &b.Number, &b.CustomerID, &b.VehicleID,
		&b.ValidityDays, &b.PartsTotal, &b.LaborTotal, &b.DiscountTotal,
		&b.GrandTotal, &b.Status, &notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		b.Notes = *notes
	}
	return &b, nil
}

// Create persiste un presupuesto nuevo.
func (r *BudgetRepo) Create(b *entity.Budget) error {
	query := `
		INSERT INTO budgets (id, workshop_id, number, customer_id, vehicle_id,
			validity_days, parts_total, labor_total, discount_total, grand_total,
			status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.WorkshopID, b.Number, b.CustomerID, b.VehicleID,
		b.ValidityDays, b.PartsTotal, b.LaborTotal, b.DiscountTotal, b.GrandTotal,
		b.Status, nullIfEmpty(b.Notes), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del presupuesto.
func (r *BudgetRepo) CreateItem(item *entity.BudgetItem) error {
	query := `
		INSERT INTO budget_items (id, budget_id, type, product_id, description,
			quantity, unit_price, line_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.BudgetID, item.Type, nullIfEmpty(item.ProductID),
		item.Description, item.Quantity, item.UnitPrice, item.LineTotal, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert budget item: %w", err)
	}
	return nil
}

// GetByID obtiene un presupuesto por ID.
func (r *BudgetRepo) GetByID(id string) (*entity.Budget, error) {
	b, err := scanBudget(r.q.QueryRow(context.Background(),
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// ListItems devuelve las líneas de un presupuesto.
func (r *BudgetRepo) ListItems(budgetID string) ([]*entity.BudgetItem, error) {
	query := `
		SELECT id, budget_id, type, product_id, description, quantity, unit_price,
			line_total, created_at
		FROM budget_items WHERE budget_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("list budget items: %w", err)
	}
	defer rows.Close()

	var out []*entity.BudgetItem
	for rows.Next() {
		var it entity.BudgetItem
		var productID *string
		if err := rows.Scan(
			&it.ID, &it.BudgetID, &it.Type, &productID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.LineTotal, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan budget item: %w", err)
		}
		if productID != nil {
			it.ProductID = *productID
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// ListByWorkshop lista presupuestos del taller, opcionalmente por estado.
func (r *BudgetRepo) ListByWorkshop(workshopID, status string, limit, offset int) ([]*entity.Budget, error) {
	query := `
		SELECT ` + budgetColumns + ` FROM budgets
		WHERE workshop_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, workshopID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []*entity.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estado con un UPDATE condicionado al estado leído.
// Es el candado de la conversión a lo sumo una vez: approved -> converted
// solo puede afectar una fila una única vez.
func (r *BudgetRepo) UpdateStatus(id, from, to string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE budgets SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, fmt.Errorf("update budget status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// MarkExpired pasa a expired todo presupuesto open cuya validez venció a la
// fecha de referencia. Devuelve cuántas filas cambiaron.
func (r *BudgetRepo) MarkExpired(ref time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE budgets SET status = $1, updated_at = now()
		 WHERE status = $2 AND created_at + make_interval(days => validity_days) < $3`,
		entity.BudgetExpired, entity.BudgetOpen, ref)
	if err != nil {
		return 0, fmt.Errorf("mark budgets expired: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// NextNumber devuelve el siguiente número de presupuesto del taller.
func (r *BudgetRepo) NextNumber(workshopID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(number), 0) + 1 FROM budgets WHERE workshop_id = $1`,
		workshopID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next budget number: %w", err)
	}
	return n, nil
}
