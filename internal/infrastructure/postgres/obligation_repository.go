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

var _ repository.ObligationRepository = (*ObligationRepo)(nil)

const obligationColumns = `id, workshop_id, kind, customer_id, counterparty,
	description, amount, issue_date, due_date, settled_at, settled_amount,
	status, origin, order_id, document_id, created_at, updated_at`

// ObligationRepo cuentas por pagar/cobrar sobre PostgreSQL.
type ObligationRepo struct {
	q Querier
}

// NewObligationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewObligationRepository(q Querier) *ObligationRepo {
	return &ObligationRepo{q: q}
}

func scanObligation(row pgx.Row) (*entity.Obligation, error) {
	var o entity.Obligation
	var customerID, orderID, documentID *string
	err := row.Scan(
		&o.ID, &o.WorkshopID, &o.Kind, &customerID, &o.Counterparty,
		&o.Description, &o.Amount, &o.IssueDate, &o.DueDate, &o.SettledAt,
		&o.SettledAmount, &o.Status, &o.Origin, &orderID, &documentID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		o.CustomerID = *customerID
	}
	if orderID != nil {
		o.OrderID = *orderID
	}
	if documentID != nil {
		o.DocumentID = *documentID
	}
	return &o, nil
}

// Create persiste una obligación.
func (r *ObligationRepo) Create(o *entity.Obligation) error {
	query := `
		INSERT INTO obligations (id, workshop_id, kind, customer_id, counterparty,
			description, amount, issue_date, due_date, settled_at, settled_amount,
			status, origin, order_id, document_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.WorkshopID, o.Kind, nullIfEmpty(o.CustomerID), o.Counterparty,
		o.Description, o.Amount, o.IssueDate, o.DueDate, o.SettledAt, o.SettledAmount,
		o.Status, o.Origin, nullIfEmpty(o.OrderID), nullIfEmpty(o.DocumentID),
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert obligation: %w", err)
	}
	return nil
}

// GetByID obtiene una obligación por ID.
func (r *ObligationRepo) GetByID(id string) (*entity.Obligation, error) {
	o, err := scanObligation(r.q.QueryRow(context.Background(),
		`SELECT `+obligationColumns+` FROM obligations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get obligation: %w", err)
	}
	return o, nil
}

// ListByWorkshop lista obligaciones filtradas por clase y estado (filtros vacíos = todas).
func (r *ObligationRepo) ListByWorkshop(workshopID, kind, status string, limit, offset int) ([]*entity.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + ` FROM obligations
		WHERE workshop_id = $1
		  AND ($2 = '' OR kind = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY due_date ASC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, workshopID, kind, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListByOrder obligaciones generadas por una orden de servicio.
func (r *ObligationRepo) ListByOrder(orderID string) ([]*entity.Obligation, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+obligationColumns+` FROM obligations WHERE order_id = $1 ORDER BY created_at ASC`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("list obligations by order: %w", err)
	}
	defer rows.Close()

	var out []*entity.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update persiste liquidación y cambios de estado.
func (r *ObligationRepo) Update(o *entity.Obligation) error {
	query := `
		UPDATE obligations SET status = $2, settled_at = $3, settled_amount = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Status, o.SettledAt, o.SettledAmount, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update obligation: %w", err)
	}
	return nil
}

// MarkOverdue pasa a overdue toda obligación open con vencimiento anterior a
// ref. Devuelve cuántas filas cambiaron.
func (r *ObligationRepo) MarkOverdue(ref time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE obligations SET status = $1, updated_at = now()
		 WHERE status = $2 AND due_date < $3`,
		entity.ObligationOverdue, entity.ObligationOpen, ref)
	if err != nil {
		return 0, fmt.Errorf("mark obligations overdue: %w", err)
	}
	return cmd.RowsAffected(), nil
}
