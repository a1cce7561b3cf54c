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

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

const orderColumns = `id, workshop_id, number, budget_id, customer_id, vehicle_id,
	mechanic_id, odometer_in, diagnosis, notes, parts_total, labor_total,
	discount_total, grand_total, status, opened_at, closed_at, created_at, updated_at`

// ServiceOrderRepo órdenes de servicio sobre PostgreSQL.
type ServiceOrderRepo struct {
	q Querier
}

// NewServiceOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceOrderRepository(q Querier) *ServiceOrderRepo {
	return &ServiceOrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.ServiceOrder, error) {
	var o entity.ServiceOrder
	var budgetID, mechanicID, diagnosis, notes *string
	err := row.Scan(
		&o.ID, &o.WorkshopID, &o.Number, &budgetID, &o.CustomerID, &o.VehicleID,
		&mechanicID, &o.OdometerIn, &diagnosis, &notes, &o.PartsTotal, &o.LaborTotal,
		&o.DiscountTotal, &o.GrandTotal, &o.Status, &o.OpenedAt, &o.ClosedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if budgetID != nil {
		o.BudgetID = *budgetID
	}
	if mechanicID != nil {
		o.MechanicID = *mechanicID
	}
	if diagnosis != nil {
		o.Diagnosis = *diagnosis
	}
	if notes != nil {
		o.Notes = *notes
	}
	return &o, nil
}

// Create persiste una orden nueva.
func (r *ServiceOrderRepo) Create(o *entity.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (id, workshop_id, number, budget_id, customer_id,
			vehicle_id, mechanic_id, odometer_in, diagnosis, notes, parts_total,
			labor_total, discount_total, grand_total, status, opened_at, closed_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.WorkshopID, o.Number, nullIfEmpty(o.BudgetID), o.CustomerID,
		o.VehicleID, nullIfEmpty(o.MechanicID), o.OdometerIn,
		nullIfEmpty(o.Diagnosis), nullIfEmpty(o.Notes), o.PartsTotal, o.LaborTotal,
		o.DiscountTotal, o.GrandTotal, o.Status, o.OpenedAt, o.ClosedAt,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la orden.
func (r *ServiceOrderRepo) CreateItem(item *entity.ServiceOrderItem) error {
	query := `
		INSERT INTO service_order_items (id, order_id, type, product_id, description,
			quantity, unit_price, line_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.Type, nullIfEmpty(item.ProductID),
		item.Description, item.Quantity, item.UnitPrice, item.LineTotal, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service order item: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *ServiceOrderRepo) GetByID(id string) (*entity.ServiceOrder, error) {
	o, err := scanOrder(r.q.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM service_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service order: %w", err)
	}
	return o, nil
}

// ListItems devuelve las líneas de una orden.
func (r *ServiceOrderRepo) ListItems(orderID string) ([]*entity.ServiceOrderItem, error) {
	query := `
		SELECT id, order_id, type, product_id, description, quantity, unit_price,
			line_total, created_at
		FROM service_order_items WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var out []*entity.ServiceOrderItem
	for rows.Next() {
		var it entity.ServiceOrderItem
		var productID *string
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.Type, &productID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.LineTotal, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if productID != nil {
			it.ProductID = *productID
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// ListByWorkshop lista órdenes del taller, opcionalmente por estado.
func (r *ServiceOrderRepo) ListByWorkshop(workshopID, status string, limit, offset int) ([]*entity.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + ` FROM service_orders
		WHERE workshop_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY opened_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, workshopID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list service orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.ServiceOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estado con un UPDATE condicionado al estado leído.
// Devuelve false sin error si ninguna fila coincidió: otra transición
// concurrente ganó la carrera.
func (r *ServiceOrderRepo) UpdateStatus(id, from, to string, closedAt *time.Time) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE service_orders
		 SET status = $3, closed_at = COALESCE($4, closed_at), updated_at = now()
		 WHERE id = $1 AND status = $2`,
		id, from, to, closedAt)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// NextNumber devuelve el siguiente número de orden del taller.
func (r *ServiceOrderRepo) NextNumber(workshopID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(number), 0) + 1 FROM service_orders WHERE workshop_id = $1`,
		workshopID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return n, nil
}
