package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, workshop_id, code, barcode, description, unit, ncm,
	cfop_in_state, cfop_out_state, cost_price, sale_price, profit_margin,
	current_stock, min_stock, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var barcode, ncm *string
	err := row.Scan(
		&p.ID, &p.WorkshopID, &p.Code, &barcode, &p.Description, &p.Unit, &ncm,
		&p.CFOPInState, &p.CFOPOutState, &p.CostPrice, &p.SalePrice, &p.ProfitMargin,
		&p.CurrentStock, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if barcode != nil {
		p.Barcode = *barcode
	}
	if ncm != nil {
		p.NCM = *ncm
	}
	return &p, nil
}

// Create persiste un producto nuevo. Un código repetido en el taller devuelve ErrDuplicate.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, workshop_id, code, barcode, description, unit, ncm,
			cfop_in_state, cfop_out_state, cost_price, sale_price, profit_margin,
			current_stock, min_stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.WorkshopID, product.Code, nullIfEmpty(product.Barcode),
		product.Description, product.Unit, nullIfEmpty(product.NCM),
		product.CFOPInState, product.CFOPOutState, product.CostPrice, product.SalePrice,
		product.ProfitMargin, product.CurrentStock, product.MinStock, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByWorkshopAndCode obtiene un producto por taller y código interno.
func (r *ProductRepo) GetByWorkshopAndCode(workshopID, code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE workshop_id = $1 AND code = $2`,
		workshopID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// GetByWorkshopAndBarcode obtiene un producto por taller y código de barras.
func (r *ProductRepo) GetByWorkshopAndBarcode(workshopID, barcode string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE workshop_id = $1 AND barcode = $2`,
		workshopID, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE).
// Serializa los movimientos de stock por producto dentro de la transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// Update actualiza los datos editables del producto. Costo y stock se tocan
// únicamente vía UpdateCostAndStock, desde el motor de movimientos.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET barcode = $2, description = $3, unit = $4, ncm = $5,
			cfop_in_state = $6, cfop_out_state = $7, sale_price = $8, profit_margin = $9,
			min_stock = $10, active = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, nullIfEmpty(product.Barcode), product.Description, product.Unit,
		nullIfEmpty(product.NCM), product.CFOPInState, product.CFOPOutState,
		product.SalePrice, product.ProfitMargin, product.MinStock, product.Active,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateCostAndStock fija costo y saldo de stock en un solo UPDATE (motor de movimientos).
func (r *ProductRepo) UpdateCostAndStock(productID string, cost, stock decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET cost_price = $2, current_stock = $3, updated_at = now() WHERE id = $1`,
		productID, cost, stock,
	)
	if err != nil {
		return fmt.Errorf("update product cost/stock: %w", err)
	}
	return nil
}

// ListByWorkshop lista productos del taller con paginación.
func (r *ProductRepo) ListByWorkshop(workshopID string, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+productColumns+` FROM products
		 WHERE workshop_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		workshopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
