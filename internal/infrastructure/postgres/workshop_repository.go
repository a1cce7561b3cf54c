package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

var _ repository.WorkshopRepository = (*WorkshopRepo)(nil)

// WorkshopRepo talleres (tenants) sobre PostgreSQL.
type WorkshopRepo struct {
	q Querier
}

// NewWorkshopRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkshopRepository(q Querier) *WorkshopRepo {
	return &WorkshopRepo{q: q}
}

// Create persiste un taller. CNPJ repetido devuelve ErrDuplicate.
func (r *WorkshopRepo) Create(w *entity.Workshop) error {
	query := `
		INSERT INTO workshops (id, legal_name, trade_name, cnpj, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		w.ID, w.LegalName, nullIfEmpty(w.TradeName), w.CNPJ,
		nullIfEmpty(w.Phone), nullIfEmpty(w.Email), w.Status,
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert workshop: %w", err)
	}
	return nil
}

// GetByID obtiene un taller por ID.
func (r *WorkshopRepo) GetByID(id string) (*entity.Workshop, error) {
	query := `
		SELECT id, legal_name, trade_name, cnpj, phone, email, status, created_at, updated_at
		FROM workshops WHERE id = $1`
	var w entity.Workshop
	var tradeName, phone, email *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&w.ID, &w.LegalName, &tradeName, &w.CNPJ, &phone, &email, &w.Status,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workshop: %w", err)
	}
	if tradeName != nil {
		w.TradeName = *tradeName
	}
	if phone != nil {
		w.Phone = *phone
	}
	if email != nil {
		w.Email = *email
	}
	return &w, nil
}
