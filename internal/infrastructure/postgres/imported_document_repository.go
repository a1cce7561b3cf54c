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

var _ repository.ImportedDocumentRepository = (*ImportedDocumentRepo)(nil)

// ImportedDocumentRepo historial de NF-e importadas sobre PostgreSQL. El
// UNIQUE (workshop_id, access_key) es la garantía de idempotencia de la
// importación.
type ImportedDocumentRepo struct {
	q Querier
}

// NewImportedDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImportedDocumentRepository(q Querier) *ImportedDocumentRepo {
	return &ImportedDocumentRepo{q: q}
}

// Create registra el documento. Una chave ya importada en el taller devuelve
// ErrDuplicateImport.
func (r *ImportedDocumentRepo) Create(doc *entity.ImportedDocument) error {
	query := `
		INSERT INTO imported_documents (id, workshop_id, access_key, number, series,
			issue_date, supplier_tax_id, supplier_name, declared_total,
			lines_processed, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.WorkshopID, doc.AccessKey, doc.Number, nullIfEmpty(doc.Series),
		doc.IssueDate, nullIfEmpty(doc.SupplierTaxID), doc.SupplierName,
		doc.DeclaredTotal, doc.LinesProcessed, doc.Processed, doc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateImport
		}
		return fmt.Errorf("insert imported document: %w", err)
	}
	return nil
}

// GetByAccessKey busca un documento por taller y chave de acceso.
func (r *ImportedDocumentRepo) GetByAccessKey(workshopID, accessKey string) (*entity.ImportedDocument, error) {
	query := `
		SELECT id, workshop_id, access_key, number, series, issue_date,
			supplier_tax_id, supplier_name, declared_total, lines_processed,
			processed, created_at
		FROM imported_documents WHERE workshop_id = $1 AND access_key = $2`
	doc, err := r.scanRow(r.q.QueryRow(context.Background(), query, workshopID, accessKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get imported document: %w", err)
	}
	return doc, nil
}

// ListByWorkshop historial de importaciones del taller, más recientes primero.
func (r *ImportedDocumentRepo) ListByWorkshop(workshopID string, limit, offset int) ([]*entity.ImportedDocument, error) {
	query := `
		SELECT id, workshop_id, access_key, number, series, issue_date,
			supplier_tax_id, supplier_name, declared_total, lines_processed,
			processed, created_at
		FROM imported_documents
		WHERE workshop_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, workshopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list imported documents: %w", err)
	}
	defer rows.Close()

	var out []*entity.ImportedDocument
	for rows.Next() {
		doc, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan imported document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *ImportedDocumentRepo) scanRow(row pgx.Row) (*entity.ImportedDocument, error) {
	var doc entity.ImportedDocument
	var series, supplierTaxID *string
	err := row.Scan(
		&doc.ID, &doc.WorkshopID, &doc.AccessKey, &doc.Number, &series,
		&doc.IssueDate, &supplierTaxID, &doc.SupplierName, &doc.DeclaredTotal,
		&doc.LinesProcessed, &doc.Processed, &doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if series != nil {
		doc.Series = *series
	}
	if supplierTaxID != nil {
		doc.SupplierTaxID = *supplierTaxID
	}
	return &doc, nil
}
