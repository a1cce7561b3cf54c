package repository

import (
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// ImportedDocumentRepository define el puerto del registro de importaciones.
// Create debe traducir la violación del UNIQUE (workshop_id, access_key)
// a domain.ErrDuplicateImport.
type ImportedDocumentRepository interface {
	Create(doc *entity.ImportedDocument) error
	GetByAccessKey(workshopID, accessKey string) (*entity.ImportedDocument, error)
	ListByWorkshop(workshopID string, limit, offset int) ([]*entity.ImportedDocument, error)
}
