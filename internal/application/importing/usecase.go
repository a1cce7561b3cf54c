package importing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/application/finance"
	"github.com/pacoficinas/oficina-api/internal/application/inventory"
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
	"github.com/pacoficinas/oficina-api/internal/infrastructure/nfe"
	"github.com/pacoficinas/oficina-api/pkg/decimals"
	"github.com/pacoficinas/oficina-api/pkg/logger"
)

// ImportInvoiceUseCase importa una NF-e de proveedor: concilia cada línea
// contra el catálogo, asienta entradas en el libro de stock y genera la
// cuenta por pagar, todo en una sola transacción.
type ImportInvoiceUseCase struct {
	txRunner  TxRunner
	docRepo   repository.ImportedDocumentRepository
	generator *finance.Generator
	policy    Policy
	log       *logger.Logger
}

// NewImportInvoiceUseCase construye el caso de uso.
func NewImportInvoiceUseCase(
	txRunner TxRunner,
	docRepo repository.ImportedDocumentRepository,
	generator *finance.Generator,
	policy Policy,
	log *logger.Logger,
) *ImportInvoiceUseCase {
	return &ImportInvoiceUseCase{
		txRunner:  txRunner,
		docRepo:   docRepo,
		generator: generator,
		policy:    policy.normalized(),
		log:       log.Component("importer"),
	}
}

// ImportInvoice procesa el XML crudo de una NF-e para el taller indicado.
//
// La idempotencia tiene dos capas: una lectura previa por chave de acceso
// que rechaza rápido los duplicados, y el UNIQUE (workshop_id, access_key)
// en la inserción del documento dentro de la transacción, que cierra la
// carrera entre dos cargas simultáneas del mismo archivo. Pase lo que pase,
// un documento nunca asienta stock ni genera cuentas dos veces.
func (uc *ImportInvoiceUseCase) ImportInvoice(ctx context.Context, workshopID, userID string, raw []byte) (*dto.ImportResult, error) {
	if workshopID == "" {
		return nil, domain.ErrInvalidInput
	}

	inv, err := nfe.Parse(raw)
	if err != nil {
		return nil, err
	}

	// Rechazo rápido de duplicados; la garantía real es el UNIQUE en la tx.
	existing, err := uc.docRepo.GetByAccessKey(workshopID, inv.AccessKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateImport
	}

	now := time.Now().UTC()
	doc := &entity.ImportedDocument{
		ID:             uuid.New().String(),
		WorkshopID:     workshopID,
		AccessKey:      inv.AccessKey,
		Number:         inv.Number,
		Series:         inv.Series,
		IssueDate:      inv.IssueDate,
		SupplierTaxID:  inv.SupplierTaxID,
		SupplierName:   inv.SupplierName,
		DeclaredTotal:  inv.DeclaredTotal,
		LinesProcessed: len(inv.Lines),
		Processed:      true,
		CreatedAt:      now,
	}

	result := &dto.ImportResult{
		DocumentID:     doc.ID,
		AccessKey:      doc.AccessKey,
		Number:         doc.Number,
		SupplierName:   doc.SupplierName,
		SupplierTaxID:  doc.SupplierTaxID,
		IssueDate:      doc.IssueDate,
		DeclaredTotal:  doc.DeclaredTotal,
		LinesProcessed: doc.LinesProcessed,
	}

	err = uc.txRunner.RunImport(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		docRepo repository.ImportedDocumentRepository,
		obligRepo repository.ObligationRepository,
	) error {
		// Insertar el documento primero: si otra carga concurrente ya lo
		// registró, el UNIQUE aborta aquí y nada más se asienta.
		if err := docRepo.Create(doc); err != nil {
			return err
		}

		for i, line := range inv.Lines {
			product, err := uc.matchLine(productRepo, workshopID, line)
			if err != nil {
				return err
			}
			if product == nil {
				product, err = uc.createFromLine(productRepo, workshopID, line, now)
				if err != nil {
					return err
				}
				result.NewItems++
			} else {
				result.ExistingItems++
			}

			_, err = inventory.PostInTx(productRepo, movRepo, inventory.PostInput{
				WorkshopID: workshopID,
				ProductID:  product.ID,
				Type:       entity.MovementIn,
				Quantity:   line.Quantity,
				UnitCost:   line.UnitPrice,
				RefType:    entity.MovementRefImport,
				RefID:      doc.ID,
				Note:       fmt.Sprintf("NF-e %s línea %d", inv.Number, i+1),
				UserID:     userID,
				Now:        now,
				UpdateCost: true,
			})
			if err != nil {
				return err
			}
		}

		oblig := uc.generator.PayableFromImport(doc, now)
		if err := obligRepo.Create(oblig); err != nil {
			return err
		}
		result.PayableDueDate = oblig.DueDate
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("workshop_id", workshopID).
		Str("access_key", doc.AccessKey).
		Int("lines", result.LinesProcessed).
		Int("new_items", result.NewItems).
		Msg("NF-e importada")

	return result, nil
}

// matchLine concilia una línea contra el catálogo en dos pasos: primero por
// código interno del emisor, después por código de barras. El código manda:
// si hay producto con ese código, el barcode ni se consulta.
func (uc *ImportInvoiceUseCase) matchLine(productRepo repository.ProductRepository, workshopID string, line nfe.Line) (*entity.Product, error) {
	if line.Code != "" {
		product, err := productRepo.GetByWorkshopAndCode(workshopID, line.Code)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}
	if line.HasUsableBarcode() {
		product, err := productRepo.GetByWorkshopAndBarcode(workshopID, line.Barcode)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}
	return nil, nil
}

// createFromLine da de alta el producto que la NF-e trae y el catálogo no
// conoce: costo = precio unitario de la línea, precio de venta = costo por
// el margen configurado, stock inicial cero (la entrada la asienta el
// movimiento, no el alta).
func (uc *ImportInvoiceUseCase) createFromLine(productRepo repository.ProductRepository, workshopID string, line nfe.Line, now time.Time) (*entity.Product, error) {
	barcode := ""
	if line.HasUsableBarcode() {
		barcode = line.Barcode
	}
	unit := line.Unit
	if unit == "" {
		unit = uc.policy.DefaultUnit
	}
	cfopIn := defaultCFOPInState
	cfopOut := defaultCFOPOutState

	product := &entity.Product{
		ID:           uuid.New().String(),
		WorkshopID:   workshopID,
		Code:         line.Code,
		Barcode:      barcode,
		Description:  line.Description,
		Unit:         unit,
		NCM:          line.NCM,
		CFOPInState:  cfopIn,
		CFOPOutState: cfopOut,
		CostPrice:    decimals.Money(line.UnitPrice),
		SalePrice:    decimals.Money(line.UnitPrice.Mul(uc.policy.SaleMarkup)),
		ProfitMargin: uc.policy.SaleMarkup,
		MinStock:     uc.policy.MinStock,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListDocuments historial de importaciones del taller.
func (uc *ImportInvoiceUseCase) ListDocuments(ctx context.Context, workshopID string, page dto.PageRequest) ([]*dto.ImportedDocumentResponse, error) {
	page.DefaultPage()
	docs, err := uc.docRepo.ListByWorkshop(workshopID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ImportedDocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, &dto.ImportedDocumentResponse{
			ID:             d.ID,
			AccessKey:      d.AccessKey,
			Number:         d.Number,
			Series:         d.Series,
			IssueDate:      d.IssueDate,
			SupplierName:   d.SupplierName,
			SupplierTaxID:  d.SupplierTaxID,
			DeclaredTotal:  d.DeclaredTotal,
			LinesProcessed: d.LinesProcessed,
			CreatedAt:      d.CreatedAt,
		})
	}
	return out, nil
}
