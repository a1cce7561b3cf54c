package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// ProductUseCase operaciones de catálogo: alta manual, consulta y kardex.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, movRepo: movRepo}
}

// Create da de alta un producto. El código es único por taller; un código
// repetido devuelve ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, workshopID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if workshopID == "" || in.Code == "" || in.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetByWorkshopAndCode(workshopID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	unit := in.Unit
	if unit == "" {
		unit = "UN"
	}
	barcode := in.Barcode
	if barcode == entity.NoBarcodeSentinel {
		barcode = ""
	}

	now := time.Now().UTC()
	p := &entity.Product{
		ID:           uuid.New().String(),
		WorkshopID:   workshopID,
		Code:         in.Code,
		Barcode:      barcode,
		Description:  in.Description,
		Unit:         unit,
		NCM:          in.NCM,
		CFOPInState:  "5102",
		CFOPOutState: "6102",
		CostPrice:    in.CostPrice,
		SalePrice:    in.SalePrice,
		MinStock:     in.MinStock,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(p); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(p), nil
}

// Get devuelve un producto del taller.
func (uc *ProductUseCase) Get(ctx context.Context, workshopID, productID string) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}
	return dto.ToProductResponse(p), nil
}

// List devuelve los productos del taller.
func (uc *ProductUseCase) List(ctx context.Context, workshopID string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	list, err := uc.productRepo.ListByWorkshop(workshopID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}

// Movements devuelve el kardex del producto: los asientos del libro de
// stock en orden cronológico.
func (uc *ProductUseCase) Movements(ctx context.Context, workshopID, productID string, page dto.PageRequest) ([]*dto.MovementResponse, error) {
	p, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	movs, err := uc.movRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}
