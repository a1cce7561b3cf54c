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

// WorkshopUseCase alta y consulta de talleres (tenants).
type WorkshopUseCase struct {
	workshopRepo repository.WorkshopRepository
}

// NewWorkshopUseCase construye el caso de uso.
func NewWorkshopUseCase(workshopRepo repository.WorkshopRepository) *WorkshopUseCase {
	return &WorkshopUseCase{workshopRepo: workshopRepo}
}

// Create registra un taller nuevo.
func (uc *WorkshopUseCase) Create(ctx context.Context, in dto.CreateWorkshopRequest) (*dto.WorkshopResponse, error) {
	if in.LegalName == "" || in.CNPJ == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	w := &entity.Workshop{
		ID:        uuid.New().String(),
		LegalName: in.LegalName,
		TradeName: in.TradeName,
		CNPJ:      in.CNPJ,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.workshopRepo.Create(w); err != nil {
		return nil, err
	}
	return toWorkshopResponse(w), nil
}

// Get devuelve un taller por ID.
func (uc *WorkshopUseCase) Get(ctx context.Context, id string) (*dto.WorkshopResponse, error) {
	w, err := uc.workshopRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return toWorkshopResponse(w), nil
}

func toWorkshopResponse(w *entity.Workshop) *dto.WorkshopResponse {
	return &dto.WorkshopResponse{
		ID:        w.ID,
		LegalName: w.LegalName,
		TradeName: w.TradeName,
		CNPJ:      w.CNPJ,
		Status:    w.Status,
		CreatedAt: w.CreatedAt,
	}
}
