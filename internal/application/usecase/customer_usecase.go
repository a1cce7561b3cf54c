package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/internal/domain/repository"
)

// CustomerUseCase alta y consulta de clientes y sus vehículos.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customerRepo repository.CustomerRepository, vehicleRepo repository.VehicleRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo, vehicleRepo: vehicleRepo}
}

// Create registra un cliente del taller.
func (uc *CustomerUseCase) Create(ctx context.Context, workshopID, name, taxID, phone, email string) (*entity.Customer, error) {
	if workshopID == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	c := &entity.Customer{
		ID:         uuid.New().String(),
		WorkshopID: workshopID,
		Name:       name,
		TaxID:      taxID,
		Phone:      phone,
		Email:      email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.customerRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// List devuelve los clientes del taller.
func (uc *CustomerUseCase) List(ctx context.Context, workshopID string, limit, offset int) ([]*entity.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.customerRepo.ListByWorkshop(workshopID, limit, offset)
}

// AddVehicle registra un vehículo de un cliente.
func (uc *CustomerUseCase) AddVehicle(ctx context.Context, workshopID, customerID string, v *entity.Vehicle) (*entity.Vehicle, error) {
	c, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}
	now := time.Now().UTC()
	v.ID = uuid.New().String()
	v.WorkshopID = workshopID
	v.CustomerID = customerID
	v.CreatedAt = now
	v.UpdatedAt = now
	if err := uc.vehicleRepo.Create(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Vehicles devuelve los vehículos de un cliente.
func (uc *CustomerUseCase) Vehicles(ctx context.Context, workshopID, customerID string) ([]*entity.Vehicle, error) {
	c, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.WorkshopID != workshopID {
		return nil, domain.ErrForbidden
	}
	return uc.vehicleRepo.ListByCustomer(customerID)
}
