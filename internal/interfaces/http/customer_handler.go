package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pacoficinas/oficina-api/internal/application/usecase"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
)

// CustomerHandler clientes y vehículos (protegido).
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

type createCustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	TaxID string `json:"tax_id"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

type createVehicleRequest struct {
	Plate     string `json:"plate" validate:"required"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	ModelYear int    `json:"model_year"`
	Odometer  int64  `json:"odometer"`
}

// Create registra un cliente.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in createCustomerRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), GetWorkshopID(c), in.Name, in.TaxID, in.Phone, in.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista los clientes del taller.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.uc.List(c.Context(), GetWorkshopID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddVehicle registra un vehículo del cliente.
func (h *CustomerHandler) AddVehicle(c *fiber.Ctx) error {
	var in createVehicleRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	v := &entity.Vehicle{
		Plate:     in.Plate,
		Make:      in.Make,
		Model:     in.Model,
		ModelYear: in.ModelYear,
		Odometer:  in.Odometer,
	}
	out, err := h.uc.AddVehicle(c.Context(), GetWorkshopID(c), c.Params("id"), v)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Vehicles lista los vehículos del cliente.
func (h *CustomerHandler) Vehicles(c *fiber.Ctx) error {
	out, err := h.uc.Vehicles(c.Context(), GetWorkshopID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
