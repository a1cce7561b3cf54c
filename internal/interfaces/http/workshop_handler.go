package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/application/usecase"
)

// WorkshopHandler alta y consulta de talleres.
type WorkshopHandler struct {
	uc *usecase.WorkshopUseCase
}

// NewWorkshopHandler construye el handler.
func NewWorkshopHandler(uc *usecase.WorkshopUseCase) *WorkshopHandler {
	return &WorkshopHandler{uc: uc}
}

// Create godoc
// @Summary      Crear taller
// @Tags         workshops
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkshopRequest  true  "Datos del taller"
// @Success      201   {object}  dto.WorkshopResponse
// @Router       /api/workshops [post]
func (h *WorkshopHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkshopRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID devuelve el taller del token autenticado.
func (h *WorkshopHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
