package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/application/orders"
)

// BudgetHandler presupuestos: alta, consulta, aprobación y rechazo (protegido).
type BudgetHandler struct {
	uc *orders.BudgetUseCase
}

// NewBudgetHandler construye el handler.
func NewBudgetHandler(uc *orders.BudgetUseCase) *BudgetHandler {
	return &BudgetHandler{uc: uc}
}

// Create da de alta un presupuesto.
func (h *BudgetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBudgetRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), GetWorkshopID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista presupuestos (query opcional: status).
func (h *BudgetHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetWorkshopID(c), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene un presupuesto con sus ítems.
func (h *BudgetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetWorkshopID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve marca el presupuesto como aprobado.
func (h *BudgetHandler) Approve(c *fiber.Ctx) error {
	if err := h.uc.Approve(c.Context(), GetWorkshopID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Decline marca el presupuesto como rechazado.
func (h *BudgetHandler) Decline(c *fiber.Ctx) error {
	if err := h.uc.Decline(c.Context(), GetWorkshopID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
