package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/application/finance"
)

// CommissionHandler reglas y comisiones de mecánicos (protegido).
type CommissionHandler struct {
	uc *finance.CommissionUseCase
}

// NewCommissionHandler construye el handler.
func NewCommissionHandler(uc *finance.CommissionUseCase) *CommissionHandler {
	return &CommissionHandler{uc: uc}
}

// SaveConfig godoc
// @Summary      Crear o reemplazar la regla de comisión de un mecánico
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveCommissionConfigRequest  true  "Regla"
// @Success      200   {object}  dto.CommissionConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/commissions/config [post]
func (h *CommissionHandler) SaveConfig(c *fiber.Ctx) error {
	var in dto.SaveCommissionConfigRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.SaveConfig(c.Context(), GetWorkshopID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListConfigs godoc
// @Summary      Listar reglas de comisión del taller
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CommissionConfigResponse
// @Router       /api/commissions/config [get]
func (h *CommissionHandler) ListConfigs(c *fiber.Ctx) error {
	out, err := h.uc.ListConfigs(c.Context(), GetWorkshopID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteConfig godoc
// @Summary      Eliminar una regla de comisión
// @Tags         finance
// @Security     Bearer
// @Param        id  path  string  true  "ID de la regla"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/commissions/config/{id} [delete]
func (h *CommissionHandler) DeleteConfig(c *fiber.Ctx) error {
	if err := h.uc.DeleteConfig(c.Context(), GetWorkshopID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar comisiones devengadas
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        mechanic_id  query  string  false  "Filtrar por mecánico"
// @Param        status       query  string  false  "pending | paid | cancelled"
// @Success      200          {array}  dto.CommissionResponse
// @Router       /api/commissions [get]
func (h *CommissionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetWorkshopID(c), c.Query("mechanic_id"), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pay godoc
// @Summary      Marcar una comisión como pagada
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID de la comisión"
// @Param        body  body  dto.PayCommissionRequest  false  "Notas (opcional)"
// @Success      200   {object}  dto.CommissionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/commissions/{id}/pay [post]
func (h *CommissionHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayCommissionRequest
	if len(c.Body()) > 0 && !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.MarkPaid(c.Context(), GetWorkshopID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar una comisión pendiente
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true   "ID de la comisión"
// @Param        body  body  dto.CancelCommissionRequest  false  "Notas (opcional)"
// @Success      200   {object}  dto.CommissionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/commissions/{id}/cancel [post]
func (h *CommissionHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelCommissionRequest
	if len(c.Body()) > 0 && !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Cancel(c.Context(), GetWorkshopID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
