package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/application/finance"
)

// ObligationHandler cuentas por pagar/cobrar (protegido).
type ObligationHandler struct {
	uc *finance.ObligationUseCase
}

// NewObligationHandler construye el handler.
func NewObligationHandler(uc *finance.ObligationUseCase) *ObligationHandler {
	return &ObligationHandler{uc: uc}
}

// List godoc
// @Summary      Listar obligaciones
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        kind    query  string  false  "payable | receivable"
// @Param        status  query  string  false  "open | paid | overdue | cancelled"
// @Success      200     {array}  dto.ObligationResponse
// @Router       /api/obligations [get]
func (h *ObligationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetWorkshopID(c), c.Query("kind"), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Settle godoc
// @Summary      Liquidar una obligación
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true   "ID de la obligación"
// @Param        body  body  dto.SettleObligationRequest  false  "Monto (opcional)"
// @Success      200   {object}  dto.ObligationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/obligations/{id}/settle [post]
func (h *ObligationHandler) Settle(c *fiber.Ctx) error {
	var in dto.SettleObligationRequest
	if len(c.Body()) > 0 && !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Settle(c.Context(), GetWorkshopID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
