package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/pacoficinas/oficina-api/internal/application/dto"
	"github.com/pacoficinas/oficina-api/internal/application/importing"
)

// ImportHandler importación de NF-e de proveedor (protegido).
type ImportHandler struct {
	uc *importing.ImportInvoiceUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *importing.ImportInvoiceUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// Import godoc
// @Summary      Importar NF-e (XML)
// @Description  Acepta el XML como archivo multipart (campo "file") o como body crudo.
// @Tags         imports
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Success      201  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/nfe [post]
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	raw, err := h.readXML(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se espera el XML de la NF-e"})
	}
	out, err := h.uc.ImportInvoice(c.Context(), GetWorkshopID(c), GetUserID(c), raw)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List historial de importaciones del taller.
func (h *ImportHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListDocuments(c.Context(), GetWorkshopID(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// readXML obtiene el XML del multipart (campo "file") o del body crudo.
func (h *ImportHandler) readXML(c *fiber.Ctx) ([]byte, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	body := c.Body()
	if len(body) == 0 {
		return nil, fiber.ErrBadRequest
	}
	return body, nil
}
