package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/imports"
)

// ImportHandler importación de productos desde Excel (protegido).
type ImportHandler struct {
	uc    *imports.ExcelImportUseCase
	queue imports.JobQueue
}

// NewImportHandler construye el handler. queue puede ser nil: las peticiones async se rechazan.
func NewImportHandler(uc *imports.ExcelImportUseCase, queue imports.JobQueue) *ImportHandler {
	return &ImportHandler{uc: uc, queue: queue}
}

// ImportExcel godoc
// @Summary      Importar productos desde Excel
// @Description  Crea los códigos que aún no existen. async=true encola la importación en el worker.
// @Tags         imports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExcelImportRequest  false  "url, department, async"
// @Success      200   {object}  dto.ExcelImportResultDTO
// @Success      202   {object}  dto.ImportJobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/imports/excel [post]
func (h *ImportHandler) ImportExcel(c *fiber.Ctx) error {
	var in dto.ExcelImportRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	if in.Async {
		if h.queue == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "QUEUE_DISABLED", Message: "la cola de trabajos no está configurada"})
		}
		job, err := h.queue.EnqueueExcelImport(c.Context(), GetActor(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(job)
	}
	out, err := h.uc.Import(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PreviewExcel godoc
// @Summary      Vista previa del Excel de importación
// @Tags         imports
// @Security     Bearer
// @Produce      json
// @Param        url  query  string  false  "URL del .xlsx (por defecto IMPORT_EXCEL_URL)"
// @Success      200  {object}  dto.ExcelPreviewDTO
// @Router       /api/imports/excel/preview [get]
func (h *ImportHandler) PreviewExcel(c *fiber.Ctx) error {
	out, err := h.uc.Preview(c.Context(), query(c, "url"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
