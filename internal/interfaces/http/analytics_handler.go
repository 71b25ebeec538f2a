package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler maneja los reportes del almacén (protegido).
type ReportHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Statistics godoc
// @Summary      Estadísticas del catálogo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryStatisticsDTO
// @Router       /api/reports/statistics [get]
func (h *ReportHandler) Statistics(c *fiber.Ctx) error {
	out, err := h.uc.Statistics(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Reporte de movimientos por período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD (por defecto hace 30 días)"
// @Param        to    query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.InventoryReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	var q dto.ReportRangeRequest
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	from, to, err := h.uc.ParseRange(q)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Summary(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Reporte de movimientos en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {file}  binary
// @Router       /api/reports/summary.pdf [get]
func (h *ReportHandler) SummaryPDF(c *fiber.Ctx) error {
	var q dto.ReportRangeRequest
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	from, to, err := h.uc.ParseRange(q)
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.uc.SummaryPDF(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="reporte_%s_%s.pdf"`,
		from.Format("20060102"), to.Format("20060102")))
	return c.Send(doc)
}

// ProductsXLSX godoc
// @Summary      Exportar catálogo a Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/reports/products.xlsx [get]
func (h *ReportHandler) ProductsXLSX(c *fiber.Ctx) error {
	data, err := h.uc.ExportProducts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.xlsx"`)
	return c.Send(data)
}
