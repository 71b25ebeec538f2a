package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
)

// DashboardHandler maneja el endpoint del dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen del día.
// GET /api/dashboard
//
// Respuesta: DashboardSummaryDTO (total_products, low_stock_count,
// today_movements, low_stock_top[5], recent_movements, date_label).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
