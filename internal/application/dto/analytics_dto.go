package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// ReportRangeRequest parámetros para GET /api/reports/summary.
type ReportRangeRequest struct {
	From string `query:"from"` // YYYY-MM-DD; por defecto hace 30 días
	To   string `query:"to"`   // YYYY-MM-DD; por defecto hoy
}

// ── Estadísticas del catálogo ─────────────────────────────────────────────────

// InventoryStatisticsDTO conteos globales del catálogo.
type InventoryStatisticsDTO struct {
	TotalProducts    int `json:"total_products"`
	LowStockCount    int `json:"low_stock_count"`
	ExcessStockCount int `json:"excess_stock_count"`
	NeverMovedCount  int `json:"never_moved_count"`
}

// ── Reporte por período ───────────────────────────────────────────────────────

// ReportMetricsDTO métricas generales del período.
type ReportMetricsDTO struct {
	TotalProducts     int             `json:"total_products"`
	TotalMovements    int             `json:"total_movements"`
	AvgDailyMovements decimal.Decimal `json:"avg_daily_movements"` // movimientos / días del rango (mínimo 1)
}

// DepartmentSummaryDTO agregado de productos por departamento.
type DepartmentSummaryDTO struct {
	Department    string          `json:"department"`
	Count         int             `json:"count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	LowStock      int             `json:"low_stock"`
}

// DailyMovementSummaryDTO movimientos agrupados por día.
type DailyMovementSummaryDTO struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Entries     int    `json:"entries"`
	Exits       int    `json:"exits"`
	Adjustments int    `json:"adjustments"`
	Reversions  int    `json:"reversions"`
	Total       int    `json:"total"`
}

// NeverMovedProductDTO producto sin movimientos registrados.
type NeverMovedProductDTO struct {
	ProductID       string          `json:"product_id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	CreatedAt       time.Time       `json:"created_at"`
}

// InventoryReportDTO respuesta de GET /api/reports/summary.
type InventoryReportDTO struct {
	From          string                    `json:"from"`
	To            string                    `json:"to"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	Metrics       ReportMetricsDTO          `json:"metrics"`
	Departments   []DepartmentSummaryDTO    `json:"departments"`
	DailySummary  []DailyMovementSummaryDTO `json:"daily_summary"` // fecha descendente
	NeverMoved    []NeverMovedProductDTO    `json:"never_moved"`   // máx. 10
	NeverMovedAll int                       `json:"never_moved_total"`
}
