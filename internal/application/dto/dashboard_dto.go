package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// KPIs del día más el Top-5 de productos con stock bajo y los últimos movimientos.
type DashboardSummaryDTO struct {
	TotalProducts  int `json:"total_products"`
	LowStockCount  int `json:"low_stock_count"`
	TodayMovements int `json:"today_movements"`

	LowStockTop     []StockAlertDTO    `json:"low_stock_top"`    // máx. 5
	RecentMovements []MovementResponse `json:"recent_movements"` // máx. 10

	DateLabel string `json:"date_label"` // ej: "18 de Octubre 2026"
}
