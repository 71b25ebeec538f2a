package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

func TestRenderInventoryReport_GeneraPDF(t *testing.T) {
	report := &dto.InventoryReportDTO{
		From:        "2026-03-01",
		To:          "2026-03-10",
		GeneratedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Metrics: dto.ReportMetricsDTO{
			TotalProducts: 2, TotalMovements: 3, AvgDailyMovements: decimal.RequireFromString("0.3"),
		},
		Departments: []dto.DepartmentSummaryDTO{
			{Department: "ferreteria", Count: 2, TotalQuantity: decimal.NewFromInt(15), LowStock: 1},
		},
		DailySummary: []dto.DailyMovementSummaryDTO{
			{Date: "2026-03-09", Entries: 2, Exits: 1, Total: 3},
		},
		NeverMoved:    []dto.NeverMovedProductDTO{{Code: "A-1", Description: "Tornillo", CurrentQuantity: decimal.NewFromInt(5)}},
		NeverMovedAll: 1,
	}

	out, err := NewMarotoReportRenderer("Almacén test").RenderInventoryReport(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderInventoryReport_ReporteVacio(t *testing.T) {
	out, err := NewMarotoReportRenderer("").RenderInventoryReport(&dto.InventoryReportDTO{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = NewMarotoReportRenderer("").RenderInventoryReport(nil)
	assert.Error(t, err)
}
