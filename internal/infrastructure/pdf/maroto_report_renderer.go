// Package pdf genera la versión imprimible del reporte de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + rango de fechas  │  fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MÉTRICAS: productos / movimientos / promedio diario        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Departamento | Productos | Cantidad | Stock bajo    │
//	│  TABLA: Fecha | Entradas | Salidas | Ajustes | Rev. | Total │
//	│  TABLA: Código | Descripción | Cantidad (sin movimiento)    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoReportRenderer implementa analytics.ReportRenderer usando Maroto v2.
type MarotoReportRenderer struct {
	appName string
}

// NewMarotoReportRenderer construye el renderer. appName aparece como autor del PDF.
func NewMarotoReportRenderer(appName string) *MarotoReportRenderer {
	if appName == "" {
		appName = "Almacén"
	}
	return &MarotoReportRenderer{appName: appName}
}

// RenderInventoryReport genera el PDF del reporte y devuelve sus bytes.
func (r *MarotoReportRenderer) RenderInventoryReport(report *dto.InventoryReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de inventario", true).
		WithAuthor(r.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(metricsRow(report.Metrics))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("Productos por departamento"))
	m.AddRows(tableHeader([]string{"Departamento", "Productos", "Cantidad total", "Stock bajo"}, []int{6, 2, 2, 2}))
	for _, d := range report.Departments {
		m.AddRows(tableRow([]string{
			d.Department,
			strconv.Itoa(d.Count),
			formatQty(d.TotalQuantity),
			strconv.Itoa(d.LowStock),
		}, []int{6, 2, 2, 2}, d.LowStock > 0))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("Movimientos por día"))
	dailyCols := []int{3, 2, 2, 2, 1, 2}
	m.AddRows(tableHeader([]string{"Fecha", "Entradas", "Salidas", "Ajustes", "Rev.", "Total"}, dailyCols))
	if len(report.DailySummary) == 0 {
		m.AddRows(emptyRow("Sin movimientos en el período"))
	}
	for _, d := range report.DailySummary {
		m.AddRows(tableRow([]string{
			d.Date,
			strconv.Itoa(d.Entries),
			strconv.Itoa(d.Exits),
			strconv.Itoa(d.Adjustments),
			strconv.Itoa(d.Reversions),
			strconv.Itoa(d.Total),
		}, dailyCols, false))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(fmt.Sprintf("Productos sin movimiento (%d)", report.NeverMovedAll)))
	nmCols := []int{3, 6, 3}
	m.AddRows(tableHeader([]string{"Código", "Descripción", "Cantidad"}, nmCols))
	if len(report.NeverMoved) == 0 {
		m.AddRows(emptyRow("Todos los productos tuvieron movimiento"))
	}
	for _, p := range report.NeverMoved {
		m.AddRows(tableRow([]string{p.Code, p.Description, formatQty(p.CurrentQuantity)}, nmCols, false))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.InventoryReportDTO) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Período: %s a %s", report.From, report.To), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func metricsRow(m dto.ReportMetricsDTO) core.Row {
	metric := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 6}),
		)
	}
	return row.New(16).Add(
		metric("Productos", strconv.Itoa(m.TotalProducts)),
		metric("Movimientos", strconv.Itoa(m.TotalMovements)),
		metric("Promedio diario", m.AvgDailyMovements.StringFixed(1)),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
	))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorGray, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func tableRow(values []string, sizes []int, highlight bool) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		p := props.Text{Size: 8, Align: align.Right, Top: 1, Left: 1, Right: 1}
		if i == 0 {
			p.Align = align.Left
		}
		if highlight {
			p.Color = colorAlert
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(v, p)))
	}
	return row.New(6).Add(cols...)
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatQty muestra la cantidad sin ceros decimales sobrantes: "12.50" → "12.5".
func formatQty(d decimal.Decimal) string {
	return d.String()
}
