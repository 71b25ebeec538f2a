// Package analytics contiene los casos de uso de reportes del almacén y el dashboard.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

const (
	dateLayout         = "2006-01-02"
	defaultReportDays  = 30
	neverMovedListSize = 10
	noDepartmentLabel  = "Sin Departamento"
)

// ReportUseCase estadísticas del catálogo y reporte de movimientos por período.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	renderer    ReportRenderer
	exporter    ProductExporter
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso. renderer y exporter pueden ser nil
// si no se exponen las descargas.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	renderer ReportRenderer,
	exporter ProductExporter,
) *ReportUseCase {
	return &ReportUseCase{
		productRepo: productRepo,
		movRepo:     movRepo,
		renderer:    renderer,
		exporter:    exporter,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Statistics conteos globales: total, stock bajo, exceso y nunca movidos.
func (uc *ReportUseCase) Statistics(ctx context.Context) (*dto.InventoryStatisticsDTO, error) {
	products, err := uc.productRepo.List(ctx, entity.ProductFilter{})
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryStatisticsDTO{TotalProducts: len(products)}
	for _, p := range products {
		if p.IsLowStock() {
			out.LowStockCount++
		}
		if p.IsExcessStock() {
			out.ExcessStockCount++
		}
		if p.NeverMoved() {
			out.NeverMovedCount++
		}
	}
	return out, nil
}

// ParseRange interpreta from/to (YYYY-MM-DD). Por defecto los últimos 30 días.
// to se extiende hasta el final del día.
func (uc *ReportUseCase) ParseRange(req dto.ReportRangeRequest) (time.Time, time.Time, error) {
	now := uc.now()
	to := now
	from := now.AddDate(0, 0, -defaultReportDays)
	var err error
	if req.From != "" {
		if from, err = time.ParseInLocation(dateLayout, req.From, now.Location()); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
	}
	if req.To != "" {
		if to, err = time.ParseInLocation(dateLayout, req.To, now.Location()); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return from, to, nil
}

// Summary arma el reporte del período: métricas, resumen por departamento,
// movimientos por día (fecha descendente) y productos sin movimiento en el rango.
func (uc *ReportUseCase) Summary(ctx context.Context, from, to time.Time) (*dto.InventoryReportDTO, error) {
	var (
		products  []*entity.Product
		movements []*entity.Movement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = uc.productRepo.List(gctx, entity.ProductFilter{})
		if err != nil {
			return fmt.Errorf("reporte: productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		movements, err = uc.movRepo.List(gctx, entity.MovementFilter{From: &from, To: &to})
		if err != nil {
			return fmt.Errorf("reporte: movimientos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	days := int(math.Ceil(to.Sub(from).Hours() / 24))
	if days < 1 {
		days = 1
	}

	report := &dto.InventoryReportDTO{
		From:        from.Format(dateLayout),
		To:          to.Format(dateLayout),
		GeneratedAt: uc.now(),
		Metrics: dto.ReportMetricsDTO{
			TotalProducts:     len(products),
			TotalMovements:    len(movements),
			AvgDailyMovements: decimal.NewFromInt(int64(len(movements))).Div(decimal.NewFromInt(int64(days))).Round(2),
		},
		Departments:  departmentSummary(products),
		DailySummary: dailySummary(movements),
		NeverMoved:   []dto.NeverMovedProductDTO{},
	}

	moved := make(map[string]struct{}, len(movements))
	for _, m := range movements {
		moved[m.ProductID] = struct{}{}
	}
	for _, p := range products {
		if _, ok := moved[p.ID]; ok {
			continue
		}
		report.NeverMovedAll++
		if len(report.NeverMoved) < neverMovedListSize {
			report.NeverMoved = append(report.NeverMoved, dto.NeverMovedProductDTO{
				ProductID:       p.ID,
				Code:            p.Code,
				Description:     p.Description,
				CurrentQuantity: p.CurrentQuantity,
				CreatedAt:       p.CreatedAt,
			})
		}
	}
	return report, nil
}

func departmentSummary(products []*entity.Product) []dto.DepartmentSummaryDTO {
	byDept := make(map[string]*dto.DepartmentSummaryDTO)
	for _, p := range products {
		dept := p.Department
		if dept == "" {
			dept = noDepartmentLabel
		}
		s, ok := byDept[dept]
		if !ok {
			s = &dto.DepartmentSummaryDTO{Department: dept}
			byDept[dept] = s
		}
		s.Count++
		s.TotalQuantity = s.TotalQuantity.Add(p.CurrentQuantity)
		if p.IsLowStock() {
			s.LowStock++
		}
	}
	out := make([]dto.DepartmentSummaryDTO, 0, len(byDept))
	for _, s := range byDept {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

func dailySummary(movements []*entity.Movement) []dto.DailyMovementSummaryDTO {
	byDay := make(map[string]*dto.DailyMovementSummaryDTO)
	for _, m := range movements {
		day := m.Timestamp.Format(dateLayout)
		s, ok := byDay[day]
		if !ok {
			s = &dto.DailyMovementSummaryDTO{Date: day}
			byDay[day] = s
		}
		switch m.Type {
		case entity.MovementTypeEntrada:
			s.Entries++
		case entity.MovementTypeSalida:
			s.Exits++
		case entity.MovementTypeAjuste:
			s.Adjustments++
		case entity.MovementTypeReversion:
			s.Reversions++
		}
		s.Total++
	}
	out := make([]dto.DailyMovementSummaryDTO, 0, len(byDay))
	for _, s := range byDay {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// SummaryPDF genera el reporte del período en PDF.
func (uc *ReportUseCase) SummaryPDF(ctx context.Context, from, to time.Time) ([]byte, error) {
	if uc.renderer == nil {
		return nil, errors.New("reporte: generador PDF no configurado")
	}
	report, err := uc.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderInventoryReport(report)
}

// ExportProducts exporta el catálogo completo a XLSX.
func (uc *ReportUseCase) ExportProducts(ctx context.Context) ([]byte, error) {
	if uc.exporter == nil {
		return nil, errors.New("reporte: exportador no configurado")
	}
	products, err := uc.productRepo.List(ctx, entity.ProductFilter{})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *usecase.ToProductResponse(p))
	}
	return uc.exporter.ExportProducts(items)
}
