package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

const (
	dashboardLowStockTop = 5  // productos en el widget de stock bajo
	dashboardRecent      = 10 // últimos movimientos
)

// DashboardUseCase genera el resumen operativo del día.
//
// Fuente de datos: repositorios de productos y movimientos (solo lectura).
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	alerts      *inventory.AlertsUseCase
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	alerts *inventory.AlertsUseCase,
) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, movRepo: movRepo, alerts: alerts, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. catálogo completo          → TotalProducts + LowStockCount
//  2. movimientos de hoy         → TodayMovements
//  3. top 5 stock bajo           → LowStockTop
//  4. últimos 10 movimientos     → RecentMovements
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	var (
		products []*entity.Product
		today    []*entity.Movement
		lowTop   []dto.StockAlertDTO
		recent   []*entity.Movement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if products, err = uc.productRepo.List(gctx, entity.ProductFilter{}); err != nil {
			return fmt.Errorf("dashboard: productos: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if today, err = uc.movRepo.List(gctx, entity.MovementFilter{From: &todayStart, To: &todayEnd}); err != nil {
			return fmt.Errorf("dashboard: movimientos de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if lowTop, err = uc.alerts.LowStockTop(gctx, dashboardLowStockTop); err != nil {
			return fmt.Errorf("dashboard: stock bajo: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if recent, err = uc.movRepo.List(gctx, entity.MovementFilter{Limit: dashboardRecent}); err != nil {
			return fmt.Errorf("dashboard: recientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lowCount := 0
	for _, p := range products {
		if p.IsLowStock() {
			lowCount++
		}
	}
	return &dto.DashboardSummaryDTO{
		TotalProducts:   len(products),
		LowStockCount:   lowCount,
		TodayMovements:  len(today),
		LowStockTop:     lowTop,
		RecentMovements: inventory.ToMovementList(recent).Items,
		DateLabel:       dayLabel(now),
	}, nil
}

// dayLabel devuelve una etiqueta legible del día, ej: "18 de Octubre 2026".
func dayLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%d de %s %d", t.Day(), months[t.Month()-1], t.Year())
}
