package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// DefaultAlmostOutFactor mínimo + 10%.
var DefaultAlmostOutFactor = decimal.NewFromFloat(1.1)

var idealStockFactor = decimal.NewFromFloat(1.5)

// AlertsUseCase clasifica el catálogo en stock bajo, casi agotado y exceso,
// y sugiere la cantidad de reposición de cada producto en alerta.
type AlertsUseCase struct {
	productRepo     repository.ProductRepository
	almostOutFactor decimal.Decimal
}

// NewAlertsUseCase construye el caso de uso de alertas. factor <= 0 usa DefaultAlmostOutFactor.
func NewAlertsUseCase(productRepo repository.ProductRepository, almostOutFactor float64) *AlertsUseCase {
	factor := DefaultAlmostOutFactor
	if almostOutFactor > 0 {
		factor = decimal.NewFromFloat(almostOutFactor)
	}
	return &AlertsUseCase{productRepo: productRepo, almostOutFactor: factor}
}

// GenerateAlerts recorre el catálogo completo y arma las tres listas.
// Un producto en stock bajo no se repite en casi agotado.
func (uc *AlertsUseCase) GenerateAlerts(ctx context.Context) (*dto.StockAlertsResponse, error) {
	products, err := uc.productRepo.List(ctx, entity.ProductFilter{})
	if err != nil {
		return nil, err
	}
	return uc.classify(products), nil
}

// LowStockTop devuelve hasta n productos en stock bajo, los más urgentes primero.
func (uc *AlertsUseCase) LowStockTop(ctx context.Context, n int) ([]dto.StockAlertDTO, error) {
	res, err := uc.GenerateAlerts(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(res.LowStock) > n {
		return res.LowStock[:n], nil
	}
	return res.LowStock, nil
}

func (uc *AlertsUseCase) classify(products []*entity.Product) *dto.StockAlertsResponse {
	res := &dto.StockAlertsResponse{
		LowStock:  []dto.StockAlertDTO{},
		AlmostOut: []dto.StockAlertDTO{},
		Excess:    []dto.StockAlertDTO{},
	}
	for _, p := range products {
		switch {
		case p.IsLowStock():
			res.LowStock = append(res.LowStock, toAlert(p))
		case p.IsAlmostOut(uc.almostOutFactor):
			res.AlmostOut = append(res.AlmostOut, toAlert(p))
		}
		if p.IsExcessStock() {
			a := toAlert(p)
			a.SuggestedOrderQty = decimal.Zero
			res.Excess = append(res.Excess, a)
		}
	}

	prioritize(res.LowStock, deficitRatio)
	prioritize(res.AlmostOut, deficitRatio)
	prioritize(res.Excess, func(a dto.StockAlertDTO) decimal.Decimal {
		return a.CurrentQuantity.Sub(*a.MaxQuantity)
	})
	res.TotalCount = len(res.LowStock) + len(res.AlmostOut) + len(res.Excess)
	return res
}

func toAlert(p *entity.Product) dto.StockAlertDTO {
	a := dto.StockAlertDTO{
		ProductID:       p.ID,
		Code:            p.Code,
		Description:     p.Description,
		Department:      p.Department,
		CurrentQuantity: p.CurrentQuantity,
	}
	if p.MinQuantity.Valid {
		v := p.MinQuantity.Decimal
		a.MinQuantity = &v
	}
	if p.MaxQuantity.Valid {
		v := p.MaxQuantity.Decimal
		a.MaxQuantity = &v
	}

	// Stock ideal: el máximo si existe; si no, mínimo * 1.5
	var ideal decimal.Decimal
	switch {
	case p.MaxQuantity.Valid:
		ideal = p.MaxQuantity.Decimal
	case p.MinQuantity.Valid:
		ideal = p.MinQuantity.Decimal.Mul(idealStockFactor)
	}
	a.SuggestedOrderQty = ideal.Sub(p.CurrentQuantity)
	if a.SuggestedOrderQty.IsNegative() {
		a.SuggestedOrderQty = decimal.Zero
	}
	return a
}

// deficitRatio (min - actual) / min; mínimo cero cuenta como déficit total.
func deficitRatio(a dto.StockAlertDTO) decimal.Decimal {
	if a.MinQuantity == nil || a.MinQuantity.IsZero() {
		return decimal.NewFromInt(1)
	}
	return a.MinQuantity.Sub(a.CurrentQuantity).Div(*a.MinQuantity)
}

// prioritize ordena por severidad descendente (empate por código) y asigna Priority (1 = más urgente).
func prioritize(items []dto.StockAlertDTO, severity func(dto.StockAlertDTO) decimal.Decimal) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := severity(items[i]), severity(items[j])
		if !si.Equal(sj) {
			return si.GreaterThan(sj)
		}
		return items[i].Code < items[j].Code
	})
	for i := range items {
		items[i].Priority = i + 1
	}
}
