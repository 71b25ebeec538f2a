package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

func seedWithThresholds(t *testing.T, store *memory.Store, code, cur string, min, max *string) {
	t.Helper()
	p := &entity.Product{ID: "p-" + code, Code: code, Description: "Prod " + code, CurrentQuantity: dec(cur)}
	if min != nil {
		p.MinQuantity = decimal.NewNullDecimal(dec(*min))
	}
	if max != nil {
		p.MaxQuantity = decimal.NewNullDecimal(dec(*max))
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
}

func TestGenerateAlerts_Clasifica(t *testing.T) {
	store := memory.NewStore()
	seedWithThresholds(t, store, "LOW-1", "2", strPtr("10"), strPtr("30"))  // bajo, déficit 80%
	seedWithThresholds(t, store, "LOW-2", "10", strPtr("10"), nil)          // bajo (igual al mínimo)
	seedWithThresholds(t, store, "ALM-1", "10.5", strPtr("10"), nil)        // casi agotado (<= 11)
	seedWithThresholds(t, store, "OK-1", "12", strPtr("10"), strPtr("20"))  // normal
	seedWithThresholds(t, store, "EXC-1", "25", strPtr("10"), strPtr("20")) // exceso
	seedWithThresholds(t, store, "NONE", "0", nil, nil)                     // sin umbrales

	uc := inventory.NewAlertsUseCase(store.Products(), 0)
	res, err := uc.GenerateAlerts(context.Background())
	require.NoError(t, err)

	require.Len(t, res.LowStock, 2)
	assert.Equal(t, "LOW-1", res.LowStock[0].Code)
	assert.Equal(t, 1, res.LowStock[0].Priority)
	assert.True(t, res.LowStock[0].SuggestedOrderQty.Equal(dec("28")), "máximo - actual")
	assert.True(t, res.LowStock[1].SuggestedOrderQty.Equal(dec("5")), "mínimo*1.5 - actual")

	require.Len(t, res.AlmostOut, 1)
	assert.Equal(t, "ALM-1", res.AlmostOut[0].Code)

	require.Len(t, res.Excess, 1)
	assert.Equal(t, "EXC-1", res.Excess[0].Code)
	assert.True(t, res.Excess[0].SuggestedOrderQty.IsZero())

	assert.Equal(t, 4, res.TotalCount)
}

func TestLowStockTop_Limita(t *testing.T) {
	store := memory.NewStore()
	for _, code := range []string{"A", "B", "C"} {
		seedWithThresholds(t, store, code, "1", strPtr("5"), nil)
	}
	uc := inventory.NewAlertsUseCase(store.Products(), 1.1)

	top, err := uc.LowStockTop(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Code)
}
