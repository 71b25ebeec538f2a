package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/pkg/validator"
)

type muestra struct {
	Code     string          `json:"code" validate:"notblank,max=5"`
	Quantity decimal.Decimal `json:"quantity" validate:"gte=0"`
}

func TestStruct_Valido(t *testing.T) {
	errs := validator.Struct(muestra{Code: "A1", Quantity: decimal.NewFromInt(3)})
	assert.Nil(t, errs)
}

func TestStruct_ReportaNombresJSON(t *testing.T) {
	errs := validator.Struct(muestra{Code: "   ", Quantity: decimal.NewFromInt(-1)})
	require.Len(t, errs, 2)

	fields := []string{errs[0].Field, errs[1].Field}
	assert.ElementsMatch(t, []string{"code", "quantity"}, fields)
	assert.Contains(t, validator.Message(errs), "quantity (gte=0)")
}
