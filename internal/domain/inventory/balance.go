// Package inventory contiene los servicios de dominio del ledger: cálculo de saldo
// y normalización de ajustes rápidos. Sin I/O.
package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// QuantityScale decimales que guarda la columna NUMERIC(18, 4).
const QuantityScale = 4

// maxQuantity primer valor con 15 dígitos enteros; NUMERIC(18, 4) admite 14.
var maxQuantity = decimal.New(1, 14)

// ValidateMagnitude rechaza valores que la base no guardaría tal cual:
// más de QuantityScale decimales o más de 14 dígitos enteros.
func ValidateMagnitude(field string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(QuantityScale)) {
		return fmt.Errorf("%w: %s admite hasta %d decimales", domain.ErrInvalidInput, field, QuantityScale)
	}
	if v.Abs().GreaterThanOrEqual(maxQuantity) {
		return fmt.Errorf("%w: %s excede el máximo de 14 dígitos enteros", domain.ErrInvalidInput, field)
	}
	return nil
}

// ValidateQuantity exige cantidad > 0 en entradas/salidas y >= 0 en ajustes,
// dentro de los límites de ValidateMagnitude.
func ValidateQuantity(movType string, quantity decimal.Decimal) error {
	if err := ValidateMagnitude("la cantidad", quantity); err != nil {
		return err
	}
	switch movType {
	case entity.MovementTypeEntrada, entity.MovementTypeSalida:
		if !quantity.IsPositive() {
			return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
		}
	case entity.MovementTypeAjuste:
		if quantity.IsNegative() {
			return fmt.Errorf("%w: el ajuste no puede ser negativo", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movType)
	}
	return nil
}

// NextBalance calcula el saldo resultante de aplicar un movimiento sobre previous.
//
//	entrada: previous + quantity
//	salida:  previous - quantity (ErrInsufficientStock si queda negativo)
//	ajuste:  quantity
func NextBalance(movType string, previous, quantity decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateQuantity(movType, quantity); err != nil {
		return decimal.Zero, err
	}
	switch movType {
	case entity.MovementTypeEntrada:
		next := previous.Add(quantity)
		if err := ValidateMagnitude("el stock resultante", next); err != nil {
			return decimal.Zero, err
		}
		return next, nil
	case entity.MovementTypeSalida:
		next := previous.Sub(quantity)
		if next.IsNegative() {
			return decimal.Zero, domain.ErrInsufficientStock
		}
		return next, nil
	default:
		return quantity, nil
	}
}

// ParseDelta normaliza la entrada del ajuste rápido:
//
//	"+5"  -> entrada 5
//	"-3"  -> salida 3
//	"12"  -> ajuste a 12
//
// La coma es separador decimal ("2,5"). No hay separador de miles: se rechazan
// dos separadores ("1.000,5") y una coma seguida de exactamente tres dígitos ("1,000").
func ParseDelta(raw string) (string, decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", decimal.Zero, fmt.Errorf("%w: ajuste vacío", domain.ErrInvalidInput)
	}
	movType := entity.MovementTypeAjuste
	switch s[0] {
	case '+':
		movType = entity.MovementTypeEntrada
		s = strings.TrimSpace(s[1:])
	case '-':
		movType = entity.MovementTypeSalida
		s = strings.TrimSpace(s[1:])
	}
	if s == "" || strings.ContainsAny(s, "+-eE") {
		return "", decimal.Zero, fmt.Errorf("%w: ajuste %q no es un número", domain.ErrInvalidInput, raw)
	}
	if strings.Count(s, ",")+strings.Count(s, ".") > 1 {
		return "", decimal.Zero, fmt.Errorf("%w: ajuste %q: use un solo separador decimal", domain.ErrInvalidInput, raw)
	}
	if i := strings.IndexByte(s, ','); i >= 0 && len(s)-i-1 == 3 && strings.TrimLeft(s[:i], "0") != "" {
		return "", decimal.Zero, fmt.Errorf("%w: ajuste %q ambiguo: la coma es decimal, no de miles", domain.ErrInvalidInput, raw)
	}
	qty, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("%w: ajuste %q no es un número", domain.ErrInvalidInput, raw)
	}
	if err := ValidateQuantity(movType, qty); err != nil {
		return "", decimal.Zero, err
	}
	return movType, qty, nil
}
