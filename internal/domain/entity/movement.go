package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada   = "entrada"   // suma al stock
	MovementTypeSalida    = "salida"    // resta del stock
	MovementTypeAjuste    = "ajuste"    // fija el stock a un valor absoluto
	MovementTypeReversion = "reversion" // compensa un movimiento previo
)

// IsApplicableMovementType indica si el tipo puede registrarse directamente (no reversion).
func IsApplicableMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeAjuste:
		return true
	}
	return false
}

// Movement registro inmutable del ledger de un producto.
// Solo los campos de reversión del original se actualizan, una única vez.
type Movement struct {
	ID                 string
	ProductID          string // referencia blanda: el producto pudo ser eliminado
	ProductCode        string
	ProductDescription string
	Type               string
	PreviousQuantity   decimal.Decimal
	NewQuantity        decimal.Decimal
	Quantity           decimal.NullDecimal // NULL en reversiones
	Reason             string
	Reference          string
	UserID             string
	UserName           string
	Timestamp          time.Time

	Reverted           bool
	ReversedBy         string
	ReversedAt         *time.Time
	ReversionReason    string
	OriginalMovementID string // solo en reversiones
}

// Delta cambio neto de stock que produjo el movimiento.
func (m *Movement) Delta() decimal.Decimal {
	return m.NewQuantity.Sub(m.PreviousQuantity)
}

// CanBeReversed un movimiento es reversible si no es reversión y no fue revertido.
func (m *Movement) CanBeReversed() bool {
	return m.Type != MovementTypeReversion && !m.Reverted
}

// MovementFilter criterios de consulta del ledger.
type MovementFilter struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int // 0 = sin límite
}
