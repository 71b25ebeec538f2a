package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto de clasificación.
const (
	DefaultUnit       = "pza"
	DefaultDepartment = "electronica"
)

// Product representa un artículo del catálogo del almacén.
// CurrentQuantity solo lo modifica el registrador de movimientos.
type Product struct {
	ID                string
	Code              string // único, inmutable tras la creación
	Description       string
	Unit              string
	Department        string
	CurrentQuantity   decimal.Decimal
	MinQuantity       decimal.NullDecimal // NULL = sin umbral
	MaxQuantity       decimal.NullDecimal
	TotalMovements    int
	ImportedFromExcel bool
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica stock en o bajo el mínimo.
func (p *Product) IsLowStock() bool {
	return p.MinQuantity.Valid && p.CurrentQuantity.LessThanOrEqual(p.MinQuantity.Decimal)
}

// IsAlmostOut indica stock en o bajo min*factor (ej. 1.1 = mínimo + 10%).
func (p *Product) IsAlmostOut(factor decimal.Decimal) bool {
	return p.MinQuantity.Valid && p.CurrentQuantity.LessThanOrEqual(p.MinQuantity.Decimal.Mul(factor))
}

// IsExcessStock indica stock por encima del máximo.
func (p *Product) IsExcessStock() bool {
	return p.MaxQuantity.Valid && p.CurrentQuantity.GreaterThan(p.MaxQuantity.Decimal)
}

// NeverMoved indica que el producto no tiene movimientos registrados.
func (p *Product) NeverMoved() bool {
	return p.TotalMovements == 0
}

// ProductFilter criterios de búsqueda del catálogo. Campos vacíos no filtran.
type ProductFilter struct {
	Code              string // igualdad
	CodePrefix        string // prefijo (autocompletado)
	DescriptionPrefix string // prefijo
	Department        string // igualdad
}
