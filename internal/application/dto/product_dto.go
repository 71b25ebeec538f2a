package dto

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code            string           `json:"code" validate:"required,notblank,max=50"`
	Description     string           `json:"description" validate:"required,min=3,max=500"`
	Unit            string           `json:"unit" validate:"omitempty,max=20"`
	Department      string           `json:"department" validate:"omitempty,max=60"`
	CurrentQuantity decimal.Decimal  `json:"current_quantity" validate:"gte=0"`
	MinQuantity     *decimal.Decimal `json:"min_quantity"`
	MaxQuantity     *decimal.Decimal `json:"max_quantity"`
}

// UpdateProductRequest actualización parcial. Code y CurrentQuantity no son editables aquí.
type UpdateProductRequest struct {
	Description *string         `json:"description" validate:"omitempty,min=3,max=500"`
	Unit        *string         `json:"unit" validate:"omitempty,max=20"`
	Department  *string         `json:"department" validate:"omitempty,max=60"`
	MinQuantity OptionalDecimal `json:"min_quantity"`
	MaxQuantity OptionalDecimal `json:"max_quantity"`
}

// OptionalDecimal distingue campo ausente (Set=false), null (Set=true, Valid=false) y número.
type OptionalDecimal struct {
	Set   bool
	Value decimal.NullDecimal
}

// UnmarshalJSON solo se invoca cuando la clave está presente en el body.
func (o *OptionalDecimal) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = decimal.NullDecimal{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	o.Value = decimal.NewNullDecimal(d)
	return nil
}

// MarshalJSON serializa null cuando no hay valor.
func (o OptionalDecimal) MarshalJSON() ([]byte, error) {
	if !o.Value.Valid {
		return []byte("null"), nil
	}
	return o.Value.Decimal.MarshalJSON()
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string           `json:"id"`
	Code              string           `json:"code"`
	Description       string           `json:"description"`
	Unit              string           `json:"unit"`
	Department        string           `json:"department"`
	CurrentQuantity   decimal.Decimal  `json:"current_quantity"`
	MinQuantity       *decimal.Decimal `json:"min_quantity"`
	MaxQuantity       *decimal.Decimal `json:"max_quantity"`
	TotalMovements    int              `json:"total_movements"`
	ImportedFromExcel bool             `json:"imported_from_excel"`
	LowStock          bool             `json:"low_stock"`
	CreatedBy         string           `json:"created_by,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ProductListResponse listado completo (sin paginación) de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	Code        string `query:"code"`
	CodePrefix  string `query:"code_prefix"`
	Description string `query:"description"`
	Department  string `query:"department"`
}

// CodeExistsResponse respuesta de GET /api/products/exists.
type CodeExistsResponse struct {
	Code   string `json:"code"`
	Exists bool   `json:"exists"`
}

// NextCodeResponse respuesta de GET /api/products/next-code.
type NextCodeResponse struct {
	Code string `json:"code"`
}
