package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/movements.
type RegisterMovementRequest struct {
	ProductID                string           `json:"product_id" validate:"required"`
	Type                     string           `json:"type" validate:"required,oneof=entrada salida ajuste"`
	Quantity                 decimal.Decimal  `json:"quantity" validate:"gte=0"`
	Reason                   string           `json:"reason" validate:"required,notblank,max=500"`
	Reference                string           `json:"reference" validate:"omitempty,max=200"`
	ExpectedPreviousQuantity *decimal.Decimal `json:"expected_previous_quantity,omitempty"`
}

// QuickAdjustRequest body para POST /api/movements/quick: "+5", "-3" o "12".
type QuickAdjustRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Delta     string `json:"delta" validate:"required,notblank,max=30"`
	Reason    string `json:"reason" validate:"omitempty,max=500"`
	Reference string `json:"reference" validate:"omitempty,max=200"`
}

// ReverseMovementRequest body para POST /api/movements/:id/reverse.
type ReverseMovementRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

// MovementListQuery filtros de GET /api/movements (fechas RFC3339 o YYYY-MM-DD).
type MovementListQuery struct {
	From  string `query:"from"`
	To    string `query:"to"`
	Type  string `query:"type" validate:"omitempty,oneof=entrada salida ajuste reversion"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID                 string           `json:"id"`
	ProductID          string           `json:"product_id"`
	ProductCode        string           `json:"product_code"`
	ProductDescription string           `json:"product_description"`
	Type               string           `json:"type"`
	PreviousQuantity   decimal.Decimal  `json:"previous_quantity"`
	NewQuantity        decimal.Decimal  `json:"new_quantity"`
	Quantity           *decimal.Decimal `json:"quantity"`
	Delta              decimal.Decimal  `json:"delta"`
	Reason             string           `json:"reason"`
	Reference          string           `json:"reference,omitempty"`
	UserID             string           `json:"user_id"`
	UserName           string           `json:"user_name"`
	Timestamp          time.Time        `json:"timestamp"`
	Reverted           bool             `json:"reverted"`
	ReversedBy         string           `json:"reversed_by,omitempty"`
	ReversedAt         *time.Time       `json:"reversed_at,omitempty"`
	ReversionReason    string           `json:"reversion_reason,omitempty"`
	OriginalMovementID string           `json:"original_movement_id,omitempty"`
}

// MovementListResponse lista de movimientos (timestamp descendente).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}

// ReconcileItemDTO producto cuyo stock no coincide con el último movimiento del ledger.
type ReconcileItemDTO struct {
	ProductID       string          `json:"product_id"`
	Code            string          `json:"code"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	LedgerQuantity  decimal.Decimal `json:"ledger_quantity"`
	Difference      decimal.Decimal `json:"difference"`
}

// ReconcileResponse resultado de la auditoría de saldos.
type ReconcileResponse struct {
	CheckedProducts int                `json:"checked_products"`
	Mismatches      []ReconcileItemDTO `json:"mismatches"`
}

// StockAlertDTO producto en alerta de stock con la cantidad sugerida de reposición.
type StockAlertDTO struct {
	ProductID         string           `json:"product_id"`
	Code              string           `json:"code"`
	Description       string           `json:"description"`
	Department        string           `json:"department"`
	CurrentQuantity   decimal.Decimal  `json:"current_quantity"`
	MinQuantity       *decimal.Decimal `json:"min_quantity,omitempty"`
	MaxQuantity       *decimal.Decimal `json:"max_quantity,omitempty"`
	SuggestedOrderQty decimal.Decimal  `json:"suggested_order_qty"`
	Priority          int              `json:"priority"` // 1 = más urgente
}

// StockAlertsResponse respuesta de GET /api/alerts.
type StockAlertsResponse struct {
	LowStock   []StockAlertDTO `json:"low_stock"`
	AlmostOut  []StockAlertDTO `json:"almost_out"`
	Excess     []StockAlertDTO `json:"excess"`
	TotalCount int             `json:"total_count"`
}
