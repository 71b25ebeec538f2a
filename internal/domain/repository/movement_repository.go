package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del ledger de movimientos.
// Las lecturas devuelven (nil, nil) si el movimiento no existe.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// MarkReverted fija los campos terminales de reversión del movimiento original.
	MarkReverted(ctx context.Context, id, reversedBy, reason string, at time.Time) error
	// List ordena por timestamp descendente.
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error)
	// LatestQuantities devuelve, por producto, el new_quantity de su último movimiento.
	LatestQuantities(ctx context.Context) (map[string]decimal.Decimal, error)
}
