package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// Update persiste campos descriptivos y umbrales; nunca code ni current_quantity.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock fija current_quantity; si countMovement suma 1 a total_movements.
	UpdateStock(ctx context.Context, productID string, quantity decimal.Decimal, countMovement bool, at time.Time) error
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	// NextCodeNumber avanza el contador de códigos sugeridos.
	NextCodeNumber(ctx context.Context) (int64, error)
}
