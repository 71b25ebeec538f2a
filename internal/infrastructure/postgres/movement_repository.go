package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, product_code, product_description, type, previous_quantity, new_quantity,
	quantity, reason, reference, user_id, user_name, timestamp, reverted,
	COALESCE(reversed_by, ''), reversed_at, COALESCE(reversion_reason, ''), COALESCE(original_movement_id::text, '')`

// movementOrder desempata por seq (orden de inserción); los UUID no son monótonos.
const movementOrder = "timestamp DESC, seq DESC"

// MovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.ProductCode, &m.ProductDescription, &m.Type,
		&m.PreviousQuantity, &m.NewQuantity, &m.Quantity, &m.Reason, &m.Reference,
		&m.UserID, &m.UserName, &m.Timestamp, &m.Reverted,
		&m.ReversedBy, &m.ReversedAt, &m.ReversionReason, &m.OriginalMovementID,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta un movimiento (append-only).
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, product_code, product_description, type, previous_quantity, new_quantity,
			quantity, reason, reference, user_id, user_name, timestamp, reverted, original_movement_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.ProductCode, m.ProductDescription, m.Type, m.PreviousQuantity, m.NewQuantity,
		m.Quantity, m.Reason, m.Reference, m.UserID, m.UserName, m.Timestamp, m.Reverted,
		nullIfEmpty(m.OriginalMovementID),
	)
	if err != nil {
		return storeErr("insert movement", err)
	}
	return nil
}

func (r *MovementRepo) getOne(ctx context.Context, query, id string) (*entity.Movement, error) {
	if !isUUID(id) {
		return nil, nil
	}
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get movement", err)
	}
	return m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el movimiento bloqueando su fila (dos reversiones simultáneas se serializan).
func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1 FOR UPDATE`, id)
}

// MarkReverted fija los campos de reversión; solo aplica si aún no estaba revertido.
func (r *MovementRepo) MarkReverted(ctx context.Context, id, reversedBy, reason string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE movements SET reverted = TRUE, reversed_by = $2, reversed_at = $3, reversion_reason = $4
		WHERE id = $1 AND reverted = FALSE`,
		id, reversedBy, at, reason,
	)
	if err != nil {
		return storeErr("mark movement reverted", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// List movimientos filtrados, timestamp descendente.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	if f.ProductID != "" && !isUUID(f.ProductID) {
		return []*entity.Movement{}, nil
	}
	query, args := movementListQuery(f)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list movements", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, storeErr("scan movement", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list movements", err)
	}
	return list, nil
}

// LatestQuantities new_quantity del último movimiento de cada producto.
func (r *MovementRepo) LatestQuantities(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT ON (product_id) product_id::text, new_quantity
		FROM movements
		ORDER BY product_id, `+movementOrder)
	if err != nil {
		return nil, storeErr("latest quantities", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var qty decimal.Decimal
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, storeErr("scan latest quantity", err)
		}
		out[id] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("latest quantities", err)
	}
	return out, nil
}

// movementListQuery arma el SELECT filtrado de List.
func movementListQuery(f entity.MovementFilter) (string, []any) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND timestamp <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += " ORDER BY " + movementOrder
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
	}
	return query, args
}
