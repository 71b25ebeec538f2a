package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, description, unit, department, current_quantity, min_quantity, max_quantity,
	total_movements, imported_from_excel, created_by, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Description, &p.Unit, &p.Department, &p.CurrentQuantity,
		&p.MinQuantity, &p.MaxQuantity, &p.TotalMovements, &p.ImportedFromExcel,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. El índice único de code se traduce a ErrDuplicateCode.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Description, p.Unit, p.Department, p.CurrentQuantity,
		p.MinQuantity, p.MaxQuantity, p.TotalMovements, p.ImportedFromExcel,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return storeErr("insert product", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(op, err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el producto y bloquea su fila hasta el fin de la tx.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "lock product", `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// GetByCode obtiene un producto por código exacto.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by code", `SELECT `+productColumns+` FROM products WHERE code = $1`, code)
}

// Update actualiza descripción, clasificación y umbrales. No toca code ni current_quantity.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	if !isUUID(p.ID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE products SET description = $2, unit = $3, department = $4, min_quantity = $5, max_quantity = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.Description, p.Unit, p.Department, p.MinQuantity, p.MaxQuantity, p.UpdatedAt)
	if err != nil {
		return storeErr("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el stock (usado solo por el registrador de movimientos).
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, quantity decimal.Decimal, countMovement bool, at time.Time) error {
	if !isUUID(productID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE products
		SET current_quantity = $2,
		    total_movements = total_movements + CASE WHEN $3 THEN 1 ELSE 0 END,
		    updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, productID, quantity, countMovement, at)
	if err != nil {
		return storeErr("update product stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con filtros de igualdad/prefijo, ordenados por código.
func (r *ProductRepo) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	pos := 1
	if f.Code != "" {
		query += fmt.Sprintf(" AND code = $%d", pos)
		args = append(args, f.Code)
		pos++
	}
	if f.CodePrefix != "" {
		query += fmt.Sprintf(" AND code LIKE $%d", pos)
		args = append(args, likePrefix(f.CodePrefix))
		pos++
	}
	if f.DescriptionPrefix != "" {
		query += fmt.Sprintf(" AND description LIKE $%d", pos)
		args = append(args, likePrefix(f.DescriptionPrefix))
		pos++
	}
	if f.Department != "" {
		query += fmt.Sprintf(" AND department = $%d", pos)
		args = append(args, f.Department)
	}
	query += " ORDER BY code"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list products", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, storeErr("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list products", err)
	}
	return list, nil
}

// Delete elimina un producto por ID. Los movimientos quedan (referencia blanda).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextCodeNumber avanza product_code_seq.
func (r *ProductRepo) NextCodeNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('product_code_seq')`).Scan(&n); err != nil {
		return 0, storeErr("next product code", err)
	}
	return n, nil
}

// likePrefix escapa comodines de LIKE y agrega "%".
func likePrefix(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s) + "%"
}
