package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Prefijo de los códigos sugeridos por NextCode.
const suggestedCodePrefix = "PROD-"

// ProductUseCase casos de uso CRUD para productos. El stock solo se mueve vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// Create crea un nuevo producto. ErrDuplicateCode si el código (sin espacios) ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	return uc.create(ctx, actor, in, false)
}

// CreateImported igual que Create pero marca el producto como importado desde Excel.
func (uc *ProductUseCase) CreateImported(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	return uc.create(ctx, actor, in, true)
}

func (uc *ProductUseCase) create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest, imported bool) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	description := strings.TrimSpace(in.Description)
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if in.CurrentQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: la cantidad inicial no puede ser negativa", domain.ErrInvalidInput)
	}
	if err := inventory.ValidateMagnitude("current_quantity", in.CurrentQuantity); err != nil {
		return nil, err
	}
	minQty, err := thresholdFromPtr("min_quantity", in.MinQuantity)
	if err != nil {
		return nil, err
	}
	maxQty, err := thresholdFromPtr("max_quantity", in.MaxQuantity)
	if err != nil {
		return nil, err
	}
	if err := validateRange(minQty, maxQty); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}

	now := uc.now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		Code:              code,
		Description:       description,
		Unit:              defaultString(in.Unit, entity.DefaultUnit),
		Department:        defaultString(in.Department, entity.DefaultDepartment),
		CurrentQuantity:   in.CurrentQuantity,
		MinQuantity:       minQty,
		MaxQuantity:       maxQty,
		ImportedFromExcel: imported,
		CreatedBy:         actor.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID o ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// Update actualiza campos descriptivos y umbrales. No permite modificar el código ni el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if err := validateDescription(d); err != nil {
			return nil, err
		}
		product.Description = d
	}
	if in.Unit != nil {
		product.Unit = defaultString(*in.Unit, entity.DefaultUnit)
	}
	if in.Department != nil {
		product.Department = defaultString(*in.Department, entity.DefaultDepartment)
	}
	if in.MinQuantity.Set {
		if err := nonNegative("min_quantity", in.MinQuantity.Value); err != nil {
			return nil, err
		}
		product.MinQuantity = in.MinQuantity.Value
	}
	if in.MaxQuantity.Set {
		if err := nonNegative("max_quantity", in.MaxQuantity.Value); err != nil {
			return nil, err
		}
		product.MaxQuantity = in.MaxQuantity.Value
	}
	if err := validateRange(product.MinQuantity, product.MaxQuantity); err != nil {
		return nil, err
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List devuelve todos los productos que cumplen el filtro, ordenados por código.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, entity.ProductFilter{
		Code:              strings.TrimSpace(q.Code),
		CodePrefix:        strings.TrimSpace(q.CodePrefix),
		DescriptionPrefix: q.Description,
		Department:        strings.TrimSpace(q.Department),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Delete elimina un producto. Sus movimientos se conservan.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// ExistsByCode indica si hay un producto con ese código (sin espacios, sensible a mayúsculas).
func (uc *ProductUseCase) ExistsByCode(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}
	p, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// NextCode sugiere el siguiente código libre con formato PROD-<n>.
// Salta números ya usados manualmente.
func (uc *ProductUseCase) NextCode(ctx context.Context) (string, error) {
	for i := 0; i < 100; i++ {
		n, err := uc.repo.NextCodeNumber(ctx)
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("%s%d", suggestedCodePrefix, n)
		exists, err := uc.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("next code: no se encontró un código libre")
}

func validateCode(code string) error {
	if n := utf8.RuneCountInString(code); n < 1 || n > 50 {
		return fmt.Errorf("%w: el código debe tener entre 1 y 50 caracteres", domain.ErrInvalidInput)
	}
	return nil
}

func validateDescription(d string) error {
	if n := utf8.RuneCountInString(d); n < 3 || n > 500 {
		return fmt.Errorf("%w: la descripción debe tener entre 3 y 500 caracteres", domain.ErrInvalidInput)
	}
	return nil
}

func thresholdFromPtr(field string, v *decimal.Decimal) (decimal.NullDecimal, error) {
	if v == nil {
		return decimal.NullDecimal{}, nil
	}
	nd := decimal.NewNullDecimal(*v)
	return nd, nonNegative(field, nd)
}

func nonNegative(field string, v decimal.NullDecimal) error {
	if !v.Valid {
		return nil
	}
	if v.Decimal.IsNegative() {
		return fmt.Errorf("%w: %s no puede ser negativo", domain.ErrInvalidInput, field)
	}
	return inventory.ValidateMagnitude(field, v.Decimal)
}

// validateRange exige max > min cuando ambos están definidos.
func validateRange(minQty, maxQty decimal.NullDecimal) error {
	if minQty.Valid && maxQty.Valid && !maxQty.Decimal.GreaterThan(minQty.Decimal) {
		return fmt.Errorf("%w: max_quantity debe ser mayor que min_quantity", domain.ErrInvalidInput)
	}
	return nil
}

func defaultString(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:                p.ID,
		Code:              p.Code,
		Description:       p.Description,
		Unit:              p.Unit,
		Department:        p.Department,
		CurrentQuantity:   p.CurrentQuantity,
		TotalMovements:    p.TotalMovements,
		ImportedFromExcel: p.ImportedFromExcel,
		LowStock:          p.IsLowStock(),
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.MinQuantity.Valid {
		v := p.MinQuantity.Decimal
		out.MinQuantity = &v
	}
	if p.MaxQuantity.Valid {
		v := p.MaxQuantity.Decimal
		out.MaxQuantity = &v
	}
	return out
}
