package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	s *Store
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("products.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.products {
		if existing.Code == p.Code {
			return domain.ErrDuplicateCode
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("products.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("products.GetByCode"); err != nil {
		return nil, err
	}
	for _, p := range r.s.products {
		if p.Code == code {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("products.Update"); err != nil {
		return err
	}
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Description = p.Description
	cur.Unit = p.Unit
	cur.Department = p.Department
	cur.MinQuantity = p.MinQuantity
	cur.MaxQuantity = p.MaxQuantity
	cur.UpdatedAt = p.UpdatedAt
	r.s.products[p.ID] = cur
	return nil
}

func (r *ProductRepository) UpdateStock(_ context.Context, productID string, quantity decimal.Decimal, countMovement bool, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("products.UpdateStock"); err != nil {
		return err
	}
	cur, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.CurrentQuantity = quantity
	if countMovement {
		cur.TotalMovements++
	}
	cur.UpdatedAt = at
	r.s.products[productID] = cur
	return nil
}

func (r *ProductRepository) List(_ context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("products.List"); err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if f.Code != "" && p.Code != f.Code {
			continue
		}
		if f.CodePrefix != "" && !strings.HasPrefix(p.Code, f.CodePrefix) {
			continue
		}
		if f.DescriptionPrefix != "" && !strings.HasPrefix(p.Description, f.DescriptionPrefix) {
			continue
		}
		if f.Department != "" && p.Department != f.Department {
			continue
		}
		item := p
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("products.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) NextCodeNumber(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.codeSeq++
	return r.s.codeSeq, nil
}
