package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementRepository implementación en memoria de repository.MovementRepository.
type MovementRepository struct {
	s *Store
}

func (r *MovementRepository) Create(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("movements.Create"); err != nil {
		return err
	}
	r.s.seq++
	r.s.movements[m.ID] = *m
	r.s.movSeq[m.ID] = r.s.seq
	return nil
}

func (r *MovementRepository) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("movements.GetByID"); err != nil {
		return nil, err
	}
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MovementRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepository) MarkReverted(_ context.Context, id, reversedBy, reason string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("movements.MarkReverted"); err != nil {
		return err
	}
	m, ok := r.s.movements[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Reverted = true
	m.ReversedBy = reversedBy
	m.ReversedAt = &at
	m.ReversionReason = reason
	r.s.movements[id] = m
	return nil
}

func (r *MovementRepository) List(_ context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("movements.List"); err != nil {
		return nil, err
	}
	out := make([]*entity.Movement, 0)
	for _, m := range r.s.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Timestamp.After(*f.To) {
			continue
		}
		item := m
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return r.newer(out[i], out[j]) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MovementRepository) LatestQuantities(_ context.Context) (map[string]decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("movements.LatestQuantities"); err != nil {
		return nil, err
	}
	latest := make(map[string]*entity.Movement)
	for id := range r.s.movements {
		m := r.s.movements[id]
		if cur, ok := latest[m.ProductID]; !ok || r.newer(&m, cur) {
			latest[m.ProductID] = &m
		}
	}
	out := make(map[string]decimal.Decimal, len(latest))
	for pid, m := range latest {
		out[pid] = m.NewQuantity
	}
	return out, nil
}

// newer orden descendente por timestamp; empate por orden de inserción.
func (r *MovementRepository) newer(a, b *entity.Movement) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return r.s.movSeq[a.ID] > r.s.movSeq[b.ID]
}
