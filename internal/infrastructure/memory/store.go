// Package memory implementa los puertos de repositorio en memoria.
// Lo usan los tests de casos de uso y handlers; no persiste nada.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	txMu sync.Mutex // serializa transacciones, equivalente al FOR UPDATE
	mu   sync.Mutex

	products  map[string]entity.Product
	movements map[string]entity.Movement
	movSeq    map[string]int64
	users     map[string]entity.User
	seq       int64
	codeSeq   int64

	failures map[string]error
}

// NewStore crea un store vacío. El contador de códigos arranca en 1001.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]entity.Product),
		movements: make(map[string]entity.Movement),
		movSeq:    make(map[string]int64),
		users:     make(map[string]entity.User),
		codeSeq:   1000,
		failures:  make(map[string]error),
	}
}

// FailOn hace que la operación op ("products.UpdateStock", "movements.Create", ...) devuelva err
// hasta que se llame ClearFailures.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures elimina los errores inyectados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]error)
}

func (s *Store) failure(op string) error {
	return s.failures[op]
}

// Products repositorio de productos sobre el store.
func (s *Store) Products() repository.ProductRepository { return &ProductRepository{s: s} }

// Movements repositorio de movimientos sobre el store.
func (s *Store) Movements() repository.MovementRepository { return &MovementRepository{s: s} }

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() repository.UserRepository { return &UserRepository{s: s} }

type snapshot struct {
	products  map[string]entity.Product
	movements map[string]entity.Movement
	movSeq    map[string]int64
	seq       int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products:  make(map[string]entity.Product, len(s.products)),
		movements: make(map[string]entity.Movement, len(s.movements)),
		movSeq:    make(map[string]int64, len(s.movSeq)),
		seq:       s.seq,
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.movements {
		snap.movements[k] = v
	}
	for k, v := range s.movSeq {
		snap.movSeq[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.movements = snap.movements
	s.movSeq = snap.movSeq
	s.seq = snap.seq
}

// Run ejecuta fn de forma atómica: si devuelve error se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	if err := fn(ctx, s.Movements(), s.Products()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}
