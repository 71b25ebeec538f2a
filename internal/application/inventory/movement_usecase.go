package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ReversionReasonPrefix antepuesto al motivo de cada movimiento de reversión.
const ReversionReasonPrefix = "Reversión: "

// QuickAdjustDefaultReason motivo cuando el ajuste rápido llega sin motivo.
const QuickAdjustDefaultReason = "Ajuste rápido"

// MovementUseCase registra movimientos de inventario de forma transaccional
// (entrada, salida, ajuste, reversión) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type MovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	log *logger.Logger,
) *MovementUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &MovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		log:         log.Component("movements"),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *MovementUseCase) WithClock(now func() time.Time) *MovementUseCase {
	uc.now = now
	return uc
}

// ApplyInput entrada para registrar un movimiento.
// ExpectedPreviousQuantity, si viene, debe coincidir con el stock actual (ErrConflict si no).
type ApplyInput struct {
	ProductID                string
	Type                     string
	Quantity                 decimal.Decimal
	Reason                   string
	Reference                string
	ExpectedPreviousQuantity *decimal.Decimal
}

// Apply valida, bloquea el producto, calcula el nuevo saldo y persiste producto + movimiento en una sola tx.
func (uc *MovementUseCase) Apply(ctx context.Context, actor entity.Actor, in ApplyInput) (*entity.Movement, error) {
	if err := validateApply(actor, in); err != nil {
		uc.reject("apply", err)
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)

	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		previous := product.CurrentQuantity
		if in.ExpectedPreviousQuantity != nil && !in.ExpectedPreviousQuantity.Equal(previous) {
			return domain.ErrConflict
		}
		next, err := inventory.NextBalance(in.Type, previous, in.Quantity)
		if err != nil {
			return err
		}

		now := uc.now()
		if err := productRepo.UpdateStock(ctx, product.ID, next, true, now); err != nil {
			return err
		}
		mov = &entity.Movement{
			ID:                 uuid.New().String(),
			ProductID:          product.ID,
			ProductCode:        product.Code,
			ProductDescription: product.Description,
			Type:               in.Type,
			PreviousQuantity:   previous,
			NewQuantity:        next,
			Quantity:           decimal.NewNullDecimal(in.Quantity),
			Reason:             reason,
			Reference:          strings.TrimSpace(in.Reference),
			UserID:             actor.UserID,
			UserName:           actor.Name,
			Timestamp:          now,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		uc.reject("apply", err)
		return nil, err
	}

	movementsRecorded.WithLabelValues(mov.Type).Inc()
	uc.log.ForUser(actor.UserID, actor.Role).Info().
		Str("movement_id", mov.ID).
		Str("product_code", mov.ProductCode).
		Str("type", mov.Type).
		Str("previous", mov.PreviousQuantity.String()).
		Str("new", mov.NewQuantity.String()).
		Msg("movimiento registrado")
	return mov, nil
}

func validateApply(actor entity.Actor, in ApplyInput) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return fmt.Errorf("%w: producto requerido", domain.ErrInvalidInput)
	}
	if !entity.IsApplicableMovementType(in.Type) {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if err := inventory.ValidateQuantity(in.Type, in.Quantity); err != nil {
		return err
	}
	if strings.TrimSpace(in.Reason) == "" {
		return fmt.Errorf("%w: el motivo es obligatorio", domain.ErrInvalidInput)
	}
	return nil
}

// QuickAdjust interpreta "+N" (entrada), "-N" (salida) o "N" (ajuste) y delega en Apply.
func (uc *MovementUseCase) QuickAdjust(ctx context.Context, actor entity.Actor, productID, delta, reason, reference string) (*entity.Movement, error) {
	movType, qty, err := inventory.ParseDelta(delta)
	if err != nil {
		uc.reject("quick_adjust", err)
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		reason = QuickAdjustDefaultReason
	}
	return uc.Apply(ctx, actor, ApplyInput{
		ProductID: productID,
		Type:      movType,
		Quantity:  qty,
		Reason:    reason,
		Reference: reference,
	})
}

// Reverse compensa un movimiento: el producto vuelve al saldo previo del original,
// se inserta una fila "reversion" y el original queda marcado como revertido. Todo en una tx.
func (uc *MovementUseCase) Reverse(ctx context.Context, actor entity.Actor, movementID, reason string) (*entity.Movement, error) {
	reason = strings.TrimSpace(reason)
	switch {
	case actor.UserID == "":
		return nil, domain.ErrUnauthorized
	case strings.TrimSpace(movementID) == "":
		return nil, fmt.Errorf("%w: movimiento requerido", domain.ErrInvalidInput)
	case reason == "":
		err := fmt.Errorf("%w: el motivo de reversión es obligatorio", domain.ErrInvalidInput)
		uc.reject("reverse", err)
		return nil, err
	}

	var rev *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		target, err := movRepo.GetByIDForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.ErrNotFound
		}
		if !target.CanBeReversed() {
			return domain.ErrInvalidState
		}
		product, err := productRepo.GetByIDForUpdate(ctx, target.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			// Referencia blanda: el producto fue eliminado, no hay saldo que restaurar.
			return fmt.Errorf("%w: el producto del movimiento ya no existe", domain.ErrNotFound)
		}

		now := uc.now()
		if err := productRepo.UpdateStock(ctx, product.ID, target.PreviousQuantity, false, now); err != nil {
			return err
		}
		rev = &entity.Movement{
			ID:                 uuid.New().String(),
			ProductID:          product.ID,
			ProductCode:        product.Code,
			ProductDescription: product.Description,
			Type:               entity.MovementTypeReversion,
			PreviousQuantity:   target.NewQuantity,
			NewQuantity:        target.PreviousQuantity,
			Reason:             ReversionReasonPrefix + reason,
			Reference:          target.Reference,
			UserID:             actor.UserID,
			UserName:           actor.Name,
			Timestamp:          now,
			OriginalMovementID: target.ID,
		}
		if err := movRepo.Create(ctx, rev); err != nil {
			return err
		}
		return movRepo.MarkReverted(ctx, target.ID, actor.UserID, reason, now)
	})
	if err != nil {
		uc.reject("reverse", err)
		return nil, err
	}

	movementsRecorded.WithLabelValues(entity.MovementTypeReversion).Inc()
	uc.log.ForUser(actor.UserID, actor.Role).Info().
		Str("movement_id", rev.ID).
		Str("original_movement_id", movementID).
		Str("product_code", rev.ProductCode).
		Str("restored", rev.NewQuantity.String()).
		Msg("movimiento revertido")
	return rev, nil
}

// GetByID devuelve un movimiento o ErrNotFound.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// History movimientos de un producto, más reciente primero.
// El producto puede no existir ya: el historial se conserva.
func (uc *MovementUseCase) History(ctx context.Context, productID string) ([]*entity.Movement, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: producto requerido", domain.ErrInvalidInput)
	}
	return uc.movRepo.List(ctx, entity.MovementFilter{ProductID: productID})
}

// List movimientos filtrados por rango y tipo, más reciente primero.
func (uc *MovementUseCase) List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	if filter.Type != "" && filter.Type != entity.MovementTypeReversion && !entity.IsApplicableMovementType(filter.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, filter.Type)
	}
	return uc.movRepo.List(ctx, filter)
}

// Mismatch producto cuyo stock no coincide con el new_quantity de su último movimiento.
type Mismatch struct {
	ProductID       string
	Code            string
	CurrentQuantity decimal.Decimal
	LedgerQuantity  decimal.Decimal
}

// Difference stock actual menos saldo del ledger.
func (m Mismatch) Difference() decimal.Decimal {
	return m.CurrentQuantity.Sub(m.LedgerQuantity)
}

// ReconcileResult resultado de la auditoría de saldos.
type ReconcileResult struct {
	Checked    int
	Mismatches []Mismatch
}

// Reconcile compara el stock de cada producto con el último movimiento de su ledger.
// Productos sin movimientos conservan su valor de creación y no se comparan.
func (uc *MovementUseCase) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	products, err := uc.productRepo.List(ctx, entity.ProductFilter{})
	if err != nil {
		return nil, err
	}
	latest, err := uc.movRepo.LatestQuantities(ctx)
	if err != nil {
		return nil, err
	}
	res := &ReconcileResult{Mismatches: []Mismatch{}}
	for _, p := range products {
		ledger, ok := latest[p.ID]
		if !ok {
			continue
		}
		res.Checked++
		if !ledger.Equal(p.CurrentQuantity) {
			res.Mismatches = append(res.Mismatches, Mismatch{
				ProductID:       p.ID,
				Code:            p.Code,
				CurrentQuantity: p.CurrentQuantity,
				LedgerQuantity:  ledger,
			})
		}
	}
	sort.Slice(res.Mismatches, func(i, j int) bool { return res.Mismatches[i].Code < res.Mismatches[j].Code })
	if len(res.Mismatches) > 0 {
		uc.log.Warn().Int("mismatches", len(res.Mismatches)).Msg("saldos desalineados con el ledger")
	}
	return res, nil
}

func (uc *MovementUseCase) reject(op string, err error) {
	movementsRejected.WithLabelValues(op, rejectReason(err)).Inc()
	if errors.Is(err, domain.ErrStoreUnavailable) {
		uc.log.Error().Err(err).Str("operation", op).Msg("fallo de almacenamiento en el ledger")
		return
	}
	uc.log.Debug().Err(err).Str("operation", op).Msg("operación rechazada")
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "other"
	}
}
