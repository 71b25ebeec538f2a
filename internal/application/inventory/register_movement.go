package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ApplyFromRequest adapta el request HTTP al caso de uso Apply(ctx, actor, ApplyInput).
func (uc *MovementUseCase) ApplyFromRequest(ctx context.Context, actor entity.Actor, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.Apply(ctx, actor, ApplyInput{
		ProductID:                strings.TrimSpace(in.ProductID),
		Type:                     in.Type,
		Quantity:                 in.Quantity,
		Reason:                   in.Reason,
		Reference:                in.Reference,
		ExpectedPreviousQuantity: in.ExpectedPreviousQuantity,
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// QuickAdjustFromRequest adapta POST /api/movements/quick.
func (uc *MovementUseCase) QuickAdjustFromRequest(ctx context.Context, actor entity.Actor, in dto.QuickAdjustRequest) (*dto.MovementResponse, error) {
	mov, err := uc.QuickAdjust(ctx, actor, strings.TrimSpace(in.ProductID), in.Delta, in.Reason, in.Reference)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	out := &dto.MovementResponse{
		ID:                 m.ID,
		ProductID:          m.ProductID,
		ProductCode:        m.ProductCode,
		ProductDescription: m.ProductDescription,
		Type:               m.Type,
		PreviousQuantity:   m.PreviousQuantity,
		NewQuantity:        m.NewQuantity,
		Delta:              m.Delta(),
		Reason:             m.Reason,
		Reference:          m.Reference,
		UserID:             m.UserID,
		UserName:           m.UserName,
		Timestamp:          m.Timestamp,
		Reverted:           m.Reverted,
		ReversedBy:         m.ReversedBy,
		ReversedAt:         m.ReversedAt,
		ReversionReason:    m.ReversionReason,
		OriginalMovementID: m.OriginalMovementID,
	}
	if m.Quantity.Valid {
		q := m.Quantity.Decimal
		out.Quantity = &q
	}
	return out
}

// ToMovementList mapea una lista de movimientos.
func ToMovementList(items []*entity.Movement) *dto.MovementListResponse {
	out := &dto.MovementListResponse{Items: make([]dto.MovementResponse, 0, len(items)), Total: len(items)}
	for _, m := range items {
		out.Items = append(out.Items, *ToMovementResponse(m))
	}
	return out
}

// ToReconcileResponse mapea el resultado de Reconcile.
func ToReconcileResponse(r *ReconcileResult) *dto.ReconcileResponse {
	out := &dto.ReconcileResponse{CheckedProducts: r.Checked, Mismatches: make([]dto.ReconcileItemDTO, 0, len(r.Mismatches))}
	for _, m := range r.Mismatches {
		out.Mismatches = append(out.Mismatches, dto.ReconcileItemDTO{
			ProductID:       m.ProductID,
			Code:            m.Code,
			CurrentQuantity: m.CurrentQuantity,
			LedgerQuantity:  m.LedgerQuantity,
			Difference:      m.Difference(),
		})
	}
	return out
}
