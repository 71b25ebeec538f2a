package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Límite por defecto de GET /api/movements.
const defaultMovementLimit = 200

// IdempotencyStore recuerda el movimiento creado por cada Idempotency-Key.
// scope es el usuario; fingerprint identifica el cuerpo de la petición.
type IdempotencyStore interface {
	Begin(ctx context.Context, scope, key, fingerprint string) (movementID string, acquired bool, err error)
	Complete(ctx context.Context, scope, key, fingerprint, movementID string) error
	Release(ctx context.Context, scope, key string) error
}

// InventoryHandler maneja movimientos, alertas y conciliación (protegido).
type InventoryHandler struct {
	uc     *inventory.MovementUseCase
	alerts *inventory.AlertsUseCase
	idem   IdempotencyStore
	log    *logger.Logger
}

// NewInventoryHandler construye el handler. idem puede ser nil (sin deduplicación).
func NewInventoryHandler(uc *inventory.MovementUseCase, alerts *inventory.AlertsUseCase, idem IdempotencyStore, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &InventoryHandler{uc: uc, alerts: alerts, idem: idem, log: log.Component("http_inventory")}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento (entrada, salida o ajuste)
// @Description  Con Idempotency-Key, un reintento devuelve el movimiento ya creado en lugar de aplicarlo otra vez.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave única del intento"
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Success      200   {object}  dto.MovementResponse  "reintento con la misma Idempotency-Key"
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse  "Idempotency-Key reutilizada con otro cuerpo"
// @Router       /api/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	key := strings.TrimSpace(c.Get("Idempotency-Key"))
	if key == "" || h.idem == nil {
		out, err := h.uc.ApplyFromRequest(c.Context(), GetActor(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}

	key = strings.Clone(key)
	ctx := c.Context()
	actor := GetActor(c)
	fingerprint, err := requestFingerprint(in)
	if err != nil {
		return respondError(c, err)
	}
	movementID, acquired, err := h.idem.Begin(ctx, actor.UserID, key, fingerprint)
	if err != nil {
		return respondError(c, err)
	}
	if !acquired {
		if movementID == "" {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "otra petición con la misma Idempotency-Key está en curso"})
		}
		mov, err := h.uc.GetByID(ctx, movementID)
		if err != nil {
			return respondError(c, err)
		}
		c.Set("Idempotent-Replayed", "true")
		return c.JSON(inventory.ToMovementResponse(mov))
	}

	out, err := h.uc.ApplyFromRequest(ctx, actor, in)
	if err != nil {
		if relErr := h.idem.Release(ctx, actor.UserID, key); relErr != nil {
			h.log.Warn().Err(relErr).Str("key", key).Msg("no se pudo liberar la Idempotency-Key")
		}
		return respondError(c, err)
	}
	if err := h.idem.Complete(ctx, actor.UserID, key, fingerprint, out.ID); err != nil {
		// El movimiento ya quedó registrado; solo se pierde la deduplicación.
		h.log.Warn().Err(err).Str("key", key).Str("movement_id", out.ID).Msg("no se pudo guardar la Idempotency-Key")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// requestFingerprint SHA-256 del cuerpo ya decodificado; campos equivalentes dan la misma huella.
func requestFingerprint(in dto.RegisterMovementRequest) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// QuickAdjust godoc
// @Summary      Ajuste rápido
// @Description  delta "+N" registra entrada, "-N" salida y "N" fija el stock (ajuste).
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuickAdjustRequest  true  "product_id, delta"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/quick [post]
func (h *InventoryHandler) QuickAdjust(c *fiber.Ctx) error {
	var in dto.QuickAdjustRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.QuickAdjustFromRequest(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Reverse godoc
// @Summary      Revertir movimiento
// @Description  Restaura el stock previo y registra un movimiento de tipo reversion.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.ReverseMovementRequest  true  "reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/reverse [post]
func (h *InventoryHandler) Reverse(c *fiber.Ctx) error {
	var in dto.ReverseMovementRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	mov, err := h.uc.Reverse(c.Context(), GetActor(c), param(c, "id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	mov, err := h.uc.GetByID(c.Context(), param(c, "id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to     query  string  false  "Hasta (YYYY-MM-DD incluye el día completo)"
// @Param        type   query  string  false  "entrada | salida | ajuste | reversion"
// @Param        limit  query  int     false  "Máximo de resultados" default(200)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	filter := entity.MovementFilter{Type: q.Type, Limit: q.Limit}
	if filter.Limit == 0 {
		filter.Limit = defaultMovementLimit
	}
	var err error
	if filter.From, err = parseTimeParam(q.From, false); err != nil {
		return respondError(c, err)
	}
	if filter.To, err = parseTimeParam(q.To, true); err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToMovementList(list))
}

// ProductHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ProductHistory(c *fiber.Ctx) error {
	list, err := h.uc.History(c.Context(), param(c, "id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToMovementList(list))
}

// Alerts godoc
// @Summary      Alertas de stock
// @Description  Stock bajo, por agotarse y en exceso, con cantidad sugerida de pedido.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockAlertsResponse
// @Router       /api/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.alerts.GenerateAlerts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar stock contra el ledger
// @Description  Lista productos cuyo stock difiere del new_quantity de su último movimiento.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/reports/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	res, err := h.uc.Reconcile(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToReconcileResponse(res))
}

// parseTimeParam acepta RFC3339 o YYYY-MM-DD. endOfDay extiende una fecha sola hasta 23:59:59.
func parseTimeParam(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (use YYYY-MM-DD o RFC3339)", domain.ErrInvalidInput, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
