package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

const (
	keyPrefix     = "almacen:idem:"
	pendingMarker = "__pending__"
	// DefaultTTL tiempo que se recuerda una clave de idempotencia.
	DefaultTTL = 24 * time.Hour
	// MaxKeyLength largo máximo aceptado para Idempotency-Key.
	MaxKeyLength = 255
)

// IdempotencyStore recuerda qué movimiento produjo cada Idempotency-Key.
// Las claves se guardan por usuario (scope) junto a la huella del cuerpo de la petición:
// la misma clave con otro cuerpo es un error, no una repetición.
// Begin reserva la clave con SETNX; Complete guarda el ID del movimiento; Release la libera si falló.
type IdempotencyStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewIdempotencyStore construye el store. ttl <= 0 usa DefaultTTL.
func NewIdempotencyStore(client goredis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Begin intenta reservar la clave de scope.
// acquired=true: el llamador debe ejecutar la operación y luego Complete o Release.
// acquired=false y movementID != "": la operación ya se hizo, devolver ese movimiento.
// acquired=false y movementID == "": otra petición con la misma clave sigue en curso.
// Si la clave ya existe con otra huella devuelve domain.ErrIdempotencyMismatch.
func (s *IdempotencyStore) Begin(ctx context.Context, scope, key, fingerprint string) (movementID string, acquired bool, err error) {
	k, err := redisKey(scope, key)
	if err != nil {
		return "", false, err
	}
	// Dos intentos: la clave puede expirar entre SETNX y GET.
	for i := 0; i < 2; i++ {
		ok, err := s.client.SetNX(ctx, k, encodeValue(fingerprint, pendingMarker), s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency begin: %w: %w", domain.ErrStoreUnavailable, err)
		}
		if ok {
			return "", true, nil
		}
		val, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency get: %w: %w", domain.ErrStoreUnavailable, err)
		}
		stored, id := decodeValue(val)
		if stored != fingerprint {
			return "", false, domain.ErrIdempotencyMismatch
		}
		if id == pendingMarker {
			return "", false, nil
		}
		return id, false, nil
	}
	return "", false, nil
}

// Complete asocia la clave al movimiento creado, renovando el TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key, fingerprint, movementID string) error {
	k, err := redisKey(scope, key)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, k, encodeValue(fingerprint, movementID), s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Release borra la reserva para permitir reintentos con la misma clave.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	k, err := redisKey(scope, key)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Formato del valor: <huella>|<id de movimiento o marcador>.
func encodeValue(fingerprint, id string) string {
	return fingerprint + "|" + id
}

func decodeValue(val string) (fingerprint, id string) {
	fingerprint, id, ok := strings.Cut(val, "|")
	if !ok {
		return "", val
	}
	return fingerprint, id
}

func redisKey(scope, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > MaxKeyLength {
		return "", fmt.Errorf("%w: Idempotency-Key inválida", domain.ErrInvalidInput)
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return "", fmt.Errorf("%w: Idempotency-Key sin usuario", domain.ErrInvalidInput)
	}
	return keyPrefix + scope + ":" + key, nil
}
