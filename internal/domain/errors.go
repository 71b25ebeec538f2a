package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicateCode     = errors.New("el código de producto ya existe")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidState      = errors.New("el movimiento no admite reversión")
	ErrConflict          = errors.New("el stock cambió desde la última lectura")
	ErrStoreUnavailable  = errors.New("almacenamiento no disponible")
	ErrInvalidInput      = errors.New("entrada inválida")

	ErrIdempotencyMismatch = errors.New("la Idempotency-Key ya se usó con otra petición")

	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)
