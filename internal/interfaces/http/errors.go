package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/pkg/validator"
)

// respondError traduce los errores de dominio a status HTTP + dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusNotFound, "USER_NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateCode):
		status, code = fiber.StatusConflict, "DUPLICATE_CODE"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code = fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidState):
		status, code = fiber.StatusConflict, "INVALID_STATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrIdempotencyMismatch):
		status, code = fiber.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrStoreUnavailable):
		status, code, msg = fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE", domain.ErrStoreUnavailable.Error()
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func validationFailed(c *fiber.Ctx, errs []validator.FieldError) error {
	fields := make([]dto.FieldError, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, dto.FieldError{Field: e.Field, Rule: e.Tag})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
		Code:    "VALIDATION",
		Message: validator.Message(errs),
		Fields:  fields,
	})
}

// bindJSON parsea el body y aplica los tags validate. ok=false: la respuesta ya fue escrita.
func bindJSON(c *fiber.Ctx, in interface{}) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.Struct(in); len(errs) > 0 {
		return false, validationFailed(c, errs)
	}
	return true, nil
}

// bindQuery igual que bindJSON para query params.
func bindQuery(c *fiber.Ctx, in interface{}) (bool, error) {
	if err := c.QueryParser(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if errs := validator.Struct(in); len(errs) > 0 {
		return false, validationFailed(c, errs)
	}
	return true, nil
}

// param copia el path param; Fiber reutiliza el buffer de la petición.
func param(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}

func query(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Query(name))
}
