package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}

func TestStoreErr(t *testing.T) {
	cause := errors.New("connection refused")
	err := storeErr("insert product", cause)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)

	err = storeErr("list", context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", *nullIfEmpty("x"))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("5f0c2a8e-6f0e-4c4e-9a57-1d3c1b2a9e10"))
	assert.False(t, isUUID("nope"))
	assert.False(t, isUUID(""))
}

func TestLikePrefix_EscapaComodines(t *testing.T) {
	assert.Equal(t, "PROD%", likePrefix("PROD"))
	assert.Equal(t, `10\%\_x\\%`, likePrefix(`10%_x\`))
}
