package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth() *auth.AuthUseCase {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "almacen-test"}).
		WithBcryptCost(bcrypt.MinCost)
}

func TestRegisterYLogin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Ana@Almacen.mx", Password: "secreto123", Name: "Ana", Role: entity.RoleBodeguero})
	require.NoError(t, err)
	assert.Equal(t, "ana@almacen.mx", user.Email)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@almacen.mx", Password: "otro12345"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@almacen.mx", Password: "secreto123"})
	require.NoError(t, err)
	id, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, entity.RoleBodeguero, id.Role)
	assert.Equal(t, "Ana", id.Name)
}

func TestRegister_RolPorDefectoConsulta(t *testing.T) {
	uc := newAuth()
	user, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "luis@almacen.mx", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleConsulta, user.Role)
	assert.Equal(t, "luis@almacen.mx", user.Name)
}

func TestLogin_Errores(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@almacen.mx", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@almacen.mx", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@almacen.mx", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
