package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUserName  = "Ana Bodega"
	testIssuer    = "almacen-test"
	testExpMin    = 60
)

func identity(role string) pkgjwt.Identity {
	return pkgjwt.Identity{UserID: testUserID, Name: testUserName, Role: role}
}

// bearerFor firma un token para un usuario concreto.
func bearerFor(t *testing.T, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, id, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// guardedApp expone GET /guarded con AuthMiddleware + RequireRole(roles...).
// El handler devuelve el actor que verían los casos de uso.
func guardedApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			a := apphttp.GetActor(c)
			return c.JSON(fiber.Map{"user_id": a.UserID, "name": a.Name, "role": a.Role})
		},
	)
	return app
}

func call(t *testing.T, app *fiber.App, authHeader string) (*http.Response, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CabecerasInvalidas(t *testing.T) {
	app := guardedApp(entity.RoleAdmin)
	expired, err := pkgjwt.Generate(testJWTSecret, identity(entity.RoleAdmin), testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secret", identity(entity.RoleAdmin), testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"sin esquema", "abc.def.ghi", "INVALID_TOKEN"},
		{"esquema Basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"firmado con otro secreto", "Bearer " + foreign, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, app, tc.header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestAuthMiddleware_ArmaElActorDelToken(t *testing.T) {
	app := guardedApp(entity.RoleBodeguero)
	resp, body := call(t, app, "bearer "+bearerFor(t, identity(entity.RoleBodeguero))[len("Bearer "):])
	require.Equal(t, http.StatusOK, resp.StatusCode, "el esquema no distingue mayúsculas")
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUserName, body["name"])
	assert.Equal(t, entity.RoleBodeguero, body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_MatrizDeRoles(t *testing.T) {
	writers := []string{entity.RoleAdmin, entity.RoleBodeguero}
	adminOnly := []string{entity.RoleAdmin}
	cases := []struct {
		name    string
		allowed []string
		role    string
		status  int
		code    string
	}{
		{"admin en escritura", writers, entity.RoleAdmin, http.StatusOK, ""},
		{"bodeguero en escritura", writers, entity.RoleBodeguero, http.StatusOK, ""},
		{"consulta en escritura", writers, entity.RoleConsulta, http.StatusForbidden, "FORBIDDEN"},
		{"bodeguero en borrado", adminOnly, entity.RoleBodeguero, http.StatusForbidden, "FORBIDDEN"},
		{"rol desconocido", writers, "auditor", http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", writers, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, guardedApp(tc.allowed...), bearerFor(t, identity(tc.role)))
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				assert.Equal(t, tc.code, body["code"])
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de roles sobre las rutas reales
// ──────────────────────────────────────────────────────────────────────────────

func TestRoutes_ConsultaSoloLee(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, map[string]interface{}{"code": "R1", "description": "Rodamiento", "current_quantity": 4})
	consulta := bearerFor(t, identity(entity.RoleConsulta))

	denied := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodPost, "/api/movements", map[string]interface{}{"product_id": p.ID, "type": "salida", "quantity": 1, "reason": "Despacho"}},
		{http.MethodPost, "/api/movements/quick", map[string]interface{}{"product_id": p.ID, "delta": "-1"}},
		{http.MethodPost, "/api/products", map[string]interface{}{"code": "R2", "description": "Otro rodamiento"}},
		{http.MethodPut, "/api/products/" + p.ID, map[string]interface{}{"description": "Cambio"}},
		{http.MethodDelete, "/api/products/" + p.ID, nil},
		{http.MethodPost, "/api/imports/excel", nil},
	}
	for _, d := range denied {
		resp, raw := env.do(t, d.method, d.path, consulta, d.body)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s %s: %s", d.method, d.path, raw)
	}

	got, err := env.store.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "4", got.CurrentQuantity.String(), "el stock no cambió")

	for _, path := range []string{"/api/products", "/api/products/" + p.ID, "/api/movements", "/api/alerts", "/api/dashboard"} {
		resp, raw := env.do(t, http.MethodGet, path, consulta, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "%s: %s", path, raw)
	}
}

func TestRoutes_MovimientoRegistraAlUsuarioDelToken(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, map[string]interface{}{"code": "R3", "description": "Retén", "current_quantity": 2})
	tok := bearerFor(t, pkgjwt.Identity{UserID: "u-bodega-7", Name: "Luis Patio", Role: entity.RoleBodeguero})

	resp, raw := env.do(t, http.MethodPost, "/api/movements", tok, map[string]interface{}{
		"product_id": p.ID, "type": "entrada", "quantity": 1, "reason": "Recepción",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var m dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "u-bodega-7", m.UserID)
	assert.Equal(t, "Luis Patio", m.UserName)
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConservaIdentidad(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, identity(entity.RoleBodeguero), testIssuer, testExpMin)
	require.NoError(t, err)

	id, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, identity(entity.RoleBodeguero), id)
}
