package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/imports"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/excel"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/Almacen-api/internal/infrastructure/redis"
	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: router completo sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type stubSource struct {
	sheet *imports.Sheet
}

func (s stubSource) Fetch(_ context.Context, _ string) (*imports.Sheet, error) {
	return s.sheet, nil
}

type recordingQueue struct {
	mu    sync.Mutex
	calls []dto.ExcelImportRequest
}

func (q *recordingQueue) EnqueueExcelImport(_ context.Context, _ entity.Actor, req dto.ExcelImportRequest) (*dto.ImportJobResponse, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, req)
	return &dto.ImportJobResponse{TaskID: "task-1", Queue: "default"}, nil
}

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	queue *recordingQueue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	productUC := usecase.NewProductUseCase(store.Products())
	movementUC := inventory.NewMovementUseCase(store, store.Products(), store.Movements(), nil)
	alertsUC := inventory.NewAlertsUseCase(store.Products(), 0)
	source := stubSource{sheet: &imports.Sheet{
		Headers: []string{"Código", "Producto"},
		Rows: []imports.Row{
			{Number: 2, Code: "IMP-1", Description: "Importado uno"},
			{Number: 3, Code: "IMP-2", Description: "Importado dos"},
			{Number: 4, Code: "", Description: "Sin código"},
		},
	}}
	queue := &recordingQueue{}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:     "almacen-test",
		AuthUC:      auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}).WithBcryptCost(bcrypt.MinCost),
		UserUC:      usecase.NewUserUseCase(store.Users()),
		ProductUC:   productUC,
		MovementUC:  movementUC,
		AlertsUC:    alertsUC,
		ReportUC:    appanalytics.NewReportUseCase(store.Products(), store.Movements(), pdf.NewMarotoReportRenderer("test"), excel.NewExporter()),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Products(), store.Movements(), alertsUC),
		ImportUC:    imports.NewExcelImportUseCase(source, productUC, imports.Config{DefaultURL: "https://example.test/inv.xlsx"}, nil),
		ImportQueue: queue,
		Idempotency: infraredis.NewIdempotencyStore(rdb, 0),
		JWTSecret:   testJWTSecret,
	})
	return &testEnv{app: app, store: store, queue: queue}
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, identity(role), testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path, auth string, body interface{}, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (e *testEnv) createProduct(t *testing.T, body map[string]interface{}) dto.ProductResponse {
	t.Helper()
	resp, raw := e.do(t, http.MethodPost, "/api/products", bearer(t, "admin"), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func decodeMovement(t *testing.T, raw []byte) dto.MovementResponse {
	t.Helper()
	var m dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Infraestructura
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_HealthYMetrics(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "almacen-test")

	resp, body = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRouter_RutaProtegidaSinToken(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroLoginYMe(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "Ana@Almacen.test", "password": "secreto123", "name": "Ana", "role": "bodeguero",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ana@almacen.test", "password": "otroSecreto",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, body))

	resp, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@almacen.test", "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@almacen.test", "password": "secreto123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, "bodeguero", login.User.Role)

	resp, body = env.do(t, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "ana@almacen.test", me.Email)
}

func TestAuth_RegistroInvalido(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "no-es-email", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var verr dto.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(body, &verr))
	assert.Len(t, verr.Fields, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CrudYPermisos(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, map[string]interface{}{"code": "X1", "description": "Cable HDMI"})

	resp, body := env.do(t, http.MethodPost, "/api/products", bearer(t, "admin"), map[string]interface{}{"code": "X1", "description": "Otro"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_CODE", errorCode(t, body))

	resp, _ = env.do(t, http.MethodPost, "/api/products", bearer(t, "consulta"), map[string]interface{}{"code": "X2", "description": "Otro"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/products/exists?code=X1", bearer(t, "consulta"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"code":"X1","exists":true}`, string(body))

	resp, body = env.do(t, http.MethodGet, "/api/products/next-code", bearer(t, "consulta"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "PROD-")

	resp, body = env.do(t, http.MethodPut, "/api/products/"+p.ID, bearer(t, "bodeguero"), map[string]interface{}{"min_quantity": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"min_quantity":"3"`)

	resp, _ = env.do(t, http.MethodDelete, "/api/products/"+p.ID, bearer(t, "bodeguero"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/products/"+p.ID, bearer(t, "admin"), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/products/"+p.ID, bearer(t, "consulta"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_EscenarioStockBajoYReversion(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, map[string]interface{}{
		"code": "P-50", "description": "Guantes", "current_quantity": 50, "min_quantity": 20,
	})
	tok := bearer(t, "bodeguero")

	resp, body := env.do(t, http.MethodPost, "/api/movements", tok, map[string]interface{}{
		"product_id": p.ID, "type": "salida", "quantity": 40, "reason": "Despacho",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	exit := decodeMovement(t, body)
	assert.True(t, exit.NewQuantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, testUserName, exit.UserName)

	resp, body = env.do(t, http.MethodPost, "/api/movements", tok, map[string]interface{}{
		"product_id": p.ID, "type": "salida", "quantity": 20, "reason": "Despacho",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))

	resp, body = env.do(t, http.MethodGet, "/api/products/"+p.ID, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prod dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &prod))
	assert.True(t, prod.CurrentQuantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, prod.LowStock)

	resp, body = env.do(t, http.MethodPost, "/api/movements/"+exit.ID+"/reverse", tok, map[string]string{"reason": "Error de digitación"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	rev := decodeMovement(t, body)
	assert.Equal(t, entity.MovementTypeReversion, rev.Type)
	assert.True(t, rev.NewQuantity.Equal(decimal.NewFromInt(50)))

	resp, body = env.do(t, http.MethodPost, "/api/movements/"+exit.ID+"/reverse", tok, map[string]string{"reason": "Otra vez"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", errorCode(t, body))

	resp, body = env.do(t, http.MethodGet, "/api/products/"+p.ID+"/movements", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist dto.MovementListResponse
	require.NoError(t, json.Unmarshal(body, &hist))
	require.Equal(t, 2, hist.Total)
	assert.Equal(t, rev.ID, hist.Items[0].ID)
	assert.True(t, hist.Items[1].Reverted)
}

func TestMovements_AjusteRapido(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, map[string]interface{}{"code": "Q1", "description": "Cinta", "current_quantity": 10})
	tok := bearer(t, "bodeguero")

	resp, body := env.do(t, http.MethodPost, "/api/movements/quick", tok, map[string]string{"product_id": p.ID, "delta": "+5"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	m := decodeMovement(t, body)
	assert.Equal(t, entity.MovementTypeEntrada, m.Type)
	assert.True(t, m.NewQuantity.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, inventory.QuickAdjustDefaultReason, m.Reason)

	resp, body = env.do(t, http.MethodPost, "/api/movements/quick", tok, map[string]string{"product_id": p.ID, "delta": "abc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestMovements_ValidacionDelBody(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/movements", bearer(t, "admin"), map[string]interface{}{
		"product_id": "p", "type": "robo", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var verr dto.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(body, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"type", "reason"}, fields)
}

func TestMovements_IdempotencyKeyNoDuplica(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, map[string]interface{}{"code": "I1", "description": "Bombillo", "current_quantity": 5})
	tok := bearer(t, "bodeguero")
	body := map[string]interface{}{"product_id": p.ID, "type": "entrada", "quantity": 3, "reason": "Compra"}

	resp, raw := env.do(t, http.MethodPost, "/api/movements", tok, body, "Idempotency-Key", "compra-001")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	first := decodeMovement(t, raw)

	resp, raw = env.do(t, http.MethodPost, "/api/movements", tok, body, "Idempotency-Key", "compra-001")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "true", resp.Header.Get("Idempotent-Replayed"))
	assert.Equal(t, first.ID, decodeMovement(t, raw).ID)

	got, err := env.store.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentQuantity.Equal(decimal.NewFromInt(8)), "la entrada se aplica una sola vez")

	// Un fallo libera la clave: el reintento corregido se aplica.
	bad := map[string]interface{}{"product_id": p.ID, "type": "salida", "quantity": 100, "reason": "Despacho"}
	resp, _ = env.do(t, http.MethodPost, "/api/movements", tok, bad, "Idempotency-Key", "despacho-1")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	bad["quantity"] = 2
	resp, _ = env.do(t, http.MethodPost, "/api/movements", tok, bad, "Idempotency-Key", "despacho-1")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestMovements_IdempotencyKeyConOtroCuerpo(t *testing.T) {
	env := newTestEnv(t)
	a := env.createProduct(t, map[string]interface{}{"code": "A1", "description": "Arandela", "current_quantity": 5})
	b := env.createProduct(t, map[string]interface{}{"code": "B1", "description": "Buje", "current_quantity": 5})
	tok := bearer(t, "bodeguero")

	resp, raw := env.do(t, http.MethodPost, "/api/movements", tok,
		map[string]interface{}{"product_id": a.ID, "type": "entrada", "quantity": 3, "reason": "Compra"},
		"Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodPost, "/api/movements", tok,
		map[string]interface{}{"product_id": b.ID, "type": "salida", "quantity": 2, "reason": "Despacho"},
		"Idempotency-Key", "k1")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(raw))
	assert.Equal(t, "IDEMPOTENCY_KEY_REUSED", errorCode(t, raw))
	assert.Empty(t, resp.Header.Get("Idempotent-Replayed"))

	got, err := env.store.Products().GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentQuantity.Equal(decimal.NewFromInt(5)), "el segundo cuerpo no se aplica")

	// La misma clave de otro usuario es independiente.
	other := bearerFor(t, pkgjwt.Identity{UserID: "u-otro", Name: "Otro", Role: entity.RoleBodeguero})
	resp, raw = env.do(t, http.MethodPost, "/api/movements", other,
		map[string]interface{}{"product_id": b.ID, "type": "salida", "quantity": 2, "reason": "Despacho"},
		"Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.Equal(t, "B1", decodeMovement(t, raw).ProductCode)
}

func TestMovements_CantidadFueraDeEscala(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, map[string]interface{}{"code": "E1", "description": "Estaño", "current_quantity": 5})
	tok := bearer(t, "bodeguero")

	for _, qty := range []string{"0.00001", "100000000000000"} {
		resp, raw := env.do(t, http.MethodPost, "/api/movements", tok,
			map[string]interface{}{"product_id": p.ID, "type": "entrada", "quantity": qty, "reason": "Compra"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, qty)
		assert.Equal(t, "VALIDATION", errorCode(t, raw), qty)
	}

	resp, raw := env.do(t, http.MethodPost, "/api/products", bearer(t, "admin"),
		map[string]interface{}{"code": "E2", "description": "Estaño fino", "min_quantity": "0.12345"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	got, err := env.store.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentQuantity.Equal(decimal.NewFromInt(5)))
}

func TestMovements_ListadoConFiltros(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, map[string]interface{}{"code": "L1", "description": "Lija", "current_quantity": 10})
	tok := bearer(t, "bodeguero")
	for _, typ := range []string{"entrada", "salida", "entrada"} {
		resp, raw := env.do(t, http.MethodPost, "/api/movements", tok, map[string]interface{}{
			"product_id": p.ID, "type": typ, "quantity": 1, "reason": "Prueba",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw := env.do(t, http.MethodGet, "/api/movements?type=entrada", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.MovementListResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, 2, list.Total)

	resp, raw = env.do(t, http.MethodGet, "/api/movements?limit=1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, 1, list.Total)

	resp, _ = env.do(t, http.MethodGet, "/api/movements?from=ayer", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/movements/no-existe", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas, reportes y dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestReports_EndpointsDeLectura(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, map[string]interface{}{"code": "R1", "description": "Resma", "current_quantity": 2, "min_quantity": 10})
	tok := bearer(t, "consulta")

	resp, raw := env.do(t, http.MethodGet, "/api/alerts", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alerts dto.StockAlertsResponse
	require.NoError(t, json.Unmarshal(raw, &alerts))
	require.Len(t, alerts.LowStock, 1)

	resp, raw = env.do(t, http.MethodGet, "/api/reports/statistics", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"low_stock_count":1`)

	resp, _ = env.do(t, http.MethodGet, "/api/reports/summary?from=2026-01-10&to=2026-01-01", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = env.do(t, http.MethodGet, "/api/reports/summary.pdf", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp, raw = env.do(t, http.MethodGet, "/api/reports/products.xlsx", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/vnd.openxmlformats"))
	assert.NotEmpty(t, raw)

	resp, raw = env.do(t, http.MethodGet, "/api/reports/reconcile", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"mismatches":[]`)

	resp, raw = env.do(t, http.MethodGet, "/api/dashboard", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"total_products":1`)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación
// ──────────────────────────────────────────────────────────────────────────────

func TestImports_SincronoYAsincrono(t *testing.T) {
	env := newTestEnv(t)
	tok := bearer(t, "admin")

	resp, raw := env.do(t, http.MethodGet, "/api/imports/excel/preview", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var preview dto.ExcelPreviewDTO
	require.NoError(t, json.Unmarshal(raw, &preview))
	assert.Equal(t, 2, preview.Total)

	resp, raw = env.do(t, http.MethodPost, "/api/imports/excel", tok, map[string]interface{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var res dto.ExcelImportResultDTO
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)

	resp, raw = env.do(t, http.MethodPost, "/api/imports/excel", tok, map[string]interface{}{"async": true, "department": "bodega"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(raw))
	require.Len(t, env.queue.calls, 1)
	assert.Equal(t, "bodega", env.queue.calls[0].Department)

	resp, _ = env.do(t, http.MethodPost, "/api/imports/excel", bearer(t, "consulta"), map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
