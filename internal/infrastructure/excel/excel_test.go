package excel

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// ────────────────────────────────────────────────────────────────────────────
// Encabezados
// ────────────────────────────────────────────────────────────────────────────

func TestNormalizeHeader_QuitaTildesYMayusculas(t *testing.T) {
	assert.Equal(t, "codigo", normalizeHeader(" CÓDIGO "))
	assert.Equal(t, "descripcion del producto", normalizeHeader("Descripción del Producto"))
}

func TestDetectColumns(t *testing.T) {
	c := detectColumns([]string{"Item", "Código interno", "Nombre del producto", "Unidad", "Departamento"})
	assert.Equal(t, 1, c.code)
	assert.Equal(t, 2, c.description)
	assert.Equal(t, 3, c.unit)
	assert.Equal(t, 4, c.department)

	c = detectColumns([]string{"codigo", "descripcion"})
	assert.Equal(t, -1, c.unit)
}

// ────────────────────────────────────────────────────────────────────────────
// Parse / Fetch
// ────────────────────────────────────────────────────────────────────────────

func TestParse_LeePrimeraHoja(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Código", "Descripción", "Departamento"},
		{" A-1 ", "Tornillo 3/8", "ferreteria"},
		{"", "", ""},
		{"A-2", "", ""},
		{1005, "Cable UTP", ""},
	})

	sheet, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"Código", "Descripción", "Departamento"}, sheet.Headers)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "A-1", sheet.Rows[0].Code)
	assert.Equal(t, 2, sheet.Rows[0].Number)
	assert.Equal(t, "ferreteria", sheet.Rows[0].Department)
	assert.Equal(t, "A-2", sheet.Rows[1].Code)
	assert.Empty(t, sheet.Rows[1].Description)
	assert.Equal(t, "1005", sheet.Rows[2].Code)
	assert.Equal(t, 5, sheet.Rows[2].Number)
}

func TestParse_SinColumnasRequeridas(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{{"Nombre", "Precio"}, {"x", 1}})
	_, err := Parse(bytes.NewReader(data))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParse_ArchivoInvalido(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte("no es un xlsx")))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetch_DescargaYParsea(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{{"codigo", "producto"}, {"Z-9", "Llave inglesa"}})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inventario.xlsx" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	r := NewReaderWithClient(srv.Client())
	sheet, err := r.Fetch(context.Background(), srv.URL+"/inventario.xlsx")
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "Llave inglesa", sheet.Rows[0].Description)

	_, err = r.Fetch(context.Background(), srv.URL+"/otro.xlsx")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = r.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFileSource_LeeArchivoLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventario.xlsx")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t, [][]interface{}{
		{"Codigo", "Producto"},
		{"F-1", "Fusible 5A"},
	}), 0o600))

	sheet, err := FileSource{}.Fetch(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "F-1", sheet.Rows[0].Code)

	_, err = FileSource{}.Fetch(context.Background(), filepath.Join(t.TempDir(), "no-existe.xlsx"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ────────────────────────────────────────────────────────────────────────────
// Exporter
// ────────────────────────────────────────────────────────────────────────────

func TestExportProducts_SePuedeReimportar(t *testing.T) {
	minQty := decimal.NewFromInt(5)
	data, err := NewExporter().ExportProducts([]dto.ProductResponse{
		{Code: "A-1", Description: "Tornillo", Unit: "unidad", Department: "ferreteria", CurrentQuantity: decimal.NewFromInt(3), MinQuantity: &minQty, LowStock: true},
		{Code: "B-2", Description: "Cinta aislante", Unit: "rollo", Department: "electricos", CurrentQuantity: decimal.RequireFromString("2.5")},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(productsSheet, "I2")
	require.NoError(t, err)
	assert.Equal(t, "Sí", v)

	sheet, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "B-2", sheet.Rows[1].Code)
	assert.Equal(t, "rollo", sheet.Rows[1].Unit)
	assert.Equal(t, "electricos", sheet.Rows[1].Department)
}
