package excel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Almacen-api/internal/application/imports"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// Tamaño máximo del libro descargado.
const maxWorkbookBytes = 20 << 20

// Reader implementa imports.ExcelSource: descarga el .xlsx por HTTP y lee la primera hoja.
type Reader struct {
	httpClient *http.Client
}

// NewReader construye el lector con un timeout de red de 30 s.
func NewReader() *Reader {
	return &Reader{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// NewReaderWithClient permite inyectar el cliente HTTP (tests).
func NewReaderWithClient(c *http.Client) *Reader {
	return &Reader{httpClient: c}
}

// Fetch descarga el libro de url y lo parsea.
func (r *Reader) Fetch(ctx context.Context, url string) (*imports.Sheet, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: no hay URL de Excel configurada", domain.ErrInvalidInput)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: URL de Excel inválida: %v", domain.ErrInvalidInput, err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("excel: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("excel: descarga fallida: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("excel: descarga HTTP %d: %w", resp.StatusCode, domain.ErrStoreUnavailable)
	}
	return Parse(io.LimitReader(resp.Body, maxWorkbookBytes))
}

// Parse lee la primera hoja: fila 1 = encabezados, resto = datos.
// Solo descarta filas vacías; las incompletas las cuenta el caso de uso.
func Parse(src io.Reader) (*imports.Sheet, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: archivo Excel ilegible: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: el libro no tiene hojas", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: leer hoja %q: %v", domain.ErrInvalidInput, sheets[0], err)
	}
	if len(rows) == 0 {
		return &imports.Sheet{}, nil
	}

	headers := rows[0]
	cols := detectColumns(headers)
	if cols.code < 0 || cols.description < 0 {
		return nil, fmt.Errorf("%w: faltan columnas de código o producto/descripción", domain.ErrInvalidInput)
	}

	out := &imports.Sheet{Headers: headers}
	for i, raw := range rows[1:] {
		row := imports.Row{
			Number:      i + 2,
			Code:        cell(raw, cols.code),
			Description: cell(raw, cols.description),
			Unit:        cell(raw, cols.unit),
			Department:  cell(raw, cols.department),
		}
		if row.Code == "" && row.Description == "" {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
