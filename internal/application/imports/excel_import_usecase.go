// Package imports carga productos desde un libro Excel remoto.
package imports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// BatchSize filas procesadas concurrentemente por lote.
const BatchSize = 5

// Config valores por defecto de la importación.
type Config struct {
	DefaultURL        string
	DefaultDepartment string
}

// ExcelImportUseCase crea los productos del libro que aún no existen.
type ExcelImportUseCase struct {
	source   ExcelSource
	products *usecase.ProductUseCase
	cfg      Config
	log      *logger.Logger
}

// NewExcelImportUseCase construye el caso de uso.
func NewExcelImportUseCase(source ExcelSource, products *usecase.ProductUseCase, cfg Config, log *logger.Logger) *ExcelImportUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.DefaultDepartment == "" {
		cfg.DefaultDepartment = "otros"
	}
	return &ExcelImportUseCase{source: source, products: products, cfg: cfg, log: log.Component("excel_import")}
}

func (uc *ExcelImportUseCase) resolveURL(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		url = uc.cfg.DefaultURL
	}
	if url == "" {
		return "", fmt.Errorf("%w: no hay URL de importación configurada", domain.ErrInvalidInput)
	}
	return url, nil
}

// Import descarga el libro y crea cada código inexistente, en lotes de BatchSize.
// Filas sin código o descripción y códigos ya registrados cuentan como omitidas.
func (uc *ExcelImportUseCase) Import(ctx context.Context, actor entity.Actor, req dto.ExcelImportRequest) (*dto.ExcelImportResultDTO, error) {
	url, err := uc.resolveURL(req.URL)
	if err != nil {
		return nil, err
	}
	sheet, err := uc.source.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	department := strings.TrimSpace(req.Department)
	if department == "" {
		department = uc.cfg.DefaultDepartment
	}

	var (
		mu  sync.Mutex
		res = &dto.ExcelImportResultDTO{}
	)
	record := func(outcome string, row Row, cause error) {
		mu.Lock()
		defer mu.Unlock()
		switch outcome {
		case "imported":
			res.Imported++
		case "skipped":
			res.Skipped++
		default:
			res.Errors++
			res.Details = append(res.Details, dto.ImportRowErrorDTO{Row: row.Number, Code: row.Code, Message: cause.Error()})
		}
	}

	pending := make([]Row, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row.Code == "" || row.Description == "" {
			res.Skipped++
			continue
		}
		pending = append(pending, row)
	}

	for start := 0; start < len(pending); start += BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		var g errgroup.Group
		for _, row := range pending[start:end] {
			row := row
			g.Go(func() error {
				outcome, err := uc.importRow(ctx, actor, row, department)
				record(outcome, row, err)
				return nil
			})
		}
		_ = g.Wait()
	}

	uc.log.Info().
		Str("url", url).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("errors", res.Errors).
		Msg("importación de Excel completada")
	return res, nil
}

func (uc *ExcelImportUseCase) importRow(ctx context.Context, actor entity.Actor, row Row, department string) (string, error) {
	exists, err := uc.products.ExistsByCode(ctx, row.Code)
	if err != nil {
		return "error", err
	}
	if exists {
		return "skipped", nil
	}
	dept := row.Department
	if dept == "" {
		dept = department
	}
	_, err = uc.products.CreateImported(ctx, actor, dto.CreateProductRequest{
		Code:        row.Code,
		Description: row.Description,
		Unit:        row.Unit,
		Department:  dept,
	})
	switch {
	case err == nil:
		return "imported", nil
	case errors.Is(err, domain.ErrDuplicateCode):
		// Otra fila del mismo lote ganó la carrera por el código.
		return "skipped", nil
	default:
		uc.log.Warn().Err(err).Int("row", row.Number).Str("code", row.Code).Msg("fila no importada")
		return "error", err
	}
}

// Preview lee el libro sin escribir nada e indica qué códigos ya existen.
func (uc *ExcelImportUseCase) Preview(ctx context.Context, url string) (*dto.ExcelPreviewDTO, error) {
	url, err := uc.resolveURL(url)
	if err != nil {
		return nil, err
	}
	sheet, err := uc.source.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	out := &dto.ExcelPreviewDTO{Headers: sheet.Headers, Rows: make([]dto.ExcelPreviewRowDTO, 0, len(sheet.Rows))}
	for _, row := range sheet.Rows {
		if row.Code == "" || row.Description == "" {
			continue
		}
		exists, err := uc.products.ExistsByCode(ctx, row.Code)
		if err != nil {
			return nil, err
		}
		out.Rows = append(out.Rows, dto.ExcelPreviewRowDTO{
			Row:         row.Number,
			Code:        row.Code,
			Description: row.Description,
			Unit:        row.Unit,
			Department:  row.Department,
			Exists:      exists,
		})
	}
	out.Total = len(out.Rows)
	return out, nil
}
