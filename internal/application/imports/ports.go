package imports

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Row fila de la hoja ya normalizada. Number es el número de fila en Excel (1 = encabezados).
type Row struct {
	Number      int
	Code        string
	Description string
	Unit        string
	Department  string
}

// Sheet primera hoja del libro: encabezados originales y filas con datos.
type Sheet struct {
	Headers []string
	Rows    []Row
}

// ExcelSource descarga y lee el libro de importación.
type ExcelSource interface {
	Fetch(ctx context.Context, url string) (*Sheet, error)
}

// JobQueue encola importaciones para el worker.
type JobQueue interface {
	EnqueueExcelImport(ctx context.Context, actor entity.Actor, req dto.ExcelImportRequest) (*dto.ImportJobResponse, error)
}
