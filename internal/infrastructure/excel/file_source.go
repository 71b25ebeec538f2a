package excel

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/application/imports"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// FileSource implementa imports.ExcelSource sobre archivos locales.
// El "url" recibido es una ruta del sistema de archivos.
type FileSource struct{}

// Fetch abre el archivo y lo parsea.
func (FileSource) Fetch(ctx context.Context, path string) (*imports.Sheet, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: ruta de Excel vacía", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: abrir %s: %v", domain.ErrInvalidInput, path, err)
	}
	defer f.Close()
	return Parse(f)
}
