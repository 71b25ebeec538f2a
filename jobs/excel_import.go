package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/imports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ExcelImportJob ejecuta TaskExcelImport.
type ExcelImportJob struct {
	uc  *imports.ExcelImportUseCase
	log *logger.Logger
}

// NewExcelImportJob construye el job.
func NewExcelImportJob(uc *imports.ExcelImportUseCase, log *logger.Logger) *ExcelImportJob {
	if log == nil {
		log = logger.NewNop()
	}
	return &ExcelImportJob{uc: uc, log: log.Component("job_excel_import")}
}

// Handle procesa la tarea. Payload o Excel inválidos no se reintentan.
func (j *ExcelImportJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ExcelImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
	}
	res, err := j.uc.Import(ctx, payload.Actor(), dto.ExcelImportRequest{
		URL:        payload.URL,
		Department: payload.Department,
	})
	if err != nil {
		j.log.Error().Err(err).Str("url", payload.URL).Msg("importación encolada fallida")
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	j.log.Info().
		Str("user_id", payload.UserID).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("errors", res.Errors).
		Msg("importación encolada completada")
	return nil
}
