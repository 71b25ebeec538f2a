package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Productos listados por nivel en el log del resumen.
const alertDigestSize = 10

// StockAlertsJob registra en el log el resumen de alertas de stock.
type StockAlertsJob struct {
	alerts *inventory.AlertsUseCase
	log    *logger.Logger
}

// NewStockAlertsJob construye el job.
func NewStockAlertsJob(alerts *inventory.AlertsUseCase, log *logger.Logger) *StockAlertsJob {
	if log == nil {
		log = logger.NewNop()
	}
	return &StockAlertsJob{alerts: alerts, log: log.Component("job_stock_alerts")}
}

// Handle procesa TaskStockAlerts.
func (j *StockAlertsJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload StockAlertsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
	}
	res, err := j.alerts.GenerateAlerts(ctx)
	if err != nil {
		return err
	}
	ev := j.log.Info().
		Str("source", payload.Source).
		Int("low_stock", len(res.LowStock)).
		Int("almost_out", len(res.AlmostOut)).
		Int("excess", len(res.Excess))
	if codes := topCodes(res.LowStock); len(codes) > 0 {
		ev = ev.Strs("low_stock_codes", codes)
	}
	if codes := topCodes(res.AlmostOut); len(codes) > 0 {
		ev = ev.Strs("almost_out_codes", codes)
	}
	ev.Msg("resumen de alertas de stock")
	return nil
}

func topCodes(items []dto.StockAlertDTO) []string {
	n := len(items)
	if n > alertDigestSize {
		n = alertDigestSize
	}
	out := make([]string, 0, n)
	for _, it := range items[:n] {
		out = append(out, it.Code)
	}
	return out
}
