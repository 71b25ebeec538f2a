// Package jobs define las tareas asíncronas del almacén (asynq sobre Redis).
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

const (
	// QueueDefault cola por defecto de los trabajos.
	QueueDefault = "default"
	// TaskExcelImport importa productos desde el Excel configurado o indicado.
	TaskExcelImport = "inventory:excel_import"
	// TaskStockAlerts genera el resumen diario de alertas de stock.
	TaskStockAlerts = "inventory:stock_alerts"
)

// ExcelImportPayload datos de una importación encolada.
type ExcelImportPayload struct {
	URL        string `json:"url,omitempty"`
	Department string `json:"department,omitempty"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	Role       string `json:"role"`
}

// Actor reconstruye quién pidió la importación.
func (p ExcelImportPayload) Actor() entity.Actor {
	return entity.Actor{UserID: p.UserID, Name: p.UserName, Role: p.Role}
}

// NewExcelImportTask construye la tarea. La importación no se reintenta más de 3 veces.
func NewExcelImportTask(payload ExcelImportPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExcelImport, body,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
	), nil
}

// StockAlertsPayload metadatos de la ejecución programada.
type StockAlertsPayload struct {
	Source string `json:"source"` // "cron" | "manual"
}

// NewStockAlertsTask construye la tarea del resumen de alertas.
func NewStockAlertsTask(source string) (*asynq.Task, error) {
	body, err := json.Marshal(StockAlertsPayload{Source: source})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockAlerts, body, asynq.Queue(QueueDefault)), nil
}
