// Package bootstrap arma los casos de uso sobre PostgreSQL para los binarios de cmd/.
package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/imports"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Services casos de uso listos para inyectar en HTTP, worker o CLI.
type Services struct {
	Auth      *auth.AuthUseCase
	Users     *usecase.UserUseCase
	Products  *usecase.ProductUseCase
	Movements *inventory.MovementUseCase
	Alerts    *inventory.AlertsUseCase
	Reports   *appanalytics.ReportUseCase
	Dashboard *appanalytics.DashboardUseCase
	Import    *imports.ExcelImportUseCase
}

// NewServices construye los repositorios sobre pool y los casos de uso.
// source nil usa el lector HTTP de Excel.
func NewServices(cfg *config.Config, pool *pgxpool.Pool, source imports.ExcelSource, log *logger.Logger) *Services {
	if log == nil {
		log = logger.NewNop()
	}
	if source == nil {
		source = excel.NewReader()
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	alertsUC := inventory.NewAlertsUseCase(productRepo, cfg.Alerts.AlmostOutFactor)

	return &Services{
		Auth: auth.NewAuthUseCase(userRepo, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Users:     usecase.NewUserUseCase(userRepo),
		Products:  productUC,
		Movements: inventory.NewMovementUseCase(txRunner, productRepo, movRepo, log),
		Alerts:    alertsUC,
		Reports: appanalytics.NewReportUseCase(
			productRepo, movRepo,
			infrapdf.NewMarotoReportRenderer(cfg.App.Name),
			excel.NewExporter(),
		),
		Dashboard: appanalytics.NewDashboardUseCase(productRepo, movRepo, alertsUC),
		Import: imports.NewExcelImportUseCase(source, productUC, imports.Config{
			DefaultURL:        cfg.Import.ExcelURL,
			DefaultDepartment: cfg.Import.DefaultDepartment,
		}, log),
	}
}

// NewLogger logger del proceso según APP_ENV y LOG_LEVEL; service distingue api, worker y almacenctl.
func NewLogger(cfg *config.Config, service string) *logger.Logger {
	return logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: service})
}
