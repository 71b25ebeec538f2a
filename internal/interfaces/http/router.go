package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/imports"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	MovementUC  *inventory.MovementUseCase
	AlertsUC    *inventory.AlertsUseCase
	ReportUC    *appanalytics.ReportUseCase
	DashboardUC *appanalytics.DashboardUseCase
	ImportUC    *imports.ExcelImportUseCase
	ImportQueue imports.JobQueue // opcional
	Idempotency IdempotencyStore // opcional
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Roles que pueden mover stock y editar el catálogo.
	writers := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	inventoryHandler := NewInventoryHandler(deps.MovementUC, deps.AlertsUC, deps.Idempotency, deps.Log)

	// Products. Las rutas fijas van antes de /:id.
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/exists", productHandler.Exists)
	products.Get("/next-code", productHandler.NextCode)
	products.Post("/", writers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writers, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/movements", inventoryHandler.ProductHistory)

	// Movements
	movements := protected.Group("/movements")
	movements.Post("/", writers, inventoryHandler.RegisterMovement)
	movements.Post("/quick", writers, inventoryHandler.QuickAdjust)
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Get("/:id", inventoryHandler.GetMovement)
	movements.Post("/:id/reverse", writers, inventoryHandler.Reverse)

	// Alerts
	protected.Get("/alerts", inventoryHandler.Alerts)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/statistics", reportHandler.Statistics)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/summary.pdf", reportHandler.SummaryPDF)
	reports.Get("/products.xlsx", reportHandler.ProductsXLSX)
	reports.Get("/reconcile", inventoryHandler.Reconcile)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	// Imports
	if deps.ImportUC != nil {
		importsGroup := protected.Group("/imports")
		importHandler := NewImportHandler(deps.ImportUC, deps.ImportQueue)
		importsGroup.Post("/excel", writers, importHandler.ImportExcel)
		importsGroup.Get("/excel/preview", writers, importHandler.PreviewExcel)
	}
}
