package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Almacen-api/internal/application/imports"
	"github.com/jhoicas/Almacen-api/internal/bootstrap"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Almacen-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/jobs"
	"github.com/jhoicas/Almacen-api/pkg/config"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := bootstrap.NewLogger(cfg, "api")
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Strs("scripts", applied).Msg("esquema al día")

	svc := bootstrap.NewServices(cfg, pool, nil, log)

	// Redis es opcional: sin él no hay idempotencia ni importación en segundo plano.
	var (
		idem  httpRouter.IdempotencyStore
		queue imports.JobQueue
	)
	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible; idempotencia y cola deshabilitadas")
	} else {
		defer redisClient.Close()
		idem = infraredis.NewIdempotencyStore(redisClient, time.Duration(cfg.Redis.IdempotencyTTL)*time.Hour)

		jobClient := jobs.NewClient(jobs.RedisOpt(cfg.Redis))
		defer jobClient.Close()
		queue = jobClient
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Almacén API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		AuthUC:      svc.Auth,
		UserUC:      svc.Users,
		ProductUC:   svc.Products,
		MovementUC:  svc.Movements,
		AlertsUC:    svc.Alerts,
		ReportUC:    svc.Reports,
		DashboardUC: svc.Dashboard,
		ImportUC:    svc.Import,
		ImportQueue: queue,
		Idempotency: idem,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
