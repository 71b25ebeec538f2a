package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Almacen-api/internal/bootstrap"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/jobs"
	"github.com/jhoicas/Almacen-api/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := bootstrap.NewLogger(cfg, "worker")
	log.Info().Str("env", cfg.App.Env).Str("redis", cfg.Redis.Addr).Msg("iniciando worker")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	svc := bootstrap.NewServices(cfg, pool, nil, log)

	importJob := jobs.NewExcelImportJob(svc.Import, log)
	alertsJob := jobs.NewStockAlertsJob(svc.Alerts, log)

	var cron []jobs.CronRegistration
	if cfg.Alerts.Cron != "" {
		alertsTask, err := jobs.NewStockAlertsTask("cron")
		if err != nil {
			log.Fatal().Err(err).Msg("tarea de alertas")
		}
		cron = append(cron, jobs.CronRegistration{
			Spec:    cfg.Alerts.Cron,
			Task:    alertsTask,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: jobs.RedisOpt(cfg.Redis),
		Log:       log,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskExcelImport, Handler: importJob.Handle},
			{Type: jobs.TaskStockAlerts, Handler: alertsJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar worker")
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado con error")
		return
	}
	log.Info().Msg("worker detenido")
}
