// Command credit-sweep ejecuta una pasada del barrido de conciliación de cuentas corrientes
// y termina. Pensado para un scheduler externo (cron, Kubernetes CronJob).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jhoicas/repairshop-api/internal/application/ports"
	"github.com/jhoicas/repairshop-api/internal/bootstrap"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/lognotify"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/redisq"
	"github.com/jhoicas/repairshop-api/internal/worker"
	"github.com/jhoicas/repairshop-api/pkg/config"
	"github.com/jhoicas/repairshop-api/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Name: cfg.App.Name})
	if cfg.App.Storage != "postgres" {
		log.Fatal().Str("storage", cfg.App.Storage).Msg("credit-sweep requiere STORAGE=postgres")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var notifier ports.Notifier = lognotify.New(log.Component("notifier"))
	if cfg.Redis.URL != "" {
		rdb, err := redisq.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		notifier = redisq.NewDispatcher(rdb, cfg.Redis.KeyPrefix)
	}

	backend := bootstrap.PostgresBackend(pool, config.NewSettings(), log.Component("settings"))
	svc := bootstrap.NewServices(backend, notifier, log.Zerolog(), cfg.Credit.DefaultWarehouse)

	report, err := worker.RunSweep(ctx, svc.Reconciler, log.Component("credit_sweep"))
	if err != nil || report.Failed > 0 {
		return 1
	}
	return 0
}
