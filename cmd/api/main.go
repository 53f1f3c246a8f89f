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
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/repairshop-api/docs"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
	"github.com/jhoicas/repairshop-api/internal/bootstrap"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/lognotify"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/redisq"
	httpRouter "github.com/jhoicas/repairshop-api/internal/interfaces/http"
	"github.com/jhoicas/repairshop-api/internal/worker"
	"github.com/jhoicas/repairshop-api/migrations"
	"github.com/jhoicas/repairshop-api/pkg/config"
	"github.com/jhoicas/repairshop-api/pkg/logger"
)

// @title                       RepairShop API
// @version                     1.0
// @description                 Ventas, inventario y cuentas corrientes del taller.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo "Bearer ".
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Name:  cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Notificaciones: Redis si está configurado; si no, solo log.
	var notifier ports.Notifier = lognotify.New(log.Component("notifier"))
	if cfg.Redis.URL != "" {
		rdb, err := redisq.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)
		notifier = redisq.NewDispatcher(rdb, cfg.Redis.KeyPrefix)
	}

	var backend bootstrap.Backend
	switch cfg.App.Storage {
	case "memory":
		log.Warn().Msg("STORAGE=memory: datos de demostración, nada se persiste")
		backend = bootstrap.MemoryBackend(memory.NewSeeded(), config.NewSettings(), nil)
		if cfg.Credit.DefaultWarehouse == "" {
			cfg.Credit.DefaultWarehouse = memory.DemoWarehouseID
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool, migrations.FS, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		backend = bootstrap.PostgresBackend(pool, config.NewSettings(), log.Component("settings"))
	}

	svc := bootstrap.NewServices(backend, notifier, log.Zerolog(), cfg.Credit.DefaultWarehouse)

	sweepDone := worker.StartCreditSweepCron(ctx, svc.Reconciler, cfg.Credit.SweepInterval, log.Component("credit_sweep"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(docs.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: docs.FilePath,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		log.Warn().Str("file", docs.FilePath).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	httpRouter.Router(app, svc.RouterDeps(cfg.JWT.Secret))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	select {
	case <-sweepDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("el barrido de crédito no terminó a tiempo")
	}

	log.Info().Msg("aplicación detenida")
}

// requestLogger registra cada petición con método, ruta, estado y latencia.
func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
