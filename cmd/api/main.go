package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Estoque-api/internal/application/audit"
	"github.com/jhoicas/Estoque-api/internal/application/expiration"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/notification"
	"github.com/jhoicas/Estoque-api/internal/application/query"
	"github.com/jhoicas/Estoque-api/internal/application/registry"
	"github.com/jhoicas/Estoque-api/internal/application/report"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Estoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Estoque-api/internal/interfaces/http"
	"github.com/jhoicas/Estoque-api/pkg/config"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		tx   inventory.TxRunner
		rp   repository.TxRepos
		pool *pgxpool.Pool
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.NewStore()
		tx, rp = store, store.Repos()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.RunMigrations(pool, log); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		tx, rp = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	promMetrics, err := metrics.NewPrometheus(prometheus.DefaultRegisterer, "estoque")
	if err != nil {
		log.Fatal().Err(err).Msg("registrar métricas")
	}
	loc := cfg.App.Location()

	reg := registry.New(rp.Stock, log)

	withdrawUC := inventory.NewWithdrawUseCase(tx, reg, log,
		inventory.WithRoster(cfg.Stock.Roster...),
		inventory.WithZeroPolicy(inventory.ZeroPolicy(cfg.Stock.ZeroPolicy)),
		inventory.WithMetrics(promMetrics),
		inventory.WithLocation(loc),
	)
	statusUC := audit.NewStatusUseCase(tx, reg, log, audit.WithMetrics(promMetrics))
	historyQ := audit.NewHistory(rp.Stock, rp.StatusChanges)
	searchUC := query.NewUseCase(rp.Withdrawals)
	reportUC := report.NewUseCase(searchUC, infrapdf.NewMarotoReportGenerator(cfg.App.Name))
	notificationUC := notification.NewUseCase(rp.Notifications)

	// Monitor de vencimientos: evalúa cada snapshot difundido por el registro
	monitor := expiration.NewMonitor(reg, expiration.NewLogAlerter(log),
		expiration.WithMetrics(promMetrics),
		expiration.WithLocation(loc),
	)
	if _, err := monitor.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("iniciar monitor de vencimientos")
	}

	// Otras instancias escriben en la misma base: el trigger NOTIFY dispara un nuevo snapshot
	if pool != nil {
		go postgres.NewChangeListener(pool, reg, log).Run(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// sin WriteTimeout: /api/stock/stream mantiene la respuesta abierta
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: os.Stdout,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "subscribers": reg.Subscribers()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Registry:      reg,
		Status:        statusUC,
		History:       historyQ,
		Withdraw:      withdrawUC,
		Search:        searchUC,
		Report:        reportUC,
		Notifications: notificationUC,
		Log:           log,
		Location:      loc,
		JWTSecret:     cfg.JWT.Secret,
		AuditRoles:    cfg.Stock.AuditRoles,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
