package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/manufactura-api/internal/application/alerts"
	"github.com/tu-usuario/manufactura-api/internal/application/audit"
	"github.com/tu-usuario/manufactura-api/internal/application/formula"
	"github.com/tu-usuario/manufactura-api/internal/application/ledger"
	"github.com/tu-usuario/manufactura-api/internal/application/manufacturing"
	"github.com/tu-usuario/manufactura-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/manufactura-api/internal/interfaces/http"
	"github.com/tu-usuario/manufactura-api/pkg/config"
	"github.com/tu-usuario/manufactura-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}

	// Registro explícito de pools por tenant. El aprovisionamiento es externo;
	// en single-tenant el tenant del DSN configurado es el único registrado.
	registry := postgres.NewRegistry()
	registry.Register("default", pool)
	defer registry.Close()

	ledgerRepo := postgres.NewLedgerRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	formulaRepo := postgres.NewFormulaRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	evaluator := alerts.NewEvaluator(productRepo, ledgerRepo, alertRepo)
	notifier := alerts.NewNotifier(evaluator, log.Component("alerts"),
		time.Duration(cfg.Alerts.EvalTimeoutSeconds)*time.Second)

	ledgerUC := ledger.NewUseCase(txRunner, ledgerRepo, productRepo, locationRepo, notifier)
	manufacturingUC := manufacturing.NewUseCase(txRunner, ledgerUC, productRepo, locationRepo, formulaRepo, notifier)
	formulaUC := formula.NewUseCase(txRunner, formulaRepo, productRepo)
	auditUC := audit.NewUseCase(txRunner, ledgerUC, auditRepo, notifier)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:        ledgerUC,
		ManufacturingUC: manufacturingUC,
		FormulaUC:       formulaUC,
		AuditUC:         auditUC,
		AlertEvaluator:  evaluator,
		JWTSecret:       cfg.JWT.Secret,
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
