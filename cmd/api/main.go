package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/application/bom"
	"github.com/jhoicas/Inventario-api/internal/application/inventory"
	"github.com/jhoicas/Inventario-api/internal/application/ledger"
	"github.com/jhoicas/Inventario-api/internal/application/usecase"
	"github.com/jhoicas/Inventario-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-api/internal/interfaces/http"
	"github.com/jhoicas/Inventario-api/pkg/config"
	"github.com/jhoicas/Inventario-api/pkg/logger"
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
	defer pool.Close()

	// Repos atados al pool: lecturas y validaciones fuera de transacción.
	// Las mutaciones usan el TxRunner, que ata sus propios repos a cada tx.
	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	lineRepo := postgres.NewTransactionLineRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	defectThreshold := decimal.NewFromFloat(cfg.Inventory.DefectRateThreshold)
	ledgerUC := ledger.NewUseCase(txRunner, itemRepo, locationRepo, bomRepo, lotRepo, alertRepo, log, defectThreshold)
	history := ledger.NewHistory(transactionRepo, lineRepo)
	inventoryUC := inventory.NewUseCase(balanceRepo, itemRepo)
	reconcileUC := inventory.NewReconcileUseCase(txRunner, log)
	bomUC := bom.NewCheckerUseCase(bomRepo, balanceRepo, itemRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:    ledgerUC,
		History:     history,
		InventoryUC: inventoryUC,
		ReconcileUC: reconcileUC,
		BOMUC:       bomUC,
		LocationUC:  locationUC,
		Alerts:      alertRepo,
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
