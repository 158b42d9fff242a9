package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-api/internal/application/bom"
	"github.com/jhoicas/Inventario-api/internal/application/inventory"
	"github.com/jhoicas/Inventario-api/internal/application/ledger"
	"github.com/jhoicas/Inventario-api/internal/application/usecase"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC    *ledger.UseCase
	History     *ledger.History
	InventoryUC *inventory.UseCase
	ReconcileUC *inventory.ReconcileUseCase
	BOMUC       *bom.CheckerUseCase
	LocationUC  *usecase.LocationUseCase
	Alerts      repository.AlertRepository
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Toda la API exige identidad de tenant vía headers.
	api := app.Group("/api", TenantMiddleware())

	// Libro de transacciones
	transactions := api.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.LedgerUC, deps.History)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/", transactionHandler.List)
	transactions.Post("/approve-batch", transactionHandler.ApproveBatch)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Put("/:id", transactionHandler.Update)
	transactions.Delete("/:id", transactionHandler.Delete)
	transactions.Post("/:id/approve", transactionHandler.Approve)
	transactions.Post("/:id/reject", transactionHandler.Reject)

	// Saldos, bajo stock y reconciliación
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.ReconcileUC)
	api.Get("/balances/:item_id", inventoryHandler.GetBalance)
	api.Get("/low-stock", inventoryHandler.LowStock)
	api.Post("/reconcile", inventoryHandler.Reconcile)

	// Lotes
	lotHandler := NewLotHandler(deps.LedgerUC)
	api.Get("/components/:component_id/lots", lotHandler.ListAvailable)
	api.Get("/components/:component_id/lots/select", lotHandler.SelectForConsumption)

	// BOM: costeo y disponibilidad
	bomHandler := NewBOMHandler(deps.BOMUC)
	api.Get("/bom/:id/availability", bomHandler.Availability)
	api.Get("/bom/:id/cost", bomHandler.Cost)
	api.Get("/items/:item_id/bom", bomHandler.ActiveVersion)

	// Ubicaciones
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Post("/:id/deactivate", locationHandler.Deactivate)
	locations.Delete("/:id", locationHandler.Delete)

	// Alertas
	alertHandler := NewAlertHandler(deps.Alerts)
	api.Get("/alerts", alertHandler.List)
}
