package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-api/internal/application/dto"
	"github.com/jhoicas/Inventario-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de saldos, bajo stock y
// reconciliación.
type InventoryHandler struct {
	uc        *inventory.UseCase
	reconcile *inventory.ReconcileUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, reconcile *inventory.ReconcileUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, reconcile: reconcile}
}

// GetBalance saldo actual de un ítem. ?location_id filtra a una ubicación;
// vacío suma todas.
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	itemID := c.Params("item_id")
	locationID := c.Query("location_id")
	qty, err := h.uc.GetBalance(c.Context(), GetCompanyID(c), itemID, locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceDTO{ItemID: itemID, LocationID: locationID, Quantity: qty})
}

// LowStock componentes en o bajo su punto de reorden con sugerencia de pedido.
// Lo consulta el planificador externo de alertas.
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.uc.LowStock(c.Context(), GetCompanyID(c), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LowStockDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.LowStockDTO{
			ItemID:            s.ItemID,
			Code:              s.Code,
			Name:              s.Name,
			CurrentStock:      s.CurrentStock,
			ReorderPoint:      s.ReorderPoint,
			SuggestedOrderQty: s.SuggestedOrderQty,
			EstimatedCost:     s.EstimatedCost,
			LeadTimeDays:      s.LeadTimeDays,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// Reconcile compara el libro contra los saldos materializados. ?repair=true
// aplica los deltas de reparación. La periodicidad la decide quien llama.
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	repair := c.Query("repair") == "true"
	discrepancies, err := h.reconcile.Reconcile(c.Context(), GetCompanyID(c), repair)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.DiscrepancyDTO, 0, len(discrepancies))
	for _, d := range discrepancies {
		out = append(out, dto.DiscrepancyDTO{
			ItemID:         d.ItemID,
			LocationID:     d.LocationID,
			LedgerQuantity: d.LedgerQuantity,
			StoredQuantity: d.StoredQuantity,
			Diff:           d.Diff,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "repaired": repair, "discrepancies": out})
}
