package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-api/internal/application/dto"
	"github.com/jhoicas/Inventario-api/internal/application/ledger"
	"github.com/jhoicas/Inventario-api/internal/domain/lots"
)

// LotHandler maneja las peticiones HTTP de lotes.
type LotHandler struct {
	uc *ledger.UseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *ledger.UseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// ListAvailable lotes con saldo positivo de un componente en orden FEFO.
// ?include_expired=true incluye los vencidos.
func (h *LotHandler) ListAvailable(c *fiber.Ctx) error {
	excludeExpired := c.Query("include_expired") != "true"
	list, err := h.uc.ListAvailableLots(c.Context(), GetCompanyID(c), c.Params("component_id"), excludeExpired)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AvailableLotDTO, 0, len(list))
	for _, l := range list {
		out = append(out, dto.AvailableLotDTO{LotID: l.LotID, ExpiryDate: l.ExpiryDate, Quantity: l.Quantity})
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// SelectForConsumption simula una selección FEFO para ?required sin escribir
// nada. ?allow_insufficient=true devuelve la asignación parcial con faltante.
func (h *LotHandler) SelectForConsumption(c *fiber.Ctx) error {
	required, ok := parseQuantity(c.Query("required"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "required inválido"})
	}
	allowInsufficient := c.Query("allow_insufficient") == "true"

	allocation, err := h.uc.SelectForConsumption(c.Context(), GetCompanyID(c), c.Params("component_id"), required, allowInsufficient)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAllocationDTO(allocation))
}

func toAllocationDTO(a lots.Allocation) dto.AllocationDTO {
	out := dto.AllocationDTO{Shortfall: a.Shortfall, Covered: a.Covered()}
	for _, e := range a.Entries {
		out.Entries = append(out.Entries, dto.AllocationEntryDTO{LotID: e.LotID, Quantity: e.Quantity})
	}
	return out
}
