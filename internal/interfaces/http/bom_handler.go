package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-api/internal/application/bom"
	"github.com/jhoicas/Inventario-api/internal/application/dto"
)

// BOMHandler maneja las peticiones HTTP de costeo y disponibilidad de BOM.
type BOMHandler struct {
	uc *bom.CheckerUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *bom.CheckerUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Availability suficiencia de inventario para fabricar ?units unidades con la
// versión dada. ?location_id filtra a una ubicación; vacío agrega todas.
func (h *BOMHandler) Availability(c *fiber.Ctx) error {
	units, ok := parseQuantity(c.Query("units"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "units inválido"})
	}
	versionID := c.Params("id")
	shortages, err := h.uc.CheckInsufficientInventory(c.Context(), GetCompanyID(c), versionID, units, c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.BOMAvailabilityDTO{
		BOMVersionID: versionID,
		Units:        units,
		Sufficient:   len(shortages) == 0,
	}
	for _, s := range shortages {
		out.Shortages = append(out.Shortages, dto.ShortageDTO{
			ComponentID: s.ComponentID,
			Required:    s.Required,
			Available:   s.Available,
			Shortage:    s.Shortage,
		})
	}
	return c.JSON(out)
}

// Cost costo unitario de fabricación y unidades fabricables con el stock actual.
func (h *BOMHandler) Cost(c *fiber.Ctx) error {
	versionID := c.Params("id")
	companyID := GetCompanyID(c)

	unitCost, err := h.uc.CalculateUnitCost(c.Context(), companyID, versionID)
	if err != nil {
		return respondError(c, err)
	}
	maxUnits, err := h.uc.CalculateMaxBuildableUnits(c.Context(), companyID, versionID, c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BOMCostDTO{BOMVersionID: versionID, UnitCost: unitCost, MaxBuildableUnits: maxUnits})
}

// ActiveVersion versión activa de la BOM de un SKU a hoy.
func (h *BOMHandler) ActiveVersion(c *fiber.Ctx) error {
	version, err := h.uc.ActiveVersionForItem(c.Context(), GetCompanyID(c), c.Params("item_id"))
	if err != nil {
		return respondError(c, err)
	}
	lines := make([]fiber.Map, 0, len(version.Lines))
	for _, l := range version.Lines {
		lines = append(lines, fiber.Map{
			"component_id":      l.ComponentID,
			"quantity_per_unit": l.QuantityPerUnit,
		})
	}
	return c.JSON(fiber.Map{
		"id":      version.ID,
		"item_id": version.ItemID,
		"version": version.Version,
		"lines":   lines,
	})
}
