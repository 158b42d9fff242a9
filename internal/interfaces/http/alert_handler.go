package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-api/internal/application/dto"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

// AlertHandler lectura de alertas emitidas por el motor. La entrega
// (correo, chat) corre por cuenta del colaborador externo que consulta esto.
type AlertHandler struct {
	alerts repository.AlertRepository
}

// NewAlertHandler construye el handler.
func NewAlertHandler(alerts repository.AlertRepository) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// List alertas recientes de la empresa.
func (h *AlertHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	list, err := h.alerts.ListByCompany(c.Context(), GetCompanyID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AlertDTO, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AlertDTO{
			ID:            a.ID,
			TransactionID: a.TransactionID,
			Type:          a.Type,
			Message:       a.Message,
			CreatedAt:     a.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}
