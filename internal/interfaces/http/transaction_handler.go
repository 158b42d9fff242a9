package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/application/dto"
	"github.com/jhoicas/Inventario-api/internal/application/ledger"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

// TransactionHandler maneja las peticiones HTTP del libro de transacciones.
type TransactionHandler struct {
	uc      *ledger.UseCase
	history *ledger.History
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *ledger.UseCase, history *ledger.History) *TransactionHandler {
	return &TransactionHandler{uc: uc, history: history}
}

func toInput(in dto.CreateTransactionRequest) ledger.CreateTransactionInput {
	input := ledger.CreateTransactionInput{
		Type:                in.Type,
		Date:                in.Date,
		ItemID:              in.ItemID,
		Quantity:            in.Quantity,
		LocationID:          in.LocationID,
		FromLocationID:      in.FromLocationID,
		ToLocationID:        in.ToLocationID,
		Reason:              in.Reason,
		LotNumber:           in.LotNumber,
		LotExpiry:           in.LotExpiry,
		UnitCost:            in.UnitCost,
		UpdateItemCost:      in.UpdateItemCost,
		DefectCount:         in.DefectCount,
		RecordFinishedGoods: in.RecordFinishedGoods,
		AllowInsufficient:   in.AllowInsufficient,
		AsDraft:             in.AsDraft,
	}
	if in.Date.IsZero() {
		input.Date = time.Now()
	}
	input.LotOverrides = toOverrides(in.LotOverrides)
	return input
}

func toOverrides(in map[string][]dto.LotOverrideDTO) map[string][]ledger.LotOverride {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]ledger.LotOverride, len(in))
	for componentID, entries := range in {
		converted := make([]ledger.LotOverride, 0, len(entries))
		for _, e := range entries {
			converted = append(converted, ledger.LotOverride{LotID: e.LotID, Quantity: e.Quantity})
		}
		out[componentID] = converted
	}
	return out
}

// Create registra una transacción del libro (o un borrador con as_draft).
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.CreateTransaction(c.Context(), GetCompanyID(c), GetUserID(c), toInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransactionResponse(result.Transaction, result.Warning, result.Shortages))
}

// Update edita en sitio una transacción aprobada del mismo tipo.
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.UpdateTransaction(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), toInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewTransactionResponse(result.Transaction, result.Warning, result.Shortages))
}

// Delete elimina una transacción revirtiendo sus efectos. ?hard=true elimina
// el encabezado; si no, borrado lógico.
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	hard := c.Query("hard") == "true"
	if err := h.uc.DeleteTransaction(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), hard); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Approve aprueba un borrador materializando sus efectos.
func (h *TransactionHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	opts := ledger.ApproveOptions{AllowInsufficient: in.AllowInsufficient, LotOverrides: toOverrides(in.LotOverrides)}
	result, err := h.uc.Approve(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewTransactionResponse(result.Transaction, result.Warning, result.Shortages))
}

// Reject rechaza un borrador sin efectos en el libro.
func (h *TransactionHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Reject(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "borrador rechazado"})
}

// ApproveBatch aprueba borradores en lote; cada uno en su propio scope atómico.
func (h *TransactionHandler) ApproveBatch(c *fiber.Ctx) error {
	var in dto.BatchApproveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	opts := ledger.ApproveOptions{AllowInsufficient: in.AllowInsufficient}
	results := h.uc.ApproveBatch(c.Context(), GetCompanyID(c), GetUserID(c), in.TransactionIDs, opts)

	items := make([]dto.BatchApprovalItemDTO, 0, len(results))
	for _, r := range results {
		item := dto.BatchApprovalItemDTO{TransactionID: r.TransactionID, Approved: r.Err == nil}
		if r.Err != nil {
			item.Error = r.Err.Error()
		}
		items = append(items, item)
	}
	return c.JSON(fiber.Map{"results": items})
}

// GetByID encabezado con sus líneas.
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	tx, lines, err := h.history.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	lineMaps := make([]fiber.Map, 0, len(lines))
	for _, l := range lines {
		lineMaps = append(lineMaps, fiber.Map{
			"item_id":         l.ItemID,
			"location_id":     l.LocationID,
			"quantity_change": l.QuantityChange,
			"unit_cost":       l.UnitCost,
			"lot_id":          l.LotID,
		})
	}
	resp := dto.NewTransactionResponse(tx, false, nil)
	return c.JSON(fiber.Map{"transaction": resp, "lines": lineMaps})
}

// List encabezados de la empresa con filtros opcionales
// (type, status, from, to, limit, offset).
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if filter.Type != "" && !entity.ValidTransactionType(filter.Type) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type inválido"})
	}
	if filter.Status != "" && !entity.ValidTransactionStatus(filter.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status inválido"})
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		filter.To = &t
	}

	list, err := h.history.List(c.Context(), GetCompanyID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, dto.NewTransactionResponse(tx, false, nil))
	}
	return c.JSON(fiber.Map{"total": len(out), "transactions": out})
}

// parseQuantity helper para cantidades en query params.
func parseQuantity(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}
	q, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return q, true
}
