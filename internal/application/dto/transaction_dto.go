package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// LotOverrideDTO asignación manual de un lote para un componente.
type LotOverrideDTO struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateTransactionRequest cuerpo para crear o editar una transacción del libro.
// Los campos aplican según type: receipt/initial (lot_number, unit_cost),
// adjustment (reason obligatorio, quantity con signo), transfer (from/to),
// build (defect_count, record_finished_goods, lot_overrides), outbound.
type CreateTransactionRequest struct {
	Type     string          `json:"type"`
	Date     time.Time       `json:"date"`
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`

	LocationID     string `json:"location_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`

	Reason string `json:"reason"`

	LotNumber string     `json:"lot_number"`
	LotExpiry *time.Time `json:"lot_expiry"`

	UnitCost       *decimal.Decimal `json:"unit_cost"`
	UpdateItemCost bool             `json:"update_item_cost"`

	DefectCount         int                         `json:"defect_count"`
	RecordFinishedGoods bool                        `json:"record_finished_goods"`
	AllowInsufficient   bool                        `json:"allow_insufficient"`
	LotOverrides        map[string][]LotOverrideDTO `json:"lot_overrides"`

	AsDraft bool `json:"as_draft"`
}

// ApproveRequest decisiones del revisor al aprobar.
type ApproveRequest struct {
	AllowInsufficient bool                        `json:"allow_insufficient"`
	LotOverrides      map[string][]LotOverrideDTO `json:"lot_overrides"`
}

// RejectRequest motivo del rechazo.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// BatchApproveRequest aprobación en lote.
type BatchApproveRequest struct {
	TransactionIDs    []string `json:"transaction_ids"`
	AllowInsufficient bool     `json:"allow_insufficient"`
}

// ShortageDTO faltante de un componente.
type ShortageDTO struct {
	ComponentID string          `json:"component_id"`
	Required    decimal.Decimal `json:"required"`
	Available   decimal.Decimal `json:"available"`
	Shortage    decimal.Decimal `json:"shortage"`
}

// TransactionResponse encabezado serializado más advertencia de insuficiencia.
type TransactionResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Date      time.Time       `json:"date"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Warning   bool            `json:"warning,omitempty"`
	Shortages []ShortageDTO   `json:"shortages,omitempty"`
}

// NewTransactionResponse arma la respuesta desde la entidad.
func NewTransactionResponse(tx *entity.Transaction, warning bool, shortages []domain.Shortage) TransactionResponse {
	resp := TransactionResponse{
		ID:       tx.ID,
		Type:     tx.Type,
		Status:   tx.Status,
		Date:     tx.Date,
		ItemID:   tx.ItemID,
		Quantity: tx.Quantity,
		Warning:  warning,
	}
	for _, s := range shortages {
		resp.Shortages = append(resp.Shortages, ShortageDTO{
			ComponentID: s.ComponentID,
			Required:    s.Required,
			Available:   s.Available,
			Shortage:    s.Shortage,
		})
	}
	return resp
}

// BatchApprovalItemDTO resultado individual de una aprobación en lote.
type BatchApprovalItemDTO struct {
	TransactionID string `json:"transaction_id"`
	Approved      bool   `json:"approved"`
	Error         string `json:"error,omitempty"`
}
