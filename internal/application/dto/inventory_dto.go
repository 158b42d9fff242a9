package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceDTO saldo de un par (ítem, ubicación).
type BalanceDTO struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// LowStockDTO componente bajo reorden con sugerencia de pedido.
type LowStockDTO struct {
	ItemID            string          `json:"item_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	LeadTimeDays      *int            `json:"lead_time_days,omitempty"`
}

// DiscrepancyDTO desfase libro↔saldo detectado por la reconciliación.
type DiscrepancyDTO struct {
	ItemID         string          `json:"item_id"`
	LocationID     string          `json:"location_id"`
	LedgerQuantity decimal.Decimal `json:"ledger_quantity"`
	StoredQuantity decimal.Decimal `json:"stored_quantity"`
	Diff           decimal.Decimal `json:"diff"`
}

// AlertDTO alerta emitida por el motor.
type AlertDTO struct {
	ID            string    `json:"id"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}
