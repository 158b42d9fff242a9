package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvailableLotDTO lote con saldo positivo, en orden FEFO.
type AvailableLotDTO struct {
	LotID      string          `json:"lot_id"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// AllocationEntryDTO cantidad tomada de un lote en una selección.
type AllocationEntryDTO struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocationDTO resultado de una selección FEFO simulada. Covered es la
// cantidad cubierta por los lotes; Shortfall lo que quedó sin cubrir.
type AllocationDTO struct {
	Entries   []AllocationEntryDTO `json:"entries"`
	Shortfall decimal.Decimal      `json:"shortfall"`
	Covered   decimal.Decimal      `json:"covered"`
}
