package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBalance stock materializado por (ítem, ubicación).
// Invariante central: siempre igual a la suma de los quantity_change de las
// líneas del libro para ese par. Solo se muta vía deltas relativos, nunca
// por sobrescritura directa.
type InventoryBalance struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
