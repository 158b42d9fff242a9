package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote de un componente, único por (componentId, lotNumber).
// Recibos posteriores con el mismo número incrementan ReceivedQuantity.
type Lot struct {
	ID               string
	CompanyID        string
	ComponentID      string
	LotNumber        string
	ExpiryDate       *time.Time // nil = sin vencimiento (se consume al final en FEFO)
	ReceivedQuantity decimal.Decimal
	CreatedAt        time.Time
}

// Expired indica si el lote está vencido a la fecha dada.
func (l *Lot) Expired(asOf time.Time) bool {
	return l.ExpiryDate != nil && l.ExpiryDate.Before(asOf)
}

// LotBalance cantidad restante de un lote (1:1 con Lot).
// Se muta únicamente vía incrementos/decrementos atómicos junto a la línea que los explica.
type LotBalance struct {
	LotID     string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
