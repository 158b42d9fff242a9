package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLine línea inmutable del libro: un cambio de cantidad con signo,
// atado a una transacción y opcionalmente a un lote. El saldo materializado de
// (ítem, ubicación) es siempre la suma de sus líneas.
type TransactionLine struct {
	ID             string
	TransactionID  string
	ItemID         string
	LocationID     string
	QuantityChange decimal.Decimal // positivo entrada, negativo salida
	UnitCost       decimal.Decimal // costo unitario al momento del movimiento
	LotID          *string         // nil = inventario agrupado (sin lote)
	CreatedAt      time.Time
}
