package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/lots"
)

// LotRepository puerto de persistencia para lotes y sus saldos.
type LotRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// UpsertOnReceipt inserta el lote por (componentId, lotNumber) o, si ya
	// existe, incrementa su cantidad recibida; en ambos casos incrementa el
	// saldo del lote en quantity. Devuelve el lote resultante.
	UpsertOnReceipt(ctx context.Context, lot *entity.Lot, quantity decimal.Decimal) (*entity.Lot, error)
	// ListAvailable lotes con saldo positivo del componente, en orden FEFO
	// (vencimiento ascendente, sin vencimiento al final, empates por creación).
	// excludeExpired descarta lotes vencidos a la fecha asOf.
	ListAvailable(ctx context.Context, componentID string, excludeExpired bool, asOf time.Time) ([]lots.AvailableLot, error)
	// ListAvailableForUpdate igual que ListAvailable bloqueando las filas de saldo.
	ListAvailableForUpdate(ctx context.Context, componentID string, excludeExpired bool, asOf time.Time) ([]lots.AvailableLot, error)
	// AdjustBalance incrementa/decrementa el saldo del lote.
	AdjustBalance(ctx context.Context, lotID string, delta decimal.Decimal) error
	// AdjustReceived incrementa/decrementa la cantidad recibida (reversas de recibos).
	AdjustReceived(ctx context.Context, lotID string, delta decimal.Decimal) error
	// BalancesFor saldos actuales de los lotes dados (validación de overrides).
	BalancesFor(ctx context.Context, lotIDs []string) (map[string]decimal.Decimal, error)
}
