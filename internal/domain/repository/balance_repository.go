package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// BalanceRepository puerto del Balance Store: saldos materializados por
// (ítem, ubicación). Toda escritura pasa por ApplyDelta — incrementos
// relativos, nunca sobrescritura directa.
type BalanceRepository interface {
	// ApplyDelta crea la fila inicializada en delta si no existe, si no la incrementa.
	// No valida no-negatividad: eso lo hace el caller antes de escribir.
	ApplyDelta(ctx context.Context, itemID, locationID string, delta decimal.Decimal) error
	// Get lectura puntual O(1); fila en cero si no existe.
	Get(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error)
	// GetForUpdate igual que Get pero bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error)
	// Total suma el saldo del ítem en todas las ubicaciones.
	Total(ctx context.Context, itemID string) (decimal.Decimal, error)
	// MapForItems devuelve el mapa completo itemID → saldo, relleno con ceros
	// para los ítems sin fila, en una sola consulta agrupada.
	// locationID vacío agrega todas las ubicaciones.
	MapForItems(ctx context.Context, itemIDs []string, locationID string) (map[string]decimal.Decimal, error)
	// ListByCompany saldos materializados de la empresa (para reconciliación).
	ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryBalance, error)
}
