// Package inventory expone las lecturas del Balance Store (fuente única de
// verdad para saldos actuales; el libro es historia write-only), el listado de
// bajo stock que consume el planificador externo de alertas, y la
// reconciliación libro↔saldos.
package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

// UseCase lecturas de saldos y bajo stock.
type UseCase struct {
	balances repository.BalanceRepository
	items    repository.ItemRepository
}

// NewUseCase construye el caso de uso de lecturas.
func NewUseCase(balances repository.BalanceRepository, items repository.ItemRepository) *UseCase {
	return &UseCase{balances: balances, items: items}
}

// GetBalance saldo actual de un ítem: lectura puntual O(1) si hay ubicación,
// si no la suma materializada de todas las ubicaciones.
func (uc *UseCase) GetBalance(ctx context.Context, companyID, itemID, locationID string) (decimal.Decimal, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return decimal.Zero, domain.ErrForbidden
	}
	if locationID != "" {
		balance, err := uc.balances.Get(ctx, itemID, locationID)
		if err != nil {
			return decimal.Zero, err
		}
		return balance.Quantity, nil
	}
	return uc.balances.Total(ctx, itemID)
}

// GetBalances mapa itemID → saldo, relleno con ceros, en una sola consulta.
func (uc *UseCase) GetBalances(ctx context.Context, itemIDs []string, locationID string) (map[string]decimal.Decimal, error) {
	return uc.balances.MapForItems(ctx, itemIDs, locationID)
}

// LowStockSuggestion componente bajo reorden con cantidad sugerida de pedido.
type LowStockSuggestion struct {
	ItemID            string
	Code              string
	Name              string
	CurrentStock      decimal.Decimal
	ReorderPoint      decimal.Decimal
	SuggestedOrderQty decimal.Decimal
	EstimatedCost     decimal.Decimal
	LeadTimeDays      *int
}

// LowStock componentes en o bajo su punto de reorden, con cantidad sugerida
// (stock ideal = 1.5 × punto de reorden) y costo estimado, ordenados por
// déficit descendente. El planificador externo de alertas consulta esto en el
// horario que él controla.
func (uc *UseCase) LowStock(ctx context.Context, companyID, locationID string) ([]LowStockSuggestion, error) {
	raw, err := uc.items.ListBelowReorderPoint(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	ideal := decimal.NewFromFloat(1.5)

	suggestions := make([]LowStockSuggestion, 0, len(raw))
	for _, it := range raw {
		suggested := it.ReorderPoint.Mul(ideal).Sub(it.CurrentStock)
		if suggested.LessThan(decimal.Zero) {
			suggested = decimal.Zero
		}
		suggestions = append(suggestions, LowStockSuggestion{
			ItemID:            it.ItemID,
			Code:              it.Code,
			Name:              it.Name,
			CurrentStock:      it.CurrentStock,
			ReorderPoint:      it.ReorderPoint,
			SuggestedOrderQty: suggested,
			EstimatedCost:     suggested.Mul(it.UnitCost),
			LeadTimeDays:      it.LeadTimeDays,
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		defI := suggestions[i].ReorderPoint.Sub(suggestions[i].CurrentStock)
		defJ := suggestions[j].ReorderPoint.Sub(suggestions[j].CurrentStock)
		return defI.GreaterThan(defJ)
	})
	return suggestions, nil
}

// aggregateKey clave (ítem, ubicación) para los mapas de reconciliación.
type aggregateKey struct {
	ItemID     string
	LocationID string
}

func balanceMap(rows []*entity.InventoryBalance) map[aggregateKey]decimal.Decimal {
	m := make(map[aggregateKey]decimal.Decimal, len(rows))
	for _, row := range rows {
		m[aggregateKey{row.ItemID, row.LocationID}] = row.Quantity
	}
	return m
}
