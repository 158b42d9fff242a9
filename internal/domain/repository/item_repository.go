package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// LowStockItem componente en o bajo su punto de reorden.
type LowStockItem struct {
	ItemID       string
	Code         string
	Name         string
	CurrentStock decimal.Decimal
	ReorderPoint decimal.Decimal
	UnitCost     decimal.Decimal
	LeadTimeDays *int
}

// ItemRepository puerto de persistencia para ítems (componentes y SKUs).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetManyByIDs ítems por id, en un solo query (costeo de builds).
	GetManyByIDs(ctx context.Context, ids []string) (map[string]*entity.Item, error)
	// UpdateUnitCost sobrescribe el costo estándar vigente.
	UpdateUnitCost(ctx context.Context, id string, cost decimal.Decimal) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error)
	// ListBelowReorderPoint componentes bajo punto de reorden con su stock
	// actual agregado. locationID vacío = stock global de la empresa.
	ListBelowReorderPoint(ctx context.Context, companyID, locationID string) ([]LowStockItem, error)
}
