package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// BOMRepository puerto de persistencia para versiones de BOM (con sus líneas).
type BOMRepository interface {
	GetVersion(ctx context.Context, id string) (*entity.BOMVersion, error)
	// GetActiveForItem versión activa y vigente del SKU a la fecha dada.
	GetActiveForItem(ctx context.Context, itemID string, asOf time.Time) (*entity.BOMVersion, error)
}
