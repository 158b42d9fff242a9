package repository

import (
	"context"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// LocationRepository puerto de persistencia para ubicaciones.
// Las reglas de la ubicación por defecto (única por empresa, no desactivable,
// no eliminable) se aplican en el caso de uso antes de llamar aquí.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetDefault(ctx context.Context, companyID string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	Delete(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Location, error)
}
