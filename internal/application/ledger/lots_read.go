package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/lots"
)

// ListAvailableLots lotes con saldo positivo de un componente en orden FEFO.
// excludeExpired descarta los vencidos a hoy.
func (uc *UseCase) ListAvailableLots(ctx context.Context, companyID, componentID string, excludeExpired bool) ([]lots.AvailableLot, error) {
	if err := uc.checkComponent(ctx, companyID, componentID); err != nil {
		return nil, err
	}
	return uc.lots.ListAvailable(ctx, componentID, excludeExpired, time.Now())
}

// SelectForConsumption simula una selección FEFO para la cantidad requerida
// sin escribir nada: la asignación resultante puede usarse como propuesta o
// como base de una asignación manual. Con allowInsufficient=false falla con
// InsufficientLotError si los lotes no alcanzan.
func (uc *UseCase) SelectForConsumption(ctx context.Context, companyID, componentID string, required decimal.Decimal, allowInsufficient bool) (lots.Allocation, error) {
	if err := uc.checkComponent(ctx, companyID, componentID); err != nil {
		return lots.Allocation{}, err
	}
	available, err := uc.lots.ListAvailable(ctx, componentID, true, time.Now())
	if err != nil {
		return lots.Allocation{}, err
	}
	return lots.Select(componentID, available, required, allowInsufficient)
}

func (uc *UseCase) checkComponent(ctx context.Context, companyID, componentID string) error {
	item, err := uc.items.GetByID(ctx, componentID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if item.Type != entity.ItemTypeComponent {
		return domain.ErrInvalidInput
	}
	return nil
}
