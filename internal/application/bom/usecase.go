// Package bom expone el verificador de costeo y disponibilidad de builds:
// lecturas puras sobre el Balance Store, sin efectos en el libro.
package bom

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/costing"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

// CheckerUseCase costeo de BOM y chequeo de suficiencia contra inventario disponible.
type CheckerUseCase struct {
	boms     repository.BOMRepository
	balances repository.BalanceRepository
	items    repository.ItemRepository
}

// NewCheckerUseCase construye el verificador.
func NewCheckerUseCase(
	boms repository.BOMRepository,
	balances repository.BalanceRepository,
	items repository.ItemRepository,
) *CheckerUseCase {
	return &CheckerUseCase{boms: boms, balances: balances, items: items}
}

// requirements arma las líneas costeadas de la versión con su disponibilidad
// actual (una sola lectura agrupada, rellena con ceros).
func (uc *CheckerUseCase) requirements(ctx context.Context, companyID, bomVersionID, locationID string) ([]costing.Requirement, error) {
	version, err := uc.boms.GetVersion(ctx, bomVersionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, domain.ErrNotFound
	}
	if version.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	ids := make([]string, 0, len(version.Lines))
	for _, l := range version.Lines {
		ids = append(ids, l.ComponentID)
	}
	components, err := uc.items.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	available, err := uc.balances.MapForItems(ctx, ids, locationID)
	if err != nil {
		return nil, err
	}

	reqs := make([]costing.Requirement, 0, len(version.Lines))
	for _, l := range version.Lines {
		var unitCost decimal.Decimal
		if comp, ok := components[l.ComponentID]; ok {
			unitCost = comp.UnitCost
		}
		reqs = append(reqs, costing.Requirement{
			ComponentID:     l.ComponentID,
			QuantityPerUnit: l.QuantityPerUnit,
			UnitCost:        unitCost,
			Available:       available[l.ComponentID],
		})
	}
	return reqs, nil
}

// CheckInsufficientInventory compara requerido vs disponible por línea para
// fabricar units unidades. Lista vacía = inventario suficiente.
// locationID vacío agrega el stock de todas las ubicaciones.
func (uc *CheckerUseCase) CheckInsufficientInventory(ctx context.Context, companyID, bomVersionID string, units decimal.Decimal, locationID string) ([]domain.Shortage, error) {
	if !units.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	reqs, err := uc.requirements(ctx, companyID, bomVersionID, locationID)
	if err != nil {
		return nil, err
	}
	return costing.Shortages(reqs, units), nil
}

// CalculateMaxBuildableUnits unidades fabricables con el inventario actual.
func (uc *CheckerUseCase) CalculateMaxBuildableUnits(ctx context.Context, companyID, bomVersionID, locationID string) (int64, error) {
	reqs, err := uc.requirements(ctx, companyID, bomVersionID, locationID)
	if err != nil {
		return 0, err
	}
	return costing.MaxBuildableUnits(reqs), nil
}

// CalculateUnitCost costo unitario de fabricación según los costos vigentes.
func (uc *CheckerUseCase) CalculateUnitCost(ctx context.Context, companyID, bomVersionID string) (decimal.Decimal, error) {
	reqs, err := uc.requirements(ctx, companyID, bomVersionID, "")
	if err != nil {
		return decimal.Zero, err
	}
	return costing.UnitCost(reqs), nil
}

// ActiveVersionForItem versión activa del SKU a hoy (atajo para handlers).
func (uc *CheckerUseCase) ActiveVersionForItem(ctx context.Context, companyID, itemID string) (*entity.BOMVersion, error) {
	version, err := uc.boms.GetActiveForItem(ctx, itemID, time.Now())
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, domain.ErrNotFound
	}
	if version.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return version, nil
}
