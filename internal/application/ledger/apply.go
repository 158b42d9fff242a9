package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/lots"
)

// applyOptions decisiones del caller al materializar (no viajan en el encabezado).
type applyOptions struct {
	AllowInsufficient bool
	Overrides         map[string][]LotOverride
}

// apply materializa los efectos de un encabezado ya validado: líneas firmadas,
// decrementos de lote y deltas del Balance Store, todo con los repos atados a
// la misma tx. Lo comparten la creación directa, la aprobación de borradores
// y la recreación del editor.
func (uc *UseCase) apply(ctx context.Context, r Repos, tx *entity.Transaction, opts applyOptions) (bool, []domain.Shortage, error) {
	switch tx.Type {
	case entity.TransactionTypeReceipt, entity.TransactionTypeInitial:
		return false, nil, uc.applyReceipt(ctx, r, tx)
	case entity.TransactionTypeAdjustment:
		return false, nil, uc.applyAdjustment(ctx, r, tx)
	case entity.TransactionTypeTransfer:
		return false, nil, uc.applyTransfer(ctx, r, tx)
	case entity.TransactionTypeOutbound:
		return false, nil, uc.applyOutbound(ctx, r, tx)
	case entity.TransactionTypeBuild:
		return uc.applyBuild(ctx, r, tx, opts)
	}
	return false, nil, domain.ErrInvalidInput
}

// applyReceipt entrada positiva en la ubicación destino; opcionalmente crea o
// incrementa el lote (componentId, lotNumber) y sobrescribe el costo estándar
// del ítem. Initial comparte esta lógica: es un saldo de apertura.
func (uc *UseCase) applyReceipt(ctx context.Context, r Repos, tx *entity.Transaction) error {
	loc := *tx.LocationID
	unitCost, err := uc.lineCost(ctx, r, tx)
	if err != nil {
		return err
	}

	var lotID *string
	if tx.LotNumber != "" {
		lot, err := r.Lots.UpsertOnReceipt(ctx, &entity.Lot{
			CompanyID:   tx.CompanyID,
			ComponentID: tx.ItemID,
			LotNumber:   tx.LotNumber,
			ExpiryDate:  tx.LotExpiry,
		}, tx.Quantity)
		if err != nil {
			return err
		}
		lotID = &lot.ID
	}

	if err := uc.writeLine(ctx, r, tx, tx.ItemID, loc, tx.Quantity, unitCost, lotID); err != nil {
		return err
	}
	if err := r.Balances.ApplyDelta(ctx, tx.ItemID, loc, tx.Quantity); err != nil {
		return err
	}
	if tx.UpdateItemCost && tx.UnitCost != nil {
		return r.Items.UpdateUnitCost(ctx, tx.ItemID, *tx.UnitCost)
	}
	return nil
}

// applyAdjustment delta con signo en cualquier dirección; sin lotes.
func (uc *UseCase) applyAdjustment(ctx context.Context, r Repos, tx *entity.Transaction) error {
	loc := *tx.LocationID
	unitCost, err := uc.lineCost(ctx, r, tx)
	if err != nil {
		return err
	}
	if err := uc.writeLine(ctx, r, tx, tx.ItemID, loc, tx.Quantity, unitCost, nil); err != nil {
		return err
	}
	return r.Balances.ApplyDelta(ctx, tx.ItemID, loc, tx.Quantity)
}

// applyTransfer dos líneas (negativa en origen, positiva en destino) y dos
// deltas. La disponibilidad en origen se verifica bajo FOR UPDATE justo antes
// de escribir, dentro del mismo scope.
func (uc *UseCase) applyTransfer(ctx context.Context, r Repos, tx *entity.Transaction) error {
	from, to := *tx.FromLocationID, *tx.ToLocationID

	balance, err := r.Balances.GetForUpdate(ctx, tx.ItemID, from)
	if err != nil {
		return err
	}
	if balance.Quantity.LessThan(tx.Quantity) {
		return &domain.InsufficientStockError{Shortages: []domain.Shortage{{
			ComponentID: tx.ItemID,
			Required:    tx.Quantity,
			Available:   balance.Quantity,
			Shortage:    tx.Quantity.Sub(balance.Quantity),
		}}}
	}

	unitCost, err := uc.lineCost(ctx, r, tx)
	if err != nil {
		return err
	}
	if err := uc.writeLine(ctx, r, tx, tx.ItemID, from, tx.Quantity.Neg(), unitCost, nil); err != nil {
		return err
	}
	if err := uc.writeLine(ctx, r, tx, tx.ItemID, to, tx.Quantity, unitCost, nil); err != nil {
		return err
	}
	if err := r.Balances.ApplyDelta(ctx, tx.ItemID, from, tx.Quantity.Neg()); err != nil {
		return err
	}
	return r.Balances.ApplyDelta(ctx, tx.ItemID, to, tx.Quantity)
}

// applyOutbound salida de producto terminado; exige saldo suficiente.
func (uc *UseCase) applyOutbound(ctx context.Context, r Repos, tx *entity.Transaction) error {
	loc := *tx.LocationID
	balance, err := r.Balances.GetForUpdate(ctx, tx.ItemID, loc)
	if err != nil {
		return err
	}
	if balance.Quantity.LessThan(tx.Quantity) {
		return &domain.InsufficientStockError{Shortages: []domain.Shortage{{
			ComponentID: tx.ItemID,
			Required:    tx.Quantity,
			Available:   balance.Quantity,
			Shortage:    tx.Quantity.Sub(balance.Quantity),
		}}}
	}
	unitCost, err := uc.lineCost(ctx, r, tx)
	if err != nil {
		return err
	}
	if err := uc.writeLine(ctx, r, tx, tx.ItemID, loc, tx.Quantity.Neg(), unitCost, nil); err != nil {
		return err
	}
	return r.Balances.ApplyDelta(ctx, tx.ItemID, loc, tx.Quantity.Neg())
}

// applyBuild consume los componentes del snapshot congelado (FEFO o
// asignación manual), con la revalidación de disponibilidad contra los saldos
// ACTUALES dentro del mismo scope — la misma ruta sirve a la aprobación de
// borradores. Si hay faltantes y AllowInsufficient, una línea agrupada
// negativa absorbe el déficit y el caller recibe warning más la lista
// detallada; si no, falla cerrado sin escribir nada.
func (uc *UseCase) applyBuild(ctx context.Context, r Repos, tx *entity.Transaction, opts applyOptions) (bool, []domain.Shortage, error) {
	if len(tx.BOMSnapshot) == 0 {
		return false, nil, domain.ErrInvalidInput
	}
	loc := *tx.LocationID
	units := tx.Quantity

	if len(opts.Overrides) > 0 {
		if err := uc.checkOverrides(ctx, r, tx, opts.Overrides); err != nil {
			return false, nil, err
		}
	}

	ids := make([]string, 0, len(tx.BOMSnapshot))
	for _, sl := range tx.BOMSnapshot {
		ids = append(ids, sl.ComponentID)
	}
	available, err := r.Balances.MapForItems(ctx, ids, loc)
	if err != nil {
		return false, nil, err
	}

	var shortages []domain.Shortage
	for _, sl := range tx.BOMSnapshot {
		required := sl.QuantityPerUnit.Mul(units)
		if avail := available[sl.ComponentID]; avail.LessThan(required) {
			shortages = append(shortages, domain.Shortage{
				ComponentID: sl.ComponentID,
				Required:    required,
				Available:   avail,
				Shortage:    required.Sub(avail),
			})
		}
	}
	if len(shortages) > 0 && !opts.AllowInsufficient {
		return false, nil, &domain.InsufficientStockError{Shortages: shortages}
	}

	for _, sl := range tx.BOMSnapshot {
		required := sl.QuantityPerUnit.Mul(units)
		if err := uc.consumeComponent(ctx, r, tx, sl, loc, required, opts.Overrides[sl.ComponentID]); err != nil {
			return false, nil, err
		}
		if err := r.Balances.ApplyDelta(ctx, sl.ComponentID, loc, required.Neg()); err != nil {
			return false, nil, err
		}
	}

	if tx.RecordFinishedGoods {
		if err := uc.writeLine(ctx, r, tx, tx.ItemID, loc, units, tx.BuildUnitCost, nil); err != nil {
			return false, nil, err
		}
		if err := r.Balances.ApplyDelta(ctx, tx.ItemID, loc, units); err != nil {
			return false, nil, err
		}
	}
	return len(shortages) > 0, shortages, nil
}

// consumeComponent emite las líneas de consumo de un componente: asignación
// manual si existe, si no FEFO sobre los lotes disponibles (vencidos
// excluidos, filas bloqueadas) con línea residual agrupada por el faltante.
// Componentes sin lotes registrados van directo a una línea agrupada.
func (uc *UseCase) consumeComponent(
	ctx context.Context,
	r Repos,
	tx *entity.Transaction,
	sl entity.BOMSnapshotLine,
	loc string,
	required decimal.Decimal,
	overrides []LotOverride,
) error {
	if len(overrides) > 0 {
		for _, o := range overrides {
			lotID := o.LotID
			if err := uc.writeLine(ctx, r, tx, sl.ComponentID, loc, o.Quantity.Neg(), sl.UnitCost, &lotID); err != nil {
				return err
			}
			if err := r.Lots.AdjustBalance(ctx, lotID, o.Quantity.Neg()); err != nil {
				return err
			}
		}
		return nil
	}

	availableLots, err := r.Lots.ListAvailableForUpdate(ctx, sl.ComponentID, true, tx.Date)
	if err != nil {
		return err
	}
	if len(availableLots) == 0 {
		// Inventario agrupado: el componente no rastrea lotes.
		return uc.writeLine(ctx, r, tx, sl.ComponentID, loc, required.Neg(), sl.UnitCost, nil)
	}

	// El residuo no cubierto por lotes se registra sin lote: corresponde a la
	// porción agrupada del componente (la puerta de disponibilidad ya corrió
	// contra el Balance Store).
	alloc, err := lots.Select(sl.ComponentID, availableLots, required, true)
	if err != nil {
		return err
	}
	for _, e := range alloc.Entries {
		lotID := e.LotID
		if err := uc.writeLine(ctx, r, tx, sl.ComponentID, loc, e.Quantity.Neg(), sl.UnitCost, &lotID); err != nil {
			return err
		}
		if err := r.Lots.AdjustBalance(ctx, lotID, e.Quantity.Neg()); err != nil {
			return err
		}
	}
	if alloc.Shortfall.GreaterThan(decimal.Zero) {
		return uc.writeLine(ctx, r, tx, sl.ComponentID, loc, alloc.Shortfall.Neg(), sl.UnitCost, nil)
	}
	return nil
}

// checkOverrides valida cada asignación manual — existencia del lote,
// componente y empresa correctos, saldo suficiente y cobertura exacta de lo
// requerido — acumulando TODAS las violaciones en un solo error.
func (uc *UseCase) checkOverrides(ctx context.Context, r Repos, tx *entity.Transaction, overrides map[string][]LotOverride) error {
	requiredBy := make(map[string]decimal.Decimal, len(tx.BOMSnapshot))
	for _, sl := range tx.BOMSnapshot {
		requiredBy[sl.ComponentID] = sl.QuantityPerUnit.Mul(tx.Quantity)
	}

	var lotIDs []string
	for _, list := range overrides {
		for _, o := range list {
			lotIDs = append(lotIDs, o.LotID)
		}
	}
	balances, err := r.Lots.BalancesFor(ctx, lotIDs)
	if err != nil {
		return err
	}

	var violations []domain.LotOverrideViolation
	for componentID, list := range overrides {
		required, inBOM := requiredBy[componentID]
		if !inBOM {
			violations = append(violations, domain.LotOverrideViolation{
				ComponentID: componentID,
				Reason:      "el componente no pertenece a la BOM del build",
			})
			continue
		}
		total := decimal.Zero
		for _, o := range list {
			total = total.Add(o.Quantity)
			lot, err := r.Lots.GetByID(ctx, o.LotID)
			if err != nil {
				return err
			}
			switch {
			case lot == nil:
				violations = append(violations, domain.LotOverrideViolation{
					ComponentID: componentID, LotID: o.LotID, Reason: "el lote no existe",
				})
				continue
			case lot.CompanyID != tx.CompanyID:
				violations = append(violations, domain.LotOverrideViolation{
					ComponentID: componentID, LotID: o.LotID, Reason: "el lote pertenece a otra empresa",
				})
				continue
			case lot.ComponentID != componentID:
				violations = append(violations, domain.LotOverrideViolation{
					ComponentID: componentID, LotID: o.LotID, Reason: "el lote pertenece a otro componente",
				})
				continue
			}
			if !o.Quantity.GreaterThan(decimal.Zero) {
				violations = append(violations, domain.LotOverrideViolation{
					ComponentID: componentID, LotID: o.LotID, Reason: "cantidad inválida",
				})
			} else if balances[o.LotID].LessThan(o.Quantity) {
				violations = append(violations, domain.LotOverrideViolation{
					ComponentID: componentID, LotID: o.LotID, Reason: "saldo del lote insuficiente",
				})
			}
		}
		if !total.Equal(required) {
			violations = append(violations, domain.LotOverrideViolation{
				ComponentID: componentID,
				Reason:      "la asignación manual no cubre exactamente la cantidad requerida",
			})
		}
	}
	if len(violations) > 0 {
		return &domain.LotOverrideError{Violations: violations}
	}
	return nil
}

// lineCost costo unitario a estampar en la línea: el del encabezado si vino,
// si no el costo estándar vigente del ítem.
func (uc *UseCase) lineCost(ctx context.Context, r Repos, tx *entity.Transaction) (decimal.Decimal, error) {
	if tx.UnitCost != nil {
		return *tx.UnitCost, nil
	}
	item, err := r.Items.GetByID(ctx, tx.ItemID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return item.UnitCost, nil
}

func (uc *UseCase) writeLine(
	ctx context.Context,
	r Repos,
	tx *entity.Transaction,
	itemID, locationID string,
	quantityChange, unitCost decimal.Decimal,
	lotID *string,
) error {
	return r.Lines.Create(ctx, &entity.TransactionLine{
		ID:             uuid.New().String(),
		TransactionID:  tx.ID,
		ItemID:         itemID,
		LocationID:     locationID,
		QuantityChange: quantityChange,
		UnitCost:       unitCost,
		LotID:          lotID,
		CreatedAt:      time.Now(),
	})
}
