package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// UpdateTransaction edita en sitio una transacción aprobada del mismo tipo:
// en un único scope atómico revierte los efectos previos (saldos de lote,
// líneas, Balance Store) y vuelve a ejecutar la lógica de creación con los
// valores nuevos, incluida una verificación de disponibilidad fresca
// post-reversa. El id no cambia.
func (uc *UseCase) UpdateTransaction(ctx context.Context, companyID, userID, id string, input CreateTransactionInput) (*CreateResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	item, err := uc.loadItem(ctx, companyID, input)
	if err != nil {
		return nil, err
	}
	if err := uc.resolveLocations(ctx, companyID, &input); err != nil {
		return nil, err
	}

	// Encabezado recreado con los valores nuevos (snapshot de BOM fresco si es build).
	replacement, err := uc.buildHeader(ctx, companyID, userID, item, input)
	if err != nil {
		return nil, err
	}

	opts := applyOptions{AllowInsufficient: input.AllowInsufficient, Overrides: input.LotOverrides}
	result := &CreateResult{}
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		existing, err := r.Transactions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil || existing.DeletedAt != nil {
			return domain.ErrNotFound
		}
		if existing.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if existing.Status != entity.TransactionStatusApproved {
			return domain.ErrAlreadyProcessed
		}
		if existing.Type != input.Type {
			return domain.ErrInvalidInput
		}

		if err := uc.reverse(ctx, r, existing); err != nil {
			return err
		}

		// Conserva identidad y auditoría de creación/revisión.
		replacement.ID = existing.ID
		replacement.Status = entity.TransactionStatusApproved
		replacement.CreatedBy = existing.CreatedBy
		replacement.CreatedAt = existing.CreatedAt
		replacement.ReviewedBy = existing.ReviewedBy
		replacement.ReviewedAt = existing.ReviewedAt
		replacement.UpdatedAt = time.Now()

		warning, shortages, err := uc.apply(ctx, r, replacement, opts)
		if err != nil {
			return err
		}
		result.Warning = warning
		result.Shortages = shortages
		result.Transaction = replacement
		return r.Transactions.Update(ctx, replacement)
	})
	if err != nil {
		return nil, err
	}

	uc.evaluateDefects(ctx, replacement)
	return result, nil
}

// DeleteTransaction elimina una transacción revirtiendo antes TODOS sus
// efectos de libro/saldos/lotes. hard elimina el encabezado (las líneas caen
// en cascada) y sus alertas dependientes; si no, marca borrado lógico.
func (uc *UseCase) DeleteTransaction(ctx context.Context, companyID, userID, id string, hard bool) error {
	return uc.txRunner.Run(ctx, func(r Repos) error {
		tx, err := r.Transactions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		if tx.CompanyID != companyID {
			return domain.ErrForbidden
		}

		// Los borradores no tienen efectos; los aprobados se revierten siempre.
		if tx.Status == entity.TransactionStatusApproved {
			if err := uc.reverse(ctx, r, tx); err != nil {
				return err
			}
		}

		if hard {
			if err := r.Alerts.DeleteByTransaction(ctx, tx.ID); err != nil {
				return err
			}
			return r.Transactions.HardDelete(ctx, tx.ID)
		}
		return r.Transactions.SoftDelete(ctx, tx.ID, userID, time.Now())
	})
}

// reverse deshace los efectos de una transacción materializada, en el orden:
// saldos de lote por el quantity_change original (con signo), borrado de
// líneas, y deltas inversos en el Balance Store según las ubicaciones
// registradas en cada línea (los transfers quedan divididos por signo).
func (uc *UseCase) reverse(ctx context.Context, r Repos, tx *entity.Transaction) error {
	lines, err := r.Lines.ListByTransaction(ctx, tx.ID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.LotID == nil {
			continue
		}
		if err := r.Lots.AdjustBalance(ctx, *line.LotID, line.QuantityChange.Neg()); err != nil {
			return err
		}
		// Las líneas positivas con lote provienen de recibos: la cantidad
		// recibida del lote también se revierte para conservar el invariante
		// recibido − consumido == saldo.
		if line.QuantityChange.GreaterThan(decimal.Zero) {
			if err := r.Lots.AdjustReceived(ctx, *line.LotID, line.QuantityChange.Neg()); err != nil {
				return err
			}
		}
	}
	if err := r.Lines.DeleteByTransaction(ctx, tx.ID); err != nil {
		return err
	}
	for _, line := range lines {
		if err := r.Balances.ApplyDelta(ctx, line.ItemID, line.LocationID, line.QuantityChange.Neg()); err != nil {
			return err
		}
	}
	return nil
}
