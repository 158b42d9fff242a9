package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/application/ledger"
	"github.com/jhoicas/Inventario-api/pkg/logger"
)

// Discrepancy par (ítem, ubicación) donde el saldo materializado difiere de
// la suma de líneas del libro.
type Discrepancy struct {
	ItemID         string
	LocationID     string
	LedgerQuantity decimal.Decimal
	StoredQuantity decimal.Decimal
	Diff           decimal.Decimal // ledger − stored; el delta de reparación
}

// ReconcileUseCase verifica el invariante saldo == Σ(quantity_change) y
// opcionalmente lo repara. Los saldos materializados son la fuente de verdad
// para lecturas; esta verificación existe para detectar el día en que una
// línea se escriba sin su delta (o viceversa).
type ReconcileUseCase struct {
	txRunner ledger.TxRunner
	log      *logger.Logger
}

// NewReconcileUseCase construye el reconciliador.
func NewReconcileUseCase(txRunner ledger.TxRunner, log *logger.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{txRunner: txRunner, log: log}
}

// Reconcile compara, por cada (ítem, ubicación) de la empresa, la suma de
// líneas del libro contra el saldo materializado. Con repair aplica el delta
// faltante vía ApplyDelta — nunca sobrescribe — dentro del mismo scope
// atómico de la comparación. La periodicidad la controla un scheduler externo.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, companyID string, repair bool) ([]Discrepancy, error) {
	var discrepancies []Discrepancy
	err := uc.txRunner.Run(ctx, func(r ledger.Repos) error {
		ledgerSums, err := r.Lines.SumByItemLocation(ctx, companyID)
		if err != nil {
			return err
		}
		stored, err := r.Balances.ListByCompany(ctx, companyID)
		if err != nil {
			return err
		}

		fromLedger := balanceMap(ledgerSums)
		fromStore := balanceMap(stored)

		keys := make(map[aggregateKey]struct{}, len(fromLedger)+len(fromStore))
		for k := range fromLedger {
			keys[k] = struct{}{}
		}
		for k := range fromStore {
			keys[k] = struct{}{}
		}

		for k := range keys {
			ledgerQty := fromLedger[k]
			storedQty := fromStore[k]
			if ledgerQty.Equal(storedQty) {
				continue
			}
			d := Discrepancy{
				ItemID:         k.ItemID,
				LocationID:     k.LocationID,
				LedgerQuantity: ledgerQty,
				StoredQuantity: storedQty,
				Diff:           ledgerQty.Sub(storedQty),
			}
			discrepancies = append(discrepancies, d)
			if repair {
				if err := r.Balances.ApplyDelta(ctx, k.ItemID, k.LocationID, d.Diff); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range discrepancies {
		uc.log.Warn().
			Str("item_id", d.ItemID).
			Str("location_id", d.LocationID).
			Str("ledger", d.LedgerQuantity.String()).
			Str("stored", d.StoredQuantity.String()).
			Bool("repaired", repair).
			Msg("saldo materializado fuera de línea con el libro")
	}
	return discrepancies, nil
}
