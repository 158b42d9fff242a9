package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

var _ repository.TransactionLineRepository = (*TransactionLineRepo)(nil)

// TransactionLineRepo líneas del libro sobre PostgreSQL (usable con pool o tx).
type TransactionLineRepo struct {
	q Querier
}

// NewTransactionLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionLineRepository(q Querier) *TransactionLineRepo {
	return &TransactionLineRepo{q: q}
}

// Create inserta una línea. Las líneas nunca se actualizan: solo se insertan
// al aplicar y se borran en bloque al revertir su transacción.
func (r *TransactionLineRepo) Create(ctx context.Context, line *entity.TransactionLine) error {
	query := `
		INSERT INTO transaction_lines (id, transaction_id, item_id, location_id, quantity_change, unit_cost, lot_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.TransactionID, line.ItemID, line.LocationID,
		line.QuantityChange, line.UnitCost, line.LotID,
	)
	if err != nil {
		return fmt.Errorf("create transaction line: %w", err)
	}
	return nil
}

// ListByTransaction líneas de una transacción en orden de inserción.
func (r *TransactionLineRepo) ListByTransaction(ctx context.Context, transactionID string) ([]*entity.TransactionLine, error) {
	query := `
		SELECT id, transaction_id, item_id, location_id, quantity_change, unit_cost, lot_id, created_at
		FROM transaction_lines WHERE transaction_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransactionLine
	for rows.Next() {
		var l entity.TransactionLine
		err := rows.Scan(&l.ID, &l.TransactionID, &l.ItemID, &l.LocationID,
			&l.QuantityChange, &l.UnitCost, &l.LotID, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// DeleteByTransaction borra todas las líneas de una transacción (reversa).
func (r *TransactionLineRepo) DeleteByTransaction(ctx context.Context, transactionID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1`, transactionID); err != nil {
		return fmt.Errorf("delete transaction lines: %w", err)
	}
	return nil
}

// SumByItemLocation suma de quantity_change por (ítem, ubicación) de la empresa,
// contando solo transacciones aprobadas y no borradas. Es la vista derivada del
// libro contra la que se reconcilian los saldos materializados.
func (r *TransactionLineRepo) SumByItemLocation(ctx context.Context, companyID string) ([]*entity.InventoryBalance, error) {
	query := `
		SELECT l.item_id, l.location_id, SUM(l.quantity_change), MAX(l.created_at)
		FROM transaction_lines l
		JOIN transactions t ON t.id = l.transaction_id
		WHERE t.company_id = $1 AND t.status = $2 AND t.deleted_at IS NULL
		GROUP BY l.item_id, l.location_id`
	rows, err := r.q.Query(ctx, query, companyID, entity.TransactionStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("sum transaction lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBalance
	for rows.Next() {
		var b entity.InventoryBalance
		if err := rows.Scan(&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan line sum: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
