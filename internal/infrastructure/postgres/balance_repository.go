package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo Balance Store sobre PostgreSQL (usable con pool o tx).
// Las filas solo cambian por incrementos relativos (ApplyDelta): la
// serialización de escrituras concurrentes queda en el bloqueo de fila.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// ApplyDelta crea la fila inicializada en delta si no existe, si no la
// incrementa. No impone no-negatividad: esa regla es del caller.
func (r *BalanceRepo) ApplyDelta(ctx context.Context, itemID, locationID string, delta decimal.Decimal) error {
	query := `
		INSERT INTO inventory_balances (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = inventory_balances.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, itemID, locationID, delta); err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}
	return nil
}

// Get saldo actual del par; fila en cero si no existe.
func (r *BalanceRepo) Get(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	return r.get(ctx, itemID, locationID, false)
}

// GetForUpdate igual que Get bloqueando la fila (SELECT FOR UPDATE).
func (r *BalanceRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	return r.get(ctx, itemID, locationID, true)
}

func (r *BalanceRepo) get(ctx context.Context, itemID, locationID string, forUpdate bool) (*entity.InventoryBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM inventory_balances WHERE item_id = $1 AND location_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var b entity.InventoryBalance
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryBalance{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// Total suma del ítem en todas las ubicaciones.
func (r *BalanceRepo) Total(ctx context.Context, itemID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM inventory_balances WHERE item_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, itemID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total balance: %w", err)
	}
	return total, nil
}

// MapForItems mapa itemID → saldo relleno con ceros, en una sola consulta
// agrupada. locationID vacío agrega todas las ubicaciones.
func (r *BalanceRepo) MapForItems(ctx context.Context, itemIDs []string, locationID string) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal, len(itemIDs))
	for _, id := range itemIDs {
		result[id] = decimal.Zero
	}
	if len(itemIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT item_id, COALESCE(SUM(quantity), 0)
		FROM inventory_balances WHERE item_id = ANY($1)`
	args := []any{itemIDs}
	if locationID != "" {
		query += " AND location_id = $2"
		args = append(args, locationID)
	}
	query += " GROUP BY item_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("map balances: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var qty decimal.Decimal
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		result[id] = qty
	}
	return result, rows.Err()
}

// ListByCompany saldos materializados de la empresa (reconciliación).
func (r *BalanceRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryBalance, error) {
	query := `
		SELECT b.item_id, b.location_id, b.quantity, b.updated_at
		FROM inventory_balances b
		JOIN items i ON i.id = b.item_id
		WHERE i.company_id = $1`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBalance
	for rows.Next() {
		var b entity.InventoryBalance
		if err := rows.Scan(&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
