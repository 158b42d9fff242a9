package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/lots"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes y sus saldos sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = "id, company_id, component_id, lot_number, expiry_date, received_quantity, created_at"

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	var l entity.Lot
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.CompanyID, &l.ComponentID, &l.LotNumber, &l.ExpiryDate, &l.ReceivedQuantity, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

// UpsertOnReceipt inserta el lote por (component_id, lot_number) o incrementa
// su cantidad recibida si ya existe, e incrementa el saldo en quantity.
// Ambas escrituras deben correr dentro de la tx del recibo que las explica.
func (r *LotRepo) UpsertOnReceipt(ctx context.Context, lot *entity.Lot, quantity decimal.Decimal) (*entity.Lot, error) {
	query := `
		INSERT INTO lots (id, company_id, component_id, lot_number, expiry_date, received_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (component_id, lot_number)
		DO UPDATE SET received_quantity = lots.received_quantity + EXCLUDED.received_quantity,
		              expiry_date = COALESCE(lots.expiry_date, EXCLUDED.expiry_date)
		RETURNING ` + lotColumns
	var saved entity.Lot
	err := r.q.QueryRow(ctx, query,
		uuid.New().String(), lot.CompanyID, lot.ComponentID, lot.LotNumber, lot.ExpiryDate, quantity,
	).Scan(
		&saved.ID, &saved.CompanyID, &saved.ComponentID, &saved.LotNumber,
		&saved.ExpiryDate, &saved.ReceivedQuantity, &saved.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert lot: %w", err)
	}

	balanceQuery := `
		INSERT INTO lot_balances (lot_id, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (lot_id)
		DO UPDATE SET quantity = lot_balances.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, balanceQuery, saved.ID, quantity); err != nil {
		return nil, fmt.Errorf("upsert lot balance: %w", err)
	}
	return &saved, nil
}

// ListAvailable lotes con saldo positivo en orden FEFO: vencimiento
// ascendente con NULLS LAST, empates por orden de creación.
func (r *LotRepo) ListAvailable(ctx context.Context, componentID string, excludeExpired bool, asOf time.Time) ([]lots.AvailableLot, error) {
	return r.listAvailable(ctx, componentID, excludeExpired, asOf, false)
}

// ListAvailableForUpdate igual que ListAvailable bloqueando las filas de saldo.
func (r *LotRepo) ListAvailableForUpdate(ctx context.Context, componentID string, excludeExpired bool, asOf time.Time) ([]lots.AvailableLot, error) {
	return r.listAvailable(ctx, componentID, excludeExpired, asOf, true)
}

func (r *LotRepo) listAvailable(ctx context.Context, componentID string, excludeExpired bool, asOf time.Time, forUpdate bool) ([]lots.AvailableLot, error) {
	query := `
		SELECT l.id, l.expiry_date, b.quantity, l.created_at
		FROM lots l
		JOIN lot_balances b ON b.lot_id = l.id
		WHERE l.component_id = $1 AND b.quantity > 0`
	args := []any{componentID}
	if excludeExpired {
		query += " AND (l.expiry_date IS NULL OR l.expiry_date >= $2)"
		args = append(args, asOf)
	}
	query += " ORDER BY l.expiry_date ASC NULLS LAST, l.created_at ASC"
	if forUpdate {
		query += " FOR UPDATE OF b"
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list available lots: %w", err)
	}
	defer rows.Close()
	var list []lots.AvailableLot
	for rows.Next() {
		var l lots.AvailableLot
		if err := rows.Scan(&l.LotID, &l.ExpiryDate, &l.Quantity, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan available lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// AdjustBalance incrementa/decrementa el saldo del lote.
func (r *LotRepo) AdjustBalance(ctx context.Context, lotID string, delta decimal.Decimal) error {
	query := `UPDATE lot_balances SET quantity = quantity + $2, updated_at = now() WHERE lot_id = $1`
	tag, err := r.q.Exec(ctx, query, lotID, delta)
	if err != nil {
		return fmt.Errorf("adjust lot balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("adjust lot balance: lote %s sin fila de saldo", lotID)
	}
	return nil
}

// AdjustReceived incrementa/decrementa la cantidad recibida del lote
// (reversas de recibos).
func (r *LotRepo) AdjustReceived(ctx context.Context, lotID string, delta decimal.Decimal) error {
	query := `UPDATE lots SET received_quantity = received_quantity + $2 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, lotID, delta); err != nil {
		return fmt.Errorf("adjust lot received: %w", err)
	}
	return nil
}

// BalancesFor saldos actuales de los lotes dados.
func (r *LotRepo) BalancesFor(ctx context.Context, lotIDs []string) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal, len(lotIDs))
	if len(lotIDs) == 0 {
		return result, nil
	}
	query := `SELECT lot_id, quantity FROM lot_balances WHERE lot_id = ANY($1)`
	rows, err := r.q.Query(ctx, query, lotIDs)
	if err != nil {
		return nil, fmt.Errorf("lot balances: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var qty decimal.Decimal
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan lot balance: %w", err)
		}
		result[id] = qty
	}
	return result, rows.Err()
}
