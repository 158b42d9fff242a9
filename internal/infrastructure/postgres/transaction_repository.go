package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo encabezados del libro sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `
	id, company_id, type, status, date,
	item_id, quantity,
	location_id, from_location_id, to_location_id,
	reason, lot_number, lot_expiry,
	unit_cost, update_item_cost,
	bom_version_id, bom_snapshot, build_unit_cost, build_total_cost,
	defect_count, record_finished_goods,
	created_by, reviewed_by, reviewed_at, review_note,
	deleted_by, deleted_at, created_at, updated_at`

// Create inserta el encabezado. El snapshot de BOM viaja como jsonb.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	snapshot, err := marshalSnapshot(tx.BOMSnapshot)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, now(), now())`
	_, err = r.q.Exec(ctx, query,
		tx.ID, tx.CompanyID, tx.Type, tx.Status, tx.Date,
		tx.ItemID, tx.Quantity,
		tx.LocationID, tx.FromLocationID, tx.ToLocationID,
		tx.Reason, tx.LotNumber, tx.LotExpiry,
		tx.UnitCost, tx.UpdateItemCost,
		tx.BOMVersionID, snapshot, tx.BuildUnitCost, tx.BuildTotalCost,
		tx.DefectCount, tx.RecordFinishedGoods,
		tx.CreatedBy, tx.ReviewedBy, tx.ReviewedAt, tx.ReviewNote,
		tx.DeletedBy, tx.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un encabezado por ID (incluye borrados lógicos; el caller decide).
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID bloqueando la fila: serializa aprobación,
// edición y borrado concurrentes sobre la misma transacción.
func (r *TransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.get(ctx, id, true)
}

func (r *TransactionRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	row := r.q.QueryRow(ctx, query, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// Update reescribe el encabezado completo.
func (r *TransactionRepo) Update(ctx context.Context, tx *entity.Transaction) error {
	snapshot, err := marshalSnapshot(tx.BOMSnapshot)
	if err != nil {
		return err
	}
	query := `
		UPDATE transactions SET
			type = $2, status = $3, date = $4,
			item_id = $5, quantity = $6,
			location_id = $7, from_location_id = $8, to_location_id = $9,
			reason = $10, lot_number = $11, lot_expiry = $12,
			unit_cost = $13, update_item_cost = $14,
			bom_version_id = $15, bom_snapshot = $16, build_unit_cost = $17, build_total_cost = $18,
			defect_count = $19, record_finished_goods = $20,
			reviewed_by = $21, reviewed_at = $22, review_note = $23,
			deleted_by = $24, deleted_at = $25,
			updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		tx.ID,
		tx.Type, tx.Status, tx.Date,
		tx.ItemID, tx.Quantity,
		tx.LocationID, tx.FromLocationID, tx.ToLocationID,
		tx.Reason, tx.LotNumber, tx.LotExpiry,
		tx.UnitCost, tx.UpdateItemCost,
		tx.BOMVersionID, snapshot, tx.BuildUnitCost, tx.BuildTotalCost,
		tx.DefectCount, tx.RecordFinishedGoods,
		tx.ReviewedBy, tx.ReviewedAt, tx.ReviewNote,
		tx.DeletedBy, tx.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update transaction: %s no existe", tx.ID)
	}
	return nil
}

// SoftDelete marca el encabezado como borrado conservando la fila para auditoría.
func (r *TransactionRepo) SoftDelete(ctx context.Context, id, userID string, at time.Time) error {
	query := `
		UPDATE transactions SET deleted_by = $2, deleted_at = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.q.Exec(ctx, query, id, userID, at); err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	return nil
}

// HardDelete elimina el encabezado. Las líneas caen por FK en cascada.
func (r *TransactionRepo) HardDelete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("hard delete transaction: %w", err)
	}
	return nil
}

// ListByCompany lista encabezados de la empresa, excluyendo borrados lógicos,
// con filtros opcionales de tipo, estado y rango de fechas.
func (r *TransactionRepo) ListByCompany(ctx context.Context, companyID string, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1 AND deleted_at IS NULL`
	args := []any{companyID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += " AND type = $" + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += " AND date >= $" + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += " AND date <= $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

func marshalSnapshot(lines []entity.BOMSnapshotLine) ([]byte, error) {
	if lines == nil {
		return nil, nil
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshal bom snapshot: %w", err)
	}
	return data, nil
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var tx entity.Transaction
	var snapshot []byte
	err := row.Scan(
		&tx.ID, &tx.CompanyID, &tx.Type, &tx.Status, &tx.Date,
		&tx.ItemID, &tx.Quantity,
		&tx.LocationID, &tx.FromLocationID, &tx.ToLocationID,
		&tx.Reason, &tx.LotNumber, &tx.LotExpiry,
		&tx.UnitCost, &tx.UpdateItemCost,
		&tx.BOMVersionID, &snapshot, &tx.BuildUnitCost, &tx.BuildTotalCost,
		&tx.DefectCount, &tx.RecordFinishedGoods,
		&tx.CreatedBy, &tx.ReviewedBy, &tx.ReviewedAt, &tx.ReviewNote,
		&tx.DeletedBy, &tx.DeletedAt, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &tx.BOMSnapshot); err != nil {
			return nil, fmt.Errorf("unmarshal bom snapshot: %w", err)
		}
	}
	return &tx, nil
}
