package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create inserta una alerta.
func (r *AlertRepo) Create(ctx context.Context, alert *entity.Alert) error {
	query := `
		INSERT INTO alerts (id, company_id, transaction_id, type, message, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`
	_, err := r.q.Exec(ctx, query,
		alert.ID, alert.CompanyID, alert.TransactionID, alert.Type, alert.Message,
	)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// DeleteByTransaction elimina las alertas atadas a una transacción (borrado duro).
func (r *AlertRepo) DeleteByTransaction(ctx context.Context, transactionID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM alerts WHERE transaction_id = $1`, transactionID); err != nil {
		return fmt.Errorf("delete alerts: %w", err)
	}
	return nil
}

// ListByCompany alertas recientes de la empresa.
func (r *AlertRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Alert, error) {
	query := `
		SELECT id, company_id, transaction_id, type, message, created_at
		FROM alerts WHERE company_id = $1 ORDER BY created_at DESC`
	args := []any{companyID}
	if limit > 0 {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.TransactionID, &a.Type, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
