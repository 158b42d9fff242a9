package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo ítems (componentes y SKUs) sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = "id, company_id, type, code, name, unit_cost, reorder_point, lead_time_days, created_at, updated_at"

// Create inserta un ítem. El código es único por empresa.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.CompanyID, item.Type, item.Code, item.Name,
		item.UnitCost, item.ReorderPoint, item.LeadTimeDays,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("código %s: %w", item.Code, domain.ErrDuplicate)
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	var it entity.Item
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.CompanyID, &it.Type, &it.Code, &it.Name,
		&it.UnitCost, &it.ReorderPoint, &it.LeadTimeDays, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// GetManyByIDs ítems por id en un solo query; el mapa omite los inexistentes.
func (r *ItemRepo) GetManyByIDs(ctx context.Context, ids []string) (map[string]*entity.Item, error) {
	result := make(map[string]*entity.Item, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.Item
		err := rows.Scan(&it.ID, &it.CompanyID, &it.Type, &it.Code, &it.Name,
			&it.UnitCost, &it.ReorderPoint, &it.LeadTimeDays, &it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		result[it.ID] = &it
	}
	return result, rows.Err()
}

// UpdateUnitCost sobrescribe el costo estándar vigente del ítem.
func (r *ItemRepo) UpdateUnitCost(ctx context.Context, id string, cost decimal.Decimal) error {
	query := `UPDATE items SET unit_cost = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, cost)
	if err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item cost: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByCompany lista ítems de la empresa ordenados por código.
func (r *ItemRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 ORDER BY code ASC`
	args := []any{companyID}
	if limit > 0 {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		err := rows.Scan(&it.ID, &it.CompanyID, &it.Type, &it.Code, &it.Name,
			&it.UnitCost, &it.ReorderPoint, &it.LeadTimeDays, &it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListBelowReorderPoint componentes cuyo stock agregado está en o bajo su punto
// de reorden. locationID vacío agrega todas las ubicaciones de la empresa.
func (r *ItemRepo) ListBelowReorderPoint(ctx context.Context, companyID, locationID string) ([]repository.LowStockItem, error) {
	query := `
		SELECT i.id, i.code, i.name, COALESCE(SUM(b.quantity), 0), i.reorder_point, i.unit_cost, i.lead_time_days
		FROM items i
		LEFT JOIN inventory_balances b ON b.item_id = i.id`
	args := []any{companyID}
	if locationID != "" {
		query += " AND b.location_id = $2"
		args = append(args, locationID)
	}
	query += `
		WHERE i.company_id = $1 AND i.type = 'component' AND i.reorder_point IS NOT NULL
		GROUP BY i.id, i.code, i.name, i.reorder_point, i.unit_cost, i.lead_time_days
		HAVING COALESCE(SUM(b.quantity), 0) <= i.reorder_point
		ORDER BY i.code ASC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockItem
	for rows.Next() {
		var ls repository.LowStockItem
		err := rows.Scan(&ls.ItemID, &ls.Code, &ls.Name, &ls.CurrentStock,
			&ls.ReorderPoint, &ls.UnitCost, &ls.LeadTimeDays)
		if err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, ls)
	}
	return list, rows.Err()
}
