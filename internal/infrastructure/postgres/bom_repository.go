package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo versiones de BOM sobre PostgreSQL (usable con pool o tx).
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

const bomColumns = "id, company_id, item_id, version, active, effective_from, effective_to, created_at"

// GetVersion obtiene una versión de BOM por ID con sus líneas.
func (r *BOMRepo) GetVersion(ctx context.Context, id string) (*entity.BOMVersion, error) {
	query := `SELECT ` + bomColumns + ` FROM bom_versions WHERE id = $1`
	return r.fetch(ctx, query, id)
}

// GetActiveForItem versión activa del SKU vigente a la fecha dada. A lo sumo
// una versión cumple la condición por las reglas de activación.
func (r *BOMRepo) GetActiveForItem(ctx context.Context, itemID string, asOf time.Time) (*entity.BOMVersion, error) {
	query := `
		SELECT ` + bomColumns + ` FROM bom_versions
		WHERE item_id = $1 AND active = true
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY version DESC
		LIMIT 1`
	return r.fetch(ctx, query, itemID, asOf)
}

func (r *BOMRepo) fetch(ctx context.Context, query string, args ...any) (*entity.BOMVersion, error) {
	var v entity.BOMVersion
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&v.ID, &v.CompanyID, &v.ItemID, &v.Version, &v.Active,
		&v.EffectiveFrom, &v.EffectiveTo, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom version: %w", err)
	}

	lineQuery := `
		SELECT id, bom_version_id, component_id, quantity_per_unit
		FROM bom_lines WHERE bom_version_id = $1 ORDER BY component_id ASC`
	rows, err := r.q.Query(ctx, lineQuery, v.ID)
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.BOMLine
		if err := rows.Scan(&l.ID, &l.BOMVersionID, &l.ComponentID, &l.QuantityPerUnit); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		v.Lines = append(v.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &v, nil
}
