package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo ubicaciones sobre PostgreSQL (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = "id, company_id, name, is_default, active, created_at, updated_at"

// Create inserta una ubicación. El nombre es único por empresa.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.q.Exec(ctx, query,
		location.ID, location.CompanyID, location.Name, location.IsDefault, location.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ubicación %s: %w", location.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetDefault ubicación por defecto de la empresa.
func (r *LocationRepo) GetDefault(ctx context.Context, companyID string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE company_id = $1 AND is_default = true`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID))
}

func (r *LocationRepo) scanOne(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.IsDefault, &l.Active, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// Update reescribe nombre, bandera de defecto y estado activo.
func (r *LocationRepo) Update(ctx context.Context, location *entity.Location) error {
	query := `
		UPDATE locations SET name = $2, is_default = $3, active = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, location.ID, location.Name, location.IsDefault, location.Active)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update location: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete elimina la ubicación. La regla de no eliminar la ubicación por
// defecto la aplica el caso de uso antes de llegar aquí.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

// ListByCompany ubicaciones de la empresa, la por defecto primero.
func (r *LocationRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Location, error) {
	query := `
		SELECT ` + locationColumns + ` FROM locations
		WHERE company_id = $1 ORDER BY is_default DESC, name ASC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.IsDefault, &l.Active, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
