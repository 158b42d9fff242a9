package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones, con las reglas de la
// ubicación por defecto: exactamente una por empresa, y esa no puede
// desactivarse ni eliminarse.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// CreateLocationInput datos para crear una ubicación.
type CreateLocationInput struct {
	Name      string
	IsDefault bool
}

// Create crea una ubicación. La primera de la empresa queda como por defecto;
// marcar IsDefault traslada la bandera desde la anterior.
func (uc *LocationUseCase) Create(ctx context.Context, companyID string, in CreateLocationInput) (*entity.Location, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.repo.GetDefault(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		IsDefault: in.IsDefault || current == nil,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if location.IsDefault && current != nil {
		current.IsDefault = false
		current.UpdatedAt = now
		if err := uc.repo.Update(ctx, current); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// Deactivate desactiva una ubicación; la por defecto no puede desactivarse.
func (uc *LocationUseCase) Deactivate(ctx context.Context, companyID, id string) error {
	location, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return err
	}
	if location.IsDefault {
		return domain.ErrDefaultLocation
	}
	location.Active = false
	location.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, location)
}

// Delete elimina una ubicación; la por defecto no puede eliminarse.
func (uc *LocationUseCase) Delete(ctx context.Context, companyID, id string) error {
	location, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return err
	}
	if location.IsDefault {
		return domain.ErrDefaultLocation
	}
	return uc.repo.Delete(ctx, id)
}

// List ubicaciones de la empresa.
func (uc *LocationUseCase) List(ctx context.Context, companyID string) ([]*entity.Location, error) {
	return uc.repo.ListByCompany(ctx, companyID)
}

func (uc *LocationUseCase) owned(ctx context.Context, companyID, id string) (*entity.Location, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if location.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return location, nil
}
