package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-api/internal/application/usecase"
	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

const testCompany = "00000000-0000-0000-0000-00000000000a"

type fakeLocations struct {
	data map[string]*entity.Location
}

var _ repository.LocationRepository = (*fakeLocations)(nil)

func newFakeLocations() *fakeLocations {
	return &fakeLocations{data: map[string]*entity.Location{}}
}

func (f *fakeLocations) Create(_ context.Context, location *entity.Location) error {
	cp := *location
	f.data[location.ID] = &cp
	return nil
}

func (f *fakeLocations) GetByID(_ context.Context, id string) (*entity.Location, error) {
	loc, ok := f.data[id]
	if !ok {
		return nil, nil
	}
	cp := *loc
	return &cp, nil
}

func (f *fakeLocations) GetDefault(_ context.Context, companyID string) (*entity.Location, error) {
	for _, loc := range f.data {
		if loc.CompanyID == companyID && loc.IsDefault {
			cp := *loc
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLocations) Update(_ context.Context, location *entity.Location) error {
	cp := *location
	f.data[location.ID] = &cp
	return nil
}

func (f *fakeLocations) Delete(_ context.Context, id string) error {
	delete(f.data, id)
	return nil
}

func (f *fakeLocations) ListByCompany(_ context.Context, companyID string) ([]*entity.Location, error) {
	var list []*entity.Location
	for _, loc := range f.data {
		if loc.CompanyID == companyID {
			cp := *loc
			list = append(list, &cp)
		}
	}
	return list, nil
}

func TestCreateLocation_LaPrimeraQuedaPorDefecto(t *testing.T) {
	repo := newFakeLocations()
	uc := usecase.NewLocationUseCase(repo)

	loc, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "bodega"})
	require.NoError(t, err)
	assert.True(t, loc.IsDefault, "la primera ubicación de la empresa es la por defecto")
	assert.True(t, loc.Active)
}

func TestCreateLocation_IsDefaultTrasladaLaBandera(t *testing.T) {
	repo := newFakeLocations()
	uc := usecase.NewLocationUseCase(repo)

	primera, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "bodega"})
	require.NoError(t, err)

	segunda, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "planta", IsDefault: true})
	require.NoError(t, err)

	assert.True(t, segunda.IsDefault)
	actualizada, _ := repo.GetByID(context.Background(), primera.ID)
	assert.False(t, actualizada.IsDefault, "la bandera se traslada, nunca hay dos por defecto")
}

func TestCreateLocation_SegundaSinBandera_NoEsPorDefecto(t *testing.T) {
	repo := newFakeLocations()
	uc := usecase.NewLocationUseCase(repo)

	_, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "bodega"})
	require.NoError(t, err)
	segunda, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "planta"})
	require.NoError(t, err)
	assert.False(t, segunda.IsDefault)
}

func TestCreateLocation_SinNombre_Invalida(t *testing.T) {
	uc := usecase.NewLocationUseCase(newFakeLocations())
	_, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeactivate_LaPorDefectoNoPuede(t *testing.T) {
	repo := newFakeLocations()
	uc := usecase.NewLocationUseCase(repo)

	def, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "bodega"})
	require.NoError(t, err)
	otra, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "planta"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Deactivate(context.Background(), testCompany, def.ID), domain.ErrDefaultLocation)

	require.NoError(t, uc.Deactivate(context.Background(), testCompany, otra.ID))
	desactivada, _ := repo.GetByID(context.Background(), otra.ID)
	assert.False(t, desactivada.Active)
}

func TestDelete_LaPorDefectoNoPuede(t *testing.T) {
	repo := newFakeLocations()
	uc := usecase.NewLocationUseCase(repo)

	def, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "bodega"})
	require.NoError(t, err)
	otra, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "planta"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(context.Background(), testCompany, def.ID), domain.ErrDefaultLocation)

	require.NoError(t, uc.Delete(context.Background(), testCompany, otra.ID))
	borrada, _ := repo.GetByID(context.Background(), otra.ID)
	assert.Nil(t, borrada)
}

func TestDelete_OtraEmpresa_Prohibido(t *testing.T) {
	repo := newFakeLocations()
	uc := usecase.NewLocationUseCase(repo)

	loc, err := uc.Create(context.Background(), testCompany, usecase.CreateLocationInput{Name: "bodega"})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), "otra-empresa", loc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete_Inexistente(t *testing.T) {
	uc := usecase.NewLocationUseCase(newFakeLocations())
	assert.ErrorIs(t, uc.Delete(context.Background(), testCompany, "nada"), domain.ErrNotFound)
}
