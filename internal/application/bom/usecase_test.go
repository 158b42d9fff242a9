package bom_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-api/internal/application/bom"
	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

const testCompany = "00000000-0000-0000-0000-00000000000a"

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos: el verificador solo lee.
// ──────────────────────────────────────────────────────────────────────────────

type fakeBOMs struct {
	versions map[string]*entity.BOMVersion
}

var _ repository.BOMRepository = (*fakeBOMs)(nil)

func (f *fakeBOMs) GetVersion(_ context.Context, id string) (*entity.BOMVersion, error) {
	return f.versions[id], nil
}

func (f *fakeBOMs) GetActiveForItem(_ context.Context, itemID string, asOf time.Time) (*entity.BOMVersion, error) {
	var best *entity.BOMVersion
	for _, v := range f.versions {
		if v.ItemID != itemID || !v.Active || v.EffectiveFrom.After(asOf) {
			continue
		}
		if v.EffectiveTo != nil && v.EffectiveTo.Before(asOf) {
			continue
		}
		if best == nil || v.Version > best.Version {
			best = v
		}
	}
	return best, nil
}

type balKey struct {
	ItemID     string
	LocationID string
}

type fakeBalances struct {
	data map[balKey]decimal.Decimal
}

var _ repository.BalanceRepository = (*fakeBalances)(nil)

func (f *fakeBalances) ApplyDelta(_ context.Context, itemID, locationID string, delta decimal.Decimal) error {
	k := balKey{itemID, locationID}
	f.data[k] = f.data[k].Add(delta)
	return nil
}

func (f *fakeBalances) Get(_ context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	return &entity.InventoryBalance{ItemID: itemID, LocationID: locationID, Quantity: f.data[balKey{itemID, locationID}]}, nil
}

func (f *fakeBalances) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	return f.Get(ctx, itemID, locationID)
}

func (f *fakeBalances) Total(_ context.Context, itemID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for k, v := range f.data {
		if k.ItemID == itemID {
			total = total.Add(v)
		}
	}
	return total, nil
}

func (f *fakeBalances) MapForItems(_ context.Context, itemIDs []string, locationID string) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal, len(itemIDs))
	for _, id := range itemIDs {
		result[id] = decimal.Zero
	}
	for k, v := range f.data {
		if _, ok := result[k.ItemID]; !ok {
			continue
		}
		if locationID != "" && k.LocationID != locationID {
			continue
		}
		result[k.ItemID] = result[k.ItemID].Add(v)
	}
	return result, nil
}

func (f *fakeBalances) ListByCompany(_ context.Context, _ string) ([]*entity.InventoryBalance, error) {
	return nil, nil
}

type fakeItems struct {
	items map[string]*entity.Item
}

var _ repository.ItemRepository = (*fakeItems)(nil)

func (f *fakeItems) Create(_ context.Context, item *entity.Item) error { return nil }
func (f *fakeItems) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return f.items[id], nil
}

func (f *fakeItems) GetManyByIDs(_ context.Context, ids []string) (map[string]*entity.Item, error) {
	result := map[string]*entity.Item{}
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			result[id] = it
		}
	}
	return result, nil
}

func (f *fakeItems) UpdateUnitCost(_ context.Context, _ string, _ decimal.Decimal) error { return nil }
func (f *fakeItems) ListByCompany(_ context.Context, _ string, _, _ int) ([]*entity.Item, error) {
	return nil, nil
}

func (f *fakeItems) ListBelowReorderPoint(_ context.Context, _, _ string) ([]repository.LowStockItem, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: SKU con BOM de dos componentes, 2×A (costo 1.50) y 1×B (costo 4).
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc       *bom.CheckerUseCase
	balances *fakeBalances
	bomID    string
	skuID    string
}

func newFixture() *fixture {
	items := &fakeItems{items: map[string]*entity.Item{
		"comp-a": {ID: "comp-a", CompanyID: testCompany, Type: entity.ItemTypeComponent, UnitCost: d("1.50")},
		"comp-b": {ID: "comp-b", CompanyID: testCompany, Type: entity.ItemTypeComponent, UnitCost: d("4")},
	}}
	version := &entity.BOMVersion{
		ID: "bom-1", CompanyID: testCompany, ItemID: "sku-1", Version: 1, Active: true,
		EffectiveFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Lines: []entity.BOMLine{
			{ID: "l1", BOMVersionID: "bom-1", ComponentID: "comp-a", QuantityPerUnit: d("2")},
			{ID: "l2", BOMVersionID: "bom-1", ComponentID: "comp-b", QuantityPerUnit: d("1")},
		},
	}
	boms := &fakeBOMs{versions: map[string]*entity.BOMVersion{"bom-1": version}}
	balances := &fakeBalances{data: map[balKey]decimal.Decimal{}}
	return &fixture{
		uc:       bom.NewCheckerUseCase(boms, balances, items),
		balances: balances,
		bomID:    "bom-1",
		skuID:    "sku-1",
	}
}

func TestCheckInsufficientInventory_Suficiente(t *testing.T) {
	f := newFixture()
	f.balances.data[balKey{"comp-a", "loc"}] = d("20")
	f.balances.data[balKey{"comp-b", "loc"}] = d("10")

	shortages, err := f.uc.CheckInsufficientInventory(context.Background(), testCompany, f.bomID, d("10"), "")
	require.NoError(t, err)
	assert.Empty(t, shortages, "requerido 20 de A y 10 de B, hay exacto")
}

func TestCheckInsufficientInventory_ReportaFaltantes(t *testing.T) {
	f := newFixture()
	f.balances.data[balKey{"comp-a", "loc"}] = d("12")

	shortages, err := f.uc.CheckInsufficientInventory(context.Background(), testCompany, f.bomID, d("10"), "")
	require.NoError(t, err)
	require.Len(t, shortages, 2)

	byComponent := map[string]domain.Shortage{}
	for _, s := range shortages {
		byComponent[s.ComponentID] = s
	}
	assert.True(t, byComponent["comp-a"].Shortage.Equal(d("8")), "requiere 20, hay 12")
	assert.True(t, byComponent["comp-b"].Shortage.Equal(d("10")), "sin stock todo es faltante")
}

func TestCheckInsufficientInventory_FiltraPorUbicacion(t *testing.T) {
	f := newFixture()
	f.balances.data[balKey{"comp-a", "loc-1"}] = d("20")
	f.balances.data[balKey{"comp-b", "loc-1"}] = d("10")
	f.balances.data[balKey{"comp-a", "loc-2"}] = d("999")

	shortages, err := f.uc.CheckInsufficientInventory(context.Background(), testCompany, f.bomID, d("10"), "loc-1")
	require.NoError(t, err)
	assert.Empty(t, shortages)

	shortages, err = f.uc.CheckInsufficientInventory(context.Background(), testCompany, f.bomID, d("10"), "loc-2")
	require.NoError(t, err)
	require.Len(t, shortages, 1, "en loc-2 solo hay A; B falta completo")
	assert.Equal(t, "comp-b", shortages[0].ComponentID)
}

func TestCheckInsufficientInventory_UnidadesNoPositivas(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CheckInsufficientInventory(context.Background(), testCompany, f.bomID, decimal.Zero, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculateMaxBuildableUnits_CuelloDeBotella(t *testing.T) {
	f := newFixture()
	f.balances.data[balKey{"comp-a", "loc"}] = d("100") // alcanza para 50
	f.balances.data[balKey{"comp-b", "loc"}] = d("7")   // alcanza para 7

	max, err := f.uc.CalculateMaxBuildableUnits(context.Background(), testCompany, f.bomID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), max)
}

func TestCalculateUnitCost_SumaPonderada(t *testing.T) {
	f := newFixture()
	cost, err := f.uc.CalculateUnitCost(context.Background(), testCompany, f.bomID)
	require.NoError(t, err)
	assert.True(t, cost.Equal(d("7")), "2×1.50 + 1×4")
}

func TestChecker_VersionInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CalculateUnitCost(context.Background(), testCompany, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChecker_OtraEmpresa_Prohibido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CalculateUnitCost(context.Background(), "otra", f.bomID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestActiveVersionForItem(t *testing.T) {
	f := newFixture()
	version, err := f.uc.ActiveVersionForItem(context.Background(), testCompany, f.skuID)
	require.NoError(t, err)
	assert.Equal(t, f.bomID, version.ID)

	_, err = f.uc.ActiveVersionForItem(context.Background(), testCompany, "sku-sin-bom")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
