package lots_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/lots"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func expiry(days int) *time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &t
}

func lot(id string, exp *time.Time, qty string, createdOffset int) lots.AvailableLot {
	return lots.AvailableLot{
		LotID:      id,
		ExpiryDate: exp,
		Quantity:   d(qty),
		CreatedAt:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(createdOffset) * time.Hour),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Order — FEFO
// ──────────────────────────────────────────────────────────────────────────────

func TestOrder_VencimientoAscendente(t *testing.T) {
	available := []lots.AvailableLot{
		lot("tardio", expiry(30), "10", 0),
		lot("temprano", expiry(5), "10", 1),
		lot("medio", expiry(15), "10", 2),
	}
	lots.Order(available)

	assert.Equal(t, "temprano", available[0].LotID)
	assert.Equal(t, "medio", available[1].LotID)
	assert.Equal(t, "tardio", available[2].LotID)
}

func TestOrder_SinVencimientoVanAlFinal(t *testing.T) {
	available := []lots.AvailableLot{
		lot("sin-vencimiento", nil, "10", 0),
		lot("vence-pronto", expiry(3), "10", 1),
	}
	lots.Order(available)

	assert.Equal(t, "vence-pronto", available[0].LotID,
		"un lote con vencimiento va antes que uno sin vencimiento")
	assert.Equal(t, "sin-vencimiento", available[1].LotID)
}

func TestOrder_EmpatePorOrdenDeCreacion(t *testing.T) {
	available := []lots.AvailableLot{
		lot("segundo", expiry(10), "10", 5),
		lot("primero", expiry(10), "10", 1),
	}
	lots.Order(available)

	assert.Equal(t, "primero", available[0].LotID,
		"con el mismo vencimiento gana el lote creado antes")
}

func TestOrder_DosSinVencimientoPorCreacion(t *testing.T) {
	available := []lots.AvailableLot{
		lot("b", nil, "10", 8),
		lot("a", nil, "10", 2),
	}
	lots.Order(available)

	assert.Equal(t, "a", available[0].LotID)
	assert.Equal(t, "b", available[1].LotID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Select — asignación greedy
// ──────────────────────────────────────────────────────────────────────────────

// Un build que necesita 30 unidades con tres lotes de 20/15/50 debe agotar el
// que vence primero y partir el siguiente.
func TestSelect_ParteLoteEnOrdenFEFO(t *testing.T) {
	available := []lots.AvailableLot{
		lot("lote-c", expiry(60), "50", 2),
		lot("lote-a", expiry(10), "20", 0),
		lot("lote-b", expiry(30), "15", 1),
	}

	alloc, err := lots.Select("comp-1", available, d("30"), false)
	require.NoError(t, err)

	require.Len(t, alloc.Entries, 2)
	assert.Equal(t, "lote-a", alloc.Entries[0].LotID)
	assert.True(t, alloc.Entries[0].Quantity.Equal(d("20")), "el primer lote se agota completo")
	assert.Equal(t, "lote-b", alloc.Entries[1].LotID)
	assert.True(t, alloc.Entries[1].Quantity.Equal(d("10")), "el segundo lote se consume parcialmente")
	assert.True(t, alloc.Shortfall.IsZero())
	assert.True(t, alloc.Covered().Equal(d("30")))
}

func TestSelect_CantidadExactaNoTocaElSiguiente(t *testing.T) {
	available := []lots.AvailableLot{
		lot("a", expiry(1), "25", 0),
		lot("b", expiry(2), "100", 1),
	}

	alloc, err := lots.Select("comp-1", available, d("25"), false)
	require.NoError(t, err)
	require.Len(t, alloc.Entries, 1)
	assert.Equal(t, "a", alloc.Entries[0].LotID)
}

func TestSelect_InsuficienteSinPermiso_Falla(t *testing.T) {
	available := []lots.AvailableLot{
		lot("a", expiry(1), "5", 0),
		lot("b", expiry(2), "3", 1),
	}

	_, err := lots.Select("comp-1", available, d("20"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientLotStock)

	var lotErr *domain.InsufficientLotError
	require.ErrorAs(t, err, &lotErr)
	assert.Equal(t, "comp-1", lotErr.ComponentID)
	assert.True(t, lotErr.Required.Equal(d("20")))
	assert.True(t, lotErr.Available.Equal(d("8")), "reporta lo que sí se pudo cubrir")
}

func TestSelect_InsuficienteConPermiso_DevuelveFaltante(t *testing.T) {
	available := []lots.AvailableLot{
		lot("a", expiry(1), "5", 0),
	}

	alloc, err := lots.Select("comp-1", available, d("12"), true)
	require.NoError(t, err)
	require.Len(t, alloc.Entries, 1)
	assert.True(t, alloc.Entries[0].Quantity.Equal(d("5")))
	assert.True(t, alloc.Shortfall.Equal(d("7")), "el faltante queda para la línea residual sin lote")
}

func TestSelect_SinLotes_TodoEsFaltante(t *testing.T) {
	alloc, err := lots.Select("comp-1", nil, d("4"), true)
	require.NoError(t, err)
	assert.Empty(t, alloc.Entries)
	assert.True(t, alloc.Shortfall.Equal(d("4")))
}

func TestSelect_CantidadNoPositiva_EsInvalida(t *testing.T) {
	_, err := lots.Select("comp-1", nil, decimal.Zero, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSelect_NoMutaLaListaOriginal(t *testing.T) {
	available := []lots.AvailableLot{
		lot("z-tardio", expiry(50), "10", 0),
		lot("a-temprano", expiry(1), "10", 1),
	}

	_, err := lots.Select("comp-1", available, d("5"), false)
	require.NoError(t, err)
	assert.Equal(t, "z-tardio", available[0].LotID, "la selección ordena una copia, no la entrada")
}

func TestSelect_CantidadesFraccionarias(t *testing.T) {
	available := []lots.AvailableLot{
		lot("a", expiry(1), "0.75", 0),
		lot("b", expiry(2), "2.5", 1),
	}

	alloc, err := lots.Select("comp-1", available, d("1.25"), false)
	require.NoError(t, err)
	require.Len(t, alloc.Entries, 2)
	assert.True(t, alloc.Entries[0].Quantity.Equal(d("0.75")))
	assert.True(t, alloc.Entries[1].Quantity.Equal(d("0.5")))
}
