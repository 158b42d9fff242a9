// Package lots implementa el motor de selección de lotes FEFO
// (first-expired-first-out) como servicio de dominio puro: opera sobre la
// lista de lotes disponibles que le entregue el caller, sin tocar persistencia.
package lots

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
)

// AvailableLot lote con saldo positivo candidato a consumo.
type AvailableLot struct {
	LotID      string
	ExpiryDate *time.Time // nil = sin vencimiento
	Quantity   decimal.Decimal
	CreatedAt  time.Time
}

// Entry consumo asignado a un lote concreto.
type Entry struct {
	LotID    string
	Quantity decimal.Decimal
}

// Allocation resultado de una selección: consumos por lote y faltante no cubierto.
type Allocation struct {
	Entries   []Entry
	Shortfall decimal.Decimal // cero cuando los lotes cubren lo requerido
}

// Covered cantidad total asignada a lotes.
func (a Allocation) Covered() decimal.Decimal {
	total := decimal.Zero
	for _, e := range a.Entries {
		total = total.Add(e.Quantity)
	}
	return total
}

// Order ordena los lotes en sitio según FEFO: vencimiento ascendente, los
// lotes sin vencimiento al final, empates por orden de creación.
func Order(available []AvailableLot) {
	sort.SliceStable(available, func(i, j int) bool {
		a, b := available[i], available[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
	})
}

// Select consume greedy en orden FEFO hasta cubrir required.
// Si los lotes se agotan y allowInsufficient es false, falla con
// InsufficientLotError; si es true devuelve la asignación parcial y el caller
// debe agregar una línea residual sin lote por el Shortfall.
func Select(componentID string, available []AvailableLot, required decimal.Decimal, allowInsufficient bool) (Allocation, error) {
	if required.LessThanOrEqual(decimal.Zero) {
		return Allocation{Shortfall: decimal.Zero}, domain.ErrInvalidInput
	}

	ordered := make([]AvailableLot, len(available))
	copy(ordered, available)
	Order(ordered)

	remaining := required
	alloc := Allocation{Shortfall: decimal.Zero}
	for _, lot := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if lot.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(lot.Quantity, remaining)
		alloc.Entries = append(alloc.Entries, Entry{LotID: lot.LotID, Quantity: take})
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		if !allowInsufficient {
			return Allocation{}, &domain.InsufficientLotError{
				ComponentID: componentID,
				Required:    required,
				Available:   required.Sub(remaining),
			}
		}
		alloc.Shortfall = remaining
	}
	return alloc, nil
}
