// Package costing calcula costos y disponibilidad de builds a partir de la
// BOM (servicio de dominio puro).
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
)

// Requirement demanda de un componente para un build, junto a su disponibilidad actual.
type Requirement struct {
	ComponentID     string
	QuantityPerUnit decimal.Decimal
	UnitCost        decimal.Decimal
	Available       decimal.Decimal
}

// UnitCost costo de fabricar una unidad: Σ(cantidadPorUnidad × costoComponente).
func UnitCost(reqs []Requirement) decimal.Decimal {
	total := decimal.Zero
	for _, r := range reqs {
		total = total.Add(r.QuantityPerUnit.Mul(r.UnitCost))
	}
	return total
}

// TotalCost costo total del build: UnitCost × unidades.
func TotalCost(reqs []Requirement, units decimal.Decimal) decimal.Decimal {
	return UnitCost(reqs).Mul(units)
}

// Shortages compara requerido vs disponible por componente para la cantidad de
// unidades dada. Lista vacía = inventario suficiente.
func Shortages(reqs []Requirement, units decimal.Decimal) []domain.Shortage {
	var shortages []domain.Shortage
	for _, r := range reqs {
		required := r.QuantityPerUnit.Mul(units)
		if r.Available.LessThan(required) {
			shortages = append(shortages, domain.Shortage{
				ComponentID: r.ComponentID,
				Required:    required,
				Available:   r.Available,
				Shortage:    required.Sub(r.Available),
			})
		}
	}
	return shortages
}

// MaxBuildableUnits unidades fabricables con el inventario actual:
// mínimo de floor(disponible / cantidadPorUnidad) entre todas las líneas.
func MaxBuildableUnits(reqs []Requirement) int64 {
	if len(reqs) == 0 {
		return 0
	}
	max := int64(-1)
	for _, r := range reqs {
		if r.QuantityPerUnit.LessThanOrEqual(decimal.Zero) {
			continue
		}
		units := r.Available.Div(r.QuantityPerUnit).Floor().IntPart()
		if units < 0 {
			units = 0
		}
		if max < 0 || units < max {
			max = units
		}
	}
	if max < 0 {
		return 0
	}
	return max
}
