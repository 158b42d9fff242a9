package dto

import "github.com/shopspring/decimal"

// BOMAvailabilityDTO suficiencia de inventario para fabricar units unidades.
type BOMAvailabilityDTO struct {
	BOMVersionID string          `json:"bom_version_id"`
	Units        decimal.Decimal `json:"units"`
	Sufficient   bool            `json:"sufficient"`
	Shortages    []ShortageDTO   `json:"shortages,omitempty"`
}

// BOMCostDTO costeo de una versión de BOM.
type BOMCostDTO struct {
	BOMVersionID      string          `json:"bom_version_id"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	MaxBuildableUnits int64           `json:"max_buildable_units"`
}
