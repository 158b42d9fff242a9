package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMVersion versión de la receta de un SKU. A lo sumo una versión activa por
// SKU dentro de su rango de vigencia.
type BOMVersion struct {
	ID            string
	CompanyID     string
	ItemID        string // SKU al que pertenece
	Version       int
	Active        bool
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	Lines         []BOMLine
	CreatedAt     time.Time
}

// BOMLine componente requerido por unidad fabricada.
type BOMLine struct {
	ID              string
	BOMVersionID    string
	ComponentID     string
	QuantityPerUnit decimal.Decimal
}
