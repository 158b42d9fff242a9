package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ítem rastreado.
const (
	ItemTypeComponent = "component" // materia prima consumida por builds
	ItemTypeSKU       = "sku"       // producto terminado con BOM activa
)

// Item representa una unidad rastreada del inventario: componente o SKU.
// UnitCost es el costo estándar vigente; los recibos pueden sobrescribirlo.
// ReorderPoint y LeadTimeDays aplican a componentes (alertas de bajo stock).
type Item struct {
	ID           string
	CompanyID    string
	Type         string // component | sku
	Code         string // código único por empresa
	Name         string
	UnitCost     decimal.Decimal
	ReorderPoint *decimal.Decimal
	LeadTimeDays *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
