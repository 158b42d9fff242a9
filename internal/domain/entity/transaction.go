package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro de inventario.
const (
	TransactionTypeReceipt    = "receipt"    // entrada de componente (opcionalmente con lote)
	TransactionTypeInitial    = "initial"    // saldo inicial (misma forma que receipt)
	TransactionTypeAdjustment = "adjustment" // ajuste con signo y motivo obligatorio
	TransactionTypeTransfer   = "transfer"   // traslado entre ubicaciones (dos líneas)
	TransactionTypeBuild      = "build"      // fabricación vía BOM (N líneas de consumo)
	TransactionTypeOutbound   = "outbound"   // salida de producto terminado
)

// Estados del flujo borrador → revisión.
const (
	TransactionStatusDraft    = "draft"
	TransactionStatusApproved = "approved"
	TransactionStatusRejected = "rejected"
)

// ValidTransactionType indica si el tipo pertenece al conjunto cerrado.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeReceipt, TransactionTypeInitial, TransactionTypeAdjustment,
		TransactionTypeTransfer, TransactionTypeBuild, TransactionTypeOutbound:
		return true
	}
	return false
}

// ValidTransactionStatus indica si el estado pertenece al conjunto cerrado.
func ValidTransactionStatus(s string) bool {
	switch s {
	case TransactionStatusDraft, TransactionStatusApproved, TransactionStatusRejected:
		return true
	}
	return false
}

// BOMSnapshotLine línea congelada de la BOM en el momento de crear la transacción.
// Incluye el costo del componente para que ni ediciones de la receta ni cambios
// de costo posteriores alteren lo que un borrador pendiente consumirá.
type BOMSnapshotLine struct {
	ComponentID     string          `json:"component_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
}

// Transaction encabezado del libro de inventario. Las líneas (TransactionLine)
// explican cada movimiento; el encabezado guarda todo lo necesario para
// materializarlas, de modo que un borrador pueda aprobarse después sin releer
// la BOM viva.
type Transaction struct {
	ID        string
	CompanyID string
	Type      string
	Status    string
	Date      time.Time

	// Ítem objetivo: componente (receipt/initial/adjustment) o SKU (build/outbound).
	ItemID   string
	Quantity decimal.Decimal // cantidad del encabezado; en build = unidades a fabricar

	LocationID     *string // receipt/initial/adjustment/build/outbound
	FromLocationID *string // transfer
	ToLocationID   *string // transfer

	Reason string // obligatorio en adjustment

	// Recibo con lote.
	LotNumber string
	LotExpiry *time.Time

	// Costo unitario del recibo; si UpdateItemCost, sobrescribe el costo estándar del ítem.
	UnitCost       *decimal.Decimal
	UpdateItemCost bool

	// Build: versión de BOM, snapshot congelado y costos calculados al crear.
	BOMVersionID        *string
	BOMSnapshot         []BOMSnapshotLine
	BuildUnitCost       decimal.Decimal
	BuildTotalCost      decimal.Decimal
	DefectCount         int
	RecordFinishedGoods bool

	CreatedBy  string
	ReviewedBy *string
	ReviewedAt *time.Time
	ReviewNote string
	DeletedBy  *string
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Processed indica si la transacción ya salió del estado borrador.
func (t *Transaction) Processed() bool {
	return t.Status != TransactionStatusDraft
}
