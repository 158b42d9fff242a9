package entity

import "time"

// Tipos de alerta emitidos por el motor.
const (
	AlertTypeDefectRate = "defect_rate" // tasa de defectos sobre el umbral en un build
	AlertTypeLowStock   = "low_stock"   // componente bajo punto de reorden
)

// Alert aviso no crítico generado post-commit; su entrega la maneja un
// colaborador externo.
type Alert struct {
	ID            string
	CompanyID     string
	TransactionID *string
	Type          string
	Message       string
	CreatedAt     time.Time
}
