package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrAlreadyProcessed     = errors.New("la transacción ya fue procesada")
	ErrInvalidTransition    = errors.New("transición inválida")
	ErrInsufficientStock    = errors.New("inventario insuficiente")
	ErrInsufficientLotStock = errors.New("cantidad insuficiente en lotes")
	ErrDefaultLocation      = errors.New("la ubicación por defecto no puede desactivarse ni eliminarse")
)

// Shortage detalla el faltante de un componente: requerido vs disponible.
type Shortage struct {
	ComponentID string
	Required    decimal.Decimal
	Available   decimal.Decimal
	Shortage    decimal.Decimal
}

// InsufficientStockError inventario insuficiente con lista detallada de faltantes.
// Unwrap permite errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requerido %s, disponible %s", s.ComponentID, s.Required, s.Available))
	}
	return "inventario insuficiente: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InsufficientLotError los lotes disponibles no cubren la cantidad requerida (FEFO agotado).
type InsufficientLotError struct {
	ComponentID string
	Required    decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientLotError) Error() string {
	return fmt.Sprintf("lotes insuficientes para %s: requerido %s, disponible %s",
		e.ComponentID, e.Required, e.Available)
}

func (e *InsufficientLotError) Unwrap() error { return ErrInsufficientLotStock }

// LotOverrideViolation una asignación manual de lote inválida.
type LotOverrideViolation struct {
	ComponentID string
	LotID       string
	Reason      string
}

// LotOverrideError acumula todas las violaciones de asignación manual de lotes
// (se validan en lote, no se falla en la primera).
type LotOverrideError struct {
	Violations []LotOverrideViolation
}

func (e *LotOverrideError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("lote %s (%s): %s", v.LotID, v.ComponentID, v.Reason))
	}
	return "asignación de lotes inválida: " + strings.Join(parts, "; ")
}

func (e *LotOverrideError) Unwrap() error { return ErrInvalidInput }
