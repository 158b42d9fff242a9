package entity

import "time"

// Location representa una ubicación de almacenamiento (bodega, estante, planta).
// Cada empresa tiene exactamente una ubicación por defecto; esa no puede
// desactivarse ni eliminarse.
type Location struct {
	ID        string
	CompanyID string
	Name      string
	IsDefault bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
