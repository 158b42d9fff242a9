package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// TransactionFilter filtros de listado del libro.
type TransactionFilter struct {
	Type   string
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// TransactionRepository puerto de persistencia para encabezados del libro.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// GetForUpdate bloquea el encabezado (aprobación y edición concurrentes).
	GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error)
	Update(ctx context.Context, tx *entity.Transaction) error
	SoftDelete(ctx context.Context, id, userID string, at time.Time) error
	HardDelete(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string, filter TransactionFilter) ([]*entity.Transaction, error)
}

// TransactionLineRepository puerto de persistencia para líneas del libro.
type TransactionLineRepository interface {
	Create(ctx context.Context, line *entity.TransactionLine) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*entity.TransactionLine, error)
	DeleteByTransaction(ctx context.Context, transactionID string) error
	// SumByItemLocation Σ(quantity_change) por par, desde el libro (historia
	// write-only) — contraparte de los saldos materializados.
	SumByItemLocation(ctx context.Context, companyID string) ([]*entity.InventoryBalance, error)
}
