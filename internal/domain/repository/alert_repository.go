package repository

import (
	"context"

	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// AlertRepository puerto de persistencia para alertas (defectos, bajo stock).
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	DeleteByTransaction(ctx context.Context, transactionID string) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Alert, error)
}
