package ledger

import (
	"context"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

// History lecturas del libro: encabezados con sus líneas. No muta nada, así
// que usa repos atados al pool en lugar del TxRunner.
type History struct {
	transactions repository.TransactionRepository
	lines        repository.TransactionLineRepository
}

// NewHistory construye el lector del libro.
func NewHistory(transactions repository.TransactionRepository, lines repository.TransactionLineRepository) *History {
	return &History{transactions: transactions, lines: lines}
}

// Get encabezado con sus líneas. Los borrados lógicos no se exponen.
func (h *History) Get(ctx context.Context, companyID, id string) (*entity.Transaction, []*entity.TransactionLine, error) {
	tx, err := h.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if tx == nil || tx.DeletedAt != nil {
		return nil, nil, domain.ErrNotFound
	}
	if tx.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	lines, err := h.lines.ListByTransaction(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return tx, lines, nil
}

// List encabezados de la empresa con filtros opcionales.
func (h *History) List(ctx context.Context, companyID string, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	return h.transactions.ListByCompany(ctx, companyID, filter)
}
