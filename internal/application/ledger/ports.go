package ledger

import (
	"context"

	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD. Todo efecto del
// libro (línea + saldo de lote + saldo por ubicación) se escribe a través de
// este conjunto dentro de un único scope atómico.
type Repos struct {
	Transactions repository.TransactionRepository
	Lines        repository.TransactionLineRepository
	Balances     repository.BalanceRepository
	Lots         repository.LotRepository
	Items        repository.ItemRepository
	Locations    repository.LocationRepository
	BOMs         repository.BOMRepository
	Alerts       repository.AlertRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Commit si fn retorna nil, Rollback si falla: los efectos
// parciales nunca son observables.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
