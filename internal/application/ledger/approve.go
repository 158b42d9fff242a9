package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// ApproveOptions decisiones del revisor al aprobar un borrador.
type ApproveOptions struct {
	AllowInsufficient bool
	LotOverrides      map[string][]LotOverride
}

// Approve aprueba un borrador en un único scope atómico: bloquea el
// encabezado, revalida disponibilidad usando los componentes del snapshot
// contra los saldos ACTUALES (recheck optimista que estrecha — no elimina —
// la carrera check/commit; el FOR UPDATE sobre saldos y lotes dentro del mismo
// scope hace el resto), materializa líneas/lotes/producto terminado y marca
// aprobado con revisor y timestamp.
func (uc *UseCase) Approve(ctx context.Context, companyID, reviewerID, id string, opts ApproveOptions) (*CreateResult, error) {
	result := &CreateResult{}
	applyOpts := applyOptions{AllowInsufficient: opts.AllowInsufficient, Overrides: opts.LotOverrides}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		tx, err := r.Transactions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tx == nil || tx.DeletedAt != nil {
			return domain.ErrNotFound
		}
		if tx.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if tx.Status != entity.TransactionStatusDraft {
			return domain.ErrAlreadyProcessed
		}

		warning, shortages, err := uc.apply(ctx, r, tx, applyOpts)
		if err != nil {
			return err
		}

		now := time.Now()
		tx.Status = entity.TransactionStatusApproved
		tx.ReviewedBy = &reviewerID
		tx.ReviewedAt = &now
		tx.UpdatedAt = now
		if err := r.Transactions.Update(ctx, tx); err != nil {
			return err
		}
		result.Transaction = tx
		result.Warning = warning
		result.Shortages = shortages
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.evaluateDefects(ctx, result.Transaction)
	return result, nil
}

// Reject rechaza un borrador con motivo opcional. No produce ningún efecto
// en el libro ni en los saldos.
func (uc *UseCase) Reject(ctx context.Context, companyID, reviewerID, id, reason string) error {
	return uc.txRunner.Run(ctx, func(r Repos) error {
		tx, err := r.Transactions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tx == nil || tx.DeletedAt != nil {
			return domain.ErrNotFound
		}
		if tx.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if tx.Status != entity.TransactionStatusDraft {
			return domain.ErrAlreadyProcessed
		}
		now := time.Now()
		tx.Status = entity.TransactionStatusRejected
		tx.ReviewedBy = &reviewerID
		tx.ReviewedAt = &now
		tx.ReviewNote = reason
		tx.UpdatedAt = now
		return r.Transactions.Update(ctx, tx)
	})
}

// BatchApprovalResult resultado individual dentro de una aprobación por lote.
type BatchApprovalResult struct {
	TransactionID string
	Result        *CreateResult
	Err           error
}

// ApproveBatch aprueba borradores secuencialmente, cada uno en su propio
// scope atómico: el fallo de uno no bloquea a los demás.
func (uc *UseCase) ApproveBatch(ctx context.Context, companyID, reviewerID string, ids []string, opts ApproveOptions) []BatchApprovalResult {
	results := make([]BatchApprovalResult, 0, len(ids))
	for _, id := range ids {
		res, err := uc.Approve(ctx, companyID, reviewerID, id, opts)
		if err != nil {
			uc.log.Warn().Err(err).Str("transaction_id", id).Msg("aprobación en lote: borrador rechazado por error")
		}
		results = append(results, BatchApprovalResult{TransactionID: id, Result: res, Err: err})
	}
	return results
}
