package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/domain"
	"github.com/jhoicas/Inventario-api/internal/domain/costing"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
	"github.com/jhoicas/Inventario-api/pkg/logger"
)

// UseCase motor del libro de inventario: creación tipada de transacciones
// (receipt, initial, adjustment, transfer, build, outbound), flujo
// borrador/aprobación, edición con reversa y consumo de lotes FEFO.
// Los repos inyectados aquí (atados al pool) se usan para validaciones de
// lectura y efectos post-commit; las mutaciones pasan por el TxRunner.
type UseCase struct {
	txRunner  TxRunner
	items     repository.ItemRepository
	locations repository.LocationRepository
	boms      repository.BOMRepository
	lots      repository.LotRepository
	alerts    repository.AlertRepository
	log       *logger.Logger

	// Tasa de defectos (defectos/unidades) que dispara la alerta post-commit.
	defectThreshold decimal.Decimal
}

// NewUseCase construye el motor del libro.
func NewUseCase(
	txRunner TxRunner,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	boms repository.BOMRepository,
	lots repository.LotRepository,
	alerts repository.AlertRepository,
	log *logger.Logger,
	defectThreshold decimal.Decimal,
) *UseCase {
	return &UseCase{
		txRunner:        txRunner,
		items:           items,
		locations:       locations,
		boms:            boms,
		lots:            lots,
		alerts:          alerts,
		log:             log,
		defectThreshold: defectThreshold,
	}
}

// LotOverride asignación manual (lote, cantidad) que reemplaza el FEFO para
// un componente.
type LotOverride struct {
	LotID    string
	Quantity decimal.Decimal
}

// CreateTransactionInput entrada para crear (o recrear, en edición) una
// transacción del libro. Los campos aplican según Type; ver validateInput.
type CreateTransactionInput struct {
	Type     string
	Date     time.Time
	ItemID   string
	Quantity decimal.Decimal // con signo solo en adjustment; en build = unidades

	LocationID     string // vacío = ubicación por defecto de la empresa
	FromLocationID string // transfer
	ToLocationID   string // transfer

	Reason string // obligatorio en adjustment

	LotNumber string
	LotExpiry *time.Time

	UnitCost       *decimal.Decimal
	UpdateItemCost bool

	DefectCount         int
	RecordFinishedGoods bool
	AllowInsufficient   bool
	LotOverrides        map[string][]LotOverride

	AsDraft bool
}

// CreateResult transacción creada más la advertencia de insuficiencia cuando
// AllowInsufficient convirtió el fallo en éxito parcial.
type CreateResult struct {
	Transaction *entity.Transaction
	Warning     bool
	Shortages   []domain.Shortage
}

// CreateTransaction valida la entrada, arma el encabezado (congelando la BOM
// activa si es un build) y, salvo AsDraft, materializa líneas, lotes y saldos
// en un único scope atómico. Los borradores no escriben ninguna línea.
func (uc *UseCase) CreateTransaction(ctx context.Context, companyID, userID string, input CreateTransactionInput) (*CreateResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	item, err := uc.loadItem(ctx, companyID, input)
	if err != nil {
		return nil, err
	}
	if err := uc.resolveLocations(ctx, companyID, &input); err != nil {
		return nil, err
	}

	tx, err := uc.buildHeader(ctx, companyID, userID, item, input)
	if err != nil {
		return nil, err
	}

	result := &CreateResult{Transaction: tx}
	if input.AsDraft {
		if err := uc.txRunner.Run(ctx, func(r Repos) error {
			return r.Transactions.Create(ctx, tx)
		}); err != nil {
			return nil, err
		}
		return result, nil
	}

	opts := applyOptions{AllowInsufficient: input.AllowInsufficient, Overrides: input.LotOverrides}
	if err := uc.txRunner.Run(ctx, func(r Repos) error {
		if err := r.Transactions.Create(ctx, tx); err != nil {
			return err
		}
		warning, shortages, err := uc.apply(ctx, r, tx, opts)
		if err != nil {
			return err
		}
		result.Warning = warning
		result.Shortages = shortages
		return nil
	}); err != nil {
		return nil, err
	}

	uc.evaluateDefects(ctx, tx)
	return result, nil
}

// validateInput validaciones de forma por tipo, previas a cualquier mutación.
func validateInput(input CreateTransactionInput) error {
	if !entity.ValidTransactionType(input.Type) {
		return domain.ErrInvalidInput
	}
	if input.ItemID == "" || input.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.TransactionTypeAdjustment:
		if input.Quantity.IsZero() || input.Reason == "" {
			return domain.ErrInvalidInput
		}
	case entity.TransactionTypeTransfer:
		if input.FromLocationID == "" || input.ToLocationID == "" {
			return domain.ErrInvalidInput
		}
		if input.FromLocationID == input.ToLocationID {
			return domain.ErrInvalidTransition
		}
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	default:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	if input.UnitCost != nil && input.UnitCost.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if input.DefectCount < 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// loadItem carga el ítem y valida pertenencia y tipo según la operación.
func (uc *UseCase) loadItem(ctx context.Context, companyID string, input CreateTransactionInput) (*entity.Item, error) {
	item, err := uc.items.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	switch input.Type {
	case entity.TransactionTypeBuild, entity.TransactionTypeOutbound:
		if item.Type != entity.ItemTypeSKU {
			return nil, domain.ErrInvalidInput
		}
	default:
		if input.LotNumber != "" && item.Type != entity.ItemTypeComponent {
			return nil, domain.ErrInvalidInput
		}
	}
	return item, nil
}

// resolveLocations normaliza las ubicaciones de la entrada: aplica la
// ubicación por defecto cuando falta y valida pertenencia y estado activo.
func (uc *UseCase) resolveLocations(ctx context.Context, companyID string, input *CreateTransactionInput) error {
	if input.Type == entity.TransactionTypeTransfer {
		for _, id := range []string{input.FromLocationID, input.ToLocationID} {
			if err := uc.checkLocation(ctx, companyID, id); err != nil {
				return err
			}
		}
		return nil
	}
	if input.LocationID == "" {
		def, err := uc.locations.GetDefault(ctx, companyID)
		if err != nil {
			return err
		}
		if def == nil {
			return domain.ErrNotFound
		}
		input.LocationID = def.ID
		return nil
	}
	return uc.checkLocation(ctx, companyID, input.LocationID)
}

func (uc *UseCase) checkLocation(ctx context.Context, companyID, id string) error {
	loc, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	if loc.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !loc.Active {
		return domain.ErrInvalidInput
	}
	return nil
}

// buildHeader arma el encabezado. Para builds lee la BOM activa UNA sola vez
// y congela líneas y costos en el snapshot: ediciones posteriores de la receta
// no cambian lo que un borrador pendiente consumirá al aprobarse.
func (uc *UseCase) buildHeader(ctx context.Context, companyID, userID string, item *entity.Item, input CreateTransactionInput) (*entity.Transaction, error) {
	now := time.Now()
	status := entity.TransactionStatusApproved
	if input.AsDraft {
		status = entity.TransactionStatusDraft
	}
	tx := &entity.Transaction{
		ID:                  uuid.New().String(),
		CompanyID:           companyID,
		Type:                input.Type,
		Status:              status,
		Date:                input.Date,
		ItemID:              item.ID,
		Quantity:            input.Quantity,
		Reason:              input.Reason,
		LotNumber:           input.LotNumber,
		LotExpiry:           input.LotExpiry,
		UnitCost:            input.UnitCost,
		UpdateItemCost:      input.UpdateItemCost,
		DefectCount:         input.DefectCount,
		RecordFinishedGoods: input.RecordFinishedGoods,
		CreatedBy:           userID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	switch input.Type {
	case entity.TransactionTypeTransfer:
		tx.FromLocationID = &input.FromLocationID
		tx.ToLocationID = &input.ToLocationID
	default:
		loc := input.LocationID
		tx.LocationID = &loc
	}

	if input.Type == entity.TransactionTypeBuild {
		if err := uc.freezeBOM(ctx, tx, item, input.Date); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// freezeBOM resuelve la versión activa del SKU y congela sus líneas con el
// costo vigente de cada componente.
func (uc *UseCase) freezeBOM(ctx context.Context, tx *entity.Transaction, item *entity.Item, asOf time.Time) error {
	version, err := uc.boms.GetActiveForItem(ctx, item.ID, asOf)
	if err != nil {
		return err
	}
	if version == nil || len(version.Lines) == 0 {
		return fmt.Errorf("sku %s sin BOM activa: %w", item.ID, domain.ErrNotFound)
	}
	ids := make([]string, 0, len(version.Lines))
	for _, l := range version.Lines {
		ids = append(ids, l.ComponentID)
	}
	components, err := uc.items.GetManyByIDs(ctx, ids)
	if err != nil {
		return err
	}

	snapshot := make([]entity.BOMSnapshotLine, 0, len(version.Lines))
	reqs := make([]costing.Requirement, 0, len(version.Lines))
	for _, l := range version.Lines {
		comp, ok := components[l.ComponentID]
		if !ok {
			return fmt.Errorf("componente %s de la BOM no existe: %w", l.ComponentID, domain.ErrNotFound)
		}
		snapshot = append(snapshot, entity.BOMSnapshotLine{
			ComponentID:     l.ComponentID,
			QuantityPerUnit: l.QuantityPerUnit,
			UnitCost:        comp.UnitCost,
		})
		reqs = append(reqs, costing.Requirement{
			ComponentID:     l.ComponentID,
			QuantityPerUnit: l.QuantityPerUnit,
			UnitCost:        comp.UnitCost,
		})
	}

	tx.BOMVersionID = &version.ID
	tx.BOMSnapshot = snapshot
	tx.BuildUnitCost = costing.UnitCost(reqs)
	tx.BuildTotalCost = costing.TotalCost(reqs, tx.Quantity)
	return nil
}

// evaluateDefects evalúa post-commit la tasa de defectos de un build y emite
// la alerta si supera el umbral. Efecto secundario de mejor esfuerzo: un fallo
// aquí se loguea y jamás deshace un movimiento ya confirmado.
func (uc *UseCase) evaluateDefects(ctx context.Context, tx *entity.Transaction) {
	if tx.Type != entity.TransactionTypeBuild || tx.DefectCount <= 0 {
		return
	}
	if !tx.Quantity.GreaterThan(decimal.Zero) {
		return
	}
	rate := decimal.NewFromInt(int64(tx.DefectCount)).Div(tx.Quantity)
	if rate.LessThan(uc.defectThreshold) {
		return
	}
	alert := &entity.Alert{
		ID:            uuid.New().String(),
		CompanyID:     tx.CompanyID,
		TransactionID: &tx.ID,
		Type:          entity.AlertTypeDefectRate,
		Message: fmt.Sprintf("tasa de defectos %s sobre el umbral %s en build de %s unidades",
			rate.Round(4), uc.defectThreshold, tx.Quantity),
		CreatedAt: time.Now(),
	}
	if err := uc.alerts.Create(ctx, alert); err != nil {
		uc.log.Warn().Err(err).
			Str("transaction_id", tx.ID).
			Msg("no se pudo registrar la alerta de defectos")
	}
}
