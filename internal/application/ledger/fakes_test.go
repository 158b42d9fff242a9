package ledger_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-api/internal/application/ledger"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
	"github.com/jhoicas/Inventario-api/internal/domain/lots"
	"github.com/jhoicas/Inventario-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria compartido por todos los repos fake. El fakeTxRunner toma
// un snapshot antes de cada callback y lo restaura si falla, imitando el
// rollback de una transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type balKey struct {
	ItemID     string
	LocationID string
}

type memStore struct {
	items        map[string]*entity.Item
	locations    map[string]*entity.Location
	lots         map[string]*entity.Lot
	lotBalances  map[string]decimal.Decimal
	balances     map[balKey]decimal.Decimal
	transactions map[string]*entity.Transaction
	lines        []*entity.TransactionLine
	boms         map[string]*entity.BOMVersion
	alerts       []*entity.Alert
}

func newMemStore() *memStore {
	return &memStore{
		items:        map[string]*entity.Item{},
		locations:    map[string]*entity.Location{},
		lots:         map[string]*entity.Lot{},
		lotBalances:  map[string]decimal.Decimal{},
		balances:     map[balKey]decimal.Decimal{},
		transactions: map[string]*entity.Transaction{},
		boms:         map[string]*entity.BOMVersion{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.items {
		cp := *v
		c.items[k] = &cp
	}
	for k, v := range s.locations {
		cp := *v
		c.locations[k] = &cp
	}
	for k, v := range s.lots {
		cp := *v
		c.lots[k] = &cp
	}
	for k, v := range s.lotBalances {
		c.lotBalances[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.transactions {
		cp := *v
		c.transactions[k] = &cp
	}
	c.lines = make([]*entity.TransactionLine, len(s.lines))
	for i, l := range s.lines {
		cp := *l
		c.lines[i] = &cp
	}
	for k, v := range s.boms {
		cp := *v
		c.boms[k] = &cp
	}
	c.alerts = make([]*entity.Alert, len(s.alerts))
	for i, a := range s.alerts {
		cp := *a
		c.alerts[i] = &cp
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	*s = *from
}

func (s *memStore) repos() ledger.Repos {
	return ledger.Repos{
		Transactions: &fakeTransactionRepo{s},
		Lines:        &fakeLineRepo{s},
		Balances:     &fakeBalanceRepo{s},
		Lots:         &fakeLotRepo{s},
		Items:        &fakeItemRepo{s},
		Locations:    &fakeLocationRepo{s},
		BOMs:         &fakeBOMRepo{s},
		Alerts:       &fakeAlertRepo{s},
	}
}

// fakeTxRunner scope atómico en memoria: restaura el estado previo si fn falla.
type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repos ledger.Repos) error) error {
	snapshot := r.store.clone()
	if err := fn(r.store.repos()); err != nil {
		r.store.restore(snapshot)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeBalanceRepo struct{ s *memStore }

var _ repository.BalanceRepository = (*fakeBalanceRepo)(nil)

func (r *fakeBalanceRepo) ApplyDelta(_ context.Context, itemID, locationID string, delta decimal.Decimal) error {
	k := balKey{itemID, locationID}
	r.s.balances[k] = r.s.balances[k].Add(delta)
	return nil
}

func (r *fakeBalanceRepo) Get(_ context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	return &entity.InventoryBalance{
		ItemID: itemID, LocationID: locationID,
		Quantity: r.s.balances[balKey{itemID, locationID}],
	}, nil
}

func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.InventoryBalance, error) {
	return r.Get(ctx, itemID, locationID)
}

func (r *fakeBalanceRepo) Total(_ context.Context, itemID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for k, v := range r.s.balances {
		if k.ItemID == itemID {
			total = total.Add(v)
		}
	}
	return total, nil
}

func (r *fakeBalanceRepo) MapForItems(_ context.Context, itemIDs []string, locationID string) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal, len(itemIDs))
	for _, id := range itemIDs {
		result[id] = decimal.Zero
	}
	for k, v := range r.s.balances {
		if _, ok := result[k.ItemID]; !ok {
			continue
		}
		if locationID != "" && k.LocationID != locationID {
			continue
		}
		result[k.ItemID] = result[k.ItemID].Add(v)
	}
	return result, nil
}

func (r *fakeBalanceRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.InventoryBalance, error) {
	var list []*entity.InventoryBalance
	for k, v := range r.s.balances {
		item, ok := r.s.items[k.ItemID]
		if !ok || item.CompanyID != companyID {
			continue
		}
		list = append(list, &entity.InventoryBalance{ItemID: k.ItemID, LocationID: k.LocationID, Quantity: v})
	}
	return list, nil
}

type fakeLotRepo struct{ s *memStore }

var _ repository.LotRepository = (*fakeLotRepo)(nil)

func (r *fakeLotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *lot
	return &cp, nil
}

func (r *fakeLotRepo) UpsertOnReceipt(_ context.Context, lot *entity.Lot, quantity decimal.Decimal) (*entity.Lot, error) {
	for _, existing := range r.s.lots {
		if existing.ComponentID == lot.ComponentID && existing.LotNumber == lot.LotNumber {
			existing.ReceivedQuantity = existing.ReceivedQuantity.Add(quantity)
			if existing.ExpiryDate == nil {
				existing.ExpiryDate = lot.ExpiryDate
			}
			r.s.lotBalances[existing.ID] = r.s.lotBalances[existing.ID].Add(quantity)
			cp := *existing
			return &cp, nil
		}
	}
	saved := *lot
	saved.ID = uuid.New().String()
	saved.ReceivedQuantity = quantity
	saved.CreatedAt = time.Now()
	r.s.lots[saved.ID] = &saved
	r.s.lotBalances[saved.ID] = quantity
	cp := saved
	return &cp, nil
}

func (r *fakeLotRepo) ListAvailable(_ context.Context, componentID string, excludeExpired bool, asOf time.Time) ([]lots.AvailableLot, error) {
	var list []lots.AvailableLot
	for id, lot := range r.s.lots {
		if lot.ComponentID != componentID {
			continue
		}
		qty := r.s.lotBalances[id]
		if !qty.GreaterThan(decimal.Zero) {
			continue
		}
		if excludeExpired && lot.ExpiryDate != nil && lot.ExpiryDate.Before(asOf) {
			continue
		}
		list = append(list, lots.AvailableLot{
			LotID:      id,
			ExpiryDate: lot.ExpiryDate,
			Quantity:   qty,
			CreatedAt:  lot.CreatedAt,
		})
	}
	lots.Order(list)
	return list, nil
}

func (r *fakeLotRepo) ListAvailableForUpdate(ctx context.Context, componentID string, excludeExpired bool, asOf time.Time) ([]lots.AvailableLot, error) {
	return r.ListAvailable(ctx, componentID, excludeExpired, asOf)
}

func (r *fakeLotRepo) AdjustBalance(_ context.Context, lotID string, delta decimal.Decimal) error {
	r.s.lotBalances[lotID] = r.s.lotBalances[lotID].Add(delta)
	return nil
}

func (r *fakeLotRepo) AdjustReceived(_ context.Context, lotID string, delta decimal.Decimal) error {
	if lot, ok := r.s.lots[lotID]; ok {
		lot.ReceivedQuantity = lot.ReceivedQuantity.Add(delta)
	}
	return nil
}

func (r *fakeLotRepo) BalancesFor(_ context.Context, lotIDs []string) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal, len(lotIDs))
	for _, id := range lotIDs {
		if qty, ok := r.s.lotBalances[id]; ok {
			result[id] = qty
		}
	}
	return result, nil
}

type fakeTransactionRepo struct{ s *memStore }

var _ repository.TransactionRepository = (*fakeTransactionRepo)(nil)

func (r *fakeTransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	cp := *tx
	r.s.transactions[tx.ID] = &cp
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	tx, ok := r.s.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeTransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTransactionRepo) Update(_ context.Context, tx *entity.Transaction) error {
	cp := *tx
	r.s.transactions[tx.ID] = &cp
	return nil
}

func (r *fakeTransactionRepo) SoftDelete(_ context.Context, id, userID string, at time.Time) error {
	if tx, ok := r.s.transactions[id]; ok {
		tx.DeletedBy = &userID
		tx.DeletedAt = &at
	}
	return nil
}

func (r *fakeTransactionRepo) HardDelete(_ context.Context, id string) error {
	delete(r.s.transactions, id)
	kept := r.s.lines[:0]
	for _, l := range r.s.lines {
		if l.TransactionID != id {
			kept = append(kept, l)
		}
	}
	r.s.lines = kept
	return nil
}

func (r *fakeTransactionRepo) ListByCompany(_ context.Context, companyID string, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	var list []*entity.Transaction
	for _, tx := range r.s.transactions {
		if tx.CompanyID != companyID || tx.DeletedAt != nil {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		cp := *tx
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

type fakeLineRepo struct{ s *memStore }

var _ repository.TransactionLineRepository = (*fakeLineRepo)(nil)

func (r *fakeLineRepo) Create(_ context.Context, line *entity.TransactionLine) error {
	cp := *line
	r.s.lines = append(r.s.lines, &cp)
	return nil
}

func (r *fakeLineRepo) ListByTransaction(_ context.Context, transactionID string) ([]*entity.TransactionLine, error) {
	var list []*entity.TransactionLine
	for _, l := range r.s.lines {
		if l.TransactionID == transactionID {
			cp := *l
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeLineRepo) DeleteByTransaction(_ context.Context, transactionID string) error {
	kept := r.s.lines[:0]
	for _, l := range r.s.lines {
		if l.TransactionID != transactionID {
			kept = append(kept, l)
		}
	}
	r.s.lines = kept
	return nil
}

func (r *fakeLineRepo) SumByItemLocation(_ context.Context, companyID string) ([]*entity.InventoryBalance, error) {
	sums := map[balKey]decimal.Decimal{}
	for _, l := range r.s.lines {
		tx, ok := r.s.transactions[l.TransactionID]
		if !ok || tx.CompanyID != companyID || tx.DeletedAt != nil {
			continue
		}
		if tx.Status != entity.TransactionStatusApproved {
			continue
		}
		k := balKey{l.ItemID, l.LocationID}
		sums[k] = sums[k].Add(l.QuantityChange)
	}
	var list []*entity.InventoryBalance
	for k, v := range sums {
		list = append(list, &entity.InventoryBalance{ItemID: k.ItemID, LocationID: k.LocationID, Quantity: v})
	}
	return list, nil
}

type fakeItemRepo struct{ s *memStore }

var _ repository.ItemRepository = (*fakeItemRepo)(nil)

func (r *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *fakeItemRepo) GetManyByIDs(_ context.Context, ids []string) (map[string]*entity.Item, error) {
	result := make(map[string]*entity.Item, len(ids))
	for _, id := range ids {
		if item, ok := r.s.items[id]; ok {
			cp := *item
			result[id] = &cp
		}
	}
	return result, nil
}

func (r *fakeItemRepo) UpdateUnitCost(_ context.Context, id string, cost decimal.Decimal) error {
	if item, ok := r.s.items[id]; ok {
		item.UnitCost = cost
	}
	return nil
}

func (r *fakeItemRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Item, error) {
	var list []*entity.Item
	for _, item := range r.s.items {
		if item.CompanyID == companyID {
			cp := *item
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeItemRepo) ListBelowReorderPoint(_ context.Context, companyID, locationID string) ([]repository.LowStockItem, error) {
	var list []repository.LowStockItem
	for id, item := range r.s.items {
		if item.CompanyID != companyID || item.Type != entity.ItemTypeComponent || item.ReorderPoint == nil {
			continue
		}
		stock := decimal.Zero
		for k, v := range r.s.balances {
			if k.ItemID != id {
				continue
			}
			if locationID != "" && k.LocationID != locationID {
				continue
			}
			stock = stock.Add(v)
		}
		if stock.LessThanOrEqual(*item.ReorderPoint) {
			list = append(list, repository.LowStockItem{
				ItemID:       id,
				Code:         item.Code,
				Name:         item.Name,
				CurrentStock: stock,
				ReorderPoint: *item.ReorderPoint,
				UnitCost:     item.UnitCost,
				LeadTimeDays: item.LeadTimeDays,
			})
		}
	}
	return list, nil
}

type fakeLocationRepo struct{ s *memStore }

var _ repository.LocationRepository = (*fakeLocationRepo)(nil)

func (r *fakeLocationRepo) Create(_ context.Context, location *entity.Location) error {
	cp := *location
	r.s.locations[location.ID] = &cp
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *loc
	return &cp, nil
}

func (r *fakeLocationRepo) GetDefault(_ context.Context, companyID string) (*entity.Location, error) {
	for _, loc := range r.s.locations {
		if loc.CompanyID == companyID && loc.IsDefault {
			cp := *loc
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLocationRepo) Update(_ context.Context, location *entity.Location) error {
	cp := *location
	r.s.locations[location.ID] = &cp
	return nil
}

func (r *fakeLocationRepo) Delete(_ context.Context, id string) error {
	delete(r.s.locations, id)
	return nil
}

func (r *fakeLocationRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Location, error) {
	var list []*entity.Location
	for _, loc := range r.s.locations {
		if loc.CompanyID == companyID {
			cp := *loc
			list = append(list, &cp)
		}
	}
	return list, nil
}

type fakeBOMRepo struct{ s *memStore }

var _ repository.BOMRepository = (*fakeBOMRepo)(nil)

func (r *fakeBOMRepo) GetVersion(_ context.Context, id string) (*entity.BOMVersion, error) {
	v, ok := r.s.boms[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeBOMRepo) GetActiveForItem(_ context.Context, itemID string, asOf time.Time) (*entity.BOMVersion, error) {
	var best *entity.BOMVersion
	for _, v := range r.s.boms {
		if v.ItemID != itemID || !v.Active {
			continue
		}
		if v.EffectiveFrom.After(asOf) {
			continue
		}
		if v.EffectiveTo != nil && v.EffectiveTo.Before(asOf) {
			continue
		}
		if best == nil || v.Version > best.Version {
			best = v
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

type fakeAlertRepo struct{ s *memStore }

var _ repository.AlertRepository = (*fakeAlertRepo)(nil)

func (r *fakeAlertRepo) Create(_ context.Context, alert *entity.Alert) error {
	cp := *alert
	r.s.alerts = append(r.s.alerts, &cp)
	return nil
}

func (r *fakeAlertRepo) DeleteByTransaction(_ context.Context, transactionID string) error {
	kept := r.s.alerts[:0]
	for _, a := range r.s.alerts {
		if a.TransactionID == nil || *a.TransactionID != transactionID {
			kept = append(kept, a)
		}
	}
	r.s.alerts = kept
	return nil
}

func (r *fakeAlertRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Alert, error) {
	var list []*entity.Alert
	for _, a := range r.s.alerts {
		if a.CompanyID == companyID {
			cp := *a
			list = append(list, &cp)
		}
	}
	return list, nil
}
