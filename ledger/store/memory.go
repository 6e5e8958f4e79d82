// Package store provides an in-memory implementation of the ledger stores.
package store

import (
	"context"
	"sync"

	"github.com/warp/consignflow/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements ledger.RecordStore, ledger.PeriodStore and
// ledger.SettingsStore. Ids are slice positions, so they start at 0 and are
// never reused until Reset empties the store.
type Memory struct {
	mu           sync.RWMutex
	reps         []ledger.Rep
	products     []ledger.Product
	consignments []ledger.Consignment
	sales        []ledger.Sale
	returns      []ledger.Return
	payouts      []ledger.Payout
	adjustments  []ledger.Adjustment
	periods      []ledger.SettlementPeriod
	settings     *ledger.CommissionSettings
}

func NewMemory() *Memory {
	return &Memory{}
}

// =============================================================================
// CATALOG
// =============================================================================

func (m *Memory) AddRep(_ context.Context, rep ledger.Rep) (ledger.RepID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rep.ID = ledger.RepID(len(m.reps))
	m.reps = append(m.reps, rep)
	return rep.ID, nil
}

func (m *Memory) AddProduct(_ context.Context, p ledger.Product) (ledger.ProductID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = ledger.ProductID(len(m.products))
	m.products = append(m.products, p)
	return p.ID, nil
}

func (m *Memory) GetRep(_ context.Context, id ledger.RepID) (ledger.Rep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if uint64(id) >= uint64(len(m.reps)) {
		return ledger.Rep{}, &ledger.NotFoundError{Kind: "rep", ID: uint64(id)}
	}
	return m.reps[id], nil
}

func (m *Memory) GetProduct(_ context.Context, id ledger.ProductID) (ledger.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if uint64(id) >= uint64(len(m.products)) {
		return ledger.Product{}, &ledger.NotFoundError{Kind: "product", ID: uint64(id)}
	}
	return m.products[id], nil
}

func (m *Memory) ListReps(_ context.Context) ([]ledger.Rep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ledger.Rep{}, m.reps...), nil
}

func (m *Memory) ListProducts(_ context.Context) ([]ledger.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ledger.Product{}, m.products...), nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (m *Memory) AddConsignment(_ context.Context, c ledger.Consignment) (ledger.RecordID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = ledger.RecordID(len(m.consignments))
	m.consignments = append(m.consignments, c)
	return c.ID, nil
}

func (m *Memory) AddSale(_ context.Context, s ledger.Sale) (ledger.RecordID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = ledger.RecordID(len(m.sales))
	m.sales = append(m.sales, s)
	return s.ID, nil
}

func (m *Memory) AddReturn(_ context.Context, r ledger.Return) (ledger.RecordID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = ledger.RecordID(len(m.returns))
	m.returns = append(m.returns, r)
	return r.ID, nil
}

func (m *Memory) AddPayout(_ context.Context, p ledger.Payout) (ledger.RecordID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = ledger.RecordID(len(m.payouts))
	m.payouts = append(m.payouts, p)
	return p.ID, nil
}

func (m *Memory) AddAdjustment(_ context.Context, a ledger.Adjustment) (ledger.RecordID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.ID = ledger.RecordID(len(m.adjustments))
	m.adjustments = append(m.adjustments, a)
	return a.ID, nil
}

func (m *Memory) ListConsignments(_ context.Context, f ledger.RecordFilter) ([]ledger.Consignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterByRep(m.consignments, f, func(c ledger.Consignment) ledger.RepID { return c.RepID }), nil
}

func (m *Memory) ListSales(_ context.Context, f ledger.RecordFilter) ([]ledger.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterByRep(m.sales, f, func(s ledger.Sale) ledger.RepID { return s.RepID }), nil
}

func (m *Memory) ListReturns(_ context.Context, f ledger.RecordFilter) ([]ledger.Return, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterByRep(m.returns, f, func(r ledger.Return) ledger.RepID { return r.RepID }), nil
}

func (m *Memory) ListPayouts(_ context.Context, f ledger.RecordFilter) ([]ledger.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterByRep(m.payouts, f, func(p ledger.Payout) ledger.RepID { return p.RepID }), nil
}

func (m *Memory) ListAdjustments(_ context.Context, f ledger.RecordFilter) ([]ledger.Adjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterByRep(m.adjustments, f, func(a ledger.Adjustment) ledger.RepID { return a.RepID }), nil
}

// filterByRep copies the matching records so callers never alias store state.
func filterByRep[T any](items []T, f ledger.RecordFilter, repOf func(T) ledger.RepID) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if f.RepID == nil || repOf(it) == *f.RepID {
			out = append(out, it)
		}
	}
	return out
}

// =============================================================================
// SETTLEMENT PERIODS
// =============================================================================

func (m *Memory) CreatePeriod(_ context.Context, p ledger.SettlementPeriod) (ledger.SettlementPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = ledger.PeriodID(len(m.periods))
	m.periods = append(m.periods, clonePeriod(p))
	return clonePeriod(p), nil
}

func (m *Memory) GetPeriod(_ context.Context, id ledger.PeriodID) (ledger.SettlementPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if uint64(id) >= uint64(len(m.periods)) {
		return ledger.SettlementPeriod{}, &ledger.NotFoundError{Kind: "settlement period", ID: uint64(id)}
	}
	return clonePeriod(m.periods[id]), nil
}

func (m *Memory) ListPeriods(_ context.Context) ([]ledger.SettlementPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.SettlementPeriod, len(m.periods))
	for i, p := range m.periods {
		out[i] = clonePeriod(p)
	}
	return out, nil
}

// ClosePeriod is a compare-and-set on the status.
func (m *Memory) ClosePeriod(_ context.Context, id ledger.PeriodID, closing map[ledger.RepID]ledger.RepBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uint64(id) >= uint64(len(m.periods)) {
		return &ledger.NotFoundError{Kind: "settlement period", ID: uint64(id)}
	}
	p := &m.periods[id]
	if p.IsClosed() {
		return &ledger.AlreadyClosedError{PeriodID: id}
	}
	p.Status = ledger.StatusClosed
	p.ClosingBalances = cloneBalances(closing)
	return nil
}

func clonePeriod(p ledger.SettlementPeriod) ledger.SettlementPeriod {
	p.StatementIDs = append([]uint64{}, p.StatementIDs...)
	p.OpeningBalances = cloneBalances(p.OpeningBalances)
	p.ClosingBalances = cloneBalances(p.ClosingBalances)
	return p
}

func cloneBalances(in map[ledger.RepID]ledger.RepBalance) map[ledger.RepID]ledger.RepBalance {
	out := make(map[ledger.RepID]ledger.RepBalance, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// =============================================================================
// COMMISSION SETTINGS
// =============================================================================

func (m *Memory) LoadCommissionSettings(_ context.Context) (ledger.CommissionSettings, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return ledger.CommissionSettings{}, false, nil
	}
	return m.settings.Clone(), true, nil
}

func (m *Memory) SaveCommissionSettings(_ context.Context, s ledger.CommissionSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := s.Clone()
	m.settings = &c
	return nil
}

// Reset clears all data and restarts ids at 0 (for demo scenarios).
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reps, m.products = nil, nil
	m.consignments, m.sales, m.returns = nil, nil, nil
	m.payouts, m.adjustments = nil, nil
	m.periods = nil
	m.settings = nil
	return nil
}
