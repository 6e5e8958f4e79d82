/*
settlement.go - Settlement period lifecycle

PURPOSE:
  Owns creation and closing of settlement periods and the balance
  snapshots taken at each transition.

STATE MACHINE:
  open ──ClosePeriod──▶ closed
  No reopening, no deletion.

SNAPSHOTS:
  CreatePeriod: OpeningBalances over every transaction with date < start
  ClosePeriod:  ClosingBalances over every transaction with date <= end
  The closing snapshot is taken exactly once. Later writes cannot move it
  because the Recorder refuses anything dated inside a closed period, and
  ClosePeriod holds the PeriodGate exclusively so no lock-checked write
  lands between the snapshot and the status change.

CONCURRENCY:
  Two concurrent ClosePeriod calls for the same id both may compute a
  snapshot, but the store's compare-and-set lets only the first one land;
  the second gets *AlreadyClosedError.

SEE ALSO:
  - balance.go: the calculator used for both snapshots
  - lock.go: what closing a period means for writers
*/
package ledger

import (
	"context"

	"github.com/rs/zerolog"
)

// Settlement drives the settlement period state machine.
type Settlement struct {
	Records    RecordStore
	Periods    PeriodStore
	Commission *CommissionService
	Gate       *PeriodGate
	Log        zerolog.Logger
}

func NewSettlement(records RecordStore, periods PeriodStore, commission *CommissionService, gate *PeriodGate, log zerolog.Logger) *Settlement {
	return &Settlement{
		Records:    records,
		Periods:    periods,
		Commission: commission,
		Gate:       gate,
		Log:        log.With().Str("component", "settlement").Logger(),
	}
}

// CreatePeriod opens a new period over [start, end] and snapshots the
// opening balances as of start.
func (s *Settlement) CreatePeriod(ctx context.Context, start, end Timestamp) (SettlementPeriod, error) {
	if err := ValidateRange(start, end); err != nil {
		return SettlementPeriod{}, err
	}

	opening, err := s.Balances(ctx, Before(start))
	if err != nil {
		return SettlementPeriod{}, err
	}

	p, err := s.Periods.CreatePeriod(ctx, SettlementPeriod{
		StartDate:       start,
		EndDate:         end,
		Status:          StatusOpen,
		StatementIDs:    []uint64{},
		OpeningBalances: BalanceMap(opening),
		ClosingBalances: map[RepID]RepBalance{},
	})
	if err != nil {
		return SettlementPeriod{}, err
	}

	s.Log.Info().
		Uint64("period_id", uint64(p.ID)).
		Str("start", start.String()).
		Str("end", end.String()).
		Int("reps", len(p.OpeningBalances)).
		Msg("settlement period created")
	return p, nil
}

// ClosePeriod freezes the closing balances of an open period and locks it.
func (s *Settlement) ClosePeriod(ctx context.Context, id PeriodID) (SettlementPeriod, error) {
	s.Gate.mu.Lock()
	defer s.Gate.mu.Unlock()

	p, err := s.Periods.GetPeriod(ctx, id)
	if err != nil {
		return SettlementPeriod{}, err
	}
	if p.IsClosed() {
		return SettlementPeriod{}, &AlreadyClosedError{PeriodID: id}
	}

	closing, err := s.Balances(ctx, Through(p.EndDate))
	if err != nil {
		return SettlementPeriod{}, err
	}
	snapshot := BalanceMap(closing)

	if err := s.Periods.ClosePeriod(ctx, id, snapshot); err != nil {
		return SettlementPeriod{}, err
	}

	p.Status = StatusClosed
	p.ClosingBalances = snapshot

	s.Log.Info().
		Uint64("period_id", uint64(id)).
		Str("end", p.EndDate.String()).
		Msg("settlement period closed")
	return p, nil
}

func (s *Settlement) GetPeriod(ctx context.Context, id PeriodID) (SettlementPeriod, error) {
	return s.Periods.GetPeriod(ctx, id)
}

// ListPeriods returns periods matching f, most recent start first.
func (s *Settlement) ListPeriods(ctx context.Context, f PeriodFilter) ([]SettlementPeriod, error) {
	all, err := s.Periods.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}
	return FilterPeriods(all, f), nil
}

// ClosedPeriods returns the closed periods in store order, ready for CheckLock.
func (s *Settlement) ClosedPeriods(ctx context.Context) ([]SettlementPeriod, error) {
	all, err := s.Periods.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}
	return ClosedPeriods(all), nil
}

// CheckLock runs the lock check against the current closed periods.
func (s *Settlement) CheckLock(ctx context.Context, date Timestamp) (LockCheckResult, error) {
	closed, err := s.ClosedPeriods(ctx)
	if err != nil {
		return LockCheckResult{}, err
	}
	return CheckLock(date, closed), nil
}

// Balances loads a fresh snapshot of records and settings and computes
// balances over w.
func (s *Settlement) Balances(ctx context.Context, w Window) ([]RepBalance, error) {
	recs, err := LoadRecords(ctx, s.Records)
	if err != nil {
		return nil, err
	}
	settings, err := s.Commission.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeBalances(recs, settings, w), nil
}

// Inventory loads a fresh snapshot of records and computes holdings over w.
func (s *Settlement) Inventory(ctx context.Context, w Window) ([]InventoryItem, error) {
	recs, err := LoadRecords(ctx, s.Records)
	if err != nil {
		return nil, err
	}
	return ComputeInventory(recs, w), nil
}
