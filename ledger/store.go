/*
store.go - Persistence interfaces the engine depends on

PURPOSE:
  The record store, the period store and the settings store are external
  collaborators. The engine only needs the operations below; concrete
  implementations live in ledger/store (memory) and store/sqlite.

KEY INTERFACES:
  RecordStore:   create / read-all / read-by-id / read-by-rep for every entity
  PeriodStore:   settlement periods, with a compare-and-set close
  SettingsStore: commission settings, read and written wholesale

IDENTIFIERS:
  Every Add* assigns the next sequential id (starting at 0) and returns it.
  Ids are never reused while the data lives. Reset, used by the demo
  loader, wipes everything and restarts ids at 0.

CONCURRENCY:
  Stores serialize writes. ClosePeriod must only succeed while the stored
  status is still open; otherwise it returns *AlreadyClosedError.
*/
package ledger

import "context"

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go

// RecordFilter narrows a transaction listing. A nil RepID lists every rep.
type RecordFilter struct {
	RepID *RepID
}

// ForRep builds a filter for one rep.
func ForRep(id RepID) RecordFilter { return RecordFilter{RepID: &id} }

// RecordStore persists catalog entries and transaction records.
type RecordStore interface {
	AddRep(ctx context.Context, rep Rep) (RepID, error)
	AddProduct(ctx context.Context, product Product) (ProductID, error)
	AddConsignment(ctx context.Context, c Consignment) (RecordID, error)
	AddSale(ctx context.Context, s Sale) (RecordID, error)
	AddReturn(ctx context.Context, r Return) (RecordID, error)
	AddPayout(ctx context.Context, p Payout) (RecordID, error)
	AddAdjustment(ctx context.Context, a Adjustment) (RecordID, error)

	// GetRep and GetProduct return *NotFoundError when the id is unknown.
	GetRep(ctx context.Context, id RepID) (Rep, error)
	GetProduct(ctx context.Context, id ProductID) (Product, error)

	ListReps(ctx context.Context) ([]Rep, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListConsignments(ctx context.Context, f RecordFilter) ([]Consignment, error)
	ListSales(ctx context.Context, f RecordFilter) ([]Sale, error)
	ListReturns(ctx context.Context, f RecordFilter) ([]Return, error)
	ListPayouts(ctx context.Context, f RecordFilter) ([]Payout, error)
	ListAdjustments(ctx context.Context, f RecordFilter) ([]Adjustment, error)
}

// PeriodStore persists settlement periods.
type PeriodStore interface {
	// CreatePeriod stores p with the next sequential id and returns it.
	CreatePeriod(ctx context.Context, p SettlementPeriod) (SettlementPeriod, error)

	// GetPeriod returns *NotFoundError when the id is unknown.
	GetPeriod(ctx context.Context, id PeriodID) (SettlementPeriod, error)

	// ListPeriods returns every period in id order.
	ListPeriods(ctx context.Context) ([]SettlementPeriod, error)

	// ClosePeriod sets status closed and stores the closing snapshot, only
	// if the period is still open.
	ClosePeriod(ctx context.Context, id PeriodID, closing map[RepID]RepBalance) error
}

// SettingsStore persists commission settings under CommissionSettingsKey.
type SettingsStore interface {
	LoadCommissionSettings(ctx context.Context) (CommissionSettings, bool, error)
	SaveCommissionSettings(ctx context.Context, s CommissionSettings) error
}

// LoadRecords reads a full snapshot from the store.
func LoadRecords(ctx context.Context, rs RecordStore) (Records, error) {
	var (
		recs Records
		err  error
		all  RecordFilter
	)
	if recs.Reps, err = rs.ListReps(ctx); err != nil {
		return Records{}, err
	}
	if recs.Products, err = rs.ListProducts(ctx); err != nil {
		return Records{}, err
	}
	if recs.Consignments, err = rs.ListConsignments(ctx, all); err != nil {
		return Records{}, err
	}
	if recs.Sales, err = rs.ListSales(ctx, all); err != nil {
		return Records{}, err
	}
	if recs.Returns, err = rs.ListReturns(ctx, all); err != nil {
		return Records{}, err
	}
	if recs.Payouts, err = rs.ListPayouts(ctx, all); err != nil {
		return Records{}, err
	}
	if recs.Adjustments, err = rs.ListAdjustments(ctx, all); err != nil {
		return Records{}, err
	}
	return recs, nil
}
