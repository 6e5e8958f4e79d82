/*
recorder.go - Validated write path for records

PURPOSE:
  Every create goes through the Recorder. It checks the input, resolves the
  rep and product the record points at, and for Consignment, Sale, Return
  and Payout refuses any date that falls inside a closed settlement period.

LOCK ORDERING:
  The lock check and the insert run under the PeriodGate shared with
  Settlement, so a write cannot slip in between a close's snapshot and its
  status change.

LOCK EXEMPTION:
  Adjustments skip the lock check. They are how a closed period gets
  corrected.
*/
package ledger

import (
	"context"
	"strings"
)

// Recorder writes records to the store after validation and lock checks.
type Recorder struct {
	Store   RecordStore
	Periods PeriodStore
	Gate    *PeriodGate
}

// NewRecorder builds a Recorder. gate must be the one the Settlement closing
// periods over the same store uses.
func NewRecorder(store RecordStore, periods PeriodStore, gate *PeriodGate) *Recorder {
	return &Recorder{Store: store, Periods: periods, Gate: gate}
}

func (r *Recorder) AddRep(ctx context.Context, name string) (Rep, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Rep{}, &InputError{Field: "name", Reason: "must not be empty"}
	}
	rep := Rep{Name: name}
	id, err := r.Store.AddRep(ctx, rep)
	if err != nil {
		return Rep{}, err
	}
	rep.ID = id
	return rep, nil
}

func (r *Recorder) AddProduct(ctx context.Context, name string, price Money) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, &InputError{Field: "name", Reason: "must not be empty"}
	}
	if price < 0 {
		return Product{}, &InputError{Field: "price", Reason: "must not be negative"}
	}
	p := Product{Name: name, Price: price}
	id, err := r.Store.AddProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	return p, nil
}

func (r *Recorder) AddConsignment(ctx context.Context, c Consignment) (Consignment, error) {
	if err := r.checkLine(ctx, c.RepID, c.ProductID, c.Quantity); err != nil {
		return Consignment{}, err
	}
	err := r.lockedInsert(ctx, c.Date, func() (err error) {
		c.ID, err = r.Store.AddConsignment(ctx, c)
		return err
	})
	if err != nil {
		return Consignment{}, err
	}
	return c, nil
}

func (r *Recorder) AddSale(ctx context.Context, s Sale) (Sale, error) {
	if s.UnitPrice < 0 {
		return Sale{}, &InputError{Field: "unitPrice", Reason: "must not be negative"}
	}
	if err := r.checkLine(ctx, s.RepID, s.ProductID, s.Quantity); err != nil {
		return Sale{}, err
	}
	err := r.lockedInsert(ctx, s.Date, func() (err error) {
		s.ID, err = r.Store.AddSale(ctx, s)
		return err
	})
	if err != nil {
		return Sale{}, err
	}
	return s, nil
}

func (r *Recorder) AddReturn(ctx context.Context, ret Return) (Return, error) {
	if err := r.checkLine(ctx, ret.RepID, ret.ProductID, ret.Quantity); err != nil {
		return Return{}, err
	}
	err := r.lockedInsert(ctx, ret.Date, func() (err error) {
		ret.ID, err = r.Store.AddReturn(ctx, ret)
		return err
	})
	if err != nil {
		return Return{}, err
	}
	return ret, nil
}

func (r *Recorder) AddPayout(ctx context.Context, p Payout) (Payout, error) {
	if p.Amount < 0 {
		return Payout{}, &InputError{Field: "amount", Reason: "must not be negative"}
	}
	if _, err := r.Store.GetRep(ctx, p.RepID); err != nil {
		return Payout{}, err
	}
	err := r.lockedInsert(ctx, p.Date, func() (err error) {
		p.ID, err = r.Store.AddPayout(ctx, p)
		return err
	})
	if err != nil {
		return Payout{}, err
	}
	return p, nil
}

// AddAdjustment records a correction. No lock check.
func (r *Recorder) AddAdjustment(ctx context.Context, a Adjustment) (Adjustment, error) {
	if strings.TrimSpace(a.Notes) == "" {
		return Adjustment{}, &InputError{Field: "notes", Reason: "a reason is required"}
	}
	if _, err := r.Store.GetRep(ctx, a.RepID); err != nil {
		return Adjustment{}, err
	}
	id, err := r.Store.AddAdjustment(ctx, a)
	if err != nil {
		return Adjustment{}, err
	}
	a.ID = id
	return a, nil
}

func (r *Recorder) checkLine(ctx context.Context, repID RepID, productID ProductID, qty int64) error {
	if qty <= 0 {
		return &InputError{Field: "quantity", Reason: "must be positive"}
	}
	if _, err := r.Store.GetRep(ctx, repID); err != nil {
		return err
	}
	_, err := r.Store.GetProduct(ctx, productID)
	return err
}

// lockedInsert runs insert only if date is outside every closed period,
// holding the gate shared so no close can complete in between.
func (r *Recorder) lockedInsert(ctx context.Context, date Timestamp, insert func() error) error {
	r.Gate.mu.RLock()
	defer r.Gate.mu.RUnlock()

	periods, err := r.Periods.ListPeriods(ctx)
	if err != nil {
		return err
	}
	if err := CheckLock(date, ClosedPeriods(periods)).Err(date); err != nil {
		return err
	}
	return insert()
}
