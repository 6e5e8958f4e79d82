package ledger

import "sort"

// =============================================================================
// SETTLEMENT PERIOD - The unit of "closing the books"
// =============================================================================

type PeriodStatus string

const (
	StatusOpen   PeriodStatus = "open"
	StatusClosed PeriodStatus = "closed"
)

// SettlementPeriod is a date range whose transactions get locked once closed.
//
// INVARIANTS:
//   - StartDate < EndDate
//   - OpeningBalances are taken at creation over every transaction dated
//     strictly before StartDate
//   - ClosingBalances are taken once, at close, over every transaction
//     dated on or before EndDate (cumulative, not just inside the period)
//   - A closed period never changes again
type SettlementPeriod struct {
	ID              PeriodID             `json:"id"`
	StartDate       Timestamp            `json:"startDate"`
	EndDate         Timestamp            `json:"endDate"`
	Status          PeriodStatus         `json:"status"`
	StatementIDs    []uint64             `json:"statementIds"`
	OpeningBalances map[RepID]RepBalance `json:"openingBalances"`
	ClosingBalances map[RepID]RepBalance `json:"closingBalances"`
}

func (p SettlementPeriod) IsClosed() bool { return p.Status == StatusClosed }

// Contains is inclusive on both ends.
func (p SettlementPeriod) Contains(ts Timestamp) bool {
	return ts >= p.StartDate && ts <= p.EndDate
}

// Window returns the period's own [StartDate, EndDate] window.
func (p SettlementPeriod) Window() Window { return Between(p.StartDate, p.EndDate) }

// HasRep reports whether the rep appears in either snapshot.
func (p SettlementPeriod) HasRep(repID RepID) bool {
	if _, ok := p.OpeningBalances[repID]; ok {
		return true
	}
	_, ok := p.ClosingBalances[repID]
	return ok
}

// ValidateRange enforces start < end.
func ValidateRange(start, end Timestamp) error {
	if start >= end {
		return ErrInvalidRange
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// PeriodFilter narrows a period listing. Zero value matches everything.
type PeriodFilter struct {
	Status *PeriodStatus
	RepID  *RepID
}

func (f PeriodFilter) Match(p SettlementPeriod) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.RepID != nil && !p.HasRep(*f.RepID) {
		return false
	}
	return true
}

// FilterPeriods returns matching periods, most recent start first.
func FilterPeriods(periods []SettlementPeriod, f PeriodFilter) []SettlementPeriod {
	out := make([]SettlementPeriod, 0, len(periods))
	for _, p := range periods {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate > out[j].StartDate
	})
	return out
}

// ClosedPeriods keeps only closed periods, preserving input order.
func ClosedPeriods(periods []SettlementPeriod) []SettlementPeriod {
	var out []SettlementPeriod
	for _, p := range periods {
		if p.IsClosed() {
			out = append(out, p)
		}
	}
	return out
}
