package ledger

import (
	"fmt"
	"sync"
)

// LockCheckResult tells a write path whether a date may be written.
type LockCheckResult struct {
	Locked bool              `json:"locked"`
	Reason string            `json:"reason,omitempty"`
	Period *SettlementPeriod `json:"period,omitempty"`
}

// CheckLock reports whether date falls inside any closed period, bounds
// inclusive. Only the first match in the supplied order is reported;
// overlapping periods are tolerated. Open periods in the input are skipped.
func CheckLock(date Timestamp, closedPeriods []SettlementPeriod) LockCheckResult {
	for i := range closedPeriods {
		p := closedPeriods[i]
		if !p.IsClosed() {
			continue
		}
		if p.Contains(date) {
			return LockCheckResult{Locked: true, Reason: lockMessage(p), Period: &p}
		}
	}
	return LockCheckResult{}
}

// Err converts a locked result into a *LockedPeriodError.
func (r LockCheckResult) Err(date Timestamp) error {
	if !r.Locked || r.Period == nil {
		return nil
	}
	return &LockedPeriodError{Date: date, Period: *r.Period}
}

func lockMessage(p SettlementPeriod) string {
	return fmt.Sprintf("this date falls within closed settlement period %d (%s - %s); "+
		"transactions in closed periods cannot be added or edited, record an adjustment instead",
		p.ID, p.StartDate, p.EndDate)
}

// PeriodGate orders lock-checked writes against period closes. Writers hold
// it shared from the lock check until their insert lands; ClosePeriod holds
// it exclusively from reading the period until the close is stored. A write
// is therefore either in the closing snapshot or refused as locked.
type PeriodGate struct {
	mu sync.RWMutex
}

func NewPeriodGate() *PeriodGate { return &PeriodGate{} }
