package ledger

import (
	"math"
	"strconv"
	"time"
)

// =============================================================================
// TIMESTAMP - Nanoseconds since the Unix epoch
// =============================================================================

// Timestamp is the engine's notion of a transaction date: nanoseconds since
// the Unix epoch. Integer comparison gives exact, inclusive bounds.
type Timestamp int64

func FromTime(t time.Time) Timestamp { return Timestamp(t.UnixNano()) }

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) Timestamp {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func (ts Timestamp) Time() time.Time { return time.Unix(0, int64(ts)).UTC() }

func (ts Timestamp) Before(other Timestamp) bool { return ts < other }
func (ts Timestamp) After(other Timestamp) bool  { return ts > other }

// AddDays shifts by whole 24h days.
func (ts Timestamp) AddDays(n int) Timestamp {
	return ts + Timestamp(time.Duration(n)*24*time.Hour)
}

func (ts Timestamp) String() string { return ts.Time().Format("2006-01-02") }

// ParseTimestamp accepts either integer nanoseconds or a YYYY-MM-DD date.
func ParseTimestamp(s string) (Timestamp, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Timestamp(n), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, &InputError{Field: "date", Reason: "use nanoseconds or YYYY-MM-DD"}
	}
	return FromTime(t), nil
}

// =============================================================================
// WINDOW - Optional date bounds for reporting
// =============================================================================

// Window bounds a computation to [From, To], both inclusive.
// A nil bound is unbounded on that side.
type Window struct {
	From *Timestamp `json:"from,omitempty"`
	To   *Timestamp `json:"to,omitempty"`
}

// Unbounded returns a window that admits every date.
func Unbounded() Window { return Window{} }

// Between returns the inclusive window [from, to].
func Between(from, to Timestamp) Window { return Window{From: &from, To: &to} }

// Through admits every date up to and including t.
func Through(t Timestamp) Window { return Window{To: &t} }

// Before admits every date strictly earlier than t. Nothing is earlier
// than the minimum timestamp, so that case yields an empty window.
func Before(t Timestamp) Window {
	if t == math.MinInt64 {
		from, to := Timestamp(math.MaxInt64), Timestamp(math.MinInt64)
		return Window{From: &from, To: &to}
	}
	end := t - 1
	return Window{To: &end}
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts Timestamp) bool {
	if w.From != nil && ts < *w.From {
		return false
	}
	if w.To != nil && ts > *w.To {
		return false
	}
	return true
}

// MonthWindow covers a full UTC calendar month, first nanosecond to last.
func MonthWindow(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Between(FromTime(start), FromTime(end))
}

func (w Window) String() string {
	from, to := "-inf", "+inf"
	if w.From != nil {
		from = w.From.String()
	}
	if w.To != nil {
		to = w.To.String()
	}
	return "[" + from + ", " + to + "]"
}
