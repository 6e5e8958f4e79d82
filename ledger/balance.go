/*
balance.go - Per-rep balance calculation

PURPOSE:
  Computes what each rep is owed over a date window by replaying the raw
  sales, returns and payouts. There is no stored balance that could drift:
  balance is always derived.

DERIVATION (per rep, per window):
  TotalSales   = Σ sale.UnitPrice * sale.Quantity      (captured price)
  TotalReturns = Σ product.Price * return.Quantity     (current catalog price)
  TotalPayouts = Σ payout.Amount
  netSales     = TotalSales - TotalReturns             (may be negative)
  Commission   = netSales * rate / 100
  AmountOwed   = Commission - TotalPayouts             (may be negative)

PRECISION:
  Sums are integer minor units. The percentage multiplication is the only
  fractional step; it is carried in decimal.Decimal so it is exact for any
  rate with a finite decimal expansion and never compounds across reps or
  windows.

FAILURE MODEL:
  Never fails. A return whose product no longer resolves is valued at 0;
  reps without activity get an all-zero balance.
*/
package ledger

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RepBalance is the derived balance of one rep over one window.
type RepBalance struct {
	RepID        RepID           `json:"repId"`
	RepName      string          `json:"repName"`
	TotalSales   Money           `json:"totalSales"`
	TotalReturns Money           `json:"totalReturns"`
	TotalPayouts Money           `json:"totalPayouts"`
	Commission   decimal.Decimal `json:"commission"`
	AmountOwed   decimal.Decimal `json:"amountOwed"`
}

// NetSales is TotalSales - TotalReturns.
func (b RepBalance) NetSales() Money { return b.TotalSales - b.TotalReturns }

// IsZero reports whether every component is zero.
func (b RepBalance) IsZero() bool {
	return b.TotalSales == 0 && b.TotalReturns == 0 && b.TotalPayouts == 0 &&
		b.Commission.IsZero() && b.AmountOwed.IsZero()
}

// Equal compares values, treating decimals numerically.
func (b RepBalance) Equal(o RepBalance) bool {
	return b.RepID == o.RepID && b.TotalSales == o.TotalSales &&
		b.TotalReturns == o.TotalReturns && b.TotalPayouts == o.TotalPayouts &&
		b.Commission.Equal(o.Commission) && b.AmountOwed.Equal(o.AmountOwed)
}

// CommissionOn applies a percentage to a net sales amount.
// Non-finite rates contribute nothing.
func CommissionOn(netSales Money, ratePercent float64) decimal.Decimal {
	if math.IsNaN(ratePercent) || math.IsInf(ratePercent, 0) {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(netSales)).Mul(decimal.NewFromFloat(ratePercent)).Div(hundred)
}

// ComputeBalances returns one RepBalance per rep, in rep order.
func ComputeBalances(recs Records, settings CommissionSettings, w Window) []RepBalance {
	products := recs.productIndex()

	type totals struct{ sales, returns, payouts Money }
	byRep := make(map[RepID]*totals, len(recs.Reps))
	for _, rep := range recs.Reps {
		byRep[rep.ID] = &totals{}
	}

	for _, s := range recs.Sales {
		if t, ok := byRep[s.RepID]; ok && w.Contains(s.Date) {
			t.sales += s.Total()
		}
	}
	for _, r := range recs.Returns {
		t, ok := byRep[r.RepID]
		if !ok || !w.Contains(r.Date) {
			continue
		}
		// missing product: priced at 0
		t.returns += products[r.ProductID].Price.Times(r.Quantity)
	}
	for _, p := range recs.Payouts {
		if t, ok := byRep[p.RepID]; ok && w.Contains(p.Date) {
			t.payouts += p.Amount
		}
	}

	balances := make([]RepBalance, 0, len(recs.Reps))
	for _, rep := range recs.Reps {
		t := byRep[rep.ID]
		rate := ResolveCommission(rep.ID, &settings)
		commission := CommissionOn(t.sales-t.returns, rate)
		balances = append(balances, RepBalance{
			RepID:        rep.ID,
			RepName:      rep.Name,
			TotalSales:   t.sales,
			TotalReturns: t.returns,
			TotalPayouts: t.payouts,
			Commission:   commission,
			AmountOwed:   commission.Sub(decimal.NewFromInt(int64(t.payouts))),
		})
	}
	return balances
}

// BalanceMap indexes balances by rep, the shape stored in period snapshots.
func BalanceMap(balances []RepBalance) map[RepID]RepBalance {
	m := make(map[RepID]RepBalance, len(balances))
	for _, b := range balances {
		m[b.RepID] = b
	}
	return m
}

// AdjustmentTotals sums adjustments per rep inside the window. Adjustments
// are reported next to RepBalance, not folded into AmountOwed.
func AdjustmentTotals(recs Records, w Window) map[RepID]Money {
	out := make(map[RepID]Money)
	for _, a := range recs.Adjustments {
		if w.Contains(a.Date) {
			out[a.RepID] += a.Amount
		}
	}
	return out
}
