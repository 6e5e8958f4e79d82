package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// StatementLine is one transaction on a rep statement.
type StatementLine struct {
	Kind        string     `json:"kind"` // sale, return, payout, adjustment
	Date        Timestamp  `json:"date"`
	ProductID   *ProductID `json:"productId,omitempty"`
	ProductName string     `json:"productName,omitempty"`
	Quantity    int64      `json:"quantity,omitempty"`
	UnitPrice   Money      `json:"unitPrice,omitempty"`
	Amount      Money      `json:"amount"`
	Notes       string     `json:"notes,omitempty"`
}

// Statement is the per-rep account for one window, typically a month.
type Statement struct {
	Rep            Rep             `json:"rep"`
	Window         Window          `json:"window"`
	CommissionRate float64         `json:"commissionRate"`
	Balance        RepBalance      `json:"balance"`
	Adjustments    Money           `json:"adjustments"`
	NetOwed        decimal.Decimal `json:"netOwed"`
	Lines          []StatementLine `json:"lines"`
}

// BuildStatement assembles a statement from a records snapshot. The rep
// must exist; product names fall back to UnknownName.
func BuildStatement(recs Records, settings CommissionSettings, repID RepID, w Window) (Statement, error) {
	rep, ok := recs.repIndex()[repID]
	if !ok {
		return Statement{}, &NotFoundError{Kind: "rep", ID: uint64(repID)}
	}

	var balance RepBalance
	for _, b := range ComputeBalances(recs, settings, w) {
		if b.RepID == repID {
			balance = b
			break
		}
	}
	adjustments := AdjustmentTotals(recs, w)[repID]

	products := recs.productIndex()
	name := func(id ProductID) string {
		if p, ok := products[id]; ok {
			return p.Name
		}
		return UnknownName
	}

	var lines []StatementLine
	for _, s := range recs.Sales {
		if s.RepID == repID && w.Contains(s.Date) {
			pid := s.ProductID
			lines = append(lines, StatementLine{
				Kind: "sale", Date: s.Date, ProductID: &pid, ProductName: name(pid),
				Quantity: s.Quantity, UnitPrice: s.UnitPrice, Amount: s.Total(),
			})
		}
	}
	for _, r := range recs.Returns {
		if r.RepID == repID && w.Contains(r.Date) {
			pid := r.ProductID
			price := products[pid].Price
			lines = append(lines, StatementLine{
				Kind: "return", Date: r.Date, ProductID: &pid, ProductName: name(pid),
				Quantity: r.Quantity, UnitPrice: price, Amount: -price.Times(r.Quantity),
			})
		}
	}
	for _, p := range recs.Payouts {
		if p.RepID == repID && w.Contains(p.Date) {
			lines = append(lines, StatementLine{Kind: "payout", Date: p.Date, Amount: -p.Amount, Notes: p.Notes})
		}
	}
	for _, a := range recs.Adjustments {
		if a.RepID == repID && w.Contains(a.Date) {
			lines = append(lines, StatementLine{Kind: "adjustment", Date: a.Date, Amount: a.Amount, Notes: a.Notes})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Date < lines[j].Date })
	if lines == nil {
		lines = []StatementLine{}
	}

	return Statement{
		Rep:            rep,
		Window:         w,
		CommissionRate: ResolveCommission(repID, &settings),
		Balance:        balance,
		Adjustments:    adjustments,
		NetOwed:        balance.AmountOwed.Add(decimal.NewFromInt(int64(adjustments))),
		Lines:          lines,
	}, nil
}

// Statement loads a snapshot and builds the statement for one rep.
func (s *Settlement) Statement(ctx context.Context, repID RepID, w Window) (Statement, error) {
	recs, err := LoadRecords(ctx, s.Records)
	if err != nil {
		return Statement{}, err
	}
	settings, err := s.Commission.Settings(ctx)
	if err != nil {
		return Statement{}, err
	}
	return BuildStatement(recs, settings, repID, w)
}
