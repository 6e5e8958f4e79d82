package ledger_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/consignflow/ledger"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func day(d int) ledger.Timestamp { return ledger.Date(2024, time.January, d) }

// aliceRecords is the reference dataset: Alice, one Widget at 10.00,
// consign 10 on day 1, sell 4 at 12.00 on day 5, return 1 on day 6.
func aliceRecords() ledger.Records {
	return ledger.Records{
		Reps:         []ledger.Rep{{ID: 0, Name: "Alice"}},
		Products:     []ledger.Product{{ID: 0, Name: "Widget", Price: 1000}},
		Consignments: []ledger.Consignment{{RepID: 0, ProductID: 0, Quantity: 10, Date: day(1)}},
		Sales:        []ledger.Sale{{RepID: 0, ProductID: 0, Quantity: 4, UnitPrice: 1200, Date: day(5)}},
		Returns:      []ledger.Return{{RepID: 0, ProductID: 0, Quantity: 1, Date: day(6)}},
	}
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// =============================================================================
// BALANCE CALCULATOR
// =============================================================================

func TestComputeBalances_AliceScenario(t *testing.T) {
	balances := ledger.ComputeBalances(aliceRecords(), ledger.DefaultCommissionSettings(), ledger.Unbounded())
	require.Len(t, balances, 1)

	b := balances[0]
	assert.Equal(t, "Alice", b.RepName)
	assert.Equal(t, ledger.Money(4800), b.TotalSales)
	assert.Equal(t, ledger.Money(1000), b.TotalReturns)
	assert.Equal(t, ledger.Money(3800), b.NetSales())
	assert.True(t, b.Commission.Equal(dec(1140)), "commission = %s", b.Commission)
	assert.True(t, b.AmountOwed.Equal(dec(1140)), "nothing paid out yet")
}

func TestComputeBalances_PayoutsReduceAmountOwed(t *testing.T) {
	recs := aliceRecords()
	recs.Payouts = []ledger.Payout{
		{RepID: 0, Amount: 500, Date: day(10)},
		{RepID: 0, Amount: 1000, Date: day(11)},
	}

	b := ledger.ComputeBalances(recs, ledger.DefaultCommissionSettings(), ledger.Unbounded())[0]

	assert.Equal(t, ledger.Money(1500), b.TotalPayouts)
	// overpaid: owed goes negative
	assert.True(t, b.AmountOwed.Equal(dec(-360)), "owed = %s", b.AmountOwed)
}

func TestComputeBalances_RepWithoutActivityIsZero(t *testing.T) {
	recs := aliceRecords()
	recs.Reps = append(recs.Reps, ledger.Rep{ID: 1, Name: "Bob"})

	balances := ledger.ComputeBalances(recs, ledger.DefaultCommissionSettings(), ledger.Unbounded())

	require.Len(t, balances, 2)
	assert.Equal(t, "Bob", balances[1].RepName)
	assert.True(t, balances[1].IsZero())
}

func TestComputeBalances_OverrideWins(t *testing.T) {
	recs := aliceRecords()
	recs.Reps = append(recs.Reps, ledger.Rep{ID: 1, Name: "Bob"})
	recs.Sales = append(recs.Sales, ledger.Sale{RepID: 1, ProductID: 0, Quantity: 1, UnitPrice: 1000, Date: day(5)})

	settings := ledger.CommissionSettings{DefaultPercent: 10, Overrides: map[ledger.RepID]float64{0: 50}}
	balances := ledger.ComputeBalances(recs, settings, ledger.Unbounded())

	assert.True(t, balances[0].Commission.Equal(dec(1900)), "Alice at 50 percent of 3800")
	assert.True(t, balances[1].Commission.Equal(dec(100)), "Bob at the 10 percent default")
}

func TestComputeBalances_ReturnValuedAtCurrentCatalogPrice(t *testing.T) {
	recs := aliceRecords()
	recs.Products[0].Price = 1500 // repriced after the sale

	b := ledger.ComputeBalances(recs, ledger.DefaultCommissionSettings(), ledger.Unbounded())[0]

	assert.Equal(t, ledger.Money(4800), b.TotalSales, "sales keep the captured price")
	assert.Equal(t, ledger.Money(1500), b.TotalReturns)
}

func TestComputeBalances_UnknownProductReturnIsFree(t *testing.T) {
	recs := aliceRecords()
	recs.Returns = append(recs.Returns, ledger.Return{RepID: 0, ProductID: 99, Quantity: 3, Date: day(6)})

	b := ledger.ComputeBalances(recs, ledger.DefaultCommissionSettings(), ledger.Unbounded())[0]
	assert.Equal(t, ledger.Money(1000), b.TotalReturns)
}

func TestComputeBalances_WindowIsInclusive(t *testing.T) {
	recs := aliceRecords()

	tests := []struct {
		name    string
		window  ledger.Window
		sales   ledger.Money
		returns ledger.Money
	}{
		{"exact sale day", ledger.Between(day(5), day(5)), 4800, 0},
		{"exact return day", ledger.Between(day(6), day(6)), 0, 1000},
		{"through sale day", ledger.Through(day(5)), 4800, 0},
		{"before sale day", ledger.Before(day(5)), 0, 0},
		{"from return day", ledger.Window{From: ptr(day(6))}, 0, 1000},
		{"one ns after return", ledger.Window{From: ptr(day(6) + 1)}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ledger.ComputeBalances(recs, ledger.DefaultCommissionSettings(), tt.window)[0]
			assert.Equal(t, tt.sales, b.TotalSales)
			assert.Equal(t, tt.returns, b.TotalReturns)
		})
	}
}

func TestComputeBalances_AdjustmentsNotInAmountOwed(t *testing.T) {
	recs := aliceRecords()
	recs.Adjustments = []ledger.Adjustment{{RepID: 0, Amount: 250, Date: day(7), Notes: "bonus"}}

	b := ledger.ComputeBalances(recs, ledger.DefaultCommissionSettings(), ledger.Unbounded())[0]
	assert.True(t, b.AmountOwed.Equal(dec(1140)))

	totals := ledger.AdjustmentTotals(recs, ledger.Unbounded())
	assert.Equal(t, ledger.Money(250), totals[0])
	assert.Empty(t, ledger.AdjustmentTotals(recs, ledger.Before(day(7))))
}

func TestComputeBalances_RandomizedIdentities(t *testing.T) {
	// commission = net * rate / 100 and owed = commission - payouts, for any data.
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		recs := ledger.Records{
			Reps:     []ledger.Rep{{ID: 0, Name: "A"}, {ID: 1, Name: "B"}},
			Products: []ledger.Product{{ID: 0, Name: "P", Price: ledger.Money(rng.Intn(5000))}},
		}
		for j := 0; j < rng.Intn(10); j++ {
			recs.Sales = append(recs.Sales, ledger.Sale{
				RepID: ledger.RepID(rng.Intn(2)), Quantity: int64(1 + rng.Intn(5)),
				UnitPrice: ledger.Money(rng.Intn(3000)), Date: day(1 + rng.Intn(28)),
			})
		}
		for j := 0; j < rng.Intn(5); j++ {
			recs.Returns = append(recs.Returns, ledger.Return{
				RepID: ledger.RepID(rng.Intn(2)), Quantity: int64(1 + rng.Intn(3)), Date: day(1 + rng.Intn(28)),
			})
		}
		for j := 0; j < rng.Intn(4); j++ {
			recs.Payouts = append(recs.Payouts, ledger.Payout{
				RepID: ledger.RepID(rng.Intn(2)), Amount: ledger.Money(rng.Intn(4000)), Date: day(1 + rng.Intn(28)),
			})
		}
		rate := float64(rng.Intn(101))
		settings := ledger.CommissionSettings{DefaultPercent: rate, Overrides: map[ledger.RepID]float64{}}

		for _, b := range ledger.ComputeBalances(recs, settings, ledger.Unbounded()) {
			want := dec(int64(b.NetSales())).Mul(decimal.NewFromFloat(rate)).Div(dec(100))
			require.True(t, b.Commission.Equal(want), "iteration %d rep %d", i, b.RepID)
			require.True(t, b.AmountOwed.Equal(b.Commission.Sub(dec(int64(b.TotalPayouts)))), "iteration %d", i)
		}
	}
}

func TestCommissionOn(t *testing.T) {
	assert.True(t, ledger.CommissionOn(3800, 30).Equal(dec(1140)))
	assert.True(t, ledger.CommissionOn(-1000, 30).Equal(dec(-300)), "net negative gives negative commission")
	assert.True(t, ledger.CommissionOn(1000, 12.5).Equal(decimal.RequireFromString("125")))
	assert.True(t, ledger.CommissionOn(333, 33).Equal(decimal.RequireFromString("109.89")))
	assert.True(t, ledger.CommissionOn(1000, math.NaN()).IsZero())
	assert.True(t, ledger.CommissionOn(1000, math.Inf(1)).IsZero())
}

func TestBalanceMap(t *testing.T) {
	balances := []ledger.RepBalance{{RepID: 3, RepName: "C"}, {RepID: 7, RepName: "G"}}
	m := ledger.BalanceMap(balances)
	assert.Len(t, m, 2)
	assert.Equal(t, "G", m[7].RepName)
}

func ptr[T any](v T) *T { return &v }
