package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/consignflow/ledger"
)

func TestMemory_IDsStartAtZero(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	r0, err := m.AddRep(ctx, ledger.Rep{Name: "Alice"})
	require.NoError(t, err)
	r1, err := m.AddRep(ctx, ledger.Rep{Name: "Bob"})
	require.NoError(t, err)
	p0, err := m.AddProduct(ctx, ledger.Product{Name: "Widget", Price: 1000})
	require.NoError(t, err)

	assert.Equal(t, ledger.RepID(0), r0)
	assert.Equal(t, ledger.RepID(1), r1)
	assert.Equal(t, ledger.ProductID(0), p0)

	rep, err := m.GetRep(ctx, r1)
	require.NoError(t, err)
	assert.Equal(t, ledger.Rep{ID: 1, Name: "Bob"}, rep)

	_, err = m.GetProduct(ctx, 5)
	assert.True(t, ledger.IsNotFound(err))
}

func TestMemory_ListByRep(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, rep := range []ledger.RepID{0, 1, 0} {
		_, err := m.AddPayout(ctx, ledger.Payout{RepID: rep, Amount: 100})
		require.NoError(t, err)
	}

	all, err := m.ListPayouts(ctx, ledger.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := m.ListPayouts(ctx, ledger.ForRep(0))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, ledger.RecordID(0), mine[0].ID)
	assert.Equal(t, ledger.RecordID(2), mine[1].ID)
}

func TestMemory_PeriodsAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	p, err := m.CreatePeriod(ctx, ledger.SettlementPeriod{
		StartDate:       1,
		EndDate:         2,
		Status:          ledger.StatusOpen,
		OpeningBalances: map[ledger.RepID]ledger.RepBalance{0: {RepID: 0, RepName: "Alice"}},
	})
	require.NoError(t, err)

	p.OpeningBalances[0] = ledger.RepBalance{RepName: "mutated"}

	stored, err := m.GetPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.OpeningBalances[0].RepName)
}

func TestMemory_ClosePeriodCompareAndSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	p, err := m.CreatePeriod(ctx, ledger.SettlementPeriod{StartDate: 1, EndDate: 2, Status: ledger.StatusOpen})
	require.NoError(t, err)

	closing := map[ledger.RepID]ledger.RepBalance{0: {RepID: 0, TotalSales: 10}}
	require.NoError(t, m.ClosePeriod(ctx, p.ID, closing))

	err = m.ClosePeriod(ctx, p.ID, map[ledger.RepID]ledger.RepBalance{})
	assert.ErrorIs(t, err, ledger.ErrAlreadyClosed)

	stored, err := m.GetPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Money(10), stored.ClosingBalances[0].TotalSales, "second close did not overwrite")

	assert.True(t, ledger.IsNotFound(m.ClosePeriod(ctx, 9, nil)))
}

func TestMemory_SettingsAndReset(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, found, err := m.LoadCommissionSettings(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.SaveCommissionSettings(ctx, ledger.CommissionSettings{DefaultPercent: 12, Overrides: map[ledger.RepID]float64{1: 5}}))
	s, found, err := m.LoadCommissionSettings(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 12.0, s.DefaultPercent)

	_, err = m.AddRep(ctx, ledger.Rep{Name: "Alice"})
	require.NoError(t, err)
	require.NoError(t, m.Reset(ctx))

	reps, err := m.ListReps(ctx)
	require.NoError(t, err)
	assert.Empty(t, reps)
	_, found, err = m.LoadCommissionSettings(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	id, err := m.AddRep(ctx, ledger.Rep{Name: "Again"})
	require.NoError(t, err)
	assert.Equal(t, ledger.RepID(0), id, "ids restart after reset")
}
