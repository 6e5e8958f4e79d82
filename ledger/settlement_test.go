package ledger_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/consignflow/ledger"
	"github.com/warp/consignflow/ledger/mocks"
	"github.com/warp/consignflow/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type fixture struct {
	mem        *store.Memory
	recorder   *ledger.Recorder
	settlement *ledger.Settlement
	alice      ledger.Rep
	widget     ledger.Product
}

// newFixture loads the Alice dataset through the Recorder.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	mem := store.NewMemory()
	gate := ledger.NewPeriodGate()
	f := &fixture{
		mem:        mem,
		recorder:   ledger.NewRecorder(mem, mem, gate),
		settlement: ledger.NewSettlement(mem, mem, ledger.NewCommissionService(mem), gate, zerolog.Nop()),
	}

	var err error
	f.alice, err = f.recorder.AddRep(ctx, "Alice")
	require.NoError(t, err)
	f.widget, err = f.recorder.AddProduct(ctx, "Widget", 1000)
	require.NoError(t, err)

	_, err = f.recorder.AddConsignment(ctx, ledger.Consignment{RepID: f.alice.ID, ProductID: f.widget.ID, Quantity: 10, Date: day(1)})
	require.NoError(t, err)
	_, err = f.recorder.AddSale(ctx, ledger.Sale{RepID: f.alice.ID, ProductID: f.widget.ID, Quantity: 4, UnitPrice: 1200, Date: day(5)})
	require.NoError(t, err)
	_, err = f.recorder.AddReturn(ctx, ledger.Return{RepID: f.alice.ID, ProductID: f.widget.ID, Quantity: 1, Date: day(6)})
	require.NoError(t, err)
	return f
}

// =============================================================================
// CREATE
// =============================================================================

func TestCreatePeriod_InvalidRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.settlement.CreatePeriod(ctx, day(10), day(10))
	assert.ErrorIs(t, err, ledger.ErrInvalidRange, "start == end")

	_, err = f.settlement.CreatePeriod(ctx, day(10), day(9))
	assert.ErrorIs(t, err, ledger.ErrInvalidRange, "start > end")

	periods, err := f.mem.ListPeriods(ctx)
	require.NoError(t, err)
	assert.Empty(t, periods, "nothing persisted on failure")
}

func TestCreatePeriod_OpeningBalancesExcludeStartDate(t *testing.T) {
	// GIVEN: a sale on day 5 and a return on day 6
	f := newFixture(t)

	// WHEN: a period starts exactly on the return day
	p, err := f.settlement.CreatePeriod(context.Background(), day(6), day(20))
	require.NoError(t, err)

	// THEN: the opening snapshot has the sale but not the return
	assert.Equal(t, ledger.StatusOpen, p.Status)
	assert.Empty(t, p.StatementIDs)
	assert.Empty(t, p.ClosingBalances)
	opening := p.OpeningBalances[f.alice.ID]
	assert.Equal(t, ledger.Money(4800), opening.TotalSales)
	assert.Equal(t, ledger.Money(0), opening.TotalReturns)
	assert.True(t, opening.Commission.Equal(dec(1440)))
}

func TestCreatePeriod_StartAtMinimumTimestampHasZeroOpening(t *testing.T) {
	f := newFixture(t)

	p, err := f.settlement.CreatePeriod(context.Background(), math.MinInt64, day(20))
	require.NoError(t, err)

	opening := p.OpeningBalances[f.alice.ID]
	assert.True(t, opening.IsZero(), "nothing predates the minimum timestamp")
}

func TestCreatePeriod_IDsAreSequential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p0, err := f.settlement.CreatePeriod(ctx, day(1), day(10))
	require.NoError(t, err)
	p1, err := f.settlement.CreatePeriod(ctx, day(11), day(20))
	require.NoError(t, err)

	assert.Equal(t, ledger.PeriodID(0), p0.ID)
	assert.Equal(t, ledger.PeriodID(1), p1.ID)
}

// =============================================================================
// CLOSE
// =============================================================================

func TestClosePeriod_SnapshotsCumulativeBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.settlement.CreatePeriod(ctx, day(6), day(20))
	require.NoError(t, err)

	closed, err := f.settlement.ClosePeriod(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusClosed, closed.Status)
	closing := closed.ClosingBalances[f.alice.ID]
	assert.Equal(t, ledger.Money(4800), closing.TotalSales, "closing covers everything up to the end, not just the period")
	assert.Equal(t, ledger.Money(1000), closing.TotalReturns)
	assert.True(t, closing.Commission.Equal(dec(1140)))

	stored, err := f.settlement.GetPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusClosed, stored.Status)
	assert.True(t, stored.ClosingBalances[f.alice.ID].Equal(closing))
}

func TestClosePeriod_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.settlement.CreatePeriod(ctx, day(1), day(31))
	require.NoError(t, err)
	_, err = f.settlement.ClosePeriod(ctx, p.ID)
	require.NoError(t, err)

	_, err = f.settlement.ClosePeriod(ctx, p.ID)

	assert.ErrorIs(t, err, ledger.ErrAlreadyClosed)
	var closedErr *ledger.AlreadyClosedError
	require.ErrorAs(t, err, &closedErr)
	assert.Equal(t, p.ID, closedErr.PeriodID)
}

func TestClosePeriod_UnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.settlement.ClosePeriod(context.Background(), 42)

	assert.True(t, ledger.IsNotFound(err))
}

func TestClosePeriod_SnapshotFrozenAgainstLaterAdjustments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.settlement.CreatePeriod(ctx, day(1), day(31))
	require.NoError(t, err)
	closed, err := f.settlement.ClosePeriod(ctx, p.ID)
	require.NoError(t, err)

	// Adjustments are the sanctioned correction and may land inside the period.
	_, err = f.recorder.AddAdjustment(ctx, ledger.Adjustment{RepID: f.alice.ID, Amount: -200, Date: day(15), Notes: "damaged stock"})
	require.NoError(t, err)
	_, err = f.recorder.AddPayout(ctx, ledger.Payout{RepID: f.alice.ID, Amount: 500, Date: day(40)})
	require.NoError(t, err)

	stored, err := f.settlement.GetPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.ClosingBalances[f.alice.ID].Equal(closed.ClosingBalances[f.alice.ID]))
}

func TestClosePeriod_ConcurrentCallsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.settlement.CreatePeriod(ctx, day(1), day(31))
	require.NoError(t, err)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.settlement.ClosePeriod(ctx, p.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ledger.ErrAlreadyClosed):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)
}

// closeHookStore runs beforeClose just ahead of the status compare-and-set,
// after ClosePeriod has computed its snapshot.
type closeHookStore struct {
	*store.Memory
	beforeClose func()
}

func (s *closeHookStore) ClosePeriod(ctx context.Context, id ledger.PeriodID, closing map[ledger.RepID]ledger.RepBalance) error {
	if s.beforeClose != nil {
		s.beforeClose()
	}
	return s.Memory.ClosePeriod(ctx, id, closing)
}

func TestClosePeriod_WriteDuringCloseIsLockedOut(t *testing.T) {
	// GIVEN: Alice holds 10 Widgets inside an open period, no sales yet
	ctx := context.Background()
	mem := store.NewMemory()
	gate := ledger.NewPeriodGate()
	recorder := ledger.NewRecorder(mem, mem, gate)

	alice, err := recorder.AddRep(ctx, "Alice")
	require.NoError(t, err)
	widget, err := recorder.AddProduct(ctx, "Widget", 1000)
	require.NoError(t, err)
	_, err = recorder.AddConsignment(ctx, ledger.Consignment{RepID: alice.ID, ProductID: widget.ID, Quantity: 10, Date: day(1)})
	require.NoError(t, err)

	hooked := &closeHookStore{Memory: mem}
	settlement := ledger.NewSettlement(mem, hooked, ledger.NewCommissionService(mem), gate, zerolog.Nop())
	p, err := settlement.CreatePeriod(ctx, day(1), day(10))
	require.NoError(t, err)

	// a sale dated inside the period is submitted after the snapshot is taken
	saleErr := make(chan error, 1)
	hooked.beforeClose = func() {
		started := make(chan struct{})
		go func() {
			close(started)
			_, err := recorder.AddSale(ctx, ledger.Sale{RepID: alice.ID, ProductID: widget.ID, Quantity: 4, UnitPrice: 1200, Date: day(5)})
			saleErr <- err
		}()
		<-started
		time.Sleep(20 * time.Millisecond)
	}

	// WHEN
	closed, err := settlement.ClosePeriod(ctx, p.ID)
	require.NoError(t, err)

	// THEN: the sale is refused and the frozen snapshot matches the records
	select {
	case err := <-saleErr:
		assert.ErrorIs(t, err, ledger.ErrLockedPeriod)
	case <-time.After(5 * time.Second):
		t.Fatal("sale never completed")
	}

	sales, err := mem.ListSales(ctx, ledger.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales)

	actual, err := settlement.Balances(ctx, ledger.Through(p.EndDate))
	require.NoError(t, err)
	assert.True(t, closed.ClosingBalances[alice.ID].Equal(ledger.BalanceMap(actual)[alice.ID]))
	assert.Equal(t, ledger.Money(0), closed.ClosingBalances[alice.ID].TotalSales)
}

func TestClosePeriod_LostRaceSurfacesAlreadyClosed(t *testing.T) {
	// GIVEN: the period reads as open, but the store's compare-and-set fails
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	records := mocks.NewMockRecordStore(ctrl)
	periods := mocks.NewMockPeriodStore(ctrl)
	settings := mocks.NewMockSettingsStore(ctrl)

	open := ledger.SettlementPeriod{ID: 3, StartDate: day(1), EndDate: day(31), Status: ledger.StatusOpen}
	periods.EXPECT().GetPeriod(gomock.Any(), ledger.PeriodID(3)).Return(open, nil)
	periods.EXPECT().ClosePeriod(gomock.Any(), ledger.PeriodID(3), gomock.Any()).
		Return(&ledger.AlreadyClosedError{PeriodID: 3})
	expectEmptyRecords(records)
	settings.EXPECT().LoadCommissionSettings(gomock.Any()).Return(ledger.CommissionSettings{}, false, nil)

	s := ledger.NewSettlement(records, periods, ledger.NewCommissionService(settings), ledger.NewPeriodGate(), zerolog.Nop())

	// WHEN / THEN
	_, err := s.ClosePeriod(ctx, 3)
	assert.ErrorIs(t, err, ledger.ErrAlreadyClosed)
}

func TestClosePeriod_StoreReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	records := mocks.NewMockRecordStore(ctrl)
	periods := mocks.NewMockPeriodStore(ctrl)
	settings := mocks.NewMockSettingsStore(ctrl)

	boom := errors.New("connection reset")
	periods.EXPECT().GetPeriod(gomock.Any(), ledger.PeriodID(0)).
		Return(ledger.SettlementPeriod{ID: 0, StartDate: day(1), EndDate: day(31), Status: ledger.StatusOpen}, nil)
	records.EXPECT().ListReps(gomock.Any()).Return(nil, boom)
	// ClosePeriod must not be attempted without a snapshot.
	periods.EXPECT().ClosePeriod(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	s := ledger.NewSettlement(records, periods, ledger.NewCommissionService(settings), ledger.NewPeriodGate(), zerolog.Nop())

	_, err := s.ClosePeriod(ctx, 0)
	assert.ErrorIs(t, err, boom)
}

func expectEmptyRecords(records *mocks.MockRecordStore) {
	records.EXPECT().ListReps(gomock.Any()).Return([]ledger.Rep{}, nil)
	records.EXPECT().ListProducts(gomock.Any()).Return([]ledger.Product{}, nil)
	records.EXPECT().ListConsignments(gomock.Any(), gomock.Any()).Return(nil, nil)
	records.EXPECT().ListSales(gomock.Any(), gomock.Any()).Return(nil, nil)
	records.EXPECT().ListReturns(gomock.Any(), gomock.Any()).Return(nil, nil)
	records.EXPECT().ListPayouts(gomock.Any(), gomock.Any()).Return(nil, nil)
	records.EXPECT().ListAdjustments(gomock.Any(), gomock.Any()).Return(nil, nil)
}

// =============================================================================
// LOCKING THROUGH THE RECORDER
// =============================================================================

func TestClosedPeriod_LocksWritesButNotAdjustments(t *testing.T) {
	// GIVEN: January is closed
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.settlement.CreatePeriod(ctx, day(1), day(31))
	require.NoError(t, err)
	_, err = f.settlement.ClosePeriod(ctx, p.ID)
	require.NoError(t, err)

	// WHEN: a sale is dated inside January
	_, err = f.recorder.AddSale(ctx, ledger.Sale{RepID: f.alice.ID, ProductID: f.widget.ID, Quantity: 1, UnitPrice: 1000, Date: day(15)})

	// THEN: it is refused with a message pointing at adjustments
	require.ErrorIs(t, err, ledger.ErrLockedPeriod)
	var locked *ledger.LockedPeriodError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, p.ID, locked.Period.ID)
	assert.Contains(t, err.Error(), "adjustment")

	for name, write := range map[string]func() error{
		"consignment": func() error {
			_, err := f.recorder.AddConsignment(ctx, ledger.Consignment{RepID: f.alice.ID, ProductID: f.widget.ID, Quantity: 1, Date: day(31)})
			return err
		},
		"return": func() error {
			_, err := f.recorder.AddReturn(ctx, ledger.Return{RepID: f.alice.ID, ProductID: f.widget.ID, Quantity: 1, Date: day(1)})
			return err
		},
		"payout": func() error {
			_, err := f.recorder.AddPayout(ctx, ledger.Payout{RepID: f.alice.ID, Amount: 100, Date: day(2)})
			return err
		},
	} {
		assert.ErrorIs(t, write(), ledger.ErrLockedPeriod, name)
	}

	// The adjustment goes through.
	adj, err := f.recorder.AddAdjustment(ctx, ledger.Adjustment{RepID: f.alice.ID, Amount: 150, Date: day(15), Notes: "late sale"})
	require.NoError(t, err)
	assert.Equal(t, ledger.RecordID(0), adj.ID)

	// Writes right after the period end are fine.
	_, err = f.recorder.AddSale(ctx, ledger.Sale{RepID: f.alice.ID, ProductID: f.widget.ID, Quantity: 1, UnitPrice: 1000, Date: day(31) + 1})
	assert.NoError(t, err)
}

func TestOpenPeriod_DoesNotLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.settlement.CreatePeriod(ctx, day(1), day(31))
	require.NoError(t, err)

	res, err := f.settlement.CheckLock(ctx, day(15))
	require.NoError(t, err)
	assert.False(t, res.Locked)

	_, err = f.recorder.AddSale(ctx, ledger.Sale{RepID: f.alice.ID, ProductID: f.widget.ID, Quantity: 1, UnitPrice: 1000, Date: day(15)})
	assert.NoError(t, err)
}

// =============================================================================
// QUERIES
// =============================================================================

func TestListPeriods_FiltersAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	jan, err := f.settlement.CreatePeriod(ctx, day(1), day(31))
	require.NoError(t, err)
	feb, err := f.settlement.CreatePeriod(ctx, day(32), day(60))
	require.NoError(t, err)
	_, err = f.settlement.ClosePeriod(ctx, jan.ID)
	require.NoError(t, err)

	all, err := f.settlement.ListPeriods(ctx, ledger.PeriodFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, feb.ID, all[0].ID, "most recent start first")

	closed := ledger.StatusClosed
	onlyClosed, err := f.settlement.ListPeriods(ctx, ledger.PeriodFilter{Status: &closed})
	require.NoError(t, err)
	require.Len(t, onlyClosed, 1)
	assert.Equal(t, jan.ID, onlyClosed[0].ID)

	alice := f.alice.ID
	withAlice, err := f.settlement.ListPeriods(ctx, ledger.PeriodFilter{RepID: &alice})
	require.NoError(t, err)
	assert.Len(t, withAlice, 2)

	stranger := ledger.RepID(77)
	none, err := f.settlement.ListPeriods(ctx, ledger.PeriodFilter{RepID: &stranger})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSettlement_InventoryAndBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	items, err := f.settlement.Inventory(ctx, ledger.Unbounded())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].Quantity)

	balances, err := f.settlement.Balances(ctx, ledger.Unbounded())
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, balances[0].Commission.Equal(dec(1140)))
}
