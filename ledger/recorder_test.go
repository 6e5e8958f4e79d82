package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/consignflow/ledger"
	"github.com/warp/consignflow/ledger/mocks"
)

func TestRecorder_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, widget := f.alice.ID, f.widget.ID

	tests := []struct {
		name  string
		write func() error
		want  error
	}{
		{"empty rep name", func() error { _, err := f.recorder.AddRep(ctx, "   "); return err }, ledger.ErrInvalidInput},
		{"empty product name", func() error { _, err := f.recorder.AddProduct(ctx, "", 100); return err }, ledger.ErrInvalidInput},
		{"negative price", func() error { _, err := f.recorder.AddProduct(ctx, "Gizmo", -1); return err }, ledger.ErrInvalidInput},
		{"zero quantity", func() error {
			_, err := f.recorder.AddConsignment(ctx, ledger.Consignment{RepID: alice, ProductID: widget, Quantity: 0, Date: day(2)})
			return err
		}, ledger.ErrInvalidInput},
		{"negative unit price", func() error {
			_, err := f.recorder.AddSale(ctx, ledger.Sale{RepID: alice, ProductID: widget, Quantity: 1, UnitPrice: -5, Date: day(2)})
			return err
		}, ledger.ErrInvalidInput},
		{"unknown rep", func() error {
			_, err := f.recorder.AddReturn(ctx, ledger.Return{RepID: 9, ProductID: widget, Quantity: 1, Date: day(2)})
			return err
		}, ledger.ErrNotFound},
		{"unknown product", func() error {
			_, err := f.recorder.AddSale(ctx, ledger.Sale{RepID: alice, ProductID: 9, Quantity: 1, Date: day(2)})
			return err
		}, ledger.ErrNotFound},
		{"negative payout", func() error {
			_, err := f.recorder.AddPayout(ctx, ledger.Payout{RepID: alice, Amount: -1, Date: day(2)})
			return err
		}, ledger.ErrInvalidInput},
		{"adjustment without notes", func() error {
			_, err := f.recorder.AddAdjustment(ctx, ledger.Adjustment{RepID: alice, Amount: 10, Date: day(2)})
			return err
		}, ledger.ErrInvalidInput},
		{"adjustment for unknown rep", func() error {
			_, err := f.recorder.AddAdjustment(ctx, ledger.Adjustment{RepID: 9, Amount: 10, Date: day(2), Notes: "x"})
			return err
		}, ledger.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.write(), tt.want)
		})
	}
}

func TestRecorder_AssignsIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bob, err := f.recorder.AddRep(ctx, " Bob ")
	require.NoError(t, err)
	assert.Equal(t, ledger.RepID(1), bob.ID)
	assert.Equal(t, "Bob", bob.Name, "names are trimmed")

	sale, err := f.recorder.AddSale(ctx, ledger.Sale{RepID: bob.ID, ProductID: f.widget.ID, Quantity: 2, UnitPrice: 900, Date: day(9)})
	require.NoError(t, err)
	assert.Equal(t, ledger.RecordID(1), sale.ID, "second sale overall")

	sales, err := f.mem.ListSales(ctx, ledger.ForRep(bob.ID))
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, ledger.Money(1800), sales[0].Total())
}

func TestRecorder_LockLookupFailureBlocksWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	records := mocks.NewMockRecordStore(ctrl)
	periods := mocks.NewMockPeriodStore(ctrl)

	records.EXPECT().GetRep(gomock.Any(), ledger.RepID(0)).Return(ledger.Rep{ID: 0, Name: "Alice"}, nil)
	periods.EXPECT().ListPeriods(gomock.Any()).Return(nil, errors.New("timeout"))
	records.EXPECT().AddPayout(gomock.Any(), gomock.Any()).Times(0)

	_, err := ledger.NewRecorder(records, periods, ledger.NewPeriodGate()).AddPayout(ctx, ledger.Payout{RepID: 0, Amount: 100, Date: day(3)})
	assert.EqualError(t, err, "timeout")
}

func TestRecorder_AdjustmentSkipsPeriodLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	records := mocks.NewMockRecordStore(ctrl)
	periods := mocks.NewMockPeriodStore(ctrl)

	records.EXPECT().GetRep(gomock.Any(), ledger.RepID(0)).Return(ledger.Rep{ID: 0}, nil)
	records.EXPECT().AddAdjustment(gomock.Any(), gomock.Any()).Return(ledger.RecordID(4), nil)
	periods.EXPECT().ListPeriods(gomock.Any()).Times(0)

	adj, err := ledger.NewRecorder(records, periods, ledger.NewPeriodGate()).AddAdjustment(ctx, ledger.Adjustment{RepID: 0, Amount: -50, Date: day(3), Notes: "fix"})
	require.NoError(t, err)
	assert.Equal(t, ledger.RecordID(4), adj.ID)
}
