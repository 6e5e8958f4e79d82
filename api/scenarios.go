/*
scenarios.go - Demo scenario loader

PURPOSE:

	Populates the store with a small, known dataset for demos and manual
	testing. Everything goes through the Recorder, so the data obeys the
	same validation and lock rules as API writes.

DEMO SCENARIO:

	Rep "Alice", product "Widget" priced 10.00
	  2024-01-01  consign 10 Widgets
	  2024-01-05  sell 4 at 12.00
	  2024-01-06  return 1
	Default commission 30%, no overrides.

	Expected: sales 48.00, returns 10.00, net 38.00, commission 11.40,
	Alice still holds 5 Widgets.

USAGE VIA API:

	POST /api/scenarios/demo

NOTE:

	Loading a scenario resets the database. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: LoadDemoScenario handler
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/consignflow/ledger"
)

const demoScenarioID = "demo"

// LoadDemoScenario resets the store and loads the demo dataset.
// POST /api/scenarios/demo
func (h *Handler) LoadDemoScenario(w http.ResponseWriter, r *http.Request) {
	resp, err := h.LoadDemo(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to load demo scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// LoadDemo is the scenario loader shared by the handler and server startup.
func (h *Handler) LoadDemo(ctx context.Context) (ScenarioResponse, error) {
	if err := h.Commission.ResetWith(ctx, h.Store.Reset); err != nil {
		return ScenarioResponse{}, fmt.Errorf("reset store: %w", err)
	}

	if err := loadDemoScenario(ctx, h.Recorder); err != nil {
		return ScenarioResponse{}, err
	}

	reps, err := h.Store.ListReps(ctx)
	if err != nil {
		return ScenarioResponse{}, err
	}
	products, err := h.Store.ListProducts(ctx)
	if err != nil {
		return ScenarioResponse{}, err
	}
	balances, err := h.Settlement.Balances(ctx, ledger.Unbounded())
	if err != nil {
		return ScenarioResponse{}, err
	}

	h.Log.Info().Str("scenario", demoScenarioID).Int("reps", len(reps)).Msg("scenario loaded")
	return ScenarioResponse{
		ID:          demoScenarioID,
		Description: "Alice consigns 10 Widgets, sells 4 at 12.00, returns 1",
		Reps:        reps,
		Products:    products,
		Balances:    balances,
	}, nil
}

func loadDemoScenario(ctx context.Context, rec *ledger.Recorder) error {
	alice, err := rec.AddRep(ctx, "Alice")
	if err != nil {
		return err
	}
	widget, err := rec.AddProduct(ctx, "Widget", 1000)
	if err != nil {
		return err
	}

	if _, err := rec.AddConsignment(ctx, ledger.Consignment{
		RepID: alice.ID, ProductID: widget.ID, Quantity: 10, Date: ledger.Date(2024, time.January, 1),
	}); err != nil {
		return err
	}
	if _, err := rec.AddSale(ctx, ledger.Sale{
		RepID: alice.ID, ProductID: widget.ID, Quantity: 4, UnitPrice: 1200, Date: ledger.Date(2024, time.January, 5),
	}); err != nil {
		return err
	}
	if _, err := rec.AddReturn(ctx, ledger.Return{
		RepID: alice.ID, ProductID: widget.ID, Quantity: 1, Date: ledger.Date(2024, time.January, 6),
	}); err != nil {
		return err
	}
	return nil
}
