/*
handlers.go - HTTP API handlers for the consignment settlement engine

PURPOSE:
  Exposes the ledger via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the Recorder, Settlement and
  CommissionService.

ENDPOINTS:
  Catalog:
    GET    /api/reps                       List reps
    POST   /api/reps                       Create rep
    GET    /api/reps/{id}                  Get rep
    GET    /api/reps/{id}/statement        Statement (?month=YYYY-MM or ?from=&to=)
    GET    /api/products                   List products
    POST   /api/products                   Create product
    GET    /api/products/{id}              Get product

  Transactions (all accept ?rep_id= on GET):
    GET/POST /api/consignments
    GET/POST /api/sales
    GET/POST /api/returns
    GET/POST /api/payouts
    GET/POST /api/adjustments              Exempt from the period lock

  Reports:
    GET    /api/balances                   Per-rep balances (?from=&to=)
    GET    /api/inventory                  Holdings (?from=&to=)

  Settlement:
    GET    /api/settlement-periods         List (?status=&rep_id=)
    POST   /api/settlement-periods         Create period
    GET    /api/settlement-periods/{id}    Get period
    POST   /api/settlement-periods/{id}/close
    GET    /api/lock?date=                 Lock check

  Commission:
    GET    /api/commission-settings
    PUT    /api/commission-settings/default
    PUT    /api/commission-settings/overrides/{repId}

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input, invalid range
  - 404: Resource not found
  - 409: Settlement period already closed
  - 423: Write dated inside a closed settlement period
  - 500: Internal errors (logged)

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loader
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/warp/consignflow/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is everything the API needs from persistence.
type Store interface {
	ledger.RecordStore
	ledger.PeriodStore
	ledger.SettingsStore
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      Store
	Recorder   *ledger.Recorder
	Settlement *ledger.Settlement
	Commission *ledger.CommissionService
	Log        zerolog.Logger
}

// NewHandler wires the ledger services over one store.
func NewHandler(store Store, log zerolog.Logger) *Handler {
	commission := ledger.NewCommissionService(store)
	gate := ledger.NewPeriodGate()
	return &Handler{
		Store:      store,
		Recorder:   ledger.NewRecorder(store, store, gate),
		Settlement: ledger.NewSettlement(store, store, commission, gate, log),
		Commission: commission,
		Log:        log.With().Str("component", "api").Logger(),
	}
}

// =============================================================================
// REP HANDLERS
// =============================================================================

// ListReps returns all reps.
func (h *Handler) ListReps(w http.ResponseWriter, r *http.Request) {
	reps, err := h.Store.ListReps(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list reps", err)
		return
	}
	writeJSON(w, http.StatusOK, reps)
}

// CreateRep creates a new rep.
func (h *Handler) CreateRep(w http.ResponseWriter, r *http.Request) {
	var req CreateRepRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rep, err := h.Recorder.AddRep(r.Context(), req.Name)
	if err != nil {
		h.writeDomainError(w, "Failed to create rep", err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

// GetRep returns a single rep.
func (h *Handler) GetRep(w http.ResponseWriter, r *http.Request) {
	id, ok := repIDParam(w, r, "id")
	if !ok {
		return
	}
	rep, err := h.Store.GetRep(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get rep", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// GetStatement returns the rep's statement for a month or a window.
// GET /api/reps/{id}/statement?month=2024-01
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := repIDParam(w, r, "id")
	if !ok {
		return
	}

	var win ledger.Window
	if month := r.URL.Query().Get("month"); month != "" {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
			return
		}
		win = ledger.MonthWindow(t.Year(), t.Month())
	} else {
		var err error
		if win, err = parseWindow(r); err != nil {
			h.writeDomainError(w, "Invalid window", err)
			return
		}
	}

	stmt, err := h.Settlement.Statement(r.Context(), id, win)
	if err != nil {
		h.writeDomainError(w, "Failed to build statement", err)
		return
	}
	writeJSON(w, http.StatusOK, stmt)
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list products", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.Recorder.AddProduct(r.Context(), req.Name, ledger.Money(req.Price))
	if err != nil {
		h.writeDomainError(w, "Failed to create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	raw, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}
	p, err := h.Store.GetProduct(r.Context(), ledger.ProductID(raw))
	if err != nil {
		h.writeDomainError(w, "Failed to get product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

func (h *Handler) ListConsignments(w http.ResponseWriter, r *http.Request) {
	f, ok := recordFilter(w, r)
	if !ok {
		return
	}
	items, err := h.Store.ListConsignments(r.Context(), f)
	if err != nil {
		h.writeDomainError(w, "Failed to list consignments", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateConsignment hands stock to a rep.
func (h *Handler) CreateConsignment(w http.ResponseWriter, r *http.Request) {
	var req LineRequest
	if !decodeBody(w, r, &req) || !requireDate(w, req.Date) {
		return
	}
	c, err := h.Recorder.AddConsignment(r.Context(), ledger.Consignment{
		RepID: req.RepID, ProductID: req.ProductID, Quantity: req.Quantity, Date: req.Date.Timestamp,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to record consignment", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	f, ok := recordFilter(w, r)
	if !ok {
		return
	}
	items, err := h.Store.ListSales(r.Context(), f)
	if err != nil {
		h.writeDomainError(w, "Failed to list sales", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateSale records a sale. The unit price is captured at write time.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if !decodeBody(w, r, &req) || !requireDate(w, req.Date) {
		return
	}
	ctx := r.Context()

	var price ledger.Money
	if req.UnitPrice != nil {
		price = ledger.Money(*req.UnitPrice)
	} else {
		p, err := h.Store.GetProduct(ctx, req.ProductID)
		if err != nil {
			h.writeDomainError(w, "Failed to record sale", err)
			return
		}
		price = p.Price
	}

	s, err := h.Recorder.AddSale(ctx, ledger.Sale{
		RepID: req.RepID, ProductID: req.ProductID, Quantity: req.Quantity,
		UnitPrice: price, Date: req.Date.Timestamp,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to record sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *Handler) ListReturns(w http.ResponseWriter, r *http.Request) {
	f, ok := recordFilter(w, r)
	if !ok {
		return
	}
	items, err := h.Store.ListReturns(r.Context(), f)
	if err != nil {
		h.writeDomainError(w, "Failed to list returns", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	var req LineRequest
	if !decodeBody(w, r, &req) || !requireDate(w, req.Date) {
		return
	}
	ret, err := h.Recorder.AddReturn(r.Context(), ledger.Return{
		RepID: req.RepID, ProductID: req.ProductID, Quantity: req.Quantity, Date: req.Date.Timestamp,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to record return", err)
		return
	}
	writeJSON(w, http.StatusCreated, ret)
}

func (h *Handler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	f, ok := recordFilter(w, r)
	if !ok {
		return
	}
	items, err := h.Store.ListPayouts(r.Context(), f)
	if err != nil {
		h.writeDomainError(w, "Failed to list payouts", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if !decodeBody(w, r, &req) || !requireDate(w, req.Date) {
		return
	}
	p, err := h.Recorder.AddPayout(r.Context(), ledger.Payout{
		RepID: req.RepID, Amount: ledger.Money(req.Amount), Date: req.Date.Timestamp, Notes: req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to record payout", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	f, ok := recordFilter(w, r)
	if !ok {
		return
	}
	items, err := h.Store.ListAdjustments(r.Context(), f)
	if err != nil {
		h.writeDomainError(w, "Failed to list adjustments", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateAdjustment records a correction. Allowed inside closed periods.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if !decodeBody(w, r, &req) || !requireDate(w, req.Date) {
		return
	}
	a, err := h.Recorder.AddAdjustment(r.Context(), ledger.Adjustment{
		RepID: req.RepID, Amount: ledger.Money(req.Amount), Date: req.Date.Timestamp, Notes: req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to record adjustment", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetBalances returns one balance per rep over the optional window.
// GET /api/balances?from=2024-01-01&to=2024-01-31
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	win, err := parseWindow(r)
	if err != nil {
		h.writeDomainError(w, "Invalid window", err)
		return
	}
	balances, err := h.Settlement.Balances(r.Context(), win)
	if err != nil {
		h.writeDomainError(w, "Failed to compute balances", err)
		return
	}
	writeJSON(w, http.StatusOK, BalancesResponse{Window: win, Balances: balances})
}

// GetInventory returns what each rep still holds.
func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	win, err := parseWindow(r)
	if err != nil {
		h.writeDomainError(w, "Invalid window", err)
		return
	}
	items, err := h.Settlement.Inventory(r.Context(), win)
	if err != nil {
		h.writeDomainError(w, "Failed to compute inventory", err)
		return
	}
	writeJSON(w, http.StatusOK, InventoryResponse{Window: win, Items: items})
}

// =============================================================================
// SETTLEMENT PERIOD HANDLERS
// =============================================================================

// ListPeriods returns periods, most recent first.
// GET /api/settlement-periods?status=closed&rep_id=0
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	var f ledger.PeriodFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := ledger.PeriodStatus(s)
		if status != ledger.StatusOpen && status != ledger.StatusClosed {
			writeError(w, http.StatusBadRequest, "Invalid status (use open or closed)", nil)
			return
		}
		f.Status = &status
	}
	rf, ok := recordFilter(w, r)
	if !ok {
		return
	}
	f.RepID = rf.RepID

	periods, err := h.Settlement.ListPeriods(r.Context(), f)
	if err != nil {
		h.writeDomainError(w, "Failed to list settlement periods", err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (h *Handler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req CreatePeriodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.StartDate.Set || !req.EndDate.Set {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required", nil)
		return
	}
	p, err := h.Settlement.CreatePeriod(r.Context(), req.StartDate.Timestamp, req.EndDate.Timestamp)
	if err != nil {
		h.writeDomainError(w, "Failed to create settlement period", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	id, ok := periodIDParam(w, r)
	if !ok {
		return
	}
	p, err := h.Settlement.GetPeriod(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get settlement period", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ClosePeriod snapshots closing balances and locks the period.
func (h *Handler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	id, ok := periodIDParam(w, r)
	if !ok {
		return
	}
	p, err := h.Settlement.ClosePeriod(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to close settlement period", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CheckLock answers whether a write at ?date= would be refused.
func (h *Handler) CheckLock(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "date is required", nil)
		return
	}
	date, err := ledger.ParseTimestamp(raw)
	if err != nil {
		h.writeDomainError(w, "Invalid date", err)
		return
	}
	res, err := h.Settlement.CheckLock(r.Context(), date)
	if err != nil {
		h.writeDomainError(w, "Failed to check lock", err)
		return
	}
	writeJSON(w, http.StatusOK, LockResponse{Date: date, LockCheckResult: res})
}

// =============================================================================
// COMMISSION HANDLERS
// =============================================================================

func (h *Handler) GetCommissionSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Commission.Settings(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to load commission settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// SetDefaultCommission replaces the default percentage.
// PUT /api/commission-settings/default {"percent": 25}
func (h *Handler) SetDefaultCommission(w http.ResponseWriter, r *http.Request) {
	var req PercentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Percent == nil {
		writeError(w, http.StatusBadRequest, "percent is required", nil)
		return
	}
	if err := ledger.ValidatePercent(*req.Percent); err != nil {
		h.writeDomainError(w, "Invalid commission percent", err)
		return
	}
	settings, err := h.Commission.SetDefault(r.Context(), *req.Percent)
	if err != nil {
		h.writeDomainError(w, "Failed to save commission settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// SetCommissionOverride sets or clears (percent: null) a rep's override.
func (h *Handler) SetCommissionOverride(w http.ResponseWriter, r *http.Request) {
	repID, ok := repIDParam(w, r, "repId")
	if !ok {
		return
	}
	var req PercentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Percent != nil {
		if err := ledger.ValidatePercent(*req.Percent); err != nil {
			h.writeDomainError(w, "Invalid commission percent", err)
			return
		}
	}
	ctx := r.Context()
	if _, err := h.Store.GetRep(ctx, repID); err != nil {
		h.writeDomainError(w, "Failed to set commission override", err)
		return
	}
	settings, err := h.Commission.SetOverride(ctx, repID, req.Percent)
	if err != nil {
		h.writeDomainError(w, "Failed to save commission settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps ledger errors to a status code. Anything it does
// not recognize is a 500 and gets logged.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var locked *ledger.LockedPeriodError
	switch {
	case errors.As(err, &locked):
		writeJSON(w, http.StatusLocked, ErrorResponse{
			Error:   locked.Error(),
			Code:    "locked_period",
			Details: map[string]any{"periodId": locked.Period.ID, "date": locked.Date},
		})
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, ledger.ErrAlreadyClosed):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: message, Code: "already_closed", Details: err.Error()})
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func requireDate(w http.ResponseWriter, d DateValue) bool {
	if !d.Set {
		writeError(w, http.StatusBadRequest, "date is required", nil)
		return false
	}
	return true
}

func repIDParam(w http.ResponseWriter, r *http.Request, name string) (ledger.RepID, bool) {
	raw, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rep id", err)
		return 0, false
	}
	return ledger.RepID(raw), true
}

func periodIDParam(w http.ResponseWriter, r *http.Request) (ledger.PeriodID, bool) {
	raw, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settlement period id", err)
		return 0, false
	}
	return ledger.PeriodID(raw), true
}

// recordFilter reads the optional ?rep_id= query parameter.
func recordFilter(w http.ResponseWriter, r *http.Request) (ledger.RecordFilter, bool) {
	raw := r.URL.Query().Get("rep_id")
	if raw == "" {
		return ledger.RecordFilter{}, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rep_id", err)
		return ledger.RecordFilter{}, false
	}
	return ledger.ForRep(ledger.RepID(id)), true
}

// parseWindow reads ?from= and ?to=. A "to" given as a calendar date
// covers the whole day.
func parseWindow(r *http.Request) (ledger.Window, error) {
	var win ledger.Window
	q := r.URL.Query()
	if s := q.Get("from"); s != "" {
		from, err := ledger.ParseTimestamp(s)
		if err != nil {
			return win, err
		}
		win.From = &from
	}
	if s := q.Get("to"); s != "" {
		to, err := ledger.ParseTimestamp(s)
		if err != nil {
			return win, err
		}
		if isCalendarDate(s) {
			to = to.AddDays(1) - 1
		}
		win.To = &to
	}
	if win.From != nil && win.To != nil && *win.From > *win.To {
		return win, &ledger.InputError{Field: "window", Reason: fmt.Sprintf("from %s is after to %s", win.From, win.To)}
	}
	return win, nil
}

func isCalendarDate(s string) bool {
	return strings.Count(s, "-") == 2
}
