/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Read endpoints return
  the ledger types directly (they carry their own JSON tags); the types
  here are request bodies plus a few response wrappers.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers

DATES:
  Every date field accepts either integer nanoseconds since the epoch or a
  "YYYY-MM-DD" string, see DateValue.

MONEY:
  Integer minor units (cents). Commission and amount owed come back as
  decimal strings so no precision is lost on the wire.

VALIDATION:
  Validation is done in the ledger Recorder, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: Response types
*/
package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/warp/consignflow/ledger"
)

// =============================================================================
// DATE INPUT
// =============================================================================

// DateValue is a date in a request body. It decodes a JSON number
// (nanoseconds) or a string (nanoseconds or YYYY-MM-DD).
type DateValue struct {
	Timestamp ledger.Timestamp
	Set       bool
}

func (d *DateValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = DateValue{}
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		var err error
		if s, err = strconv.Unquote(s); err != nil {
			return &ledger.InputError{Field: "date", Reason: "malformed string"}
		}
	}
	ts, err := ledger.ParseTimestamp(s)
	if err != nil {
		return err
	}
	*d = DateValue{Timestamp: ts, Set: true}
	return nil
}

func (d DateValue) MarshalJSON() ([]byte, error) {
	if !d.Set {
		return []byte("null"), nil
	}
	return json.Marshal(int64(d.Timestamp))
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateRepRequest is the request to create a rep.
type CreateRepRequest struct {
	Name string `json:"name"`
}

// CreateProductRequest is the request to create a product.
type CreateProductRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// LineRequest records a consignment or a return.
type LineRequest struct {
	RepID     ledger.RepID     `json:"repId"`
	ProductID ledger.ProductID `json:"productId"`
	Quantity  int64            `json:"quantity"`
	Date      DateValue        `json:"date"`
}

// SaleRequest records a sale. UnitPrice defaults to the product's
// current price when omitted.
type SaleRequest struct {
	RepID     ledger.RepID     `json:"repId"`
	ProductID ledger.ProductID `json:"productId"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *int64           `json:"unitPrice,omitempty"`
	Date      DateValue        `json:"date"`
}

// AmountRequest records a payout or an adjustment.
type AmountRequest struct {
	RepID  ledger.RepID `json:"repId"`
	Amount int64        `json:"amount"`
	Date   DateValue    `json:"date"`
	Notes  string       `json:"notes,omitempty"`
}

// CreatePeriodRequest opens a settlement period over [startDate, endDate].
type CreatePeriodRequest struct {
	StartDate DateValue `json:"startDate"`
	EndDate   DateValue `json:"endDate"`
}

// PercentRequest sets a commission percentage. A null percent on an
// override removes it.
type PercentRequest struct {
	Percent *float64 `json:"percent"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// BalancesResponse wraps the per-rep balances with the window they cover.
type BalancesResponse struct {
	Window   ledger.Window       `json:"window"`
	Balances []ledger.RepBalance `json:"balances"`
}

// InventoryResponse wraps the holdings with the window they cover.
type InventoryResponse struct {
	Window ledger.Window          `json:"window"`
	Items  []ledger.InventoryItem `json:"items"`
}

// LockResponse answers "may I write at this date?".
type LockResponse struct {
	Date ledger.Timestamp `json:"date"`
	ledger.LockCheckResult
}

// ScenarioResponse describes what a loaded scenario created.
type ScenarioResponse struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Reps        []ledger.Rep        `json:"reps"`
	Products    []ledger.Product    `json:"products"`
	Balances    []ledger.RepBalance `json:"balances"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
