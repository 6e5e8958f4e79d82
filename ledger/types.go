/*
Package ledger provides the settlement and balance engine for consignment sales.

PURPOSE:
  Reps take products on consignment, sell them, return what they cannot sell,
  and get paid a commission on net sales. This package answers "what is
  each rep owed?" for any date window, tracks what each rep still holds,
  and closes the books through settlement periods that freeze balances and
  lock the transactions dated inside them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: integer amount in minor currency units (cents)
  - Records: the raw transaction streams read from the store
  - Identifiers: store-issued, stable, reused only after a full store Reset

DESIGN PRINCIPLES:
  1. Records are never edited by the engine; balances are always derived
  2. Money stays integral; the commission percentage is the single place
     where a fractional value enters (see balance.go)
  3. Closed periods are corrected with Adjustments, never with edits

USAGE:
  recs, _ := ledger.LoadRecords(ctx, store)
  balances := ledger.ComputeBalances(recs, settings, ledger.Unbounded())

SEE ALSO:
  - balance.go: RepBalance derivation
  - inventory.go: on-hand quantity per rep and product
  - settlement.go: settlement period lifecycle
  - lock.go: closed-period write lock
*/
package ledger

import "fmt"

// =============================================================================
// MONEY - Integer minor currency units
// =============================================================================

// Money is an amount in minor currency units (e.g. cents).
type Money int64

// Times multiplies a unit amount by a quantity.
func (m Money) Times(qty int64) Money { return m * Money(qty) }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RepID uint64
type ProductID uint64
type PeriodID uint64
type RecordID uint64

// =============================================================================
// CATALOG
// =============================================================================

type Rep struct {
	ID   RepID  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID    ProductID `json:"id"`
	Name  string    `json:"name"`
	Price Money     `json:"price"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// Consignment hands Quantity units of a product to a rep.
type Consignment struct {
	ID        RecordID  `json:"id"`
	RepID     RepID     `json:"repId"`
	ProductID ProductID `json:"productId"`
	Quantity  int64     `json:"quantity"`
	Date      Timestamp `json:"date"`
}

// Sale records units sold by a rep. UnitPrice is captured at sale time and
// may differ from the catalog price.
type Sale struct {
	ID        RecordID  `json:"id"`
	RepID     RepID     `json:"repId"`
	ProductID ProductID `json:"productId"`
	Quantity  int64     `json:"quantity"`
	UnitPrice Money     `json:"unitPrice"`
	Date      Timestamp `json:"date"`
}

// Total is UnitPrice * Quantity.
func (s Sale) Total() Money { return s.UnitPrice.Times(s.Quantity) }

// Return records units handed back to the owner. Returns are valued at the
// product's current catalog price, not at any captured price.
type Return struct {
	ID        RecordID  `json:"id"`
	RepID     RepID     `json:"repId"`
	ProductID ProductID `json:"productId"`
	Quantity  int64     `json:"quantity"`
	Date      Timestamp `json:"date"`
}

// Payout is cash already paid to a rep.
type Payout struct {
	ID     RecordID  `json:"id"`
	RepID  RepID     `json:"repId"`
	Amount Money     `json:"amount"`
	Date   Timestamp `json:"date"`
	Notes  string    `json:"notes"`
}

// Adjustment is a signed manual correction to a rep's balance. It is the
// only record type that may be dated inside a closed settlement period.
type Adjustment struct {
	ID     RecordID  `json:"id"`
	RepID  RepID     `json:"repId"`
	Amount Money     `json:"amount"`
	Date   Timestamp `json:"date"`
	Notes  string    `json:"notes"`
}

// =============================================================================
// RECORDS - A consistent snapshot of everything the engine reads
// =============================================================================

// Records is a read-only snapshot of the store. Calculators operate on a
// Records value and never reach back into the store.
type Records struct {
	Reps         []Rep
	Products     []Product
	Consignments []Consignment
	Sales        []Sale
	Returns      []Return
	Payouts      []Payout
	Adjustments  []Adjustment
}

func (r Records) productIndex() map[ProductID]Product {
	idx := make(map[ProductID]Product, len(r.Products))
	for _, p := range r.Products {
		idx[p.ID] = p
	}
	return idx
}

func (r Records) repIndex() map[RepID]Rep {
	idx := make(map[RepID]Rep, len(r.Reps))
	for _, rep := range r.Reps {
		idx[rep.ID] = rep
	}
	return idx
}

// UnknownName is displayed for references that no longer resolve.
const UnknownName = "Unknown"
