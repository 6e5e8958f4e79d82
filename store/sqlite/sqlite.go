/*
Package sqlite provides a SQLite-backed implementation of the ledger stores.

INTERFACES IMPLEMENTED:
  ledger.RecordStore:   reps, products and the five transaction tables
  ledger.PeriodStore:   settlement periods with JSON balance snapshots
  ledger.SettingsStore: commission settings under a single well-known key

KEY TABLES:
  reps, products:                   catalog
  consignments, sales, returns,
  payouts, adjustments:             transaction records (date = ns since epoch)
  settlement_periods:               period lifecycle + snapshots
  settings:                         key/value JSON

IDENTIFIERS:
  Ids are assigned as MAX(id)+1 (0 for the first row) inside the insert,
  under the store's write lock, so they are sequential and never reused.
  The one exception is Reset (demo loader): it empties every table, so
  numbering restarts at 0.

CLOSE = COMPARE-AND-SET:
  ClosePeriod runs UPDATE ... WHERE id = ? AND status = 'open'. Zero rows
  affected means the period is unknown or already closed; the store tells
  the two apart with a follow-up read.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, like the rest of the stores.

WAL MODE:
  Opened with WAL so readers do not block the single writer.

USAGE:
  store, err := sqlite.New("./data/consignflow.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: interface definitions
  - ledger/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/consignflow/ledger"
)

// Store implements all ledger storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// :memory: databases are per-connection
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reps (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS consignments (
		id INTEGER PRIMARY KEY,
		rep_id INTEGER NOT NULL REFERENCES reps(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL,
		date INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_consignments_rep_date ON consignments(rep_id, date);

	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY,
		rep_id INTEGER NOT NULL REFERENCES reps(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL,
		unit_price INTEGER NOT NULL,
		date INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sales_rep_date ON sales(rep_id, date);

	CREATE TABLE IF NOT EXISTS returns (
		id INTEGER PRIMARY KEY,
		rep_id INTEGER NOT NULL REFERENCES reps(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL,
		date INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_returns_rep_date ON returns(rep_id, date);

	CREATE TABLE IF NOT EXISTS payouts (
		id INTEGER PRIMARY KEY,
		rep_id INTEGER NOT NULL REFERENCES reps(id),
		amount INTEGER NOT NULL,
		date INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_payouts_rep_date ON payouts(rep_id, date);

	CREATE TABLE IF NOT EXISTS adjustments (
		id INTEGER PRIMARY KEY,
		rep_id INTEGER NOT NULL REFERENCES reps(id),
		amount INTEGER NOT NULL,
		date INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_adjustments_rep_date ON adjustments(rep_id, date);

	CREATE TABLE IF NOT EXISTS settlement_periods (
		id INTEGER PRIMARY KEY,
		start_date INTEGER NOT NULL,
		end_date INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		statement_ids_json TEXT NOT NULL DEFAULT '[]',
		opening_json TEXT NOT NULL DEFAULT '{}',
		closing_json TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		closed_at TEXT,
		CHECK (start_date < end_date),
		CHECK (status IN ('open', 'closed'))
	);
	CREATE INDEX IF NOT EXISTS idx_settlement_periods_status ON settlement_periods(status);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// insert runs an INSERT ... SELECT that assigns the next sequential id and
// returns it.
func (s *Store) insert(ctx context.Context, table, cols, placeholders string, args ...any) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := fmt.Sprintf(
		`INSERT INTO %s (id, %s) SELECT COALESCE(MAX(id) + 1, 0), %s FROM %s`,
		table, cols, placeholders, table,
	)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// =============================================================================
// CATALOG
// =============================================================================

func (s *Store) AddRep(ctx context.Context, rep ledger.Rep) (ledger.RepID, error) {
	id, err := s.insert(ctx, "reps", "name, created_at", "?, ?", rep.Name, now())
	return ledger.RepID(id), err
}

func (s *Store) AddProduct(ctx context.Context, p ledger.Product) (ledger.ProductID, error) {
	id, err := s.insert(ctx, "products", "name, price, created_at", "?, ?, ?", p.Name, int64(p.Price), now())
	return ledger.ProductID(id), err
}

func (s *Store) GetRep(ctx context.Context, id ledger.RepID) (ledger.Rep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep := ledger.Rep{ID: id}
	err := s.db.QueryRowContext(ctx, "SELECT name FROM reps WHERE id = ?", uint64(id)).Scan(&rep.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Rep{}, &ledger.NotFoundError{Kind: "rep", ID: uint64(id)}
	}
	if err != nil {
		return ledger.Rep{}, fmt.Errorf("failed to get rep: %w", err)
	}
	return rep, nil
}

func (s *Store) GetProduct(ctx context.Context, id ledger.ProductID) (ledger.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := ledger.Product{ID: id}
	var price int64
	err := s.db.QueryRowContext(ctx, "SELECT name, price FROM products WHERE id = ?", uint64(id)).Scan(&p.Name, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Product{}, &ledger.NotFoundError{Kind: "product", ID: uint64(id)}
	}
	if err != nil {
		return ledger.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	p.Price = ledger.Money(price)
	return p, nil
}

func (s *Store) ListReps(ctx context.Context) ([]ledger.Rep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM reps ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list reps: %w", err)
	}
	defer rows.Close()

	reps := []ledger.Rep{}
	for rows.Next() {
		var r ledger.Rep
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		reps = append(reps, r)
	}
	return reps, rows.Err()
}

func (s *Store) ListProducts(ctx context.Context) ([]ledger.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, price FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []ledger.Product{}
	for rows.Next() {
		var p ledger.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) AddConsignment(ctx context.Context, c ledger.Consignment) (ledger.RecordID, error) {
	id, err := s.insert(ctx, "consignments", "rep_id, product_id, quantity, date, created_at", "?, ?, ?, ?, ?",
		uint64(c.RepID), uint64(c.ProductID), c.Quantity, int64(c.Date), now())
	return ledger.RecordID(id), err
}

func (s *Store) AddSale(ctx context.Context, sale ledger.Sale) (ledger.RecordID, error) {
	id, err := s.insert(ctx, "sales", "rep_id, product_id, quantity, unit_price, date, created_at", "?, ?, ?, ?, ?, ?",
		uint64(sale.RepID), uint64(sale.ProductID), sale.Quantity, int64(sale.UnitPrice), int64(sale.Date), now())
	return ledger.RecordID(id), err
}

func (s *Store) AddReturn(ctx context.Context, r ledger.Return) (ledger.RecordID, error) {
	id, err := s.insert(ctx, "returns", "rep_id, product_id, quantity, date, created_at", "?, ?, ?, ?, ?",
		uint64(r.RepID), uint64(r.ProductID), r.Quantity, int64(r.Date), now())
	return ledger.RecordID(id), err
}

func (s *Store) AddPayout(ctx context.Context, p ledger.Payout) (ledger.RecordID, error) {
	id, err := s.insert(ctx, "payouts", "rep_id, amount, date, notes, created_at", "?, ?, ?, ?, ?",
		uint64(p.RepID), int64(p.Amount), int64(p.Date), p.Notes, now())
	return ledger.RecordID(id), err
}

func (s *Store) AddAdjustment(ctx context.Context, a ledger.Adjustment) (ledger.RecordID, error) {
	id, err := s.insert(ctx, "adjustments", "rep_id, amount, date, notes, created_at", "?, ?, ?, ?, ?",
		uint64(a.RepID), int64(a.Amount), int64(a.Date), a.Notes, now())
	return ledger.RecordID(id), err
}

// repClause filters on rep_id when the filter names a rep.
func repClause(f ledger.RecordFilter) (string, []any) {
	if f.RepID == nil {
		return "", nil
	}
	return " WHERE rep_id = ?", []any{uint64(*f.RepID)}
}

func (s *Store) ListConsignments(ctx context.Context, f ledger.RecordFilter) ([]ledger.Consignment, error) {
	where, args := repClause(f)
	out := []ledger.Consignment{}
	err := s.queryRows(ctx, "SELECT id, rep_id, product_id, quantity, date FROM consignments"+where+" ORDER BY id", args,
		func(rows *sql.Rows) error {
			var c ledger.Consignment
			if err := rows.Scan(&c.ID, &c.RepID, &c.ProductID, &c.Quantity, &c.Date); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	return out, err
}

func (s *Store) ListSales(ctx context.Context, f ledger.RecordFilter) ([]ledger.Sale, error) {
	where, args := repClause(f)
	out := []ledger.Sale{}
	err := s.queryRows(ctx, "SELECT id, rep_id, product_id, quantity, unit_price, date FROM sales"+where+" ORDER BY id", args,
		func(rows *sql.Rows) error {
			var sale ledger.Sale
			if err := rows.Scan(&sale.ID, &sale.RepID, &sale.ProductID, &sale.Quantity, &sale.UnitPrice, &sale.Date); err != nil {
				return err
			}
			out = append(out, sale)
			return nil
		})
	return out, err
}

func (s *Store) ListReturns(ctx context.Context, f ledger.RecordFilter) ([]ledger.Return, error) {
	where, args := repClause(f)
	out := []ledger.Return{}
	err := s.queryRows(ctx, "SELECT id, rep_id, product_id, quantity, date FROM returns"+where+" ORDER BY id", args,
		func(rows *sql.Rows) error {
			var r ledger.Return
			if err := rows.Scan(&r.ID, &r.RepID, &r.ProductID, &r.Quantity, &r.Date); err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
	return out, err
}

func (s *Store) ListPayouts(ctx context.Context, f ledger.RecordFilter) ([]ledger.Payout, error) {
	where, args := repClause(f)
	out := []ledger.Payout{}
	err := s.queryRows(ctx, "SELECT id, rep_id, amount, date, notes FROM payouts"+where+" ORDER BY id", args,
		func(rows *sql.Rows) error {
			var p ledger.Payout
			if err := rows.Scan(&p.ID, &p.RepID, &p.Amount, &p.Date, &p.Notes); err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	return out, err
}

func (s *Store) ListAdjustments(ctx context.Context, f ledger.RecordFilter) ([]ledger.Adjustment, error) {
	where, args := repClause(f)
	out := []ledger.Adjustment{}
	err := s.queryRows(ctx, "SELECT id, rep_id, amount, date, notes FROM adjustments"+where+" ORDER BY id", args,
		func(rows *sql.Rows) error {
			var a ledger.Adjustment
			if err := rows.Scan(&a.ID, &a.RepID, &a.Amount, &a.Date, &a.Notes); err != nil {
				return err
			}
			out = append(out, a)
			return nil
		})
	return out, err
}

func (s *Store) queryRows(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan record: %w", err)
		}
	}
	return rows.Err()
}

// =============================================================================
// SETTLEMENT PERIODS (ledger.PeriodStore interface)
// =============================================================================

func (s *Store) CreatePeriod(ctx context.Context, p ledger.SettlementPeriod) (ledger.SettlementPeriod, error) {
	statementIDs, err := marshalOr(p.StatementIDs, "[]")
	if err != nil {
		return ledger.SettlementPeriod{}, err
	}
	opening, err := marshalOr(p.OpeningBalances, "{}")
	if err != nil {
		return ledger.SettlementPeriod{}, err
	}
	closing, err := marshalOr(p.ClosingBalances, "{}")
	if err != nil {
		return ledger.SettlementPeriod{}, err
	}

	id, err := s.insert(ctx, "settlement_periods",
		"start_date, end_date, status, statement_ids_json, opening_json, closing_json, created_at",
		"?, ?, ?, ?, ?, ?, ?",
		int64(p.StartDate), int64(p.EndDate), string(p.Status), statementIDs, opening, closing, now())
	if err != nil {
		return ledger.SettlementPeriod{}, err
	}
	return s.GetPeriod(ctx, ledger.PeriodID(id))
}

func (s *Store) GetPeriod(ctx context.Context, id ledger.PeriodID) (ledger.SettlementPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, periodSelect+" WHERE id = ?", uint64(id))
	if err != nil {
		return ledger.SettlementPeriod{}, fmt.Errorf("failed to get settlement period: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return ledger.SettlementPeriod{}, err
		}
		return ledger.SettlementPeriod{}, &ledger.NotFoundError{Kind: "settlement period", ID: uint64(id)}
	}
	return scanPeriod(rows)
}

func (s *Store) ListPeriods(ctx context.Context) ([]ledger.SettlementPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, periodSelect+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement periods: %w", err)
	}
	defer rows.Close()

	periods := []ledger.SettlementPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// ClosePeriod is a compare-and-set on status.
func (s *Store) ClosePeriod(ctx context.Context, id ledger.PeriodID, closing map[ledger.RepID]ledger.RepBalance) error {
	closingJSON, err := marshalOr(closing, "{}")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE settlement_periods
		SET status = 'closed', closing_json = ?, closed_at = ?
		WHERE id = ? AND status = 'open'
	`, closingJSON, now(), uint64(id))
	if err != nil {
		return fmt.Errorf("failed to close settlement period: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settlement_periods WHERE id = ?", uint64(id)).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return &ledger.NotFoundError{Kind: "settlement period", ID: uint64(id)}
	}
	return &ledger.AlreadyClosedError{PeriodID: id}
}

const periodSelect = `
	SELECT id, start_date, end_date, status, statement_ids_json, opening_json, closing_json
	FROM settlement_periods`

func scanPeriod(rows *sql.Rows) (ledger.SettlementPeriod, error) {
	var (
		p                                  ledger.SettlementPeriod
		status                             string
		statementIDs, opening, closingJSON string
	)
	if err := rows.Scan(&p.ID, &p.StartDate, &p.EndDate, &status, &statementIDs, &opening, &closingJSON); err != nil {
		return p, fmt.Errorf("failed to scan settlement period: %w", err)
	}
	p.Status = ledger.PeriodStatus(status)

	if err := json.Unmarshal([]byte(statementIDs), &p.StatementIDs); err != nil {
		return p, fmt.Errorf("corrupt statement ids for period %d: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(opening), &p.OpeningBalances); err != nil {
		return p, fmt.Errorf("corrupt opening balances for period %d: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(closingJSON), &p.ClosingBalances); err != nil {
		return p, fmt.Errorf("corrupt closing balances for period %d: %w", p.ID, err)
	}
	if p.StatementIDs == nil {
		p.StatementIDs = []uint64{}
	}
	if p.OpeningBalances == nil {
		p.OpeningBalances = map[ledger.RepID]ledger.RepBalance{}
	}
	if p.ClosingBalances == nil {
		p.ClosingBalances = map[ledger.RepID]ledger.RepBalance{}
	}
	return p, nil
}

func marshalOr(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

// =============================================================================
// COMMISSION SETTINGS (ledger.SettingsStore interface)
// =============================================================================

func (s *Store) LoadCommissionSettings(ctx context.Context) (ledger.CommissionSettings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value_json FROM settings WHERE key = ?", ledger.CommissionSettingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.CommissionSettings{}, false, nil
	}
	if err != nil {
		return ledger.CommissionSettings{}, false, fmt.Errorf("failed to load commission settings: %w", err)
	}

	var settings ledger.CommissionSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return ledger.CommissionSettings{}, false, fmt.Errorf("corrupt commission settings: %w", err)
	}
	return settings, true, nil
}

func (s *Store) SaveCommissionSettings(ctx context.Context, settings ledger.CommissionSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at
	`, ledger.CommissionSettingsKey, string(raw), now())
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data and restarts ids at 0 (for demo scenarios).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"adjustments", "payouts", "returns", "sales", "consignments",
		"settlement_periods", "settings", "products", "reps"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
