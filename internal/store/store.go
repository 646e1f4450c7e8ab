package store

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"CandleViewer/internal/model"
)

// Kind selects which of the two databases an operation targets.
type Kind string

const (
	KindPrices   Kind = "osakedata"
	KindAnalysis Kind = "analysis"
)

// ParseKind validates a db_type string coming from a request.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPrices, KindAnalysis:
		return Kind(s), nil
	case "":
		return KindPrices, nil
	default:
		return "", fmt.Errorf("unknown database type %q", s)
	}
}

// Label returns the human-readable name shown in flash messages.
func (k Kind) Label() string {
	if k == KindAnalysis {
		return "analysis findings"
	}
	return "stock data"
}

// Store holds the two SQLite databases behind the viewer.
type Store struct {
	prices   *sql.DB
	analysis *sql.DB
	mu       sync.Mutex
}

// Open opens (or creates) both SQLite databases and runs migrations.
func Open(pricesPath, analysisPath string) (*Store, error) {
	prices, err := openDB(pricesPath)
	if err != nil {
		return nil, fmt.Errorf("open prices db: %w", err)
	}
	analysis, err := openDB(analysisPath)
	if err != nil {
		prices.Close()
		return nil, fmt.Errorf("open analysis db: %w", err)
	}

	s := &Store{prices: prices, analysis: analysis}
	if err := s.migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s, %s", pricesPath, analysisPath)
	return s, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return db, nil
}

func (s *Store) migrate() error {
	if _, err := s.prices.Exec(`CREATE TABLE IF NOT EXISTS osakedata (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		osake  TEXT,
		pvm    TEXT,
		open   REAL,
		high   REAL,
		low    REAL,
		close  REAL,
		volume INTEGER
	)`); err != nil {
		return fmt.Errorf("create osakedata: %w", err)
	}
	if _, err := s.prices.Exec(`CREATE INDEX IF NOT EXISTS idx_osakedata_osake ON osakedata(osake, pvm)`); err != nil {
		return fmt.Errorf("index osakedata: %w", err)
	}
	if _, err := s.analysis.Exec(`CREATE TABLE IF NOT EXISTS analysis_findings (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker  TEXT,
		date    TEXT,
		pattern TEXT,
		UNIQUE(ticker, date, pattern)
	)`); err != nil {
		return fmt.Errorf("create analysis_findings: %w", err)
	}
	return nil
}

func (s *Store) db(kind Kind) *sql.DB {
	if kind == KindAnalysis {
		return s.analysis
	}
	return s.prices
}

func (k Kind) table() string {
	if k == KindAnalysis {
		return "analysis_findings"
	}
	return "osakedata"
}

func (k Kind) symbolColumn() string {
	if k == KindAnalysis {
		return "ticker"
	}
	return "osake"
}

// Symbols returns all distinct symbols in the given database, sorted ascending.
func (s *Store) Symbols(kind Kind) ([]string, error) {
	q := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s",
		kind.symbolColumn(), kind.table(), kind.symbolColumn())
	rows, err := s.db(kind).Query(q)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// searchClause builds an exact-or-prefix WHERE clause over the symbol column.
func searchClause(column string, terms []string) (string, []any) {
	conditions := make([]string, 0, len(terms))
	params := make([]any, 0, 2*len(terms))
	for _, term := range terms {
		conditions = append(conditions, fmt.Sprintf("(%s = ? OR %s LIKE ?)", column, column))
		params = append(params, term, term+"%")
	}
	return strings.Join(conditions, " OR "), params
}

// SearchPrices returns OHLCV rows whose symbol equals or starts with any of
// the given terms, ordered by symbol then date descending.
func (s *Store) SearchPrices(terms []string) ([]model.Bar, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	where, params := searchClause("osake", terms)
	q := fmt.Sprintf(`SELECT id, osake, pvm, open, high, low, close, volume
		FROM osakedata WHERE %s ORDER BY osake, pvm DESC`, where)

	rows, err := s.prices.Query(q, params...)
	if err != nil {
		return nil, fmt.Errorf("search prices: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		if err := rows.Scan(&b.ID, &b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// SearchFindings returns pattern findings whose ticker equals or starts with
// any of the given terms, ordered by ticker then date descending.
func (s *Store) SearchFindings(terms []string) ([]model.Finding, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	where, params := searchClause("ticker", terms)
	q := fmt.Sprintf(`SELECT id, ticker, date, pattern
		FROM analysis_findings WHERE %s ORDER BY ticker, date DESC`, where)

	rows, err := s.analysis.Query(q, params...)
	if err != nil {
		return nil, fmt.Errorf("search findings: %w", err)
	}
	defer rows.Close()

	var findings []model.Finding
	for rows.Next() {
		var f model.Finding
		if err := rows.Scan(&f.ID, &f.Ticker, &f.Date, &f.Pattern); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// DeleteSymbols removes all rows for the given exact symbols and returns the
// number of rows deleted.
func (s *Store) DeleteSymbols(kind Kind, symbols []string) (int64, error) {
	if len(symbols) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(symbols)), ",")
	params := make([]any, len(symbols))
	for i, sym := range symbols {
		params[i] = sym
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s)",
		kind.table(), kind.symbolColumn(), placeholders)
	res, err := s.db(kind).Exec(q, params...)
	if err != nil {
		return 0, fmt.Errorf("delete symbols: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// InsertBars inserts OHLCV rows, skipping (symbol, date) pairs already present.
// Returns the number of rows actually inserted.
func (s *Store) InsertBars(bars []model.Bar) (int64, error) {
	if len(bars) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.prices.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO osakedata (osake, pvm, open, high, low, close, volume)
		SELECT ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM osakedata WHERE osake = ? AND pvm = ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, b := range bars {
		res, err := stmt.Exec(b.Symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume, b.Symbol, b.Date)
		if err != nil {
			return 0, fmt.Errorf("insert bar %s %s: %w", b.Symbol, b.Date, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// InsertFindings inserts pattern findings, ignoring duplicates on
// (ticker, date, pattern). Returns the number of rows actually inserted.
func (s *Store) InsertFindings(findings []model.Finding) (int64, error) {
	if len(findings) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.analysis.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO analysis_findings (ticker, date, pattern)
		VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, f := range findings {
		res, err := stmt.Exec(f.Ticker, f.Date, f.Pattern)
		if err != nil {
			return 0, fmt.Errorf("insert finding %s %s: %w", f.Ticker, f.Date, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// BarsForSymbol returns all bars for one exact symbol sorted by date ascending.
func (s *Store) BarsForSymbol(symbol string) ([]model.Bar, error) {
	rows, err := s.prices.Query(`SELECT id, osake, pvm, open, high, low, close, volume
		FROM osakedata WHERE osake = ? ORDER BY pvm`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		if err := rows.Scan(&b.ID, &b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// Ping verifies both databases are reachable and their tables exist.
func (s *Store) Ping() error {
	for _, check := range []struct {
		db    *sql.DB
		table string
	}{
		{s.prices, "osakedata"},
		{s.analysis, "analysis_findings"},
	} {
		if err := check.db.Ping(); err != nil {
			return fmt.Errorf("ping %s: %w", check.table, err)
		}
		var name string
		err := check.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", check.table).Scan(&name)
		if err != nil {
			return fmt.Errorf("table %s missing: %w", check.table, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	log.Println("[INFO] closing sqlite store")
	if err := s.prices.Close(); err != nil {
		s.analysis.Close()
		return err
	}
	return s.analysis.Close()
}
