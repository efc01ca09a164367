package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/suykerbuyk/fitcalc/internal/calc"

	_ "modernc.org/sqlite"
)

// FileName is the ledger database name inside the state dir.
const FileName = "ledger.db"

const schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT    NOT NULL,
	input      INTEGER NOT NULL,
	value      INTEGER NOT NULL,
	created_at TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS fits (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source     TEXT    NOT NULL,
	samples    INTEGER NOT NULL,
	slope      REAL    NOT NULL,
	intercept  REAL    NOT NULL,
	r_squared  REAL    NOT NULL,
	created_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calculations_created ON calculations(created_at);
CREATE INDEX IF NOT EXISTS idx_fits_created ON fits(created_at);
`

// CalculationRecord is one stored calculation.
type CalculationRecord struct {
	ID        int64
	Kind      calc.Kind
	Input     int
	Value     int64
	CreatedAt time.Time
}

// FitRecord is one stored line fit.
type FitRecord struct {
	ID        int64
	Source    string // dataset path, "-" for stdin, or "sample:<fn>"
	Samples   int
	Slope     float64
	Intercept float64
	RSquared  float64
	CreatedAt time.Time
}

// Ledger wraps the SQLite database.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// A single connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordCalculation stores a calculation result.
func (l *Ledger) RecordCalculation(ctx context.Context, r calc.Result, at time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO calculations (kind, input, value, created_at) VALUES (?, ?, ?, ?)`,
		r.Kind.String(), r.Input, r.Value, formatTime(at))
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// RecordFit stores a fit. ID is ignored.
func (l *Ledger) RecordFit(ctx context.Context, f FitRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO fits (source, samples, slope, intercept, r_squared, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.Source, f.Samples, f.Slope, f.Intercept, f.RSquared, formatTime(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert fit: %w", err)
	}
	return nil
}

// Calculations returns up to limit calculations, most recent first.
// A limit <= 0 returns all rows.
func (l *Ledger) Calculations(ctx context.Context, limit int) ([]CalculationRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, kind, input, value, created_at FROM calculations ORDER BY created_at DESC, id DESC LIMIT ?`,
		sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var out []CalculationRecord
	for rows.Next() {
		var (
			r          CalculationRecord
			kind, when string
		)
		if err := rows.Scan(&r.ID, &kind, &r.Input, &r.Value, &when); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		if r.Kind, err = calc.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("calculation %d: %w", r.ID, err)
		}
		if r.CreatedAt, err = parseTime(when); err != nil {
			return nil, fmt.Errorf("calculation %d: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Fits returns up to limit fits, most recent first. A limit <= 0 returns all rows.
func (l *Ledger) Fits(ctx context.Context, limit int) ([]FitRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, source, samples, slope, intercept, r_squared, created_at FROM fits ORDER BY created_at DESC, id DESC LIMIT ?`,
		sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query fits: %w", err)
	}
	defer rows.Close()

	var out []FitRecord
	for rows.Next() {
		var (
			f    FitRecord
			when string
		)
		if err := rows.Scan(&f.ID, &f.Source, &f.Samples, &f.Slope, &f.Intercept, &f.RSquared, &when); err != nil {
			return nil, fmt.Errorf("scan fit: %w", err)
		}
		if f.CreatedAt, err = parseTime(when); err != nil {
			return nil, fmt.Errorf("fit %d: %w", f.ID, err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Counts returns the number of stored calculations and fits.
func (l *Ledger) Counts(ctx context.Context) (calcs, fits int, err error) {
	err = l.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM calculations), (SELECT COUNT(*) FROM fits)`).Scan(&calcs, &fits)
	if err != nil {
		return 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return calcs, fits, nil
}

// SQLite treats a negative LIMIT as unbounded.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// Timestamps are stored as fixed-width UTC strings so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
