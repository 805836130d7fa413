/*
Package sqlite provides a SQLite-backed implementation of the
roster.MonthStore interface.

PURPOSE:
  Persists computed roster months so a crew member's history survives
  restarts and feeds the year-to-date view. The duty collection and
  the calculation result are stored as JSON blobs: they are always
  written together from a full recompute, never patched field by
  field.

KEY TABLE:
  roster_months: one row per (crew_id, month, year), replaced on save

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't
  block the single writer.

USAGE:
  store, err := sqlite.New("./data/skywage.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - roster/store.go: Interface definition
  - store/memory:    In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/skywage/roster-engine/roster"
)

// Store implements roster.MonthStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ roster.MonthStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

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

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS roster_months (
		id TEXT PRIMARY KEY,
		crew_id TEXT NOT NULL,
		role TEXT NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		month_name TEXT NOT NULL,
		duties_json TEXT NOT NULL,
		calc_json TEXT NOT NULL,
		excluded_rows INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		UNIQUE(crew_id, month, year)
	);

	CREATE INDEX IF NOT EXISTS idx_roster_months_crew
		ON roster_months(crew_id, year DESC, month DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveMonth inserts or replaces the record for (crew_id, month, year).
func (s *Store) SaveMonth(ctx context.Context, rec roster.MonthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	dutiesJSON, err := json.Marshal(rec.Duties)
	if err != nil {
		return fmt.Errorf("marshal duties: %w", err)
	}
	calcJSON, err := json.Marshal(rec.Calc)
	if err != nil {
		return fmt.Errorf("marshal calculation result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO roster_months
			(id, crew_id, role, month, year, month_name, duties_json, calc_json, excluded_rows, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(crew_id, month, year) DO UPDATE SET
			role = excluded.role,
			month_name = excluded.month_name,
			duties_json = excluded.duties_json,
			calc_json = excluded.calc_json,
			excluded_rows = excluded.excluded_rows,
			updated_at = excluded.updated_at`,
		rec.ID, rec.CrewID, rec.Role, rec.Month, rec.Year, rec.MonthName,
		string(dutiesJSON), string(calcJSON), rec.ExcludedRows,
		rec.UpdatedAt.Format(time.RFC3339))
	return err
}

// GetMonth returns the record or roster.ErrMonthNotFound.
func (s *Store) GetMonth(ctx context.Context, crewID string, month, year int) (*roster.MonthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, crew_id, role, month, year, month_name, duties_json, calc_json, excluded_rows, updated_at
		FROM roster_months
		WHERE crew_id = ? AND month = ? AND year = ?`,
		crewID, month, year)

	rec, err := scanMonth(row)
	if err == sql.ErrNoRows {
		return nil, roster.ErrMonthNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListMonths returns all records for a crew member, newest first.
func (s *Store) ListMonths(ctx context.Context, crewID string) ([]roster.MonthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, crew_id, role, month, year, month_name, duties_json, calc_json, excluded_rows, updated_at
		FROM roster_months
		WHERE crew_id = ?
		ORDER BY year DESC, month DESC`,
		crewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.MonthRecord
	for rows.Next() {
		rec, err := scanMonth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// DeleteMonth removes a record. Missing records are not an error.
func (s *Store) DeleteMonth(ctx context.Context, crewID string, month, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM roster_months WHERE crew_id = ? AND month = ? AND year = ?`,
		crewID, month, year)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMonth(row rowScanner) (*roster.MonthRecord, error) {
	var rec roster.MonthRecord
	var dutiesJSON, calcJSON, updatedAt string

	if err := row.Scan(&rec.ID, &rec.CrewID, &rec.Role, &rec.Month, &rec.Year,
		&rec.MonthName, &dutiesJSON, &calcJSON, &rec.ExcludedRows, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(dutiesJSON), &rec.Duties); err != nil {
		return nil, fmt.Errorf("unmarshal duties: %w", err)
	}
	if err := json.Unmarshal([]byte(calcJSON), &rec.Calc); err != nil {
		return nil, fmt.Errorf("unmarshal calculation result: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		rec.UpdatedAt = t
	}
	return &rec, nil
}
