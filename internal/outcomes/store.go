// Package outcomes persists the verification verdict for each catalogued
// work in SQLite.
//
// One record exists per work id. Negative verdicts always overwrite.
// Positive verdicts only update an existing record: writing a positive
// outcome for an id with no record is deliberately a no-op. The guard looks
// odd but the downstream pipeline depends on it, so it is preserved and
// covered by tests.
package outcomes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"shelfcheck/internal/sources"
)

// Record is one stored outcome. Matched is non-nil for positive outcomes;
// Evidence carries every source result collected for negative ones.
type Record struct {
	WorkID    int64
	Title     string
	Author    string
	Query     string
	SourceID  string
	Matched   *sources.Candidate
	Evidence  []sources.Result
	RunID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Positive reports whether the record holds a positive outcome. The
// classification is by presence of the matched candidate, mirroring how the
// orchestrator gate reads existing records.
func (r *Record) Positive() bool {
	return r != nil && r.Matched != nil
}

// Store manages outcome persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the outcome database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const recordColumns = `work_id, title, author, query, source_id, matched_json, evidence_json, run_id, created_at, updated_at`

// Get fetches the outcome for a work id, or nil when absent.
func (s *Store) Get(ctx context.Context, workID int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM outcomes WHERE work_id = ?`, workID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get outcome: %w", err)
	}
	return record, nil
}

// Exists reports whether any outcome is stored for a work id.
func (s *Store) Exists(ctx context.Context, workID int64) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM outcomes WHERE work_id = ?`, workID).Scan(&count); err != nil {
		return false, fmt.Errorf("check outcome: %w", err)
	}
	return count > 0, nil
}

// SavePositive records a positive outcome for a work. It only updates an
// existing record; when no record exists for the work id the write is a
// no-op and the method returns without error.
func (s *Store) SavePositive(ctx context.Context, record Record) error {
	if record.Matched == nil {
		return errors.New("positive outcome requires a matched candidate")
	}
	matchedJSON, err := json.Marshal(record.Matched)
	if err != nil {
		return fmt.Errorf("marshal matched candidate: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`UPDATE outcomes
         SET title = ?, author = ?, query = ?, source_id = ?,
             matched_json = ?, evidence_json = NULL, run_id = ?, updated_at = ?
         WHERE work_id = ?`,
		record.Title,
		record.Author,
		record.Query,
		record.SourceID,
		string(matchedJSON),
		record.RunID,
		now,
		record.WorkID,
	)
	if err != nil {
		return fmt.Errorf("update positive outcome: %w", err)
	}
	return nil
}

// SaveNegative records a negative outcome for a work, overwriting any prior
// record regardless of its verdict.
func (s *Store) SaveNegative(ctx context.Context, record Record) error {
	var evidenceJSON []byte
	var err error
	if record.Evidence != nil {
		evidenceJSON, err = json.Marshal(record.Evidence)
		if err != nil {
			return fmt.Errorf("marshal evidence: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO outcomes (work_id, title, author, query, source_id, matched_json, evidence_json, run_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, NULL, NULL, ?, ?, ?, ?)
         ON CONFLICT(work_id) DO UPDATE SET
             title = excluded.title,
             author = excluded.author,
             query = excluded.query,
             source_id = NULL,
             matched_json = NULL,
             evidence_json = excluded.evidence_json,
             run_id = excluded.run_id,
             updated_at = excluded.updated_at`,
		record.WorkID,
		record.Title,
		record.Author,
		record.Query,
		nullableString(string(evidenceJSON)),
		record.RunID,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("save negative outcome: %w", err)
	}
	return nil
}

// List returns all stored outcomes ordered by work id.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM outcomes ORDER BY work_id`)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Remove deletes the outcome for a work id.
func (s *Store) Remove(ctx context.Context, workID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM outcomes WHERE work_id = ?`, workID)
	if err != nil {
		return fmt.Errorf("remove outcome: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no outcome stored for work id %d", workID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		record       Record
		sourceID     sql.NullString
		matchedJSON  sql.NullString
		evidenceJSON sql.NullString
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(
		&record.WorkID,
		&record.Title,
		&record.Author,
		&record.Query,
		&sourceID,
		&matchedJSON,
		&evidenceJSON,
		&record.RunID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	record.SourceID = sourceID.String

	if matchedJSON.Valid && matchedJSON.String != "" {
		var candidate sources.Candidate
		if err := json.Unmarshal([]byte(matchedJSON.String), &candidate); err != nil {
			return nil, fmt.Errorf("parse matched candidate: %w", err)
		}
		record.Matched = &candidate
	}
	if evidenceJSON.Valid && evidenceJSON.String != "" {
		if err := json.Unmarshal([]byte(evidenceJSON.String), &record.Evidence); err != nil {
			return nil, fmt.Errorf("parse evidence: %w", err)
		}
	}

	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		record.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		record.UpdatedAt = ts
	}
	return &record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
