package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT,
	decision TEXT NOT NULL,
	evaluation_summary TEXT NOT NULL,
	remarks TEXT,
	created_at TIMESTAMP NOT NULL
);
`

// SQLite stores candidate records in a sqlite database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Concurrent appends from parallel runs serialize on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create candidates table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, record Record) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO candidates (run_id, decision, evaluation_summary, remarks, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.RunID, record.Decision, record.EvaluationSummary, record.Remarks, record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert candidate record: %w", err)
	}

	return nil
}

func (s *SQLite) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, decision, evaluation_summary, remarks, created_at FROM candidates ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query candidate records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.RunID, &record.Decision, &record.EvaluationSummary, &record.Remarks, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("scan candidate record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
