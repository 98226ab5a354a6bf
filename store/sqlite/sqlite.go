package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/deepresearch/store"
)

// SqliteRunStore implements store.RunStore using SQLite
type SqliteRunStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "runs"
}

// NewSqliteRunStore creates a new SQLite run store
func NewSqliteRunStore(opts SqliteOptions) (*SqliteRunStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "runs"
	}

	s := &SqliteRunStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteRunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			query TEXT NOT NULL,
			breadth INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			learnings TEXT NOT NULL,
			visited_urls TEXT NOT NULL,
			report TEXT,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_created_at ON %s (created_at);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SqliteRunStore) Close() error {
	return s.db.Close()
}

// Save stores a run, overwriting any run with the same ID
func (s *SqliteRunStore) Save(ctx context.Context, run *store.Run) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	learningsJSON, err := json.Marshal(run.Learnings)
	if err != nil {
		return fmt.Errorf("failed to marshal learnings: %w", err)
	}

	urlsJSON, err := json.Marshal(run.VisitedURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal visited urls: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, topic, query, breadth, depth, learnings, visited_urls, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			topic = excluded.topic,
			query = excluded.query,
			breadth = excluded.breadth,
			depth = excluded.depth,
			learnings = excluded.learnings,
			visited_urls = excluded.visited_urls,
			report = excluded.report,
			created_at = excluded.created_at
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		run.Topic,
		run.Query,
		run.Breadth,
		run.Depth,
		string(learningsJSON),
		string(urlsJSON),
		run.Report,
		run.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// Load retrieves a run by ID
func (s *SqliteRunStore) Load(ctx context.Context, runID string) (*store.Run, error) {
	query := fmt.Sprintf(`
		SELECT id, topic, query, breadth, depth, learnings, visited_urls, report, created_at
		FROM %s
		WHERE id = ?
	`, s.tableName)

	run, err := scanRun(s.db.QueryRowContext(ctx, query, runID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, runID)
		}
		return nil, err
	}

	return run, nil
}

// List returns all archived runs, oldest first
func (s *SqliteRunStore) List(ctx context.Context) ([]*store.Run, error) {
	query := fmt.Sprintf(`
		SELECT id, topic, query, breadth, depth, learnings, visited_urls, report, created_at
		FROM %s
		ORDER BY created_at ASC, id ASC
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*store.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// Delete removes a run
func (s *SqliteRunStore) Delete(ctx context.Context, runID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*store.Run, error) {
	var run store.Run
	var learningsJSON string
	var urlsJSON string

	err := row.Scan(
		&run.ID,
		&run.Topic,
		&run.Query,
		&run.Breadth,
		&run.Depth,
		&learningsJSON,
		&urlsJSON,
		&run.Report,
		&run.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run row: %w", err)
	}

	if err := json.Unmarshal([]byte(learningsJSON), &run.Learnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal learnings: %w", err)
	}
	if err := json.Unmarshal([]byte(urlsJSON), &run.VisitedURLs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal visited urls: %w", err)
	}

	return &run, nil
}
