package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/deepresearch/store"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresRunStore implements store.RunStore using PostgreSQL
type PostgresRunStore struct {
	pool      DBPool
	tableName string
}

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "runs"
}

// NewPostgresRunStore creates a new Postgres run store
func NewPostgresRunStore(ctx context.Context, opts PostgresOptions) (*PostgresRunStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "runs"
	}

	return &PostgresRunStore{
		pool:      pool,
		tableName: tableName,
	}, nil
}

// NewPostgresRunStoreWithPool creates a new Postgres run store with an existing pool
// Useful for testing with mocks
func NewPostgresRunStoreWithPool(pool DBPool, tableName string) *PostgresRunStore {
	if tableName == "" {
		tableName = "runs"
	}
	return &PostgresRunStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresRunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			query TEXT NOT NULL,
			breadth INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			learnings JSONB NOT NULL,
			visited_urls JSONB NOT NULL,
			report TEXT,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_created_at ON %s (created_at);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresRunStore) Close() {
	s.pool.Close()
}

// Save stores a run, overwriting any run with the same ID
func (s *PostgresRunStore) Save(ctx context.Context, run *store.Run) error {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			topic = EXCLUDED.topic,
			query = EXCLUDED.query,
			breadth = EXCLUDED.breadth,
			depth = EXCLUDED.depth,
			learnings = EXCLUDED.learnings,
			visited_urls = EXCLUDED.visited_urls,
			report = EXCLUDED.report,
			created_at = EXCLUDED.created_at
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		run.ID,
		run.Topic,
		run.Query,
		run.Breadth,
		run.Depth,
		learningsJSON,
		urlsJSON,
		run.Report,
		run.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// Load retrieves a run by ID
func (s *PostgresRunStore) Load(ctx context.Context, runID string) (*store.Run, error) {
	query := fmt.Sprintf(`
		SELECT id, topic, query, breadth, depth, learnings, visited_urls, report, created_at
		FROM %s
		WHERE id = $1
	`, s.tableName)

	run, err := scanRun(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, runID)
		}
		return nil, err
	}

	return run, nil
}

// List returns all archived runs, oldest first
func (s *PostgresRunStore) List(ctx context.Context) ([]*store.Run, error) {
	query := fmt.Sprintf(`
		SELECT id, topic, query, breadth, depth, learnings, visited_urls, report, created_at
		FROM %s
		ORDER BY created_at ASC, id ASC
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query)
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
func (s *PostgresRunStore) Delete(ctx context.Context, runID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	_, err := s.pool.Exec(ctx, query, runID)
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
	var learningsJSON []byte
	var urlsJSON []byte

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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run row: %w", err)
	}

	if err := json.Unmarshal(learningsJSON, &run.Learnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal learnings: %w", err)
	}
	if err := json.Unmarshal(urlsJSON, &run.VisitedURLs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal visited urls: %w", err)
	}

	return &run, nil
}
