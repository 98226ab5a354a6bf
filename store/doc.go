// Package store provides storage implementations for archiving completed
// research runs.
//
// A research run produces terminal artifacts: the deduplicated learnings,
// the visited source URLs, and the synthesized report. Archiving those
// artifacts lets runs be reviewed, compared, and re-rendered later without
// re-spending search and model budget. Only completed runs are stored;
// intermediate tree state is deliberately never persisted.
//
// The store package includes implementations for four backends:
//   - Memory: process-local, for tests and ephemeral tooling
//   - File: one JSON file per run, plus the report as a readable .md sibling
//   - SQLite: lightweight, serverless file-based storage
//   - PostgreSQL: shared relational storage via pgx
//
// # Store Interface
//
// All implementations satisfy the same interface:
//
//	type RunStore interface {
//	    // Save stores a run, overwriting any run with the same ID
//	    Save(ctx context.Context, run *Run) error
//
//	    // Load retrieves a run by ID
//	    Load(ctx context.Context, runID string) (*Run, error)
//
//	    // List returns all archived runs, oldest first
//	    List(ctx context.Context) ([]*Run, error)
//
//	    // Delete removes a run
//	    Delete(ctx context.Context, runID string) error
//	}
//
// Load returns an error wrapping ErrNotFound when the ID is unknown, so
// callers can branch with errors.Is. Delete on a missing run is a no-op.
//
// # Choosing a Backend
//
// Memory (store/memory) for unit tests and short-lived processes.
//
// File (store/file) when runs should land on disk as human-readable
// artifacts; every saved report is written next to the run JSON as
// <id>.md.
//
// SQLite (store/sqlite) for single-process deployments that want queryable
// history with zero configuration.
//
// PostgreSQL (store/postgres) when multiple services share the archive or
// history must survive the host.
//
// # Example
//
//	archive, err := sqlite.NewSqliteRunStore(sqlite.SqliteOptions{Path: "./runs.db"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer archive.Close()
//
//	run := &store.Run{
//		ID:          store.NewRunID(),
//		Topic:       "solid state batteries",
//		Query:       rootQuery,
//		Breadth:     4,
//		Depth:       2,
//		Learnings:   result.Learnings,
//		VisitedURLs: result.VisitedURLs,
//		Report:      report,
//		CreatedAt:   time.Now(),
//	}
//	if err := archive.Save(ctx, run); err != nil {
//		log.Fatal(err)
//	}
package store
