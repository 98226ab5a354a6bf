// Package sqlite provides a SQLite-backed run archive.
//
// This package stores completed research runs in a lightweight, serverless
// database file, a good fit for single-process deployments and local tooling
// that wants queryable history without running a database server.
//
// # Key Features
//
//   - Serverless, file-based database
//   - Zero configuration needed
//   - Upsert semantics: saving a run twice updates it in place
//   - Learnings and visited URLs stored as JSON columns
//   - Support for custom table names
//
// # Basic Usage
//
//	import "github.com/smallnest/deepresearch/store/sqlite"
//
//	archive, err := sqlite.NewSqliteRunStore(sqlite.SqliteOptions{
//		Path: "./runs.db",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer archive.Close()
//
//	err = archive.Save(ctx, &store.Run{
//		ID:     store.NewRunID(),
//		Topic:  "solid state batteries",
//		Report: report,
//	})
//
// # Schema
//
// The store creates its table on construction:
//
//	CREATE TABLE IF NOT EXISTS runs (
//		id TEXT PRIMARY KEY,
//		topic TEXT NOT NULL,
//		query TEXT NOT NULL,
//		breadth INTEGER NOT NULL,
//		depth INTEGER NOT NULL,
//		learnings TEXT NOT NULL,
//		visited_urls TEXT NOT NULL,
//		report TEXT,
//		created_at DATETIME NOT NULL
//	);
//
// Pass SqliteOptions.TableName to keep several archives in one file.
package sqlite
