// Package file provides a filesystem run archive. Each run is stored as
// <id>.json with the final report additionally written to <id>.md next to
// it, so reports stay readable without any tooling.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/smallnest/deepresearch/store"
)

// FileRunStore implements store.RunStore on a directory of JSON files.
type FileRunStore struct {
	path string
}

// NewFileRunStore creates a run store rooted at path, creating the
// directory if it does not exist.
func NewFileRunStore(path string) (*FileRunStore, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileRunStore{path: path}, nil
}

func (s *FileRunStore) runFile(runID string) string {
	return filepath.Join(s.path, runID+".json")
}

func (s *FileRunStore) reportFile(runID string) string {
	return filepath.Join(s.path, runID+".md")
}

// Save stores a run, overwriting any run with the same ID. The report, when
// present, is also written as a markdown file beside the JSON.
func (s *FileRunStore) Save(ctx context.Context, run *store.Run) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := os.WriteFile(s.runFile(run.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write run file: %w", err)
	}

	if run.Report != "" {
		if err := os.WriteFile(s.reportFile(run.ID), []byte(run.Report), 0o644); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
	}

	return nil
}

// Load retrieves a run by ID.
func (s *FileRunStore) Load(ctx context.Context, runID string) (*store.Run, error) {
	data, err := os.ReadFile(s.runFile(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, runID)
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var run store.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}

	return &run, nil
}

// List returns all archived runs, oldest first.
func (s *FileRunStore) List(ctx context.Context) ([]*store.Run, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var runs []*store.Run
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		run, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})

	return runs, nil
}

// Delete removes a run and its report file. Deleting a missing run is a
// no-op.
func (s *FileRunStore) Delete(ctx context.Context, runID string) error {
	if err := os.Remove(s.runFile(runID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run file: %w", err)
	}
	if err := os.Remove(s.reportFile(runID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}
