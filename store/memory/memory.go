// Package memory provides an in-memory run archive, useful for tests and
// short-lived processes that do not need runs to survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/smallnest/deepresearch/store"
)

// MemoryRunStore implements store.RunStore with a mutex-guarded map.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]*store.Run
}

// NewMemoryRunStore creates an empty in-memory run store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		runs: make(map[string]*store.Run),
	}
}

// Save stores a run, overwriting any run with the same ID.
func (s *MemoryRunStore) Save(ctx context.Context, run *store.Run) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = cloneRun(run)
	return nil
}

// Load retrieves a run by ID.
func (s *MemoryRunStore) Load(ctx context.Context, runID string) (*store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, runID)
	}
	return cloneRun(run), nil
}

// List returns all archived runs, oldest first.
func (s *MemoryRunStore) List(ctx context.Context) ([]*store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*store.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, cloneRun(run))
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})

	return runs, nil
}

// Delete removes a run. Deleting a missing run is a no-op.
func (s *MemoryRunStore) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}

// cloneRun copies a run so callers and the store never share slices.
func cloneRun(run *store.Run) *store.Run {
	c := *run
	c.Learnings = append([]string(nil), run.Learnings...)
	c.VisitedURLs = append([]string(nil), run.VisitedURLs...)
	return &c
}
