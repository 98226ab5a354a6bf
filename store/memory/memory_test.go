package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/smallnest/deepresearch/store"
)

func TestMemoryRunStore_New(t *testing.T) {
	t.Parallel()

	ms := NewMemoryRunStore()

	if ms == nil {
		t.Fatal("Store should not be nil")
	}

	// Verify it implements the interface
	var _ store.RunStore = ms
}

func TestMemoryRunStore_BasicOperations(t *testing.T) {
	t.Parallel()

	t.Run("save and load", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		ctx := context.Background()

		run := &store.Run{
			ID:          "run-123",
			Topic:       "solid state batteries",
			Query:       "solid state batteries: focus on manufacturing",
			Breadth:     4,
			Depth:       2,
			Learnings:   []string{"Pilot lines exist", "Yield is the bottleneck"},
			VisitedURLs: []string{"https://example.com/a", "https://example.com/b"},
			Report:      "# Solid State Batteries\n...",
			CreatedAt:   time.Now(),
		}

		if err := ms.Save(ctx, run); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		loaded, err := ms.Load(ctx, run.ID)
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}

		if loaded.ID != run.ID {
			t.Errorf("ID mismatch: got %s, want %s", loaded.ID, run.ID)
		}
		if loaded.Topic != run.Topic {
			t.Errorf("Topic mismatch: got %s, want %s", loaded.Topic, run.Topic)
		}
		if len(loaded.Learnings) != 2 {
			t.Errorf("Expected 2 learnings, got %d", len(loaded.Learnings))
		}
		if loaded.Report != run.Report {
			t.Error("Report not preserved")
		}
	})

	t.Run("load missing returns not found", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		ctx := context.Background()

		_, err := ms.Load(ctx, "does-not-exist")
		if err == nil {
			t.Fatal("Expected error for missing run")
		}
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("save rejects missing id", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()

		if err := ms.Save(context.Background(), &store.Run{}); err == nil {
			t.Error("Expected error for run without ID")
		}
		if err := ms.Save(context.Background(), nil); err == nil {
			t.Error("Expected error for nil run")
		}
	})

	t.Run("overwrite works", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		ctx := context.Background()

		run1 := &store.Run{
			ID:     "overwrite-test",
			Topic:  "first pass",
			Report: "draft",
		}
		if err := ms.Save(ctx, run1); err != nil {
			t.Fatalf("Failed to save v1: %v", err)
		}

		run2 := &store.Run{
			ID:     "overwrite-test",
			Topic:  "second pass",
			Report: "final",
		}
		if err := ms.Save(ctx, run2); err != nil {
			t.Fatalf("Failed to save v2: %v", err)
		}

		loaded, err := ms.Load(ctx, "overwrite-test")
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}

		if loaded.Topic != "second pass" {
			t.Errorf("Expected second pass, got %s", loaded.Topic)
		}
		if loaded.Report != "final" {
			t.Errorf("Expected final report, got %s", loaded.Report)
		}
	})

	t.Run("stored run is isolated from caller mutation", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		ctx := context.Background()

		run := &store.Run{
			ID:        "isolation-test",
			Learnings: []string{"original"},
		}
		if err := ms.Save(ctx, run); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		run.Learnings[0] = "mutated"

		loaded, err := ms.Load(ctx, "isolation-test")
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if loaded.Learnings[0] != "original" {
			t.Error("Stored run shares slices with the caller")
		}
	})
}

func TestMemoryRunStore_List(t *testing.T) {
	t.Parallel()

	t.Run("sorted oldest first", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		ctx := context.Background()
		base := time.Now()

		runs := []struct {
			id     string
			offset time.Duration
		}{
			{"run-c", 3 * time.Minute},
			{"run-a", 1 * time.Minute},
			{"run-b", 2 * time.Minute},
		}

		for _, r := range runs {
			err := ms.Save(ctx, &store.Run{ID: r.id, CreatedAt: base.Add(r.offset)})
			if err != nil {
				t.Fatalf("Failed to save %s: %v", r.id, err)
			}
		}

		list, err := ms.List(ctx)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}

		if len(list) != 3 {
			t.Fatalf("Expected 3 runs, got %d", len(list))
		}
		want := []string{"run-a", "run-b", "run-c"}
		for i, id := range want {
			if list[i].ID != id {
				t.Errorf("Position %d: got %s, want %s", i, list[i].ID, id)
			}
		}
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()

		list, err := ms.List(context.Background())
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("Expected 0 runs, got %d", len(list))
		}
	})
}

func TestMemoryRunStore_Delete(t *testing.T) {
	t.Parallel()

	t.Run("delete existing", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		ctx := context.Background()

		for _, id := range []string{"keep-1", "delete-me", "keep-2"} {
			if err := ms.Save(ctx, &store.Run{ID: id}); err != nil {
				t.Fatalf("Failed to save %s: %v", id, err)
			}
		}

		if err := ms.Delete(ctx, "delete-me"); err != nil {
			t.Errorf("Delete failed: %v", err)
		}

		if _, err := ms.Load(ctx, "delete-me"); err == nil {
			t.Error("Deleted run should not load")
		}
		if _, err := ms.Load(ctx, "keep-1"); err != nil {
			t.Error("keep-1 should still exist")
		}
		if _, err := ms.Load(ctx, "keep-2"); err != nil {
			t.Error("keep-2 should still exist")
		}
	})

	t.Run("delete missing is no-op", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()

		if err := ms.Delete(context.Background(), "never-existed"); err != nil {
			t.Errorf("Should not error for missing run: %v", err)
		}
	})
}

func TestMemoryRunStore_ThreadSafety(t *testing.T) {
	t.Parallel()

	ms := NewMemoryRunStore()
	ctx := context.Background()

	numGoroutines := 10
	runsPerGoroutine := 5

	done := make(chan bool, numGoroutines)
	errs := make(chan error, numGoroutines)

	for i := range numGoroutines {
		go func(workerID int) {
			defer func() { done <- true }()

			for j := range runsPerGoroutine {
				run := &store.Run{
					ID:        fmt.Sprintf("worker-%d-run-%d", workerID, j),
					Topic:     fmt.Sprintf("topic-%d", workerID),
					Learnings: []string{fmt.Sprintf("learning-%d-%d", workerID, j)},
					CreatedAt: time.Now(),
				}

				if err := ms.Save(ctx, run); err != nil {
					errs <- fmt.Errorf("worker %d save run %d failed: %v", workerID, j, err)
					return
				}

				loaded, err := ms.Load(ctx, run.ID)
				if err != nil {
					errs <- fmt.Errorf("worker %d load run %d failed: %v", workerID, j, err)
					return
				}

				if loaded.ID != run.ID {
					errs <- fmt.Errorf("worker %d run %d ID mismatch", workerID, j)
					return
				}
			}
		}(i)
	}

	for range numGoroutines {
		select {
		case <-done:
		case err := <-errs:
			t.Errorf("Worker error: %v", err)
		case <-time.After(10 * time.Second):
			t.Fatal("Test timed out")
		}
	}

	for i := range numGoroutines {
		for j := range runsPerGoroutine {
			id := fmt.Sprintf("worker-%d-run-%d", i, j)
			if _, err := ms.Load(ctx, id); err != nil {
				t.Errorf("Run %s missing", id)
			}
		}
	}
}
