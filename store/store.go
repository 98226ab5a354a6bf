package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run ID has no archived run.
var ErrNotFound = errors.New("run not found")

// Run is an archived research run. Only terminal artifacts are stored;
// intermediate tree state never persists.
type Run struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	Query       string    `json:"query"`
	Breadth     int       `json:"breadth"`
	Depth       int       `json:"depth"`
	Learnings   []string  `json:"learnings"`
	VisitedURLs []string  `json:"visited_urls"`
	Report      string    `json:"report"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRunID returns a fresh identifier for an archived run.
func NewRunID() string {
	return uuid.NewString()
}

// RunStore defines the interface for run archival.
type RunStore interface {
	// Save stores a run, overwriting any run with the same ID
	Save(ctx context.Context, run *Run) error

	// Load retrieves a run by ID
	Load(ctx context.Context, runID string) (*Run, error)

	// List returns all archived runs, oldest first
	List(ctx context.Context) ([]*Run, error)

	// Delete removes a run
	Delete(ctx context.Context, runID string) error
}
