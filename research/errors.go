package research

import (
	"errors"
	"fmt"
)

// FailureKind classifies how a search task failed.
type FailureKind int

const (
	// ProviderFailure is a search provider error after retries were exhausted
	ProviderFailure FailureKind = iota
	// ProviderTimeout is a search task exceeding its time allowance
	ProviderTimeout
	// SummarizerFailure is a summarizer error; sources registered before the
	// failure are kept
	SummarizerFailure
)

// String returns the string representation of FailureKind
func (k FailureKind) String() string {
	switch k {
	case ProviderFailure:
		return "provider failure"
	case ProviderTimeout:
		return "provider timeout"
	case SummarizerFailure:
		return "summarizer failure"
	default:
		return fmt.Sprintf("unknown failure (%d)", k)
	}
}

// TaskError reports a search task failure. Task failures are branch-local:
// the scheduler logs them and moves on, they never abort sibling branches or
// the run as a whole.
type TaskError struct {
	Kind  FailureKind
	Query string
	Err   error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("search task %q: %s: %v", e.Query, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *TaskError) Unwrap() error {
	return e.Err
}

var (
	// ErrPlannerUnavailable signals that clarifying questions could not be
	// generated. Callers skip the clarification step and research the raw
	// topic.
	ErrPlannerUnavailable = errors.New("planner unavailable")

	// ErrSynthesisFailed signals that report synthesis failed after the
	// research tree completed. It is the only failure a composed pipeline
	// surfaces to its caller.
	ErrSynthesisFailed = errors.New("report synthesis failed")
)
