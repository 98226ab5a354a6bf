package research

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smallnest/deepresearch/log"
)

const defaultTaskTimeout = 30 * time.Second

// Config configures a research Engine.
type Config struct {
	// Provider executes search queries. Required.
	Provider SearchProvider

	// Summarizer extracts findings and follow-ups from documents. Required.
	Summarizer Summarizer

	// Queries expands the root query into seed queries. Optional; when nil
	// (or failing) the engine researches the raw query as the single seed.
	Queries QueryGenerator

	// Retry controls provider retry behavior. Nil means DefaultRetryConfig.
	Retry *RetryConfig

	// TaskTimeout bounds one search task including retries. Zero means 30s.
	TaskTimeout time.Duration

	// OnProgress receives task lifecycle events. Optional.
	OnProgress ProgressFunc

	// Logger for scheduler diagnostics. Nil means the package default.
	Logger log.Logger
}

// Engine schedules a recursive research tree. Each node runs exactly one
// search task; follow-up queries become child nodes with depth-1 and a slice
// of the parent's breadth, so the number of tasks at any level never exceeds
// the breadth given to Run. Branch failures are absorbed and logged; the
// shared Collector merges everything the surviving branches found.
type Engine struct {
	cfg Config
}

// NewEngine validates the configuration and creates an engine.
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Summarizer == nil {
		return nil, fmt.Errorf("summarizer is required")
	}

	c := *cfg
	if c.Retry == nil {
		c.Retry = DefaultRetryConfig()
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = defaultTaskTimeout
	}
	if c.Logger == nil {
		c.Logger = log.GetDefaultLogger()
	}
	return &Engine{cfg: c}, nil
}

// run is the per-invocation state of one research tree. The collector is the
// only state branches share.
type run struct {
	eng        *Engine
	collector  *Collector
	dispatched atomic.Int64
	completed  atomic.Int64
}

// Run researches query within the given breadth and depth budgets and
// returns the merged result. depth <= 0 or breadth <= 0 returns an empty
// result without calling any collaborator. When ctx ends mid-run the partial
// snapshot is returned together with ctx.Err(); task failures alone never
// make Run return an error.
func (e *Engine) Run(ctx context.Context, query string, breadth, depth int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	if breadth <= 0 || depth <= 0 {
		e.cfg.Logger.Debug("empty budget for %q (breadth=%d depth=%d), nothing to do", query, breadth, depth)
		return &Result{Learnings: []string{}, VisitedURLs: []string{}}, nil
	}

	r := &run{eng: e, collector: NewCollector()}

	seeds := e.seedQueries(ctx, query, breadth)
	allocations := AllocateBreadth(breadth, len(seeds))

	roots := make([]SubQuery, 0, len(seeds))
	for i, seed := range seeds {
		if allocations[i] == 0 {
			continue
		}
		roots = append(roots, SubQuery{
			Text:          seed,
			ParentContext: query,
			Budget:        Budget{Breadth: allocations[i], Depth: depth},
		})
	}

	e.cfg.Logger.Info("researching %q: %d root queries, breadth=%d depth=%d", query, len(roots), breadth, depth)
	r.fanOut(ctx, roots)

	snapshot := r.collector.Snapshot()
	if err := ctx.Err(); err != nil {
		return &snapshot, err
	}
	return &snapshot, nil
}

// seedQueries expands the root query into up to breadth seed queries. A
// missing or failing generator degrades to the raw query as the single seed.
func (e *Engine) seedQueries(ctx context.Context, query string, breadth int) []string {
	if e.cfg.Queries == nil {
		return []string{query}
	}

	queries, err := e.cfg.Queries.ResearchQueries(ctx, query, breadth)
	if err != nil {
		e.cfg.Logger.Warn("query generation failed, researching the raw query: %v", err)
		return []string{query}
	}

	seeds := make([]string, 0, breadth)
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		seeds = append(seeds, q)
		if len(seeds) == breadth {
			break
		}
	}
	if len(seeds) == 0 {
		return []string{query}
	}
	return seeds
}

// fanOut dispatches sibling sub-queries concurrently and waits for every
// branch to settle. A panic in a branch is contained there.
func (r *run) fanOut(ctx context.Context, children []SubQuery) {
	if len(children) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, child := range children {
		r.emit(Progress{Query: child.Text, Depth: child.Budget.Depth, Breadth: child.Budget.Breadth, State: TaskPending})

		wg.Add(1)
		go func(sq SubQuery) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.eng.cfg.Logger.Error("panic in research branch %q: %v", sq.Text, rec)
				}
			}()
			r.descend(ctx, sq)
		}(child)
	}
	wg.Wait()
}

// descend runs the node's search task and recurses into its follow-ups.
func (r *run) descend(ctx context.Context, sq SubQuery) {
	r.dispatched.Add(1)
	r.emit(Progress{Query: sq.Text, Depth: sq.Budget.Depth, Breadth: sq.Budget.Breadth, State: TaskRunning})

	res := r.runTask(ctx, sq)

	r.completed.Add(1)
	if res.Err != nil {
		r.eng.cfg.Logger.Warn("%v", res.Err)
		r.emit(Progress{Query: sq.Text, Depth: sq.Budget.Depth, Breadth: sq.Budget.Breadth, State: TaskFailed, Err: res.Err})
		return
	}
	r.eng.cfg.Logger.Debug("task %q: %d findings, %d follow-ups", sq.Text, len(res.Findings), len(res.FollowUps))
	r.emit(Progress{Query: sq.Text, Depth: sq.Budget.Depth, Breadth: sq.Budget.Breadth, State: TaskCompleted})

	// Children would run at depth-1; at depth 1 they would all be no-op
	// leaves, so the branch stops here.
	if sq.Budget.Depth <= 1 || len(res.FollowUps) == 0 {
		return
	}

	allocations := AllocateBreadth(sq.Budget.Breadth, len(res.FollowUps))
	children := make([]SubQuery, 0, len(res.FollowUps))
	for i, followUp := range res.FollowUps {
		if allocations[i] == 0 {
			continue
		}
		children = append(children, SubQuery{
			Text:          followUp,
			ParentContext: sq.Text,
			Budget:        sq.Budget.Child(allocations[i]),
		})
	}
	r.fanOut(ctx, children)
}

func (r *run) emit(p Progress) {
	if r.eng.cfg.OnProgress == nil {
		return
	}
	p.CompletedTasks = int(r.completed.Load())
	p.TotalTasks = int(r.dispatched.Load())
	r.eng.cfg.OnProgress(p)
}
