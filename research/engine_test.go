package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider records queries and returns two canned documents per query.
type mockProvider struct {
	mu      sync.Mutex
	queries []string
	fn      func(query string) ([]Document, error)
}

func docsFor(query string) []Document {
	slug := strings.ReplaceAll(query, " ", "-")
	return []Document{
		{Title: "Doc A: " + query, URL: "https://example.com/" + slug + "/a", Content: "body a"},
		{Title: "Doc B: " + query, URL: "https://example.com/" + slug + "/b", Content: "body b"},
	}
}

func (m *mockProvider) Search(_ context.Context, query string) ([]Document, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.fn != nil {
		return m.fn(query)
	}
	return docsFor(query), nil
}

func (m *mockProvider) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// mockSummarizer emits one finding per document plus a fixed number of
// follow-up queries.
type mockSummarizer struct {
	followUps int
	fn        func(docs []Document, parentContext string) (Summary, error)
}

func (m *mockSummarizer) Summarize(_ context.Context, docs []Document, parentContext string) (Summary, error) {
	if m.fn != nil {
		return m.fn(docs, parentContext)
	}

	var s Summary
	for _, d := range docs {
		s.Findings = append(s.Findings, Finding{
			Text:    "Learned from " + d.URL,
			Sources: []SourceRef{{URL: d.URL, Title: d.Title}},
		})
	}
	for i := range m.followUps {
		s.FollowUps = append(s.FollowUps, fmt.Sprintf("%s deeper %d", parentContext, i+1))
	}
	return s, nil
}

// mockQueries delegates seed generation to a test-provided function.
type mockQueries struct {
	fn func(topic string, n int) ([]string, error)
}

func (m *mockQueries) ResearchQueries(_ context.Context, topic string, n int) ([]string, error) {
	return m.fn(topic, n)
}

// progressRecorder collects scheduler events for assertions.
type progressRecorder struct {
	mu     sync.Mutex
	events []Progress
}

func (p *progressRecorder) record(ev Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *progressRecorder) byState(s TaskState) []Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Progress
	for _, ev := range p.events {
		if ev.State == s {
			out = append(out, ev)
		}
	}
	return out
}

func (p *progressRecorder) runningAtDepth(depth int) int {
	count := 0
	for _, ev := range p.byState(TaskRunning) {
		if ev.Depth == depth {
			count++
		}
	}
	return count
}

func newTestEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	if cfg.Retry == nil {
		cfg.Retry = fastRetryConfig(1)
	}
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine
}

func TestNewEngine_Validation(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *Config
		errMsg string
	}{
		{"nil config", nil, "config is required"},
		{"missing provider", &Config{Summarizer: &mockSummarizer{}}, "provider is required"},
		{"missing summarizer", &Config{Provider: &mockProvider{}}, "summarizer is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.cfg)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	engine, err := NewEngine(&Config{Provider: &mockProvider{}, Summarizer: &mockSummarizer{}})
	require.NoError(t, err)

	assert.NotNil(t, engine.cfg.Retry)
	assert.Equal(t, defaultTaskTimeout, engine.cfg.TaskTimeout)
	assert.NotNil(t, engine.cfg.Logger)
}

func TestEngineRun_EmptyBudget(t *testing.T) {
	provider := &mockProvider{}
	engine := newTestEngine(t, &Config{Provider: provider, Summarizer: &mockSummarizer{}})

	for _, tc := range []struct{ breadth, depth int }{{3, 0}, {0, 2}, {-1, 2}, {2, -3}} {
		res, err := engine.Run(context.Background(), "quantum error correction", tc.breadth, tc.depth)
		require.NoError(t, err)
		assert.Empty(t, res.Learnings)
		assert.Empty(t, res.VisitedURLs)
	}

	assert.Equal(t, 0, provider.callCount(), "an empty budget must not touch the provider")
}

func TestEngineRun_EmptyQuery(t *testing.T) {
	engine := newTestEngine(t, &Config{Provider: &mockProvider{}, Summarizer: &mockSummarizer{}})

	_, err := engine.Run(context.Background(), "   ", 2, 1)
	assert.ErrorContains(t, err, "query is required")
}

func TestEngineRun_RootLevelFanOut(t *testing.T) {
	provider := &mockProvider{}
	rec := &progressRecorder{}
	engine := newTestEngine(t, &Config{
		Provider:   provider,
		Summarizer: &mockSummarizer{followUps: 1},
		Queries: &mockQueries{fn: func(topic string, n int) ([]string, error) {
			return []string{topic + " manufacturing", topic + " chemistry"}, nil
		}},
		OnProgress: rec.record,
	})

	res, err := engine.Run(context.Background(), "solid state batteries", 2, 1)
	require.NoError(t, err)

	// Exactly the two seed queries hit the provider; depth 1 means the
	// proposed follow-ups are never dispatched.
	assert.ElementsMatch(t, []string{
		"solid state batteries manufacturing",
		"solid state batteries chemistry",
	}, provider.calls())

	assert.Len(t, res.Learnings, 4) // 2 queries x 2 documents, all distinct
	assert.Len(t, res.VisitedURLs, 4)

	seen := make(map[string]bool)
	for _, u := range res.VisitedURLs {
		assert.False(t, seen[u], "duplicate URL %s", u)
		seen[u] = true
	}

	assert.Len(t, rec.byState(TaskCompleted), 2)
	assert.Empty(t, rec.byState(TaskFailed))
}

func TestEngineRun_DepthTwoRespectsLevelCap(t *testing.T) {
	provider := &mockProvider{}
	rec := &progressRecorder{}
	engine := newTestEngine(t, &Config{
		Provider:   provider,
		Summarizer: &mockSummarizer{followUps: 3}, // more follow-ups than budget
		Queries: &mockQueries{fn: func(topic string, n int) ([]string, error) {
			return []string{topic + " one", topic + " two"}, nil
		}},
		OnProgress: rec.record,
	})

	_, err := engine.Run(context.Background(), "fusion power", 2, 2)
	require.NoError(t, err)

	// Two roots at depth 2; each root has breadth 1, so only the first of
	// its three follow-ups is dispatched at depth 1.
	assert.Equal(t, 2, rec.runningAtDepth(2))
	assert.Equal(t, 2, rec.runningAtDepth(1))
	assert.Equal(t, 4, provider.callCount())
}

func TestEngineRun_SiblingFailureIsolation(t *testing.T) {
	provider := &mockProvider{fn: func(query string) ([]Document, error) {
		if strings.Contains(query, "beta") {
			return nil, errors.New("provider exploded")
		}
		return docsFor(query), nil
	}}
	rec := &progressRecorder{}
	engine := newTestEngine(t, &Config{
		Provider:   provider,
		Summarizer: &mockSummarizer{},
		Queries: &mockQueries{fn: func(string, int) ([]string, error) {
			return []string{"alpha", "beta", "gamma"}, nil
		}},
		OnProgress: rec.record,
	})

	res, err := engine.Run(context.Background(), "greek letters", 3, 1)
	require.NoError(t, err, "a branch failure must not surface from Run")

	assert.Len(t, res.Learnings, 4) // alpha and gamma contribute two each
	for _, l := range res.Learnings {
		assert.NotContains(t, l, "beta")
	}

	failed := rec.byState(TaskFailed)
	require.Len(t, failed, 1)

	var taskErr *TaskError
	require.ErrorAs(t, failed[0].Err, &taskErr)
	assert.Equal(t, ProviderFailure, taskErr.Kind)
	assert.Equal(t, "beta", taskErr.Query)
}

func TestEngineRun_SummarizerFailureKeepsSources(t *testing.T) {
	summarizer := &mockSummarizer{fn: func(docs []Document, parentContext string) (Summary, error) {
		if strings.Contains(docs[0].URL, "beta") {
			return Summary{}, errors.New("llm flaked")
		}
		var s Summary
		for _, d := range docs {
			s.Findings = append(s.Findings, Finding{Text: "Learned from " + d.URL, Sources: []SourceRef{{URL: d.URL}}})
		}
		return s, nil
	}}
	rec := &progressRecorder{}
	engine := newTestEngine(t, &Config{
		Provider:   &mockProvider{},
		Summarizer: summarizer,
		Queries: &mockQueries{fn: func(string, int) ([]string, error) {
			return []string{"alpha", "beta"}, nil
		}},
		OnProgress: rec.record,
	})

	res, err := engine.Run(context.Background(), "letters", 2, 1)
	require.NoError(t, err)

	// Sources were registered before the summarizer ran, so beta's
	// documents survive its failure.
	assert.Len(t, res.VisitedURLs, 4)
	assert.Contains(t, res.VisitedURLs, "https://example.com/beta/a")
	assert.Len(t, res.Learnings, 2)

	failed := rec.byState(TaskFailed)
	require.Len(t, failed, 1)
	var taskErr *TaskError
	require.ErrorAs(t, failed[0].Err, &taskErr)
	assert.Equal(t, SummarizerFailure, taskErr.Kind)
}

func TestEngineRun_RetriesTransientProviderFailure(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	provider := &mockProvider{fn: func(query string) ([]Document, error) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()
		if n == 1 {
			return nil, errors.New("temporary outage")
		}
		return docsFor(query), nil
	}}
	engine := newTestEngine(t, &Config{
		Provider:   provider,
		Summarizer: &mockSummarizer{},
		Retry:      fastRetryConfig(3),
	})

	res, err := engine.Run(context.Background(), "resilience", 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, provider.callCount(), "one failure plus one successful retry")
	assert.Len(t, res.Learnings, 2)
}

func TestEngineRun_TaskTimeout(t *testing.T) {
	provider := &mockProvider{fn: func(query string) ([]Document, error) {
		time.Sleep(200 * time.Millisecond)
		return docsFor(query), nil
	}}
	rec := &progressRecorder{}
	engine := newTestEngine(t, &Config{
		Provider:    provider,
		Summarizer:  &mockSummarizer{},
		TaskTimeout: 10 * time.Millisecond,
		OnProgress:  rec.record,
	})

	res, err := engine.Run(context.Background(), "slow provider", 1, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Learnings)

	failed := rec.byState(TaskFailed)
	require.Len(t, failed, 1)

	var taskErr *TaskError
	require.ErrorAs(t, failed[0].Err, &taskErr)
	assert.Equal(t, ProviderTimeout, taskErr.Kind)
}

func TestEngineRun_GeneratorFallback(t *testing.T) {
	provider := &mockProvider{}
	engine := newTestEngine(t, &Config{
		Provider:   provider,
		Summarizer: &mockSummarizer{},
		Queries: &mockQueries{fn: func(string, int) ([]string, error) {
			return nil, errors.New("llm down")
		}},
	})

	res, err := engine.Run(context.Background(), "fallback topic", 3, 1)
	require.NoError(t, err)

	// The raw query becomes the single seed and inherits the full breadth.
	assert.Equal(t, []string{"fallback topic"}, provider.calls())
	assert.Len(t, res.Learnings, 2)
}

func TestEngineRun_GeneratorOutputCappedAtBreadth(t *testing.T) {
	provider := &mockProvider{}
	engine := newTestEngine(t, &Config{
		Provider:   provider,
		Summarizer: &mockSummarizer{},
		Queries: &mockQueries{fn: func(topic string, n int) ([]string, error) {
			return []string{"s1", "", "s2", "s3", "s4", "s5"}, nil
		}},
	})

	_, err := engine.Run(context.Background(), "wide topic", 3, 1)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, provider.calls())
}

func TestEngineRun_DuplicateFindingsAcrossBranchesMerge(t *testing.T) {
	summarizer := &mockSummarizer{fn: func(docs []Document, parentContext string) (Summary, error) {
		var refs []SourceRef
		for _, d := range docs {
			refs = append(refs, SourceRef{URL: d.URL})
		}
		return Summary{Findings: []Finding{{Text: "The shared insight", Sources: refs}}}, nil
	}}
	engine := newTestEngine(t, &Config{
		Provider:   &mockProvider{},
		Summarizer: summarizer,
		Queries: &mockQueries{fn: func(string, int) ([]string, error) {
			return []string{"branch one", "branch two"}, nil
		}},
	})

	res, err := engine.Run(context.Background(), "convergent topic", 2, 1)
	require.NoError(t, err)

	require.Len(t, res.Learnings, 1)
	assert.Equal(t, "The shared insight", res.Learnings[0])
	assert.Len(t, res.VisitedURLs, 4, "merged finding keeps every branch's sources")
}

func TestEngineRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &mockProvider{}
	engine := newTestEngine(t, &Config{Provider: provider, Summarizer: &mockSummarizer{}})

	res, err := engine.Run(ctx, "cancelled run", 2, 2)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res, "partial snapshot is still returned")
	assert.Empty(t, res.Learnings)
}

func TestEngineRun_ProviderPanicContained(t *testing.T) {
	provider := &mockProvider{fn: func(query string) ([]Document, error) {
		if strings.Contains(query, "beta") {
			panic("provider bug")
		}
		return docsFor(query), nil
	}}
	engine := newTestEngine(t, &Config{
		Provider:   provider,
		Summarizer: &mockSummarizer{},
		Queries: &mockQueries{fn: func(string, int) ([]string, error) {
			return []string{"alpha", "beta"}, nil
		}},
	})

	res, err := engine.Run(context.Background(), "panics", 2, 1)
	require.NoError(t, err)
	assert.Len(t, res.Learnings, 2, "the healthy sibling still contributes")
}

func TestEngineRun_SummarizerPanicContained(t *testing.T) {
	summarizer := &mockSummarizer{fn: func(docs []Document, parentContext string) (Summary, error) {
		if strings.Contains(docs[0].URL, "beta") {
			panic("summarizer bug")
		}
		return Summary{Findings: []Finding{{Text: "Learned from " + docs[0].URL}}}, nil
	}}
	engine := newTestEngine(t, &Config{
		Provider:   &mockProvider{},
		Summarizer: summarizer,
		Queries: &mockQueries{fn: func(string, int) ([]string, error) {
			return []string{"alpha", "beta"}, nil
		}},
	})

	res, err := engine.Run(context.Background(), "panics", 2, 1)
	require.NoError(t, err)

	assert.Len(t, res.Learnings, 1)
	// The panicking branch had already registered its sources.
	assert.Len(t, res.VisitedURLs, 4)
}

func TestEngineRun_ProgressLifecycle(t *testing.T) {
	rec := &progressRecorder{}
	engine := newTestEngine(t, &Config{
		Provider:   &mockProvider{},
		Summarizer: &mockSummarizer{},
		OnProgress: rec.record,
	})

	_, err := engine.Run(context.Background(), "lifecycle", 1, 1)
	require.NoError(t, err)

	var states []TaskState
	for _, ev := range rec.events {
		if ev.Query == "lifecycle" {
			states = append(states, ev.State)
		}
	}
	assert.Equal(t, []TaskState{TaskPending, TaskRunning, TaskCompleted}, states)

	completed := rec.byState(TaskCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, 1, completed[0].CompletedTasks)
	assert.Equal(t, 1, completed[0].TotalTasks)
	assert.Equal(t, 1, completed[0].Depth)
	assert.Equal(t, 1, completed[0].Breadth)
}
