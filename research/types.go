package research

import "context"

// Document is one raw search hit returned by a SearchProvider.
type Document struct {
	Title   string
	URL     string
	Content string  // snippet or cleaned body text
	Raw     string  // full raw content when the provider returns it
	Score   float64 // provider relevance score, 0 when not reported
}

// SourceRef identifies a visited source. URL is stored in normalized form
// (see NormalizeURL); the normalized URL is the deduplication identity.
type SourceRef struct {
	URL   string
	Title string
}

// Finding is one extracted learning together with the sources that support
// it. Two findings with the same normalized text are the same finding; their
// source sets merge.
type Finding struct {
	Text    string
	Sources []SourceRef
}

// Summary is a summarizer response for one batch of documents.
type Summary struct {
	Findings  []Finding
	FollowUps []string
}

// Budget bounds one node of the research tree. Breadth caps how many
// follow-up branches the node may spawn; Depth is how many levels remain
// below it. Depth decreases by exactly 1 per level.
type Budget struct {
	Breadth int
	Depth   int
}

// SubQuery is one unit of research work: a query text, the parent query that
// produced it, and the budget its node may spend. Immutable once dispatched.
type SubQuery struct {
	Text          string
	ParentContext string
	Budget        Budget
}

// Result is the terminal artifact of a research run. Both lists are
// deduplicated and preserve first-registration order.
type Result struct {
	Learnings   []string
	VisitedURLs []string
}

// SearchProvider executes a single search query.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]Document, error)
}

// Summarizer turns a batch of documents into findings and follow-up
// queries. parentContext is the query that produced the batch; it anchors
// the summary so follow-ups stay on topic.
type Summarizer interface {
	Summarize(ctx context.Context, docs []Document, parentContext string) (Summary, error)
}

// QueryGenerator expands a research topic into up to n distinct search
// queries. The engine uses it to seed the root level of the tree.
type QueryGenerator interface {
	ResearchQueries(ctx context.Context, topic string, n int) ([]string, error)
}
