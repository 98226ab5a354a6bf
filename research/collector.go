package research

import "sync"

// Collector is the run-scoped deduplication store. Every search task in a
// research tree registers its sources and findings here as soon as it has
// them; the collector guarantees that equal entries merge no matter how many
// branches discover them concurrently.
//
// All methods are safe for concurrent use. The collector is the only shared
// mutable state between branches of a research tree.
type Collector struct {
	mu       sync.Mutex
	sources  []*SourceRef
	byURL    map[string]*SourceRef
	findings []*Finding
	byText   map[string]*Finding
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		byURL:  make(map[string]*SourceRef),
		byText: make(map[string]*Finding),
	}
}

// AddSource registers a visited source under its normalized URL. It returns
// true when the URL was not seen before. A later registration of a known URL
// is not an error; it fills in the stored title if the first one was empty.
func (c *Collector) AddSource(ref SourceRef) bool {
	normalized := NormalizeURL(ref.URL)
	if normalized == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.byURL[normalized]; ok {
		if existing.Title == "" && ref.Title != "" {
			existing.Title = ref.Title
		}
		return false
	}

	stored := &SourceRef{URL: normalized, Title: ref.Title}
	c.byURL[normalized] = stored
	c.sources = append(c.sources, stored)
	return true
}

// AddFinding merges a finding into the store and returns the canonical copy.
// Findings with equal normalized text are the same finding: the first writer
// wins the stored text, later arrivals contribute only their sources. Source
// sets are unioned by normalized URL.
func (c *Collector) AddFinding(f Finding) Finding {
	key := NormalizeFindingText(f.Text)
	if key == "" {
		return Finding{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.byText[key]
	if !ok {
		existing = &Finding{Text: f.Text}
		c.byText[key] = existing
		c.findings = append(c.findings, existing)
	}
	existing.Sources = mergeRefs(existing.Sources, f.Sources)

	return cloneFinding(existing)
}

// Snapshot returns the current deduplicated state as a Result. Learnings and
// VisitedURLs preserve first-registration order.
func (c *Collector) Snapshot() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result{
		Learnings:   make([]string, 0, len(c.findings)),
		VisitedURLs: make([]string, 0, len(c.sources)),
	}
	for _, f := range c.findings {
		res.Learnings = append(res.Learnings, f.Text)
	}
	for _, s := range c.sources {
		res.VisitedURLs = append(res.VisitedURLs, s.URL)
	}
	return res
}

// Sources returns the deduplicated sources in first-registration order,
// including any titles collected along the way.
func (c *Collector) Sources() []SourceRef {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]SourceRef, 0, len(c.sources))
	for _, s := range c.sources {
		out = append(out, *s)
	}
	return out
}

// Findings returns canonical copies of the merged findings in
// first-registration order.
func (c *Collector) Findings() []Finding {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Finding, 0, len(c.findings))
	for _, f := range c.findings {
		out = append(out, cloneFinding(f))
	}
	return out
}

// mergeRefs unions add into dst by normalized URL, keeping dst's order.
func mergeRefs(dst []SourceRef, add []SourceRef) []SourceRef {
	seen := make(map[string]bool, len(dst)+len(add))
	for _, r := range dst {
		seen[r.URL] = true
	}
	for _, r := range add {
		normalized := NormalizeURL(r.URL)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		dst = append(dst, SourceRef{URL: normalized, Title: r.Title})
	}
	return dst
}

func cloneFinding(f *Finding) Finding {
	out := Finding{Text: f.Text}
	if len(f.Sources) > 0 {
		out.Sources = make([]SourceRef, len(f.Sources))
		copy(out.Sources, f.Sources)
	}
	return out
}
