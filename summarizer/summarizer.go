package summarizer

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/deepresearch/content"
	"github.com/smallnest/deepresearch/log"
	"github.com/smallnest/deepresearch/research"
)

const (
	defaultMaxFindings  = 3
	defaultMaxFollowUps = 3
	defaultClipRunes    = 25000
)

// Summarizer extracts standalone findings from a batch of documents and
// proposes follow-up search queries. It implements research.Summarizer.
type Summarizer struct {
	model        llms.Model
	maxFindings  int
	maxFollowUps int
	clipRunes    int
	logger       log.Logger
}

var _ research.Summarizer = (*Summarizer)(nil)

// Option configures a Summarizer
type Option func(*Summarizer)

// WithMaxFindings caps how many findings one batch may yield
func WithMaxFindings(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxFindings = n
		}
	}
}

// WithMaxFollowUps caps how many follow-up queries one batch may yield
func WithMaxFollowUps(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxFollowUps = n
		}
	}
}

// WithClipRunes bounds how many runes of each document go into the prompt
func WithClipRunes(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.clipRunes = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return func(s *Summarizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a summarizer backed by the given model.
func New(model llms.Model, opts ...Option) (*Summarizer, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}

	s := &Summarizer{
		model:        model,
		maxFindings:  defaultMaxFindings,
		maxFollowUps: defaultMaxFollowUps,
		clipRunes:    defaultClipRunes,
		logger:       log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Summarize extracts findings and follow-up queries from docs.
// parentContext is the query that produced the batch; it anchors the model
// so follow-ups deepen rather than drift. An empty batch returns an empty
// summary without calling the model.
func (s *Summarizer) Summarize(ctx context.Context, docs []research.Document, parentContext string) (research.Summary, error) {
	if len(docs) == 0 {
		return research.Summary{}, nil
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, summarizeSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, s.buildPrompt(docs, parentContext)),
	}

	resp, err := s.model.GenerateContent(ctx, messages)
	if err != nil {
		return research.Summary{}, fmt.Errorf("failed to summarize %d documents: %w", len(docs), err)
	}
	if len(resp.Choices) == 0 {
		return research.Summary{}, fmt.Errorf("empty model response")
	}

	summary := parseSummary(resp.Choices[0].Content, docs)
	if len(summary.Findings) > s.maxFindings {
		summary.Findings = summary.Findings[:s.maxFindings]
	}
	if len(summary.FollowUps) > s.maxFollowUps {
		summary.FollowUps = summary.FollowUps[:s.maxFollowUps]
	}

	s.logger.Debug("summarized %d documents into %d findings, %d follow-ups", len(docs), len(summary.Findings), len(summary.FollowUps))
	return summary, nil
}

// bodyOf picks the richest available text for a document and normalizes it.
func bodyOf(doc research.Document) string {
	raw := doc.Raw
	if raw == "" {
		raw = doc.Content
	}
	return content.Extract(raw)
}
