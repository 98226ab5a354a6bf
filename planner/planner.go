package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/deepresearch/log"
	"github.com/smallnest/deepresearch/research"
)

const defaultMaxQuestions = 3

// Planner wraps an LLM behind the two planning operations of a research
// run: asking the user clarifying questions before research starts, and
// expanding the topic into distinct seed queries for the engine's root
// level. It implements research.QueryGenerator.
type Planner struct {
	model        llms.Model
	maxQuestions int
	logger       log.Logger
}

var _ research.QueryGenerator = (*Planner)(nil)

// Option configures a Planner
type Option func(*Planner)

// WithMaxQuestions caps how many clarifying questions are returned
func WithMaxQuestions(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxQuestions = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a planner backed by the given model.
func New(model llms.Model, opts ...Option) (*Planner, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}

	p := &Planner{
		model:        model,
		maxQuestions: defaultMaxQuestions,
		logger:       log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ClarifyingQuestions asks the model which follow-up questions would sharpen
// the research direction for topic. Failures wrap
// research.ErrPlannerUnavailable so callers can skip the clarification step
// and research the raw topic.
func (p *Planner) ClarifyingQuestions(ctx context.Context, topic string) ([]string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, clarifySystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildClarifyPrompt(topic, p.maxQuestions)),
	}

	resp, err := p.model.GenerateContent(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", research.ErrPlannerUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty model response", research.ErrPlannerUnavailable)
	}

	var questions []string
	for _, line := range parseList(resp.Choices[0].Content) {
		if looksLikeQuestion(line) {
			questions = append(questions, line)
		}
	}
	if len(questions) > p.maxQuestions {
		questions = questions[:p.maxQuestions]
	}

	p.logger.Debug("generated %d clarifying questions for %q", len(questions), topic)
	return questions, nil
}

// ResearchQueries expands topic into up to n distinct search queries. The
// engine calls this to seed the root level of the research tree.
func (p *Planner) ResearchQueries(ctx context.Context, topic string, n int) ([]string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if n < 1 {
		n = 1
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, querySystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildQueryPrompt(topic, n)),
	}

	resp, err := p.model.GenerateContent(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate research queries: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty model response")
	}

	var queries []string
	for _, line := range parseList(resp.Choices[0].Content) {
		if looksLikeQuery(line) {
			queries = append(queries, line)
		}
	}
	if len(queries) > n {
		queries = queries[:n]
	}

	p.logger.Debug("expanded %q into %d seed queries", topic, len(queries))
	return queries, nil
}
