package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/deepresearch/log"
	"github.com/smallnest/deepresearch/research"
)

// Synthesizer writes prose from a research result. Failures wrap
// research.ErrSynthesisFailed, the one error a composed pipeline surfaces.
type Synthesizer struct {
	model  llms.Model
	logger log.Logger
}

// Option configures a Synthesizer
type Option func(*Synthesizer)

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a synthesizer backed by the given model.
func New(model llms.Model, opts ...Option) (*Synthesizer, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}

	s := &Synthesizer{model: model, logger: log.GetDefaultLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// WriteReport produces a detailed markdown report on topic from the
// research result, with a Sources section listing every visited URL
// appended after the model's output.
func (s *Synthesizer) WriteReport(ctx context.Context, topic string, res research.Result) (string, error) {
	body, err := s.generate(ctx, reportSystemPrompt, buildReportPrompt(topic, res.Learnings))
	if err != nil {
		return "", err
	}

	if len(res.VisitedURLs) > 0 {
		body += "\n\n" + sourcesSection(res.VisitedURLs)
	}
	s.logger.Debug("report for %q: %d learnings, %d sources", topic, len(res.Learnings), len(res.VisitedURLs))
	return body, nil
}

// WriteAnswer produces a short, direct answer to topic from the research
// result. No sources section is appended.
func (s *Synthesizer) WriteAnswer(ctx context.Context, topic string, res research.Result) (string, error) {
	return s.generate(ctx, answerSystemPrompt, buildAnswerPrompt(topic, res.Learnings))
}

func (s *Synthesizer) generate(ctx context.Context, system, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := s.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", research.ErrSynthesisFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty model response", research.ErrSynthesisFailed)
	}

	body := stripFence(resp.Choices[0].Content)
	if body == "" {
		return "", fmt.Errorf("%w: blank model response", research.ErrSynthesisFailed)
	}
	return body, nil
}

func sourcesSection(urls []string) string {
	var sb strings.Builder
	sb.WriteString("## Sources\n")
	for _, u := range urls {
		fmt.Fprintf(&sb, "\n- %s", u)
	}
	return sb.String()
}

// stripFence unwraps a response the model wrapped in a code fence.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```md")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
