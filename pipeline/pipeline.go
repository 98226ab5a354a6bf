package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallnest/deepresearch/log"
	"github.com/smallnest/deepresearch/planner"
	"github.com/smallnest/deepresearch/report"
	"github.com/smallnest/deepresearch/research"
	"github.com/smallnest/deepresearch/store"
)

// Mode selects the synthesis output.
type Mode string

const (
	// ModeReport produces a detailed markdown report with sources.
	ModeReport Mode = "report"
	// ModeAnswer produces a short, direct answer.
	ModeAnswer Mode = "answer"
)

// QA is an answered clarifying question folded into the root query.
type QA struct {
	Question string
	Answer   string
}

// Request describes one research run.
type Request struct {
	Topic   string
	Answers []QA
	Breadth int
	Depth   int
	Mode    Mode // default ModeReport
}

// Outcome is the terminal product of a run.
type Outcome struct {
	// RunID is set when the run was archived.
	RunID  string
	Result research.Result
	Report string
}

// Config wires the pipeline collaborators.
type Config struct {
	// Engine runs the research tree. Required.
	Engine *research.Engine
	// Planner generates clarifying questions. Optional; without one,
	// Questions returns nothing and runs start from the raw topic.
	Planner *planner.Planner
	// Synthesizer writes the final report or answer. Required.
	Synthesizer *report.Synthesizer
	// Archive stores completed runs. Optional.
	Archive store.RunStore
	// Logger defaults to the package default logger.
	Logger log.Logger
}

// Pipeline is the composed deep research flow.
type Pipeline struct {
	cfg Config
}

// New creates a pipeline.
func New(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if cfg.Synthesizer == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}

	c := *cfg
	if c.Logger == nil {
		c.Logger = log.GetDefaultLogger()
	}

	return &Pipeline{cfg: c}, nil
}

// Questions returns clarifying questions for topic. A missing or
// unavailable planner is not an error: the caller proceeds with the raw
// topic.
func (p *Pipeline) Questions(ctx context.Context, topic string) ([]string, error) {
	if p.cfg.Planner == nil {
		return nil, nil
	}

	questions, err := p.cfg.Planner.ClarifyingQuestions(ctx, topic)
	if err != nil {
		if errors.Is(err, research.ErrPlannerUnavailable) {
			p.cfg.Logger.Warn("skipping clarification: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return questions, nil
}

// Run executes a research run end to end: fold answered questions into the
// root query, run the tree, synthesize per Mode, and archive when an
// Archive is configured. Once the tree has produced a result, only a
// synthesis failure surfaces as an error; an archive failure is logged and
// leaves Outcome.RunID empty.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	query := rootQuery(topic, req.Answers)

	result, err := p.cfg.Engine.Run(ctx, query, req.Breadth, req.Depth)
	if err != nil {
		return nil, fmt.Errorf("research failed: %w", err)
	}

	p.cfg.Logger.Info("research for %q finished: %d learnings, %d sources",
		topic, len(result.Learnings), len(result.VisitedURLs))

	var output string
	switch req.Mode {
	case ModeAnswer:
		output, err = p.cfg.Synthesizer.WriteAnswer(ctx, topic, *result)
	default:
		output, err = p.cfg.Synthesizer.WriteReport(ctx, topic, *result)
	}
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Result: *result,
		Report: output,
	}

	if p.cfg.Archive != nil {
		run := &store.Run{
			ID:          store.NewRunID(),
			Topic:       topic,
			Query:       query,
			Breadth:     req.Breadth,
			Depth:       req.Depth,
			Learnings:   result.Learnings,
			VisitedURLs: result.VisitedURLs,
			Report:      output,
			CreatedAt:   time.Now(),
		}
		if err := p.cfg.Archive.Save(ctx, run); err != nil {
			p.cfg.Logger.Warn("failed to archive run: %v", err)
		} else {
			outcome.RunID = run.ID
			p.cfg.Logger.Debug("archived run %s", run.ID)
		}
	}

	return outcome, nil
}

// rootQuery folds answered clarifying questions into the engine's root
// query.
func rootQuery(topic string, answers []QA) string {
	if len(answers) == 0 {
		return topic
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Initial query: %s\n", topic)
	sb.WriteString("Follow-up questions and answers:\n")
	for _, qa := range answers {
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n", qa.Question, qa.Answer)
	}
	return strings.TrimSpace(sb.String())
}
