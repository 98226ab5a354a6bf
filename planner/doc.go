// Package planner turns a research topic into better research inputs using
// an LLM: clarifying questions to ask the user before research starts, and
// seed search queries for the root level of the research tree.
//
// Both operations parse numbered or bulleted model output leniently and
// filter out the preamble lines models like to wrap around lists.
//
// # Basic Usage
//
//	p, err := planner.New(model, planner.WithMaxQuestions(3))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Before research: ask the user what they actually mean
//	questions, err := p.ClarifyingQuestions(ctx, "the future of batteries")
//
//	// During research: seed the engine's root level
//	queries, err := p.ResearchQueries(ctx, topic, 4)
//
// ClarifyingQuestions failures wrap research.ErrPlannerUnavailable so
// callers can detect them with errors.Is and proceed with the raw topic.
// Planner implements research.QueryGenerator, so it plugs straight into
// research.Config.Queries.
package planner
