// Package research implements a recursive, budget-bounded research tree.
//
// A research run starts from one query and two numbers: breadth (how wide
// the tree may fan out at any level) and depth (how many levels it may
// descend). The engine expands the query into seed sub-queries, runs one
// search task per node (search, extract findings, propose follow-ups), and
// recurses into the follow-ups with a shrinking budget: every child level
// gets depth-1 and a slice of its parent's breadth. Because sibling
// allocations always sum to at most the parent's breadth, no level of the
// tree ever runs more search tasks than the root breadth.
//
// All branches share exactly one piece of mutable state, the Collector,
// which deduplicates findings by normalized text and sources by normalized
// URL as they stream in. Branch failures (provider errors, timeouts,
// summarizer errors) are absorbed and logged; the run's Result is whatever
// the surviving branches contributed.
//
// # Usage
//
//	engine, err := research.NewEngine(&research.Config{
//		Provider:   provider,   // a SearchProvider, for example search.Tavily
//		Summarizer: summarizer, // an LLM-backed summarizer
//		Queries:    planner,    // optional seed-query generation
//	})
//	if err != nil {
//		return err
//	}
//
//	result, err := engine.Run(ctx, "solid state battery manufacturing challenges", 4, 2)
//	if err != nil {
//		return err
//	}
//	for _, learning := range result.Learnings {
//		fmt.Println("-", learning)
//	}
//
// Learnings and VisitedURLs arrive deduplicated and in first-registration
// order. With breadth > 1 sibling branches race, so the order differs
// between runs; run with breadth 1 when reproducible ordering matters.
package research
