// Package summarizer extracts research findings and follow-up queries from
// raw search documents using an LLM.
//
// One Summarize call covers one search task's batch of documents. Document
// bodies are normalized and clipped through the content package before they
// enter the prompt, findings carry the source documents that support them,
// and follow-up queries are anchored on the query that produced the batch
// so recursion deepens instead of drifting.
//
// # Basic Usage
//
//	s, err := summarizer.New(model,
//		summarizer.WithMaxFindings(3),
//		summarizer.WithMaxFollowUps(3),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	summary, err := s.Summarize(ctx, docs, "go garbage collector latency")
//	for _, f := range summary.Findings {
//		fmt.Println(f.Text, f.Sources)
//	}
//
// Summarizer implements research.Summarizer.
package summarizer
