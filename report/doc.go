// Package report synthesizes a completed research run into its final
// artifact: a detailed markdown report with a Sources section, or a concise
// answer for questions that want one line instead of three pages.
//
// # Basic Usage
//
//	s, err := report.New(model)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	md, err := s.WriteReport(ctx, topic, result)       // full report
//	answer, err := s.WriteAnswer(ctx, question, result) // one-liner
//
// Every failure wraps research.ErrSynthesisFailed; this is the only error
// a finished research run surfaces to pipeline callers.
package report
