// Package pipeline composes the deep research building blocks into the
// end-to-end flow: clarify the topic, research it, synthesize the findings,
// and archive the finished run.
//
// The pipeline holds one collaborator per stage and stays hands-off about
// how each is built; anything satisfying the package interfaces plugs in.
//
// # Key Features
//
//   - Clarification step: planner-generated follow-up questions whose
//     answers are folded into the root research query
//   - Report and answer modes: detailed markdown or a single concise reply
//   - Optional run archiving to any store.RunStore backend
//   - Graceful degradation: a missing or failing planner never blocks a
//     run, and an archive failure never loses the report
//
// # Basic Usage
//
//	pipe, err := pipeline.New(&pipeline.Config{
//		Engine:      engine,      // required
//		Planner:     planner,     // optional
//		Synthesizer: synthesizer, // required
//		Archive:     archive,     // optional
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Ask the user the planner's clarifying questions
//	questions, _ := pipe.Questions(ctx, topic)
//	answers := collectAnswers(questions)
//
//	outcome, err := pipe.Run(ctx, pipeline.Request{
//		Topic:   topic,
//		Answers: answers,
//		Breadth: 4,
//		Depth:   2,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(outcome.Report)
//
// # Error Semantics
//
// Once the research tree has produced a result, only a synthesis failure
// makes Run return an error (research.ErrSynthesisFailed via errors.Is).
// Branch failures inside the tree are absorbed by the engine, planner
// unavailability skips the clarification step, and an archive failure is
// logged and reported through an empty Outcome.RunID.
package pipeline
