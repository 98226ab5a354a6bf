package planner

import "fmt"

const clarifySystemPrompt = `You are a research planning expert. Before an automated research run
starts, you help the user sharpen their request. Given a research topic, ask the follow-up
questions whose answers would most change what the research should focus on.

Your questions should:
- Surface missing constraints (time frame, region, industry, audience)
- Distinguish between plausible interpretations of the topic
- Be answerable in one short sentence each

If the topic is already unambiguous, return fewer questions or none.`

const querySystemPrompt = `You are a research planning expert. Given a research topic, you produce
the distinct web search queries that together cover the topic best.

Your queries should:
- Each target a different aspect of the topic
- Be phrased the way an expert would type them into a search engine
- Avoid overlapping or near-duplicate queries`

func buildClarifyPrompt(topic string, n int) string {
	return fmt.Sprintf(`Research Topic: %s

Ask up to %d follow-up questions to clarify the research direction. Return fewer if the topic
is already clear.

Format your response as a numbered list of questions.`, topic, n)
}

func buildQueryPrompt(topic string, n int) string {
	return fmt.Sprintf(`Research Topic: %s

Generate up to %d unique search queries that together investigate this topic thoroughly.
Each query must cover a different aspect; do not return near-duplicates.

Format your response as a numbered list of queries, one per line, with no commentary.`, topic, n)
}
