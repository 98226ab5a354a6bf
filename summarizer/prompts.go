package summarizer

import (
	"fmt"
	"strings"

	"github.com/smallnest/deepresearch/content"
	"github.com/smallnest/deepresearch/research"
)

const summarizeSystemPrompt = `You are a research analyst. Given a search query and the documents it
returned, extract the concrete learnings and propose follow-up searches.

Rules for learnings:
- Each learning is one standalone, information-dense fact
- Keep exact entities, numbers, dates and units from the documents
- Cite the supporting documents by their [n] markers
- Never invent facts that are not in the documents

Rules for follow-ups:
- Each follow-up is a search query that would deepen this research direction
- Phrase them the way an expert would type them into a search engine`

func (s *Summarizer) buildPrompt(docs []research.Document, parentContext string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Search query: %s\n\nDocuments:\n", parentContext)
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.URL
		}
		fmt.Fprintf(&sb, "\n[%d] %s\nURL: %s\n%s\n", i+1, title, doc.URL, content.Clip(bodyOf(doc), s.clipRunes))
	}

	fmt.Fprintf(&sb, `
Respond with one line per item, nothing else:
LEARNING: <fact> [n]
FOLLOW_UP: <search query>

Return at most %d LEARNING lines and at most %d FOLLOW_UP lines.`, s.maxFindings, s.maxFollowUps)

	return sb.String()
}
