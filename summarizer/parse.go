package summarizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/smallnest/deepresearch/content"
	"github.com/smallnest/deepresearch/research"
)

const (
	learningPrefix = "LEARNING:"
	followUpPrefix = "FOLLOW_UP:"
)

var citationRe = regexp.MustCompile(`\[(\d+)\]`)

// parseSummary scans the model response line by line. Learning lines with no
// parseable [n] citation are attributed to the whole batch; nothing is ever
// dropped for a malformed citation.
func parseSummary(response string, docs []research.Document) research.Summary {
	refs := make([]research.SourceRef, len(docs))
	for i, doc := range docs {
		refs[i] = research.SourceRef{URL: doc.URL, Title: doc.Title}
	}

	var summary research.Summary
	for line := range strings.SplitSeq(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, learningPrefix):
			text := strings.TrimSpace(strings.TrimPrefix(line, learningPrefix))
			if text == "" {
				continue
			}
			sources := citedRefs(text, refs)
			text = content.CollapseWhitespace(citationRe.ReplaceAllString(text, ""))
			if text == "" {
				continue
			}
			summary.Findings = append(summary.Findings, research.Finding{Text: text, Sources: sources})

		case strings.HasPrefix(line, followUpPrefix):
			query := strings.TrimSpace(strings.TrimPrefix(line, followUpPrefix))
			if query != "" {
				summary.FollowUps = append(summary.FollowUps, query)
			}
		}
	}
	return summary
}

// citedRefs resolves the [n] markers in text against the batch. Out-of-range
// and duplicate markers are ignored; no valid marker at all means every
// document in the batch is cited.
func citedRefs(text string, refs []research.SourceRef) []research.SourceRef {
	var out []research.SourceRef
	seen := make(map[int]bool)

	for _, match := range citationRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 1 || n > len(refs) || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, refs[n-1])
	}

	if len(out) == 0 {
		out = append(out, refs...)
	}
	return out
}
