package planner

import (
	"fmt"
	"strings"
)

// parseList extracts the items of a numbered or bulleted list, tolerating
// "1.", "1)", "Q1:", "-" and "*" prefixes.
func parseList(response string) []string {
	var items []string
	for line := range strings.SplitSeq(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = stripListPrefix(line)
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

func stripListPrefix(line string) string {
	line = strings.TrimPrefix(line, "- ")
	line = strings.TrimPrefix(line, "* ")
	for i := 1; i <= 20; i++ {
		for _, prefix := range []string{fmt.Sprintf("%d.", i), fmt.Sprintf("%d)", i), fmt.Sprintf("Q%d:", i)} {
			if after, ok := strings.CutPrefix(line, prefix); ok {
				return strings.TrimSpace(after)
			}
		}
	}
	return strings.TrimSpace(line)
}

// looksLikeQuestion filters out preamble lines the model wraps around its
// list ("Here are three questions:" and the like).
func looksLikeQuestion(line string) bool {
	if len(line) < 10 {
		return false
	}
	if strings.HasSuffix(line, "?") {
		return true
	}
	lower := strings.ToLower(line)
	for _, w := range []string{"what", "how", "why", "when", "where", "who", "which"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// looksLikeQuery keeps lines that could plausibly go into a search box.
func looksLikeQuery(line string) bool {
	if len(line) < 3 {
		return false
	}
	// Preamble lines introduce the list rather than belong to it
	return !strings.HasSuffix(line, ":")
}
