package report

import (
	"fmt"
	"strings"
)

const reportSystemPrompt = `You are an expert researcher writing a final report.
Be highly organized, accurate, and thorough. Treat the provided learnings as
the ground truth for the report; do not invent facts beyond them. Use markdown
headings and write as much detail as the learnings support.`

const answerSystemPrompt = `You are an expert researcher answering a question.
Answer using only the provided learnings. Be as concise as possible, ideally
a single sentence or value. No preamble, no explanation.`

func buildReportPrompt(topic string, learnings []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a detailed report on the following topic:\n\n<topic>%s</topic>\n\n", topic)
	sb.WriteString("Here are all the learnings gathered by prior research:\n\n<learnings>\n")
	for _, l := range learnings {
		fmt.Fprintf(&sb, "<learning>\n%s\n</learning>\n", l)
	}
	sb.WriteString("</learnings>\n\nAim for 3 or more pages of markdown. Include ALL the learnings.")
	return sb.String()
}

func buildAnswerPrompt(topic string, learnings []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Answer the following question:\n\n<question>%s</question>\n\n", topic)
	sb.WriteString("Here are the learnings gathered by prior research:\n\n<learnings>\n")
	for _, l := range learnings {
		fmt.Fprintf(&sb, "<learning>\n%s\n</learning>\n", l)
	}
	sb.WriteString("</learnings>\n\nRespond in the format the question asks for, with nothing extra.")
	return sb.String()
}
