package content

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// Sanitize strips dangerous markup from untrusted HTML. Script and style
// bodies are dropped entirely; text inside disallowed tags is kept.
func Sanitize(raw string) string {
	return ugcPolicy.Sanitize(raw)
}

// FromHTML extracts the readable text of an HTML document. Script, style
// and chrome elements are removed first.
func FromHTML(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, iframe, nav, header, footer").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		// Fragments have no body element
		text = doc.Text()
	}
	return CollapseWhitespace(text), nil
}

// FromMarkdown flattens markdown to plain text by walking the parsed AST
// and keeping only text and code literals.
func FromMarkdown(raw string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(raw))

	var sb strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				sb.Write(n.Literal)
				sb.WriteByte(' ')
			}
		case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.TableCell, *ast.BlockQuote:
			// Block boundaries separate words that would otherwise touch
			if !entering {
				sb.WriteByte(' ')
			}
		}
		return ast.GoToNext
	})
	return CollapseWhitespace(sb.String())
}

// Extract converts a raw payload into clean text, detecting HTML versus
// markdown. Unrecognized payloads go through the markdown path, which
// degrades to plain text cleanly.
func Extract(raw string) string {
	if LooksLikeHTML(raw) {
		if text, err := FromHTML(Sanitize(raw)); err == nil && text != "" {
			return text
		}
	}
	return FromMarkdown(raw)
}

// LooksLikeHTML reports whether the payload is more plausibly an HTML
// document than markdown or plain text.
func LooksLikeHTML(raw string) bool {
	head := strings.ToLower(raw)
	if len(head) > 512 {
		head = head[:512]
	}
	for _, marker := range []string{"<!doctype html", "<html", "<body", "<div", "<p>", "<article"} {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}

// Clip truncates s to at most max runes. max <= 0 means no limit.
func Clip(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// CollapseWhitespace reduces all whitespace runs to single spaces and trims
// the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
