package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Battery Report</title>
	<script>console.log('tracking');</script>
	<style>body { color: blue; }</style>
</head>
<body>
	<nav>Home | About</nav>
	<h1>Solid State Progress</h1>
	<p>Energy density reached 400 Wh/kg in 2024.</p>
	<script>alert('popup');</script>
	<footer>Copyright 2024</footer>
</body>
</html>`

func TestFromHTML(t *testing.T) {
	text, err := FromHTML(samplePage)
	require.NoError(t, err)

	assert.Contains(t, text, "Solid State Progress")
	assert.Contains(t, text, "Energy density reached 400 Wh/kg in 2024.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: blue")
	assert.NotContains(t, text, "Home | About")
	assert.NotContains(t, text, "Copyright")
}

func TestFromHTML_Fragment(t *testing.T) {
	text, err := FromHTML(`<p>Just a <strong>fragment</strong>.</p>`)
	require.NoError(t, err)
	assert.Equal(t, "Just a fragment.", text)
}

func TestSanitize(t *testing.T) {
	out := Sanitize(`<p>Keep me</p><script>steal()</script><a href="javascript:x()">bad link</a>`)

	assert.Contains(t, out, "Keep me")
	assert.NotContains(t, out, "steal()")
	assert.NotContains(t, out, "javascript:")
}

func TestFromMarkdown(t *testing.T) {
	md := `# Heading

Some *emphasized* text with a [link](https://example.com).

- bullet one
- bullet two

` + "```go\nfmt.Println(\"code\")\n```"

	text := FromMarkdown(md)

	assert.Contains(t, text, "Heading")
	assert.Contains(t, text, "Some emphasized text with a link")
	assert.Contains(t, text, "bullet one")
	assert.Contains(t, text, `fmt.Println("code")`)
	assert.NotContains(t, text, "](")
	assert.NotContains(t, text, "#")
}

func TestExtract_DetectsFormat(t *testing.T) {
	htmlText := Extract(samplePage)
	assert.Contains(t, htmlText, "Energy density reached 400 Wh/kg in 2024.")
	assert.NotContains(t, htmlText, "console.log")

	mdText := Extract("## Results\n\nThroughput **doubled**.")
	assert.Contains(t, mdText, "Results")
	assert.Contains(t, mdText, "Throughput doubled.")

	plain := Extract("just a plain sentence")
	assert.Equal(t, "just a plain sentence", plain)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "hello", Clip("hello", 10))
	assert.Equal(t, "hel", Clip("hello", 3))
	assert.Equal(t, "hello", Clip("hello", 0), "zero means no limit")
	assert.Equal(t, "hello", Clip("hello", -1))

	// Rune-bounded, never splits a multibyte character
	clipped := Clip("héllo wörld", 4)
	assert.Equal(t, "héll", clipped)
	assert.True(t, strings.HasPrefix("héllo wörld", clipped))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a\t\tb\n\nc  "))
	assert.Equal(t, "", CollapseWhitespace(" \n\t "))
}
