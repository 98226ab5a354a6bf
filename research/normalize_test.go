package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTPS://Example.COM/Path", "https://example.com/Path"},
		{"strips www", "https://www.example.com/a", "https://example.com/a"},
		{"drops fragment", "https://example.com/a#section-2", "https://example.com/a"},
		{"strips tracking params", "https://example.com/article?utm_source=tw&utm_medium=social&id=7", "https://example.com/article?id=7"},
		{"strips click ids", "https://example.com/a?fbclid=abc&gclid=def", "https://example.com/a"},
		{"trims trailing slash", "https://example.com/path/", "https://example.com/path"},
		{"bare host and slash coincide", "https://example.com/", "https://example.com"},
		{"keeps meaningful params", "https://example.com/search?q=batteries", "https://example.com/search?q=batteries"},
		{"trims surrounding whitespace", "  https://example.com/a  ", "https://example.com/a"},
		{"unparseable input passes through", "not a url", "not a url"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestNormalizeURL_EquivalentFormsCollide(t *testing.T) {
	forms := []string{
		"https://www.Example.com/report/?utm_campaign=x",
		"https://example.com/report?utm_source=y",
		"HTTPS://EXAMPLE.COM/report#conclusion",
	}

	first := NormalizeURL(forms[0])
	for _, f := range forms[1:] {
		assert.Equal(t, first, NormalizeURL(f))
	}
}

func TestNormalizeFindingText(t *testing.T) {
	assert.Equal(t,
		"solid state batteries charge faster",
		NormalizeFindingText("  Solid   STATE\tbatteries\ncharge faster "))

	assert.Equal(t, "", NormalizeFindingText("   \t\n"))
}
