package research

import (
	"net/url"
	"strings"
)

// Tracking parameters stripped during URL normalization.
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"fbclid", "gclid", "msclkid", "ref", "source",
}

// NormalizeURL canonicalizes a URL for deduplication: scheme and host are
// lowercased, a leading "www." is removed, the fragment is dropped, known
// tracking parameters are stripped and a trailing path slash is trimmed.
// Unparseable input is returned trimmed but otherwise untouched so it can
// still participate in exact-match dedup.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for _, p := range trackingParams {
			q.Del(p)
		}
		u.RawQuery = q.Encode()
	}

	// A bare host and a bare host with "/" are the same resource.
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

// NormalizeFindingText reduces finding text to its deduplication identity:
// lowercased with all whitespace runs collapsed to single spaces.
func NormalizeFindingText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
