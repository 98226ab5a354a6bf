package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/smallnest/deepresearch/research"
)

const maxResponseBytes = 1 << 20

// Tavily searches the web through the Tavily API.
type Tavily struct {
	apiKey      string
	baseURL     string
	maxResults  int
	searchDepth string
	includeRaw  bool
	httpClient  *http.Client
}

var _ research.SearchProvider = (*Tavily)(nil)

type TavilyOption func(*Tavily)

// WithTavilyBaseURL sets the API endpoint.
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(t *Tavily) {
		t.baseURL = baseURL
	}
}

// WithTavilyMaxResults sets the number of results per query (minimum 1).
func WithTavilyMaxResults(n int) TavilyOption {
	return func(t *Tavily) {
		if n < 1 {
			n = 1
		}
		t.maxResults = n
	}
}

// WithTavilySearchDepth sets the search depth ("basic" or "advanced").
func WithTavilySearchDepth(depth string) TavilyOption {
	return func(t *Tavily) {
		t.searchDepth = depth
	}
}

// WithTavilyRawContent controls whether full page content is requested
// alongside the snippet.
func WithTavilyRawContent(include bool) TavilyOption {
	return func(t *Tavily) {
		t.includeRaw = include
	}
}

// WithTavilyHTTPClient sets the HTTP client.
func WithTavilyHTTPClient(client *http.Client) TavilyOption {
	return func(t *Tavily) {
		if client != nil {
			t.httpClient = client
		}
	}
}

// NewTavily creates a Tavily search provider.
// If apiKey is empty, it tries to read from TAVILY_API_KEY environment variable.
func NewTavily(apiKey string, opts ...TavilyOption) (*Tavily, error) {
	if apiKey == "" {
		apiKey = os.Getenv("TAVILY_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY not set")
	}

	t := &Tavily{
		apiKey:      apiKey,
		baseURL:     "https://api.tavily.com/search",
		maxResults:  5,
		searchDepth: "advanced",
		includeRaw:  true,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

type tavilyResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	RawContent string  `json:"raw_content"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// Search runs query against the Tavily API and maps the results to
// documents.
func (t *Tavily) Search(ctx context.Context, query string) ([]research.Document, error) {
	requestBody := map[string]any{
		"api_key":             t.apiKey,
		"query":               query,
		"max_results":         t.maxResults,
		"search_depth":        t.searchDepth,
		"include_answer":      false,
		"include_raw_content": t.includeRaw,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &APIError{
			Provider:   "tavily",
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var result tavilyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	docs := make([]research.Document, 0, len(result.Results))
	for _, r := range result.Results {
		if r.URL == "" {
			continue
		}
		docs = append(docs, research.Document{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Raw:     r.RawContent,
			Score:   r.Score,
		})
	}

	return docs, nil
}
