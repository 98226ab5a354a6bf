package compat

import (
	"net/http"
	"os"

	"github.com/tmc/langchaingo/callbacks"
)

// ModelName represents the model identifier sent to the API.
// Any string works against a compatible endpoint; the constants below cover
// the common hosted choices.
type ModelName string

const (
	// OpenAI
	ModelNameGPT4o     ModelName = "gpt-4o"       // 128k context
	ModelNameGPT4oMini ModelName = "gpt-4o-mini"  // 128k context, low cost
	ModelNameGPT41     ModelName = "gpt-4.1"      // 1m context
	ModelNameGPT41Mini ModelName = "gpt-4.1-mini" // 1m context, low cost
	ModelNameGPT41Nano ModelName = "gpt-4.1-nano" // 1m context, fastest
	ModelNameO3        ModelName = "o3"           // reasoning
	ModelNameO3Mini    ModelName = "o3-mini"      // reasoning, low cost
	ModelNameO4Mini    ModelName = "o4-mini"      // reasoning, low cost

	// DeepSeek (set base URL to https://api.deepseek.com)
	ModelNameDeepSeekChat     ModelName = "deepseek-chat"     // 64k context
	ModelNameDeepSeekReasoner ModelName = "deepseek-reasoner" // 64k context, reasoning

	// Deprecated: Use ModelNameGPT4oMini
	ModelNameGPT35Turbo ModelName = "gpt-3.5-turbo"
)

type options struct {
	apiKey           string
	modelName        ModelName
	baseURL          string
	httpClient       *http.Client
	callbacksHandler callbacks.Handler
}

// Option is a function that configures an LLM.
type Option func(*options)

// WithAPIKey sets the API key for the LLM.
func WithAPIKey(apiKey string) Option {
	return func(opts *options) {
		opts.apiKey = apiKey
	}
}

// WithModel sets the model name for the LLM.
func WithModel(model ModelName) Option {
	return func(opts *options) {
		opts.modelName = model
	}
}

// WithBaseURL sets the base URL for the LLM API.
// Default is OpenAI's endpoint; set this to talk to any compatible
// provider.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the LLM.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

// WithCallbacks sets the callbacks handler for the LLM.
func WithCallbacks(handler callbacks.Handler) Option {
	return func(opts *options) {
		opts.callbacksHandler = handler
	}
}

// getEnvOrDefault retrieves an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
