// Package search provides web search providers for the research engine.
//
// Tavily and Brave clients implement research.SearchProvider, and Cached
// wraps any provider with a Redis-backed response cache. All clients read
// their API key from an environment variable when one is not passed
// explicitly, accept functional options, and return *APIError for non-2xx
// responses so retry policies can tell transient failures from permanent
// ones. Auth failures additionally match ErrUnauthorized and ErrForbidden
// via errors.Is.
package search
