package search

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/deepresearch/log"
	"github.com/smallnest/deepresearch/research"
)

// Cached wraps a search provider with a Redis-backed response cache.
// Cache failures never fail a search: a broken or unreachable backend
// degrades to calling the wrapped provider directly.
type Cached struct {
	provider research.SearchProvider
	client   *redis.Client
	prefix   string
	ttl      time.Duration
	logger   log.Logger
}

var _ research.SearchProvider = (*Cached)(nil)

// CacheOptions configuration for the Redis connection
type CacheOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "deepresearch:search:"
	TTL      time.Duration // Expiration for cached responses, default 0 (no expiration)
	Logger   log.Logger
}

// NewCached creates a caching decorator around provider.
func NewCached(provider research.SearchProvider, opts CacheOptions) (*Cached, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "deepresearch:search:"
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}

	return &Cached{
		provider: provider,
		client:   client,
		prefix:   prefix,
		ttl:      opts.TTL,
		logger:   logger,
	}, nil
}

func (c *Cached) key(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("%s%x", c.prefix, sum)
}

// Search returns the cached response for query when one exists, otherwise
// calls the wrapped provider and stores its results.
func (c *Cached) Search(ctx context.Context, query string) ([]research.Document, error) {
	key := c.key(query)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var docs []research.Document
		if err := json.Unmarshal(data, &docs); err == nil {
			c.logger.Debug("search cache hit for %q", query)
			return docs, nil
		}
		c.logger.Warn("search cache entry for %q is corrupt, refetching", query)
	} else if err != redis.Nil {
		c.logger.Warn("search cache get failed: %v", err)
	}

	docs, err := c.provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(docs); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("search cache set failed: %v", err)
		}
	}

	return docs, nil
}

// Close releases the Redis connection.
func (c *Cached) Close() error {
	return c.client.Close()
}
