// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package fetch provides the keyed GET cache shared by read paths.
//
// Entries are keyed by request path. At most one request per key is in flight
// at a time; concurrent readers of the same key share a single round trip.
// Stale entries are served immediately and refreshed in the background rather
// than blocking the caller on a revalidation.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc retrieves the raw JSON value for a key. The cache's default
// fetcher delegates to the API client.
type FetchFunc func(ctx context.Context, key string) (json.RawMessage, error)

// statusCoded is implemented by errors carrying an HTTP status. Failures with
// status 401 or 403 are never retried: a request against an expired or invalid
// token cannot succeed on a second attempt.
type statusCoded interface {
	HTTPStatus() int
}

const (
	defaultTTL     = 5 * time.Minute
	defaultRetries = 2
	retryBaseDelay = 500 * time.Millisecond
)

type entry struct {
	value     json.RawMessage
	fetchedAt time.Time
}

// Cache deduplicates and caches GET requests keyed by path.
type Cache struct {
	fetch   FetchFunc
	ttl     time.Duration
	retries int

	mu      sync.Mutex
	entries map[string]*entry
	sf      singleflight.Group
	nowFn   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the staleness window.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithRetries overrides how many times a retryable failure is reattempted.
func WithRetries(n int) Option {
	return func(c *Cache) { c.retries = n }
}

// New creates a cache whose misses are resolved through fetch.
func New(fetch FetchFunc, opts ...Option) *Cache {
	c := &Cache{
		fetch:   fetch,
		ttl:     defaultTTL,
		retries: defaultRetries,
		entries: map[string]*entry{},
		nowFn:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key, fetching it on a miss.
//
// A fresh entry is returned as-is. A stale entry is returned immediately and
// revalidated in the background, so readers see data without waiting on the
// refresh. Concurrent misses for the same key share one request.
func (c *Cache) Get(ctx context.Context, key string) (json.RawMessage, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	now := c.nowFn()
	c.mu.Unlock()

	if ok {
		if now.Sub(e.fetchedAt) < c.ttl {
			return e.value, nil
		}
		// Serve stale, refresh opportunistically.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_, _ = c.refresh(ctx, key)
		}()
		return e.value, nil
	}

	return c.refresh(ctx, key)
}

// GetJSON fetches key through the cache and unmarshals the value into v.
func (c *Cache) GetJSON(ctx context.Context, key string, v any) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// refresh fetches key (deduplicated across goroutines) and stores the result.
func (c *Cache) refresh(ctx context.Context, key string) (json.RawMessage, error) {
	v, err, _ := c.sf.Do(key, func() (any, error) {
		val, err := c.fetchWithRetry(ctx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = &entry{value: val, fetchedAt: c.nowFn()}
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

// fetchWithRetry applies the retry policy: transient failures are retried
// with linear backoff, authorization failures are not retried at all.
func (c *Cache) fetchWithRetry(ctx context.Context, key string) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBaseDelay):
			}
		}
		val, err := c.fetch(ctx, key)
		if err == nil {
			return val, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func retryable(err error) bool {
	var sc statusCoded
	if errors.As(err, &sc) {
		status := sc.HTTPStatus()
		if status == 401 || status == 403 {
			return false
		}
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// PurgeAll drops every entry without forcing re-fetches; the next read of
// each key goes back to the network. Logout calls this so a later login
// cannot be served another user's responses.
func (c *Cache) PurgeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*entry{}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
