// Package cache stores filtered token sequences in Redis, keyed by a hash of
// the language, punctuation mode, and input text. Filter and count requests
// for the same input share one entry.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const keyPrefix = "stopwords:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// Key identifies one cached result.
type Key struct {
	Language        string
	KeepPunctuation bool
	Text            string
}

// Result is what gets cached: the filtered tokens, from which counts are
// re-derived, and the raw token count.
type Result struct {
	Tokens      []string `json:"tokens"`
	InputTokens int      `json:"input_tokens"`
}

type ResultCache struct {
	store  Store
	ttl    time.Duration
	isMiss func(error) bool
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New builds a cache over store. isMiss tells a key-not-found error apart
// from a real failure.
func New(store Store, ttl time.Duration, isMiss func(error) bool) *ResultCache {
	return &ResultCache{
		store:  store,
		ttl:    ttl,
		isMiss: isMiss,
		logger: slog.Default().With("component", "result-cache"),
	}
}

func (c *ResultCache) Get(ctx context.Context, k Key) (*Result, bool) {
	key := buildKey(k)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !c.isMiss(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "language", k.Language, "key", key)
	return &result, true
}

func (c *ResultCache) Set(ctx context.Context, k Key, result *Result) {
	key := buildKey(k)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result for k, or runs computeFn once for
// all concurrent callers with the same key and caches its result. Errors are
// never cached.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	k Key,
	computeFn func() (*Result, error),
) (*Result, bool, error) {
	if result, ok := c.Get(ctx, k); ok {
		return result, true, nil
	}
	val, err, _ := c.group.Do(buildKey(k), func() (interface{}, error) {
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, k, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*Result), false, nil
}

func (c *ResultCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return deleted, nil
}

func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the text so arbitrarily long inputs map to short keys.
func buildKey(k Key) string {
	h := sha256.New()
	h.Write([]byte(k.Language))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(k.KeepPunctuation)))
	h.Write([]byte{0})
	h.Write([]byte(k.Text))
	return fmt.Sprintf("%s%x", keyPrefix, h.Sum(nil)[:16])
}
