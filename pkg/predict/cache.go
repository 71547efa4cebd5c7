package predict

import (
	"sync"
	"sync/atomic"

	"github.com/bastiangx/wordpredict/pkg/ngram"
)

type cacheEntry struct {
	ranked   []WordProb
	complete bool // ranked covers the whole vocabulary
}

// Cache memoizes rankings per context. An entry keeps the longest ranking
// computed for its context, so any shorter request is served as a prefix
// of it. Entries are never invalidated.
type Cache struct {
	entries map[ngram.Key]cacheEntry
	hits    atomic.Int64
	misses  atomic.Int64
	mu      sync.RWMutex
}

// NewCache creates an empty prediction cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[ngram.Key]cacheEntry)}
}

// Get returns the first k entries cached for key, if the cache holds enough.
func (c *Cache) Get(key ngram.Key, k int) ([]WordProb, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || (len(e.ranked) < k && !e.complete) {
		return nil, false
	}
	if k > len(e.ranked) {
		k = len(e.ranked)
	}
	return e.ranked[:k:k], true
}

// Put stores ranked for key unless the held entry already covers it: a
// complete entry is never replaced, and an incomplete one only gives way
// to a longer or a complete ranking.
func (c *Cache) Put(key ngram.Key, ranked []WordProb, complete bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && (e.complete || (!complete && len(e.ranked) >= len(ranked))) {
		return
	}
	c.entries[key] = cacheEntry{ranked: ranked, complete: complete}
}

// GetOrCompute returns the cached ranking for key or computes and stores it.
// compute reports whether its result covers the whole vocabulary.
func (c *Cache) GetOrCompute(key ngram.Key, k int, compute func() ([]WordProb, bool, error)) ([]WordProb, error) {
	if ranked, ok := c.Get(key, k); ok {
		c.hits.Add(1)
		return ranked, nil
	}
	c.misses.Add(1)

	ranked, complete, err := compute()
	if err != nil {
		return nil, err
	}
	c.Put(key, ranked, complete)
	return ranked[:len(ranked):len(ranked)], nil
}

// Len returns the number of cached contexts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Stats() map[string]int {
	return map[string]int{
		"cacheContexts": c.Len(),
		"cacheHits":     int(c.hits.Load()),
		"cacheMisses":   int(c.misses.Load()),
	}
}
