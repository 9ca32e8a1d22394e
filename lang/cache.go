package lang

import (
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// Cache memoizes parsed expressions keyed by a hash of their source
// text. The surrounding application re-parses the active style
// expression on every adjustment, so parse results are worth keeping;
// ASTs are immutable, making a shared result safe to hand out.
//
// The cache is an explicit value, not a package singleton: independent
// engine instances hold independent caches. Only successful parses are
// stored, and nothing persists beyond process lifetime.
type Cache struct {
	entries sync.Map // uint64 → Node
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewCache returns an empty parse cache.
func NewCache() *Cache {
	return &Cache{}
}

// Parse returns the AST for source, parsing it leniently on first use.
func (c *Cache) Parse(src string) (Node, error) {
	return c.parse(src, false)
}

// ParseStrict is the strict-tokenizer variant of [Cache.Parse]. Strict
// and lenient results are cached under distinct keys.
func (c *Cache) ParseStrict(src string) (Node, error) {
	return c.parse(src, true)
}

func (c *Cache) parse(src string, strict bool) (Node, error) {
	key := xxh3.HashString(src)
	if strict {
		key = xxh3.HashString(src + "\x00strict")
	}

	if cached, ok := c.entries.Load(key); ok {
		c.hits.Add(1)

		return cached.(Node), nil
	}

	c.misses.Add(1)

	var (
		node Node
		err  error
	)

	if strict {
		node, err = ParseStrict(src)
	} else {
		node, err = Parse(src)
	}

	if err != nil {
		return nil, err
	}

	actual, _ := c.entries.LoadOrStore(key, node)

	return actual.(Node), nil
}

// Stats returns the cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
