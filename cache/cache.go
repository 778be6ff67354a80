// Package cache is the per-identity read-through cache that sits in front of the
// persistence client.
//
// Entries are keyed by (identity, family, scope). Concurrent misses for one key share a
// single load. Values are copied on the way in and out through the clone function given to
// New, so callers never alias cached slices. The cache holds at most MaxEntries values and
// each expires TTL after it was last written, so the next read goes back to the loader.
//
// Thread Safety:
//
//	Cache is safe for concurrent use. Update runs its function under the write lock, which
//	makes read-modify-write of one entry atomic.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMaxEntries = 10000
	DefaultTTL        = 15 * time.Minute
)

// Key scopes an entry to one caller. Identity is a user id or "anon:<session id>"; Scope
// narrows a family, for example the date of a daily nutrition log.
type Key struct {
	Identity string
	Family   string
	Scope    string
}

func (k Key) String() string {
	return k.Identity + "|" + k.Family + "|" + k.Scope
}

// Source tells where a value returned by GetOrLoad came from.
type Source string

const (
	SourceCache   Source = "hit"
	SourceLoaded  Source = "loaded"
	SourceDefault Source = "default"
)

// Loader fetches the value of a key. found=false with a nil error means the backend has no
// data for it.
type Loader[V any] func(ctx context.Context) (value V, found bool, err error)

type Cache[V any] struct {
	// mu serializes writers so Update is atomic; the LRU has its own lock for reads.
	mu      sync.RWMutex
	entries *expirable.LRU[Key, V]
	flight  singleflight.Group
	clone   func(V) V
}

type settings struct {
	maxEntries int
	ttl        time.Duration
}

type Option func(*settings)

// WithMaxEntries bounds the number of cached values; the least recently used goes first.
// Zero or less means unbounded.
func WithMaxEntries(n int) Option {
	return func(s *settings) { s.maxEntries = n }
}

// WithTTL sets how long a written value stays. Zero or less means values never expire.
func WithTTL(d time.Duration) Option {
	return func(s *settings) { s.ttl = d }
}

// New returns an empty cache. clone may be nil for values without reference fields.
func New[V any](clone func(V) V, opts ...Option) *Cache[V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	cfg := settings{maxEntries: DefaultMaxEntries, ttl: DefaultTTL}
	for _, o := range opts {
		o(&cfg)
	}
	size := cfg.maxEntries
	if size < 0 {
		size = 0
	}
	return &Cache[V]{entries: expirable.NewLRU[Key, V](size, nil, cfg.ttl), clone: clone}
}

func (c *Cache[V]) Get(key Key) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries.Get(key)
	if !ok {
		return v, false
	}
	return c.clone(v), true
}

func (c *Cache[V]) Set(key Key, v V) {
	c.mu.Lock()
	c.entries.Add(key, c.clone(v))
	c.mu.Unlock()
}

// Len is the number of live entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

// Update replaces the entry with fn(current). found reports whether the key was present.
// When fn fails the entry is left untouched. It returns the value before and after.
func (c *Cache[V]) Update(key Key, fn func(current V, found bool) (V, error)) (prev, next V, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, found := c.entries.Get(key)
	if found {
		cur = c.clone(cur)
	}
	prev = c.clone(cur)
	next, err = fn(cur, found)
	if err != nil {
		return prev, prev, err
	}
	c.entries.Add(key, c.clone(next))
	return prev, c.clone(next), nil
}

func (c *Cache[V]) Invalidate(key Key) {
	c.mu.Lock()
	c.entries.Remove(key)
	c.mu.Unlock()
}

// InvalidateIdentity drops every entry of identity, whatever its family or scope.
func (c *Cache[V]) InvalidateIdentity(identity string) {
	c.mu.Lock()
	for _, k := range c.entries.Keys() {
		if k.Identity == identity {
			c.entries.Remove(k)
		}
	}
	c.mu.Unlock()
}

// GetOrLoad returns the cached value of key, or loads it. A load that finds nothing caches
// and returns fallback(). A load error is returned as is and nothing is cached.
//
// The load runs detached from ctx cancellation because its result is shared with every
// caller waiting on the same key.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key Key, load Loader[V], fallback func() V) (V, Source, error) {
	if v, ok := c.Get(key); ok {
		return v, SourceCache, nil
	}

	type result struct {
		value  V
		source Source
	}
	res, err, _ := c.flight.Do(key.String(), func() (any, error) {
		if v, ok := c.Get(key); ok {
			return result{v, SourceCache}, nil
		}
		value, found, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		source := SourceLoaded
		if !found {
			source = SourceDefault
		}
		value = Resolve(value, found, nil, fallback)

		c.mu.Lock()
		defer c.mu.Unlock()
		// a mutation that landed while loading wins over the loaded value
		if cur, ok := c.entries.Get(key); ok {
			return result{c.clone(cur), SourceCache}, nil
		}
		c.entries.Add(key, c.clone(value))
		return result{value, source}, nil
	})
	if err != nil {
		var zero V
		return zero, "", err
	}
	r := res.(result)
	return c.clone(r.value), r.source, nil
}

// Resolve is the nullable-with-default rule: value when it was found without error,
// otherwise fallback().
func Resolve[V any](value V, found bool, err error, fallback func() V) V {
	if err != nil || !found {
		return fallback()
	}
	return value
}
