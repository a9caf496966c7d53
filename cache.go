package weave

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/weavetpl/weave/internal/wlog"
	"github.com/weavetpl/weave/registry"
	"github.com/weavetpl/weave/value"
)

// CallbackCacheConfig configures CallbackCache's eviction and caching
// policy.
type CallbackCacheConfig struct {
	TTL                time.Duration
	MaxEntries         int
	CacheVoidCallbacks bool
}

// DefaultCallbackCacheConfig matches the original engine's defaults: a
// five second TTL, ten thousand entries, and no caching of null results
// (null usually means "nothing to cache", not "the answer is null").
func DefaultCallbackCacheConfig() CallbackCacheConfig {
	return CallbackCacheConfig{
		TTL:        5 * time.Second,
		MaxEntries: 10000,
	}
}

type cacheEntry struct {
	key    string
	value  value.Value
	expiry time.Time
}

// CallbackCache is a thread-safe LRU+TTL cache of host-callback results,
// keyed by function name and serialized arguments. Concurrent misses for
// the same key are collapsed with singleflight so a thundering herd of
// identical calls only runs the callback once.
type CallbackCache struct {
	mu        sync.Mutex
	cfg       CallbackCacheConfig
	entries   map[string]*list.Element
	lru       *list.List
	predicate func(name string) bool

	group singleflight.Group

	hits, misses, evictions uint64
}

// NewCallbackCache constructs a cache with the given configuration.
func NewCallbackCache(cfg CallbackCacheConfig) *CallbackCache {
	return &CallbackCache{
		cfg:     cfg,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// SetCachePredicate restricts caching to functions for which predicate
// returns true. A nil predicate (the default) caches every function.
func (c *CallbackCache) SetCachePredicate(predicate func(name string) bool) {
	c.predicate = predicate
}

func makeCacheKey(name string, args []value.Value) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(':')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.Dump())
	}
	return b.String()
}

func (c *CallbackCache) tryGet(key string) (value.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return value.Null(), false
	}
	entry := el.Value.(*cacheEntry)
	if time.Now().After(entry.expiry) {
		c.removeLocked(el)
		c.misses++
		return value.Null(), false
	}
	c.hits++
	return entry.value, true
}

func (c *CallbackCache) put(key string, v value.Value) {
	if !c.cfg.CacheVoidCallbacks && v.Kind() == value.KindNull {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	expiry := time.Now().Add(c.cfg.TTL)
	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.value = v
		entry.expiry = expiry
		c.lru.MoveToFront(el)
		return
	}

	if c.cfg.MaxEntries > 0 {
		for len(c.entries) >= c.cfg.MaxEntries {
			back := c.lru.Back()
			if back == nil {
				break
			}
			evicted := back.Value.(*cacheEntry).key
			c.removeLocked(back)
			c.evictions++
			wlog.Debug("callback cache eviction", "key", evicted, "max_entries", c.cfg.MaxEntries)
		}
	}

	el := c.lru.PushFront(&cacheEntry{key: key, value: v, expiry: expiry})
	c.entries[key] = el
}

func (c *CallbackCache) removeLocked(el *list.Element) {
	entry := el.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.lru.Remove(el)
}

// Clear removes every cached entry.
func (c *CallbackCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// Invalidate removes every cached entry for the given function name,
// across all argument combinations. It returns the number removed.
func (c *CallbackCache) Invalidate(name string) int {
	prefix := name + ":"
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for el := c.lru.Front(); el != nil; {
		next := el.Next()
		if strings.HasPrefix(el.Value.(*cacheEntry).key, prefix) {
			c.removeLocked(el)
			removed++
		}
		el = next
	}
	return removed
}

// Stats reports hit/miss/eviction counters since the last ResetStats.
type CallbackCacheStats struct {
	Hits, Misses, Evictions uint64
}

func (c *CallbackCache) Stats() CallbackCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CallbackCacheStats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions}
}

func (c *CallbackCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits, c.misses, c.evictions = 0, 0, 0
}

// Size returns the current entry count.
func (c *CallbackCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// HitRate returns hits / (hits + misses), or 0 if nothing has been
// looked up yet.
func (c *CallbackCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// Wrap turns fn into a caching registry.Callback: identical (name, args)
// calls within the TTL window are served from cache, and concurrent
// misses for the same key are collapsed into a single underlying call.
func (c *CallbackCache) Wrap(name string, fn registry.Callback) registry.Callback {
	return func(args []value.Value) (value.Value, error) {
		if c.predicate != nil && !c.predicate(name) {
			return fn(args)
		}
		key := makeCacheKey(name, args)
		if v, ok := c.tryGet(key); ok {
			return v, nil
		}
		result, err, _ := c.group.Do(key, func() (any, error) {
			v, err := fn(args)
			if err != nil {
				return value.Null(), err
			}
			c.put(key, v)
			return v, nil
		})
		if err != nil {
			return value.Null(), err
		}
		return result.(value.Value), nil
	}
}

// AddCachedFunction registers fn like AddFunction, wrapped through the
// Environment's CallbackCache so repeated calls within the TTL window
// skip re-invoking fn.
func (env *Environment) AddCachedFunction(name string, arity int, fn registry.Callback) {
	env.AddFunction(name, arity, env.cache.Wrap(name, fn))
}

// Cache returns the Environment's callback cache, for adjusting its
// predicate or reading its statistics.
func (env *Environment) Cache() *CallbackCache { return env.cache }
