package crawler

import (
	"context"
	"sync"

	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

type cacheKey struct {
	id  domain.AccountID
	dir domain.Direction
}

// CacheStats summarizes cache usage over a run.
type CacheStats struct {
	Hits     int
	Misses   int
	Failures int
}

// Cache memoizes complete relationship lists per account and direction.
// Each key is fetched at most once per successful fetch; concurrent callers of
// the same key share one in-flight fetch. Failed fetches are never stored.
type Cache struct {
	fetcher  RelationshipFetcher
	metrics  ports.Metrics
	progress ports.Progress

	group singleflight.Group

	mu      sync.RWMutex
	entries map[cacheKey]domain.RelationshipList
	served  map[cacheKey]struct{}
	stats   CacheStats
}

// NewCache creates a new Cache in front of fetcher.
func NewCache(fetcher RelationshipFetcher, metrics ports.Metrics, progress ports.Progress) *Cache {
	return &Cache{
		fetcher:  fetcher,
		metrics:  metrics,
		progress: progress,
		entries:  make(map[cacheKey]domain.RelationshipList),
		served:   make(map[cacheKey]struct{}),
	}
}

// GetOrFetch returns the cached list for (id, dir), fetching and storing it first if absent.
func (c *Cache) GetOrFetch(
	ctx context.Context,
	id domain.AccountID,
	dir domain.Direction,
) (domain.RelationshipList, error) {
	key := cacheKey{id: id, dir: dir}

	if list, ok := c.lookup(key); ok {
		c.record(dir, true)
		c.markServed(ctx, key)
		return list, nil
	}

	v, err, _ := c.group.Do(dir.String()+"/"+id.String(), func() (any, error) {
		// Double-check: a flight for this key may have finished between
		// the lookup above and this call.
		if list, ok := c.lookup(key); ok {
			return list, nil
		}

		list, err := c.fetcher.FetchRelationships(ctx, id, dir)
		if err != nil {
			c.mu.Lock()
			c.stats.Failures++
			c.mu.Unlock()
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = list
		c.mu.Unlock()
		return list, nil
	})
	c.record(dir, false)
	if err != nil {
		return domain.RelationshipList{}, err
	}
	return v.(domain.RelationshipList), nil //nolint:forcetypeassert // only lists are stored in the group
}

// Peek returns the cached list for (id, dir) without fetching.
func (c *Cache) Peek(id domain.AccountID, dir domain.Direction) (domain.RelationshipList, bool) {
	return c.lookup(cacheKey{id: id, dir: dir})
}

// Len returns the number of cached lists.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the current cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *Cache) lookup(key cacheKey) (domain.RelationshipList, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.entries[key]
	return list, ok
}

// markServed records a cached vertex the first time a key is served from the
// store, so the progress tape shows reuse without one vertex per pair lookup.
func (c *Cache) markServed(ctx context.Context, key cacheKey) {
	c.mu.Lock()
	_, seen := c.served[key]
	c.served[key] = struct{}{}
	c.mu.Unlock()
	if seen {
		return
	}
	c.progress.Record(ctx, key.dir.String()+" of "+key.id.String()).Cached()
}

func (c *Cache) record(dir domain.Direction, hit bool) {
	c.mu.Lock()
	if hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()
	c.metrics.CacheLookup(dir, hit)
}
