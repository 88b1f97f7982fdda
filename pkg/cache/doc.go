// Package cache provides the in-process response cache for PoiskKino lookups.
//
// Each lookup kind (search, movie, season) gets its own typed Store, so a
// cached value always has the payload type of the request that produced it.
// Entries carry an absolute expiry and are evicted lazily: a stale entry is
// removed by the first Get that observes it. There is no background sweeper
// and nothing is persisted across restarts.
//
// # Basic Usage
//
//	searches := cache.NewStore[models.SearchResponse](cache.KindSearch)
//
//	key := cache.SearchKey(" Matrix ", 1999) // search:matrix:1999
//
//	if entry, ok := searches.Get(key); ok {
//		if entry.Negative() {
//			// confirmed absent, no network call needed
//		}
//		return entry.Value
//	}
//
//	// fetch, then
//	searches.Put(key, resp, cache.PositiveTTL)
//	// or, after a 404
//	searches.Put(key, nil, cache.NegativeTTL)
//
// # Keys
//
// Keys are prefixed by kind and never collide across kinds:
//
//   - search:<trimmed lower-cased title>[:<year>]
//   - movie:<id>
//   - season:<parent id>:<season number>
//
// # Metrics
//
//   - poiskkino_cache_hits_total{kind,result} - Fresh hits (result: positive, negative)
//   - poiskkino_cache_misses_total{kind} - Misses, stale entries included
//   - poiskkino_cache_evictions_total{kind} - Stale entries removed on lookup
//   - poiskkino_cache_entries{kind} - Stored entries
package cache
