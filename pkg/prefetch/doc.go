// Package prefetch warms the response cache for a batch of known items.
//
// Hosts that refresh a whole library know the PoiskKino ids up front. A Warmer
// feeds those ids to a small worker pool that calls the client, so later
// lookups for the same items are served from the cache. The client's request
// gate still admits one outbound call at a time; the pool only keeps the gate
// busy.
//
// Example usage:
//
//	w := prefetch.New(poiskkinoClient, prefetch.DefaultConfig())
//	report := w.Warm(ctx, apiKey, prefetch.Items(301, 464963)...)
//
// A rate-limited or unconfigured outcome stops the batch: remaining jobs are
// reported as skipped rather than sent.
package prefetch
