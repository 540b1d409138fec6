// Package cache stores fetched graphs, computed layouts and rendered
// artifacts behind a small byte-oriented interface.
//
// # Backends
//
//   - [FileCache]: sharded JSON files under ~/.cache/sgviz (CLI default)
//   - [RedisCache]: Redis with native expiry (server deployments)
//   - [MongoCache]: MongoDB collection with a TTL index
//   - [NullCache]: caching disabled
//
// [Open] selects a backend from a [Config].
//
// # Keys
//
// A [Keyer] derives keys for each pipeline stage. Layout keys hash the
// content hash of the graph with every option that affects the layout;
// artifact keys hash the layout hash with the render options:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(graphJSON), cache.LayoutKeyOpts{VizType: "bundle", Beta: 0.85})
//
// [ScopedKeyer] prefixes every key for shared backends.
//
// # Retries
//
// [RetryWithBackoff] retries errors wrapped with [Retryable] up to three
// times with exponential backoff. Remote sources use it for throttled or
// transient failures.
package cache
