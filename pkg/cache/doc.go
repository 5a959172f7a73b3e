// Package cache stores computed layouts and renders.
//
// [Cache] is a minimal byte store with per-entry TTL. Four backends ship:
// [FileCache] for the CLI (one JSON file per entry under the XDG cache
// directory), [RedisCache] and [MongoCache] for the HTTP service, and
// [NullCache] when caching is disabled. [Open] picks one by name.
//
// Keys come from a [Keyer]. The default keyer hashes the input hash
// together with every option that affects the artifact, so changing an
// option never returns a stale entry. [ScopedKeyer] prefixes keys per
// namespace.
//
// Remote backends verify connectivity with [RetryWithBackoff]; only errors
// wrapped with [Retryable] are retried.
package cache
