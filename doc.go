// Package esiq retrieves, caches, and queries the EVE Online solar system
// catalog (~8,000 records) exposed by ESI.
//
// # Quick Start
//
//	ctx := context.Background()
//	scout, _ := esiq.New(esiq.WithCacheDir("./cache"))
//
//	// Fetch everything (cache-first, chunked parallel fetch).
//	systems, _ := scout.Systems(ctx)
//
//	// Conjunctive criteria search over the full catalog.
//	hubs, _ := scout.SearchAll(ctx, "stations gt 10, security ge 0.5")
//
//	// Early-exit search: cancels remaining fetch jobs on the first hit.
//	jita, _ := scout.SearchFirst(ctx, `name eq "Jita"`)
//
// # Caching
//
// Each record is persisted as one durable unit addressed by its system id;
// entries older than 24h (configurable) are purged lazily on read and
// refetched. Swap the backing store with WithCacheStore, e.g. the S3
// implementation in cachestore/s3.
//
// # Concurrency
//
// Cache misses are partitioned into bounded chunks and fetched by a pool
// of concurrent jobs. A failed job never aborts its siblings; its items
// simply yield no record. Result order across jobs is unspecified.
package esiq
