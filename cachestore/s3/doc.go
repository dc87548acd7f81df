// Package s3 provides an S3 implementation of the cachestore.Store
// interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("systems/"),
//	    s3.WithTTL(12*time.Hour),
//	)
//
//	scout, err := esiq.New(esiq.WithCacheStore(store))
//
// Freshness comes from the object's LastModified timestamp, so entries
// written by other processes against the same bucket age out consistently.
package s3
