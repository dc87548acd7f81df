package esiq

import (
	"errors"

	"github.com/hupe1980/esiq/cachestore"
	"github.com/hupe1980/esiq/chunk"
	"github.com/hupe1980/esiq/criteria"
)

var (
	// ErrMiss re-exports cachestore.ErrMiss for callers probing the
	// cache directly.
	ErrMiss = cachestore.ErrMiss

	// ErrRouteUnsupported is returned by Route when the configured
	// Fetcher does not implement the Router capability.
	ErrRouteUnsupported = errors.New("fetcher does not support route lookup")
)

// IsParseError reports whether err is a malformed-filter error. Parse
// failures are synchronous: no network activity has happened when one is
// returned, as opposed to a search that ran to completion with zero
// matches (nil result, nil error).
func IsParseError(err error) bool {
	var pe *criteria.ParseError
	return errors.As(err, &pe)
}

// IsConfigError reports whether err is a structural misconfiguration
// (e.g. a non-positive chunk size).
func IsConfigError(err error) bool {
	var ce *chunk.ConfigError
	return errors.As(err, &ce)
}
