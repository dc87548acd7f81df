// Package cachestore provides durable, keyed storage for fetched solar
// system records with a freshness window.
//
// Entries are addressed purely by system id. Freshness is derived from the
// storage unit's own last-modification time; an entry older than the
// configured TTL is purged lazily on read and reported as a miss. There is
// no background sweep.
package cachestore

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/esiq/model"
)

// ErrMiss is returned by Get when no fresh entry exists for the key.
//
// Implementations must return an error that satisfies
// `errors.Is(err, ErrMiss)` for absent, stale, and unreadable entries alike;
// all three trigger a refetch.
var ErrMiss = errors.New("cache miss")

// DefaultTTL is the freshness window used when none is configured.
const DefaultTTL = 24 * time.Hour

// Store is the cache contract consumed by the orchestrator.
//
// Keys are independent: implementations must tolerate concurrent Puts to
// different keys, and concurrent Gets against concurrent Puts, without
// corruption. Concurrent writers to the same key are not required to be
// serialized (the orchestrator never produces them).
type Store interface {
	// Get returns the fresh record for id, or ErrMiss.
	Get(ctx context.Context, id model.SystemID) (*model.SolarSystem, error)
	// Put persists the record, stamping the current time as its freshness
	// marker. Any prior entry for id is overwritten.
	Put(ctx context.Context, id model.SystemID, rec *model.SolarSystem) error
	// Invalidate removes the entry for id unconditionally. Removing an
	// absent entry is not an error.
	Invalidate(ctx context.Context, id model.SystemID) error
}
