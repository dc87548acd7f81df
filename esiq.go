package esiq

import (
	"context"
	"errors"

	"github.com/hupe1980/esiq/cachestore"
	"github.com/hupe1980/esiq/chunk"
	"github.com/hupe1980/esiq/codec"
	"github.com/hupe1980/esiq/criteria"
	"github.com/hupe1980/esiq/dispatch"
	"github.com/hupe1980/esiq/esi"
	"github.com/hupe1980/esiq/model"
)

// Fetcher is the network boundary: one read per system id plus the id
// listing. Both may fail transiently; failures are per-call, not systemic.
type Fetcher interface {
	// SystemIDs lists every fetchable system id.
	SystemIDs(ctx context.Context) ([]model.SystemID, error)
	// System fetches one record by id.
	System(ctx context.Context, id model.SystemID) (*model.SolarSystem, error)
}

// Router is an optional Fetcher capability for route lookup and name
// resolution. The default ESI fetcher implements it.
type Router interface {
	Route(ctx context.Context, origin, destination model.SystemID) ([]model.SystemID, error)
	ResolveSystemName(ctx context.Context, name string) (model.SystemID, error)
}

// Scout retrieves, caches, and queries solar system records.
//
// All methods are safe for concurrent use. Scout never mutates remote
// state; fetches are idempotent reads.
type Scout struct {
	fetcher    Fetcher
	store      cachestore.Store
	dispatcher *dispatch.Dispatcher
	chunkSize  int
	logger     *Logger
}

// New creates a Scout. Without options it talks to public ESI and caches
// under "./esiq-cache" for 24h.
func New(optFns ...Option) (*Scout, error) {
	o := &options{
		cacheDir:  "esiq-cache",
		codec:     codec.Default,
		chunkSize: chunk.DefaultSize,
		logger:    NoopLogger(),
	}

	for _, fn := range optFns {
		fn(o)
	}

	if o.chunkSize <= 0 {
		return nil, &chunk.ConfigError{Field: "chunk size", Value: o.chunkSize}
	}

	store := o.store
	if store == nil {
		var err error
		store, err = cachestore.NewLocal(o.cacheDir,
			cachestore.WithTTL(o.ttl),
			cachestore.WithCodec(o.codec),
		)
		if err != nil {
			return nil, err
		}
	}

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = esi.New(esi.WithCodec(o.codec))
	}

	return &Scout{
		fetcher: fetcher,
		store:   store,
		dispatcher: dispatch.New(
			dispatch.WithMaxWorkers(o.maxWorkers),
			dispatch.WithProgress(o.onProgress),
		),
		chunkSize: o.chunkSize,
		logger:    o.logger,
	}, nil
}

// System returns one record, from cache when fresh, fetching and caching
// it otherwise.
func (s *Scout) System(ctx context.Context, id model.SystemID) (*model.SolarSystem, error) {
	if rec, err := s.store.Get(ctx, id); err == nil {
		return rec, nil
	} else if !errors.Is(err, cachestore.ErrMiss) {
		return nil, err
	}

	rec, err := s.fetcher.System(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, id, rec); err != nil {
		s.logger.LogCachePut(ctx, id, err)
	}
	return rec, nil
}

// Systems returns the full catalog: fresh cache entries merged with a
// chunked parallel fetch of the misses.
//
// The returned records are valid even when err is non-nil; in that case
// err aggregates the isolated failures of individual fetch jobs, whose
// items simply yield no record.
func (s *Scout) Systems(ctx context.Context) ([]*model.SolarSystem, error) {
	ids, err := s.fetcher.SystemIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.gather(ctx, ids)
}

// SearchAll returns every record satisfying the filter expression.
//
// A malformed filter fails synchronously, before any network activity. A
// well-formed filter that matches nothing returns an empty, nil-error
// result after a full scan.
func (s *Scout) SearchAll(ctx context.Context, filter string) ([]*model.SolarSystem, error) {
	plan, err := criteria.Parse(filter)
	if err != nil {
		s.logger.LogSearch(ctx, filter, 0, err)
		return nil, err
	}

	recs, err := s.Systems(ctx)
	if err != nil && recs == nil {
		return nil, err
	}

	matches := criteria.MatchAll(recs, plan)
	s.logger.LogSearch(ctx, filter, len(matches), nil)
	return matches, err
}

// SearchFirst returns one record satisfying the filter expression,
// scanning the cache first and then fetching chunk by chunk; the instant
// any fetch job yields a match, the remaining jobs are cooperatively
// cancelled. With near-simultaneous matches in sibling jobs the winner is
// arbitrary.
//
// A nil record with nil error means the scan completed without a match.
func (s *Scout) SearchFirst(ctx context.Context, filter string) (*model.SolarSystem, error) {
	plan, err := criteria.Parse(filter)
	if err != nil {
		s.logger.LogSearch(ctx, filter, 0, err)
		return nil, err
	}
	return s.searchFirst(ctx, filter, plan)
}

// SearchAllBy is SearchAll for a single explicit (property, operator,
// value) triple. Operand typing matches the filter-string surface.
func (s *Scout) SearchAllBy(ctx context.Context, property, op, value string) ([]*model.SolarSystem, error) {
	plan, err := criteria.ParseCriterion(property, op, value)
	if err != nil {
		return nil, err
	}

	recs, err := s.Systems(ctx)
	if err != nil && recs == nil {
		return nil, err
	}
	return criteria.MatchAll(recs, plan), err
}

// SearchFirstBy is SearchFirst for a single explicit triple.
func (s *Scout) SearchFirstBy(ctx context.Context, property, op, value string) (*model.SolarSystem, error) {
	plan, err := criteria.ParseCriterion(property, op, value)
	if err != nil {
		return nil, err
	}
	return s.searchFirst(ctx, property+" "+op+" "+value, plan)
}

// Route resolves two system names and returns the jump route between them
// as full records, served through the cache. The configured Fetcher must
// implement Router; the default ESI fetcher does.
func (s *Scout) Route(ctx context.Context, origin, destination string) ([]*model.SolarSystem, error) {
	router, ok := s.fetcher.(Router)
	if !ok {
		return nil, ErrRouteUnsupported
	}

	originID, err := router.ResolveSystemName(ctx, origin)
	if err != nil {
		return nil, err
	}
	destinationID, err := router.ResolveSystemName(ctx, destination)
	if err != nil {
		return nil, err
	}

	ids, err := router.Route(ctx, originID, destinationID)
	if err != nil {
		return nil, err
	}

	recs := make([]*model.SolarSystem, 0, len(ids))
	for _, id := range ids {
		rec, err := s.System(ctx, id)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// gather merges fresh cache hits for ids with a CollectAll dispatch over
// the misses.
func (s *Scout) gather(ctx context.Context, ids []model.SystemID) ([]*model.SolarSystem, error) {
	hits, misses, err := s.probeCache(ctx, ids)
	if err != nil {
		return nil, err
	}

	chunks, err := chunk.Partition(misses, s.chunkSize)
	if err != nil {
		return nil, err
	}

	fetched, err := s.dispatcher.Dispatch(ctx, chunks, s.fetchChunk(nil), dispatch.CollectAll)
	s.logger.LogGather(ctx, len(hits), len(misses), err)

	return append(hits, fetched...), err
}

func (s *Scout) searchFirst(ctx context.Context, filter string, plan *criteria.Plan) (*model.SolarSystem, error) {
	ids, err := s.fetcher.SystemIDs(ctx)
	if err != nil {
		return nil, err
	}

	hits, misses, err := s.probeCache(ctx, ids)
	if err != nil {
		return nil, err
	}

	// A fresh cached match wins without touching the network.
	if rec := criteria.MatchFirst(hits, plan); rec != nil {
		s.logger.LogSearch(ctx, filter, 1, nil)
		return rec, nil
	}

	chunks, err := chunk.Partition(misses, s.chunkSize)
	if err != nil {
		return nil, err
	}

	matches, err := s.dispatcher.Dispatch(ctx, chunks, s.fetchChunk(plan), dispatch.FirstMatch)
	if err != nil && matches == nil {
		s.logger.LogSearch(ctx, filter, 0, err)
		return nil, err
	}

	s.logger.LogSearch(ctx, filter, len(matches), nil)
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// probeCache splits ids into fresh cache hits and misses. Unreadable
// entries count as misses and trigger a refetch.
func (s *Scout) probeCache(ctx context.Context, ids []model.SystemID) ([]*model.SolarSystem, []model.SystemID, error) {
	var (
		hits   []*model.SolarSystem
		misses []model.SystemID
	)

	for _, id := range ids {
		rec, err := s.store.Get(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			misses = append(misses, id)
			continue
		}
		hits = append(hits, rec)
	}

	return hits, misses, nil
}

// fetchChunk returns the WorkFunc run by one job: a sequential visit of
// the chunk's ids with a cooperative cancellation check before each item.
// When plan is non-nil only matching records are reported, which is what
// arms the FirstMatch early exit.
func (s *Scout) fetchChunk(plan *criteria.Plan) dispatch.WorkFunc {
	return func(ctx context.Context, ids []model.SystemID) ([]*model.SolarSystem, error) {
		var out []*model.SolarSystem

		for _, id := range ids {
			// Fetches are idempotent reads, safe to abandon between
			// items once a sibling has matched.
			if err := ctx.Err(); err != nil {
				return out, err
			}

			rec, err := s.fetcher.System(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return out, ctx.Err()
				}
				// Item-level failure: isolated, the id just
				// yields no record.
				s.logger.LogFetch(ctx, id, err)
				continue
			}

			if err := s.store.Put(ctx, id, rec); err != nil {
				s.logger.LogCachePut(ctx, id, err)
			}

			if plan == nil {
				out = append(out, rec)
				continue
			}
			if plan.Matches(rec) {
				// Report the partial result at once; the rest of
				// the chunk is not needed to decide the search.
				return append(out, rec), nil
			}
		}

		return out, nil
	}
}
