package cachestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hupe1980/esiq/codec"
	"github.com/hupe1980/esiq/model"
)

// Local implements Store backed by the local filesystem: one JSON file per
// system id under a root directory.
//
// Writes go through a temp file in the same directory followed by a rename,
// so a reader never observes a partially written entry and writers to
// different keys cannot interfere.
type Local struct {
	root  string
	ttl   time.Duration
	codec codec.Codec

	// now is swappable for expiry tests.
	now func() time.Time
}

// LocalOption configures a Local store.
type LocalOption func(*Local)

// WithTTL overrides the freshness window. Values <= 0 fall back to
// DefaultTTL.
func WithTTL(ttl time.Duration) LocalOption {
	return func(l *Local) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithCodec overrides the record codec. If nil is passed, codec.Default is
// used.
func WithCodec(c codec.Codec) LocalOption {
	return func(l *Local) {
		if c != nil {
			l.codec = c
		}
	}
}

// NewLocal creates a Local store rooted at dir, creating it if needed.
func NewLocal(dir string, optFns ...LocalOption) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	l := &Local{
		root:  dir,
		ttl:   DefaultTTL,
		codec: codec.Default,
		now:   time.Now,
	}

	for _, fn := range optFns {
		fn(l)
	}

	return l, nil
}

func (l *Local) path(id model.SystemID) string {
	return filepath.Join(l.root, fmt.Sprintf("%d.json", int32(id)))
}

// Get returns the fresh record for id, or ErrMiss. A stale entry is deleted
// as a side effect; an unreadable or corrupt entry is treated as a miss so
// the caller refetches.
func (l *Local) Get(ctx context.Context, id model.SystemID) (*model.SolarSystem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := l.path(id)

	info, err := os.Stat(path)
	if err != nil {
		return nil, ErrMiss
	}

	if l.now().Sub(info.ModTime()) > l.ttl {
		// Lazy invalidation: purge on read, no background sweep.
		_ = os.Remove(path)
		return nil, ErrMiss
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrMiss
	}

	var rec model.SolarSystem
	if err := l.codec.Unmarshal(data, &rec); err != nil {
		// Corrupt entry, drop it rather than serving garbage.
		_ = os.Remove(path)
		return nil, ErrMiss
	}

	return &rec, nil
}

// Put persists the record atomically, overwriting any prior entry for id.
func (l *Local) Put(ctx context.Context, id model.SystemID, rec *model.SolarSystem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := l.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(l.root, "tmp-rec-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, l.path(id))
}

// Invalidate removes the entry for id unconditionally.
func (l *Local) Invalidate(ctx context.Context, id model.SystemID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(l.path(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
