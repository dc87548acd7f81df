package esiq

import (
	"time"

	"github.com/hupe1980/esiq/cachestore"
	"github.com/hupe1980/esiq/codec"
	"github.com/hupe1980/esiq/dispatch"
)

type options struct {
	fetcher    Fetcher
	store      cachestore.Store
	cacheDir   string
	ttl        time.Duration
	codec      codec.Codec
	chunkSize  int
	maxWorkers int
	onProgress dispatch.ProgressFunc
	logger     *Logger
}

// Option configures Scout construction.
type Option func(*options)

// WithFetcher replaces the ESI-backed fetcher, e.g. with a fake for tests
// or a mirror client.
func WithFetcher(f Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithCacheStore replaces the default file-backed cache store (e.g. with
// the S3 implementation). It takes precedence over WithCacheDir and
// WithTTL, which configure the default store only.
func WithCacheStore(s cachestore.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithCacheDir sets the directory of the default file-backed cache store.
func WithCacheDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.cacheDir = dir
		}
	}
}

// WithTTL sets the freshness window of the default cache store.
// Values <= 0 keep cachestore.DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithCodec configures the codec used for cached records and, when the
// default fetcher is constructed here, for response decoding.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithChunkSize bounds how many ids one fetch job works through
// sequentially. Values <= 0 fail construction with a config error.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithMaxWorkers bounds the number of concurrently running fetch jobs.
// Values <= 0 default to GOMAXPROCS.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// WithProgress installs an observability callback fired after each fetch
// job reaches a terminal state, with the terminal count and job total.
func WithProgress(fn dispatch.ProgressFunc) Option {
	return func(o *options) {
		o.onProgress = fn
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}
