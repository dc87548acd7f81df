package esiq

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/esiq/model"
)

// Logger wraps slog.Logger with esiq-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. A nil handler
// falls back to text output on stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON lines to stderr at the
// given minimum level.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	// slog.DiscardHandler requires Go 1.24; this is its pre-1.24 equivalent.
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithSystemID adds a system id field to the logger.
func (l *Logger) WithSystemID(id model.SystemID) *Logger {
	return &Logger{
		Logger: l.Logger.With("system_id", int32(id)),
	}
}

// LogFetch logs one record fetch.
func (l *Logger) LogFetch(ctx context.Context, id model.SystemID, err error) {
	if err != nil {
		l.WarnContext(ctx, "fetch failed",
			"system_id", int32(id),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "fetch completed",
			"system_id", int32(id),
		)
	}
}

// LogCachePut logs a cache write failure. Successful writes are silent.
func (l *Logger) LogCachePut(ctx context.Context, id model.SystemID, err error) {
	if err != nil {
		l.WarnContext(ctx, "cache write failed",
			"system_id", int32(id),
			"error", err,
		)
	}
}

// LogGather logs one gather pass over the catalog.
func (l *Logger) LogGather(ctx context.Context, hits, misses int, err error) {
	if err != nil {
		l.WarnContext(ctx, "gather completed with failures",
			"cache_hits", hits,
			"cache_misses", misses,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "gather completed",
			"cache_hits", hits,
			"cache_misses", misses,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, filter string, matches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"filter", filter,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"filter", filter,
			"matches", matches,
		)
	}
}
