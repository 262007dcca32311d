package hdmap

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with hdmap-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithMap adds a map name field to the logger.
func (l *Logger) WithMap(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("map", name),
	}
}

// LogLoad logs the outcome of a map load.
func (l *Logger) LogLoad(ctx context.Context, name string, lanes, lights, signs int, memory uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "map load failed",
			"map", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "map load completed",
			"map", name,
			"lanes", lanes,
			"traffic_lights", lights,
			"traffic_signs", signs,
			"memory_bytes", memory,
		)
	}
}

// LogQuery logs a spatial query.
func (l *Logger) LogQuery(ctx context.Context, kind string, results int) {
	l.DebugContext(ctx, "query completed",
		"kind", kind,
		"results", results,
	)
}

// LogClear logs a server reset.
func (l *Logger) LogClear(ctx context.Context) {
	l.InfoContext(ctx, "map cleared")
}
