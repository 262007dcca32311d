package hdmap

import (
	"io"
	"log/slog"

	"github.com/yiliangbetter/hdmap/lanelet2"
	"github.com/yiliangbetter/hdmap/mapsource"
	"github.com/yiliangbetter/hdmap/store"
)

// MemoryConstraints bound what a single load may admit. A parsed map that
// exceeds any limit is discarded as a whole.
type MemoryConstraints struct {
	MaxMemoryBytes   uint64
	MaxLanes         int
	MaxTrafficLights int
	MaxTrafficSigns  int
}

// DefaultConstraints returns limits suitable for small embedded targets:
// 64 MiB, 10000 lanes, 5000 lights, 5000 signs.
func DefaultConstraints() MemoryConstraints {
	return MemoryConstraints{
		MaxMemoryBytes:   64 * 1024 * 1024,
		MaxLanes:         10000,
		MaxTrafficLights: 5000,
		MaxTrafficSigns:  5000,
	}
}

// RaspberryPiConstraints returns limits sized for a Raspberry Pi class
// device with a few hundred MiB to spare.
func RaspberryPiConstraints() MemoryConstraints {
	return MemoryConstraints{
		MaxMemoryBytes:   128 * 1024 * 1024,
		MaxLanes:         20000,
		MaxTrafficLights: 10000,
		MaxTrafficSigns:  10000,
	}
}

// MapParser turns raw map content into typed elements. The bundled
// implementation is lanelet2.Parser; any producer of typed records works.
type MapParser interface {
	Parse(r io.Reader, dst *store.Store) error
}

type options struct {
	constraints MemoryConstraints
	logger      *Logger
	parser      MapParser
	source      mapsource.Source
	ioLimit     int64
}

// Option configures MapServer constructor behavior.
type Option func(*options)

// WithConstraints configures the memory and element-count limits enforced
// during load.
func WithConstraints(c MemoryConstraints) Option {
	return func(o *options) {
		o.constraints = c
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithParser configures the map parser. If nil is passed, the bundled
// lanelet2 parser is used.
func WithParser(p MapParser) Option {
	return func(o *options) {
		if p == nil {
			p = lanelet2.NewParser()
		}
		o.parser = p
	}
}

// WithSource configures the map source used by LoadFromSource
// (local directory, in-memory, S3, MinIO).
func WithSource(s mapsource.Source) Option {
	return func(o *options) {
		o.source = s
	}
}

// WithIOLimit caps map read throughput in bytes per second. Zero disables
// throttling.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		constraints: DefaultConstraints(),
		logger:      NoopLogger(),
		parser:      lanelet2.NewParser(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
