// Package mapsource abstracts where map files come from: local disk, memory
// (tests), or object storage for fleet-wide map distribution. Compressed map
// files are handled transparently by extension.
package mapsource

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a map file does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Source is a read-only origin of map files.
type Source interface {
	// Open opens the named map file for reading. The caller closes the
	// returned reader.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
