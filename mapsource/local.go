package mapsource

import (
	"context"
	"io"
	"path/filepath"
)

// Local implements Source over a directory on the local file system.
type Local struct {
	root string
}

// NewLocal creates a Local source rooted at the given directory.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Open opens a map file relative to the source root.
func (s *Local) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return openFile(filepath.Join(s.root, name))
}
