package mapsource

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Memory is an in-memory Source, primarily for tests.
// Thread-safe for concurrent reads and writes.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{
		files: make(map[string][]byte),
	}
}

// Put stores a map file under the given name.
func (m *Memory) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	m.files[name] = copied
}

// Open opens a stored map file.
func (m *Memory) Open(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[name]
	if !ok {
		return nil, ErrNotFound
	}

	// Copy to prevent mutation while the reader is in use.
	copied := make([]byte, len(data))
	copy(copied, data)

	return io.NopCloser(bytes.NewReader(copied)), nil
}
