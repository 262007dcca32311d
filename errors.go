package hdmap

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSource is returned by LoadFromSource when no map source is configured.
	ErrNoSource = errors.New("no map source configured")
)

// ConstraintKind identifies which memory constraint a load violated.
type ConstraintKind int

const (
	ConstraintLanes ConstraintKind = iota
	ConstraintTrafficLights
	ConstraintTrafficSigns
	ConstraintMemory
)

// String returns the human-readable constraint name.
func (k ConstraintKind) String() string {
	switch k {
	case ConstraintLanes:
		return "lanes"
	case ConstraintTrafficLights:
		return "traffic lights"
	case ConstraintTrafficSigns:
		return "traffic signs"
	case ConstraintMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// ConstraintError indicates a parsed map exceeded a configured limit.
// The load is discarded as a whole; the server stays empty.
type ConstraintError struct {
	Kind ConstraintKind

	// Count and Limit are set for element-count violations.
	Count int
	Limit int

	// Bytes and LimitBytes are set for memory violations.
	Bytes      uint64
	LimitBytes uint64
}

func (e *ConstraintError) Error() string {
	if e.Kind == ConstraintMemory {
		return fmt.Sprintf("memory constraint violated: %d bytes estimated, limit %d", e.Bytes, e.LimitBytes)
	}
	return fmt.Sprintf("%s constraint violated: %d parsed, limit %d", e.Kind, e.Count, e.Limit)
}

// ErrLoadFailed wraps a parse or source error from a failed load.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrLoadFailed struct {
	Name  string
	cause error
}

func (e *ErrLoadFailed) Error() string {
	return fmt.Sprintf("load %q failed: %v", e.Name, e.cause)
}

func (e *ErrLoadFailed) Unwrap() error { return e.cause }
