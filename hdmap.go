// Package hdmap provides an in-process spatial data server for HD-map
// elements under tight memory budgets.
//
// A MapServer owns a keyed element store (lanes, traffic lights, traffic
// signs) and three independent R-tree spatial indices built over it. Maps
// are bulk-loaded, constraint-checked, indexed, and then served read-only:
//
//   - Region queries: all elements whose bounding box intersects a box
//   - Radius queries: broad-phase bounding square through the index,
//     exact circle filtering against element geometry
//   - By-ID lookups, relationship scans, and a bounded closest-lane search
//
// # Quick Start
//
//	ctx := context.Background()
//	srv := hdmap.New(
//	    hdmap.WithConstraints(hdmap.RaspberryPiConstraints()),
//	    hdmap.WithLogLevel(slog.LevelInfo),
//	)
//	if err := srv.LoadFromFile(ctx, "map.osm"); err != nil {
//	    log.Fatal(err)
//	}
//
//	result := srv.QueryRadius(geom.Point{X: 10, Y: 20}, 100)
//	for _, lane := range result.Lanes {
//	    fmt.Println(lane.ID, lane.Type)
//	}
//
// Maps can also come from a configured source (local directory, in-memory,
// S3, MinIO) and may be gzip, zstd or lz4 compressed:
//
//	srv := hdmap.New(hdmap.WithSource(mapsource.NewLocal("./maps")))
//	err := srv.LoadFromSource(ctx, "city.osm.gz")
//
// Loads are all-or-nothing: a parse failure or constraint violation leaves
// the server empty. Queries on an empty server return empty results, not
// errors. Queries may run concurrently; loads are serialized and exclude
// queries for the duration of the state swap.
package hdmap

import (
	"sync"

	"github.com/yiliangbetter/hdmap/mapsource"
	"github.com/yiliangbetter/hdmap/resource"
	"github.com/yiliangbetter/hdmap/rtree"
	"github.com/yiliangbetter/hdmap/store"
)

// MapServer serves spatial queries over a bulk-loaded HD map.
type MapServer struct {
	mu sync.RWMutex

	store      *store.Store
	laneIndex  *rtree.RTree
	lightIndex *rtree.RTree
	signIndex  *rtree.RTree

	// reservedBytes is the memory admission held against the resource
	// controller for the currently loaded map.
	reservedBytes int64

	constraints MemoryConstraints
	logger      *Logger
	parser      MapParser
	source      mapsource.Source
	resources   *resource.Controller
}

// New creates an empty MapServer.
func New(optFns ...Option) *MapServer {
	o := applyOptions(optFns)

	return &MapServer{
		store:       store.New(),
		laneIndex:   rtree.New(),
		lightIndex:  rtree.New(),
		signIndex:   rtree.New(),
		constraints: o.constraints,
		logger:      o.logger,
		parser:      o.parser,
		source:      o.source,
		resources: resource.NewController(resource.Config{
			MemoryLimitBytes:   int64(o.constraints.MaxMemoryBytes),
			IOLimitBytesPerSec: o.ioLimit,
		}),
	}
}

// LaneCount returns the number of loaded lanes.
func (s *MapServer) LaneCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.LaneCount()
}

// TrafficLightCount returns the number of loaded traffic lights.
func (s *MapServer) TrafficLightCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.TrafficLightCount()
}

// TrafficSignCount returns the number of loaded traffic signs.
func (s *MapServer) TrafficSignCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.TrafficSignCount()
}

// Clear empties the element store and all three spatial indices.
func (s *MapServer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *MapServer) clearLocked() {
	s.store.Reset()
	s.laneIndex.Clear()
	s.lightIndex.Clear()
	s.signIndex.Clear()
	if s.reservedBytes > 0 {
		s.resources.ReleaseMemory(s.reservedBytes)
		s.reservedBytes = 0
	}
}

// Stats is a point-in-time snapshot of the server's contents.
type Stats struct {
	LaneCount         int
	TrafficLightCount int
	TrafficSignCount  int
	MemoryBytes       uint64

	LaneIndex         rtree.Stats
	TrafficLightIndex rtree.Stats
	TrafficSignIndex  rtree.Stats
}

// Stats reports element counts, the memory estimate, and the shape of the
// three spatial indices.
func (s *MapServer) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		LaneCount:         s.store.LaneCount(),
		TrafficLightCount: s.store.TrafficLightCount(),
		TrafficSignCount:  s.store.TrafficSignCount(),
		MemoryBytes:       s.memoryUsageLocked(),
		LaneIndex:         s.laneIndex.Stats(),
		TrafficLightIndex: s.lightIndex.Stats(),
		TrafficSignIndex:  s.signIndex.Stats(),
	}
}

// MemoryUsage returns the deterministic memory estimate for the loaded map.
// It is an admission-control figure, not precise accounting.
func (s *MapServer) MemoryUsage() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memoryUsageLocked()
}
