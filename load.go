package hdmap

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/yiliangbetter/hdmap/geom"
	"github.com/yiliangbetter/hdmap/mapsource"
	"github.com/yiliangbetter/hdmap/model"
	"github.com/yiliangbetter/hdmap/resource"
	"github.com/yiliangbetter/hdmap/rtree"
	"github.com/yiliangbetter/hdmap/store"
)

// LoadFromFile loads a map from a path on the local file system.
func (s *MapServer) LoadFromFile(ctx context.Context, path string) error {
	r, err := mapsource.NewLocal("").Open(ctx, path)
	if err != nil {
		return &ErrLoadFailed{Name: path, cause: err}
	}
	defer r.Close()

	return s.LoadFrom(ctx, path, r)
}

// LoadFromSource loads a named map from the configured source.
func (s *MapServer) LoadFromSource(ctx context.Context, name string) error {
	if s.source == nil {
		return ErrNoSource
	}

	r, err := s.source.Open(ctx, name)
	if err != nil {
		return &ErrLoadFailed{Name: name, cause: err}
	}
	defer r.Close()

	return s.LoadFrom(ctx, name, r)
}

// LoadFrom replaces the server's contents with the map read from r. The name
// selects the decompressor by extension and tags log output.
//
// The load is all-or-nothing: existing state is cleared up front, the new
// map is parsed into a staging store, checked against the configured
// constraints, and only then committed and indexed. Any failure along the
// way leaves the server empty.
func (s *MapServer) LoadFrom(ctx context.Context, name string, r io.Reader) error {
	if err := s.resources.AcquireLoad(ctx); err != nil {
		return &ErrLoadFailed{Name: name, cause: err}
	}
	defer s.resources.ReleaseLoad()

	s.Clear()

	staging, err := s.parseInto(ctx, name, r)
	if err != nil {
		s.logger.LogLoad(ctx, name, 0, 0, 0, 0, err)
		return err
	}

	estimate := estimateStore(staging)
	if err := s.admit(staging, estimate); err != nil {
		s.logger.LogLoad(ctx, name, 0, 0, 0, 0, err)
		return err
	}

	s.commit(staging)

	s.logger.LogLoad(ctx, name,
		staging.LaneCount(), staging.TrafficLightCount(), staging.TrafficSignCount(),
		estimate, nil)
	return nil
}

// parseInto runs the parser over the (throttled, decompressed) reader and
// returns the staged store.
func (s *MapServer) parseInto(ctx context.Context, name string, r io.Reader) (*store.Store, error) {
	if s.resources.Throttled() {
		r = resource.NewRateLimitedReader(ctx, r, s.resources)
	}
	dr, err := mapsource.OpenDecompressed(name, r)
	if err != nil {
		return nil, &ErrLoadFailed{Name: name, cause: fmt.Errorf("decompress: %w", err)}
	}
	defer dr.Close()

	staging := store.New()
	if err := s.parser.Parse(dr, staging); err != nil {
		return nil, &ErrLoadFailed{Name: name, cause: err}
	}
	return staging, nil
}

// admit checks the staged map against the configured constraints and
// reserves its memory estimate. The reservation is released on Clear or on
// the next load.
func (s *MapServer) admit(staging *store.Store, estimate uint64) error {
	c := s.constraints

	if c.MaxLanes > 0 && staging.LaneCount() > c.MaxLanes {
		return &ConstraintError{Kind: ConstraintLanes, Count: staging.LaneCount(), Limit: c.MaxLanes}
	}
	if c.MaxTrafficLights > 0 && staging.TrafficLightCount() > c.MaxTrafficLights {
		return &ConstraintError{Kind: ConstraintTrafficLights, Count: staging.TrafficLightCount(), Limit: c.MaxTrafficLights}
	}
	if c.MaxTrafficSigns > 0 && staging.TrafficSignCount() > c.MaxTrafficSigns {
		return &ConstraintError{Kind: ConstraintTrafficSigns, Count: staging.TrafficSignCount(), Limit: c.MaxTrafficSigns}
	}
	if c.MaxMemoryBytes > 0 && estimate > c.MaxMemoryBytes {
		return &ConstraintError{Kind: ConstraintMemory, Bytes: estimate, LimitBytes: c.MaxMemoryBytes}
	}

	if !s.resources.TryAcquireMemory(int64(estimate)) {
		return &ConstraintError{Kind: ConstraintMemory, Bytes: estimate, LimitBytes: c.MaxMemoryBytes}
	}

	s.mu.Lock()
	s.reservedBytes = int64(estimate)
	s.mu.Unlock()
	return nil
}

// commit swaps in the staged store and rebuilds the three spatial indices.
// The indices are independent and build in parallel.
func (s *MapServer) commit(staging *store.Store) {
	laneIndex := rtree.New()
	lightIndex := rtree.New()
	signIndex := rtree.New()

	var g errgroup.Group
	g.Go(func() error {
		staging.ForEachLane(func(lane *model.Lane) {
			lane.ComputeBoundingBox()
			laneIndex.Insert(lane.BBox, lane.ID)
		})
		return nil
	})
	g.Go(func() error {
		staging.ForEachTrafficLight(func(light *model.TrafficLight) {
			lightIndex.Insert(geom.PointBox(light.Position), light.ID)
		})
		return nil
	})
	g.Go(func() error {
		staging.ForEachTrafficSign(func(sign *model.TrafficSign) {
			signIndex.Insert(geom.PointBox(sign.Position), sign.ID)
		})
		return nil
	})
	_ = g.Wait() // index inserts cannot fail

	s.mu.Lock()
	s.store = staging
	s.laneIndex = laneIndex
	s.lightIndex = lightIndex
	s.signIndex = signIndex
	s.mu.Unlock()
}
