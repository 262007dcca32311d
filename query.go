package hdmap

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/yiliangbetter/hdmap/geom"
	"github.com/yiliangbetter/hdmap/model"
)

// Closest-lane search radii: a small local pass first, then a wider retry.
const (
	closestLaneNearRadius = 50.0
	closestLaneFarRadius  = 200.0
)

type queryOptions struct {
	laneTypes []model.LaneType
}

// QueryOption refines a region or radius query.
type QueryOption func(*queryOptions)

// WithLaneTypes restricts lane results to the given types. Traffic lights
// and signs are unaffected.
func WithLaneTypes(types ...model.LaneType) QueryOption {
	return func(o *queryOptions) {
		o.laneTypes = types
	}
}

func applyQueryOptions(optFns []QueryOption) queryOptions {
	var o queryOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// laneFilter returns the ID set admitting lanes, or nil for no filtering.
// Caller must hold at least a read lock.
func (s *MapServer) laneFilter(o queryOptions) *roaring64.Bitmap {
	if len(o.laneTypes) == 0 {
		return nil
	}
	return s.store.LaneTypeSet(o.laneTypes...)
}

// QueryRegion returns every element whose bounding box intersects region.
// Box-against-box intersection is exact for this query; no geometry
// refinement is applied.
func (s *MapServer) QueryRegion(region geom.BoundingBox, optFns ...QueryOption) model.QueryResult {
	o := applyQueryOptions(optFns)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result model.QueryResult
	filter := s.laneFilter(o)

	for _, id := range s.laneIndex.Query(region) {
		if filter != nil && !filter.Contains(id) {
			continue
		}
		if lane, ok := s.store.Lane(id); ok {
			result.Lanes = append(result.Lanes, lane)
		}
	}
	for _, id := range s.lightIndex.Query(region) {
		if light, ok := s.store.TrafficLight(id); ok {
			result.TrafficLights = append(result.TrafficLights, light)
		}
	}
	for _, id := range s.signIndex.Query(region) {
		if sign, ok := s.store.TrafficSign(id); ok {
			result.TrafficSigns = append(result.TrafficSigns, sign)
		}
	}

	return result
}

// QueryRadius returns every element within radius of center. The index
// produces candidates from the bounding square of side 2*radius; false
// positives in the square's corners are discarded against exact geometry:
// a lane qualifies if some centerline point lies within the circle, a light
// or sign if its position does.
func (s *MapServer) QueryRadius(center geom.Point, radius float64, optFns ...QueryOption) model.QueryResult {
	o := applyQueryOptions(optFns)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result model.QueryResult
	filter := s.laneFilter(o)

	for _, id := range s.laneIndex.QueryRadius(center, radius) {
		if filter != nil && !filter.Contains(id) {
			continue
		}
		lane, ok := s.store.Lane(id)
		if !ok {
			continue
		}
		if laneWithinRadius(lane, center, radius) {
			result.Lanes = append(result.Lanes, lane)
		}
	}
	for _, id := range s.lightIndex.QueryRadius(center, radius) {
		light, ok := s.store.TrafficLight(id)
		if !ok {
			continue
		}
		if light.Position.DistanceTo(center) <= radius {
			result.TrafficLights = append(result.TrafficLights, light)
		}
	}
	for _, id := range s.signIndex.QueryRadius(center, radius) {
		sign, ok := s.store.TrafficSign(id)
		if !ok {
			continue
		}
		if sign.Position.DistanceTo(center) <= radius {
			result.TrafficSigns = append(result.TrafficSigns, sign)
		}
	}

	return result
}

func laneWithinRadius(lane *model.Lane, center geom.Point, radius float64) bool {
	for _, p := range lane.Centerline {
		if p.DistanceTo(center) <= radius {
			return true
		}
	}
	return false
}

// GetLaneByID looks up a lane by its ID.
func (s *MapServer) GetLaneByID(id uint64) (*model.Lane, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Lane(id)
}

// GetTrafficLightByID looks up a traffic light by its ID.
func (s *MapServer) GetTrafficLightByID(id uint64) (*model.TrafficLight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.TrafficLight(id)
}

// GetTrafficSignByID looks up a traffic sign by its ID.
func (s *MapServer) GetTrafficSignByID(id uint64) (*model.TrafficSign, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.TrafficSign(id)
}

// GetNearbyLanes returns the lanes within maxDistance of pos.
func (s *MapServer) GetNearbyLanes(pos geom.Point, maxDistance float64) []*model.Lane {
	return s.QueryRadius(pos, maxDistance).Lanes
}

// GetClosestLane finds the lane with the centerline point nearest to pos.
// The search is local: candidates come from a 50-unit radius, widened once
// to 200 units if empty. A lane whose nearest point lies beyond 200 units
// is not found even if it is the true closest; callers wanting a global
// answer must scan the store themselves.
func (s *MapServer) GetClosestLane(pos geom.Point) (*model.Lane, bool) {
	candidates := s.GetNearbyLanes(pos, closestLaneNearRadius)
	if len(candidates) == 0 {
		candidates = s.GetNearbyLanes(pos, closestLaneFarRadius)
	}
	if len(candidates) == 0 {
		return nil, false
	}

	var closest *model.Lane
	best := math.Inf(1)
	for _, lane := range candidates {
		for _, p := range lane.Centerline {
			if d := p.DistanceTo(pos); d < best {
				best = d
				closest = lane
			}
		}
	}

	return closest, closest != nil
}

// GetTrafficLightsForLane returns every traffic light controlling the given
// lane. Linear scan; there is no reverse index.
func (s *MapServer) GetTrafficLightsForLane(laneID uint64) []*model.TrafficLight {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lights []*model.TrafficLight
	s.store.ForEachTrafficLight(func(light *model.TrafficLight) {
		if containsID(light.ControlledLaneIDs, laneID) {
			lights = append(lights, light)
		}
	})
	return lights
}

// GetTrafficSignsForLane returns every traffic sign affecting the given
// lane. Linear scan; there is no reverse index.
func (s *MapServer) GetTrafficSignsForLane(laneID uint64) []*model.TrafficSign {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var signs []*model.TrafficSign
	s.store.ForEachTrafficSign(func(sign *model.TrafficSign) {
		if containsID(sign.AffectedLaneIDs, laneID) {
			signs = append(signs, sign)
		}
	})
	return signs
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
