// Package store owns the map element records. Keyed collections of lanes,
// traffic lights and traffic signs are populated by the parser during load
// and immutable afterwards; the spatial indices hold element IDs only and
// resolve them through the store.
//
// Iteration follows insertion order, so index builds are reproducible
// run-to-run regardless of Go's randomized map iteration.
package store

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/yiliangbetter/hdmap/model"
)

// Store is the sole owner of all loaded map elements.
type Store struct {
	lanes     map[uint64]*model.Lane
	laneOrder []uint64

	lights     map[uint64]*model.TrafficLight
	lightOrder []uint64

	signs     map[uint64]*model.TrafficSign
	signOrder []uint64

	// laneTypes holds the lane IDs of each lane type, backing type-filtered
	// queries.
	laneTypes map[model.LaneType]*roaring64.Bitmap
}

// New returns an empty store.
func New() *Store {
	return &Store{
		lanes:     make(map[uint64]*model.Lane),
		lights:    make(map[uint64]*model.TrafficLight),
		signs:     make(map[uint64]*model.TrafficSign),
		laneTypes: make(map[model.LaneType]*roaring64.Bitmap),
	}
}

// AddLane inserts or replaces a lane. Replacing an existing ID keeps its
// position in iteration order.
func (s *Store) AddLane(lane *model.Lane) {
	if prev, ok := s.lanes[lane.ID]; ok {
		if set := s.laneTypes[prev.Type]; set != nil {
			set.Remove(lane.ID)
		}
	} else {
		s.laneOrder = append(s.laneOrder, lane.ID)
	}
	s.lanes[lane.ID] = lane

	set := s.laneTypes[lane.Type]
	if set == nil {
		set = roaring64.New()
		s.laneTypes[lane.Type] = set
	}
	set.Add(lane.ID)
}

// AddTrafficLight inserts or replaces a traffic light.
func (s *Store) AddTrafficLight(light *model.TrafficLight) {
	if _, ok := s.lights[light.ID]; !ok {
		s.lightOrder = append(s.lightOrder, light.ID)
	}
	s.lights[light.ID] = light
}

// AddTrafficSign inserts or replaces a traffic sign.
func (s *Store) AddTrafficSign(sign *model.TrafficSign) {
	if _, ok := s.signs[sign.ID]; !ok {
		s.signOrder = append(s.signOrder, sign.ID)
	}
	s.signs[sign.ID] = sign
}

// Lane returns the lane with the given ID, if present.
func (s *Store) Lane(id uint64) (*model.Lane, bool) {
	lane, ok := s.lanes[id]
	return lane, ok
}

// TrafficLight returns the traffic light with the given ID, if present.
func (s *Store) TrafficLight(id uint64) (*model.TrafficLight, bool) {
	light, ok := s.lights[id]
	return light, ok
}

// TrafficSign returns the traffic sign with the given ID, if present.
func (s *Store) TrafficSign(id uint64) (*model.TrafficSign, bool) {
	sign, ok := s.signs[id]
	return sign, ok
}

// LaneCount returns the number of lanes.
func (s *Store) LaneCount() int { return len(s.lanes) }

// TrafficLightCount returns the number of traffic lights.
func (s *Store) TrafficLightCount() int { return len(s.lights) }

// TrafficSignCount returns the number of traffic signs.
func (s *Store) TrafficSignCount() int { return len(s.signs) }

// ForEachLane calls fn for every lane in insertion order.
func (s *Store) ForEachLane(fn func(*model.Lane)) {
	for _, id := range s.laneOrder {
		fn(s.lanes[id])
	}
}

// ForEachTrafficLight calls fn for every traffic light in insertion order.
func (s *Store) ForEachTrafficLight(fn func(*model.TrafficLight)) {
	for _, id := range s.lightOrder {
		fn(s.lights[id])
	}
}

// ForEachTrafficSign calls fn for every traffic sign in insertion order.
func (s *Store) ForEachTrafficSign(fn func(*model.TrafficSign)) {
	for _, id := range s.signOrder {
		fn(s.signs[id])
	}
}

// LaneTypeSet returns the union of the ID sets of the given lane types. The
// returned bitmap is a copy and safe to mutate.
func (s *Store) LaneTypeSet(types ...model.LaneType) *roaring64.Bitmap {
	result := roaring64.New()
	for _, t := range types {
		if set := s.laneTypes[t]; set != nil {
			result.Or(set)
		}
	}
	return result
}

// Reset empties the store.
func (s *Store) Reset() {
	s.lanes = make(map[uint64]*model.Lane)
	s.laneOrder = s.laneOrder[:0]
	s.lights = make(map[uint64]*model.TrafficLight)
	s.lightOrder = s.lightOrder[:0]
	s.signs = make(map[uint64]*model.TrafficSign)
	s.signOrder = s.signOrder[:0]
	s.laneTypes = make(map[model.LaneType]*roaring64.Bitmap)
}
