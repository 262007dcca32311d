package hdmap

import (
	"unsafe"

	"github.com/yiliangbetter/hdmap/geom"
	"github.com/yiliangbetter/hdmap/model"
	"github.com/yiliangbetter/hdmap/store"
)

// indexEntryOverhead is the fixed per-spatial-index-entry cost used by the
// memory estimate.
const indexEntryOverhead = 64

var (
	pointSize = uint64(unsafe.Sizeof(geom.Point{}))
	laneSize  = uint64(unsafe.Sizeof(model.Lane{}))
	lightSize = uint64(unsafe.Sizeof(model.TrafficLight{}))
	signSize  = uint64(unsafe.Sizeof(model.TrafficSign{}))
)

func laneBytes(lane *model.Lane) uint64 {
	points := len(lane.Centerline) + len(lane.LeftBoundary) + len(lane.RightBoundary)
	ids := len(lane.PredecessorIDs) + len(lane.SuccessorIDs) +
		len(lane.AdjacentLeftIDs) + len(lane.AdjacentRightIDs)
	return laneSize + uint64(points)*pointSize + uint64(ids)*8
}

func lightBytes(light *model.TrafficLight) uint64 {
	return lightSize + uint64(len(light.ControlledLaneIDs))*8
}

func signBytes(sign *model.TrafficSign) uint64 {
	return signSize + uint64(len(sign.AffectedLaneIDs))*8 + uint64(len(sign.Value))
}

// estimateStore sums per-record struct sizes, variable-length payload bytes,
// and the per-index-entry overhead for every element. Each element occupies
// exactly one leaf entry in its index.
func estimateStore(st *store.Store) uint64 {
	var total uint64

	st.ForEachLane(func(lane *model.Lane) {
		total += laneBytes(lane)
	})
	st.ForEachTrafficLight(func(light *model.TrafficLight) {
		total += lightBytes(light)
	})
	st.ForEachTrafficSign(func(sign *model.TrafficSign) {
		total += signBytes(sign)
	})

	entries := st.LaneCount() + st.TrafficLightCount() + st.TrafficSignCount()
	total += uint64(entries) * indexEntryOverhead

	return total
}

func (s *MapServer) memoryUsageLocked() uint64 {
	return estimateStore(s.store)
}
