package model

import "github.com/yiliangbetter/hdmap/geom"

// LaneType classifies a lane.
type LaneType uint8

const (
	LaneTypeDriving LaneType = iota
	LaneTypeSidewalk
	LaneTypeBike
	LaneTypeParking
	LaneTypeShoulder
	LaneTypeRestricted
)

// String returns a human-readable name for the lane type.
func (t LaneType) String() string {
	switch t {
	case LaneTypeDriving:
		return "driving"
	case LaneTypeSidewalk:
		return "sidewalk"
	case LaneTypeBike:
		return "bike"
	case LaneTypeParking:
		return "parking"
	case LaneTypeShoulder:
		return "shoulder"
	case LaneTypeRestricted:
		return "restricted"
	default:
		return "unknown"
	}
}

// LaneTypeFromString maps a Lanelet2 subtype value to a LaneType.
// Unknown subtypes default to driving, matching the loader's behavior for
// ways that carry a subtype tag the catalog does not know.
func LaneTypeFromString(s string) LaneType {
	switch s {
	case "sidewalk", "walkway":
		return LaneTypeSidewalk
	case "bike", "bicycle_lane", "cycle_lane":
		return LaneTypeBike
	case "parking":
		return LaneTypeParking
	case "shoulder":
		return LaneTypeShoulder
	case "restricted", "emergency_lane":
		return LaneTypeRestricted
	default:
		return LaneTypeDriving
	}
}

// TrafficLightState is the last known signal state of a traffic light.
type TrafficLightState uint8

const (
	TrafficLightUnknown TrafficLightState = iota
	TrafficLightRed
	TrafficLightYellow
	TrafficLightGreen
	TrafficLightRedYellow
)

// String returns a human-readable name for the state.
func (s TrafficLightState) String() string {
	switch s {
	case TrafficLightRed:
		return "red"
	case TrafficLightYellow:
		return "yellow"
	case TrafficLightGreen:
		return "green"
	case TrafficLightRedYellow:
		return "red-yellow"
	default:
		return "unknown"
	}
}

// TrafficSignType classifies a traffic sign.
type TrafficSignType uint8

const (
	TrafficSignOther TrafficSignType = iota
	TrafficSignStop
	TrafficSignYield
	TrafficSignSpeedLimit
	TrafficSignNoEntry
	TrafficSignOneWay
	TrafficSignParking
	TrafficSignPedestrianCrossing
	TrafficSignSchoolZone
)

// String returns a human-readable name for the sign type.
func (t TrafficSignType) String() string {
	switch t {
	case TrafficSignStop:
		return "stop"
	case TrafficSignYield:
		return "yield"
	case TrafficSignSpeedLimit:
		return "speed_limit"
	case TrafficSignNoEntry:
		return "no_entry"
	case TrafficSignOneWay:
		return "one_way"
	case TrafficSignParking:
		return "parking"
	case TrafficSignPedestrianCrossing:
		return "pedestrian_crossing"
	case TrafficSignSchoolZone:
		return "school_zone"
	default:
		return "other"
	}
}

// Lane is a single-lane road segment (a lanelet): a centerline with optional
// boundary lines, graph edges to related lanes, and a cached bounding box.
//
// Lanes are created during load and immutable afterwards. The store is the
// sole owner; spatial indices refer to lanes by ID only.
type Lane struct {
	ID         uint64
	Type       LaneType
	Centerline []geom.Point
	// Boundary point sequences; may be empty.
	LeftBoundary  []geom.Point
	RightBoundary []geom.Point
	// Graph edges referencing other lane IDs. Dangling references are
	// tolerated; they are never validated for existence.
	PredecessorIDs   []uint64
	SuccessorIDs     []uint64
	AdjacentLeftIDs  []uint64
	AdjacentRightIDs []uint64
	// SpeedLimit is in meters per second.
	SpeedLimit float64
	// BBox is recomputed from the point sequences by ComputeBoundingBox.
	BBox geom.BoundingBox
}

// ComputeBoundingBox recomputes BBox from the centerline and both
// boundaries. A lane with an empty centerline gets the zero box even if it
// has boundary points.
func (l *Lane) ComputeBoundingBox() {
	if len(l.Centerline) == 0 {
		l.BBox = geom.BoundingBox{}
		return
	}

	bbox := geom.PointBox(l.Centerline[0])
	for _, p := range l.Centerline[1:] {
		bbox = bbox.ExtendPoint(p)
	}
	for _, p := range l.LeftBoundary {
		bbox = bbox.ExtendPoint(p)
	}
	for _, p := range l.RightBoundary {
		bbox = bbox.ExtendPoint(p)
	}
	l.BBox = bbox
}

// TrafficLight is a point element controlling one or more lanes.
type TrafficLight struct {
	ID                uint64
	Position          geom.Point
	State             TrafficLightState
	ControlledLaneIDs []uint64
	// Height is meters above ground.
	Height float64
}

// TrafficSign is a point element affecting one or more lanes.
type TrafficSign struct {
	ID       uint64
	Position geom.Point
	Type     TrafficSignType
	// Value is free text, e.g. "50" on a speed limit sign.
	Value           string
	AffectedLaneIDs []uint64
	Height          float64
}

// QueryResult holds the elements matched by a region or radius query.
// It is transient and owned by the caller.
type QueryResult struct {
	Lanes         []*Lane
	TrafficLights []*TrafficLight
	TrafficSigns  []*TrafficSign
}

// Clear empties all three result sequences.
func (r *QueryResult) Clear() {
	r.Lanes = r.Lanes[:0]
	r.TrafficLights = r.TrafficLights[:0]
	r.TrafficSigns = r.TrafficSigns[:0]
}

// TotalCount returns the number of matched elements across all kinds.
func (r *QueryResult) TotalCount() int {
	return len(r.Lanes) + len(r.TrafficLights) + len(r.TrafficSigns)
}
