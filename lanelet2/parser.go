// Package lanelet2 parses simplified Lanelet2/OSM map files into the element
// store. The format is a small XML subset: <node> elements carry positions,
// <way> elements with a subtype tag are lanes, and <relation> elements with
// type="regulatory_element" are traffic lights or signs.
//
// This is a deliberately simple string-scanning routine, not a conforming
// XML parser: the map server treats the parser as a replaceable external
// producer of typed records. Referential integrity is not validated;
// dangling node references are skipped and dangling lane references are
// stored as-is.
package lanelet2

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yiliangbetter/hdmap/geom"
	"github.com/yiliangbetter/hdmap/model"
	"github.com/yiliangbetter/hdmap/store"
)

// Default attributes for elements the file does not fully describe.
const (
	// defaultSpeedLimit is 50 km/h in m/s.
	defaultSpeedLimit  = 13.89
	defaultLightHeight = 5.0
	defaultSignHeight  = 3.0
)

// ErrNoNodes is returned for maps that define no nodes at all.
var ErrNoNodes = errors.New("lanelet2: map contains no nodes")

// Parser parses Lanelet2 map content into a store.
type Parser struct{}

// NewParser creates a parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the whole map from r and populates dst. On error dst may hold
// a partial result; callers stage into a fresh store and discard it on
// failure.
func (p *Parser) Parse(r io.Reader, dst *store.Store) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("lanelet2: read map: %w", err)
	}
	content := string(data)

	nodes := parseNodes(content)
	if len(nodes) == 0 {
		return ErrNoNodes
	}

	parseLanes(content, nodes, dst)
	parseRegulatory(content, nodes, dst)
	return nil
}

// parseNodes collects node positions. X is longitude, Y is latitude; the
// producer is expected to emit projected meters in these attributes.
func parseNodes(content string) map[uint64]geom.Point {
	nodes := make(map[uint64]geom.Point)

	pos := 0
	for {
		start := strings.Index(content[pos:], "<node ")
		if start < 0 {
			break
		}
		start += pos
		end := strings.Index(content[start:], "/>")
		if end < 0 {
			break
		}
		end += start
		nodeStr := content[start:end]
		pos = end

		id, ok := attrUint(nodeStr, "id")
		if !ok {
			continue
		}
		lat, okLat := attrFloat(nodeStr, "lat")
		lon, okLon := attrFloat(nodeStr, "lon")
		if !okLat || !okLon {
			continue
		}

		nodes[id] = geom.Point{X: lon, Y: lat}
	}

	return nodes
}

// parseLanes collects ways carrying a subtype tag. Node references that do
// not resolve are skipped; lanes that end up with an empty centerline are
// dropped.
func parseLanes(content string, nodes map[uint64]geom.Point, dst *store.Store) {
	pos := 0
	for {
		start := strings.Index(content[pos:], "<way ")
		if start < 0 {
			break
		}
		start += pos
		end := strings.Index(content[start:], "</way>")
		if end < 0 {
			break
		}
		end += start
		wayStr := content[start:end]
		pos = end

		id, ok := attrUint(wayStr, "id")
		if !ok {
			continue
		}
		if !strings.Contains(wayStr, "subtype") {
			continue
		}

		lane := &model.Lane{
			ID:         id,
			Type:       model.LaneTypeDriving,
			SpeedLimit: defaultSpeedLimit,
		}
		if subtype, ok := tagValue(wayStr, "subtype"); ok {
			lane.Type = model.LaneTypeFromString(subtype)
		}
		if limit, ok := tagValue(wayStr, "speed_limit"); ok {
			if kmh, err := strconv.ParseFloat(limit, 64); err == nil && kmh > 0 {
				lane.SpeedLimit = kmh / 3.6
			}
		}

		ndPos := 0
		for {
			nd := strings.Index(wayStr[ndPos:], `<nd ref="`)
			if nd < 0 {
				break
			}
			nd += ndPos + len(`<nd ref="`)
			quote := strings.IndexByte(wayStr[nd:], '"')
			if quote < 0 {
				break
			}
			ndPos = nd + quote

			ref, err := strconv.ParseUint(wayStr[nd:nd+quote], 10, 64)
			if err != nil {
				continue
			}
			if p, ok := nodes[ref]; ok {
				lane.Centerline = append(lane.Centerline, p)
			}
		}

		if len(lane.Centerline) > 0 {
			lane.ComputeBoundingBox()
			dst.AddLane(lane)
		}
	}
}

// parseRegulatory collects regulatory-element relations. The position comes
// from the first node member (preferring role="refers"); missing members
// leave the element at the origin, matching the tolerance for incomplete
// producer output.
func parseRegulatory(content string, nodes map[uint64]geom.Point, dst *store.Store) {
	pos := 0
	for {
		start := strings.Index(content[pos:], "<relation ")
		if start < 0 {
			break
		}
		start += pos
		end := strings.Index(content[start:], "</relation>")
		if end < 0 {
			break
		}
		end += start
		relStr := content[start:end]
		pos = end

		if tv, ok := tagValue(relStr, "type"); !ok || tv != "regulatory_element" {
			continue
		}
		id, ok := attrUint(relStr, "id")
		if !ok {
			continue
		}

		position := memberPosition(relStr, nodes)
		laneIDs := memberWayRefs(relStr)

		subtype, _ := tagValue(relStr, "subtype")
		switch subtype {
		case "traffic_light":
			dst.AddTrafficLight(&model.TrafficLight{
				ID:                id,
				Position:          position,
				State:             model.TrafficLightUnknown,
				ControlledLaneIDs: laneIDs,
				Height:            defaultLightHeight,
			})
		case "traffic_sign":
			sign := &model.TrafficSign{
				ID:              id,
				Position:        position,
				Type:            model.TrafficSignOther,
				AffectedLaneIDs: laneIDs,
				Height:          defaultSignHeight,
			}
			if v, ok := tagValue(relStr, "sign_type"); ok {
				sign.Type = signTypeFromString(v)
			}
			if v, ok := tagValue(relStr, "value"); ok {
				sign.Value = v
			}
			dst.AddTrafficSign(sign)
		}
	}
}

// memberPosition resolves the element position from the relation's node
// members, preferring the refers role.
func memberPosition(relStr string, nodes map[uint64]geom.Point) geom.Point {
	var fallback geom.Point
	haveFallback := false

	pos := 0
	for {
		m := strings.Index(relStr[pos:], "<member ")
		if m < 0 {
			break
		}
		m += pos
		end := strings.Index(relStr[m:], ">")
		if end < 0 {
			break
		}
		memberStr := relStr[m : m+end]
		pos = m + end

		if !strings.Contains(memberStr, `type="node"`) {
			continue
		}
		ref, ok := attrUint(memberStr, "ref")
		if !ok {
			continue
		}
		p, ok := nodes[ref]
		if !ok {
			continue
		}

		if strings.Contains(memberStr, `role="refers"`) {
			return p
		}
		if !haveFallback {
			fallback = p
			haveFallback = true
		}
	}

	return fallback
}

// memberWayRefs collects the way members of a relation, which reference the
// lanes the element controls or affects.
func memberWayRefs(relStr string) []uint64 {
	var refs []uint64

	pos := 0
	for {
		m := strings.Index(relStr[pos:], "<member ")
		if m < 0 {
			break
		}
		m += pos
		end := strings.Index(relStr[m:], ">")
		if end < 0 {
			break
		}
		memberStr := relStr[m : m+end]
		pos = m + end

		if !strings.Contains(memberStr, `type="way"`) {
			continue
		}
		if ref, ok := attrUint(memberStr, "ref"); ok {
			refs = append(refs, ref)
		}
	}

	return refs
}

func signTypeFromString(s string) model.TrafficSignType {
	switch s {
	case "stop":
		return model.TrafficSignStop
	case "yield":
		return model.TrafficSignYield
	case "speed_limit":
		return model.TrafficSignSpeedLimit
	case "no_entry":
		return model.TrafficSignNoEntry
	case "one_way":
		return model.TrafficSignOneWay
	case "parking":
		return model.TrafficSignParking
	case "pedestrian_crossing":
		return model.TrafficSignPedestrianCrossing
	case "school_zone":
		return model.TrafficSignSchoolZone
	default:
		return model.TrafficSignOther
	}
}

// attrValue extracts the quoted value of name="..." from s.
func attrValue(s, name string) (string, bool) {
	idx := strings.Index(s, name+`="`)
	if idx < 0 {
		return "", false
	}
	idx += len(name) + 2
	end := strings.IndexByte(s[idx:], '"')
	if end < 0 {
		return "", false
	}
	return s[idx : idx+end], true
}

func attrUint(s, name string) (uint64, bool) {
	v, ok := attrValue(s, name)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func attrFloat(s, name string) (float64, bool) {
	v, ok := attrValue(s, name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// tagValue extracts v="..." from the <tag k="key" v="..."/> element for key.
func tagValue(s, key string) (string, bool) {
	idx := strings.Index(s, `k="`+key+`"`)
	if idx < 0 {
		return "", false
	}
	rest := s[idx:]
	end := strings.IndexByte(rest, '>')
	if end >= 0 {
		rest = rest[:end]
	}
	return attrValue(rest, "v")
}
