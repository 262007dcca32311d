// Package testutil provides helpers for synthesizing map content in tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yiliangbetter/hdmap/geom"
)

// MapBuilder assembles a Lanelet2/OSM map document. Node IDs are allocated
// automatically; lane and regulatory-element IDs are caller-supplied.
type MapBuilder struct {
	nodes     strings.Builder
	ways      strings.Builder
	relations strings.Builder
	nextNode  uint64
}

// NewMapBuilder creates an empty builder.
func NewMapBuilder() *MapBuilder {
	return &MapBuilder{nextNode: 1}
}

func (b *MapBuilder) addNode(p geom.Point) uint64 {
	id := b.nextNode
	b.nextNode++
	fmt.Fprintf(&b.nodes, "  <node id=\"%d\" lat=\"%g\" lon=\"%g\"/>\n", id, p.Y, p.X)
	return id
}

// AddLane appends a lane way with the given centerline and subtype.
func (b *MapBuilder) AddLane(id uint64, subtype string, centerline ...geom.Point) *MapBuilder {
	fmt.Fprintf(&b.ways, "  <way id=\"%d\">\n", id)
	for _, p := range centerline {
		fmt.Fprintf(&b.ways, "    <nd ref=\"%d\"/>\n", b.addNode(p))
	}
	fmt.Fprintf(&b.ways, "    <tag k=\"type\" v=\"lanelet\"/>\n")
	fmt.Fprintf(&b.ways, "    <tag k=\"subtype\" v=\"%s\"/>\n", subtype)
	fmt.Fprintf(&b.ways, "  </way>\n")
	return b
}

// AddLaneWithSpeed appends a lane way carrying a speed_limit tag in km/h.
func (b *MapBuilder) AddLaneWithSpeed(id uint64, subtype string, speedKmh float64, centerline ...geom.Point) *MapBuilder {
	fmt.Fprintf(&b.ways, "  <way id=\"%d\">\n", id)
	for _, p := range centerline {
		fmt.Fprintf(&b.ways, "    <nd ref=\"%d\"/>\n", b.addNode(p))
	}
	fmt.Fprintf(&b.ways, "    <tag k=\"subtype\" v=\"%s\"/>\n", subtype)
	fmt.Fprintf(&b.ways, "    <tag k=\"speed_limit\" v=\"%g\"/>\n", speedKmh)
	fmt.Fprintf(&b.ways, "  </way>\n")
	return b
}

// AddTrafficLight appends a traffic-light regulatory element at pos
// controlling the given lanes.
func (b *MapBuilder) AddTrafficLight(id uint64, pos geom.Point, laneIDs ...uint64) *MapBuilder {
	b.addRegulatory(id, "traffic_light", pos, laneIDs, "")
	return b
}

// AddTrafficSign appends a traffic-sign regulatory element at pos affecting
// the given lanes.
func (b *MapBuilder) AddTrafficSign(id uint64, signType, value string, pos geom.Point, laneIDs ...uint64) *MapBuilder {
	extra := fmt.Sprintf("    <tag k=\"sign_type\" v=\"%s\"/>\n    <tag k=\"value\" v=\"%s\"/>\n", signType, value)
	b.addRegulatory(id, "traffic_sign", pos, laneIDs, extra)
	return b
}

func (b *MapBuilder) addRegulatory(id uint64, subtype string, pos geom.Point, laneIDs []uint64, extraTags string) {
	nodeID := b.addNode(pos)
	fmt.Fprintf(&b.relations, "  <relation id=\"%d\">\n", id)
	fmt.Fprintf(&b.relations, "    <tag k=\"type\" v=\"regulatory_element\"/>\n")
	fmt.Fprintf(&b.relations, "    <tag k=\"subtype\" v=\"%s\"/>\n", subtype)
	b.relations.WriteString(extraTags)
	fmt.Fprintf(&b.relations, "    <member type=\"node\" ref=\"%d\" role=\"refers\"/>\n", nodeID)
	for _, laneID := range laneIDs {
		fmt.Fprintf(&b.relations, "    <member type=\"way\" ref=\"%d\" role=\"lanes\"/>\n", laneID)
	}
	fmt.Fprintf(&b.relations, "  </relation>\n")
}

// String renders the document.
func (b *MapBuilder) String() string {
	var doc strings.Builder
	doc.WriteString("<?xml version=\"1.0\"?>\n<osm>\n")
	doc.WriteString(b.nodes.String())
	doc.WriteString(b.ways.String())
	doc.WriteString(b.relations.String())
	doc.WriteString("</osm>\n")
	return doc.String()
}

// WriteFile renders the document into a temp file and returns its path.
func (b *MapBuilder) WriteFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.osm")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write map file: %v", err)
	}
	return path
}

// GridLanes adds rows*cols straight driving lanes spaced apart on a grid,
// with IDs starting at baseID. Each lane runs vertically for length units.
func GridLanes(b *MapBuilder, baseID uint64, rows, cols int, spacing, length float64) {
	id := baseID
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := float64(col) * spacing
			y := float64(row) * spacing
			b.AddLane(id, "road",
				geom.Point{X: x, Y: y},
				geom.Point{X: x, Y: y + length},
			)
			id++
		}
	}
}
