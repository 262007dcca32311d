package rtree

import "github.com/yiliangbetter/hdmap/geom"

const (
	// MaxEntries is the fixed node capacity. A node is split before it
	// would hold more than MaxEntries entries.
	MaxEntries = 8

	// MinEntries is the minimum fill target. It informs the split
	// heuristic only; deletion is unsupported, so it is never enforced as
	// a hard constraint.
	MinEntries = 4
)

// nilNode is the sentinel for "no node": the root's parent, and the child
// field of leaf entries.
const nilNode int32 = -1

// entry is a single slot in a node: a bounding box plus either a child node
// (internal nodes) or an element key (leaf nodes). child == nilNode marks a
// leaf payload.
type entry struct {
	bbox  geom.BoundingBox
	child int32
	item  uint64
}

func leafEntry(bbox geom.BoundingBox, item uint64) entry {
	return entry{bbox: bbox, child: nilNode, item: item}
}

func childEntry(bbox geom.BoundingBox, child int32) entry {
	return entry{bbox: bbox, child: child}
}

// node lives in the tree's arena and refers to its parent by index, so the
// parent/child back-references never form ownership cycles.
type node struct {
	leaf    bool
	parent  int32
	entries []entry
}

func newNode(leaf bool, parent int32) node {
	return node{
		leaf:    leaf,
		parent:  parent,
		entries: make([]entry, 0, MaxEntries),
	}
}

func (n *node) full() bool {
	return len(n.entries) >= MaxEntries
}

// boundingBox returns the exact union of the node's entry boxes, or the zero
// box for an empty node.
func (n *node) boundingBox() geom.BoundingBox {
	if len(n.entries) == 0 {
		return geom.BoundingBox{}
	}
	bbox := n.entries[0].bbox
	for _, e := range n.entries[1:] {
		bbox = bbox.Extend(e.bbox)
	}
	return bbox
}
