// Package rtree implements a height-balanced R-tree over axis-aligned
// bounding boxes, the spatial index behind the map server's region and
// radius queries.
//
// The tree stores opaque uint64 element keys; it never owns elements. Nodes
// live in a flat arena and refer to each other by index, with a parent index
// per node (sentinel for the root), so box adjustments can walk bottom-up
// without pointer cycles.
//
// Only bulk insertion and read queries are supported. There is no deletion
// and no rebalancing beyond insert-time splits.
package rtree

import "github.com/yiliangbetter/hdmap/geom"

// RTree is a spatial index with fixed node capacity. Use New to create one;
// concurrent readers are safe once all insertions have completed, but
// inserts must not race with anything.
type RTree struct {
	nodes []node
	root  int32
	count int
}

// New returns an empty tree consisting of a single empty leaf root.
func New() *RTree {
	t := &RTree{}
	t.Clear()
	return t
}

// alloc appends a fresh node to the arena and returns its index.
func (t *RTree) alloc(leaf bool, parent int32) int32 {
	t.nodes = append(t.nodes, newNode(leaf, parent))
	return int32(len(t.nodes) - 1)
}

// enlargement returns the area increase needed to extend existing so that it
// also covers addition. This is the greedy metric for both descent and
// split distribution.
func enlargement(existing, addition geom.BoundingBox) float64 {
	return existing.Extend(addition).Area() - existing.Area()
}

// Insert adds an element key under the given bounding box. Insertion cannot
// fail; it is bounded only by process memory.
func (t *RTree) Insert(bbox geom.BoundingBox, item uint64) {
	e := leafEntry(bbox, item)

	// Very first insertion: the root leaf is empty and there is nothing
	// to enlarge against yet.
	if len(t.nodes[t.root].entries) == 0 {
		t.nodes[t.root].entries = append(t.nodes[t.root].entries, e)
		t.count++
		return
	}

	leaf := t.chooseLeaf(bbox)
	if !t.nodes[leaf].full() {
		t.nodes[leaf].entries = append(t.nodes[leaf].entries, e)
		t.adjustTree(leaf)
	} else {
		t.splitNode(leaf, e)
	}

	t.count++
}

// chooseLeaf descends from the root, at each internal node picking the child
// whose box needs the least area enlargement to include bbox. Ties go to the
// lowest entry index, keeping descent deterministic.
func (t *RTree) chooseLeaf(bbox geom.BoundingBox) int32 {
	current := t.root

	for !t.nodes[current].leaf {
		entries := t.nodes[current].entries
		best := 0
		minEnlargement := enlargement(entries[0].bbox, bbox)
		for i := 1; i < len(entries); i++ {
			if v := enlargement(entries[i].bbox, bbox); v < minEnlargement {
				minEnlargement = v
				best = i
			}
		}
		current = entries[best].child
	}

	return current
}

// splitNode distributes the entries of an overflowing node plus newEntry
// across the node and a fresh sibling, then hooks the sibling into the
// parent, splitting it recursively if it overflows too.
func (t *RTree) splitNode(n int32, newEntry entry) {
	all := make([]entry, 0, len(t.nodes[n].entries)+1)
	all = append(all, t.nodes[n].entries...)
	all = append(all, newEntry)

	// Seed pick: the pair of entries whose centers are farthest apart.
	// Strict > keeps the first-encountered maximum.
	seed1, seed2 := 0, 1
	maxDistance := 0.0
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			d := all[i].bbox.Center().DistanceTo(all[j].bbox.Center())
			if d > maxDistance {
				maxDistance = d
				seed1, seed2 = i, j
			}
		}
	}

	nn := t.alloc(t.nodes[n].leaf, t.nodes[n].parent)

	t.nodes[n].entries = append(t.nodes[n].entries[:0], all[seed1])
	t.nodes[nn].entries = append(t.nodes[nn].entries, all[seed2])

	// Each remaining entry joins whichever half needs the smaller box
	// enlargement, ties favoring the original node.
	for i, e := range all {
		if i == seed1 || i == seed2 {
			continue
		}
		e1 := enlargement(t.nodes[n].boundingBox(), e.bbox)
		e2 := enlargement(t.nodes[nn].boundingBox(), e.bbox)
		if e1 <= e2 {
			t.nodes[n].entries = append(t.nodes[n].entries, e)
		} else {
			t.nodes[nn].entries = append(t.nodes[nn].entries, e)
		}
	}

	// Children that moved to the sibling must point back at it.
	if !t.nodes[nn].leaf {
		for _, e := range t.nodes[nn].entries {
			t.nodes[e.child].parent = nn
		}
	}

	if n == t.root {
		root := t.alloc(false, nilNode)
		t.nodes[root].entries = append(t.nodes[root].entries,
			childEntry(t.nodes[n].boundingBox(), n),
			childEntry(t.nodes[nn].boundingBox(), nn),
		)
		t.nodes[n].parent = root
		t.nodes[nn].parent = root
		t.root = root
	} else {
		parent := t.nodes[n].parent
		pe := childEntry(t.nodes[nn].boundingBox(), nn)
		if !t.nodes[parent].full() {
			t.nodes[parent].entries = append(t.nodes[parent].entries, pe)
		} else {
			t.splitNode(parent, pe)
		}
	}

	t.adjustTree(n)
}

// adjustTree walks from n to the root, resetting at each step the parent
// entry that references the current node to the node's recomputed bounding
// box. This is how box growth propagates after insertion and splitting.
func (t *RTree) adjustTree(n int32) {
	for n != t.root {
		parent := t.nodes[n].parent
		for i := range t.nodes[parent].entries {
			if t.nodes[parent].entries[i].child == n {
				t.nodes[parent].entries[i].bbox = t.nodes[n].boundingBox()
				break
			}
		}
		n = parent
	}
}

// Query returns the keys of all elements whose stored bounding box
// intersects bbox. Results follow traversal order; there is no spatial
// ordering guarantee.
func (t *RTree) Query(bbox geom.BoundingBox) []uint64 {
	var results []uint64
	t.queryNode(t.root, bbox, &results)
	return results
}

func (t *RTree) queryNode(n int32, bbox geom.BoundingBox, results *[]uint64) {
	for _, e := range t.nodes[n].entries {
		if !e.bbox.Intersects(bbox) {
			continue
		}
		if t.nodes[n].leaf {
			*results = append(*results, e.item)
		} else {
			t.queryNode(e.child, bbox, results)
		}
	}
}

// QueryRadius returns a candidate superset: every element whose box
// intersects the axis-aligned square of side 2*radius centered at center.
// The tree never computes true Euclidean distance; exact circle filtering
// against element geometry is the caller's responsibility.
func (t *RTree) QueryRadius(center geom.Point, radius float64) []uint64 {
	bbox := geom.NewBoundingBox(
		geom.Point{X: center.X - radius, Y: center.Y - radius},
		geom.Point{X: center.X + radius, Y: center.Y + radius},
	)
	return t.Query(bbox)
}

// Clear discards all nodes and resets the tree to a single empty leaf root.
func (t *RTree) Clear() {
	t.nodes = t.nodes[:0]
	t.nodes = append(t.nodes, newNode(true, nilNode))
	t.root = 0
	t.count = 0
}

// Len returns the number of inserted elements.
func (t *RTree) Len() int {
	return t.count
}

// Height returns the number of levels, following the first-child path from
// the root. An empty tree has height 1.
func (t *RTree) Height() int {
	h := 1
	current := t.root
	for !t.nodes[current].leaf && len(t.nodes[current].entries) > 0 {
		current = t.nodes[current].entries[0].child
		h++
	}
	return h
}
