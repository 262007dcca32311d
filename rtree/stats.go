package rtree

// Stats describes the shape of the tree.
type Stats struct {
	// Count is the number of inserted elements.
	Count int
	// Height is the number of levels (1 for an empty tree).
	Height int
	// Nodes is the number of live nodes reachable from the root.
	Nodes int
	// Leaves is the number of reachable leaf nodes.
	Leaves int
}

// Stats walks the tree and returns its shape.
func (t *RTree) Stats() Stats {
	s := Stats{
		Count:  t.count,
		Height: t.Height(),
	}
	t.statsNode(t.root, &s)
	return s
}

func (t *RTree) statsNode(n int32, s *Stats) {
	s.Nodes++
	if t.nodes[n].leaf {
		s.Leaves++
		return
	}
	for _, e := range t.nodes[n].entries {
		t.statsNode(e.child, s)
	}
}
