package rtree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiliangbetter/hdmap/geom"
)

func box(minX, minY, maxX, maxY float64) geom.BoundingBox {
	return geom.NewBoundingBox(geom.Point{X: minX, Y: minY}, geom.Point{X: maxX, Y: maxY})
}

// checkInvariants walks the whole tree and verifies the structural
// invariants: capacity, parent back-references, exact box unions, and that
// every inserted element appears in exactly one leaf entry.
func checkInvariants(t *testing.T, tree *RTree) {
	t.Helper()

	require.Equal(t, nilNode, tree.nodes[tree.root].parent, "root must have no parent")

	seen := make(map[uint64]int)
	var walk func(n int32)
	walk = func(n int32) {
		nd := &tree.nodes[n]
		require.LessOrEqual(t, len(nd.entries), MaxEntries, "node over capacity")

		if nd.leaf {
			for _, e := range nd.entries {
				seen[e.item]++
			}
			return
		}

		for _, e := range nd.entries {
			child := &tree.nodes[e.child]
			require.Equal(t, n, child.parent, "child parent back-reference is stale")
			require.Equal(t, child.boundingBox(), e.bbox, "internal entry box is not the exact union of the child")
			walk(e.child)
		}
	}
	walk(tree.root)

	require.Len(t, seen, tree.Len(), "element count does not match leaf entries")
	for item, n := range seen {
		require.Equal(t, 1, n, "element %d appears in %d leaf entries", item, n)
	}
}

func TestInsertAndQuery(t *testing.T) {
	tree := New()

	tree.Insert(box(0, 0, 10, 10), 1)
	tree.Insert(box(20, 20, 30, 30), 2)
	tree.Insert(box(5, 5, 15, 15), 3)

	assert.Equal(t, 3, tree.Len())

	results := tree.Query(box(0, 0, 10, 10))
	assert.ElementsMatch(t, []uint64{1, 3}, results)

	checkInvariants(t, tree)
}

func TestQueryRadiusIsSupersetBySquare(t *testing.T) {
	tree := New()

	tree.Insert(box(0, 0, 2, 2), 1)
	tree.Insert(box(100, 100, 102, 102), 2)
	tree.Insert(box(8, 8, 10, 10), 3)

	results := tree.QueryRadius(geom.Point{X: 5, Y: 5}, 10)
	assert.ElementsMatch(t, []uint64{1, 3}, results)

	// The broad phase is a square: a box inside the square but outside
	// the circle is still a candidate. The caller filters it out.
	tree.Insert(box(14, 14, 14, 14), 4)
	results = tree.QueryRadius(geom.Point{X: 5, Y: 5}, 10)
	assert.Contains(t, results, uint64(4))
}

func TestEmptyTree(t *testing.T) {
	tree := New()

	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 1, tree.Height())
	assert.Empty(t, tree.Query(box(0, 0, 100, 100)))
}

func TestClear(t *testing.T) {
	tree := New()
	for i := range 50 {
		f := float64(i)
		tree.Insert(box(f, f, f+1, f+1), uint64(i))
	}
	require.Equal(t, 50, tree.Len())
	require.Greater(t, tree.Height(), 1)

	tree.Clear()
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 1, tree.Height())
	assert.Empty(t, tree.Query(box(-1000, -1000, 1000, 1000)))

	// The tree stays usable after a clear.
	tree.Insert(box(0, 0, 1, 1), 7)
	assert.Equal(t, []uint64{7}, tree.Query(box(0, 0, 1, 1)))
}

func TestSplitPreservesMembership(t *testing.T) {
	tree := New()

	// Enough entries to force several levels of splits.
	for i := range 100 {
		f := float64(i) * 10
		tree.Insert(box(f, f, f+5, f+5), uint64(i))
	}

	assert.Equal(t, 100, tree.Len())
	assert.Greater(t, tree.Height(), 1)

	results := tree.Query(box(0, 0, 1000, 1000))
	require.Len(t, results, 100)

	want := make([]uint64, 100)
	for i := range want {
		want[i] = uint64(i)
	}
	assert.ElementsMatch(t, want, results)

	checkInvariants(t, tree)
}

func TestSizeMonotonicity(t *testing.T) {
	tree := New()
	for i := range 30 {
		f := float64(i % 7)
		tree.Insert(box(f, f, f+2, f+2), uint64(i))
		assert.Equal(t, i+1, tree.Len())
	}
}

func TestRoundTripContainment(t *testing.T) {
	tree := New()

	a := box(10, 10, 20, 20)
	b := box(50, 50, 60, 60)
	tree.Insert(a, 1)
	tree.Insert(b, 2)

	p := geom.Point{X: 15, Y: 12}
	require.True(t, a.Contains(p))

	// Any query box covering A finds an entry whose stored box still
	// contains the point.
	for _, q := range []geom.BoundingBox{a, box(0, 0, 100, 100), box(10, 10, 20, 20)} {
		results := tree.Query(q)
		assert.Contains(t, results, uint64(1))
	}
}

func TestInvariantsUnderRandomInserts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tree := New()

	for i := range 300 {
		x := rng.Float64() * 1000
		y := rng.Float64() * 1000
		w := rng.Float64() * 50
		h := rng.Float64() * 50
		tree.Insert(box(x, y, x+w, y+h), uint64(i))

		if i%25 == 0 {
			checkInvariants(t, tree)
		}
	}
	checkInvariants(t, tree)

	results := tree.Query(box(-100, -100, 1200, 1200))
	assert.Len(t, results, 300)
}

func TestDegeneratePointEntries(t *testing.T) {
	tree := New()

	// Point elements (traffic lights, signs) index degenerate boxes.
	for i := range 20 {
		p := geom.Point{X: float64(i), Y: float64(i)}
		tree.Insert(geom.PointBox(p), uint64(i))
	}

	results := tree.Query(box(5, 5, 9, 9))
	assert.ElementsMatch(t, []uint64{5, 6, 7, 8, 9}, results)
	checkInvariants(t, tree)
}

func TestIdenticalBoxes(t *testing.T) {
	tree := New()

	// All entries share one box; seeds degenerate to distance zero.
	for i := range 25 {
		tree.Insert(box(0, 0, 1, 1), uint64(i))
	}

	results := tree.Query(box(0, 0, 1, 1))
	assert.Len(t, results, 25)
	checkInvariants(t, tree)
}

func TestStats(t *testing.T) {
	tree := New()

	s := tree.Stats()
	assert.Equal(t, Stats{Count: 0, Height: 1, Nodes: 1, Leaves: 1}, s)

	for i := range 100 {
		f := float64(i) * 3
		tree.Insert(box(f, 0, f+1, 1), uint64(i))
	}

	s = tree.Stats()
	assert.Equal(t, 100, s.Count)
	assert.Greater(t, s.Height, 1)
	assert.Greater(t, s.Nodes, s.Leaves)
}
