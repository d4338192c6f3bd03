package layout

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"

	"graph_router/pkg/geo"
	"graph_router/pkg/graph"
)

// NodeRadius is the radius of a drawn node circle.
const NodeRadius = 20.0

// EdgeTolerance is how far from a drawn edge line a point still hits it.
const EdgeTolerance = 5.0

// Index answers point queries against a laid-out graph.
type Index struct {
	nodes rtree.RTreeG[*graph.Node]
	edges rtree.RTreeG[*graph.Edge]
	order map[*graph.Node]int
}

// NewIndex builds R-trees over node positions and edge bounding boxes.
// Positions must not change afterwards.
func NewIndex(g *graph.Graph) *Index {
	idx := &Index{order: make(map[*graph.Node]int, len(g.Nodes))}
	for i, n := range g.Nodes {
		idx.nodes.Insert(n.Pos, n.Pos, n)
		idx.order[n] = i
	}
	for _, e := range g.Edges {
		b := orb.MultiPoint{e.Source.Pos, e.Target.Pos}.Bound()
		idx.edges.Insert(b.Min, b.Max, e)
	}
	return idx
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int {
	return idx.nodes.Len()
}

// NodeAt returns the node nearest to p within radius. Ties go to the node
// that comes first in the graph.
func (idx *Index) NodeAt(p orb.Point, radius float64) (*graph.Node, bool) {
	var best *graph.Node
	bestDist := math.Inf(1)

	lo, hi := square(p, radius)
	idx.nodes.Search(lo, hi, func(_, _ [2]float64, n *graph.Node) bool {
		d := math.Hypot(n.Pos[0]-p[0], n.Pos[1]-p[1])
		if d <= radius && (d < bestDist || (d == bestDist && idx.order[n] < idx.order[best])) {
			best, bestDist = n, d
		}
		return true
	})
	return best, best != nil
}

// EdgeAt returns the edge whose segment passes nearest to p within
// tolerance.
func (idx *Index) EdgeAt(p orb.Point, tolerance float64) (*graph.Edge, bool) {
	var best *graph.Edge
	bestDist := math.Inf(1)

	lo, hi := square(p, tolerance)
	idx.edges.Search(lo, hi, func(_, _ [2]float64, e *graph.Edge) bool {
		d, _ := geo.PointToSegmentDist(p, e.Source.Pos, e.Target.Pos)
		if d <= tolerance && (d < bestDist || (d == bestDist && e.ID < best.ID)) {
			best, bestDist = e, d
		}
		return true
	})
	return best, best != nil
}

func square(p orb.Point, r float64) (lo, hi [2]float64) {
	return [2]float64{p[0] - r, p[1] - r}, [2]float64{p[0] + r, p[1] + r}
}
