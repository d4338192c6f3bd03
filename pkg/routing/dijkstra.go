package routing

import (
	"cmp"
	"context"
	"math"
	"slices"

	"graph_router/pkg/graph"
	"graph_router/pkg/pqueue"
)

// maxDist is the largest representable distance. Sums that would pass it
// saturate instead of wrapping.
const maxDist = math.MaxInt

// ctxCheckInterval is how many extractions pass between context checks.
const ctxCheckInterval = 100

// pqItem is a priority queue entry. A node may have several live entries;
// only the one matching dist[node] is current.
type pqItem struct {
	node *graph.Node
	dist int
}

func byDist(a, b pqItem) int { return cmp.Compare(a.dist, b.dist) }

// queryState holds per-query distance and predecessor maps. A node has a
// dist entry only once it has been reached.
// It is owned by one search and dropped when the search returns.
type queryState struct {
	dist     map[*graph.Node]int
	prev     map[*graph.Node]*graph.Node
	pq       *pqueue.Heap[pqItem]
	numNodes int
}

func newQueryState(g *graph.Graph) *queryState {
	qs := &queryState{
		dist: make(map[*graph.Node]int, len(g.Nodes)),
		prev: make(map[*graph.Node]*graph.Node, len(g.Nodes)),
		pq:   pqueue.NewWithCapacity(byDist, len(g.Nodes)),

		numNodes: len(g.Nodes),
	}
	return qs
}

// addDist returns d+w, saturating at maxDist. Both are non-negative.
func addDist(d, w int) int {
	if w > maxDist-d {
		return maxDist
	}
	return d + w
}

// search runs Dijkstra from start and stops the first time end is extracted.
// Edge weights are assumed non-negative.
func search(ctx context.Context, g *graph.Graph, start, end *graph.Node) (*queryState, error) {
	qs := newQueryState(g)
	qs.dist[start] = 0
	qs.pq.Push(pqItem{node: start, dist: 0})

	iterations := 0
	for !qs.pq.IsEmpty() {
		iterations++
		if iterations%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		item, err := qs.pq.ExtractMin()
		if err != nil {
			return nil, err
		}
		current := item.node

		if current == end {
			break
		}
		if item.dist > qs.dist[current] {
			continue // stale entry
		}

		for neighbor, weight := range g.NeighborsOf(current) {
			candidate := addDist(qs.dist[current], weight)
			if d, reached := qs.dist[neighbor]; !reached || candidate < d {
				qs.dist[neighbor] = candidate
				qs.prev[neighbor] = current
				qs.pq.Push(pqItem{node: neighbor, dist: candidate})
			}
		}
	}

	return qs, nil
}

// pathTo walks predecessors back from end. When end was never reached the
// result is just [end]. The walk stops after numNodes nodes.
func (qs *queryState) pathTo(end *graph.Node) []*graph.Node {
	path := []*graph.Node{end}
	for n := qs.prev[end]; n != nil && len(path) < qs.numNodes; n = qs.prev[n] {
		path = append(path, n)
	}
	slices.Reverse(path)
	return path
}
