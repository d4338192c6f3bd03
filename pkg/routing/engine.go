package routing

import (
	"context"
	"errors"
	"fmt"

	"graph_router/pkg/graph"
)

// ErrNodeNotFound is returned when a start or end label names no node.
var ErrNodeNotFound = errors.New("node not found")

// Result is the output of a shortest-path query.
type Result struct {
	Start *graph.Node
	End   *graph.Node

	// Path runs from Start to End inclusive. When End is unreachable it is
	// the single element [End], the same shape as a start == end query;
	// use Reachable to tell them apart.
	Path      []*graph.Node
	Distance  int
	Reachable bool

	dist map[*graph.Node]int
}

// DistanceTo returns the best distance the search recorded for n. Nodes the
// search never reached report false. Only nodes closer than End are
// guaranteed final.
func (r *Result) DistanceTo(n *graph.Node) (int, bool) {
	d, ok := r.dist[n]
	return d, ok
}

// Router is the interface for shortest-path queries.
type Router interface {
	Route(ctx context.Context, start, end string) (*Result, error)
}

// Engine implements Router over one immutable graph. It is safe for
// concurrent use.
type Engine struct {
	g *graph.Graph
}

// NewEngine creates a routing engine for g.
func NewEngine(g *graph.Graph) *Engine {
	return &Engine{g: g}
}

// Graph returns the graph the engine routes over.
func (e *Engine) Graph() *graph.Graph {
	return e.g
}

// Route computes the shortest path between two labelled nodes.
func (e *Engine) Route(ctx context.Context, start, end string) (*Result, error) {
	return Solve(ctx, e.g, start, end)
}

// Solve runs Dijkstra between the first nodes labelled start and end.
func Solve(ctx context.Context, g *graph.Graph, start, end string) (*Result, error) {
	// Step 1: Resolve endpoints.
	startNode, ok := g.NodeByLabel(start)
	if !ok {
		return nil, fmt.Errorf("start %q: %w", start, ErrNodeNotFound)
	}
	endNode, ok := g.NodeByLabel(end)
	if !ok {
		return nil, fmt.Errorf("end %q: %w", end, ErrNodeNotFound)
	}

	// Step 2: Search.
	qs, err := search(ctx, g, startNode, endNode)
	if err != nil {
		return nil, err
	}

	// Step 3: Reconstruct.
	res := &Result{
		Start: startNode,
		End:   endNode,
		Path:  qs.pathTo(endNode),
		dist:  qs.dist,
	}
	if d, ok := qs.dist[endNode]; ok {
		res.Distance = d
		res.Reachable = true
	}
	return res, nil
}

// FindShortestPath returns the shortest path from start to end.
//
// The result is empty when either label is unknown, [start] when
// start == end, and [end] when end cannot be reached from start.
func FindShortestPath(g *graph.Graph, start, end string) []*graph.Node {
	res, err := Solve(context.Background(), g, start, end)
	if err != nil {
		return nil
	}
	return res.Path
}

// PathWeight sums the lightest edge between each pair of consecutive path
// nodes. It returns false if some pair is not adjacent in g.
func PathWeight(g *graph.Graph, path []*graph.Node) (int, bool) {
	total := 0
	for i := 0; i+1 < len(path); i++ {
		e, ok := g.EdgeBetween(path[i], path[i+1])
		if !ok {
			return 0, false
		}
		total += e.Weight
	}
	return total, true
}

// Labels returns the labels of path, in order.
func Labels(path []*graph.Node) []string {
	out := make([]string, len(path))
	for i, n := range path {
		out[i] = n.Label
	}
	return out
}
