package graph

import (
	"iter"

	"github.com/paulmach/orb"
)

// Node is a graph vertex identified by its label.
// Pos is only used for presentation; routing never reads it.
type Node struct {
	Label string
	Pos   orb.Point
}

// Edge is an undirected weighted edge between two nodes of the same graph.
type Edge struct {
	ID     int
	Source *Node
	Target *Node
	Weight int
}

// Other returns the endpoint of e opposite to n.
func (e *Edge) Other(n *Node) *Node {
	if e.Source == n {
		return e.Target
	}
	return e.Source
}

// EdgeSpec describes an edge by endpoint labels, before resolution.
type EdgeSpec struct {
	From   string
	To     string
	Weight int
}

// Graph holds nodes and undirected edges. It is not modified after Build.
type Graph struct {
	Nodes []*Node
	Edges []*Edge

	// incident[i] lists, in insertion order, the edges touching Nodes[i].
	incident [][]*Edge
	index    map[*Node]int
}

// NodeByLabel returns the first node with the given label.
func (g *Graph) NodeByLabel(label string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.Label == label {
			return n, true
		}
	}
	return nil, false
}

// NeighborsOf yields (neighbor, weight) for every edge incident to n, in
// edge insertion order. A self-loop yields n once.
func (g *Graph) NeighborsOf(n *Node) iter.Seq2[*Node, int] {
	return func(yield func(*Node, int) bool) {
		i, ok := g.index[n]
		if !ok {
			return
		}
		for _, e := range g.incident[i] {
			if !yield(e.Other(n), e.Weight) {
				return
			}
		}
	}
}

// Degree returns the number of edges incident to n.
func (g *Graph) Degree(n *Node) int {
	i, ok := g.index[n]
	if !ok {
		return 0
	}
	return len(g.incident[i])
}

// Contains reports whether n is one of g's nodes (by identity).
func (g *Graph) Contains(n *Node) bool {
	_, ok := g.index[n]
	return ok
}

// EdgeBetween returns the lightest edge joining a and b, if any.
func (g *Graph) EdgeBetween(a, b *Node) (*Edge, bool) {
	i, ok := g.index[a]
	if !ok {
		return nil, false
	}
	var best *Edge
	for _, e := range g.incident[i] {
		if e.Other(a) == b && (best == nil || e.Weight < best.Weight) {
			best = e
		}
	}
	return best, best != nil
}
