package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []int
	rank   []byte
	size   []int
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y int) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	// Union by rank.
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the number of elements in x's set.
func (uf *UnionFind) Size(x int) int {
	return uf.size[uf.Find(x)]
}

func (g *Graph) unionFind() *UnionFind {
	uf := NewUnionFind(len(g.Nodes))
	for _, e := range g.Edges {
		uf.Union(g.index[e.Source], g.index[e.Target])
	}
	return uf
}

// Components returns the connected components of g. Components are ordered
// by their first node, and nodes keep their graph order within a component.
func (g *Graph) Components() [][]*Node {
	if len(g.Nodes) == 0 {
		return nil
	}

	uf := g.unionFind()

	slot := make(map[int]int)
	var comps [][]*Node
	for i, n := range g.Nodes {
		root := uf.Find(i)
		c, ok := slot[root]
		if !ok {
			c = len(comps)
			slot[root] = c
			comps = append(comps, nil)
		}
		comps[c] = append(comps[c], n)
	}
	return comps
}

// Connected reports whether a path of any length joins a and b.
func (g *Graph) Connected(a, b *Node) bool {
	ia, okA := g.index[a]
	ib, okB := g.index[b]
	if !okA || !okB {
		return false
	}
	uf := g.unionFind()
	return uf.Find(ia) == uf.Find(ib)
}

// Stats summarizes a graph.
type Stats struct {
	NumNodes      int
	NumEdges      int
	NumComponents int
	LargestSize   int
	TotalWeight   int
}

// Stats computes summary counts for g.
func (g *Graph) Stats() Stats {
	s := Stats{NumNodes: len(g.Nodes), NumEdges: len(g.Edges)}
	for _, e := range g.Edges {
		s.TotalWeight += e.Weight
	}
	for _, c := range g.Components() {
		s.NumComponents++
		s.LargestSize = max(s.LargestSize, len(c))
	}
	return s
}
