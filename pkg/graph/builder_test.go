package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type neighbor struct {
	label  string
	weight int
}

func collect(g *Graph, n *Node) []neighbor {
	var out []neighbor
	for m, w := range g.NeighborsOf(n) {
		out = append(out, neighbor{m.Label, w})
	}
	return out
}

func mustNode(t *testing.T, g *Graph, label string) *Node {
	t.Helper()
	n, ok := g.NodeByLabel(label)
	require.True(t, ok, "node %q not found", label)
	return n
}

func TestBuildTriangle(t *testing.T) {
	g := Build([]string{"A", "B", "C"}, []EdgeSpec{
		{"A", "B", 2},
		{"B", "C", 3},
		{"A", "C", 10},
	})

	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 3)

	// Edge IDs are sequential from 0 in input order.
	for i, e := range g.Edges {
		assert.Equal(t, i, e.ID)
	}

	a := mustNode(t, g, "A")
	assert.Equal(t, []neighbor{{"B", 2}, {"C", 10}}, collect(g, a))

	// Undirected: B sees A through the edge where it is the target.
	b := mustNode(t, g, "B")
	assert.Equal(t, []neighbor{{"A", 2}, {"C", 3}}, collect(g, b))
	assert.Equal(t, 2, g.Degree(b))
}

func TestBuildEmptyGraph(t *testing.T) {
	g := Build(nil, nil)

	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	_, ok := g.NodeByLabel("A")
	assert.False(t, ok)
}

func TestBuildDropsUnresolvedEdges(t *testing.T) {
	g := Build([]string{"X", "Y"}, []EdgeSpec{
		{"X", "Z", 5},
		{"X", "Y", 1},
	})

	require.Len(t, g.Edges, 1)
	assert.Equal(t, 0, g.Edges[0].ID, "IDs count accepted edges only")
	assert.Equal(t, "X", g.Edges[0].Source.Label)
	assert.Equal(t, "Y", g.Edges[0].Target.Label)
}

func TestBuildDuplicateLabelsFirstMatchWins(t *testing.T) {
	g := Build([]string{"A", "B", "A"}, []EdgeSpec{{"A", "B", 4}})

	require.Len(t, g.Nodes, 3, "duplicates are not collapsed")
	first, ok := g.NodeByLabel("A")
	require.True(t, ok)
	assert.Same(t, g.Nodes[0], first)
	assert.Same(t, g.Nodes[0], g.Edges[0].Source)
	assert.Empty(t, collect(g, g.Nodes[2]))
}

func TestNeighborsOfRestartable(t *testing.T) {
	g := Build([]string{"A", "B", "C"}, []EdgeSpec{{"A", "B", 1}, {"C", "A", 2}})
	a := mustNode(t, g, "A")

	first := collect(g, a)
	second := collect(g, a)
	assert.Equal(t, first, second)
	assert.Equal(t, []neighbor{{"B", 1}, {"C", 2}}, first)

	// Early break stops iteration.
	count := 0
	for range g.NeighborsOf(a) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestNeighborsOfSelfLoopAndForeignNode(t *testing.T) {
	g := Build([]string{"A"}, []EdgeSpec{{"A", "A", 7}})
	a := mustNode(t, g, "A")

	assert.Equal(t, []neighbor{{"A", 7}}, collect(g, a))
	assert.Empty(t, collect(g, &Node{Label: "A"}), "lookup is by identity")
}

func TestEdgeBetweenPicksLightest(t *testing.T) {
	g := Build([]string{"A", "B"}, []EdgeSpec{{"A", "B", 9}, {"B", "A", 4}})
	a, b := mustNode(t, g, "A"), mustNode(t, g, "B")

	e, ok := g.EdgeBetween(a, b)
	require.True(t, ok)
	assert.Equal(t, 4, e.Weight)

	_, ok = g.EdgeBetween(a, a)
	assert.False(t, ok)
}

func TestBuildStrict(t *testing.T) {
	g, err := BuildStrict([]string{"X", "Y"}, []EdgeSpec{
		{"X", "Z", 5},
		{"Q", "W", 1},
		{"X", "Y", 2},
	})
	require.Error(t, err)
	require.Len(t, g.Edges, 1, "graph is still built")

	var unresolved *UnresolvedNodeError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, EdgeSpec{"X", "Z", 5}, unresolved.Spec)
	assert.Equal(t, []string{"Z"}, unresolved.Missing)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 2)

	_, err = BuildStrict([]string{"X", "Y"}, []EdgeSpec{{"X", "Y", 2}})
	assert.NoError(t, err)
}
