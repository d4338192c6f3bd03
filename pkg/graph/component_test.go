package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	// Initially all separate.
	for i := range 5 {
		assert.Equal(t, i, uf.Find(i))
	}

	assert.True(t, uf.Union(0, 1))
	assert.True(t, uf.Union(2, 3))
	assert.Equal(t, uf.Find(0), uf.Find(1))
	assert.Equal(t, uf.Find(2), uf.Find(3))
	assert.NotEqual(t, uf.Find(0), uf.Find(2))

	// Union the two groups.
	assert.True(t, uf.Union(1, 3))
	assert.False(t, uf.Union(0, 2), "already joined")
	assert.Equal(t, uf.Find(0), uf.Find(3))
	assert.Equal(t, 4, uf.Size(2))
	assert.Equal(t, 1, uf.Size(4))
}

func TestComponents(t *testing.T) {
	// Component 1: A - B - C, component 2: D - E, component 3: F alone.
	g := Build([]string{"A", "B", "C", "D", "E", "F"}, []EdgeSpec{
		{"A", "B", 1},
		{"D", "E", 3},
		{"B", "C", 2},
	})

	comps := g.Components()
	require.Len(t, comps, 3)

	labels := func(c []*Node) []string {
		out := make([]string, len(c))
		for i, n := range c {
			out[i] = n.Label
		}
		return out
	}
	assert.Equal(t, []string{"A", "B", "C"}, labels(comps[0]))
	assert.Equal(t, []string{"D", "E"}, labels(comps[1]))
	assert.Equal(t, []string{"F"}, labels(comps[2]))

	a, _ := g.NodeByLabel("A")
	c, _ := g.NodeByLabel("C")
	d, _ := g.NodeByLabel("D")
	assert.True(t, g.Connected(a, c))
	assert.False(t, g.Connected(a, d))
	assert.True(t, g.Connected(d, d))
}

func TestStats(t *testing.T) {
	g := Build([]string{"A", "B", "C", "D"}, []EdgeSpec{
		{"A", "B", 2},
		{"B", "C", 3},
	})

	assert.Equal(t, Stats{
		NumNodes:      4,
		NumEdges:      2,
		NumComponents: 2,
		LargestSize:   3,
		TotalWeight:   5,
	}, g.Stats())

	assert.Equal(t, Stats{}, Build(nil, nil).Stats())
	assert.Nil(t, (&Graph{}).Components())
}
