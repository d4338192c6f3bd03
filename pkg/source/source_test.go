package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph_router/pkg/graph"
	"graph_router/pkg/layout"
	"graph_router/pkg/parse"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeTemp(t, "triangle.yaml", `
nodes: A, B, C
edges: A-B 2, B-C 3, A-C 10
start: A
end: C
`)
	loaded, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "A", loaded.Start)
	assert.Equal(t, "C", loaded.End)
	assert.False(t, loaded.Geographic)
	assert.Len(t, loaded.Graph.Nodes, 3)
	assert.Len(t, loaded.Graph.Edges, 3)
}

func TestLoadYAMLDropsUnresolvedEdges(t *testing.T) {
	path := writeTemp(t, "g.yml", "nodes: A, B\nedges: A-B 1, A-Z 4\n")
	loaded, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Len(t, loaded.Graph.Edges, 1)
	assert.Equal(t, 1, loaded.Dropped)
}

func TestLoadYAMLStrict(t *testing.T) {
	path := writeTemp(t, "g.yaml", "nodes: A, B\nedges: A-B 1, A-Z 4\nstrict: true\n")
	_, err := Load(context.Background(), path, Options{})

	var unresolved *graph.UnresolvedNodeError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"Z"}, unresolved.Missing)
}

func TestLoadYAMLGrammarErrors(t *testing.T) {
	path := writeTemp(t, "g.yaml", "nodes: A, B\nedges: A-B x\n")
	_, err := Load(context.Background(), path, Options{})

	var syn *parse.SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, "A-B x", syn.Token)

	path = writeTemp(t, "empty.yaml", "nodes: A\n")
	_, err = Load(context.Background(), path, Options{})
	assert.ErrorIs(t, err, parse.ErrEmptyInput)
}

func TestLoadUnknownFormat(t *testing.T) {
	path := writeTemp(t, "graph.txt", "A, B")
	_, err := Load(context.Background(), path, Options{})
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOSMXML(t *testing.T) {
	path := writeTemp(t, "map.osm", `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="1.3000" lon="103.8000"/>
  <node id="2" lat="1.3000" lon="103.8010"/>
  <way id="10">
    <nd ref="1"/><nd ref="2"/>
    <tag k="highway" v="residential"/>
  </way>
</osm>`)
	loaded, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)

	assert.True(t, loaded.Geographic)
	require.Len(t, loaded.Graph.Edges, 1)
	assert.Greater(t, loaded.Graph.Edges[0].Weight, 100)

	loaded.Place(layout.DefaultCanvas(), 1)
	bound := layout.DefaultCanvas().Bound().Pad(1e-6)
	for _, n := range loaded.Graph.Nodes {
		assert.True(t, bound.Contains(n.Pos), "%v outside canvas", n.Pos)
	}
}

func TestPlaceRandomIsSeeded(t *testing.T) {
	path := writeTemp(t, "g.yaml", "nodes: A, B, C\nedges: A-B 1\n")
	a, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	b, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)

	a.Place(layout.DefaultCanvas(), 42)
	b.Place(layout.DefaultCanvas(), 42)
	for i := range a.Graph.Nodes {
		assert.Equal(t, a.Graph.Nodes[i].Pos, b.Graph.Nodes[i].Pos)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	specs := []graph.EdgeSpec{{From: "A", To: "B", Weight: 2}, {From: "B", To: "C", Weight: 3}}
	f := NewFile([]string{"A", "B", "C"}, specs, nil)
	f.Start, f.End = "A", "C"
	require.NoError(t, WriteFile(path, f))

	loaded, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "A", loaded.Start)
	assert.Equal(t, "C", loaded.End)
	assert.False(t, loaded.Geographic)
	require.Len(t, loaded.Graph.Edges, 2)
	assert.Equal(t, 3, loaded.Graph.Edges[1].Weight)

	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileKeepsPositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.yaml")
	positions := map[string]orb.Point{
		"1": {103.8000, 1.3000},
		"2": {103.8010, 1.3000},
	}
	f := NewFile([]string{"1", "2"}, []graph.EdgeSpec{{From: "1", To: "2", Weight: 111}}, positions)
	require.NoError(t, WriteFile(path, f))

	loaded, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.True(t, loaded.Geographic)
	for _, n := range loaded.Graph.Nodes {
		assert.Equal(t, positions[n.Label], n.Pos)
	}

	// Projection keeps the east-west line horizontal.
	loaded.Place(layout.DefaultCanvas(), 1)
	a, b := loaded.Graph.Nodes[0].Pos, loaded.Graph.Nodes[1].Pos
	assert.InDelta(t, a[1], b[1], 1e-9)
	assert.Less(t, a[0], b[0])
}

func TestLoadYAMLIncompletePositions(t *testing.T) {
	path := writeTemp(t, "g.yaml", "nodes: A, B\nedges: A-B 1\npositions:\n  A: [1, 2]\n")
	_, err := Load(context.Background(), path, Options{})
	assert.ErrorIs(t, err, ErrBadPosition)

	path = writeTemp(t, "h.yaml", "nodes: A\nedges: A-A 1\npositions:\n  A: [1]\n")
	_, err = Load(context.Background(), path, Options{})
	assert.ErrorIs(t, err, ErrBadPosition)
}
