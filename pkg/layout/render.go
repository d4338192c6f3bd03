package layout

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"graph_router/pkg/graph"
)

// Segment is one highlighted hop of a path.
type Segment struct {
	From *graph.Node
	To   *graph.Node
	Line orb.LineString
}

// Segments returns the hops between consecutive path nodes. Paths with
// fewer than two nodes have none.
func Segments(path []*graph.Node) []Segment {
	if len(path) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		segs = append(segs, Segment{
			From: path[i],
			To:   path[i+1],
			Line: orb.LineString{path[i].Pos, path[i+1].Pos},
		})
	}
	return segs
}

// FeatureCollection renders g as GeoJSON: one Point per node and one
// LineString per edge. Nodes and hops on path get "on_path": true.
func FeatureCollection(g *graph.Graph, path []*graph.Node) *geojson.FeatureCollection {
	onPath := make(map[*graph.Node]bool, len(path))
	type hop struct{ a, b *graph.Node }
	hops := make(map[hop]bool, len(path))
	for i, n := range path {
		onPath[n] = true
		if i > 0 {
			hops[hop{path[i-1], n}] = true
			hops[hop{n, path[i-1]}] = true
		}
	}

	fc := geojson.NewFeatureCollection()
	for _, n := range g.Nodes {
		f := geojson.NewFeature(n.Pos)
		f.Properties["label"] = n.Label
		f.Properties["on_path"] = onPath[n]
		fc.Append(f)
	}
	for _, e := range g.Edges {
		f := geojson.NewFeature(orb.LineString{e.Source.Pos, e.Target.Pos})
		f.Properties["id"] = e.ID
		f.Properties["weight"] = e.Weight
		f.Properties["source"] = e.Source.Label
		f.Properties["target"] = e.Target.Label
		f.Properties["on_path"] = hops[hop{e.Source, e.Target}]
		fc.Append(f)
	}
	return fc
}
