// Package layout places graph nodes on a drawing canvas and answers the
// geometric questions a renderer asks: which node is under the pointer,
// which segments to highlight for a path.
package layout

import (
	"math/rand/v2"

	"github.com/paulmach/orb"

	"graph_router/pkg/graph"
)

// Canvas is the drawing area in pixels. Nodes are kept Margin pixels away
// from every border.
type Canvas struct {
	Width  float64
	Height float64
	Margin float64
}

// DefaultCanvas matches the 800x600 drawing area of the web UI.
func DefaultCanvas() Canvas {
	return Canvas{Width: 800, Height: 600, Margin: 50}
}

// Bound returns the area nodes may be placed in.
func (c Canvas) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{c.Margin, c.Margin},
		Max: orb.Point{c.Width - c.Margin, c.Height - c.Margin},
	}
}

// Random assigns every node a uniform random position inside the canvas.
// It must run before g is shared; routing never reads positions.
func Random(g *graph.Graph, c Canvas, rng *rand.Rand) {
	b := c.Bound()
	for _, n := range g.Nodes {
		n.Pos = orb.Point{
			b.Min[0] + rng.Float64()*(b.Max[0]-b.Min[0]),
			b.Min[1] + rng.Float64()*(b.Max[1]-b.Min[1]),
		}
	}
}

// Project rescales geographic lon/lat positions into the canvas, keeping
// the aspect ratio and putting north at the top.
func Project(g *graph.Graph, c Canvas) {
	if len(g.Nodes) == 0 {
		return
	}

	mp := make(orb.MultiPoint, len(g.Nodes))
	for i, n := range g.Nodes {
		mp[i] = n.Pos
	}
	src := mp.Bound()
	dst := c.Bound()

	scale := 0.0
	if w := src.Max[0] - src.Min[0]; w > 0 {
		scale = (dst.Max[0] - dst.Min[0]) / w
	}
	if h := src.Max[1] - src.Min[1]; h > 0 {
		sy := (dst.Max[1] - dst.Min[1]) / h
		if scale == 0 || sy < scale {
			scale = sy
		}
	}

	center := dst.Center()
	srcCenter := src.Center()
	for _, n := range g.Nodes {
		n.Pos = orb.Point{
			center[0] + (n.Pos[0]-srcCenter[0])*scale,
			center[1] - (n.Pos[1]-srcCenter[1])*scale,
		}
	}
}
