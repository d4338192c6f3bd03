// Package source loads graphs from files: YAML graph files written in the
// node/edge list grammar, and OpenStreetMap extracts.
package source

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"graph_router/pkg/graph"
	"graph_router/pkg/layout"
	"graph_router/pkg/osm"
	"graph_router/pkg/parse"
)

var (
	// ErrUnknownFormat is returned for files with an unsupported extension.
	ErrUnknownFormat = errors.New("unknown graph file format")

	// ErrBadPosition is returned when a file with positions lacks a
	// lon/lat pair for some node.
	ErrBadPosition = errors.New("missing or malformed position")
)

// File is the YAML graph file layout.
//
//	nodes: A, B, C
//	edges: A-B 2, B-C 3, A-C 10
//	start: A
//	end: C
//
// Files converted from map data also carry a lon/lat pair per label under
// positions; every node must then have one.
type File struct {
	Nodes     string               `yaml:"nodes"`
	Edges     string               `yaml:"edges"`
	Start     string               `yaml:"start,omitempty"`
	End       string               `yaml:"end,omitempty"`
	Strict    bool                 `yaml:"strict,omitempty"`
	Positions map[string][]float64 `yaml:"positions,omitempty"`
}

// Loaded is a graph read from disk.
type Loaded struct {
	Path  string
	Graph *graph.Graph
	Start string
	End   string

	// Dropped counts edge specs naming unknown nodes.
	Dropped int

	// Geographic is true when node positions are lon/lat rather than
	// canvas coordinates.
	Geographic bool
}

// Place lays the graph out on c: imported maps are projected, other graphs
// get random positions drawn from seed.
func (l *Loaded) Place(c layout.Canvas, seed uint64) {
	if l.Geographic {
		layout.Project(l.Graph, c)
		return
	}
	layout.Random(l.Graph, c, rand.New(rand.NewPCG(seed, seed)))
}

// Options tunes Load.
type Options struct {
	OSM osm.ParseOptions
}

// Load reads a graph file, choosing the reader by extension: .yaml/.yml,
// .osm (XML) or .pbf.
func Load(ctx context.Context, path string, opts Options) (*Loaded, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".osm", ".pbf":
		return loadOSM(ctx, path, opts)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

func loadYAML(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	g, dropped, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Loaded{
		Path:       path,
		Graph:      g,
		Start:      f.Start,
		End:        f.End,
		Dropped:    dropped,
		Geographic: len(f.Positions) > 0,
	}, nil
}

// Build parses the file's lists and builds the graph, returning how many
// edge specs were dropped. With Strict set, edges naming unknown nodes are
// an error instead.
func (f *File) Build() (*graph.Graph, int, error) {
	labels, err := parse.Nodes(f.Nodes)
	if err != nil {
		return nil, 0, fmt.Errorf("nodes: %w", err)
	}
	specs, err := parse.Edges(f.Edges)
	if err != nil {
		return nil, 0, fmt.Errorf("edges: %w", err)
	}

	var g *graph.Graph
	if f.Strict {
		if g, err = graph.BuildStrict(labels, specs); err != nil {
			return nil, 0, err
		}
	} else {
		g = graph.Build(labels, specs)
	}

	if len(f.Positions) > 0 {
		for _, n := range g.Nodes {
			p, ok := f.Positions[n.Label]
			if !ok || len(p) != 2 {
				return nil, 0, fmt.Errorf("positions: node %q: %w", n.Label, ErrBadPosition)
			}
			n.Pos = orb.Point{p[0], p[1]}
		}
	}
	return g, len(specs) - len(g.Edges), nil
}

// NewFile builds the file form of labels and specs. positions may be nil.
func NewFile(labels []string, specs []graph.EdgeSpec, positions map[string]orb.Point) *File {
	f := &File{Nodes: strings.Join(labels, ", "), Edges: parse.Format(specs)}
	if len(positions) > 0 {
		f.Positions = make(map[string][]float64, len(positions))
		for label, p := range positions {
			f.Positions[label] = []float64{p.Lon(), p.Lat()}
		}
	}
	return f
}

func loadOSM(ctx context.Context, path string, opts Options) (*Loaded, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer fh.Close()

	var res *osm.Result
	if strings.EqualFold(filepath.Ext(path), ".pbf") {
		res, err = osm.Parse(ctx, fh, opts.OSM)
	} else {
		res, err = osm.ParseXML(ctx, fh, opts.OSM)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Loaded{Path: path, Graph: res.Graph(), Geographic: true}, nil
}

// WriteFile stores f as YAML. The file is written to a temporary name and
// renamed into place.
func WriteFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode graph file: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
