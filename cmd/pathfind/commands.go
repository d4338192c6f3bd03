package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"graph_router/pkg/layout"
	"graph_router/pkg/osm"
	"graph_router/pkg/routing"
	"graph_router/pkg/source"
)

var (
	pathColor  = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgRed)
	labelColor = color.New(color.FgCyan)
)

// RouteCmd finds a shortest path in a graph given inline or as a file.
type RouteCmd struct {
	Start string `arg:"" optional:"" help:"Start node label (defaults to the file's start)."`
	End   string `arg:"" optional:"" help:"End node label (defaults to the file's end)."`

	File    string `short:"f" help:"Graph file (.yaml, .osm, .pbf)." xor:"input"`
	Nodes   string `short:"n" help:"Comma-separated node labels, e.g. \"A, B, C\"." xor:"input" and:"inline"`
	Edges   string `short:"e" help:"Comma-separated edges, e.g. \"A-B 2, B-C 3\"." and:"inline"`
	Strict  bool   `help:"Fail when an edge names an unknown node instead of dropping it."`
	Profile string `help:"OSM import profile (car, foot, any)." default:"car" enum:"car,foot,any"`
	GeoJSON string `name:"geojson" help:"Also write the graph with the path marked as GeoJSON."`
}

// Run executes the route command.
func (c *RouteCmd) Run(g *Globals) error {
	loaded, err := c.load(g)
	if err != nil {
		return err
	}
	start, end := c.Start, c.End
	if start == "" {
		start = loaded.Start
	}
	if end == "" {
		end = loaded.End
	}
	if start == "" || end == "" {
		return errors.New("start and end nodes are required")
	}
	if loaded.Dropped > 0 {
		g.Logger.Warn("Dropped edges naming unknown nodes", "count", loaded.Dropped)
	}

	res, err := routing.Solve(context.Background(), loaded.Graph, start, end)
	if err != nil {
		return err
	}
	printResult(g, res)

	if c.GeoJSON != "" {
		loaded.Place(layout.DefaultCanvas(), 1)
		data, err := json.Marshal(layout.FeatureCollection(loaded.Graph, res.Path))
		if err != nil {
			return fmt.Errorf("encode geojson: %w", err)
		}
		if err := os.WriteFile(c.GeoJSON, data, 0o644); err != nil {
			return fmt.Errorf("write geojson: %w", err)
		}
		g.Logger.Info("Wrote GeoJSON", "path", c.GeoJSON)
	}
	return nil
}

func (c *RouteCmd) load(g *Globals) (*source.Loaded, error) {
	if c.File != "" {
		if c.Nodes != "" || c.Edges != "" {
			return nil, errors.New("--file cannot be combined with --nodes or --edges")
		}
		profile, err := osm.ParseProfile(c.Profile)
		if err != nil {
			return nil, err
		}
		return source.Load(context.Background(), c.File, source.Options{
			OSM: osm.ParseOptions{Profile: profile, Logger: g.Logger},
		})
	}
	if c.Nodes == "" {
		return nil, errors.New("either --file or --nodes/--edges is required")
	}
	f := source.File{Nodes: c.Nodes, Edges: c.Edges, Strict: c.Strict}
	gr, dropped, err := f.Build()
	if err != nil {
		return nil, err
	}
	return &source.Loaded{Graph: gr, Dropped: dropped}, nil
}

func printResult(g *Globals, res *routing.Result) {
	labels := routing.Labels(res.Path)
	if !res.Reachable {
		warnColor.Fprintf(g.Out, "%s is not reachable from %s\n", res.End.Label, res.Start.Label)
		fmt.Fprintf(g.Out, "path: %s\n", strings.Join(labels, " -> "))
		return
	}
	labelColor.Fprint(g.Out, "path: ")
	pathColor.Fprintln(g.Out, strings.Join(labels, " -> "))
	labelColor.Fprint(g.Out, "weight: ")
	fmt.Fprintln(g.Out, res.Distance)
}

// ConvertCmd imports an OSM extract and writes it as a YAML graph file.
type ConvertCmd struct {
	Input   string `arg:"" help:"OSM extract (.osm or .pbf)." type:"existingfile"`
	Output  string `short:"o" help:"Output YAML graph file." default:"graph.yaml"`
	BBox    string `name:"bbox" help:"Bounding box filter: minLat,minLng,maxLat,maxLng."`
	Profile string `help:"Which ways to import (car, foot, any)." default:"car" enum:"car,foot,any"`
	All     bool   `help:"Keep every component instead of only the largest."`
}

// Run executes the convert command.
func (c *ConvertCmd) Run(g *Globals) error {
	profile, err := osm.ParseProfile(c.Profile)
	if err != nil {
		return err
	}
	opts := osm.ParseOptions{Profile: profile, Logger: g.Logger}
	if c.BBox != "" {
		if opts.BBox, err = parseBBox(c.BBox); err != nil {
			return err
		}
		g.Logger.Info("Using bounding box filter", "lat", [2]float64{opts.BBox.MinLat, opts.BBox.MaxLat}, "lng", [2]float64{opts.BBox.MinLng, opts.BBox.MaxLng})
	}

	f, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var res *osm.Result
	if strings.EqualFold(filepath.Ext(c.Input), ".pbf") {
		res, err = osm.Parse(context.Background(), f, opts)
	} else {
		res, err = osm.ParseXML(context.Background(), f, opts)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", c.Input, err)
	}

	if !c.All {
		total := len(res.Labels)
		res = res.LargestComponent()
		g.Logger.Info("Kept largest component", "nodes", len(res.Labels), "of", total)
	}

	if err := source.WriteFile(c.Output, source.NewFile(res.Labels, res.Specs, res.Positions)); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(g.Out, "Wrote %d nodes, %d edges to %s\n", len(res.Labels), len(res.Specs), c.Output)
	return nil
}

func parseBBox(s string) (osm.BBox, error) {
	var b osm.BBox
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &b.MinLat, &b.MinLng, &b.MaxLat, &b.MaxLng); err != nil {
		return osm.BBox{}, fmt.Errorf("invalid bbox %q (expected minLat,minLng,maxLat,maxLng): %w", s, err)
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return osm.BBox{}, fmt.Errorf("invalid bbox %q: min exceeds max", s)
	}
	return b, nil
}
