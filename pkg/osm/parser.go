// Package osm imports OpenStreetMap ways as an undirected weighted graph.
// Node labels are OSM node IDs and edge weights are whole meters.
package osm

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"graph_router/pkg/geo"
	"graph_router/pkg/graph"
)

// Profile selects which ways become edges.
type Profile string

const (
	ProfileCar  Profile = "car"
	ProfileFoot Profile = "foot"
	ProfileAny  Profile = "any"
)

// ParseProfile validates a profile name.
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(s); p {
	case ProfileCar, ProfileFoot, ProfileAny:
		return p, nil
	case "":
		return ProfileCar, nil
	default:
		return "", fmt.Errorf("unknown profile %q", s)
	}
}

// carHighways lists highway tag values accessible by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// footExcluded lists highway values pedestrians may not use.
var footExcluded = map[string]bool{
	"motorway":      true,
	"motorway_link": true,
	"trunk":         true,
	"trunk_link":    true,
	"construction":  true,
	"proposed":      true,
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	return tags.Find("motor_vehicle") != "no"
}

func isFootAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if hw == "" || footExcluded[hw] {
		return false
	}
	if tags.Find("foot") == "no" {
		return false
	}
	access := tags.Find("access")
	return access != "no" && access != "private"
}

func (p Profile) accepts(tags osm.Tags) bool {
	switch p {
	case ProfileFoot:
		return isFootAccessible(tags)
	case ProfileAny:
		return tags.Find("highway") != ""
	default:
		return isCarAccessible(tags)
	}
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only edges with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(p orb.Point) bool {
	return p.Lat() >= b.MinLat && p.Lat() <= b.MaxLat && p.Lon() >= b.MinLng && p.Lon() <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox    BBox
	Profile Profile
	Logger  *log.Logger // defaults to log.Default()
}

func (o ParseOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// Result holds an imported graph before it is built.
type Result struct {
	Labels    []string
	Specs     []graph.EdgeSpec
	Positions map[string]orb.Point // lon/lat by label
}

// Graph builds the imported graph with node positions set to lon/lat.
func (r *Result) Graph() *graph.Graph {
	g := graph.Build(r.Labels, r.Specs)
	for _, n := range g.Nodes {
		n.Pos = r.Positions[n.Label]
	}
	return g
}

// LargestComponent returns a copy of r restricted to its largest connected
// component. Ties go to the component discovered first.
func (r *Result) LargestComponent() *Result {
	var largest []*graph.Node
	for _, c := range graph.Build(r.Labels, r.Specs).Components() {
		if len(c) > len(largest) {
			largest = c
		}
	}

	keep := make(map[string]bool, len(largest))
	for _, n := range largest {
		keep[n.Label] = true
	}

	out := &Result{Positions: make(map[string]orb.Point, len(keep))}
	for _, l := range r.Labels {
		if keep[l] {
			out.Labels = append(out.Labels, l)
			out.Positions[l] = r.Positions[l]
		}
	}
	for _, s := range r.Specs {
		if keep[s.From] {
			out.Specs = append(out.Specs, s)
		}
	}
	return out
}

// collector accumulates accepted ways and node coordinates.
type collector struct {
	opt    ParseOptions
	ways   [][]osm.NodeID
	needed map[osm.NodeID]struct{}
	coords map[osm.NodeID]orb.Point
}

func newCollector(opt ParseOptions) *collector {
	return &collector{
		opt:    opt,
		needed: make(map[osm.NodeID]struct{}),
		coords: make(map[osm.NodeID]orb.Point),
	}
}

func (c *collector) addWay(w *osm.Way) {
	if len(w.Nodes) < 2 || !c.opt.Profile.accepts(w.Tags) {
		return
	}
	ids := w.Nodes.NodeIDs()
	for _, id := range ids {
		c.needed[id] = struct{}{}
	}
	c.ways = append(c.ways, ids)
}

func (c *collector) addNode(n *osm.Node) {
	c.coords[n.ID] = n.Point()
}

// result turns the collected ways into labels and edge specs. Node labels
// appear in order of first use.
func (c *collector) result() *Result {
	log := c.opt.logger()
	useBBox := !c.opt.BBox.IsZero()

	res := &Result{Positions: make(map[string]orb.Point)}
	label := func(id osm.NodeID) string {
		l := strconv.FormatInt(int64(id), 10)
		if _, ok := res.Positions[l]; !ok {
			res.Positions[l] = c.coords[id]
			res.Labels = append(res.Labels, l)
		}
		return l
	}

	var skippedEdges, bboxFiltered int
	for _, ids := range c.ways {
		for i := 0; i+1 < len(ids); i++ {
			from, fromOK := c.coords[ids[i]]
			to, toOK := c.coords[ids[i+1]]
			if !fromOK || !toOK {
				skippedEdges++
				continue
			}
			if ids[i] == ids[i+1] {
				continue
			}

			// Bounding box filter: skip edges with any endpoint outside.
			if useBBox && (!c.opt.BBox.Contains(from) || !c.opt.BBox.Contains(to)) {
				bboxFiltered++
				continue
			}

			weight := int(math.Round(geo.Haversine(from, to)))
			if weight == 0 {
				weight = 1 // avoid zero-weight edges
			}
			res.Specs = append(res.Specs, graph.EdgeSpec{
				From:   label(ids[i]),
				To:     label(ids[i+1]),
				Weight: weight,
			})
		}
	}

	if skippedEdges > 0 {
		log.Warn("Skipped edges with missing node coordinates", "count", skippedEdges)
	}
	if bboxFiltered > 0 {
		log.Info("Filtered edges outside bounding box", "count", bboxFiltered)
	}
	log.Info("Imported graph", "nodes", len(res.Labels), "edges", len(res.Specs))

	return res
}

// Parse reads an OSM PBF file. The reader is consumed twice (seeks back to
// start for the second pass), so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (*Result, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	c := newCollector(opt)

	// Pass 1: Scan ways to collect referenced node IDs.
	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		if w, ok := scanner.Object().(*osm.Way); ok {
			c.addWay(w)
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	opt.logger().Debug("Pass 1 complete", "ways", len(c.ways), "nodes", len(c.needed))

	// Pass 2: Scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := c.needed[n.ID]; needed {
			c.addNode(n)
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	return c.result(), nil
}

// ParseXML reads an OSM XML document in a single pass.
func ParseXML(ctx context.Context, r io.Reader, opts ...ParseOptions) (*Result, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	c := newCollector(opt)

	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			c.addNode(o)
		case *osm.Way:
			c.addWay(o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan xml: %w", err)
	}

	return c.result(), nil
}
