package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"mime"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator"
	"github.com/paulmach/orb"

	"graph_router/pkg/graph"
	"graph_router/pkg/layout"
	"graph_router/pkg/parse"
	"graph_router/pkg/routing"
)

const (
	maxGraphBody = 1 << 20
	maxPathBody  = 4 << 10
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store    *Store
	canvas   layout.Canvas
	validate *validator.Validate
	logger   *log.Logger
}

// NewHandlers creates handlers serving the graphs in store. Graphs posted
// to the API are laid out on canvas.
func NewHandlers(store *Store, canvas layout.Canvas, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{
		store:    store,
		canvas:   canvas,
		validate: validator.New(),
		logger:   logger,
	}
}

// HandleLoadGraph handles POST /api/v1/graph.
func (h *Handlers) HandleLoadGraph(w http.ResponseWriter, r *http.Request) {
	var req LoadGraphRequest
	if !h.decode(w, r, maxGraphBody, &req) {
		return
	}

	labels, err := parse.Nodes(req.Nodes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_nodes", "nodes", err.Error())
		return
	}
	specs, err := parse.Edges(req.Edges)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_edges", "edges", err.Error())
		return
	}

	var g *graph.Graph
	if req.Strict {
		g, err = graph.BuildStrict(labels, specs)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "unresolved_nodes", "edges", unresolvedDetails(err)...)
			return
		}
	} else {
		g = graph.Build(labels, specs)
	}

	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	layout.Random(g, h.canvas, rand.New(rand.NewPCG(seed, seed)))

	snap := h.store.Publish(g, len(specs)-len(g.Edges), "api")
	h.logger.Info("Graph published", "graph_id", snap.ID, "nodes", len(g.Nodes), "edges", len(g.Edges), "dropped", snap.Dropped)

	writeJSON(w, http.StatusCreated, graphResponse(snap))
}

// HandleGetGraph handles GET /api/v1/graph.
func (h *Handlers) HandleGetGraph(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, graphResponse(snap))
}

// HandleGeoJSON handles GET /api/v1/graph/geojson. With start and end
// query parameters the shortest path between them is marked.
func (h *Handlers) HandleGeoJSON(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w)
	if !ok {
		return
	}

	var path []*graph.Node
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if start != "" && end != "" {
		res, err := snap.Router.Route(r.Context(), start, end)
		if err != nil {
			h.routeError(w, snap, start, err)
			return
		}
		path = res.Path
	}

	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(layout.FeatureCollection(snap.Graph, path))
}

// HandlePath handles POST /api/v1/path.
func (h *Handlers) HandlePath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if !h.decode(w, r, maxPathBody, &req) {
		return
	}

	snap, ok := h.current(w)
	if !ok {
		return
	}
	if req.GraphID != "" && req.GraphID != snap.ID.String() {
		writeError(w, http.StatusConflict, "stale_graph", "graph_id")
		return
	}

	result, err := snap.Router.Route(r.Context(), req.Start, req.End)
	if err != nil {
		h.routeError(w, snap, req.Start, err)
		return
	}

	resp := PathResponse{
		GraphID:   snap.ID.String(),
		Path:      routing.Labels(result.Path),
		Distance:  result.Distance,
		Reachable: result.Reachable,
		Segments:  []SegmentJSON{},
	}
	for _, seg := range layout.Segments(result.Path) {
		sj := SegmentJSON{From: seg.From.Label, To: seg.To.Label}
		if e, ok := snap.Graph.EdgeBetween(seg.From, seg.To); ok {
			sj.Weight = e.Weight
		}
		for _, p := range seg.Line {
			sj.Geometry = append(sj.Geometry, [2]float64(p))
		}
		resp.Segments = append(resp.Segments, sj)
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleNodeAt handles GET /api/v1/nodes/at?x=&y=[&radius=].
func (h *Handlers) HandleNodeAt(w http.ResponseWriter, r *http.Request) {
	p, radius, ok := pointQuery(w, r, "radius", layout.NodeRadius)
	if !ok {
		return
	}
	snap, ok := h.current(w)
	if !ok {
		return
	}
	n, ok := snap.Index.NodeAt(p, radius)
	if !ok {
		writeError(w, http.StatusNotFound, "no_node_at_point", "")
		return
	}
	writeJSON(w, http.StatusOK, NodeJSON{Label: n.Label, X: n.Pos[0], Y: n.Pos[1]})
}

// HandleEdgeAt handles GET /api/v1/edges/at?x=&y=[&tolerance=].
func (h *Handlers) HandleEdgeAt(w http.ResponseWriter, r *http.Request) {
	p, tolerance, ok := pointQuery(w, r, "tolerance", layout.EdgeTolerance)
	if !ok {
		return
	}
	snap, ok := h.current(w)
	if !ok {
		return
	}
	e, ok := snap.Index.EdgeAt(p, tolerance)
	if !ok {
		writeError(w, http.StatusNotFound, "no_edge_at_point", "")
		return
	}
	writeJSON(w, http.StatusOK, EdgeJSON{ID: e.ID, Source: e.Source.Label, Target: e.Target.Label, Weight: e.Weight})
}

// pointQuery reads the x and y query parameters and an optional
// non-negative distance named key. On failure it writes the error response.
func pointQuery(w http.ResponseWriter, r *http.Request, key string, def float64) (orb.Point, float64, bool) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil || !finite(x) || !finite(y) {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "")
		return orb.Point{}, 0, false
	}
	dist := def
	if s := q.Get(key); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(v) || v < 0 {
			writeError(w, http.StatusBadRequest, "invalid_"+key, key)
			return orb.Point{}, 0, false
		}
		dist = v
	}
	return orb.Point{x, y}, dist, true
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", GraphLoaded: h.store.Current() != nil})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w)
	if !ok {
		return
	}
	s := snap.Graph.Stats()
	writeJSON(w, http.StatusOK, StatsResponse{
		GraphID:       snap.ID.String(),
		NumNodes:      s.NumNodes,
		NumEdges:      s.NumEdges,
		NumComponents: s.NumComponents,
		LargestSize:   s.LargestSize,
		TotalWeight:   s.TotalWeight,
	})
}

// decode reads a JSON body into v and validates it. On failure it writes
// the error response and returns false.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", jsonName(verrs[0].Field()), verrs[0].Tag())
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return false
	}
	return true
}

func (h *Handlers) current(w http.ResponseWriter) (*Snapshot, bool) {
	snap := h.store.Current()
	if snap == nil {
		writeError(w, http.StatusNotFound, "no_graph", "")
		return nil, false
	}
	return snap, true
}

func (h *Handlers) routeError(w http.ResponseWriter, snap *Snapshot, start string, err error) {
	switch {
	case errors.Is(err, routing.ErrNodeNotFound):
		field := "end"
		if _, ok := snap.Graph.NodeByLabel(start); !ok {
			field = "start"
		}
		writeError(w, http.StatusNotFound, "node_not_found", field)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
	default:
		h.logger.Error("Route failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func graphResponse(snap *Snapshot) GraphResponse {
	g := snap.Graph
	resp := GraphResponse{
		GraphID:   snap.ID.String(),
		CreatedAt: snap.CreatedAt,
		Source:    snap.Source,
		Nodes:     make([]NodeJSON, len(g.Nodes)),
		Edges:     make([]EdgeJSON, len(g.Edges)),
		Dropped:   snap.Dropped,
	}
	for i, n := range g.Nodes {
		resp.Nodes[i] = NodeJSON{Label: n.Label, X: n.Pos[0], Y: n.Pos[1]}
	}
	for i, e := range g.Edges {
		resp.Edges[i] = EdgeJSON{ID: e.ID, Source: e.Source.Label, Target: e.Target.Label, Weight: e.Weight}
	}
	return resp
}

func unresolvedDetails(err error) []string {
	var details []string
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			details = append(details, e.Error())
		}
		return details
	}
	return []string{err.Error()}
}

var jsonNames = map[string]string{
	"Nodes":   "nodes",
	"Edges":   "edges",
	"Start":   "start",
	"End":     "end",
	"GraphID": "graph_id",
}

func jsonName(field string) string {
	if n, ok := jsonNames[field]; ok {
		return n
	}
	return field
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string, details ...string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field, Details: details})
}
