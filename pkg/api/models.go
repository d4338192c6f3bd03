package api

import "time"

// LoadGraphRequest is the JSON body for POST /api/v1/graph. Nodes and
// Edges use the comma-separated list grammar ("A, B, C" and
// "A-B 2, B-C 3").
type LoadGraphRequest struct {
	Nodes  string  `json:"nodes" validate:"required,max=65536"`
	Edges  string  `json:"edges" validate:"required,max=262144"`
	Strict bool    `json:"strict"`
	Seed   *uint64 `json:"seed,omitempty"`
}

// PathRequest is the JSON body for POST /api/v1/path. GraphID, when set,
// must name the current graph.
type PathRequest struct {
	Start   string `json:"start" validate:"required"`
	End     string `json:"end" validate:"required"`
	GraphID string `json:"graph_id,omitempty" validate:"omitempty,uuid"`
}

// NodeJSON is a node and its canvas position.
type NodeJSON struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// EdgeJSON is an accepted edge.
type EdgeJSON struct {
	ID     int    `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// GraphResponse describes the current graph.
type GraphResponse struct {
	GraphID   string     `json:"graph_id"`
	CreatedAt time.Time  `json:"created_at"`
	Source    string     `json:"source"`
	Nodes     []NodeJSON `json:"nodes"`
	Edges     []EdgeJSON `json:"edges"`
	Dropped   int        `json:"dropped"`
}

// PathResponse is the JSON response for a path query. When the end node
// cannot be reached Path is [end] and Reachable is false.
type PathResponse struct {
	GraphID   string        `json:"graph_id"`
	Path      []string      `json:"path"`
	Distance  int           `json:"distance"`
	Reachable bool          `json:"reachable"`
	Segments  []SegmentJSON `json:"segments"`
}

// SegmentJSON is one hop of a path with its drawing geometry.
type SegmentJSON struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Weight   int          `json:"weight"`
	Geometry [][2]float64 `json:"geometry"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Field   string   `json:"field,omitempty"`
	Details []string `json:"details,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	GraphID       string `json:"graph_id"`
	NumNodes      int    `json:"num_nodes"`
	NumEdges      int    `json:"num_edges"`
	NumComponents int    `json:"num_components"`
	LargestSize   int    `json:"largest_component"`
	TotalWeight   int    `json:"total_weight"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status      string `json:"status"`
	GraphLoaded bool   `json:"graph_loaded"`
}
