package api

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"graph_router/pkg/graph"
	"graph_router/pkg/layout"
	"graph_router/pkg/routing"
)

// Snapshot is one published graph together with everything built from it.
// Snapshots are immutable; a new graph replaces the whole snapshot.
type Snapshot struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Source    string

	Graph   *graph.Graph
	Router  routing.Router
	Index   *layout.Index
	Dropped int
}

// Store holds the current snapshot. Readers keep whatever snapshot they
// loaded, so a replacement never disturbs a query in flight.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Publish builds a snapshot around g and makes it current. dropped is the
// number of edge specs the build discarded.
func (s *Store) Publish(g *graph.Graph, dropped int, source string) *Snapshot {
	snap := &Snapshot{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Graph:     g,
		Router:    routing.NewEngine(g),
		Index:     layout.NewIndex(g),
		Dropped:   dropped,
	}
	s.Set(snap)
	return snap
}

// Set makes snap current.
func (s *Store) Set(snap *Snapshot) {
	s.cur.Store(snap)
}

// Current returns the current snapshot, or nil before the first publish.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}
