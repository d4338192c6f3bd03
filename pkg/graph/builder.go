package graph

import (
	"errors"
	"fmt"
)

// UnresolvedNodeError reports an edge spec whose endpoint labels do not all
// name a node.
type UnresolvedNodeError struct {
	Spec    EdgeSpec
	Missing []string
}

func (e *UnresolvedNodeError) Error() string {
	return fmt.Sprintf("edge %s-%s %d: unknown node %q", e.Spec.From, e.Spec.To, e.Spec.Weight, e.Missing)
}

// Build creates a Graph from node labels and edge specs.
//
// One node is created per label, in order; duplicate labels are kept and
// lookups resolve to the first. Specs naming an unknown label are dropped
// without error. Edge IDs count up from 0 over the accepted specs.
func Build(labels []string, specs []EdgeSpec) *Graph {
	g, _ := build(labels, specs)
	return g
}

// BuildStrict is Build, but also returns an error joining one
// *UnresolvedNodeError per dropped spec. The returned graph is always usable.
func BuildStrict(labels []string, specs []EdgeSpec) (*Graph, error) {
	g, dropped := build(labels, specs)
	if len(dropped) == 0 {
		return g, nil
	}
	errs := make([]error, len(dropped))
	for i, d := range dropped {
		errs[i] = d
	}
	return g, errors.Join(errs...)
}

func build(labels []string, specs []EdgeSpec) (*Graph, []*UnresolvedNodeError) {
	g := &Graph{
		Nodes:    make([]*Node, len(labels)),
		incident: make([][]*Edge, len(labels)),
		index:    make(map[*Node]int, len(labels)),
	}

	// Step 1: Create nodes; remember the first node for each label.
	byLabel := make(map[string]*Node, len(labels))
	for i, label := range labels {
		n := &Node{Label: label}
		g.Nodes[i] = n
		g.index[n] = i
		if _, seen := byLabel[label]; !seen {
			byLabel[label] = n
		}
	}

	// Step 2: Resolve edge endpoints and build incidence lists.
	var dropped []*UnresolvedNodeError
	for _, s := range specs {
		src, srcOK := byLabel[s.From]
		dst, dstOK := byLabel[s.To]
		if !srcOK || !dstOK {
			d := &UnresolvedNodeError{Spec: s}
			if !srcOK {
				d.Missing = append(d.Missing, s.From)
			}
			if !dstOK {
				d.Missing = append(d.Missing, s.To)
			}
			dropped = append(dropped, d)
			continue
		}

		e := &Edge{ID: len(g.Edges), Source: src, Target: dst, Weight: s.Weight}
		g.Edges = append(g.Edges, e)

		si := g.index[src]
		g.incident[si] = append(g.incident[si], e)
		if dst != src {
			di := g.index[dst]
			g.incident[di] = append(g.incident[di], e)
		}
	}

	return g, dropped
}
