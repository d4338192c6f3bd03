// Package parse reads the comma-separated node and edge lists users type in.
//
// Node lists look like "A, B, C". Edge lists look like "A-B 2, B-C 3": each
// token is a label pair joined by '-', one space, and a base-10 weight.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"graph_router/pkg/graph"
)

var (
	// ErrEmptyInput is returned when a list holds nothing but whitespace.
	ErrEmptyInput = errors.New("empty input")

	// ErrNegativeWeight is returned for an edge weight below zero.
	ErrNegativeWeight = errors.New("negative edge weight")
)

// SyntaxError describes one malformed edge token.
type SyntaxError struct {
	Token  string
	Reason string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("edge %q: %s", e.Token, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Nodes splits a node list on commas and trims each label.
// Labels are kept verbatim otherwise, duplicates and empty labels included.
func Nodes(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyInput
	}
	parts := strings.Split(s, ",")
	labels := make([]string, len(parts))
	for i, p := range parts {
		labels[i] = strings.TrimSpace(p)
	}
	return labels, nil
}

// Edges parses an edge list. Labels are not checked against any node list;
// graph.Build drops edges whose labels it cannot resolve.
func Edges(s string) ([]graph.EdgeSpec, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyInput
	}
	parts := strings.Split(s, ",")
	specs := make([]graph.EdgeSpec, 0, len(parts))
	for _, p := range parts {
		spec, err := Edge(p)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Edge parses a single "A-B 2" token.
func Edge(token string) (graph.EdgeSpec, error) {
	tok := strings.TrimSpace(token)

	pair, weightStr, ok := strings.Cut(tok, " ")
	if !ok {
		return graph.EdgeSpec{}, &SyntaxError{Token: tok, Reason: "missing weight"}
	}
	// Fields after the second label are ignored: "A-B-C" joins A and B.
	labels := strings.Split(pair, "-")
	if len(labels) < 2 {
		return graph.EdgeSpec{}, &SyntaxError{Token: tok, Reason: "missing '-' between labels"}
	}
	from, to := labels[0], labels[1]

	weight, err := strconv.Atoi(strings.TrimSpace(weightStr))
	if err != nil {
		return graph.EdgeSpec{}, &SyntaxError{Token: tok, Reason: "weight is not an integer", Err: err}
	}
	if weight < 0 {
		return graph.EdgeSpec{}, &SyntaxError{Token: tok, Reason: "weight is negative", Err: ErrNegativeWeight}
	}

	return graph.EdgeSpec{From: from, To: to, Weight: weight}, nil
}

// Format renders specs back into the edge list grammar.
func Format(specs []graph.EdgeSpec) string {
	var b strings.Builder
	for i, s := range specs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s-%s %d", s.From, s.To, s.Weight)
	}
	return b.String()
}
