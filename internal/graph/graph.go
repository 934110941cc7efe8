// Package graph assembles parsed nodes into an immutable, queryable
// structure: nodes keyed by id, edges from body links and declared
// relations, and the bookkeeping the rule checker needs (duplicates, broken
// references, parse failures).
package graph

import (
	"github.com/goliatone/go-notegraph/internal/nodes"
)

// Edge is a directed reference between two nodes, identified by id.
type Edge struct {
	From string
	To   string
	// Ref preserves the raw reference that produced the edge.
	Ref string
}

// Duplicate records an id claimed by more than one file. The first file
// keeps the id's graph slot; the rest are reported, never silently dropped.
type Duplicate struct {
	ID    string
	Paths []string
}

// BrokenRef records a reference whose target is not present in the node set.
type BrokenRef struct {
	FromID   string
	FromPath string
	Ref      string
}

// Graph is the product of one build pass. It is immutable once built; every
// accessor is safe for concurrent reads.
type Graph struct {
	byID       map[string]*nodes.Node
	ids        []string
	outgoing   map[string][]Edge
	incoming   map[string][]Edge
	edgeIndex  map[[2]string]bool
	duplicates []Duplicate
	broken     []BrokenRef
	failures   []nodes.ParseFailure
	files      int
}

// Node returns the node owning id, or nil.
func (g *Graph) Node(id string) *nodes.Node {
	return g.byID[id]
}

// IDs returns every node id in ascending order.
func (g *Graph) IDs() []string {
	return g.ids
}

// Len reports how many distinct ids the graph holds.
func (g *Graph) Len() int {
	return len(g.byID)
}

// Files reports how many Markdown files the parse pass discovered.
func (g *Graph) Files() int {
	return g.files
}

// Outgoing returns the resolved edges leaving id, in document order.
func (g *Graph) Outgoing(id string) []Edge {
	return g.outgoing[id]
}

// Incoming returns the resolved edges arriving at id.
func (g *Graph) Incoming(id string) []Edge {
	return g.incoming[id]
}

// HasEdge reports whether at least one resolved edge goes from one id to
// another.
func (g *Graph) HasEdge(from, to string) bool {
	return g.edgeIndex[[2]string{from, to}]
}

// Duplicates returns every id collision, sorted by id.
func (g *Graph) Duplicates() []Duplicate {
	return g.duplicates
}

// BrokenRefs returns every unresolvable reference, sorted by source path.
func (g *Graph) BrokenRefs() []BrokenRef {
	return g.broken
}

// Failures returns the parse-stage failures carried through for reporting.
func (g *Graph) Failures() []nodes.ParseFailure {
	return g.failures
}
