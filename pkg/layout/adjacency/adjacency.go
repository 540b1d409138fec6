// Package adjacency indexes a directed edge list by node identifier.
//
// Every identifier appearing as a source or target gets exactly one [Entry].
// An entry's egress set holds the distinct targets the node has outgoing
// edges to; parallel edges collapse here and nowhere else.
//
// Iteration order is first-seen order over the edge list (source before
// target within an edge), so layouts seeded from the index are reproducible.
//
// Identifiers are accepted verbatim, including the empty string.
package adjacency

import "github.com/matzehuels/sgviz/pkg/graph"

// Entry is one node's outgoing adjacency.
type Entry struct {
	Name string

	egress []string
	seen   map[string]struct{}
}

// Egress returns the distinct egress targets in first-seen order.
func (e *Entry) Egress() []string {
	out := make([]string, len(e.egress))
	copy(out, e.egress)
	return out
}

// HasEgress reports whether the entry has an outgoing edge to name.
func (e *Entry) HasEgress(name string) bool {
	_, ok := e.seen[name]
	return ok
}

// Degree returns the number of distinct egress targets.
func (e *Entry) Degree() int { return len(e.egress) }

func (e *Entry) add(target string) {
	if _, ok := e.seen[target]; ok {
		return
	}
	e.seen[target] = struct{}{}
	e.egress = append(e.egress, target)
}

// Adjacency maps node identifiers to their entries.
type Adjacency struct {
	entries []*Entry
	index   map[string]*Entry
}

// Build indexes edges. It never fails.
func Build(edges []graph.Edge) *Adjacency {
	a := &Adjacency{index: make(map[string]*Entry)}
	for _, e := range edges {
		src := a.ensure(e.Source)
		a.ensure(e.Target)
		src.add(e.Target)
	}
	return a
}

func (a *Adjacency) ensure(name string) *Entry {
	if e, ok := a.index[name]; ok {
		return e
	}
	e := &Entry{Name: name, seen: make(map[string]struct{})}
	a.index[name] = e
	a.entries = append(a.entries, e)
	return e
}

// Entries returns all entries in first-seen order.
func (a *Adjacency) Entries() []*Entry {
	out := make([]*Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Get returns the entry for name.
func (a *Adjacency) Get(name string) (*Entry, bool) {
	e, ok := a.index[name]
	return e, ok
}

// Len returns the number of distinct identifiers.
func (a *Adjacency) Len() int { return len(a.entries) }
