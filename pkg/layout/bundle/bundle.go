package bundle

import (
	"github.com/matzehuels/sgviz/pkg/errors"
	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/layout/adjacency"
)

// Layout defaults.
const (
	DefaultBeta         = 0.85
	DefaultRadiusMargin = 100
)

// Options configures a bundling pass.
type Options struct {
	Width        float64 // container width
	Height       float64 // container height
	Beta         float64 // bundling tension in [0, 1]
	RadiusMargin float64 // gap between the outer ring and the container edge
	LoopSize     float64 // self-loop extent; 0 uses DefaultLoopSize
}

// DefaultOptions returns options for an 800×800 container.
func DefaultOptions() Options {
	return Options{
		Width:        800,
		Height:       800,
		Beta:         DefaultBeta,
		RadiusMargin: DefaultRadiusMargin,
		LoopSize:     DefaultLoopSize,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Beta < 0 || o.Beta > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "beta must be in [0, 1], got %g", o.Beta)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "container size must be non-negative, got %gx%g", o.Width, o.Height)
	}
	if o.LoopSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "loop size must be non-negative, got %g", o.LoopSize)
	}
	return nil
}

// Placement is a positioned leaf.
type Placement struct {
	Name   string
	Angle  float64 // degrees, clockwise from up
	Radius float64
	X, Y   float64
}

// Result is the output of one bundling pass.
type Result struct {
	Hierarchy   *Hierarchy
	Placements  []Placement  // leaves in layout order
	Curves      []Curve      // one per layout edge
	Dropped     []graph.Edge // edges with an endpoint outside the node set
	InnerRadius float64
	Beta        float64
}

// Compute lays out g as a radial edge bundle.
//
// When g has nodes, edges whose source or target is not among them are
// dropped before the hierarchy is built and reported in Result.Dropped. An
// edges-only graph is laid out as given. Parallel edges share one curve.
func Compute(g graph.Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	edges, dropped := splitEdges(g)
	h := BuildHierarchy(adjacency.Build(edges))
	inner := InnerRadius(opts.Width, opts.Height, opts.RadiusMargin)
	Cluster(h, inner)

	res := &Result{
		Hierarchy:   h,
		Dropped:     dropped,
		InnerRadius: inner,
		Beta:        opts.Beta,
	}
	for _, leaf := range h.Leaves() {
		x, y := Project(leaf.Angle, leaf.Radius)
		res.Placements = append(res.Placements, Placement{
			Name:   leaf.Name,
			Angle:  leaf.Angle,
			Radius: leaf.Radius,
			X:      x,
			Y:      y,
		})
	}
	for _, le := range LayoutEdges(h) {
		res.Curves = append(res.Curves, route(le.Source, le.Target, opts.Beta, opts.LoopSize))
	}
	return res, nil
}

func splitEdges(g graph.Graph) (kept, dropped []graph.Edge) {
	if len(g.Nodes) == 0 {
		return g.Edges, nil
	}
	for _, e := range g.Edges {
		if g.Has(e.Source) && g.Has(e.Target) {
			kept = append(kept, e)
		} else {
			dropped = append(dropped, e)
		}
	}
	return kept, dropped
}

// LayoutEdge pairs two hierarchy nodes joined by an edge.
type LayoutEdge struct {
	Source, Target *Node
}

// LayoutEdges resolves every egress target of every hierarchy node.
// Nodes are visited breadth-first and targets in first-seen order. Targets
// with no hierarchy node are skipped.
func LayoutEdges(h *Hierarchy) []LayoutEdge {
	var out []LayoutEdge
	for _, n := range h.Descendants() {
		if n.Entry == nil {
			continue
		}
		for _, name := range n.Entry.Egress() {
			if t, ok := h.Find(name); ok {
				out = append(out, LayoutEdge{Source: n, Target: t})
			}
		}
	}
	return out
}

// Highlight describes what to emphasize while a leaf is hovered.
type Highlight struct {
	Outgoing []int    // curve indices leaving the node
	Incoming []int    // curve indices entering the node
	Targets  []string // nodes the hovered node links to
	Sources  []string // nodes linking to the hovered node
}

// Highlight returns the curves and neighbours of the named leaf. An unknown
// name yields an empty Highlight.
func (r *Result) Highlight(name string) Highlight {
	var hl Highlight
	for i, c := range r.Curves {
		if c.Source.Name == name {
			hl.Outgoing = append(hl.Outgoing, i)
			hl.Targets = append(hl.Targets, c.Target.Name)
		}
		if c.Target.Name == name {
			hl.Incoming = append(hl.Incoming, i)
			hl.Sources = append(hl.Sources, c.Source.Name)
		}
	}
	return hl
}
