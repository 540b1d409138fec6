package pipeline

import (
	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/layout/bundle"
	"github.com/matzehuels/sgviz/pkg/layout/force"
	"github.com/matzehuels/sgviz/pkg/render/nodelink"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes a serializable layout for any visualization type.
// opts must have been through ValidateForLayout or SetLayoutDefaults.
func GenerateLayout(g graph.Graph, opts Options) (graph.Layout, error) {
	switch opts.VizType {
	case graph.VizTypeBundle:
		return generateBundleLayout(g, opts)
	case graph.VizTypeNodelink:
		return generateNodelinkLayout(g, opts), nil
	case graph.VizTypeForce, "":
		return generateForceLayout(g, opts), nil
	default:
		return graph.Layout{}, ValidateVizType(opts.VizType)
	}
}

// =============================================================================
// Force
// =============================================================================

// ForceOptions translates pipeline options into simulation options.
func ForceOptions(opts Options) []force.Option {
	fo := []force.Option{
		force.WithRepulsion(opts.Repulsion),
		force.WithLinkDistance(opts.LinkDistance),
		force.WithCenterStrength(opts.CenterStrength),
		force.WithAlphaDecay(opts.AlphaDecay),
		force.WithAlphaMin(opts.AlphaMin),
		force.WithVelocityDecay(opts.VelocityDecay),
		force.WithSeed(opts.Seed),
	}
	if opts.RandomStart {
		fo = append(fo, force.WithRandomStart(min(opts.Width, opts.Height)/2))
	}
	return fo
}

// generateForceLayout runs the simulation for the tick budget or until
// alpha falls below alpha_min, then snapshots positions and link geometry.
// Edges with an unknown endpoint are logged and reported in Dropped.
func generateForceLayout(g graph.Graph, opts Options) graph.Layout {
	sim := force.NewSimulation(g.SortedNodes(), g.Edges, ForceOptions(opts)...)
	for _, err := range sim.InvalidLinks() {
		opts.Logger.Warn("skipped link", "err", err)
	}
	sim.Run(opts.Ticks)
	return ForceSnapshot(sim, g, opts)
}

// ForceSnapshot captures the current positions and link geometry of sim as
// a force layout. Interactive callers use it to save a layout mid-run.
func ForceSnapshot(sim *force.Simulation, g graph.Graph, opts Options) graph.Layout {
	l := graph.Layout{
		VizType: graph.VizTypeForce,
		Width:   opts.Width,
		Height:  opts.Height,
		Alpha:   sim.Alpha(),
		Ticks:   sim.Ticks(),
		Seed:    opts.Seed,
		Dropped: invalidEdges(g),
	}
	for _, n := range sim.Nodes() {
		l.Nodes = append(l.Nodes, graph.PlacedNode{
			ID:     n.ID,
			Type:   n.Type,
			Name:   n.Name,
			X:      n.X,
			Y:      n.Y,
			Pinned: n.Pinned(),
		})
	}
	l.Links = ForceLinks(sim)
	return l
}

// ForceLinks converts the current simulation geometry to layout links.
func ForceLinks(sim *force.Simulation) []graph.Link {
	geom := sim.Geometry()
	links := make([]graph.Link, len(geom))
	for i, gl := range geom {
		links[i] = graph.Link{
			Source:   gl.Source,
			Target:   gl.Target,
			Path:     gl.SVGPath(),
			SelfLoop: gl.SelfLoop,
			Points:   gl.Points(),
		}
	}
	return links
}

// invalidEdges returns the edges the force integrator skips: those with an
// endpoint outside the node set.
func invalidEdges(g graph.Graph) []graph.Edge {
	var out []graph.Edge
	for _, e := range g.Edges {
		if !g.Has(e.Source) || !g.Has(e.Target) {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// Bundle
// =============================================================================

// generateBundleLayout computes the radial edge bundle. Leaves carry the
// node type and name when the graph describes them.
func generateBundleLayout(g graph.Graph, opts Options) (graph.Layout, error) {
	res, err := bundle.Compute(g, bundle.Options{
		Width:        opts.Width,
		Height:       opts.Height,
		Beta:         opts.BetaValue(),
		RadiusMargin: opts.RadiusMargin,
		LoopSize:     opts.LoopSize,
	})
	if err != nil {
		return graph.Layout{}, err
	}
	for _, e := range res.Dropped {
		opts.Logger.Warn("dropped edge", "source", e.Source, "target", e.Target)
	}

	l := graph.Layout{
		VizType:     graph.VizTypeBundle,
		Width:       opts.Width,
		Height:      opts.Height,
		Beta:        res.Beta,
		InnerRadius: res.InnerRadius,
		Dropped:     res.Dropped,
	}
	for _, p := range res.Placements {
		n, ok := g.Nodes[p.Name]
		if !ok {
			n = graph.Node{ID: p.Name, Type: graph.TypeUnknown}
		}
		l.Nodes = append(l.Nodes, graph.PlacedNode{
			ID:     p.Name,
			Type:   n.Type,
			Name:   n.Name,
			X:      p.X,
			Y:      p.Y,
			Angle:  p.Angle,
			Radius: p.Radius,
		})
	}
	for _, c := range res.Curves {
		l.Links = append(l.Links, graph.Link{
			Source:   c.Source.Name,
			Target:   c.Target.Name,
			Path:     c.SVGPath(),
			SelfLoop: c.SelfLoop,
			Points:   c.Points,
		})
	}
	return l, nil
}

// =============================================================================
// Nodelink
// =============================================================================

// generateNodelinkLayout emits the DOT source; Graphviz positions the nodes
// at render time.
func generateNodelinkLayout(g graph.Graph, opts Options) graph.Layout {
	return graph.Layout{
		VizType: graph.VizTypeNodelink,
		Width:   opts.Width,
		Height:  opts.Height,
		DOT:     nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed}),
		Engine:  nodelink.DefaultEngine,
	}
}
