// Package bundle computes hierarchical edge-bundling layouts.
//
// A bundling pass runs four stages:
//
//  1. [adjacency.Build] indexes the edge list by identifier.
//  2. [BuildHierarchy] turns the index into a rooted tree with one node per
//     identifier.
//  3. [Cluster] places leaves evenly on a ring and internal nodes inside it.
//  4. Each layout edge is routed from its source up to the lowest common
//     ancestor and back down to its target, straightened by the bundling
//     tension beta, and smoothed into cubic Bézier segments.
//
// [Compute] runs all four and returns a [Result].
//
// # Geometry
//
// Angles are degrees in [0, 360), measured clockwise from straight up.
// [Project] maps (angle, radius) to planar coordinates centred on the origin.
// The ring radius is min(width, height)/2 minus RadiusMargin.
//
// Curves interpolate their control points with a Catmull-Rom spline. With
// beta = 1 a curve passes through every ancestor on its route; with beta = 0
// it is the straight chord between its endpoints. Self-loops collapse to a
// single point on the route, so they are drawn as a small closed teardrop
// pointing outward.
//
// # Limitations
//
// Identifiers are used whole, so the hierarchy is a star under the root and
// every route passes through the centre. The tree, cluster and routing code
// handle deeper trees unchanged.
//
// # Example
//
//	res, err := bundle.Compute(g, bundle.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, c := range res.Curves {
//	    fmt.Println(c.Source.Name, "->", c.Target.Name, c.SVGPath())
//	}
package bundle
