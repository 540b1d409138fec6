// Package pkg provides the core libraries for sgviz security group
// visualization.
//
// # Overview
//
// sgviz turns AWS security groups, CIDR ranges and prefix lists into
// diagrams. Groups and rule targets become nodes; every permission becomes a
// directed edge along the direction of traffic. The pkg directory is
// organized into five areas:
//
//  1. [source] - Inputs (describe-security-groups exports, S3 objects)
//  2. [graph] - Serialization types for entity graphs and layouts
//  3. [layout] - Layout strategies (force simulation, hierarchical edge bundling)
//  4. [render] - Output (SVG, PNG, PDF, JSON, Graphviz DOT)
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//
// # Architecture
//
// The typical data flow through sgviz:
//
//	describe-security-groups export / s3:// object
//	         ↓
//	    [source/secgroups] package (groups → entity graph)
//	         ↓
//	    [layout/force] or [layout/bundle] package (positions + link geometry)
//	         ↓
//	    [render/sink] package (SVG, PNG, PDF, JSON)
//
// # Quick Start
//
// Convert an export and compute an edge bundle:
//
//	import (
//	    "github.com/matzehuels/sgviz/pkg/layout/bundle"
//	    "github.com/matzehuels/sgviz/pkg/source/secgroups"
//	)
//
//	groups, _ := secgroups.Decode(data)
//	g, _ := secgroups.Convert(groups)
//	res, _ := bundle.Compute(g, bundle.DefaultOptions())
//
// Or run a force simulation tick by tick:
//
//	sim := force.NewSimulation(g.SortedNodes(), g.Edges)
//	for sim.Tick() && !sim.Converged() {
//	}
//
// # Main Packages
//
// ## Layout
//
// [layout/force] - Force-directed simulation with link, many-body and
// centering forces. Runs until stopped; alpha cools toward a target that a
// drag gesture raises, so the layout stays live while a node is held.
//
// [layout/bundle] - Radial cluster layout with hierarchical edge bundling.
// Nodes are grouped by the dotted segments of their names and placed on a
// ring; links follow the hierarchy and are straightened by a tension beta.
//
// [layout/adjacency] - Egress adjacency built from an edge list, the input
// to the bundle hierarchy.
//
// ## Rendering
//
// [render/sink] - Output formats for force and bundle layouts.
//
// [render/nodelink] - Graphviz diagrams of the raw entity graph.
//
// [render/styles] - Node colours and stroke settings per entity type.
//
// ## Infrastructure
//
// [pipeline] - Complete visualization pipeline used by the CLI and the HTTP
// server. Ensures consistent behavior across entry points.
//
// [cache] - Content-addressed cache with file, Redis, MongoDB and null
// backends.
//
// [config] - TOML configuration file layered over built-in defaults.
//
// [server] - HTTP API for layouts and rendering.
//
// [metrics], [observability] - Prometheus metrics behind pluggable hooks.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//
// Redis and MongoDB backend tests run when SGVIZ_TEST_REDIS_ADDR or
// SGVIZ_TEST_MONGO_URI is set.
//
// [source]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/source
// [source/secgroups]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/source/secgroups
// [graph]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/layout
// [layout/force]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/layout/force
// [layout/bundle]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/layout/bundle
// [layout/adjacency]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/layout/adjacency
// [render]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/render/nodelink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/render/styles
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/server
// [metrics]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/sgviz/pkg/errors
package pkg
