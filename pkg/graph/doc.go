// Package graph provides serialization types for entity graphs and layouts.
//
// This package defines the canonical wire format for sgviz graph data, used
// for JSON and YAML files, API requests and responses, and caching.
//
// # Core Types
//
//   - [Graph]: keyed node map plus a directed edge list
//   - [Node], [Edge]: security groups, CIDR ranges, prefix lists and the
//     permissions between them
//   - [NodeType]: the entity tag ([TypeSecurityGroup], [TypeCIDRIP], ...)
//   - [Layout]: unified format for computed visualizations (force, bundle
//     or nodelink)
//
// # Graph Serialization
//
// Graphs use the node-map format produced by the security group processor:
//
//	{
//	  "nodes": {
//	    "sg-1": {"id": "sg-1", "type": "SECURITY_GROUP", "name": "web"},
//	    "10.0.0.0/8": {"id": "10.0.0.0/8", "type": "CIDR_IP"}
//	  },
//	  "edges": [
//	    {"source": "10.0.0.0/8", "target": "sg-1", "protocol": "tcp", "port_range": [443, 443]}
//	  ]
//	}
//
// Type tags are matched case-insensitively; the camel-case spellings
// (SecurityGroup, CidrIP, CidrIPv6, PrefixList) are accepted as well.
// Unrecognized tags decode as [TypeUnknown].
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("groups.yaml")   // File → Graph (by extension)
//	graph.WriteGraphFile(g, "groups.json")       // Graph → File
//	data, _ := graph.MarshalGraph(g)             // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)      // []byte → Graph
//
// Edges may reference identifiers that have no node record. The decoder keeps
// them; each layout strategy documents how it treats them.
//
// # Layout Serialization
//
// Layouts are discriminated by VizType:
//
//	layout, _ := graph.UnmarshalLayout(data)
//	switch {
//	case layout.IsNodelink():
//	    // Use layout.DOT for Graphviz rendering
//	default:
//	    // Use layout.Nodes and layout.Links
//	}
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
