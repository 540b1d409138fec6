package graph

import (
	"cmp"
	"slices"
	"strings"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeForce    = "force"
	VizTypeBundle   = "bundle"
	VizTypeNodelink = "nodelink"
)

// VizTypes lists every visualization type in a stable order.
var VizTypes = []string{VizTypeForce, VizTypeBundle, VizTypeNodelink}

// NodeType tags the kind of network entity a node represents.
type NodeType string

// Node types.
const (
	TypeSecurityGroup NodeType = "SECURITY_GROUP"
	TypeCIDRIP        NodeType = "CIDR_IP"
	TypeCIDRIPv6      NodeType = "CIDR_IPV6"
	TypePrefixList    NodeType = "PREFIX_LIST"
	TypeUnknown       NodeType = "UNKNOWN"
)

// legacyTypes maps the enum values emitted by the original API backend.
var legacyTypes = map[string]NodeType{
	"securitygroup": TypeSecurityGroup,
	"cidrip":        TypeCIDRIP,
	"cidripv6":      TypeCIDRIPv6,
	"prefixlist":    TypePrefixList,
}

// ParseNodeType converts a type tag to a NodeType.
// Matching is case-insensitive and accepts both the canonical names
// (SECURITY_GROUP) and the camel-case values (SecurityGroup).
// Anything unrecognized maps to TypeUnknown.
func ParseNodeType(s string) NodeType {
	s = strings.TrimSpace(s)
	switch t := NodeType(strings.ToUpper(s)); t {
	case TypeSecurityGroup, TypeCIDRIP, TypeCIDRIPv6, TypePrefixList:
		return t
	}
	if t, ok := legacyTypes[strings.ToLower(s)]; ok {
		return t
	}
	return TypeUnknown
}

// UnmarshalText normalizes the tag through ParseNodeType, so both JSON and
// YAML payloads accept either spelling.
func (t *NodeType) UnmarshalText(b []byte) error {
	*t = ParseNodeType(string(b))
	return nil
}

// Known reports whether t is one of the four recognized entity types.
func (t NodeType) Known() bool { return ParseNodeType(string(t)) != TypeUnknown }

// =============================================================================
// Graph - Network Entity Graph
// =============================================================================

// Graph is the canonical serialization format for entity graphs.
//
// Nodes are keyed by identifier; edges reference nodes by identifier and may
// name identifiers that are absent from Nodes. Layout engines decide how to
// treat such dangling references.
type Graph struct {
	Nodes map[string]Node `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges []Edge          `json:"edges" yaml:"edges" bson:"edges"`
}

// SortedNodes returns the nodes ordered by ID.
func (g Graph) SortedNodes() []Node {
	out := make([]Node, 0, len(g.Nodes))
	for id, n := range g.Nodes {
		if n.ID == "" {
			n.ID = id
		}
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Has reports whether id names a node in the graph.
func (g Graph) Has(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// =============================================================================
// Node - Network Entity
// =============================================================================

// Node is a security group, CIDR range or prefix list.
type Node struct {
	ID       string            `json:"id" yaml:"id" bson:"id"`
	Type     NodeType          `json:"type" yaml:"type" bson:"type"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty" bson:"metadata,omitempty"`
}

// DisplayName returns the name if set, otherwise the ID.
func (n Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// =============================================================================
// Edge - Directed Permission
// =============================================================================

// PortRange is an inclusive [from, to] port pair. -1 marks an absent bound.
type PortRange [2]int

// Edge is a directed relationship, typically an ingress or egress permission.
// Parallel edges are preserved.
type Edge struct {
	Source    string     `json:"source" yaml:"source" bson:"source"`
	Target    string     `json:"target" yaml:"target" bson:"target"`
	Protocol  string     `json:"protocol,omitempty" yaml:"protocol,omitempty" bson:"protocol,omitempty"`
	PortRange *PortRange `json:"port_range,omitempty" yaml:"port_range,omitempty" bson:"port_range,omitempty"`
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.Source == e.Target }
