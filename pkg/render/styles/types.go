package styles

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/sgviz/pkg/graph"
)

// NodeStyle is the per-type appearance of a node.
type NodeStyle struct {
	Color string // fill colour
	Icon  string // short text drawn on the node
	Class string // CSS class for the icon label
}

var typeStyles = map[graph.NodeType]NodeStyle{
	graph.TypeSecurityGroup: {Color: "#FF0000", Icon: "SG", Class: "node-security-group"},
	graph.TypeCIDRIP:        {Color: "#0000FF", Icon: "CIP", Class: "node-cidr-ip"},
	graph.TypeCIDRIPv6:      {Color: "#0000FF", Icon: "CIPV6", Class: "node-cidr-ip"},
	graph.TypePrefixList:    {Color: "#00FF00", Icon: "PL", Class: "node-prefix-list"},
}

var unknownStyle = NodeStyle{Color: "#000000", Icon: "UNK", Class: "node-unknown"}

// ForType returns the style for a node type. Unrecognized types get the
// unknown style.
func ForType(t graph.NodeType) NodeStyle {
	if s, ok := typeStyles[graph.ParseNodeType(string(t))]; ok {
		return s
	}
	return unknownStyle
}

// Tooltip formats hover text for a node: its display name, type and any
// metadata in key order.
func Tooltip(name string, t graph.NodeType, meta map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s (%s)", name, t, ForType(t).Icon)
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		fmt.Fprintf(&b, "\n%s: %s", k, meta[k])
	}
	return b.String()
}
