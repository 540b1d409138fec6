package styles

import (
	"bytes"

	"github.com/matzehuels/sgviz/pkg/graph"
)

// Style defines the visual appearance of rendered layouts.
// Implementations control how nodes, links and labels are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (markers, filters).
	RenderDefs(buf *bytes.Buffer)
	// RenderLink writes the SVG for one link path.
	RenderLink(buf *bytes.Buffer, l Link)
	// RenderNode writes the SVG for a force-layout node marker.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderLabel writes the SVG for a radial bundle label.
	RenderLabel(buf *bytes.Buffer, l Label)
}

// Node contains everything needed to draw one force-layout node.
type Node struct {
	ID      string
	X, Y    float64
	Type    graph.NodeType
	Tooltip string // hover text, empty for none
	Pinned  bool
}

// Link contains a link's path and endpoints.
type Link struct {
	Source, Target string
	Path           string // SVG path data
	SelfLoop       bool
	Arrow          bool // draw an arrowhead at the target
}

// Label is a leaf name placed around a radial layout.
//
// The label is rotated to Angle (degrees clockwise from up) and pushed
// Offset units past Radius. Labels on the left half are flipped so text
// always reads left to right.
type Label struct {
	ID     string
	Text   string
	Angle  float64
	Radius float64
	Offset float64
	Type   graph.NodeType
}

// Flipped reports whether the label sits on the left half of the circle.
func (l Label) Flipped() bool { return l.Angle >= 180 }
