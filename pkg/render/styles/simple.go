package styles

import (
	"bytes"
	"fmt"
	"html"
)

// Drawing constants.
const (
	NodeRadius  = 14
	LinkColor   = "#999"
	LabelOffset = 8
)

// Simple is the default flat style.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="arrowhead" viewBox="0 -5 10 10" refX="20" refY="0" orient="auto" markerWidth="13" markerHeight="13">
      <path d="M 0,-5 L 10,0 L 0,5" fill="` + LinkColor + `" stroke="none"/>
    </marker>
  </defs>
  <style>
    .link { fill: none; stroke: ` + LinkColor + `; stroke-opacity: 0.8; }
    .link.link--source { stroke: #d62728; stroke-opacity: 1; }
    .link.link--target { stroke: #2ca02c; stroke-opacity: 1; }
    .node { stroke: #fff; stroke-width: 1; }
    .icon { font: 10px sans-serif; fill: #fff; pointer-events: none; }
    .label { font: 11px sans-serif; fill: #bbb; cursor: default; }
    .label:hover, .label.node--hover { fill: #000; font-weight: bold; }
    .label.node--source { fill: #2ca02c; font-weight: bold; }
    .label.node--target { fill: #d62728; font-weight: bold; }
    .pinned { stroke: #000; stroke-width: 2; }
  </style>
`)
}

func (Simple) RenderLink(buf *bytes.Buffer, l Link) {
	marker := ""
	if l.Arrow {
		marker = ` marker-end="url(#arrowhead)"`
	}
	class := "link"
	if l.SelfLoop {
		class += " self-loop"
	}
	fmt.Fprintf(buf, `    <path class="%s" d="%s" data-source="%s" data-target="%s"%s/>`+"\n",
		class, html.EscapeString(l.Path), html.EscapeString(l.Source), html.EscapeString(l.Target), marker)
}

func (Simple) RenderNode(buf *bytes.Buffer, n Node) {
	st := ForType(n.Type)
	class := "node"
	if n.Pinned {
		class += " pinned"
	}
	id := html.EscapeString(n.ID)
	fmt.Fprintf(buf, `    <g data-id="%s">`+"\n", id)
	fmt.Fprintf(buf, `      <circle class="%s" cx="%.2f" cy="%.2f" r="%d" fill="%s"/>`+"\n",
		class, n.X, n.Y, NodeRadius, st.Color)
	fmt.Fprintf(buf, `      <text class="icon %s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		st.Class, n.X, n.Y, st.Icon)
	if n.Tooltip != "" {
		fmt.Fprintf(buf, "      <title>%s</title>\n", html.EscapeString(n.Tooltip))
	}
	buf.WriteString("    </g>\n")
}

func (Simple) RenderLabel(buf *bytes.Buffer, l Label) {
	transform := fmt.Sprintf("rotate(%.2f)translate(%.2f,0)", l.Angle-90, l.Radius+l.Offset)
	anchor := "start"
	if l.Flipped() {
		transform += "rotate(180)"
		anchor = "end"
	}
	fmt.Fprintf(buf, `    <g transform="%s"><text class="label %s" data-id="%s" text-anchor="%s" dominant-baseline="central">%s</text></g>`+"\n",
		transform, ForType(l.Type).Class, html.EscapeString(l.ID), anchor, html.EscapeString(l.Text))
}
