package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/render/styles"
)

const highlightJS = `
    const links = document.querySelectorAll('.link');
    const labels = document.querySelectorAll('.label');
    function highlight(id) {
      const sources = new Set(), targets = new Set();
      links.forEach(l => {
        const out = l.dataset.source === id, inc = l.dataset.target === id;
        l.classList.toggle('link--source', out);
        l.classList.toggle('link--target', inc);
        if (out) targets.add(l.dataset.target);
        if (inc) sources.add(l.dataset.source);
      });
      labels.forEach(t => {
        t.classList.toggle('node--hover', t.dataset.id === id);
        t.classList.toggle('node--target', targets.has(t.dataset.id));
        t.classList.toggle('node--source', sources.has(t.dataset.id));
      });
    }
    function clearHighlight() {
      links.forEach(l => l.classList.remove('link--source', 'link--target'));
      labels.forEach(t => t.classList.remove('node--hover', 'node--source', 'node--target'));
    }
    labels.forEach(t => {
      t.addEventListener('mouseover', () => highlight(t.dataset.id));
      t.addEventListener('mouseout', clearHighlight);
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	graph       *graph.Graph
	style       styles.Style
	interactive bool
	tooltips    bool
}

// WithGraph attaches the source graph so tooltips can include node metadata.
func WithGraph(g graph.Graph) SVGOption { return func(r *svgRenderer) { r.graph = &g } }

// WithStyle overrides the default [styles.Simple] style.
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithInteraction embeds the hover-highlight script for bundle layouts.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithTooltips adds a <title> tooltip to every force-layout node.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// RenderSVG renders a force or bundle layout. Coordinates in the layout are
// centred on the origin; the viewBox is centred to match.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	if l.IsBundle() {
		r.renderBundle(&buf, l)
	} else {
		r.renderForce(&buf, l)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderForce(buf *bytes.Buffer, l graph.Layout) {
	writeHeader(buf, -l.Width/2, -l.Height/2, l.Width, l.Height)
	r.style.RenderDefs(buf)

	buf.WriteString("  <g class=\"links\">\n")
	for _, lk := range l.Links {
		r.style.RenderLink(buf, styles.Link{
			Source: lk.Source, Target: lk.Target,
			Path: lk.Path, SelfLoop: lk.SelfLoop, Arrow: true,
		})
	}
	buf.WriteString("  </g>\n  <g class=\"nodes\">\n")
	for _, n := range l.Nodes {
		sn := styles.Node{ID: n.ID, X: n.X, Y: n.Y, Type: n.Type, Pinned: n.Pinned}
		if r.tooltips {
			sn.Tooltip = styles.Tooltip(n.DisplayName(), n.Type, r.metadata(n.ID))
		}
		r.style.RenderNode(buf, sn)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderBundle(buf *bytes.Buffer, l graph.Layout) {
	d := math.Min(l.Width, l.Height)
	writeHeader(buf, -d/2, -d/2, d, d)
	r.style.RenderDefs(buf)

	buf.WriteString("  <g class=\"links\">\n")
	for _, lk := range l.Links {
		r.style.RenderLink(buf, styles.Link{
			Source: lk.Source, Target: lk.Target,
			Path: lk.Path, SelfLoop: lk.SelfLoop,
		})
	}
	buf.WriteString("  </g>\n  <g class=\"labels\">\n")
	for _, n := range l.Nodes {
		r.style.RenderLabel(buf, styles.Label{
			ID:     n.ID,
			Text:   n.DisplayName(),
			Angle:  n.Angle,
			Radius: n.Radius,
			Offset: styles.LabelOffset,
			Type:   n.Type,
		})
	}
	buf.WriteString("  </g>\n")

	if r.interactive {
		fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", highlightJS)
	}
}

func (r *svgRenderer) metadata(id string) map[string]string {
	if r.graph == nil {
		return nil
	}
	return r.graph.Nodes[id].Metadata
}

func writeHeader(buf *bytes.Buffer, x, y, w, h float64) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		x, y, w, h, w, h)
}
