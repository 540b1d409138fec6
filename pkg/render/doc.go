// Package render turns computed layouts into images.
//
// # Overview
//
//   - [styles]: per-type node appearance and SVG fragment styles
//   - [sink]: force and bundle layouts to SVG, JSON, PDF and PNG
//   - [nodelink]: Graphviz DOT export and in-process SVG rendering
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both sinks use them.
//
//	svg := sink.RenderSVG(layout)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [styles]: github.com/matzehuels/sgviz/pkg/render/styles
// [sink]: github.com/matzehuels/sgviz/pkg/render/sink
// [nodelink]: github.com/matzehuels/sgviz/pkg/render/nodelink
package render
