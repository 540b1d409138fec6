// Package sink writes force and bundle layouts to output formats.
//
// # SVG
//
// [RenderSVG] draws a [graph.Layout]:
//
//   - force layouts: straight links (self-loops as arcs) with arrowheads and
//     one coloured circle per node, labelled with its type icon
//   - bundle layouts: bundled curves inside a ring of rotated leaf labels
//
// Options:
//
//   - [WithTooltips]: hover text on force nodes (name, type, metadata)
//   - [WithGraph]: source graph used to enrich tooltips
//   - [WithInteraction]: embed a script that highlights a hovered label's
//     outgoing and incoming curves and its neighbours
//   - [WithStyle]: replace the default [styles.Simple]
//
// # Other Formats
//
// [RenderJSON] emits the layout wire format. [RenderPDF] and [RenderPNG]
// convert the SVG with rsvg-convert.
package sink
