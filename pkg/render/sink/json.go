package sink

import "github.com/matzehuels/sgviz/pkg/graph"

// RenderJSON serializes the layout in its wire format.
func RenderJSON(l graph.Layout) ([]byte, error) {
	return graph.MarshalLayout(l)
}
