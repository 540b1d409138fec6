package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sgviz/pkg/errors"
)

// Graph payload encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a Graph to indented JSON bytes.
// Map keys are emitted in sorted order, so output is deterministic.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	return DecodeGraph(data, FormatJSON)
}

// WriteGraph writes a Graph as JSON to an io.Writer.
func WriteGraph(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes a Graph to a file, as YAML when the extension is
// .yaml or .yml and as JSON otherwise.
func WriteGraphFile(g Graph, path string) error {
	var (
		data []byte
		err  error
	)
	if FormatFromPath(path) == FormatYAML {
		data, err = yaml.Marshal(g)
	} else {
		data, err = MarshalGraph(g)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Graph{}, fmt.Errorf("read: %w", err)
	}
	return DecodeGraph(data, FormatJSON)
}

// ReadGraphFile reads a graph file, choosing the codec from the extension.
func ReadGraphFile(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, fmt.Errorf("read %s: %w", path, err)
	}
	g, err := DecodeGraph(data, FormatFromPath(path))
	if err != nil {
		return Graph{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// DecodeGraph decodes a graph payload in the given format.
//
// Node records whose ID is empty inherit their map key, and the map key wins
// when the two disagree. Edges are not checked against the node set.
func DecodeGraph(data []byte, format string) (Graph, error) {
	var g Graph
	switch format {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &g); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode JSON graph")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &g); err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode YAML graph")
		}
	default:
		return Graph{}, errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", format)
	}
	g.normalize()
	return g, nil
}

// FormatFromPath infers the graph encoding from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Internal Implementation
// =============================================================================

func (g *Graph) normalize() {
	if g.Nodes == nil {
		g.Nodes = map[string]Node{}
	}
	for id, n := range g.Nodes {
		if n.ID != id {
			n.ID = id
			g.Nodes[id] = n
		}
		if n.Type == "" {
			n.Type = TypeUnknown
			g.Nodes[id] = n
		}
	}
}
