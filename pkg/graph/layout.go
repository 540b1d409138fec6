package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/matzehuels/sgviz/pkg/errors"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the unified serialization format for all visualizations.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Force ("force"):
//	  - Nodes: X/Y positions after the tick budget, Pinned flags
//	  - Links: straight segments or self-loop arcs
//	  - Alpha, Ticks: simulation state when the snapshot was taken
//
//	Bundle ("bundle"):
//	  - Nodes: leaf placements with Angle (degrees) and Radius, plus X/Y
//	  - Links: one bundled curve per layout edge
//	  - Beta, InnerRadius: parameters used
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Dropped lists the input edges that could not be laid out because an
// endpoint was missing from the node set.
//
// Coordinates are centred on the origin; renderers translate by half the
// frame size.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Common dimensions
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Geometry (force and bundle)
	Nodes   []PlacedNode `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Links   []Link       `json:"links,omitempty" bson:"links,omitempty"`
	Dropped []Edge       `json:"dropped,omitempty" bson:"dropped,omitempty"`

	// Force-specific
	Alpha float64 `json:"alpha,omitempty" bson:"alpha,omitempty"`
	Ticks int     `json:"ticks,omitempty" bson:"ticks,omitempty"`
	Seed  uint64  `json:"seed,omitempty" bson:"seed,omitempty"`

	// Bundle-specific
	Beta        float64 `json:"beta,omitempty" bson:"beta,omitempty"`
	InnerRadius float64 `json:"inner_radius,omitempty" bson:"inner_radius,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsForce returns true if this is a force-directed layout.
func (l *Layout) IsForce() bool { return l.VizType == VizTypeForce }

// IsBundle returns true if this is an edge-bundling layout.
func (l *Layout) IsBundle() bool { return l.VizType == VizTypeBundle }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// =============================================================================
// Geometry Elements
// =============================================================================

// Point is a planar coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// PlacedNode is a node with its computed position.
type PlacedNode struct {
	ID     string   `json:"id" bson:"id"`
	Type   NodeType `json:"type" bson:"type"`
	Name   string   `json:"name,omitempty" bson:"name,omitempty"`
	X      float64  `json:"x" bson:"x"`
	Y      float64  `json:"y" bson:"y"`
	Angle  float64  `json:"angle,omitempty" bson:"angle,omitempty"`
	Radius float64  `json:"radius,omitempty" bson:"radius,omitempty"`
	Pinned bool     `json:"pinned,omitempty" bson:"pinned,omitempty"`
}

// DisplayName returns the name if set, otherwise the ID.
func (n PlacedNode) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Link is the drawable geometry of one edge.
//
// Path holds SVG path data. Points holds the control points the path was
// built from: the two endpoints for straight links, the straightened
// ancestor path for bundled curves.
type Link struct {
	Source   string  `json:"source" bson:"source"`
	Target   string  `json:"target" bson:"target"`
	Path     string  `json:"path" bson:"path"`
	SelfLoop bool    `json:"self_loop,omitempty" bson:"self_loop,omitempty"`
	Points   []Point `json:"points,omitempty" bson:"points,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeForce
	}
	if !slices.Contains(VizTypes, l.VizType) {
		return Layout{}, errors.New(errors.ErrCodeInvalidVizType, "unknown viz_type %q", l.VizType)
	}
	if l.IsNodelink() && l.DOT == "" {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "nodelink layout must contain DOT string")
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
