package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/sgviz/pkg/graph"
)

func forceLayout() graph.Layout {
	return graph.Layout{
		VizType: graph.VizTypeForce,
		Width:   400,
		Height:  300,
		Nodes: []graph.PlacedNode{
			{ID: "sg-1", Type: graph.TypeSecurityGroup, Name: "web", X: 10, Y: 20},
			{ID: "pl-1", Type: graph.TypePrefixList, X: -30, Y: 5, Pinned: true},
		},
		Links: []graph.Link{
			{Source: "pl-1", Target: "sg-1", Path: "M-30.00,5.00L10.00,20.00"},
			{Source: "sg-1", Target: "sg-1", Path: "M10.00,20.00A30,20 -45,1,1 11.00,21.00", SelfLoop: true},
		},
	}
}

func TestRenderSVGForce(t *testing.T) {
	g := graph.Graph{Nodes: map[string]graph.Node{
		"sg-1": {ID: "sg-1", Type: graph.TypeSecurityGroup, Name: "web", Metadata: map[string]string{"vpc_id": "vpc-9"}},
	}}
	out := string(RenderSVG(forceLayout(), WithTooltips(), WithGraph(g)))

	checks := []string{
		`viewBox="-200.0 -150.0 400.0 300.0"`,
		`id="arrowhead"`,
		`marker-end="url(#arrowhead)"`,
		`class="link self-loop"`,
		`fill="#FF0000"`,
		`fill="#00FF00"`,
		`>SG<`,
		`class="node pinned"`,
		"vpc_id: vpc-9",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(out, "<script") {
		t.Error("force SVG should not embed the highlight script")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGBundle(t *testing.T) {
	l := graph.Layout{
		VizType: graph.VizTypeBundle,
		Width:   800,
		Height:  600,
		Nodes: []graph.PlacedNode{
			{ID: "a", Type: graph.TypeSecurityGroup, Angle: 90, Radius: 200},
			{ID: "b", Type: graph.TypeCIDRIP, Angle: 270, Radius: 200},
		},
		Links: []graph.Link{{Source: "a", Target: "b", Path: "M200,0C0,0,0,0,-200,0"}},
	}

	out := string(RenderSVG(l, WithInteraction()))
	checks := []string{
		`viewBox="-300.0 -300.0 600.0 600.0"`,
		`data-source="a" data-target="b"`,
		`text-anchor="start"`,
		`text-anchor="end"`,
		"rotate(180)",
		"link--source",
		"<script",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(out, "marker-end") {
		t.Error("bundle links should not carry arrowheads")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	out := string(RenderSVG(graph.Layout{VizType: graph.VizTypeForce}))
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("empty layout SVG = %q", out)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(forceLayout())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if len(l.Nodes) != 2 || len(l.Links) != 2 {
		t.Errorf("round trip lost data: %+v", l)
	}
}
