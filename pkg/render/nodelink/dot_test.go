package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/sgviz/pkg/graph"
)

func testGraph() graph.Graph {
	return graph.Graph{
		Nodes: map[string]graph.Node{
			"sg-1":       {ID: "sg-1", Type: graph.TypeSecurityGroup, Name: "web", Metadata: map[string]string{"vpc_id": "vpc-1"}},
			"10.0.0.0/8": {ID: "10.0.0.0/8", Type: graph.TypeCIDRIP},
		},
		Edges: []graph.Edge{
			{Source: "10.0.0.0/8", Target: "sg-1", Protocol: "tcp", PortRange: &graph.PortRange{80, 443}},
			{Source: "sg-1", Target: "GHOST"},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testGraph(), Options{})

	checks := []string{
		"digraph G",
		`"sg-1" [label="web", fillcolor="#FF0000"]`,
		`"10.0.0.0/8" [label="10.0.0.0/8", fillcolor="#0000FF"]`,
		`"10.0.0.0/8" -> "sg-1";`,
		`"GHOST" [label="GHOST", style="rounded,dashed"`,
	}
	for _, want := range checks {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testGraph(), Options{Detailed: true})

	for _, want := range []string{"type: SECURITY_GROUP", "vpc_id: vpc-1", "id: sg-1", `[label="tcp:80-443"]`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() detailed output missing %q", want)
		}
	}
}

func TestFmtEdgeLabel(t *testing.T) {
	tests := []struct {
		name string
		edge graph.Edge
		want string
	}{
		{"Empty", graph.Edge{}, ""},
		{"AllTraffic", graph.Edge{Protocol: "-1", PortRange: &graph.PortRange{-1, -1}}, ""},
		{"SinglePort", graph.Edge{Protocol: "tcp", PortRange: &graph.PortRange{22, 22}}, "tcp:22"},
		{"Range", graph.Edge{Protocol: "udp", PortRange: &graph.PortRange{1000, 2000}}, "udp:1000-2000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtEdgeLabel(tt.edge); got != tt.want {
				t.Errorf("fmtEdgeLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}
