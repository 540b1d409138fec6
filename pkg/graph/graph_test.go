package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sgviz/pkg/errors"
)

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		in   string
		want NodeType
	}{
		{"SECURITY_GROUP", TypeSecurityGroup},
		{"security_group", TypeSecurityGroup},
		{"SecurityGroup", TypeSecurityGroup},
		{"CIDR_IP", TypeCIDRIP},
		{"CidrIP", TypeCIDRIP},
		{"CIDR_IPV6", TypeCIDRIPv6},
		{"CidrIPv6", TypeCIDRIPv6},
		{"PREFIX_LIST", TypePrefixList},
		{" PrefixList ", TypePrefixList},
		{"", TypeUnknown},
		{"VPC", TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseNodeType(tt.in); got != tt.want {
				t.Errorf("ParseNodeType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarshalGraph(t *testing.T) {
	g := Graph{
		Nodes: map[string]Node{
			"sg-1":       {ID: "sg-1", Type: TypeSecurityGroup, Name: "web", Metadata: map[string]string{"vpc_id": "vpc-1"}},
			"10.0.0.0/8": {ID: "10.0.0.0/8", Type: TypeCIDRIP},
		},
		Edges: []Edge{
			{Source: "10.0.0.0/8", Target: "sg-1", Protocol: "tcp", PortRange: &PortRange{443, 443}},
			{Source: "10.0.0.0/8", Target: "sg-1", Protocol: "tcp", PortRange: &PortRange{443, 443}},
		},
	}

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	result, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}

	if got := len(result.Nodes); got != 2 {
		t.Errorf("nodes = %d, want 2", got)
	}
	if got := len(result.Edges); got != 2 {
		t.Errorf("edges = %d, want 2 (parallel edges preserved)", got)
	}
	if got := result.Nodes["sg-1"].Metadata["vpc_id"]; got != "vpc-1" {
		t.Errorf("vpc_id = %q, want vpc-1", got)
	}
	if pr := result.Edges[0].PortRange; pr == nil || *pr != (PortRange{443, 443}) {
		t.Errorf("port_range = %v, want [443 443]", pr)
	}

	again, err := MarshalGraph(result)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("MarshalGraph output is not deterministic")
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantErr   bool
		check     func(t *testing.T, g Graph)
	}{
		{
			name: "Valid",
			input: `{
				"nodes": {
					"sg-1": {"id": "sg-1", "type": "SECURITY_GROUP", "name": "web"},
					"pl-1": {"id": "pl-1", "type": "PrefixList"}
				},
				"edges": [
					{"source": "pl-1", "target": "sg-1"}
				]
			}`,
			wantNodes: 2,
			wantEdges: 1,
			check: func(t *testing.T, g Graph) {
				if g.Nodes["pl-1"].Type != TypePrefixList {
					t.Errorf("type = %v, want %v", g.Nodes["pl-1"].Type, TypePrefixList)
				}
			},
		},
		{
			name: "IDFromKey",
			input: `{
				"nodes": {"sg-1": {"type": "SECURITY_GROUP"}},
				"edges": []
			}`,
			wantNodes: 1,
			check: func(t *testing.T, g Graph) {
				if g.Nodes["sg-1"].ID != "sg-1" {
					t.Errorf("ID = %q, want sg-1", g.Nodes["sg-1"].ID)
				}
			},
		},
		{
			name: "MissingType",
			input: `{
				"nodes": {"x": {"id": "x"}},
				"edges": []
			}`,
			wantNodes: 1,
			check: func(t *testing.T, g Graph) {
				if g.Nodes["x"].Type != TypeUnknown {
					t.Errorf("type = %v, want %v", g.Nodes["x"].Type, TypeUnknown)
				}
			},
		},
		{
			name: "DanglingEdgeKept",
			input: `{
				"nodes": {"sg-1": {"id": "sg-1", "type": "SECURITY_GROUP"}},
				"edges": [{"source": "sg-1", "target": "GHOST"}]
			}`,
			wantNodes: 1,
			wantEdges: 1,
		},
		{
			name:      "Empty",
			input:     `{}`,
			wantNodes: 0,
			wantEdges: 0,
		},
		{
			name:    "Invalid",
			input:   `{invalid json}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, errors.ErrCodeInvalidGraph) {
					t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGraph)
				}
				return
			}

			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}

			if got := len(g.Nodes); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := len(g.Edges); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}

			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestReadGraphFileYAML(t *testing.T) {
	content := `nodes:
  sg-1:
    id: sg-1
    type: SecurityGroup
    name: web
  0.0.0.0/0:
    id: 0.0.0.0/0
    type: CIDR_IP
edges:
  - source: sg-1
    target: 0.0.0.0/0
    protocol: "-1"
    port_range: [-1, -1]
`
	path := filepath.Join(t.TempDir(), "groups.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}

	if g.Nodes["sg-1"].Type != TypeSecurityGroup {
		t.Errorf("type = %v, want %v", g.Nodes["sg-1"].Type, TypeSecurityGroup)
	}
	if len(g.Edges) != 1 || g.Edges[0].PortRange == nil || g.Edges[0].PortRange[0] != -1 {
		t.Errorf("edges = %+v, want one edge with port range [-1 -1]", g.Edges)
	}
}

func TestWriteGraphFile(t *testing.T) {
	g := Graph{
		Nodes: map[string]Node{"a": {ID: "a", Type: TypeSecurityGroup}},
		Edges: []Edge{{Source: "a", Target: "a"}},
	}

	for _, name := range []string{"out.json", "out.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := WriteGraphFile(g, path); err != nil {
				t.Fatalf("WriteGraphFile: %v", err)
			}
			back, err := ReadGraphFile(path)
			if err != nil {
				t.Fatalf("ReadGraphFile: %v", err)
			}
			if len(back.Nodes) != 1 || len(back.Edges) != 1 || !back.Edges[0].IsSelfLoop() {
				t.Errorf("read back %+v", back)
			}
		})
	}
}

func TestReadGraphFileNotFound(t *testing.T) {
	_, err := ReadGraphFile("nonexistent.json")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestSortedNodes(t *testing.T) {
	g := Graph{Nodes: map[string]Node{
		"c": {ID: "c"},
		"a": {ID: "a"},
		"b": {},
	}}

	nodes := g.SortedNodes()
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	if got := strings.Join(ids, ","); got != "a,b,c" {
		t.Errorf("SortedNodes = %s, want a,b,c", got)
	}
}

func TestUnmarshalLayout(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr errors.Code
	}{
		{"DefaultsToForce", `{"width": 10, "height": 10}`, VizTypeForce, ""},
		{"Bundle", `{"viz_type": "bundle"}`, VizTypeBundle, ""},
		{"NodelinkWithDOT", `{"viz_type": "nodelink", "dot": "digraph G {}"}`, VizTypeNodelink, ""},
		{"NodelinkWithoutDOT", `{"viz_type": "nodelink"}`, "", errors.ErrCodeInvalidInput},
		{"UnknownType", `{"viz_type": "tower"}`, "", errors.ErrCodeInvalidVizType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := UnmarshalLayout([]byte(tt.input))
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want code %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalLayout: %v", err)
			}
			if l.VizType != tt.want {
				t.Errorf("VizType = %q, want %q", l.VizType, tt.want)
			}
		})
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l := Layout{
		VizType: VizTypeBundle,
		Width:   800,
		Height:  600,
		Beta:    0.85,
		Nodes:   []PlacedNode{{ID: "a", Type: TypeSecurityGroup, Angle: 90, Radius: 200, X: 200}},
		Links:   []Link{{Source: "a", Target: "a", Path: "M0,0Z", SelfLoop: true}},
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}

	want, _ := json.Marshal(l)
	have, _ := json.Marshal(got)
	if !bytes.Equal(want, have) {
		t.Errorf("layout mismatch:\n got %s\nwant %s", have, want)
	}
}
