package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sgviz/pkg/cache"
	"github.com/matzehuels/sgviz/pkg/errors"
	"github.com/matzehuels/sgviz/pkg/graph"
)

func testGraph() graph.Graph {
	return graph.Graph{
		Nodes: map[string]graph.Node{
			"sg-web":     {ID: "sg-web", Type: graph.TypeSecurityGroup, Name: "web"},
			"sg-db":      {ID: "sg-db", Type: graph.TypeSecurityGroup, Name: "db"},
			"10.0.0.0/8": {ID: "10.0.0.0/8", Type: graph.TypeCIDRIP},
			"pl-1":       {ID: "pl-1", Type: graph.TypePrefixList},
		},
		Edges: []graph.Edge{
			{Source: "10.0.0.0/8", Target: "sg-web", Protocol: "tcp", PortRange: &graph.PortRange{443, 443}},
			{Source: "sg-web", Target: "sg-db", Protocol: "tcp", PortRange: &graph.PortRange{5432, 5432}},
			{Source: "sg-db", Target: "pl-1", Protocol: "-1"},
			{Source: "sg-db", Target: "sg-db", Protocol: "-1"},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want %v", tt.format, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"force", false},
		{"bundle", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidVizType) {
			t.Errorf("ValidateVizType(%q) code = %v, want %v", tt.vizType, errors.GetCode(err), errors.ErrCodeInvalidVizType)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	beta := 1.5
	tests := []struct {
		name string
		opts Options
		want errors.Code
	}{
		{"Zero", Options{}, ""},
		{"Bundle", Options{VizType: "bundle", Formats: []string{"svg", "json"}}, ""},
		{"UnknownVizType", Options{VizType: "tower"}, errors.ErrCodeInvalidVizType},
		{"UnknownFormat", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"PositiveRepulsion", Options{Repulsion: 10}, errors.ErrCodeInvalidInput},
		{"BetaOutOfRange", Options{Beta: &beta}, errors.ErrCodeInvalidInput},
		{"TooManyTicks", Options{Ticks: MaxTicks + 1}, errors.ErrCodeInvalidInput},
		{"NegativeWidth", Options{Width: -1}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want code %v", err, tt.want)
			}
		})
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.VizType != DefaultVizType {
		t.Errorf("VizType should be %s, got %s", DefaultVizType, opts.VizType)
	}
	if opts.Width != DefaultWidth {
		t.Errorf("Width should be %f, got %f", DefaultWidth, opts.Width)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height should be %f, got %f", DefaultHeight, opts.Height)
	}
	if opts.Ticks != DefaultTicks {
		t.Errorf("Ticks should be %d, got %d", DefaultTicks, opts.Ticks)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if opts.Beta == nil || *opts.Beta != 0.85 {
		t.Errorf("Beta should be 0.85, got %v", opts.Beta)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestSetLayoutDefaultsKeepsZeroBeta(t *testing.T) {
	zero := 0.0
	opts := Options{Beta: &zero}
	opts.SetLayoutDefaults()
	if got := opts.BetaValue(); got != 0 {
		t.Errorf("BetaValue = %v, want 0", got)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	base := Options{VizType: "bundle"}
	base.SetLayoutDefaults()

	other := base
	other.Repulsion = -500
	if base.LayoutKeyOpts() != other.LayoutKeyOpts() {
		t.Error("force options should not change bundle cache keys")
	}

	beta := 0.5
	other.Beta = &beta
	if base.LayoutKeyOpts() == other.LayoutKeyOpts() {
		t.Error("beta should change bundle cache keys")
	}

	f := Options{VizType: "force"}
	f.SetLayoutDefaults()
	g := f
	g.Seed = 7
	if f.LayoutKeyOpts() != g.LayoutKeyOpts() {
		t.Error("seed should not matter without a random start")
	}
	f.RandomStart, g.RandomStart = true, true
	if f.LayoutKeyOpts() == g.LayoutKeyOpts() {
		t.Error("seed should matter with a random start")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	small := Options{VizType: "force", Scale: 1}
	large := Options{VizType: "force", Scale: 4}
	keyer := cache.DefaultKeyer{}

	if keyer.ArtifactKey("h", small.ArtifactKeyOpts(FormatPNG)) == keyer.ArtifactKey("h", large.ArtifactKeyOpts(FormatPNG)) {
		t.Error("scale should change png artifact keys")
	}
	if small.ArtifactKeyOpts(FormatSVG) != large.ArtifactKeyOpts(FormatSVG) {
		t.Error("scale should not change svg artifact keys")
	}
}

func TestGenerateLayout(t *testing.T) {
	g := testGraph()
	g.Edges = append(g.Edges, graph.Edge{Source: "sg-web", Target: "GHOST"})

	tests := []struct {
		vizType   string
		wantNodes int
		wantLinks int
		check     func(t *testing.T, l graph.Layout)
	}{
		{
			vizType:   graph.VizTypeForce,
			wantNodes: 4,
			wantLinks: 4,
			check: func(t *testing.T, l graph.Layout) {
				if l.Ticks == 0 {
					t.Error("force layout ran no ticks")
				}
				if len(l.Dropped) != 1 {
					t.Errorf("dropped = %d, want 1", len(l.Dropped))
				}
			},
		},
		{
			vizType:   graph.VizTypeBundle,
			wantNodes: 4,
			wantLinks: 4,
			check: func(t *testing.T, l graph.Layout) {
				if len(l.Dropped) != 1 {
					t.Errorf("dropped = %d, want 1", len(l.Dropped))
				}
				if l.InnerRadius <= 0 {
					t.Errorf("InnerRadius = %v, want > 0", l.InnerRadius)
				}
				for _, n := range l.Nodes {
					if n.ID == "sg-web" && n.Name != "web" {
						t.Errorf("sg-web name = %q, want web", n.Name)
					}
				}
			},
		},
		{
			vizType: graph.VizTypeNodelink,
			check: func(t *testing.T, l graph.Layout) {
				if !strings.HasPrefix(l.DOT, "digraph G {") {
					t.Errorf("DOT = %q", l.DOT)
				}
				if l.Engine != "dot" {
					t.Errorf("Engine = %q, want dot", l.Engine)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.vizType, func(t *testing.T) {
			opts := Options{VizType: tt.vizType}
			if err := opts.ValidateForLayout(); err != nil {
				t.Fatal(err)
			}
			l, err := GenerateLayout(g, opts)
			if err != nil {
				t.Fatalf("GenerateLayout: %v", err)
			}
			if l.VizType != tt.vizType {
				t.Errorf("VizType = %q, want %q", l.VizType, tt.vizType)
			}
			if len(l.Nodes) != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", len(l.Nodes), tt.wantNodes)
			}
			if len(l.Links) != tt.wantLinks {
				t.Errorf("links = %d, want %d", len(l.Links), tt.wantLinks)
			}
			if tt.check != nil {
				tt.check(t, l)
			}
		})
	}
}

func TestGenerateLayoutDeterministic(t *testing.T) {
	opts := Options{VizType: "force", Ticks: 50}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	a, _ := GenerateLayout(testGraph(), opts)
	b, _ := GenerateLayout(testGraph(), opts)

	da, _ := graph.MarshalLayout(a)
	db, _ := graph.MarshalLayout(b)
	if !bytes.Equal(da, db) {
		t.Error("force layout is not deterministic")
	}
}

func TestRenderFromLayout(t *testing.T) {
	g := testGraph()

	t.Run("ForceSVGAndJSON", func(t *testing.T) {
		opts := Options{Formats: []string{"svg", "json"}, Tooltips: true}
		if err := opts.ValidateForRender(); err != nil {
			t.Fatal(err)
		}
		l, err := GenerateLayout(g, opts)
		if err != nil {
			t.Fatal(err)
		}
		out, err := RenderFromLayout(l, &g, opts)
		if err != nil {
			t.Fatalf("RenderFromLayout: %v", err)
		}
		if !bytes.Contains(out["svg"], []byte("<svg")) {
			t.Error("svg output missing <svg")
		}
		if _, err := graph.UnmarshalLayout(out["json"]); err != nil {
			t.Errorf("json output is not a layout: %v", err)
		}
	})

	t.Run("DOTNeedsNodelink", func(t *testing.T) {
		opts := Options{VizType: "bundle", Formats: []string{"dot"}}
		if err := opts.ValidateForRender(); err != nil {
			t.Fatal(err)
		}
		l, err := GenerateLayout(g, opts)
		if err != nil {
			t.Fatal(err)
		}
		_, err = RenderFromLayout(l, nil, opts)
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("err = %v, want %v", err, errors.ErrCodeUnsupported)
		}
	})

	t.Run("NodelinkDOT", func(t *testing.T) {
		opts := Options{VizType: "nodelink", Formats: []string{"dot"}}
		if err := opts.ValidateForRender(); err != nil {
			t.Fatal(err)
		}
		l, err := GenerateLayout(g, opts)
		if err != nil {
			t.Fatal(err)
		}
		out, err := RenderFromLayout(l, nil, opts)
		if err != nil {
			t.Fatalf("RenderFromLayout: %v", err)
		}
		if string(out["dot"]) != l.DOT {
			t.Error("dot output differs from layout DOT")
		}
	})

	t.Run("NodelinkMissingDOT", func(t *testing.T) {
		opts := Options{Formats: []string{"dot"}}
		opts.SetRenderDefaults()
		_, err := RenderFromLayout(graph.Layout{VizType: graph.VizTypeNodelink}, nil, opts)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("err = %v, want %v", err, errors.ErrCodeInvalidInput)
		}
	})
}

func TestDecodeInput(t *testing.T) {
	describe := `{"SecurityGroups": [{
		"GroupId": "sg-1", "GroupName": "web", "VpcId": "vpc-1",
		"IpPermissions": [{"IpProtocol": "tcp", "FromPort": 443, "ToPort": 443,
			"IpRanges": [{"CidrIp": "10.0.0.0/8"}]}],
		"IpPermissionsEgress": []
	}]}`
	describeYAML := `SecurityGroups:
  - GroupId: sg-1
    GroupName: web
    IpPermissions:
      - IpProtocol: tcp
        FromPort: 443
        ToPort: 443
        IpRanges:
          - CidrIp: 10.0.0.0/8
    IpPermissionsEgress: []
`
	entity := `{"nodes": {"sg-1": {"id": "sg-1", "type": "SECURITY_GROUP", "name": "web"}}, "edges": []}`

	tests := []struct {
		name      string
		data      string
		file      string
		wantNodes int
		wantEdges int
		wantErr   bool
	}{
		{"DescribeJSON", describe, "groups.json", 2, 1, false},
		{"DescribeArray", `[{"GroupId": "sg-1", "GroupName": "web"}]`, "", 1, 0, false},
		{"DescribeYAML", describeYAML, "groups.yaml", 2, 1, false},
		{"DescribeYAMLArray", "- GroupId: sg-1\n  GroupName: web\n", "groups.yaml", 1, 0, false},
		{"EntityGraph", entity, "graph.json", 1, 0, false},
		{"Garbage", `{nope`, "graph.json", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := DecodeInput([]byte(tt.data), tt.file)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeInput: %v", err)
			}
			if len(g.Nodes) != tt.wantNodes || len(g.Edges) != tt.wantEdges {
				t.Errorf("got %d nodes %d edges, want %d %d", len(g.Nodes), len(g.Edges), tt.wantNodes, tt.wantEdges)
			}
		})
	}
}

func TestRunnerExecuteCaching(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "graph.json")
	if err := graph.WriteGraphFile(testGraph(), input); err != nil {
		t.Fatal(err)
	}

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Input: input, VizType: "bundle", Formats: []string{"svg", "json"}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss, got %+v", first.CacheInfo)
	}
	if first.Stats.NodeCount != 4 || first.Stats.EdgeCount != 4 {
		t.Errorf("stats = %+v", first.Stats)
	}
	if first.GraphHash == "" {
		t.Error("GraphHash not set")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit, got %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
}

type stubFetcher struct {
	data  []byte
	calls int
}

func (f *stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	f.calls++
	return f.data, nil
}

func TestRunnerLoadRemote(t *testing.T) {
	data, err := graph.MarshalGraph(testGraph())
	if err != nil {
		t.Fatal(err)
	}
	fetcher := &stubFetcher{data: data}

	runner := NewRunner(newMemCache(), nil, nil)
	runner.Fetcher = fetcher
	opts := Options{Input: "s3://bucket/graph.json"}

	if _, hit, err := runner.LoadWithCacheInfo(context.Background(), opts); err != nil || hit {
		t.Fatalf("first load: hit=%v err=%v", hit, err)
	}
	if _, hit, err := runner.LoadWithCacheInfo(context.Background(), opts); err != nil || !hit {
		t.Fatalf("second load: hit=%v err=%v", hit, err)
	}
	opts.Refresh = true
	if _, hit, err := runner.LoadWithCacheInfo(context.Background(), opts); err != nil || hit {
		t.Fatalf("refresh load: hit=%v err=%v", hit, err)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetch calls = %d, want 2", fetcher.calls)
	}
}

func TestRunnerLoadErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	tests := []struct {
		name  string
		input string
		want  errors.Code
	}{
		{"Empty", "", errors.ErrCodeInvalidInput},
		{"Missing", filepath.Join(t.TempDir(), "nope.json"), errors.ErrCodeNotFound},
		{"NoFetcher", "s3://bucket/key.json", errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Load(context.Background(), Options{Input: tt.input})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadLocalDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := readLocal(filepath.Join(dir, "sub"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }
