package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sgviz/pkg/graph"
)

const describeFixture = `{
  "SecurityGroups": [
    {
      "GroupId": "sg-web",
      "GroupName": "web",
      "VpcId": "vpc-1",
      "IpPermissions": [
        {"IpProtocol": "tcp", "FromPort": 443, "ToPort": 443,
         "IpRanges": [{"CidrIp": "0.0.0.0/0"}]}
      ],
      "IpPermissionsEgress": [
        {"IpProtocol": "tcp", "FromPort": 5432, "ToPort": 5432,
         "UserIdGroupPairs": [{"GroupId": "sg-db"}]}
      ]
    },
    {
      "GroupId": "sg-db",
      "GroupName": "db",
      "VpcId": "vpc-1",
      "IpPermissions": [
        {"IpProtocol": "tcp", "FromPort": 5432, "ToPort": 5432,
         "UserIdGroupPairs": [{"GroupId": "sg-web"}]}
      ]
    }
  ]
}`

// testEnv isolates config and cache directories and returns a directory
// holding the describe fixture as groups.json.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SGVIZ_CONFIG", "")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "groups.json"), []byte(describeFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestConvertCommand(t *testing.T) {
	dir := testEnv(t)
	in := filepath.Join(dir, "groups.json")

	if err := execute(t, "convert", in); err != nil {
		t.Fatalf("convert: %v", err)
	}

	g, err := graph.ReadGraphFile(filepath.Join(dir, "groups.graph.json"))
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	for _, id := range []string{"sg-web", "sg-db", "0.0.0.0/0"} {
		if !g.Has(id) {
			t.Errorf("graph missing node %s", id)
		}
	}
	// The egress rule on sg-web and the ingress rule on sg-db describe the
	// same edge.
	if len(g.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(g.Edges))
	}
}

func TestLayoutAndVisualizeCommands(t *testing.T) {
	for _, vizType := range []string{"force", "bundle", "nodelink"} {
		t.Run(vizType, func(t *testing.T) {
			dir := testEnv(t)
			in := filepath.Join(dir, "groups.json")
			layoutPath := filepath.Join(dir, "groups.layout.json")

			if err := execute(t, "layout", in, "-t", vizType, "--ticks", "50"); err != nil {
				t.Fatalf("layout: %v", err)
			}
			l, err := graph.ReadLayoutFile(layoutPath)
			if err != nil {
				t.Fatalf("ReadLayoutFile: %v", err)
			}
			if l.VizType != vizType {
				t.Errorf("VizType = %q, want %q", l.VizType, vizType)
			}

			format := "svg"
			if vizType == "nodelink" {
				format = "dot"
			}
			if err := execute(t, "visualize", layoutPath, "-f", format); err != nil {
				t.Fatalf("visualize: %v", err)
			}
			data, err := os.ReadFile(filepath.Join(dir, "groups."+format))
			if err != nil {
				t.Fatalf("read artifact: %v", err)
			}
			if len(data) == 0 {
				t.Error("artifact is empty")
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := testEnv(t)
	in := filepath.Join(dir, "groups.json")
	base := filepath.Join(dir, "out")

	if err := execute(t, "render", in, "-t", "bundle", "--beta", "0", "-f", "svg,json", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("svg output does not start an svg document: %.60s", svg)
	}

	l, err := graph.ReadLayoutFile(base + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if l.Beta != 0 {
		t.Errorf("Beta = %v, want 0", l.Beta)
	}

	// Second run hits the cache and must produce identical bytes.
	if err := execute(t, "render", in, "-t", "bundle", "--beta", "0", "-f", "svg", "-o", base+"2.svg"); err != nil {
		t.Fatalf("render (cached): %v", err)
	}
	again, _ := os.ReadFile(base + "2.svg")
	if !bytes.Equal(svg, again) {
		t.Error("cached render differs from the first render")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := testEnv(t)
	in := filepath.Join(dir, "groups.json")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"render", in, "-f", "gif"}, "gif"},
		{"bad type", []string{"render", in, "-t", "tower"}, "tower"},
		{"dot on force", []string{"render", in, "-f", "dot", "--no-cache"}, "nodelink"},
		{"missing input", []string{"render", filepath.Join(dir, "nope.json")}, "nope.json"},
		{"s3 needs uri", []string{"fetch", in}, "s3://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	testEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	for _, section := range []string{"[force]", "[bundle]", "[render]", "[cache]", "[server]"} {
		if !bytes.Contains(data, []byte(section)) {
			t.Errorf("config missing section %s", section)
		}
	}

	if err := execute(t, "--config", path, "config", "show"); err != nil {
		t.Fatalf("config show: %v", err)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := testEnv(t)
	in := filepath.Join(dir, "groups.json")

	if err := execute(t, "layout", in); err != nil {
		t.Fatalf("layout: %v", err)
	}
	cache, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if entries, _ := os.ReadDir(cache); len(entries) == 0 {
		t.Fatal("layout did not populate the cache")
	}

	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	var files int
	filepath.WalkDir(cache, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files++
		}
		return nil
	})
	if files != 0 {
		t.Errorf("cache holds %d files after clear", files)
	}
}
