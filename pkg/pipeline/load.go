package pipeline

import (
	"bytes"
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sgviz/pkg/errors"
	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/source/s3"
	"github.com/matzehuels/sgviz/pkg/source/secgroups"
)

// Fetcher retrieves a remote document by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

var _ Fetcher = (*s3.Client)(nil)

// DecodeInput parses an entity graph or an EC2 DescribeSecurityGroups
// export. name is used only to pick JSON or YAML by extension.
func DecodeInput(data []byte, name string) (graph.Graph, error) {
	format := graph.FormatFromPath(name)
	if isDescribeOutput(data, format) {
		groups, err := secgroups.Decode(data)
		if err != nil {
			return graph.Graph{}, err
		}
		return secgroups.Convert(groups)
	}
	return graph.DecodeGraph(data, format)
}

func isDescribeOutput(data []byte, format string) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return true
	}
	if format == graph.FormatJSON || (len(trimmed) > 0 && trimmed[0] == '{') {
		return secgroups.IsDescribeOutput(trimmed)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil || len(doc.Content) == 0 {
		return false
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		return true
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "SecurityGroups" {
				return true
			}
		}
	}
	return false
}

// readLocal reads a graph file from disk.
func readLocal(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}
