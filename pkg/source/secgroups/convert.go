package secgroups

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sgviz/pkg/errors"
	"github.com/matzehuels/sgviz/pkg/graph"
)

// UnknownGroupName names security groups that are referenced by a rule but
// not described in the input.
const UnknownGroupName = "UNKNOWN"

// AllPorts is the port value recorded when a rule has no port bounds.
const AllPorts = -1

type direction int

const (
	ingress direction = iota
	egress
)

// Convert turns described security groups into an entity graph.
//
// Every group becomes a SECURITY_GROUP node with its VPC in metadata.
// Ingress rules produce edges from each rule target to the group, egress
// rules from the group to each target. Targets referenced through group
// pairs that are not themselves described get the name UNKNOWN. Identical
// edges (same endpoints, protocol and port range) are emitted once, in
// first-seen order.
//
// Each rule must carry exactly one target family; otherwise Convert returns
// an INVALID_SECURITY_GROUP error and no graph.
func Convert(groups []SecurityGroup) (graph.Graph, error) {
	if err := Validate(groups); err != nil {
		return graph.Graph{}, err
	}

	c := &converter{
		nodes: make(map[string]graph.Node),
		seen:  make(map[edgeKey]struct{}),
	}
	for _, sg := range groups {
		meta := map[string]string{}
		if sg.VpcID != "" {
			meta["vpc_id"] = sg.VpcID
		}
		if len(meta) == 0 {
			meta = nil
		}
		c.nodes[sg.GroupID] = graph.Node{
			ID:       sg.GroupID,
			Type:     graph.TypeSecurityGroup,
			Name:     sg.GroupName,
			Metadata: meta,
		}
	}
	for _, sg := range groups {
		for _, p := range sg.IPPermissions {
			c.rule(sg.GroupID, p, ingress)
		}
		for _, p := range sg.IPPermissionsEgress {
			c.rule(sg.GroupID, p, egress)
		}
	}

	return graph.Graph{Nodes: c.nodes, Edges: c.edges}, nil
}

// Validate checks that every rule carries exactly one target family.
func Validate(groups []SecurityGroup) error {
	for _, sg := range groups {
		if sg.GroupID == "" {
			return errors.New(errors.ErrCodeInvalidSecurityGroup, "security group %q has no GroupId", sg.GroupName)
		}
		for i, p := range sg.IPPermissions {
			if err := validateRule(sg.GroupID, "ingress", i, p); err != nil {
				return err
			}
		}
		for i, p := range sg.IPPermissionsEgress {
			if err := validateRule(sg.GroupID, "egress", i, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRule(groupID, dir string, idx int, p Permission) error {
	families := 0
	if len(p.IPRanges) > 0 || len(p.IPv6Ranges) > 0 {
		families++
	}
	if len(p.UserIDGroupPairs) > 0 {
		families++
	}
	if len(p.PrefixListIDs) > 0 {
		families++
	}

	switch {
	case families == 0:
		return errors.New(errors.ErrCodeInvalidSecurityGroup,
			"%s %s rule %d has no target (IP ranges, group pairs or prefix lists)", groupID, dir, idx)
	case families > 1:
		return errors.New(errors.ErrCodeInvalidSecurityGroup,
			"%s %s rule %d mixes target kinds; expected exactly one of IP ranges, group pairs or prefix lists", groupID, dir, idx)
	}
	return nil
}

type edgeKey struct {
	source, target, protocol string
	from, to                 int
}

type converter struct {
	nodes map[string]graph.Node
	edges []graph.Edge
	seen  map[edgeKey]struct{}
}

func (c *converter) rule(groupID string, p Permission, dir direction) {
	from, to := AllPorts, AllPorts
	if p.FromPort != nil {
		from = *p.FromPort
	}
	if p.ToPort != nil {
		to = *p.ToPort
	}

	link := func(id string) {
		src, dst := id, groupID
		if dir == egress {
			src, dst = groupID, id
		}
		key := edgeKey{src, dst, p.IPProtocol, from, to}
		if _, dup := c.seen[key]; dup {
			return
		}
		c.seen[key] = struct{}{}
		c.edges = append(c.edges, graph.Edge{
			Source:    src,
			Target:    dst,
			Protocol:  p.IPProtocol,
			PortRange: &graph.PortRange{from, to},
		})
	}

	switch {
	case len(p.IPRanges) > 0 || len(p.IPv6Ranges) > 0:
		for _, r := range p.IPRanges {
			c.addNode(r.CidrIP, graph.TypeCIDRIP, r.CidrIP)
			link(r.CidrIP)
		}
		for _, r := range p.IPv6Ranges {
			c.addNode(r.CidrIPv6, graph.TypeCIDRIPv6, r.CidrIPv6)
			link(r.CidrIPv6)
		}
	case len(p.UserIDGroupPairs) > 0:
		for _, pair := range p.UserIDGroupPairs {
			c.addNode(pair.GroupID, graph.TypeSecurityGroup, UnknownGroupName)
			link(pair.GroupID)
		}
	case len(p.PrefixListIDs) > 0:
		for _, pl := range p.PrefixListIDs {
			c.addNode(pl.PrefixListID, graph.TypePrefixList, pl.PrefixListID)
			link(pl.PrefixListID)
		}
	}
}

// addNode records a rule target unless a node with that ID already exists,
// so described groups keep their real names.
func (c *converter) addNode(id string, t graph.NodeType, name string) {
	if _, ok := c.nodes[id]; ok {
		return
	}
	c.nodes[id] = graph.Node{ID: id, Type: t, Name: name}
}

// Decode parses a DescribeSecurityGroups document. It accepts the full
// response object ({"SecurityGroups": [...]}) or a bare array, as JSON or
// YAML.
func Decode(data []byte) ([]SecurityGroup, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var groups []SecurityGroup
		if err := json.Unmarshal(trimmed, &groups); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode security groups")
		}
		return groups, nil
	}

	var out Output
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode security groups")
		}
		return out.SecurityGroups, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode security groups")
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var groups []SecurityGroup
		if err := root.Decode(&groups); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode security groups")
		}
		return groups, nil
	}
	if err := root.Decode(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode security groups")
	}
	return out.SecurityGroups, nil
}

// IsDescribeOutput reports whether data looks like a DescribeSecurityGroups
// JSON document rather than an entity graph.
func IsDescribeOutput(data []byte) bool {
	var probe struct {
		SecurityGroups json.RawMessage `json:"SecurityGroups"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.SecurityGroups != nil
}
