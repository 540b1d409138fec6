// Package secgroups converts EC2 security group descriptions into entity
// graphs.
//
// The input is the output of `aws ec2 describe-security-groups`, either the
// full response object or the bare SecurityGroups array:
//
//	groups, err := secgroups.Decode(data)
//	g, err := secgroups.Convert(groups)
//
// Ingress rules become edges from the rule target (CIDR range, prefix list
// or referenced group) to the group; egress rules become edges from the
// group to the target. Protocol and port range are carried on the edge,
// with -1 marking an absent port bound.
package secgroups
