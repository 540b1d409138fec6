package secgroups

// SecurityGroup mirrors one entry of the EC2 DescribeSecurityGroups response
// as printed by `aws ec2 describe-security-groups`.
type SecurityGroup struct {
	GroupID             string       `json:"GroupId" yaml:"GroupId"`
	GroupName           string       `json:"GroupName" yaml:"GroupName"`
	Description         string       `json:"Description,omitempty" yaml:"Description,omitempty"`
	VpcID               string       `json:"VpcId,omitempty" yaml:"VpcId,omitempty"`
	OwnerID             string       `json:"OwnerId,omitempty" yaml:"OwnerId,omitempty"`
	IPPermissions       []Permission `json:"IpPermissions" yaml:"IpPermissions"`
	IPPermissionsEgress []Permission `json:"IpPermissionsEgress" yaml:"IpPermissionsEgress"`
}

// Permission is one ingress or egress rule. Exactly one target family must
// be set: IP ranges (v4 and/or v6), group pairs, or prefix lists.
type Permission struct {
	IPProtocol       string            `json:"IpProtocol" yaml:"IpProtocol"`
	FromPort         *int              `json:"FromPort,omitempty" yaml:"FromPort,omitempty"`
	ToPort           *int              `json:"ToPort,omitempty" yaml:"ToPort,omitempty"`
	IPRanges         []IPRange         `json:"IpRanges" yaml:"IpRanges"`
	IPv6Ranges       []IPv6Range       `json:"Ipv6Ranges" yaml:"Ipv6Ranges"`
	UserIDGroupPairs []UserIDGroupPair `json:"UserIdGroupPairs" yaml:"UserIdGroupPairs"`
	PrefixListIDs    []PrefixListID    `json:"PrefixListIds" yaml:"PrefixListIds"`
}

// IPRange is an IPv4 CIDR target.
type IPRange struct {
	CidrIP      string `json:"CidrIp" yaml:"CidrIp"`
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
}

// IPv6Range is an IPv6 CIDR target.
type IPv6Range struct {
	CidrIPv6    string `json:"CidrIpv6" yaml:"CidrIpv6"`
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
}

// UserIDGroupPair references another security group.
type UserIDGroupPair struct {
	GroupID     string `json:"GroupId" yaml:"GroupId"`
	UserID      string `json:"UserId,omitempty" yaml:"UserId,omitempty"`
	VpcID       string `json:"VpcId,omitempty" yaml:"VpcId,omitempty"`
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
}

// PrefixListID references a managed prefix list.
type PrefixListID struct {
	PrefixListID string `json:"PrefixListId" yaml:"PrefixListId"`
	Description  string `json:"Description,omitempty" yaml:"Description,omitempty"`
}

// Output is the top-level DescribeSecurityGroups document.
type Output struct {
	SecurityGroups []SecurityGroup `json:"SecurityGroups" yaml:"SecurityGroups"`
}
