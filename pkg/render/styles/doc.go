// Package styles defines how sgviz layouts look.
//
// [ForType] maps a node type to its colour, icon and CSS class:
//
//	SECURITY_GROUP  #FF0000  SG
//	CIDR_IP         #0000FF  CIP
//	CIDR_IPV6       #0000FF  CIPV6
//	PREFIX_LIST     #00FF00  PL
//	(other)         #000000  UNK
//
// [Style] implementations write SVG fragments for nodes, links and labels.
// [Simple] is the only built-in style; the SVG sink uses it by default.
package styles
