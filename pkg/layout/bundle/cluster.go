package bundle

import "math"

// InnerRadius returns the outer ring radius for a container, never negative.
func InnerRadius(width, height, margin float64) float64 {
	return math.Max(0, math.Min(width, height)/2-margin)
}

// Cluster assigns every hierarchy node an angle in [0, 360) degrees and a
// radius in [0, innerRadius].
//
// Leaves are spread over the full circle in depth-first order and sit on the
// outer ring. Siblings are one unit apart and cousins two, so subtrees form
// visible groups once identifiers carry structure. Internal nodes take the
// mean angle of their descendant leaves and a radius that shrinks with their
// height; the root sits at the centre. A lone leaf is placed at the centre.
//
// Cluster is a pure function of tree shape and radius: repeated calls on an
// unchanged tree assign identical values.
func Cluster(h *Hierarchy, innerRadius float64) {
	leaves := h.Leaves()
	all := h.Descendants()
	for _, n := range all {
		n.Angle, n.Radius = 0, 0
	}
	if len(leaves) <= 1 {
		return
	}

	pos := make(map[*Node]float64, len(leaves))
	var x float64
	for i, leaf := range leaves {
		if i > 0 {
			x += separation(leaves[i-1], leaf)
		}
		pos[leaf] = x
	}
	first, last := leaves[0], leaves[len(leaves)-1]
	x0 := pos[first] - separation(first, last)/2
	x1 := pos[last] + separation(last, first)/2
	for _, leaf := range leaves {
		leaf.Angle = (pos[leaf] - x0) / (x1 - x0) * 360
	}

	heights := make(map[*Node]int, len(all))
	rootHeight := height(h.Root, heights)
	// Reverse breadth-first order visits children before parents.
	sums := make(map[*Node]float64, len(all))
	counts := make(map[*Node]int, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		n := all[i]
		if n.IsLeaf() {
			sums[n], counts[n] = n.Angle, 1
		} else {
			n.Angle = sums[n] / float64(counts[n])
		}
		if n.Parent != nil {
			sums[n.Parent] += sums[n]
			counts[n.Parent] += counts[n]
		}
		n.Radius = (1 - float64(heights[n])/float64(rootHeight)) * innerRadius
	}
}

func separation(a, b *Node) float64 {
	if a.Parent == b.Parent {
		return 1
	}
	return 2
}

func height(n *Node, memo map[*Node]int) int {
	h := 0
	for _, c := range n.Children {
		h = max(h, height(c, memo)+1)
	}
	memo[n] = h
	return h
}

// Project converts a polar placement to planar coordinates. Angle zero points
// up (negative y) and angles grow clockwise.
func Project(angleDeg, radius float64) (x, y float64) {
	a := angleDeg * math.Pi / 180
	return radius * math.Sin(a), -radius * math.Cos(a)
}
