package force

import "math"

// applyLinks pulls linked nodes toward the rest length. Velocities are
// included in the separation so the spring anticipates this tick's motion.
func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		if l.selfLoop() {
			continue
		}
		src, dst := l.source, l.target
		x := dst.X + dst.VX - src.X - src.VX
		if x == 0 {
			x = s.jiggle()
		}
		y := dst.Y + dst.VY - src.Y - src.VY
		if y == 0 {
			y = s.jiggle()
		}
		d := math.Sqrt(x*x + y*y)
		k := (d - s.cfg.linkDistance) / d * s.alpha * l.strength
		x, y = x*k, y*k
		dst.VX -= x * l.bias
		dst.VY -= y * l.bias
		src.VX += x * (1 - l.bias)
		src.VY += y * (1 - l.bias)
	}
}

// applyManyBody applies pairwise inverse-distance charge. Distances below one
// unit are softened to avoid blow-ups; coincident nodes are nudged apart.
func (s *Simulation) applyManyBody() {
	strength := s.cfg.repulsion * s.alpha
	for i, a := range s.nodes {
		for j, b := range s.nodes {
			if i == j {
				continue
			}
			x, y := b.X-a.X, b.Y-a.Y
			d2 := x*x + y*y
			if x == 0 {
				x = s.jiggle()
				d2 += x * x
			}
			if y == 0 {
				y = s.jiggle()
				d2 += y * y
			}
			if d2 < 1 {
				d2 = math.Sqrt(d2)
			}
			a.VX += x * strength / d2
			a.VY += y * strength / d2
		}
	}
}

// applyCenter pulls every node toward the origin on each axis.
func (s *Simulation) applyCenter() {
	k := s.cfg.centerStrength * s.alpha
	for _, n := range s.nodes {
		n.VX -= n.X * k
		n.VY -= n.Y * k
	}
}
