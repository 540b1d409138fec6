package bundle

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sgviz/pkg/graph"
)

// DefaultLoopSize is the self-loop extent in layout units.
const DefaultLoopSize = 20

// Segment is one cubic Bézier piece.
type Segment struct {
	From, C1, C2, To graph.Point
}

// At evaluates the segment at t in [0, 1].
func (s Segment) At(t float64) graph.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return graph.Point{
		X: a*s.From.X + b*s.C1.X + c*s.C2.X + d*s.To.X,
		Y: a*s.From.Y + b*s.C1.Y + c*s.C2.Y + d*s.To.Y,
	}
}

// Curve is the drawable route of one layout edge.
//
// Points are the straightened control points the curve passes through, in
// source to target order. Segments join consecutive points.
type Curve struct {
	Source   *Node
	Target   *Node
	Points   []graph.Point
	Segments []Segment
	SelfLoop bool
}

// SVGPath renders the curve as SVG path data.
func (c Curve) SVGPath() string {
	if len(c.Segments) == 0 {
		if len(c.Points) == 0 {
			return ""
		}
		return "M" + fmtPoint(c.Points[0])
	}
	var b strings.Builder
	b.WriteString("M")
	b.WriteString(fmtPoint(c.Segments[0].From))
	for _, s := range c.Segments {
		b.WriteString("C")
		b.WriteString(fmtPoint(s.C1))
		b.WriteString(",")
		b.WriteString(fmtPoint(s.C2))
		b.WriteString(",")
		b.WriteString(fmtPoint(s.To))
	}
	if c.SelfLoop {
		b.WriteString("Z")
	}
	return b.String()
}

// Sample evaluates the curve at n evenly spaced parameters per segment,
// including both ends.
func (c Curve) Sample(n int) []graph.Point {
	if n < 2 {
		n = 2
	}
	if len(c.Segments) == 0 {
		return append([]graph.Point(nil), c.Points...)
	}
	out := []graph.Point{c.Segments[0].From}
	for _, s := range c.Segments {
		for i := 1; i < n; i++ {
			out = append(out, s.At(float64(i)/float64(n-1)))
		}
	}
	return out
}

// Straighten pulls each control point toward the chord between the first
// and last point: p' = beta*p + (1-beta)*(p0 + t*(pn-p0)) with t = i/(n-1).
// beta = 1 leaves the points unchanged; beta = 0 puts them all on the chord.
func Straighten(points []graph.Point, beta float64) []graph.Point {
	out := make([]graph.Point, len(points))
	copy(out, points)
	n := len(points)
	if n < 3 {
		return out
	}
	p0, pn := points[0], points[n-1]
	dx, dy := pn.X-p0.X, pn.Y-p0.Y
	for i := 1; i < n-1; i++ {
		t := float64(i) / float64(n-1)
		out[i] = graph.Point{
			X: beta*points[i].X + (1-beta)*(p0.X+t*dx),
			Y: beta*points[i].Y + (1-beta)*(p0.Y+t*dy),
		}
	}
	return out
}

// Interpolate joins points with a uniform Catmull-Rom spline expressed as
// cubic Bézier segments. The result passes through every point; collinear,
// evenly spaced input yields a straight line.
func Interpolate(points []graph.Point) []Segment {
	n := len(points)
	if n < 2 {
		return nil
	}
	at := func(i int) graph.Point {
		return points[min(max(i, 0), n-1)]
	}
	segs := make([]Segment, 0, n-1)
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		segs = append(segs, Segment{
			From: p1,
			C1:   graph.Point{X: p1.X + (p2.X-p0.X)/6, Y: p1.Y + (p2.Y-p0.Y)/6},
			C2:   graph.Point{X: p2.X - (p3.X-p1.X)/6, Y: p2.Y - (p3.Y-p1.Y)/6},
			To:   p2,
		})
	}
	return segs
}

// Loop builds a closed teardrop at p pointing away from the origin, or
// upward when p is the origin. size scales its extent.
func Loop(p graph.Point, size float64) Segment {
	if size <= 0 {
		size = DefaultLoopSize
	}
	ux, uy := 0.0, -1.0
	if r := math.Hypot(p.X, p.Y); r > 1e-9 {
		ux, uy = p.X/r, p.Y/r
	}
	vx, vy := -uy, ux
	return Segment{
		From: p,
		C1:   graph.Point{X: p.X + size*(2*ux+vx), Y: p.Y + size*(2*uy+vy)},
		C2:   graph.Point{X: p.X + size*(2*ux-vx), Y: p.Y + size*(2*uy-vy)},
		To:   p,
	}
}

// route builds the curve for source→target over positioned hierarchy nodes.
func route(source, target *Node, beta, loopSize float64) Curve {
	c := Curve{Source: source, Target: target}
	path := source.Path(target)
	raw := make([]graph.Point, len(path))
	for i, n := range path {
		x, y := Project(n.Angle, n.Radius)
		raw[i] = graph.Point{X: x, Y: y}
	}
	if source == target {
		c.SelfLoop = true
		c.Points = raw
		c.Segments = []Segment{Loop(raw[0], loopSize)}
		return c
	}
	c.Points = Straighten(raw, beta)
	c.Segments = Interpolate(c.Points)
	return c
}

func fmtPoint(p graph.Point) string {
	return fmtFloat(p.X) + "," + fmtFloat(p.Y)
}

func fmtFloat(f float64) string {
	if math.Abs(f) < 1e-9 {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
