package force

import (
	"strconv"
	"strings"

	"github.com/matzehuels/sgviz/pkg/graph"
)

// Self-loop arc parameters.
const (
	LoopRadiusX  = 30
	LoopRadiusY  = 20
	LoopRotation = -45
	loopNudge    = 1
)

// Link is the drawable geometry of one resolved edge at the current tick.
//
// Ordinary links are straight segments from (X1, Y1) to (X2, Y2). A
// self-loop is an elliptical arc whose end point is nudged off the start so
// the arc does not collapse.
type Link struct {
	Source, Target string
	X1, Y1, X2, Y2 float64
	SelfLoop       bool
}

// SVGPath renders the link as SVG path data.
func (l Link) SVGPath() string {
	var b strings.Builder
	b.WriteString("M")
	b.WriteString(fmtFloat(l.X1))
	b.WriteString(",")
	b.WriteString(fmtFloat(l.Y1))
	if l.SelfLoop {
		b.WriteString("A")
		b.WriteString(strconv.Itoa(LoopRadiusX))
		b.WriteString(",")
		b.WriteString(strconv.Itoa(LoopRadiusY))
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(LoopRotation))
		b.WriteString(",1,1 ")
	} else {
		b.WriteString("L")
	}
	b.WriteString(fmtFloat(l.X2))
	b.WriteString(",")
	b.WriteString(fmtFloat(l.Y2))
	return b.String()
}

// Points returns the two endpoints.
func (l Link) Points() []graph.Point {
	return []graph.Point{{X: l.X1, Y: l.Y1}, {X: l.X2, Y: l.Y2}}
}

// Geometry returns one Link per resolved edge, in edge order. Parallel
// edges each get their own entry.
func (s *Simulation) Geometry() []Link {
	out := make([]Link, len(s.links))
	for i, l := range s.links {
		g := Link{
			Source: l.edge.Source,
			Target: l.edge.Target,
			X1:     l.source.X,
			Y1:     l.source.Y,
			X2:     l.target.X,
			Y2:     l.target.Y,
		}
		if l.selfLoop() {
			g.SelfLoop = true
			g.X2 += loopNudge
			g.Y2 += loopNudge
		}
		out[i] = g
	}
	return out
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
