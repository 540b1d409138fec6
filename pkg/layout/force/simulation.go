package force

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/sgviz/pkg/errors"
	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/render/styles"
)

// State is the simulation lifecycle state.
type State int

const (
	// Running simulations advance on every Tick.
	Running State = iota
	// Stopped is terminal; Tick no longer moves nodes.
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Node is a simulated node. Pinned nodes are held at (FX, FY).
type Node struct {
	ID   string
	Type graph.NodeType
	Name string

	X, Y   float64
	VX, VY float64
	FX, FY float64

	pinned bool
}

// Pinned reports whether the node is held at (FX, FY).
func (n Node) Pinned() bool { return n.pinned }

type link struct {
	source, target *Node
	edge           graph.Edge
	strength, bias float64
}

func (l *link) selfLoop() bool { return l.source == l.target }

// Simulation is a force-directed layout driven one Tick at a time.
//
// It is not safe for concurrent use; callers that tick and drag from
// different goroutines must serialize access.
type Simulation struct {
	cfg config
	rng *rand.Rand

	nodes   []*Node
	index   map[string]*Node
	links   []*link
	invalid []error

	alpha       float64
	alphaTarget float64
	state       State
	ticks       int
	dragged     map[string]struct{}
}

// phyllotaxis spiral parameters for the default start.
const initialRadius = 10

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// NewSimulation creates a running simulation over copies of nodes.
//
// Edges are resolved by identifier. An edge naming an unknown node is kept
// out of the simulation and reported by InvalidLinks; it never aborts
// construction or a tick.
func NewSimulation(nodes []graph.Node, edges []graph.Edge, opts ...Option) *Simulation {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Simulation{
		cfg:     cfg,
		rng:     rand.New(rand.NewPCG(cfg.seed, cfg.seed^0xdeadbeef)),
		index:   make(map[string]*Node, len(nodes)),
		dragged: make(map[string]struct{}),
		alpha:   1,
		state:   Running,
	}

	for i, gn := range nodes {
		if _, dup := s.index[gn.ID]; dup {
			continue
		}
		n := &Node{ID: gn.ID, Type: gn.Type, Name: gn.Name}
		if cfg.randomSpread > 0 {
			n.X = (s.rng.Float64()*2 - 1) * cfg.randomSpread
			n.Y = (s.rng.Float64()*2 - 1) * cfg.randomSpread
		} else {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			n.X, n.Y = r*math.Cos(a), r*math.Sin(a)
		}
		s.nodes = append(s.nodes, n)
		s.index[n.ID] = n
	}

	for _, e := range edges {
		src, okS := s.index[e.Source]
		dst, okT := s.index[e.Target]
		switch {
		case !okS:
			s.invalid = append(s.invalid, errors.InvalidReference(e.Source, e.Target, e.Source))
		case !okT:
			s.invalid = append(s.invalid, errors.InvalidReference(e.Source, e.Target, e.Target))
		default:
			s.links = append(s.links, &link{source: src, target: dst, edge: e})
		}
	}
	s.initLinks()
	return s
}

// initLinks derives spring strength and bias from node degree. Self-loops
// are excluded from both.
func (s *Simulation) initLinks() {
	degree := make(map[*Node]int, len(s.nodes))
	for _, l := range s.links {
		if l.selfLoop() {
			continue
		}
		degree[l.source]++
		degree[l.target]++
	}
	for _, l := range s.links {
		if l.selfLoop() {
			continue
		}
		ds, dt := float64(degree[l.source]), float64(degree[l.target])
		l.strength = 1 / math.Min(ds, dt)
		l.bias = ds / (ds + dt)
	}
}

// Tick advances the simulation by one step and reports whether it moved.
// A stopped simulation does nothing.
func (s *Simulation) Tick() bool {
	if s.state == Stopped {
		return false
	}
	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.alphaDecay

	s.applyLinks()
	s.applyManyBody()
	s.applyCenter()

	friction := 1 - s.cfg.velocityDecay
	for _, n := range s.nodes {
		if n.pinned {
			n.X, n.VX = n.FX, 0
			n.Y, n.VY = n.FY, 0
			continue
		}
		n.VX *= friction
		n.VY *= friction
		n.X += n.VX
		n.Y += n.VY
	}
	s.ticks++
	return true
}

// Run ticks until alpha falls below the minimum or maxTicks steps have run,
// and returns the number of steps taken.
func (s *Simulation) Run(maxTicks int) int {
	n := 0
	for n < maxTicks && !s.Converged() && s.Tick() {
		n++
	}
	return n
}

// Stop moves the simulation to the terminal Stopped state.
func (s *Simulation) Stop() { s.state = Stopped }

// State returns the lifecycle state.
func (s *Simulation) State() State { return s.state }

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current energy directly.
func (s *Simulation) SetAlpha(a float64) { s.alpha = a }

// AlphaTarget returns the value alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the value alpha decays toward.
func (s *Simulation) SetAlphaTarget(a float64) { s.alphaTarget = a }

// Reheat raises the alpha target to the configured reheat value so the
// layout keeps moving while a node is dragged.
func (s *Simulation) Reheat() { s.alphaTarget = s.cfg.reheatTarget }

// Converged reports whether alpha has dropped below the minimum.
func (s *Simulation) Converged() bool { return s.alpha < s.cfg.alphaMin }

// Ticks returns the number of steps taken.
func (s *Simulation) Ticks() int { return s.ticks }

// InvalidLinks returns one INVALID_REFERENCE error per skipped edge.
func (s *Simulation) InvalidLinks() []error {
	return append([]error(nil), s.invalid...)
}

// Nodes returns a snapshot of every node in input order.
func (s *Simulation) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = *n
	}
	return out
}

// Node returns a snapshot of the node with the given ID.
func (s *Simulation) Node(id string) (Node, bool) {
	n, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Pin holds a node at (x, y). Unknown IDs are ignored.
func (s *Simulation) Pin(id string, x, y float64) {
	if n, ok := s.index[id]; ok {
		n.FX, n.FY, n.pinned = x, y, true
	}
}

// Unpin releases a node. Unknown IDs are ignored.
func (s *Simulation) Unpin(id string) {
	if n, ok := s.index[id]; ok {
		n.FX, n.FY, n.pinned = 0, 0, false
	}
}

// Hover is the tooltip payload for a node.
type Hover struct {
	ID       string
	Name     string
	Type     graph.NodeType
	Icon     string
	X, Y     float64
	Incoming int
	Outgoing int
}

// Hover describes the node under the pointer.
func (s *Simulation) Hover(id string) (Hover, bool) {
	n, ok := s.index[id]
	if !ok {
		return Hover{}, false
	}
	h := Hover{ID: n.ID, Name: n.Name, Type: n.Type, Icon: styles.ForType(n.Type).Icon, X: n.X, Y: n.Y}
	if h.Name == "" {
		h.Name = n.ID
	}
	for _, l := range s.links {
		if l.source == n {
			h.Outgoing++
		}
		if l.target == n {
			h.Incoming++
		}
	}
	return h, true
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
