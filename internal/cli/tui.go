package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/layout/force"
)

// Canvas styles
var (
	canvasLinkStyle     = lipgloss.NewStyle().Foreground(colorDim)
	canvasSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	canvasPinnedStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	listDimStyle        = lipgloss.NewStyle().Foreground(colorDim)

	nodeStyles = map[graph.NodeType]lipgloss.Style{
		graph.TypeSecurityGroup: lipgloss.NewStyle().Foreground(colorCyan),
		graph.TypeCIDRIP:        lipgloss.NewStyle().Foreground(colorGreen),
		graph.TypeCIDRIPv6:      lipgloss.NewStyle().Foreground(colorBlue),
		graph.TypePrefixList:    lipgloss.NewStyle().Foreground(colorYellow),
	}
	nodeGlyphs = map[graph.NodeType]rune{
		graph.TypeSecurityGroup: 'S',
		graph.TypeCIDRIP:        'C',
		graph.TypeCIDRIPv6:      '6',
		graph.TypePrefixList:    'P',
	}
)

const (
	frameInterval = time.Second / 30
	panelWidth    = 34
	minCanvasW    = 20
	minCanvasH    = 8

	// dragRelease is the number of idle frames after which a keyboard drag
	// ends on its own.
	dragRelease = 15

	// dragSteps divides the visible extent into arrow-key increments.
	dragSteps = 40
)

// =============================================================================
// SimulationModel - Interactive force simulation
// =============================================================================

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// SimulationModel is the bubbletea model that ticks a force simulation once
// per frame and lets the user drag nodes with the keyboard.
type SimulationModel struct {
	Sim *force.Simulation

	ids      []string
	cursor   int
	drag     *force.Drag
	dragging string
	idle     int
	paused   bool
	extent   float64

	Width  int
	Height int
}

// NewSimulationModel creates a model over sim.
func NewSimulationModel(sim *force.Simulation) SimulationModel {
	nodes := sim.Nodes()
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return SimulationModel{
		Sim:    sim,
		ids:    ids,
		drag:   sim.Drag(),
		Width:  80,
		Height: 24,
	}
}

// Selected returns the ID of the node under the cursor, or "" for an empty
// simulation.
func (m SimulationModel) Selected() string {
	if len(m.ids) == 0 {
		return ""
	}
	return m.ids[m.cursor]
}

// Dragging returns the ID of the node being dragged, or "".
func (m SimulationModel) Dragging() string { return m.dragging }

// Paused reports whether ticking is suspended.
func (m SimulationModel) Paused() bool { return m.paused }

func (m SimulationModel) Init() tea.Cmd {
	return nextFrame()
}

func (m SimulationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.Sim.State() == force.Stopped {
			return m, nil
		}
		if !m.paused {
			m.Sim.Tick()
		}
		m.visibleExtent()
		if m.dragging != "" {
			m.idle++
			if m.idle >= dragRelease {
				m = m.release()
			}
		}
		return m, nextFrame()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m = m.release()
			m.Sim.Stop()
			return m, tea.Quit
		case "tab":
			m = m.release()
			if len(m.ids) > 0 {
				m.cursor = (m.cursor + 1) % len(m.ids)
			}
		case "shift+tab":
			m = m.release()
			if len(m.ids) > 0 {
				m.cursor = (m.cursor - 1 + len(m.ids)) % len(m.ids)
			}
		case "up", "k":
			m = m.nudge(0, -1)
		case "down", "j":
			m = m.nudge(0, 1)
		case "left", "h":
			m = m.nudge(-1, 0)
		case "right", "l":
			m = m.nudge(1, 0)
		case "enter":
			m = m.release()
		case " ":
			m.paused = !m.paused
		case "r":
			m.Sim.SetAlpha(1)
		}

	case tea.WindowSizeMsg:
		m.Width = max(msg.Width, minCanvasW+panelWidth)
		m.Height = max(msg.Height, minCanvasH+4)
	}
	return m, nil
}

// nudge starts or continues a drag of the selected node and moves its pin
// one step in direction (dx, dy).
func (m SimulationModel) nudge(dx, dy float64) SimulationModel {
	id := m.Selected()
	if id == "" {
		return m
	}
	if m.dragging != id {
		m = m.release()
		m.drag.Begin(id)
		m.dragging = id
	}
	n, _ := m.Sim.Node(id)
	step := m.visibleExtent() * 2 / dragSteps
	m.drag.Update(id, n.FX+dx*step, n.FY+dy*step)
	m.idle = 0
	return m
}

// release ends the active drag, if any.
func (m SimulationModel) release() SimulationModel {
	if m.dragging != "" {
		m.drag.End(m.dragging)
		m.dragging = ""
		m.idle = 0
	}
	return m
}

// visibleExtent is the half-width of the world square shown on the canvas.
// It grows with the layout and never shrinks, so the view does not jitter.
func (m *SimulationModel) visibleExtent() float64 {
	ext := max(m.extent, 50)
	for _, n := range m.Sim.Nodes() {
		ext = max(ext, math.Abs(n.X)*1.1, math.Abs(n.Y)*1.1)
	}
	m.extent = ext
	return ext
}

func (m SimulationModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Force Simulation"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab select  arrows drag  ⏎ release  space pause  r reheat  q quit"))
	b.WriteString("\n\n")

	canvas := m.renderCanvas(m.Width-panelWidth-2, m.Height-4)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, canvas, "  ", m.renderPanel()))

	return b.String()
}

type cell struct {
	ch    rune
	style *lipgloss.Style
}

// renderCanvas draws links as dotted lines and nodes as type glyphs on a
// w×h character grid centred on the origin.
func (m SimulationModel) renderCanvas(w, h int) string {
	w, h = max(w, minCanvasW), max(h, minCanvasH)
	grid := make([][]cell, h)
	for i := range grid {
		grid[i] = make([]cell, w)
	}

	ext := m.visibleExtent()
	project := func(x, y float64) (int, int) {
		col := int(math.Round((x/ext + 1) / 2 * float64(w-1)))
		row := int(math.Round((y/ext + 1) / 2 * float64(h-1)))
		return col, row
	}
	plot := func(col, row int, c cell) {
		if row >= 0 && row < h && col >= 0 && col < w {
			grid[row][col] = c
		}
	}

	for _, l := range m.Sim.Geometry() {
		if l.SelfLoop {
			continue
		}
		c0, r0 := project(l.X1, l.Y1)
		c1, r1 := project(l.X2, l.Y2)
		line(c0, r0, c1, r1, func(col, row int) {
			plot(col, row, cell{ch: '·', style: &canvasLinkStyle})
		})
	}

	selected := m.Selected()
	for _, n := range m.Sim.Nodes() {
		col, row := project(n.X, n.Y)
		glyph, ok := nodeGlyphs[n.Type]
		if !ok {
			glyph = '?'
		}
		style := nodeStyles[n.Type]
		switch {
		case n.Pinned():
			style = canvasPinnedStyle
		case n.ID == selected:
			style = canvasSelectedStyle
		}
		plot(col, row, cell{ch: glyph, style: &style})
	}

	var b strings.Builder
	for i, r := range grid {
		for _, c := range r {
			if c.ch == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.ch)))
		}
		if i < len(grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// line walks the cells between two points with Bresenham's algorithm.
func line(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// renderPanel shows simulation state and the selected node.
func (m SimulationModel) renderPanel() string {
	state := m.Sim.State().String()
	if m.paused {
		state = "paused"
	}
	rows := [][]string{
		{"state", state},
		{"alpha", fmt.Sprintf("%.4f", m.Sim.Alpha())},
		{"target", fmt.Sprintf("%.2f", m.Sim.AlphaTarget())},
		{"ticks", fmt.Sprintf("%d", m.Sim.Ticks())},
		{"nodes", fmt.Sprintf("%d", len(m.ids))},
	}
	if hv, ok := m.Sim.Hover(m.Selected()); ok {
		rows = append(rows,
			[]string{"selected", truncate(hv.Name, panelWidth-14)},
			[]string{"type", fmt.Sprintf("%s (%s)", hv.Type, hv.Icon)},
			[]string{"in / out", fmt.Sprintf("%d / %d", hv.Incoming, hv.Outgoing)},
			[]string{"position", fmt.Sprintf("%.0f, %.0f", hv.X, hv.Y)},
		)
	}
	if m.dragging != "" {
		rows = append(rows, []string{"dragging", truncate(m.dragging, panelWidth-14)})
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return StyleValue
		})
	return t.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
