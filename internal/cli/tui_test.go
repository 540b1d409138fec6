package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/layout/force"
)

func newTestModel() SimulationModel {
	nodes := []graph.Node{
		{ID: "sg-a", Type: graph.TypeSecurityGroup},
		{ID: "sg-b", Type: graph.TypeSecurityGroup},
		{ID: "10.0.0.0/8", Type: graph.TypeCIDRIP},
	}
	edges := []graph.Edge{
		{Source: "10.0.0.0/8", Target: "sg-a"},
		{Source: "sg-a", Target: "sg-b"},
	}
	return NewSimulationModel(force.NewSimulation(nodes, edges))
}

func send(m SimulationModel, msg tea.Msg) (SimulationModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(SimulationModel), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSimulationModelSelection(t *testing.T) {
	m := newTestModel()
	if got := m.Selected(); got != "sg-a" {
		t.Fatalf("initial selection = %q, want sg-a", got)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"tab", "sg-b"},
		{"tab", "10.0.0.0/8"},
		{"tab", "sg-a"},
		{"shift+tab", "10.0.0.0/8"},
	}
	for _, tt := range tests {
		m, _ = send(m, key(tt.key))
		if got := m.Selected(); got != tt.want {
			t.Errorf("after %s selection = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestSimulationModelDrag(t *testing.T) {
	m := newTestModel()
	before, _ := m.Sim.Node("sg-a")

	m, _ = send(m, key("right"))
	if got := m.Dragging(); got != "sg-a" {
		t.Fatalf("Dragging() = %q, want sg-a", got)
	}
	n, _ := m.Sim.Node("sg-a")
	if !n.Pinned() {
		t.Fatal("dragged node is not pinned")
	}
	if n.FX <= before.X || n.FY != before.Y {
		t.Errorf("pin = (%v, %v), want right of (%v, %v)", n.FX, n.FY, before.X, before.Y)
	}
	if m.Sim.AlphaTarget() != force.DefaultReheatTarget {
		t.Errorf("AlphaTarget() = %v, want %v", m.Sim.AlphaTarget(), force.DefaultReheatTarget)
	}

	m, _ = send(m, key("up"))
	moved, _ := m.Sim.Node("sg-a")
	if moved.FY >= n.FY || moved.FX != n.FX {
		t.Errorf("pin after up = (%v, %v), want above (%v, %v)", moved.FX, moved.FY, n.FX, n.FY)
	}

	m, _ = send(m, key("enter"))
	if m.Dragging() != "" {
		t.Errorf("Dragging() = %q after release, want empty", m.Dragging())
	}
	if n, _ := m.Sim.Node("sg-a"); n.Pinned() {
		t.Error("node still pinned after release")
	}
	if m.Sim.AlphaTarget() != 0 {
		t.Errorf("AlphaTarget() = %v after release, want 0", m.Sim.AlphaTarget())
	}
}

func TestSimulationModelDragTimeout(t *testing.T) {
	m := newTestModel()
	m, _ = send(m, key("right"))

	for i := 0; i < dragRelease-1; i++ {
		m, _ = send(m, frameMsg(time.Now()))
	}
	if m.Dragging() == "" {
		t.Fatal("drag ended before the idle timeout")
	}

	m, _ = send(m, frameMsg(time.Now()))
	if m.Dragging() != "" {
		t.Errorf("Dragging() = %q after timeout, want empty", m.Dragging())
	}
}

func TestSimulationModelTabEndsDrag(t *testing.T) {
	m := newTestModel()
	m, _ = send(m, key("right"))
	m, _ = send(m, key("tab"))

	if m.Dragging() != "" {
		t.Errorf("Dragging() = %q after tab, want empty", m.Dragging())
	}
	if n, _ := m.Sim.Node("sg-a"); n.Pinned() {
		t.Error("previous selection still pinned")
	}
}

func TestSimulationModelPauseAndReheat(t *testing.T) {
	m := newTestModel()

	m, cmd := send(m, frameMsg(time.Now()))
	if cmd == nil {
		t.Fatal("frame on a running simulation should schedule the next frame")
	}
	if m.Sim.Ticks() != 1 {
		t.Fatalf("Ticks() = %d, want 1", m.Sim.Ticks())
	}

	m, _ = send(m, key("space"))
	if !m.Paused() {
		t.Fatal("space did not pause")
	}
	m, _ = send(m, frameMsg(time.Now()))
	if m.Sim.Ticks() != 1 {
		t.Errorf("Ticks() = %d while paused, want 1", m.Sim.Ticks())
	}

	m.Sim.SetAlpha(0.01)
	m, _ = send(m, key("r"))
	if m.Sim.Alpha() != 1 {
		t.Errorf("Alpha() = %v after reheat, want 1", m.Sim.Alpha())
	}
}

func TestSimulationModelQuit(t *testing.T) {
	m := newTestModel()
	m, _ = send(m, key("right"))

	m, cmd := send(m, key("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
	if m.Sim.State() != force.Stopped {
		t.Errorf("State() = %v, want stopped", m.Sim.State())
	}
	if n, _ := m.Sim.Node("sg-a"); n.Pinned() {
		t.Error("quit left a node pinned")
	}

	if _, cmd := send(m, frameMsg(time.Now())); cmd != nil {
		t.Error("frame on a stopped simulation should not schedule another")
	}
}

func TestSimulationModelView(t *testing.T) {
	m := newTestModel()
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	for _, want := range []string{"Force Simulation", "S", "C", "alpha", "sg-a"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestSimulationModelEmpty(t *testing.T) {
	m := NewSimulationModel(force.NewSimulation(nil, nil))
	m, _ = send(m, key("tab"))
	m, _ = send(m, key("right"))
	if m.Selected() != "" || m.Dragging() != "" {
		t.Errorf("empty model selected %q dragging %q", m.Selected(), m.Dragging())
	}
	_ = m.View()
}

func TestLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		wantCells      int
	}{
		{"point", 2, 2, 2, 2, 1},
		{"horizontal", 0, 0, 4, 0, 5},
		{"vertical", 0, 3, 0, 0, 4},
		{"diagonal", 0, 0, 3, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cells [][2]int
			line(tt.x0, tt.y0, tt.x1, tt.y1, func(x, y int) {
				cells = append(cells, [2]int{x, y})
			})
			if len(cells) != tt.wantCells {
				t.Errorf("visited %d cells, want %d", len(cells), tt.wantCells)
			}
			if first := cells[0]; first != [2]int{tt.x0, tt.y0} {
				t.Errorf("first cell = %v, want (%d, %d)", first, tt.x0, tt.y0)
			}
			if last := cells[len(cells)-1]; last != [2]int{tt.x1, tt.y1} {
				t.Errorf("last cell = %v, want (%d, %d)", last, tt.x1, tt.y1)
			}
		})
	}
}
