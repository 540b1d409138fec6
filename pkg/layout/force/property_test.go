package force

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSimulationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("pinned node stays on its pin", prop.ForAll(
		func(x, y float64, ticks int, seed uint64) bool {
			sim := NewSimulation(
				testNodes("a", "b", "c", "d"),
				testEdges("a", "b", "b", "c", "c", "d", "d", "a", "a", "a"),
				WithRandomStart(100),
				WithSeed(seed),
			)
			sim.Pin("c", x, y)
			for range ticks {
				sim.Tick()
				n, _ := sim.Node("c")
				if n.X != x || n.Y != y {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-500, 500),
		gen.Float64Range(-500, 500),
		gen.IntRange(1, 100),
		gen.UInt64(),
	))

	properties.Property("positions stay finite", prop.ForAll(
		func(seed uint64, repulsion float64) bool {
			sim := NewSimulation(
				testNodes("a", "b", "c"),
				testEdges("a", "b", "a", "GHOST", "c", "c"),
				WithSeed(seed),
				WithRepulsion(repulsion),
			)
			sim.Run(300)
			return finite(sim.Nodes())
		},
		gen.UInt64(),
		gen.Float64Range(-500, 0),
	))

	properties.TestingRun(t)
}
