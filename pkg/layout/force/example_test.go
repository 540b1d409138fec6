package force_test

import (
	"fmt"

	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/layout/force"
)

func ExampleSimulation() {
	nodes := []graph.Node{
		{ID: "sg-web", Type: graph.TypeSecurityGroup},
		{ID: "sg-db", Type: graph.TypeSecurityGroup},
		{ID: "0.0.0.0/0", Type: graph.TypeCIDRIP},
	}
	edges := []graph.Edge{
		{Source: "0.0.0.0/0", Target: "sg-web"},
		{Source: "sg-web", Target: "sg-db"},
		{Source: "sg-web", Target: "GHOST"},
	}

	sim := force.NewSimulation(nodes, edges, force.WithSeed(1))
	for _, err := range sim.InvalidLinks() {
		fmt.Println("skipped:", err)
	}

	ticks := sim.Run(1000)
	fmt.Println("converged:", sim.Converged(), "ticks < 400:", ticks < 400)

	sim.Stop()
	fmt.Println("state:", sim.State())
	// Output:
	// skipped: INVALID_REFERENCE: edge sg-web -> GHOST references unknown node "GHOST"
	// converged: true ticks < 400: true
	// state: stopped
}

func ExampleDrag() {
	sim := force.NewSimulation([]graph.Node{{ID: "a"}, {ID: "b"}}, []graph.Edge{{Source: "a", Target: "b"}})
	drag := sim.Drag()

	drag.Begin("a")
	drag.Update("a", 100, 50)
	sim.Tick()
	n, _ := sim.Node("a")
	fmt.Println(n.X, n.Y, n.Pinned())

	drag.End("a")
	n, _ = sim.Node("a")
	fmt.Println(n.Pinned())
	// Output:
	// 100 50 true
	// false
}
