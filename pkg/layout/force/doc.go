// Package force implements a force-directed layout as an explicit
// tick-driven state machine.
//
// A [Simulation] starts in the Running state with alpha = 1. Each [Simulation.Tick]
// cools alpha toward its target, applies three forces and integrates:
//
//   - springs along every edge toward a rest length (default 50), stiffer
//     between low-degree nodes
//   - pairwise inverse-distance repulsion (default strength -150)
//   - a pull toward the origin on each axis (default strength 0.1)
//
// Velocities decay by 40% per tick. Pinned nodes are snapped to their pin
// and their velocity is discarded, so a pinned node's position equals its
// pin after every tick.
//
// The simulation never stops on its own. Callers decide cadence (one tick
// per frame, a fixed budget, or [Simulation.Run] until alpha drops below
// the minimum) and call [Simulation.Stop] on teardown. Stopped is terminal.
//
// # Dragging
//
// [Drag] maps a pointer gesture onto pins:
//
//	d := sim.Drag()
//	d.Begin("sg-1")             // reheat, pin at current position
//	d.Update("sg-1", 120, -40)  // follow the pointer
//	d.End("sg-1")               // cool down, release
//
// # Invalid references
//
// Edges naming unknown nodes are skipped when the simulation is built and
// reported by [Simulation.InvalidLinks] as INVALID_REFERENCE errors.
//
// # Determinism
//
// Initial placement is a phyllotaxis spiral unless [WithRandomStart] is
// given; randomness comes from a PCG source seeded by [WithSeed], so equal
// inputs and options produce equal trajectories.
package force
