package force

// Drag binds a pointer gesture to a simulation.
//
// While at least one node is being dragged the simulation stays warm; each
// dragged node is pinned to the pointer. A second Begin on a node that is
// already dragged only re-pins it. Every method is a no-op for an
// unknown node ID.
type Drag struct {
	sim *Simulation
}

// Drag returns the drag handler for s.
func (s *Simulation) Drag() *Drag { return &Drag{sim: s} }

// Begin reheats the simulation and pins id at its current position.
func (d *Drag) Begin(id string) {
	n, ok := d.sim.index[id]
	if !ok {
		return
	}
	if len(d.sim.dragged) == 0 {
		d.sim.Reheat()
	}
	d.sim.dragged[id] = struct{}{}
	d.sim.Pin(id, n.X, n.Y)
}

// Update moves the pin of id to (x, y).
func (d *Drag) Update(id string, x, y float64) {
	if _, ok := d.sim.index[id]; !ok {
		return
	}
	d.sim.Pin(id, x, y)
}

// End releases id. When no dragged node remains on a running simulation the
// alpha target cools back to zero.
func (d *Drag) End(id string) {
	if _, ok := d.sim.index[id]; !ok {
		return
	}
	delete(d.sim.dragged, id)
	if len(d.sim.dragged) == 0 && d.sim.state == Running {
		d.sim.alphaTarget = 0
	}
	d.sim.Unpin(id)
}
