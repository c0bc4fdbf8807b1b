package cpu

// Snapshot captures the CPU's architectural state for Machine's save-state
// support. The in-flight micro-op queue is not serializable (its steps are
// closures captured at decode time), so a restore always resumes at the next
// instruction boundary rather than mid-instruction; see DESIGN.md.
type Snapshot struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	N, V, D, I, Z, C bool

	Cycles   uint64
	Halted   bool
	HaltedOp uint8

	PowerPending bool
	ResetPending bool
	NMIPrev      bool
	NMIPending   bool
	IRQLevel     bool
}

// Snapshot returns the CPU's current architectural state.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC,
		N: c.N, V: c.V, D: c.D, I: c.I, Z: c.Z, C: c.C,
		Cycles: c.cycles, Halted: c.halted, HaltedOp: c.haltedOp,
		PowerPending: c.interrupts.powerPending,
		ResetPending: c.interrupts.resetPending,
		NMIPrev:      c.interrupts.nmiPrev,
		NMIPending:   c.interrupts.nmiPending,
		IRQLevel:     c.interrupts.irqLevel,
	}
}

// Restore re-establishes architectural state from a Snapshot. The
// micro-sequencer is reset to an empty queue, so the next Tick call begins a
// fresh opcode fetch at PC.
func (c *CPU) Restore(s Snapshot) {
	c.A, c.X, c.Y, c.SP, c.PC = s.A, s.X, s.Y, s.SP, s.PC
	c.N, c.V, c.D, c.I, c.Z, c.C = s.N, s.V, s.D, s.I, s.Z, s.C
	c.cycles, c.halted, c.haltedOp = s.Cycles, s.Halted, s.HaltedOp
	c.queue = nil
	c.pendingFinish = nil
	c.interrupts = Interrupts{
		powerPending: s.PowerPending,
		resetPending: s.ResetPending,
		nmiPrev:      s.NMIPrev,
		nmiPending:   s.NMIPending,
		irqLevel:     s.IRQLevel,
	}
	c.dma = DMA{}
}
