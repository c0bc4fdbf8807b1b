package cpu

// InterruptKind identifies which vector an accepted interrupt services.
type InterruptKind uint8

const (
	NoInterrupt InterruptKind = iota
	PowerInterrupt
	ResetInterrupt
	NMIInterrupt
	IRQInterrupt
)

const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
)

// Interrupts implements the per-kind edge/level detectors described in §3:
// priority Power > Reset > NMI > IRQ, NMI edge-triggered on the high-going
// transition of the PPU's nmi line, IRQ level-triggered and masked by I.
type Interrupts struct {
	powerPending bool
	resetPending bool
	nmiPrev      bool
	nmiPending   bool
	irqLevel     bool
}

// RequestPower/RequestReset latch a pending power-on/reset sequence; they
// are serviced on the next instruction boundary regardless of I.
func (in *Interrupts) RequestPower() { in.powerPending = true }
func (in *Interrupts) RequestReset() { in.resetPending = true }

// Sample is called once per CPU-eligible cycle with the current pin state;
// it edge-detects NMI and updates the pending power/reset latches.
func (in *Interrupts) Sample(pins Pins) {
	if pins.PowerEdge {
		in.powerPending = true
	}
	if pins.ResetEdge {
		in.resetPending = true
	}
	if pins.NMILevel && !in.nmiPrev {
		in.nmiPending = true
	}
	in.nmiPrev = pins.NMILevel
	in.irqLevel = pins.IRQLevel
}

// Poll is called at an instruction boundary (the model's equivalent of
// "the next-to-last cycle of every instruction" from §3 — this core polls
// once per instruction rather than mid-instruction, see DESIGN.md) and
// returns the highest-priority pending interrupt, if any, clearing its
// latch (IRQ is level-triggered and is not latched here: I masks it on
// poll, and re-polled every instruction while the level remains asserted).
func (in *Interrupts) Poll(iFlag bool) (InterruptKind, uint16) {
	if in.powerPending {
		in.powerPending = false
		return PowerInterrupt, vectorReset
	}
	if in.resetPending {
		in.resetPending = false
		return ResetInterrupt, vectorReset
	}
	if in.nmiPending {
		in.nmiPending = false
		return NMIInterrupt, vectorNMI
	}
	if in.irqLevel && !iFlag {
		return IRQInterrupt, vectorIRQ
	}
	return NoInterrupt, 0
}

// buildInterruptSequence builds the 7-cycle (2 for power/reset's implicit
// dummy reads, same total shape) BRK-like sequence of §3: push PCH, PCL, P
// (B clear for hardware interrupts), set I, read the vector low/high bytes.
// Power and Reset additionally force P=0x34/SP-=3 (already applied by
// Power()/Reset() before the pending flag was set) and do not push
// anything to the (possibly garbage) stack in the conventional sense on
// real hardware reset, but this core models Reset identically to the
// others except that it does not leave an observable write (it issues read
// cycles of the stack top instead of write cycles at the three "push"
// slots, matching the well-documented behaviour that reset performs dummy
// stack reads, not writes) and leaves SP as Power()/Reset() set it.
func (c *CPU) buildInterruptSequence(kind InterruptKind, vector uint16) []step {
	isReset := kind == ResetInterrupt || kind == PowerInterrupt
	steps := make([]step, 0, 7)

	steps = append(steps,
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: c.PC} },
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: c.PC} },
	)

	pushOrDummy := func(getValue func(c *CPU) uint8) step {
		return func(c *CPU, _ uint8) TickResult {
			if isReset {
				return TickResult{Op: OpRead, Addr: stackBase + uint16(c.SP)}
			}
			addr := c.pushAddr()
			return TickResult{Op: OpWrite, Addr: addr, Value: getValue(c)}
		}
	}
	steps = append(steps,
		pushOrDummy(func(c *CPU) uint8 { return uint8(c.PC >> 8) }),
		pushOrDummy(func(c *CPU) uint8 { return uint8(c.PC) }),
		pushOrDummy(func(c *CPU) uint8 { return c.packP(false) }),
	)

	steps = append(steps,
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: vector} },
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			// The vector-high byte requested here only arrives on the
			// next Tick call, once this (7-cycle) sequence's queue has
			// drained; pendingFinish latches PC from it before the new
			// instruction stream's first fetch.
			c.pendingFinish = func(c *CPU, dataIn uint8) {
				c.operandHi = dataIn
				c.PC = uint16(c.operandHi)<<8 | uint16(c.operandLo)
				c.I = true
			}
			return TickResult{Op: OpRead, Addr: vector + 1}
		},
	)
	return steps
}
