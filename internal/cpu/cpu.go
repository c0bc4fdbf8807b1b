// Package cpu implements a cycle-stepped MOS 6502 (NES variant, decimal
// mode disabled) as a sequence of one-cycle TickResults. The CPU never
// touches the bus directly; Machine dispatches each TickResult and feeds
// the resulting byte back in on the next Tick call via Pins.DataIn.
package cpu

import "fmt"

// CycleOp tags what a TickResult asks the bus to do this cycle.
type CycleOp uint8

const (
	OpFetch CycleOp = iota // opcode/operand fetch from PC (PC advances)
	OpRead
	OpWrite
	OpIdle
)

func (o CycleOp) String() string {
	switch o {
	case OpFetch:
		return "Fetch"
	case OpRead:
		return "Read"
	case OpWrite:
		return "Write"
	default:
		return "Idle"
	}
}

// TickResult is exactly one bus transaction, emitted once per CPU cycle.
type TickResult struct {
	Op    CycleOp
	Addr  uint16
	Value uint8 // valid when Op == OpWrite
}

// Pins are the CPU's external inputs for one cycle.
type Pins struct {
	IRQLevel  bool // level-triggered, masked by I
	NMILevel  bool // edge-triggered internally
	ResetEdge bool
	PowerEdge bool
	DataIn    uint8 // result of the bus op dispatched for the previous TickResult
}

// step is one micro-cycle of the instruction currently executing. The full
// step list for an instruction is built once, at decode time (beginNext);
// each step consumes the previous cycle's bus result and decides this
// cycle's bus request.
type step func(c *CPU, dataIn uint8) TickResult

// CPU holds 6502 register and micro-sequencer state. It never owns memory;
// all bus access happens through the TickResult/Pins protocol.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	N, V, D, I, Z, C bool

	queue []step

	// Scratch latches shared by addressing-mode step generators.
	opcode      uint8
	operandLo   uint8
	operandHi   uint8
	addr        uint16
	ptr         uint8 // zero-page pointer latch for (zp,X)/(zp),Y
	fetched     uint8
	branchDelta int8

	instr *Instruction

	// pendingFinish, when set, runs once at the next queue-drain boundary
	// with that cycle's freshly-arrived bus data before beginNext decides
	// what to do next. Read instructions use it to apply their operand (see
	// finalRead), and the interrupt sequence, BRK, JSR, JMP and RTI use it
	// to latch the last byte they read into PC before the next fetch.
	pendingFinish func(c *CPU, dataIn uint8)

	interrupts Interrupts
	dma        DMA

	halted   bool // KIL: frozen, keeps idling forever
	haltedOp uint8
	cycles   uint64 // total CPU cycles retired, used for DMA parity

	// OnInstruction, if set, is invoked once per retired instruction; the
	// Debug object wires this to its instruction-history ring.
	OnInstruction func(pc uint16, opcode uint8, mnemonic string)
}

// New creates a CPU. Power() or Reset() must be called before Tick.
func New() *CPU {
	c := &CPU{}
	c.Power()
	return c
}

// Power performs the power-on sequence: SP=0xFD, P=0x34, PC loaded from the
// reset vector via a pending Power interrupt (§3).
func (c *CPU) Power() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.setP(0x34)
	c.queue = nil
	c.halted = false
	c.cycles = 0
	c.interrupts = Interrupts{}
	c.interrupts.RequestPower()
	c.dma = DMA{}
}

// Reset performs the reset sequence: SP -= 3, I set, PC from reset vector.
func (c *CPU) Reset() {
	c.SP -= 3
	c.I = true
	c.queue = nil
	c.halted = false
	c.interrupts.RequestReset()
}

// P packs the flags into the conventional NV-BDIZC status byte, with the B
// flag set (the convention used by PHP/BRK and by debugger peeks).
func (c *CPU) P() uint8 {
	return c.packP(true)
}

func (c *CPU) packP(bSet bool) uint8 {
	var p uint8 = 0x20 // unused bit always reads 1
	if c.N {
		p |= 0x80
	}
	if c.V {
		p |= 0x40
	}
	if bSet {
		p |= 0x10
	}
	if c.D {
		p |= 0x08
	}
	if c.I {
		p |= 0x04
	}
	if c.Z {
		p |= 0x02
	}
	if c.C {
		p |= 0x01
	}
	return p
}

func (c *CPU) setP(p uint8) {
	c.N = p&0x80 != 0
	c.V = p&0x40 != 0
	c.D = p&0x08 != 0
	c.I = p&0x04 != 0
	c.Z = p&0x02 != 0
	c.C = p&0x01 != 0
}

// Halted reports whether the CPU hit a KIL opcode and is frozen.
func (c *CPU) Halted() bool { return c.halted }

// Cycles returns the total number of CPU cycles retired since Power().
func (c *CPU) Cycles() uint64 { return c.cycles }

// DMA exposes the DMA sub-unit so Machine can post OAM/DMC requests.
func (c *CPU) DMA() *DMA { return &c.dma }

// Interrupts exposes the interrupt-pin sub-unit so Machine can wire mapper
// and APU IRQ lines and PPU NMI into it before each eligible cycle.
func (c *CPU) Interrupts() *Interrupts { return &c.interrupts }

// Tick advances the CPU by exactly one cycle and returns the bus
// transaction for that cycle.
func (c *CPU) Tick(pins Pins) TickResult {
	c.cycles++
	c.interrupts.Sample(pins)

	if c.halted {
		return TickResult{Op: OpRead, Addr: 0xFFFF}
	}

	if len(c.queue) == 0 {
		if c.pendingFinish != nil {
			f := c.pendingFinish
			c.pendingFinish = nil
			f(c, pins.DataIn)
		}
		c.beginNext()
	}

	s := c.queue[0]
	c.queue = c.queue[1:]
	return s(c, pins.DataIn)
}

// beginNext runs at an instruction boundary: service a pending DMA request
// (at instruction-boundary granularity — see DESIGN.md for why this core
// does not interrupt an in-flight instruction mid-operand for DMA), then
// interrupts by priority, then decode the next opcode.
func (c *CPU) beginNext() {
	if c.dma.Pending() {
		c.queue = c.dma.BuildSteps(c.cycles)
		return
	}

	if kind, vector := c.interrupts.Poll(c.I); kind != NoInterrupt {
		c.queue = c.buildInterruptSequence(kind, vector)
		return
	}

	c.queue = []step{
		func(c *CPU, _ uint8) TickResult {
			return TickResult{Op: OpFetch, Addr: c.PC}
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.opcode = dataIn
			c.PC++
			c.instr = &opcodeTable[c.opcode]
			if c.OnInstruction != nil {
				c.OnInstruction(c.PC-1, c.opcode, c.instr.Mnemonic)
			}
			if c.instr.Mnemonic == "KIL" {
				c.halted = true
				c.haltedOp = c.opcode
				return TickResult{Op: OpRead, Addr: c.PC}
			}
			c.queue = c.instr.Build(c)
			return c.popFirstOrIdle()
		},
	}
}

// popFirstOrIdle lets the opcode-decode step above chain straight into the
// instruction's first real cycle without waiting for another Tick call.
func (c *CPU) popFirstOrIdle() TickResult {
	if len(c.queue) == 0 {
		return TickResult{Op: OpIdle, Addr: c.PC}
	}
	s := c.queue[0]
	c.queue = c.queue[1:]
	return s(c, 0)
}

const stackBase = 0x0100

// pushAddr returns the address of the next free stack slot and decrements
// SP; pullAddr increments SP first and returns the new top-of-stack
// address. Addressing-mode/opcode builders issue the actual
// OpWrite/OpRead steps around these.
func (c *CPU) pushAddr() uint16 {
	addr := stackBase + uint16(c.SP)
	c.SP--
	return addr
}

func (c *CPU) pullAddr() uint16 {
	c.SP++
	return stackBase + uint16(c.SP)
}

// String renders the current register state for debug output.
func (c *CPU) String() string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X SP=%02X PC=%04X P=%02X",
		c.A, c.X, c.Y, c.SP, c.PC, c.P())
}

// setZN sets the Z and N flags from a result byte, as almost every
// instruction that touches a register or memory operand does.
func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}
