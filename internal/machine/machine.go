// Package machine wires CPU, PPU, APU and the cartridge mapper together
// through a shared AddressBus and drives the per-cycle arbitration loop.
// It is the only package in this core that knows how those pieces fit.
package machine

import (
	"github.com/golang/glog"

	"gones/internal/apu"
	"gones/internal/bus"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/debug"
	"gones/internal/input"
	"gones/internal/ppu"
	"gones/internal/region"
)

// RunResult reports why RunUntil stopped.
type RunResult uint8

const (
	Done RunResult = iota
	Breakpoint
)

// Budget bounds a RunUntil call by frames, instructions, or audio samples;
// zero fields are ignored, so set exactly one to bound on that unit.
type Budget struct {
	Frames       uint64
	Instructions uint64
	Samples      uint64
}

// BreakpointFunc is polled once per master cycle; returning true halts
// RunUntil at the current cycle boundary.
type BreakpointFunc func(m *Machine) bool

// Machine owns every emulated component and the AddressBus wiring between
// them, per the orchestrator design.
type Machine struct {
	region *region.Region

	cpu *cpu.CPU
	ppu *ppu.PPU
	apu *apu.APU
	cart *cartridge.Cartridge

	wram  wramDevice
	ports *input.Ports

	cpuBus *bus.AddressBus
	ppuAdapter *ppuBusAdapter

	Debug *debug.Debug

	masterCycle   uint64
	framesElapsed uint64
	instrElapsed  uint64
	lastDataIn    uint8
	lastMapperIRQ bool
}

// New builds a Machine around an already-loaded cartridge. If the
// cartridge carries a battery image saved from a prior session, load it
// with LoadWRAM before calling New.
func New(r *region.Region, cart *cartridge.Cartridge) *Machine {
	m := &Machine{
		region: r,
		cpu:    cpu.New(),
		ppu:    ppu.New(r),
		cart:   cart,
		ports:  input.NewPorts(),
	}
	m.apu = apu.New(r, dmcBusReader{m})
	m.ppuAdapter = &ppuBusAdapter{mapper: cart.Mapper}
	m.ppu.SetBus(m.ppuAdapter)
	m.Debug = debug.New()

	m.cpu.DMA().DeliverDMCByte = m.apu.DeliverDMAByte
	m.cpu.OnInstruction = func(pc uint16, opcode uint8, mnemonic string) {
		m.instrElapsed++
		m.Debug.RecordInstruction(pc, opcode, mnemonic)
	}
	m.ppu.OnFrame = func() {
		m.framesElapsed++
		m.Debug.RecordFrame(m.ppu.FrameBuffer[:])
	}

	m.buildBus()
	return m
}

func (m *Machine) buildBus() {
	b := bus.New()
	b.ExemptFromLatch(0x4015)

	b.RangeAndMask(0x0000, 0x2000, 0x07FF, &m.wram)
	b.RangeAndMask(0x2000, 0x4000, 0x0007, ppuRegisterDevice{m.ppu})

	b.Address(0x4014, oamDMADevice{m})
	b.RegisterRead(exact(0x4016), inputReadDevice{m.ports})
	b.RegisterWrite(exact(0x4016), inputWriteDevice{m.ports})
	b.RegisterRead(exact(0x4017), inputReadDevice{m.ports})
	b.RegisterWrite(exact(0x4017), frameCounterDevice{m.apu})

	b.RangeAndMask(0x4000, 0x4016, 0xFFFF, apuRegisterDevice{m.apu})
	b.Address(0x4015, apuRegisterDevice{m.apu})

	cartDev := mapperDevice{m.cart.Mapper}
	b.RegisterRead(atLeast(0x4020), cartDev)
	b.RegisterWrite(atLeast(0x4020), cartDev)

	m.cpuBus = b
}

func exact(addr uint16) func(uint16) (uint16, bool) {
	return func(a uint16) (uint16, bool) {
		if a == addr {
			return a, true
		}
		return 0, false
	}
}

func atLeast(lo uint16) func(uint16) (uint16, bool) {
	return func(a uint16) (uint16, bool) {
		if a >= lo {
			return a, true
		}
		return 0, false
	}
}

// Power performs the console's power-on sequence.
func (m *Machine) Power() {
	glog.V(1).Infof("machine: power-on, region=%s mapper=%d", m.region.Standard, m.cart.MapperID)
	m.cpu.Power()
	m.ppu.Power()
	m.apu.Reset()
	m.ports.Reset()
	m.cpu.Interrupts().RequestPower()
}

// Reset performs a soft reset.
func (m *Machine) Reset() {
	glog.V(1).Infof("machine: reset at cycle %d", m.masterCycle)
	m.cpu.Reset()
	m.ppu.Reset()
	m.ports.Reset()
	m.cpu.Interrupts().RequestReset()
}

// UserInput is the external control surface Machine accepts, per §6.
type UserInput struct {
	PlayerOneButtons uint8
	PlayerTwoButtons uint8
	HasPlayerOne     bool
	HasPlayerTwo     bool
	Power            bool
	Reset            bool
}

// HandleInput applies one UserInput to the machine.
func (m *Machine) HandleInput(in UserInput) {
	if in.HasPlayerOne {
		m.ports.One.SetButtons(in.PlayerOneButtons)
	}
	if in.HasPlayerTwo {
		m.ports.Two.SetButtons(in.PlayerTwoButtons)
	}
	if in.Power {
		m.Power()
	}
	if in.Reset {
		m.Reset()
	}
}

// GetScreen returns the PPU's current 9-bit-per-pixel frame buffer.
func (m *Machine) GetScreen() *[256 * 240]uint16 { return &m.ppu.FrameBuffer }

// TakeSamples drains the APU's pending audio samples.
func (m *Machine) TakeSamples() []int16 { return m.apu.TakeSamples() }

// SaveWRAM returns the cartridge's battery-backed PRG-RAM, or nil if it has
// none.
func (m *Machine) SaveWRAM() []byte { return m.cart.Mapper.SaveWRAM() }

// Peek/PeekPPU are side-effect-free reads for a debugger.
func (m *Machine) Peek(addr uint16) uint8    { return m.cpuBus.Peek(addr) }
func (m *Machine) PeekPPU(addr uint16) uint8 { return m.ppu.PeekRegister(addr) }

// Region exposes the machine's video-standard constants (palette LUT,
// refresh rate) to a rendering front-end.
func (m *Machine) Region() *region.Region { return m.region }

// FramesElapsed and MasterCycle report the machine's progress counters, for
// save-state bookkeeping and status displays.
func (m *Machine) FramesElapsed() uint64 { return m.framesElapsed }
func (m *Machine) MasterCycle() uint64   { return m.masterCycle }

// CPUSnapshot reports the CPU's current architectural state, for a
// debugger's register display. It is side-effect free.
func (m *Machine) CPUSnapshot() cpu.Snapshot { return m.cpu.Snapshot() }

// RunUntil advances the machine one master cycle at a time until budget is
// satisfied or bp trips, per §4.1's six-step loop.
func (m *Machine) RunUntil(budget Budget, bp BreakpointFunc) RunResult {
	startFrames, startInstr := m.framesElapsed, m.instrElapsed
	startSamples := uint64(len(m.apu.Samples))

	for {
		if bp != nil && bp(m) {
			return Breakpoint
		}
		if budget.Frames > 0 && m.framesElapsed-startFrames >= budget.Frames {
			return Done
		}
		if budget.Instructions > 0 && m.instrElapsed-startInstr >= budget.Instructions {
			return Done
		}
		if budget.Samples > 0 && uint64(len(m.apu.Samples))-startSamples >= budget.Samples {
			return Done
		}
		m.stepMasterCycle()
	}
}

// stepMasterCycle runs exactly one master cycle of §4.1's arbitration loop.
func (m *Machine) stepMasterCycle() {
	cpuEligible := m.masterCycle%3 == 0

	if cpuEligible {
		mapperIRQ := m.cart.Mapper.IRQ()
		if mapperIRQ && !m.lastMapperIRQ {
			glog.V(2).Infof("machine: mapper IRQ asserted at cycle %d", m.masterCycle)
		}
		m.lastMapperIRQ = mapperIRQ

		pins := cpu.Pins{
			IRQLevel: m.apu.IRQ() || mapperIRQ,
			NMILevel: m.ppu.NMIOutput(),
			DataIn:   m.lastDataIn,
		}
		result := m.cpu.Tick(pins)
		m.apu.Tick()
		m.cart.Mapper.Tick()
		m.dispatch(result)
		m.drainDMA()
	}

	m.ppu.Tick()

	// One extra dot every five CPU cycles, i.e. every 15 master cycles.
	if m.region.ExtraPPUTick && m.masterCycle%15 == 14 {
		m.ppu.Tick()
	}

	m.masterCycle++
}

// dispatch carries out the bus transaction the CPU just requested; the
// result (for Fetch/Read/suppressed-Idle) is latched into lastDataIn and
// fed back as Pins.DataIn on the next CPU-eligible cycle.
func (m *Machine) dispatch(result cpu.TickResult) {
	switch result.Op {
	case cpu.OpFetch, cpu.OpRead:
		m.lastDataIn = m.cpuBus.Read(result.Addr)
	case cpu.OpWrite:
		m.cpuBus.Write(result.Addr, result.Value)
	case cpu.OpIdle:
		if result.Addr < 0x4000 || result.Addr > 0x4017 {
			m.lastDataIn = m.cpuBus.Read(result.Addr)
		}
		// Idle reads in 0x4000-0x4017 are suppressed per §4.1 step 3, to
		// avoid a spurious controller-port shift on DMA idle cycles.
	}
}

func (m *Machine) drainDMA() {
	if addr, ok := m.apu.WantsDMA(); ok {
		m.cpu.DMA().RequestDMC(addr)
	}
}
