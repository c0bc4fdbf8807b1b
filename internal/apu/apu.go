// Package apu implements the five-channel NES Audio Processing Unit: two
// pulse channels, triangle, noise, and DMC, driven by a shared frame
// sequencer. One Tick call corresponds to one CPU cycle, matching the
// cycle-stepped design of internal/cpu and internal/ppu.
package apu

import "gones/internal/region"

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6,
	160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22,
	192, 24, 72, 26, 16, 28, 32, 30,
}

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// pulseTable and tndTable are the non-linear DAC mixing curves of §4.4,
// generated once here rather than per call: pulseTable[p1+p2] and
// tndTable[3*triangle + 2*noise + dmc].
var pulseTable [31]float64
var tndTable [203]float64

func init() {
	for i := range pulseTable {
		if i == 0 {
			continue
		}
		pulseTable[i] = 95.52 / (8128.0/float64(i) + 100.0)
	}
	for i := range tndTable {
		if i == 0 {
			continue
		}
		tndTable[i] = 163.67 / (24329.0/float64(i) + 100.0)
	}
}

// DMAReader lets the DMC channel pull sample bytes from CPU address space;
// Machine wires this to the AddressBus.
type DMAReader interface {
	ReadDMCSample(addr uint16) uint8
}

// APU bundles the five channels and the frame sequencer.
type APU struct {
	region *region.Region
	dma    DMAReader

	pulse1, pulse2 pulse
	triangle       triangle
	noise          noise
	dmc            dmc

	frameMode      bool // false = 4-step, true = 5-step
	frameIRQInhibit bool
	frameIRQFlag    bool
	frameCounter    int
	frameResetDelay int

	cycle uint64

	// Samples is the bounded ring buffer samples are appended to; Machine
	// drains it via TakeSamples, per §5's sample-channel model.
	Samples []int16
}

func New(r *region.Region, dma DMAReader) *APU {
	a := &APU{region: r, dma: dma}
	a.noise.shift = 1
	return a
}

func (a *APU) Reset() {
	*a = *New(a.region, a.dma)
}

// IRQ reports the APU's combined frame/DMC IRQ line.
func (a *APU) IRQ() bool { return a.frameIRQFlag || a.dmc.irqFlag }

// WantsDMA/TakeDMARequest let Machine service a pending DMC sample fetch
// through the CPU's DMA sub-unit, mirroring cpu.DMA's OAM request shape.
func (a *APU) WantsDMA() (addr uint16, ok bool) {
	if a.dmc.dmaPending {
		return a.dmc.dmaAddr, true
	}
	return 0, false
}

func (a *APU) DeliverDMAByte(value uint8) {
	a.dmc.dmaPending = false
	a.dmc.sampleBuffer = value
	a.dmc.sampleBufferFull = true
}

// Tick advances every channel and the frame sequencer by one CPU cycle and
// appends the mixed sample to Samples.
func (a *APU) Tick() {
	a.cycle++

	a.triangle.tickTimer()
	if a.cycle%2 == 0 {
		a.pulse1.tickTimer()
		a.pulse2.tickTimer()
		a.noise.tickTimer()
	}
	a.dmc.tickTimer(a)

	a.tickFrameSequencer()

	p1, p2 := a.pulse1.output(), a.pulse2.output()
	t, n, d := a.triangle.output(), a.noise.output(), a.dmc.output

	sample := pulseTable[p1+p2] + tndTable[3*int(t)+2*int(n)+int(d)]
	scaled := int16(sample * 65535 / 1.12 - 32768*0.6)
	a.pushSample(scaled)
}

func (a *APU) pushSample(s int16) {
	const maxBuffered = 8192
	if len(a.Samples) >= maxBuffered {
		a.Samples = a.Samples[:0] // overflow: drop and restart rather than block
	}
	a.Samples = append(a.Samples, s)
}

// TakeSamples drains and returns the buffered samples, per §6.
func (a *APU) TakeSamples() []int16 {
	out := a.Samples
	a.Samples = nil
	return out
}

func (a *APU) sequenceSchedule() [5]int {
	if a.frameMode {
		return a.region.FiveStepSequence
	}
	return a.region.FourStepSequence
}

func (a *APU) tickFrameSequencer() {
	if a.frameResetDelay > 0 {
		a.frameResetDelay--
		if a.frameResetDelay == 0 {
			a.frameCounter = 0
		}
	}

	schedule := a.sequenceSchedule()
	a.frameCounter++
	for i, boundary := range schedule {
		if a.frameCounter != boundary {
			continue
		}
		quarter := true
		half := i == 1 || i == 3 || (a.frameMode && i == 4) || (!a.frameMode && i == 3)
		if !a.frameMode && (i == 3 || i == 4) && !a.frameIRQInhibit {
			a.frameIRQFlag = true
		}
		if quarter {
			a.clockQuarterFrame()
		}
		if half {
			a.clockHalfFrame()
		}
		if a.frameCounter == boundary && boundary == schedule[len(schedule)-1] {
			a.frameCounter = 0
		}
	}
}

func (a *APU) clockQuarterFrame() {
	a.pulse1.clockEnvelope()
	a.pulse2.clockEnvelope()
	a.noise.clockEnvelope()
	a.triangle.clockLinearCounter()
}

func (a *APU) clockHalfFrame() {
	a.pulse1.clockLengthAndSweep(true)
	a.pulse2.clockLengthAndSweep(false)
	a.triangle.clockLength()
	a.noise.clockLength()
}

// --- CPU-facing register access, $4000-$4017 ---

func (a *APU) WriteRegister(addr uint16, value uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.pulse1.write(addr-0x4000, value)
	case addr >= 0x4004 && addr <= 0x4007:
		a.pulse2.write(addr-0x4004, value)
	case addr >= 0x4008 && addr <= 0x400B:
		a.triangle.write(addr-0x4008, value)
	case addr >= 0x400C && addr <= 0x400F:
		a.noise.write(addr-0x400C, value)
			if addr == 0x400E {
				a.noise.SetPeriod(uint16(a.region.NoisePeriodTable[value&0x0F]))
			}
	case addr >= 0x4010 && addr <= 0x4013:
		a.dmc.write(addr-0x4010, value)
			if addr == 0x4010 {
				a.dmc.SetRate(uint16(a.region.DMCRateTable[value&0x0F]))
			}
	case addr == 0x4015:
		a.pulse1.enabled = value&0x01 != 0
		a.pulse2.enabled = value&0x02 != 0
		a.triangle.enabled = value&0x04 != 0
		a.noise.enabled = value&0x08 != 0
		if !a.pulse1.enabled {
			a.pulse1.lengthCounter = 0
		}
		if !a.pulse2.enabled {
			a.pulse2.lengthCounter = 0
		}
		if !a.triangle.enabled {
			a.triangle.lengthCounter = 0
		}
		if !a.noise.enabled {
			a.noise.lengthCounter = 0
		}
		a.dmc.setEnabled(value&0x10 != 0)
	case addr == 0x4017:
		a.frameMode = value&0x80 != 0
		a.frameIRQInhibit = value&0x40 != 0
		if a.frameIRQInhibit {
			a.frameIRQFlag = false
		}
		// a write resets the divider after 3 or 4 CPU cycles depending on
		// whether this write landed on an even or odd cycle.
		if a.cycle%2 == 0 {
			a.frameResetDelay = 3
		} else {
			a.frameResetDelay = 4
		}
		if a.frameMode {
			a.clockQuarterFrame()
			a.clockHalfFrame()
		}
	}
}

// ReadRegister implements the single readable APU register, $4015.
func (a *APU) ReadRegister(addr uint16) uint8 {
	if addr != 0x4015 {
		return 0
	}
	var status uint8
	if a.pulse1.lengthCounter > 0 {
		status |= 0x01
	}
	if a.pulse2.lengthCounter > 0 {
		status |= 0x02
	}
	if a.triangle.lengthCounter > 0 {
		status |= 0x04
	}
	if a.noise.lengthCounter > 0 {
		status |= 0x08
	}
	if a.dmc.bytesRemaining > 0 {
		status |= 0x10
	}
	if a.frameIRQFlag {
		status |= 0x40
	}
	if a.dmc.irqFlag {
		status |= 0x80
	}
	a.frameIRQFlag = false // reading clears frame-irq, not dmc-irq
	return status
}
