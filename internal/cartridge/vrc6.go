package cartridge

import "gones/internal/ppu"

// vrc6 implements mapper 24 (Konami VRC6a) and mapper 26 (VRC6b), which
// differ only in whether CHR/mirroring register address bits 0 and 1 are
// swapped. Three PRG banks (two 16/8 KiB switchable, one 8 KiB fixed-last),
// eight CHR banks, and a two-pulse-plus-sawtooth expansion audio unit.
// Grounded on original_source's vrc6.rs; the IRQ counter reuses vrcIrq (see
// vrc_irq.go) for the same reason as vrc4.go.
type vrc6 struct {
	wram
	cart *Cartridge

	swapAB bool // variant B swaps address bits 0/1

	prgReg [2]uint8 // prgReg[0]: 16K bank at $8000; prgReg[1]: 8K bank at $C000
	chrReg [8]uint8
	chrMode uint8
	mirror  uint8

	irq vrcIrq

	pulse1, pulse2 vrc6Pulse
	saw            vrc6Saw
	freqDiv        uint8 // 0=x1, 1=x4(shift2), 2=x256(shift8) test-speed divider
	tickCount      uint32
}

// vrc6Pulse and vrc6Saw fields are exported so gob can round-trip them
// directly as embedded snapshot fields, matching vrcIrq's approach.
type vrc6Pulse struct {
	Period   uint16
	Duty     uint8
	Volume   uint8
	Enabled  bool
	Constant bool
	Counter  uint16
	DutyPos  uint8
}

func (p *vrc6Pulse) tick() {
	if p.Period == 0 || !p.Enabled {
		return
	}
	if p.Counter == 0 {
		p.Counter = p.Period
		p.DutyPos = (p.DutyPos + 1) & 0x0F
	} else {
		p.Counter--
	}
}

func (p *vrc6Pulse) output() uint8 {
	if !p.Enabled {
		return 0
	}
	if p.Constant || p.DutyPos <= p.Duty {
		return p.Volume
	}
	return 0
}

type vrc6Saw struct {
	Rate        uint8
	Accumulator uint8
	Phase       uint8
	Enabled     bool
	Counter     uint16
	Period      uint16
}

func (s *vrc6Saw) tick() {
	if s.Period == 0 || !s.Enabled {
		return
	}
	if s.Counter == 0 {
		s.Counter = s.Period
		s.Phase++
		if s.Phase&1 == 0 {
			s.Accumulator += s.Rate
		}
		if s.Phase >= 14 {
			s.Phase = 0
			s.Accumulator = 0
		}
	} else {
		s.Counter--
	}
}

func (s *vrc6Saw) output() uint8 { return s.Accumulator >> 3 }

func newVRC6(c *Cartridge, swapAB bool) *vrc6 {
	m := &vrc6{cart: c, swapAB: swapAB}
	m.wram.battery = c.Battery
	return m
}

func (m *vrc6) prgBanks16k() uint32 { return uint32(len(m.cart.PRGROM) / 0x4000) }
func (m *vrc6) prgBanks8k() uint32  { return uint32(len(m.cart.PRGROM) / 0x2000) }

func (m *vrc6) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.wram.read(addr)
	case addr >= 0x8000 && addr < 0xC000:
		bank := uint32(m.prgReg[0]) % m.prgBanks16k()
		return m.cart.PRGROM[bank*0x4000+uint32(addr-0x8000)]
	case addr >= 0xC000 && addr < 0xE000:
		bank := uint32(m.prgReg[1]) % m.prgBanks8k()
		return m.cart.PRGROM[bank*0x2000+uint32(addr-0xC000)]
	case addr >= 0xE000:
		last := m.prgBanks8k() - 1
		return m.cart.PRGROM[last*0x2000+uint32(addr-0xE000)]
	default:
		return 0
	}
}
func (m *vrc6) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

// decodeAddr applies the A/B variant's address-bit swap to the low two
// bits of a register-group address, per vrc6.rs's Vrc6Variant handling.
func (m *vrc6) decodeAddr(addr uint16) uint16 {
	if !m.swapAB {
		return addr
	}
	low := addr & 0x03
	swapped := (low>>1)&1 | (low&1)<<1
	return addr&^0x03 | swapped
}

func (m *vrc6) CPUWrite(addr uint16, value uint8) {
	addr = m.decodeAddr(addr)
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.wram.write(addr, value)
	case addr >= 0x8000 && addr < 0x9000:
		m.prgReg[0] = value & 0x1F
	case addr >= 0x9000 && addr < 0x9003:
		m.writePulse(&m.pulse1, addr&3, value)
	case addr == 0x9003:
		m.freqDiv = (value >> 1) & 0x03
	case addr >= 0xA000 && addr < 0xA003:
		m.writePulse(&m.pulse2, addr&3, value)
	case addr >= 0xB000 && addr < 0xB003:
		m.writeSaw(addr&3, value)
	case addr >= 0xB003 && addr < 0xC000:
		m.chrMode = value & 0x3F
		m.mirror = (value >> 4) & 0x03
	case addr >= 0xC000 && addr < 0xD000:
		m.prgReg[1] = value & 0x1F
	case addr >= 0xD000 && addr < 0xF000:
		slot := (addr-0xD000)/0x1000*4 + (addr & 3)
		m.chrReg[slot] = value
	case addr >= 0xF000 && addr < 0xF003:
		switch addr & 3 {
		case 0:
			m.irq.latchLo(value)
			m.irq.latchHi(value >> 4)
		case 1:
			m.irq.control(value)
		case 2:
			m.irq.acknowledge()
		}
	}
}

func (m *vrc6) writePulse(p *vrc6Pulse, reg uint16, value uint8) {
	switch reg {
	case 0:
		p.Volume = value & 0x0F
		p.Duty = (value >> 4) & 0x07
		p.Constant = value&0x80 != 0
	case 1:
		p.Period = (p.Period & 0x0F00) | uint16(value)
	case 2:
		p.Period = (p.Period & 0x00FF) | uint16(value&0x0F)<<8
		p.Enabled = value&0x80 != 0
	}
}

func (m *vrc6) writeSaw(reg uint16, value uint8) {
	switch reg {
	case 0:
		m.saw.Rate = value & 0x3F
	case 1:
		m.saw.Period = (m.saw.Period & 0x0F00) | uint16(value)
	case 2:
		m.saw.Period = (m.saw.Period & 0x00FF) | uint16(value&0x0F)<<8
		m.saw.Enabled = value&0x80 != 0
	}
}

func (m *vrc6) chrAddr(addr uint16) uint32 {
	slot := addr / 0x400
	return uint32(m.chrReg[slot])*0x400 + uint32(addr&0x03FF)
}

func (m *vrc6) PPURead(addr uint16) uint8 {
	idx := m.chrAddr(addr)
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}
func (m *vrc6) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *vrc6) PPUWrite(addr uint16, value uint8) {
	if !m.cart.CHRRAM {
		return
	}
	idx := m.chrAddr(addr)
	if int(idx) < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

func (m *vrc6) PPUFetch(addr uint16) ppu.NametablePage {
	switch m.mirror {
	case 0:
		return mirrorFetch(MirrorVertical, addr)
	case 1:
		return mirrorFetch(MirrorHorizontal, addr)
	case 2:
		return mirrorFetch(MirrorSingleScreenA, addr)
	default:
		return mirrorFetch(MirrorSingleScreenB, addr)
	}
}

func (m *vrc6) Tick() {
	m.irq.tick()
	m.tickCount++
	step := uint32(1)
	switch m.freqDiv {
	case 1:
		step = 4
	case 2:
		step = 256
	}
	if m.tickCount%step != 0 {
		return
	}
	m.pulse1.tick()
	m.pulse2.tick()
	m.saw.tick()
}

func (m *vrc6) IRQ() bool { return m.irq.irq() }

func (m *vrc6) Sample() (int16, bool) {
	total := int32(m.pulse1.output()) + int32(m.pulse2.output()) + int32(m.saw.output())
	return int16(total * 128), true
}

func (m *vrc6) SaveWRAM() []byte     { return m.wram.save() }
func (m *vrc6) LoadWRAM(data []byte) { m.wram.load(data) }

type vrc6State struct {
	PRGReg  [2]uint8
	CHRReg  [8]uint8
	ChrMode uint8
	Mirror  uint8
	IRQ     vrcIrq
	Pulse1, Pulse2 vrc6Pulse
	Saw     vrc6Saw
	FreqDiv uint8
	WRAM    [0x2000]uint8
}

func (m *vrc6) Snapshot() []byte {
	return gobEncode(vrc6State{
		PRGReg: m.prgReg, CHRReg: m.chrReg, ChrMode: m.chrMode, Mirror: m.mirror,
		IRQ: m.irq, Pulse1: m.pulse1, Pulse2: m.pulse2, Saw: m.saw,
		FreqDiv: m.freqDiv, WRAM: m.wram.ram,
	})
}
func (m *vrc6) Restore(data []byte) {
	var s vrc6State
	gobDecode(data, &s)
	m.prgReg, m.chrReg, m.chrMode, m.mirror = s.PRGReg, s.CHRReg, s.ChrMode, s.Mirror
	m.irq, m.pulse1, m.pulse2, m.saw = s.IRQ, s.Pulse1, s.Pulse2, s.Saw
	m.freqDiv, m.wram.ram = s.FreqDiv, s.WRAM
}
