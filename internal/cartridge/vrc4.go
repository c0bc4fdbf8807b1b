package cartridge

import "gones/internal/ppu"

// vrc4 implements the VRC2/VRC4 family: mapper 21 (VRC4a/c), 22 (VRC2a), 23
// (VRC4e/VRC2b) and 25 (VRC4b/d). Sub-register writes are decoded from two
// address bits (abLo/abHi): mappers 21, 23 and 25 all use bits 1 and 6 and
// mapper 22 uses bits 0 and 1 (see cartridge.go); the individual VRC4
// sub-variant decodes are not distinguished. VRC2 carries no IRQ unit. Grounded on original_source's vrc4.rs, with the IRQ
// counter itself coming from vrcIrq (see vrc_irq.go) since vrc4.rs's own
// `super::vrc_irq` module was not retrieved in this pack.
type vrc4 struct {
	noSample

	wram
	cart *Cartridge

	abLo, abHi uint8 // address bit positions used by the 2-bit register decode
	hasIRQ     bool

	prgReg   [2]uint8
	chrLo    [8]uint8
	chrHi    [8]uint8
	swapMode bool
	ramProtect bool

	mirror uint8 // 0 vert,1 horiz,2 single-A,3 single-B

	irq vrcIrq
}

func newVRC4(c *Cartridge, abLo, abHi uint8, hasIRQ bool) *vrc4 {
	m := &vrc4{cart: c, abLo: abLo, abHi: abHi, hasIRQ: hasIRQ}
	m.wram.battery = c.Battery
	return m
}

func (m *vrc4) prgBanks() uint8 { return uint8(len(m.cart.PRGROM) / 0x2000) }

// registerIndex extracts the 2-bit sub-register select from the low nibble
// of the write address, per variant-specific bit positions.
func (m *vrc4) registerIndex(addr uint16) uint8 {
	lo := uint8(addr>>m.abLo) & 1
	hi := uint8(addr>>m.abHi) & 1
	return lo | hi<<1
}

func (m *vrc4) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.wram.read(addr)
	case addr >= 0x8000:
		bank, offset := m.prgMapping(addr)
		return m.cart.PRGROM[bank+offset]
	default:
		return 0
	}
}
func (m *vrc4) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *vrc4) prgMapping(addr uint16) (base, offset uint32) {
	banks := m.prgBanks()
	last := banks - 1
	secondLast := banks - 2
	switch {
	case addr < 0xA000:
		if m.swapMode {
			return uint32(secondLast) * 0x2000, uint32(addr - 0x8000)
		}
		return uint32(m.prgReg[0]%banks) * 0x2000, uint32(addr - 0x8000)
	case addr < 0xC000:
		return uint32(m.prgReg[1]%banks) * 0x2000, uint32(addr - 0xA000)
	case addr < 0xE000:
		if m.swapMode {
			return uint32(m.prgReg[0]%banks) * 0x2000, uint32(addr - 0xC000)
		}
		return uint32(secondLast) * 0x2000, uint32(addr - 0xC000)
	default:
		return uint32(last) * 0x2000, uint32(addr - 0xE000)
	}
}

func (m *vrc4) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.wram.write(addr, value)
	case addr >= 0x8000 && addr < 0x9000:
		m.prgReg[0] = value & 0x1F
	case addr >= 0x9000 && addr < 0xA000:
		switch m.registerIndex(addr) {
		case 0, 1:
			m.mirror = m.decodeMirror(value)
		case 2:
			m.ramProtect = value&1 != 0
			m.swapMode = value&2 != 0
		}
	case addr >= 0xA000 && addr < 0xB000:
		m.prgReg[1] = value & 0x1F
	case addr >= 0xB000 && addr < 0xF000:
		m.writeCHR(addr, value)
	case addr >= 0xF000 && m.hasIRQ:
		switch m.registerIndex(addr) {
		case 0:
			m.irq.latchLo(value)
		case 1:
			m.irq.latchHi(value)
		case 2:
			m.irq.control(value)
		case 3:
			m.irq.acknowledge()
		}
	}
}

func (m *vrc4) decodeMirror(value uint8) uint8 {
	if !m.hasIRQ { // VRC2: bit0 only, 0=vert 1=horiz
		return value & 1
	}
	switch value & 3 {
	case 0:
		return 0
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 3
	}
}

// writeCHR targets one of eight CHR bank registers: $B000-$EFFF each span a
// 0x1000 group holding the low-nibble (sub-register 0/1) and high-nibble
// (sub-register 2/3) halves of two consecutive register slots.
func (m *vrc4) writeCHR(addr uint16, value uint8) {
	group := int((addr - 0xB000) / 0x1000) // 0..3
	sub := m.registerIndex(addr)
	slot := group*2 + int(sub&1)
	if sub < 2 {
		m.chrLo[slot] = value & 0x0F
	} else {
		m.chrHi[slot] = value & 0x1F
	}
}

func (m *vrc4) chrBank(slot int) uint32 {
	return uint32(m.chrLo[slot]) | uint32(m.chrHi[slot])<<4
}

func (m *vrc4) PPURead(addr uint16) uint8 {
	slot := addr / 0x400
	idx := m.chrBank(int(slot))*0x400 + uint32(addr&0x03FF)
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}
func (m *vrc4) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *vrc4) PPUWrite(addr uint16, value uint8) {
	if !m.cart.CHRRAM {
		return
	}
	slot := addr / 0x400
	idx := m.chrBank(int(slot))*0x400 + uint32(addr&0x03FF)
	if int(idx) < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

func (m *vrc4) PPUFetch(addr uint16) ppu.NametablePage {
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

func (m *vrc4) Tick() {
	if m.hasIRQ {
		m.irq.tick()
	}
}
func (m *vrc4) IRQ() bool {
	if !m.hasIRQ {
		return false
	}
	return m.irq.irq()
}

func (m *vrc4) SaveWRAM() []byte     { return m.wram.save() }
func (m *vrc4) LoadWRAM(data []byte) { m.wram.load(data) }

type vrc4State struct {
	PRGReg   [2]uint8
	CHRLo    [8]uint8
	CHRHi    [8]uint8
	SwapMode bool
	Mirror   uint8
	IRQ      vrcIrq
	WRAM     [0x2000]uint8
}

func (m *vrc4) Snapshot() []byte {
	return gobEncode(vrc4State{
		PRGReg: m.prgReg, CHRLo: m.chrLo, CHRHi: m.chrHi,
		SwapMode: m.swapMode, Mirror: m.mirror, IRQ: m.irq, WRAM: m.wram.ram,
	})
}
func (m *vrc4) Restore(data []byte) {
	var s vrc4State
	gobDecode(data, &s)
	m.prgReg, m.chrLo, m.chrHi = s.PRGReg, s.CHRLo, s.CHRHi
	m.swapMode, m.mirror, m.irq, m.wram.ram = s.SwapMode, s.Mirror, s.IRQ, s.WRAM
}
