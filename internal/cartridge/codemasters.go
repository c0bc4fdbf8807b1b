package cartridge

import "gones/internal/ppu"

// codemasters is mapper 71: a UxROM-shaped board (16 KiB switchable PRG bank
// at $8000, fixed last bank at $C000, CHR-RAM) used by Codemasters titles,
// except the bank-select register lives at $C000-$FFFF instead of $8000 and
// one cartridge (Fire Hawk) additionally exposes single-screen mirroring
// control through $9000-$9FFF bit 4. No original_source Rust file covers
// mapper 71 directly; this follows the documented Codemasters board
// behavior and reuses uxrom.go's bank-windowing shape.
type codemasters struct {
	noIRQ
	noSample
	noTick
	wram

	cart     *Cartridge
	bank     uint8
	lastBank uint16

	mirror     uint8 // single-screen select, only meaningful if mirrorCtrl
	mirrorCtrl bool
}

func newCodemasters(c *Cartridge) *codemasters {
	m := &codemasters{cart: c, lastBank: uint16(len(c.PRGROM)/prgBankSize) - 1}
	m.wram.battery = c.Battery
	return m
}

func (m *codemasters) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.wram.read(addr)
	case addr >= 0x8000 && addr < 0xC000:
		return m.cart.PRGROM[uint32(m.bank)*prgBankSize+uint32(addr-0x8000)]
	case addr >= 0xC000:
		return m.cart.PRGROM[uint32(m.lastBank)*prgBankSize+uint32(addr-0xC000)]
	default:
		return 0
	}
}
func (m *codemasters) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *codemasters) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.wram.write(addr, value)
	case addr >= 0x9000 && addr < 0xA000:
		m.mirrorCtrl = true
		m.mirror = (value >> 4) & 1
	case addr >= 0xC000:
		m.bank = value & uint8(m.lastBank|m.lastBank>>1)
	}
}

func (m *codemasters) PPURead(addr uint16) uint8 { return m.cart.CHRROM[addr&0x1FFF] }
func (m *codemasters) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *codemasters) PPUWrite(addr uint16, value uint8) {
	if m.cart.CHRRAM {
		m.cart.CHRROM[addr&0x1FFF] = value
	}
}

func (m *codemasters) PPUFetch(addr uint16) ppu.NametablePage {
	if m.mirrorCtrl {
		if m.mirror == 0 {
			return mirrorFetch(MirrorSingleScreenA, addr)
		}
		return mirrorFetch(MirrorSingleScreenB, addr)
	}
	return mirrorFetch(m.cart.Mirror, addr)
}

func (m *codemasters) SaveWRAM() []byte     { return m.wram.save() }
func (m *codemasters) LoadWRAM(data []byte) { m.wram.load(data) }

type codemastersState struct {
	Bank       uint8
	Mirror     uint8
	MirrorCtrl bool
	WRAM       [0x2000]uint8
}

func (m *codemasters) Snapshot() []byte {
	return gobEncode(codemastersState{Bank: m.bank, Mirror: m.mirror, MirrorCtrl: m.mirrorCtrl, WRAM: m.wram.ram})
}
func (m *codemasters) Restore(data []byte) {
	var s codemastersState
	gobDecode(data, &s)
	m.bank, m.mirror, m.mirrorCtrl, m.wram.ram = s.Bank, s.Mirror, s.MirrorCtrl, s.WRAM
}
