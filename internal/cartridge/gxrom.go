package cartridge

import "gones/internal/ppu"

// gxrom is mapper 66: one register selects a 32 KiB PRG bank (bits 4-5) and
// an 8 KiB CHR bank (bits 0-1).
type gxrom struct {
	noIRQ
	noSample
	noTick

	cart    *Cartridge
	prgBank uint8
	chrBank uint8
}

func newGxROM(c *Cartridge) *gxrom { return &gxrom{cart: c} }

func (m *gxrom) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.cart.PRGROM[uint32(m.prgBank)*32*1024+uint32(addr-0x8000)]
}
func (m *gxrom) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *gxrom) CPUWrite(addr uint16, value uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = (value >> 4) & 0x03
	m.chrBank = value & 0x03
}

func (m *gxrom) PPURead(addr uint16) uint8 {
	return m.cart.CHRROM[uint32(m.chrBank)*chrBankSize+uint32(addr&0x1FFF)]
}
func (m *gxrom) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *gxrom) PPUWrite(addr uint16, value uint8) {
	if m.cart.CHRRAM {
		m.cart.CHRROM[addr&0x1FFF] = value
	}
}

func (m *gxrom) PPUFetch(addr uint16) ppu.NametablePage { return mirrorFetch(m.cart.Mirror, addr) }

func (m *gxrom) SaveWRAM() []byte     { return nil }
func (m *gxrom) LoadWRAM(data []byte) {}

type gxromState struct {
	PRGBank, CHRBank uint8
}

func (m *gxrom) Snapshot() []byte {
	return gobEncode(gxromState{PRGBank: m.prgBank, CHRBank: m.chrBank})
}
func (m *gxrom) Restore(data []byte) {
	var s gxromState
	gobDecode(data, &s)
	m.prgBank, m.chrBank = s.PRGBank, s.CHRBank
}
