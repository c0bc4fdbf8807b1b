package cartridge

import "gones/internal/ppu"

// axrom is mapper 7: a switchable 32 KiB PRG bank, single-screen mirroring
// selected by bit 4 of the bank register (rather than the cartridge's
// header mirroring bit).
type axrom struct {
	noIRQ
	noSample
	noTick

	cart     *Cartridge
	bank     uint8
	banks    uint8
	chrRAM   [0x2000]uint8
	screenB  bool
}

func newAxROM(c *Cartridge) *axrom {
	return &axrom{cart: c, banks: uint8(len(c.PRGROM) / (32 * 1024))}
}

func (m *axrom) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	bank := m.bank
	if m.banks > 0 {
		bank %= m.banks
	}
	return m.cart.PRGROM[uint32(bank)*32*1024+uint32(addr-0x8000)]
}
func (m *axrom) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *axrom) CPUWrite(addr uint16, value uint8) {
	if addr < 0x8000 {
		return
	}
	m.bank = value & 0x07
	m.screenB = value&0x10 != 0
}

func (m *axrom) PPURead(addr uint16) uint8 { return m.chrRAM[addr&0x1FFF] }
func (m *axrom) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *axrom) PPUWrite(addr uint16, value uint8) { m.chrRAM[addr&0x1FFF] = value }

func (m *axrom) PPUFetch(addr uint16) ppu.NametablePage {
	if m.screenB {
		return ppu.PageInternalB
	}
	return ppu.PageInternalA
}

func (m *axrom) SaveWRAM() []byte     { return nil }
func (m *axrom) LoadWRAM(data []byte) {}

type axromState struct {
	Bank    uint8
	ScreenB bool
	CHRRAM  [0x2000]uint8
}

func (m *axrom) Snapshot() []byte {
	return gobEncode(axromState{Bank: m.bank, ScreenB: m.screenB, CHRRAM: m.chrRAM})
}
func (m *axrom) Restore(data []byte) {
	var s axromState
	gobDecode(data, &s)
	m.bank, m.screenB, m.chrRAM = s.Bank, s.ScreenB, s.CHRRAM
}
