package cartridge

import "gones/internal/ppu"

// uxrom is mapper 2: a switchable 16 KiB PRG bank at 0x8000, fixed last
// bank at 0xC000; CHR is usually RAM (no bank register).
type uxrom struct {
	noIRQ
	noSample
	noTick
	wram

	cart     *Cartridge
	bank     uint8
	lastBank uint16
}

func newUxROM(c *Cartridge) *uxrom {
	m := &uxrom{cart: c, lastBank: uint16(len(c.PRGROM)/prgBankSize) - 1}
	m.wram.battery = c.Battery
	return m
}

func (m *uxrom) CPURead(addr uint16) uint8 {
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
func (m *uxrom) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *uxrom) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.wram.write(addr, value)
	case addr >= 0x8000:
		m.bank = value & uint8(m.lastBank|m.lastBank>>1) // mask to bank count, bus-conflict-free approximation
	}
}

func (m *uxrom) PPURead(addr uint16) uint8 { return m.cart.CHRROM[addr&0x1FFF] }
func (m *uxrom) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *uxrom) PPUWrite(addr uint16, value uint8) {
	if m.cart.CHRRAM {
		m.cart.CHRROM[addr&0x1FFF] = value
	}
}

func (m *uxrom) PPUFetch(addr uint16) ppu.NametablePage { return mirrorFetch(m.cart.Mirror, addr) }

func (m *uxrom) SaveWRAM() []byte     { return m.wram.save() }
func (m *uxrom) LoadWRAM(data []byte) { m.wram.load(data) }

type uxromState struct {
	Bank uint8
	WRAM [0x2000]uint8
}

func (m *uxrom) Snapshot() []byte {
	return gobEncode(uxromState{Bank: m.bank, WRAM: m.wram.ram})
}
func (m *uxrom) Restore(data []byte) {
	var s uxromState
	gobDecode(data, &s)
	m.bank, m.wram.ram = s.Bank, s.WRAM
}
