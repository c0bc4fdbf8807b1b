package cartridge

import "gones/internal/ppu"

// mmc1 is mapper 1: a serial shift register fed one bit per write; the fifth
// write commits to one of four internal registers selected by the address.
// A write on the cycle immediately following another write is ignored (the
// real chip's shift register needs a full cycle to settle), tracked here via
// Tick's cycle counter rather than by an actual R/W wire.
type mmc1 struct {
	noIRQ
	noSample
	wram

	cart *Cartridge

	shift      uint8
	shiftCount uint8

	control uint8 // bit0-1 mirroring, bit2-3 PRG mode, bit4 CHR mode
	chrBank0, chrBank1 uint8
	prgBank            uint8

	prgBanks uint8
	chrBanks uint8

	cycle          uint64
	lastWriteCycle uint64
}

func newMMC1(c *Cartridge) *mmc1 {
	m := &mmc1{
		cart:     c,
		control:  0x0C, // power-on: PRG mode 3 (fix last bank at 0xC000)
		prgBanks: uint8(len(c.PRGROM) / prgBankSize),
		chrBanks: uint8(len(c.CHRROM) / 0x1000),
	}
	m.wram.battery = c.Battery
	m.lastWriteCycle = ^uint64(0)
	return m
}

func (m *mmc1) Tick() { m.cycle++ }

func (m *mmc1) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.wram.read(addr)
	case addr >= 0x8000:
		bank, offset := m.prgMapping(addr)
		return m.cart.PRGROM[uint32(bank)*prgBankSize+uint32(offset)]
	default:
		return 0
	}
}
func (m *mmc1) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *mmc1) prgMapping(addr uint16) (bank uint8, offset uint16) {
	mode := (m.control >> 2) & 0x03
	switch mode {
	case 0, 1: // 32 KiB switch, ignore low bit of bank
		bank = (m.prgBank &^ 1)
		if addr >= 0xC000 {
			bank++
		}
		return bank, addr & 0x3FFF
	case 2: // fix first bank at 0x8000, switch 0xC000
		if addr < 0xC000 {
			return 0, addr & 0x3FFF
		}
		return m.prgBank % m.prgBanks, addr & 0x3FFF
	default: // 3: switch 0x8000, fix last bank at 0xC000
		if addr < 0xC000 {
			return m.prgBank % m.prgBanks, addr & 0x3FFF
		}
		return m.prgBanks - 1, addr & 0x3FFF
	}
}

func (m *mmc1) CPUWrite(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.wram.write(addr, value)
		return
	}
	if addr < 0x8000 {
		return
	}
	if m.lastWriteCycle != ^uint64(0) && m.cycle == m.lastWriteCycle+1 {
		return // consecutive-cycle write ignored
	}
	m.lastWriteCycle = m.cycle

	if value&0x80 != 0 {
		m.shift, m.shiftCount = 0, 0
		m.control |= 0x0C
		return
	}

	m.shift |= (value & 1) << m.shiftCount
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	result := m.shift
	m.shift, m.shiftCount = 0, 0
	switch {
	case addr < 0xA000:
		m.control = result
	case addr < 0xC000:
		m.chrBank0 = result
	case addr < 0xE000:
		m.chrBank1 = result
	default:
		m.prgBank = result & 0x0F
	}
}

func (m *mmc1) chrMapping(addr uint16) (bank uint16, offset uint16) {
	if m.control&0x10 == 0 { // 8 KiB mode
		bank = uint16(m.chrBank0 &^ 1)
		return bank, addr & 0x1FFF
	}
	if addr < 0x1000 {
		return uint16(m.chrBank0), addr & 0x0FFF
	}
	return uint16(m.chrBank1), addr & 0x0FFF
}

func (m *mmc1) PPURead(addr uint16) uint8 {
	bank, offset := m.chrMapping(addr)
	idx := uint32(bank)*0x1000 + uint32(offset)
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}
func (m *mmc1) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *mmc1) PPUWrite(addr uint16, value uint8) {
	if !m.cart.CHRRAM {
		return
	}
	bank, offset := m.chrMapping(addr)
	idx := uint32(bank)*0x1000 + uint32(offset)
	if int(idx) < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

func (m *mmc1) PPUFetch(addr uint16) ppu.NametablePage {
	switch m.control & 0x03 {
	case 0:
		return ppu.PageInternalA
	case 1:
		return ppu.PageInternalB
	case 2:
		return mirrorFetch(MirrorVertical, addr)
	default:
		return mirrorFetch(MirrorHorizontal, addr)
	}
}

func (m *mmc1) SaveWRAM() []byte     { return m.wram.save() }
func (m *mmc1) LoadWRAM(data []byte) { m.wram.load(data) }

type mmc1State struct {
	Shift, ShiftCount             uint8
	Control, CHRBank0, CHRBank1   uint8
	PRGBank                       uint8
	Cycle, LastWriteCycle         uint64
	WRAM                          [0x2000]uint8
}

func (m *mmc1) Snapshot() []byte {
	return gobEncode(mmc1State{
		Shift: m.shift, ShiftCount: m.shiftCount,
		Control: m.control, CHRBank0: m.chrBank0, CHRBank1: m.chrBank1,
		PRGBank: m.prgBank, Cycle: m.cycle, LastWriteCycle: m.lastWriteCycle,
		WRAM: m.wram.ram,
	})
}
func (m *mmc1) Restore(data []byte) {
	var s mmc1State
	gobDecode(data, &s)
	m.shift, m.shiftCount = s.Shift, s.ShiftCount
	m.control, m.chrBank0, m.chrBank1 = s.Control, s.CHRBank0, s.CHRBank1
	m.prgBank, m.cycle, m.lastWriteCycle = s.PRGBank, s.Cycle, s.LastWriteCycle
	m.wram.ram = s.WRAM
}
