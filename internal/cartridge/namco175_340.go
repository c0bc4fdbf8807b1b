package cartridge

import "gones/internal/ppu"

// namco175340 implements mapper 163 (Namco 175) and mapper 210 (Namco 340):
// four 8 KiB PRG banks (bank 3 fixed to the last), eight 1 KiB CHR banks,
// and either a 2 KiB write-protected PRG-RAM window (Namco 175, no
// mirroring control) or full mirroring control with no dedicated PRG-RAM
// protect flag (Namco 340), grounded on original_source's
// namco175_340.rs.
type namco175340 struct {
	noIRQ
	noSample
	noTick
	wram

	cart *Cartridge

	namco175 bool // true selects the 175 variant (2K WRAM + write-protect)

	prgBank [4]uint8
	chrBank [8]uint8

	writeProtect bool
	mirror       uint8
}

func newNamco175340(c *Cartridge, namco175 bool) *namco175340 {
	m := &namco175340{cart: c, namco175: namco175, writeProtect: true}
	m.wram.battery = c.Battery
	m.prgBank[3] = uint8(len(c.PRGROM)/0x2000) - 1
	return m
}

func (m *namco175340) prgBanks() uint8 { return uint8(len(m.cart.PRGROM) / 0x2000) }

func (m *namco175340) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.namco175 && m.writeProtect {
			return 0
		}
		return m.wram.read(addr)
	case addr >= 0x8000:
		slot := (addr - 0x8000) / 0x2000
		bank := m.prgBank[slot] % m.prgBanks()
		return m.cart.PRGROM[uint32(bank)*0x2000+uint32(addr&0x1FFF)]
	default:
		return 0
	}
}
func (m *namco175340) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *namco175340) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if !m.namco175 || !m.writeProtect {
			m.wram.write(addr, value)
		}
	case addr >= 0x8000 && addr < 0xC000:
		reg := (addr - 0x8000) / 0x800
		m.chrBank[reg] = value
	case addr >= 0xC000 && addr < 0xC800 && m.namco175:
		m.writeProtect = value&1 == 0
	case addr >= 0xE000 && addr < 0xE800:
		m.prgBank[0] = value & 0x3F
		if !m.namco175 {
			switch value >> 6 {
			case 0:
				m.mirror = 2
			case 1:
				m.mirror = 1
			case 2:
				m.mirror = 3
			default:
				m.mirror = 0
			}
		}
	case addr >= 0xE800 && addr < 0xF000:
		m.prgBank[1] = value & 0x3F
	case addr >= 0xF000 && addr < 0xF800:
		m.prgBank[2] = value & 0x3F
	}
}

func (m *namco175340) chrAddr(addr uint16) uint32 {
	slot := addr >> 10
	return uint32(m.chrBank[slot])*0x400 + uint32(addr&0x03FF)
}

func (m *namco175340) PPURead(addr uint16) uint8 {
	idx := m.chrAddr(addr)
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}
func (m *namco175340) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *namco175340) PPUWrite(addr uint16, value uint8) {
	if !m.cart.CHRRAM {
		return
	}
	idx := m.chrAddr(addr)
	if int(idx) < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

func (m *namco175340) PPUFetch(addr uint16) ppu.NametablePage {
	if !m.namco175 {
		switch m.mirror {
		case 0:
			return mirrorFetch(MirrorHorizontal, addr)
		case 1:
			return mirrorFetch(MirrorVertical, addr)
		case 2:
			return mirrorFetch(MirrorSingleScreenA, addr)
		default:
			return mirrorFetch(MirrorSingleScreenB, addr)
		}
	}
	return mirrorFetch(m.cart.Mirror, addr)
}

func (m *namco175340) SaveWRAM() []byte {
	if m.namco175 {
		return nil
	}
	return m.wram.save()
}
func (m *namco175340) LoadWRAM(data []byte) { m.wram.load(data) }

type namco175340State struct {
	PRGBank      [4]uint8
	CHRBank      [8]uint8
	WriteProtect bool
	Mirror       uint8
	WRAM         [0x2000]uint8
}

func (m *namco175340) Snapshot() []byte {
	return gobEncode(namco175340State{
		PRGBank: m.prgBank, CHRBank: m.chrBank,
		WriteProtect: m.writeProtect, Mirror: m.mirror, WRAM: m.wram.ram,
	})
}
func (m *namco175340) Restore(data []byte) {
	var s namco175340State
	gobDecode(data, &s)
	m.prgBank, m.chrBank = s.PRGBank, s.CHRBank
	m.writeProtect, m.mirror, m.wram.ram = s.WriteProtect, s.Mirror, s.WRAM
}
