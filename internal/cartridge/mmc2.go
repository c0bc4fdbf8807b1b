package cartridge

import "gones/internal/ppu"

// mmc2 implements mapper 9 (MMC2/PxROM) and mapper 10 (MMC4/FxROM): a PRG
// bank register plus two latched CHR bank pairs, where the latch flips
// between its two states whenever a pattern fetch lands on specific tile
// addresses ($0FD8/$0FE8 and their $1FD8/$1FE8 high-half counterparts).
// MMC2 (Punch-Out!!) uses 8 KiB PRG windows with three fixed banks; MMC4
// (Fire Emblem) uses 16 KiB windows with one fixed bank, grounded on
// original_source's mmc2.rs.
type mmc2 struct {
	noSample
	noTick
	wram

	cart *Cartridge
	mc4  bool // true selects MMC4 PRG windowing

	prgBank uint8
	chrBank [4]uint8 // 0,1: low-half pair; 2,3: high-half pair
	latch   [2]uint8 // per-half latch state: 0xFD or 0xFE

	mirror uint8 // 0 = vertical, 1 = horizontal
}

func newMMC2(c *Cartridge, mc4 bool) *mmc2 {
	m := &mmc2{cart: c, mc4: mc4, latch: [2]uint8{0xFD, 0xFD}}
	m.wram.battery = c.Battery
	return m
}

func (m *mmc2) prgBanks8k() uint32  { return uint32(len(m.cart.PRGROM) / 0x2000) }
func (m *mmc2) prgBanks16k() uint32 { return uint32(len(m.cart.PRGROM) / 0x4000) }

func (m *mmc2) CPURead(addr uint16) uint8 {
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
func (m *mmc2) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *mmc2) prgMapping(addr uint16) (base, offset uint32) {
	if m.mc4 {
		last := m.prgBanks16k() - 1
		if addr < 0xC000 {
			return (uint32(m.prgBank) % m.prgBanks16k()) * 0x4000, uint32(addr - 0x8000)
		}
		return last * 0x4000, uint32(addr - 0xC000)
	}
	banks := m.prgBanks8k()
	switch {
	case addr < 0xA000:
		return (uint32(m.prgBank) % banks) * 0x2000, uint32(addr - 0x8000)
	case addr < 0xC000:
		return (banks - 3) * 0x2000, uint32(addr - 0xA000)
	case addr < 0xE000:
		return (banks - 2) * 0x2000, uint32(addr - 0xC000)
	default:
		return (banks - 1) * 0x2000, uint32(addr - 0xE000)
	}
}

func (m *mmc2) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.wram.write(addr, value)
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBank = value
	case addr >= 0xB000 && addr < 0xC000:
		m.chrBank[0] = value
	case addr >= 0xC000 && addr < 0xD000:
		m.chrBank[1] = value
	case addr >= 0xD000 && addr < 0xE000:
		m.chrBank[2] = value
	case addr >= 0xE000 && addr < 0xF000:
		m.chrBank[3] = value
	case addr >= 0xF000:
		m.mirror = value & 1
	}
}

func (m *mmc2) chrAddr(addr uint16) uint32 {
	half := addr >> 12 // 0 or 1
	var bank uint8
	if m.latch[half] == 0xFD {
		bank = m.chrBank[half*2]
	} else {
		bank = m.chrBank[half*2+1]
	}
	return uint32(bank)*0x1000 + uint32(addr&0x0FFF)
}

func (m *mmc2) latchCHR(addr uint16) {
	switch {
	case addr >= 0x0FD8 && addr <= 0x0FDF:
		m.latch[0] = 0xFD
	case addr >= 0x0FE8 && addr <= 0x0FEF:
		m.latch[0] = 0xFE
	case addr >= 0x1FD8 && addr <= 0x1FDF:
		m.latch[1] = 0xFD
	case addr >= 0x1FE8 && addr <= 0x1FEF:
		m.latch[1] = 0xFE
	}
}

func (m *mmc2) PPURead(addr uint16) uint8 {
	idx := m.chrAddr(addr)
	m.latchCHR(addr)
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}
func (m *mmc2) PPUPeek(addr uint16) uint8 {
	idx := m.chrAddr(addr)
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}
func (m *mmc2) PPUWrite(addr uint16, value uint8) {
	if !m.cart.CHRRAM {
		return
	}
	idx := m.chrAddr(addr)
	if int(idx) < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

func (m *mmc2) IRQ() bool { return false }

func (m *mmc2) PPUFetch(addr uint16) ppu.NametablePage {
	if m.mirror == 0 {
		return mirrorFetch(MirrorVertical, addr)
	}
	return mirrorFetch(MirrorHorizontal, addr)
}

func (m *mmc2) SaveWRAM() []byte     { return m.wram.save() }
func (m *mmc2) LoadWRAM(data []byte) { m.wram.load(data) }

type mmc2State struct {
	PRGBank uint8
	CHRBank [4]uint8
	Latch   [2]uint8
	Mirror  uint8
	WRAM    [0x2000]uint8
}

func (m *mmc2) Snapshot() []byte {
	return gobEncode(mmc2State{
		PRGBank: m.prgBank, CHRBank: m.chrBank, Latch: m.latch,
		Mirror: m.mirror, WRAM: m.wram.ram,
	})
}
func (m *mmc2) Restore(data []byte) {
	var s mmc2State
	gobDecode(data, &s)
	m.prgBank, m.chrBank, m.latch = s.PRGBank, s.CHRBank, s.Latch
	m.mirror, m.wram.ram = s.Mirror, s.WRAM
}
