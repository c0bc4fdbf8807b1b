package cartridge

import "gones/internal/ppu"

// mmc3 is mapper 4: eight bank-table slots (six 1 KiB/2 KiB CHR banks, two 8
// KiB PRG banks) selected by a bank-select/bank-data register pair, plus an
// IRQ counter clocked by A12 rising edges observed on CHR address
// presentations with at least a handful of low PPU dots beforehand (the
// real chip's RC filter). This core approximates the filter by requiring a
// run of low reads rather than modelling the analog delay directly.
type mmc3 struct {
	noSample
	wram

	cart *Cartridge

	bankSelect uint8
	banks      [8]uint8
	prgRAMProtect uint8

	mirror uint8 // 0 = vertical, 1 = horizontal (register bit)

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool

	lastA12   bool
	lowStreak int

	revB bool // rev-B semantics: reload also clocks the counter when it's 0
}

func newMMC3(c *Cartridge) *mmc3 {
	m := &mmc3{cart: c, revB: true}
	m.wram.battery = c.Battery
	return m
}

const mmc3PRGBank = 8192
const mmc3CHRBank = 1024

func (m *mmc3) prgBanks() uint8 { return uint8(len(m.cart.PRGROM) / mmc3PRGBank) }

func (m *mmc3) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.wram.read(addr)
	case addr >= 0x8000:
		bank, offset := m.prgMapping(addr)
		return m.cart.PRGROM[uint32(bank)*mmc3PRGBank+uint32(offset)]
	default:
		return 0
	}
}
func (m *mmc3) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *mmc3) prgMapping(addr uint16) (bank uint8, offset uint16) {
	offset = addr & 0x1FFF
	slot := (addr - 0x8000) / mmc3PRGBank // 0..3
	last := m.prgBanks() - 1
	secondLast := last - 1
	mode := m.bankSelect & 0x40

	switch {
	case slot == 0 && mode == 0:
		return m.banks[6] % m.prgBanks(), offset
	case slot == 0 && mode != 0:
		return secondLast, offset
	case slot == 1:
		return m.banks[7] % m.prgBanks(), offset
	case slot == 2 && mode == 0:
		return secondLast, offset
	case slot == 2 && mode != 0:
		return m.banks[6] % m.prgBanks(), offset
	default: // slot 3
		return last, offset
	}
}

func (m *mmc3) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.wram.write(addr, value)
	case addr < 0x8000:
	case addr < 0xA000:
		if addr&1 == 0 {
			m.bankSelect = value
		} else {
			m.banks[m.bankSelect&0x07] = value
		}
	case addr < 0xC000:
		if addr&1 == 0 {
			m.mirror = value & 1
		} // else PRG-RAM protect, not modelled
	case addr < 0xE000:
		if addr&1 == 0 {
			m.irqLatch = value
		} else {
			m.irqCounter = 0
			m.irqReload = true
		}
	default:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

// resolveCHRBank implements MMC3's two 2 KiB + four 1 KiB CHR windows,
// swapped as a pair depending on bit 7 of the bank-select register.
func (m *mmc3) resolveCHRBank(addr uint16, mode uint8) uint32 {
	a := addr & 0x1FFF
	var slot uint16
	if mode == 0 {
		slot = a / 0x400
	} else {
		slot = (a ^ 0x1000) / 0x400
	}
	var bank uint8
	switch slot {
	case 0:
		bank = m.banks[0] &^ 1
	case 1:
		bank = m.banks[0] | 1
	case 2:
		bank = m.banks[1] &^ 1
	case 3:
		bank = m.banks[1] | 1
	case 4:
		bank = m.banks[2]
	case 5:
		bank = m.banks[3]
	case 6:
		bank = m.banks[4]
	default:
		bank = m.banks[5]
	}
	return uint32(bank) * mmc3CHRBank
}

func (m *mmc3) PPURead(addr uint16) uint8 {
	m.observeA12(addr)
	idx := m.chrIndex(addr)
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}
func (m *mmc3) PPUPeek(addr uint16) uint8 { return m.chrValueNoEdge(addr) }
func (m *mmc3) chrValueNoEdge(addr uint16) uint8 {
	idx := m.chrIndex(addr)
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}

func (m *mmc3) chrIndex(addr uint16) uint32 {
	mode := m.bankSelect & 0x80
	return m.resolveCHRBank(addr, mode) + uint32(addr&0x03FF)
}

func (m *mmc3) PPUWrite(addr uint16, value uint8) {
	m.observeA12(addr)
	if !m.cart.CHRRAM {
		return
	}
	idx := m.chrIndex(addr)
	if int(idx) < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

// observeA12 detects a 0->1 transition on PPU address bit 12, clocking the
// scanline IRQ counter when preceded by a sufficiently long low streak.
func (m *mmc3) observeA12(addr uint16) {
	a12 := addr&0x1000 != 0
	if a12 {
		if !m.lastA12 && m.lowStreak >= 5 {
			m.clockIRQCounter()
		}
		m.lowStreak = 0
	} else {
		m.lowStreak++
	}
	m.lastA12 = a12
}

func (m *mmc3) clockIRQCounter() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
		if m.irqCounter == 0 && m.revB && m.irqEnabled {
			m.irqPending = true
		}
		return
	}
	m.irqCounter--
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mmc3) Tick() {}

func (m *mmc3) IRQ() bool { return m.irqPending }

func (m *mmc3) PPUFetch(addr uint16) ppu.NametablePage {
	if m.mirror == 0 {
		return mirrorFetch(MirrorVertical, addr)
	}
	return mirrorFetch(MirrorHorizontal, addr)
}

func (m *mmc3) SaveWRAM() []byte     { return m.wram.save() }
func (m *mmc3) LoadWRAM(data []byte) { m.wram.load(data) }

type mmc3State struct {
	BankSelect uint8
	Banks      [8]uint8
	Mirror     uint8
	IRQLatch, IRQCounter         uint8
	IRQReload, IRQEnabled, IRQPending bool
	LastA12    bool
	LowStreak  int
	WRAM       [0x2000]uint8
}

func (m *mmc3) Snapshot() []byte {
	return gobEncode(mmc3State{
		BankSelect: m.bankSelect, Banks: m.banks, Mirror: m.mirror,
		IRQLatch: m.irqLatch, IRQCounter: m.irqCounter,
		IRQReload: m.irqReload, IRQEnabled: m.irqEnabled, IRQPending: m.irqPending,
		LastA12: m.lastA12, LowStreak: m.lowStreak, WRAM: m.wram.ram,
	})
}
func (m *mmc3) Restore(data []byte) {
	var s mmc3State
	gobDecode(data, &s)
	m.bankSelect, m.banks, m.mirror = s.BankSelect, s.Banks, s.Mirror
	m.irqLatch, m.irqCounter = s.IRQLatch, s.IRQCounter
	m.irqReload, m.irqEnabled, m.irqPending = s.IRQReload, s.IRQEnabled, s.IRQPending
	m.lastA12, m.lowStreak = s.LastA12, s.LowStreak
	m.wram.ram = s.WRAM
}
