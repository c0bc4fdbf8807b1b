package cartridge

import "gones/internal/ppu"

// action53 is mapper 218, the homebrew Action 53 multicart board: a single
// $5000 write selects one of four registers (distinguished by bits 0 and 7
// of the value), and any other $8000+ write stores into the selected
// register and resyncs two 16 KiB PRG windows from an outer/inner bank
// split plus a mode/size field. CHR is always 8 KiB RAM. Grounded on
// original_source's action53.rs.
type action53 struct {
	noIRQ
	noSample
	noTick

	cart *Cartridge

	regs     [4]uint8
	regIndex uint8

	prgLow, prgHigh uint32 // resolved 16 KiB bank indices

	mirror uint8 // 0 internal-A, 1 internal-B, 2 vertical, 3 horizontal
}

func newAction53(c *Cartridge) *action53 {
	m := &action53{cart: c, regs: [4]uint8{0x00, 0x00, 0x02, 0xFF}}
	last := uint8(len(c.PRGROM)/0x4000) - 1
	m.prgHigh = uint32(last)
	m.sync()
	return m
}

func (m *action53) prgBanks16k() uint32 { return uint32(len(m.cart.PRGROM) / 0x4000) }

// sync recomputes mirroring and the two resolved 16 KiB PRG windows from
// the four mapper registers, mirroring action53.rs's Action53State::sync.
func (m *action53) sync() {
	switch m.regIndex {
	case 0:
		if m.regs[2]&0x02 == 0 {
			if m.regs[0]&0x10 == 0 {
				m.mirror = 0
			} else {
				m.mirror = 1
			}
		}
	case 1:
		if m.regs[2]&0x02 == 0 {
			if m.regs[1]&0x10 == 0 {
				m.mirror = 0
			} else {
				m.mirror = 1
			}
		}
	case 2:
		m.mirror = m.regs[2] & 0x03
	}

	mode := (m.regs[2] >> 2) & 0x03
	size := (m.regs[2] >> 4) & 0x03
	outer := uint32(m.regs[3]) << 1
	inner := uint32(m.regs[1]) & 0x0F

	var low, high uint32
	switch mode {
	case 0, 1:
		switch size {
		case 0:
			low, high = outer, outer|1
		case 1:
			low = (outer & 0xFFC) | ((inner & 1) << 1)
			high = low | 1
		case 2:
			low = (outer & 0xFF8) | ((inner & 3) << 1)
			high = low | 1
		default:
			low = (outer & 0xFF0) | ((inner & 7) << 1)
			high = low | 1
		}
	case 2:
		low = outer
		switch size {
		case 0:
			high = (outer & 0xFFE) | (inner & 1)
		case 1:
			high = (outer & 0xFFC) | (inner & 3)
		case 2:
			high = (outer & 0xFF8) | (inner & 7)
		default:
			high = (outer & 0xFF0) | (inner & 0xF)
		}
	default: // mode 3
		high = outer | 1
		switch size {
		case 0:
			low = (outer & 0xFFE) | (inner & 1)
		case 1:
			low = (outer & 0xFFC) | (inner & 3)
		case 2:
			low = (outer & 0xFF8) | (inner & 7)
		default:
			low = (outer & 0xFF0) | (inner & 0xF)
		}
	}
	banks := m.prgBanks16k()
	if banks > 0 {
		low %= banks
		high %= banks
	}
	m.prgLow, m.prgHigh = low, high
}

func (m *action53) CPURead(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return 0
	case addr < 0xC000:
		return m.cart.PRGROM[m.prgLow*0x4000+uint32(addr-0x8000)]
	default:
		return m.cart.PRGROM[m.prgHigh*0x4000+uint32(addr-0xC000)]
	}
}
func (m *action53) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *action53) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x5000 && addr < 0x6000:
		switch value & 0x81 {
		case 0x00:
			m.regIndex = 0
		case 0x01:
			m.regIndex = 1
		case 0x80:
			m.regIndex = 2
		default:
			m.regIndex = 3
		}
	case addr >= 0x8000:
		m.regs[m.regIndex&3] = value
		m.sync()
	}
}

// PPURead/PPUWrite treat CHR as a flat 8 KiB RAM window, matching the
// Action 53 board's always-RAM CHR regardless of what the iNES header
// declared (action53.rs maps CHR-RAM unconditionally in Action53::new).
func (m *action53) PPURead(addr uint16) uint8 {
	idx := addr & 0x1FFF
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}
func (m *action53) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *action53) PPUWrite(addr uint16, value uint8) {
	idx := addr & 0x1FFF
	if int(idx) < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

func (m *action53) PPUFetch(addr uint16) ppu.NametablePage {
	switch m.mirror {
	case 0:
		return mirrorFetch(MirrorSingleScreenA, addr)
	case 1:
		return mirrorFetch(MirrorSingleScreenB, addr)
	case 2:
		return mirrorFetch(MirrorVertical, addr)
	default:
		return mirrorFetch(MirrorHorizontal, addr)
	}
}

func (m *action53) SaveWRAM() []byte     { return nil }
func (m *action53) LoadWRAM(data []byte) {}

type action53State struct {
	Regs     [4]uint8
	RegIndex uint8
	PRGLow, PRGHigh uint32
	Mirror   uint8
}

func (m *action53) Snapshot() []byte {
	return gobEncode(action53State{
		Regs: m.regs, RegIndex: m.regIndex, PRGLow: m.prgLow, PRGHigh: m.prgHigh, Mirror: m.mirror,
	})
}
func (m *action53) Restore(data []byte) {
	var s action53State
	gobDecode(data, &s)
	m.regs, m.regIndex = s.Regs, s.RegIndex
	m.prgLow, m.prgHigh, m.mirror = s.PRGLow, s.PRGHigh, s.Mirror
}
