package cartridge

import "gones/internal/ppu"

// nrom is mapper 0: fixed 16 or 32 KiB PRG, 8 KiB CHR, no bank switching.
type nrom struct {
	noIRQ
	noSample
	noTick
	wram

	cart   *Cartridge
	prgLen uint16 // 0x4000 or 0x8000
}

func newNROM(c *Cartridge) *nrom {
	m := &nrom{cart: c, prgLen: uint16(len(c.PRGROM))}
	m.wram.battery = c.Battery
	return m
}

func (m *nrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.wram.read(addr)
	case addr >= 0x8000:
		return m.cart.PRGROM[(addr-0x8000)%m.prgLen]
	default:
		return 0
	}
}
func (m *nrom) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *nrom) CPUWrite(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.wram.write(addr, value)
	}
}

func (m *nrom) PPURead(addr uint16) uint8 { return m.cart.CHRROM[addr&0x1FFF] }
func (m *nrom) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *nrom) PPUWrite(addr uint16, value uint8) {
	if m.cart.CHRRAM {
		m.cart.CHRROM[addr&0x1FFF] = value
	}
}

func (m *nrom) PPUFetch(addr uint16) ppu.NametablePage { return mirrorFetch(m.cart.Mirror, addr) }

func (m *nrom) SaveWRAM() []byte     { return m.wram.save() }
func (m *nrom) LoadWRAM(data []byte) { m.wram.load(data) }

func (m *nrom) Snapshot() []byte     { return m.wram.snapshot() }
func (m *nrom) Restore(data []byte)  { m.wram.restoreSnapshot(data) }
