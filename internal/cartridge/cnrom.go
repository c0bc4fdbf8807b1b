package cartridge

import "gones/internal/ppu"

// cnrom is mapper 3: fixed 16/32 KiB PRG, a single switchable 8 KiB CHR bank.
type cnrom struct {
	noIRQ
	noSample
	noTick
	wram

	cart    *Cartridge
	prgLen  uint16
	chrBank uint8
	chrBanks uint8
}

func newCNROM(c *Cartridge) *cnrom {
	return &cnrom{
		cart:     c,
		prgLen:   uint16(len(c.PRGROM)),
		chrBanks: uint8(len(c.CHRROM) / chrBankSize),
	}
}

func (m *cnrom) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		return m.cart.PRGROM[(addr-0x8000)%m.prgLen]
	}
	if addr >= 0x6000 {
		return m.wram.read(addr)
	}
	return 0
}
func (m *cnrom) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

func (m *cnrom) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000:
		if m.chrBanks > 0 {
			m.chrBank = value % m.chrBanks
		}
	case addr >= 0x6000:
		m.wram.write(addr, value)
	}
}

func (m *cnrom) PPURead(addr uint16) uint8 {
	return m.cart.CHRROM[uint32(m.chrBank)*chrBankSize+uint32(addr&0x1FFF)]
}
func (m *cnrom) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *cnrom) PPUWrite(addr uint16, value uint8) {
	if m.cart.CHRRAM {
		m.cart.CHRROM[addr&0x1FFF] = value
	}
}

func (m *cnrom) PPUFetch(addr uint16) ppu.NametablePage { return mirrorFetch(m.cart.Mirror, addr) }

func (m *cnrom) SaveWRAM() []byte     { return m.wram.save() }
func (m *cnrom) LoadWRAM(data []byte) { m.wram.load(data) }

type cnromState struct {
	CHRBank uint8
	WRAM    [0x2000]uint8
}

func (m *cnrom) Snapshot() []byte {
	return gobEncode(cnromState{CHRBank: m.chrBank, WRAM: m.wram.ram})
}
func (m *cnrom) Restore(data []byte) {
	var s cnromState
	gobDecode(data, &s)
	m.chrBank, m.wram.ram = s.CHRBank, s.WRAM
}
