package cartridge

import "gones/internal/ppu"

// fme7 is mapper 69, Sunsoft FME-7/5B: a single command-select register at
// $8000 addresses one of sixteen sub-registers written through $A000 (eight
// 1 KiB CHR banks, four PRG banks where bank 0 may be RAM, mirroring mode, a
// 16-bit down-counting IRQ, and a YM2149-style three-tone/noise/envelope
// expansion-audio unit addressed through $C000/$E000), grounded on
// original_source's fme7.rs.
type fme7 struct {
	wram

	cart *Cartridge

	command uint8 // low nibble selects the target sub-register

	chrBank [8]uint8
	prgBank [3]uint8 // banks 1..3; bank 0 is wram-or-rom below
	prgRAMSelected bool
	prgRAMEnabled  bool

	mirror uint8 // 0 vert, 1 horiz, 2 single-A, 3 single-B

	irqEnabled        bool
	irqCounterEnabled bool
	irqPending        bool
	irqCounter        uint16

	audioReg     uint8
	audioRegs    [14]uint8
	audioProtect bool

	tonePeriod  [3]uint16
	toneCounter [3]uint16
	toneState   [3]bool

	noisePeriod  uint8
	noiseCounter uint8
	noiseLFSR    uint32

	envPeriod  uint16
	envCounter uint16
	envVolume  uint8
	envDir     int8

	divider uint8 // ticks-per-audio-clock divider

	sample int16
}

func newFME7(c *Cartridge) *fme7 {
	m := &fme7{cart: c, noiseLFSR: 1, prgRAMEnabled: true}
	m.wram.battery = c.Battery
	m.prgBank[2] = uint8(len(c.PRGROM)/0x2000) - 1
	return m
}

func (m *fme7) prgBanks() uint8 { return uint8(len(m.cart.PRGROM) / 0x2000) }

func (m *fme7) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.wram.read(addr)
	case addr >= 0x8000 && addr < 0xA000:
		return m.cart.PRGROM[uint32(m.prgBank0()%m.prgBanks())*0x2000+uint32(addr-0x8000)]
	case addr >= 0xA000 && addr < 0xC000:
		return m.cart.PRGROM[uint32(m.prgBank[0]%m.prgBanks())*0x2000+uint32(addr-0xA000)]
	case addr >= 0xC000 && addr < 0xE000:
		return m.cart.PRGROM[uint32(m.prgBank[1]%m.prgBanks())*0x2000+uint32(addr-0xC000)]
	default:
		return m.cart.PRGROM[uint32(m.prgBank[2]%m.prgBanks())*0x2000+uint32(addr-0xE000)]
	}
}
func (m *fme7) CPUPeek(addr uint16) uint8 { return m.CPURead(addr) }

// prgBank0 is separate so RAM/ROM selection at $8000-$9FFF can share the
// wram window when the command-8 register selects RAM.
func (m *fme7) prgBank0() uint8 { return m.prgBank[0] }

func (m *fme7) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMSelected && m.prgRAMEnabled {
			m.wram.write(addr, value)
		}
	case addr >= 0x8000 && addr < 0xA000:
		m.command = value & 0x0F
	case addr >= 0xA000 && addr < 0xC000:
		m.writeCommand(value)
	case addr >= 0xC000 && addr < 0xE000:
		m.audioReg = value & 0x0F
	case addr >= 0xE000:
		m.writeAudio(value)
	}
}

func (m *fme7) writeCommand(value uint8) {
	switch {
	case m.command <= 7:
		m.chrBank[m.command] = value
	case m.command == 8:
		m.prgRAMEnabled = value&0x80 != 0
		m.prgRAMSelected = value&0x40 != 0
		m.prgBank[0] = value & 0x3F
	case m.command >= 9 && m.command <= 0x0B:
		m.prgBank[m.command-9] = value & 0x3F
	case m.command == 0x0C:
		m.mirror = value & 0x03
	case m.command == 0x0D:
		m.irqEnabled = value&0x01 != 0
		m.irqCounterEnabled = value&0x80 != 0
		m.irqPending = false
	case m.command == 0x0E:
		m.irqCounter = (m.irqCounter & 0xFF00) | uint16(value)
	case m.command == 0x0F:
		m.irqCounter = (m.irqCounter & 0x00FF) | uint16(value)<<8
	}
}

func (m *fme7) writeAudio(value uint8) {
	if m.audioReg >= 14 {
		return
	}
	m.audioRegs[m.audioReg] = value
	switch m.audioReg {
	case 0, 1:
		m.tonePeriod[0] = uint16(m.audioRegs[0]) | uint16(m.audioRegs[1]&0x0F)<<8
	case 2, 3:
		m.tonePeriod[1] = uint16(m.audioRegs[2]) | uint16(m.audioRegs[3]&0x0F)<<8
	case 4, 5:
		m.tonePeriod[2] = uint16(m.audioRegs[4]) | uint16(m.audioRegs[5]&0x0F)<<8
	case 6:
		m.noisePeriod = value & 0x1F
	case 0x0B, 0x0C:
		m.envPeriod = uint16(m.audioRegs[0x0B]) | uint16(m.audioRegs[0x0C])<<8
	case 0x0D:
		m.envCounter = 0
		if value&0x04 != 0 {
			m.envVolume = 0
			m.envDir = 1
		} else {
			m.envVolume = 0x1F
			m.envDir = -1
		}
	}
}

func (m *fme7) chrAddr(addr uint16) uint32 {
	bank := m.chrBank[addr>>10]
	return uint32(bank)*0x400 + uint32(addr&0x03FF)
}

func (m *fme7) PPURead(addr uint16) uint8 {
	idx := m.chrAddr(addr)
	if int(idx) >= len(m.cart.CHRROM) {
		return 0
	}
	return m.cart.CHRROM[idx]
}
func (m *fme7) PPUPeek(addr uint16) uint8 { return m.PPURead(addr) }
func (m *fme7) PPUWrite(addr uint16, value uint8) {
	if !m.cart.CHRRAM {
		return
	}
	idx := m.chrAddr(addr)
	if int(idx) < len(m.cart.CHRROM) {
		m.cart.CHRROM[idx] = value
	}
}

func (m *fme7) PPUFetch(addr uint16) ppu.NametablePage {
	switch m.mirror {
	case 0:
		return mirrorFetch(MirrorVertical, addr)
	case 1:
		return mirrorFetch(MirrorHorizontal, addr)
	case 2:
		return mirrorFetch(MirrorSingleScreenA, addr)
	default:
		return mirrorFetch(MirrorSingleScreenB, addr)
	}
}

func (m *fme7) Tick() {
	if m.irqCounterEnabled {
		m.irqCounter--
		if m.irqCounter == 0xFFFF && m.irqEnabled {
			m.irqPending = true
		}
	}
	m.divider++
	if m.divider >= 16 {
		m.divider = 0
		m.tickAudio()
	}
}

func (m *fme7) tickAudio() {
	for i := 0; i < 3; i++ {
		if m.tonePeriod[i] == 0 {
			continue
		}
		m.toneCounter[i]++
		if m.toneCounter[i] >= m.tonePeriod[i] {
			m.toneCounter[i] = 0
			m.toneState[i] = !m.toneState[i]
		}
	}
	if m.noisePeriod > 0 {
		m.noiseCounter++
		if m.noiseCounter >= m.noisePeriod {
			m.noiseCounter = 0
			bit := (m.noiseLFSR ^ (m.noiseLFSR >> 3)) & 1
			m.noiseLFSR = (m.noiseLFSR >> 1) | (bit << 16)
		}
	}
	if m.envPeriod > 0 {
		m.envCounter++
		if m.envCounter >= m.envPeriod {
			m.envCounter = 0
			v := int8(m.envVolume) + m.envDir
			if v < 0 {
				v = 0x1F
			} else if v > 0x1F {
				v = 0
			}
			m.envVolume = uint8(v)
		}
	}

	mixer := m.audioRegs[7]
	noiseBit := m.noiseLFSR&1 != 0
	var total int32
	for i := 0; i < 3; i++ {
		toneOff := mixer&(1<<i) != 0
		noiseOff := mixer&(1<<(i+3)) != 0
		active := (toneOff || m.toneState[i]) && (noiseOff || noiseBit)
		if !active {
			continue
		}
		vol := m.audioRegs[8+i]
		var level uint8
		if vol&0x10 != 0 {
			level = m.envVolume
		} else {
			level = (vol & 0x0F) * 2
		}
		total += int32(level)
	}
	m.sample = int16(total * 200)
}

func (m *fme7) IRQ() bool { return m.irqPending }

func (m *fme7) Sample() (int16, bool) { return m.sample, true }

func (m *fme7) SaveWRAM() []byte     { return m.wram.save() }
func (m *fme7) LoadWRAM(data []byte) { m.wram.load(data) }

type fme7State struct {
	Command        uint8
	CHRBank        [8]uint8
	PRGBank        [3]uint8
	PRGRAMSelected bool
	PRGRAMEnabled  bool
	Mirror         uint8
	IRQEnabled, IRQCounterEnabled, IRQPending bool
	IRQCounter     uint16
	AudioReg       uint8
	AudioRegs      [14]uint8
	TonePeriod     [3]uint16
	ToneCounter    [3]uint16
	ToneState      [3]bool
	NoisePeriod, NoiseCounter uint8
	NoiseLFSR      uint32
	EnvPeriod, EnvCounter uint16
	EnvVolume      uint8
	EnvDir         int8
	Divider        uint8
	WRAM           [0x2000]uint8
}

func (m *fme7) Snapshot() []byte {
	return gobEncode(fme7State{
		Command: m.command, CHRBank: m.chrBank, PRGBank: m.prgBank,
		PRGRAMSelected: m.prgRAMSelected, PRGRAMEnabled: m.prgRAMEnabled,
		Mirror: m.mirror,
		IRQEnabled: m.irqEnabled, IRQCounterEnabled: m.irqCounterEnabled,
		IRQPending: m.irqPending, IRQCounter: m.irqCounter,
		AudioReg: m.audioReg, AudioRegs: m.audioRegs,
		TonePeriod: m.tonePeriod, ToneCounter: m.toneCounter, ToneState: m.toneState,
		NoisePeriod: m.noisePeriod, NoiseCounter: m.noiseCounter, NoiseLFSR: m.noiseLFSR,
		EnvPeriod: m.envPeriod, EnvCounter: m.envCounter, EnvVolume: m.envVolume, EnvDir: m.envDir,
		Divider: m.divider, WRAM: m.wram.ram,
	})
}
func (m *fme7) Restore(data []byte) {
	var s fme7State
	gobDecode(data, &s)
	m.command, m.chrBank, m.prgBank = s.Command, s.CHRBank, s.PRGBank
	m.prgRAMSelected, m.prgRAMEnabled = s.PRGRAMSelected, s.PRGRAMEnabled
	m.mirror = s.Mirror
	m.irqEnabled, m.irqCounterEnabled, m.irqPending = s.IRQEnabled, s.IRQCounterEnabled, s.IRQPending
	m.irqCounter = s.IRQCounter
	m.audioReg, m.audioRegs = s.AudioReg, s.AudioRegs
	m.tonePeriod, m.toneCounter, m.toneState = s.TonePeriod, s.ToneCounter, s.ToneState
	m.noisePeriod, m.noiseCounter, m.noiseLFSR = s.NoisePeriod, s.NoiseCounter, s.NoiseLFSR
	m.envPeriod, m.envCounter, m.envVolume, m.envDir = s.EnvPeriod, s.EnvCounter, s.EnvVolume, s.EnvDir
	m.divider, m.wram.ram = s.Divider, s.WRAM
}
