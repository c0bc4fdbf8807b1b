// Package ppu implements the NES Picture Processing Unit (2C02/2C07) as a
// dot-stepped state machine: one Tick call advances exactly one PPU dot,
// mirroring the cycle-stepped design of internal/cpu.
package ppu

import (
	"fmt"

	"gones/internal/region"
)

// NametablePage is the answer to a mapper's ppu_fetch query: which physical
// 1 KiB page of nametable RAM an address in 0x2000-0x2FFF resolves to.
type NametablePage uint8

const (
	PageInternalA NametablePage = iota
	PageInternalB
	PageExternal // mapper-provided (four-screen cartridges with extra CHR-RAM)
)

// Bus is the PPU's view of its collaborators, set once by Machine. CHR reads
// and writes route through the mapper; ppu_fetch resolves nametable
// mirroring, which can be mapper-controlled (MMC1 single-screen, MMC3 fixed,
// AxROM single-screen, four-screen carts).
type Bus interface {
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, value uint8)
	PPUFetch(addr uint16) NametablePage
	// ExternalRead/ExternalWrite serve PageExternal: a mapper-owned extra
	// nametable page for four-screen cartridges.
	ExternalRead(addr uint16) uint8
	ExternalWrite(addr uint16, value uint8)
}

// SpritePixel is what the sprite pipeline hands the compositor for one dot.
type SpritePixel struct {
	Color    uint8
	Palette  uint8
	Priority bool // true = behind background
	IsSprite0 bool
	Opaque   bool
}

// PPU is the 2C02 state machine. It owns OAM, palette RAM, and its 2 KiB of
// internal nametable RAM; CHR space and nametable mirroring are borrowed from
// the mapper through Bus on every access.
type PPU struct {
	region *region.Region
	bus    Bus

	// CPU-visible registers.
	ctrl   uint8 // $2000
	mask   uint8 // $2001
	status uint8 // $2002 (top 3 bits only; bottom 5 are open bus)

	oamAddr uint8 // $2003

	// Loopy registers.
	v, t uint16
	x    uint8
	w    bool

	readBuffer uint8 // $2007 read-ahead buffer
	openBus    uint8 // PPU-bus-wide open bus latch for register reads

	oam          [256]uint8
	secondaryOAM [32]uint8
	spriteCount  int
	spriteIndex  [8]uint8 // OAM index each secondary-OAM slot came from
	sprite0OnScanline bool // OAM sprite 0 is among the sprites loaded for this line
	spritePatLo  [8]uint8
	spritePatHi  [8]uint8
	spriteAttr   [8]uint8
	spriteX      [8]uint8

	vram    [2048]uint8 // internal nametable RAM (2 logical 1 KiB pages)
	palette [32]uint8

	scanline int // -1 (prerender) .. VBlankLine-1
	dot      int // 0..340
	oddFrame bool
	frame    uint64

	// Background fetch pipeline.
	ntByte, atByte, patLo, patHi uint8
	bgShiftLo, bgShiftHi         uint16
	atShiftLo, atShiftHi         uint16

	// vblankJustSet is true for the window between the Tick() call that sets
	// the vblank flag and the next Tick() call. A PPUSTATUS read landing in
	// that window races the internal set and reads the flag back as clear
	// (and suppresses NMI for the frame) instead of reading it set and then
	// clearing it, per §4.3.
	vblankJustSet bool
	nmiLine       bool // current NMI output, sampled by Machine each cycle

	// FrameBuffer holds one 9-bit (emphasis<<6 | palette index) value per
	// pixel, row-major, per §6.
	FrameBuffer [256 * 240]uint16

	// OnFrame, if set, is invoked once the prerender scanline is reached
	// (i.e. a full visible frame has been produced).
	OnFrame func()
}

// New creates a PPU for the given region. SetBus must be called before Tick.
func New(r *region.Region) *PPU {
	p := &PPU{region: r, scanline: -1}
	return p
}

func (p *PPU) SetBus(bus Bus) { p.bus = bus }

// Power resets the PPU to its post-power state.
func (p *PPU) Power() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuffer = 0
	p.scanline, p.dot = -1, 0
	p.oddFrame = false
	p.frame = 0
	p.nmiLine = false
	p.vblankJustSet = false
	for i := range p.oam {
		p.oam[i] = 0
	}
	for i := range p.palette {
		p.palette[i] = 0
	}
	for i := range p.FrameBuffer {
		p.FrameBuffer[i] = 0
	}
}

// Reset mimics the NES reset line: OAM and palette survive, PPUCTRL/MASK/the
// loopy latch do not.
func (p *PPU) Reset() {
	p.ctrl, p.mask = 0, 0
	p.w = false
	p.readBuffer = 0
	p.scanline, p.dot = -1, 0
	p.oddFrame = false
}

func (p *PPU) renderingEnabled() bool { return p.mask&0x18 != 0 }
func (p *PPU) showBackground() bool   { return p.mask&0x08 != 0 }
func (p *PPU) showSprites() bool      { return p.mask&0x10 != 0 }

// NMIOutput reports the PPU's nmi pin for Machine to sample into the CPU.
func (p *PPU) NMIOutput() bool { return p.nmiLine }

// Frame returns the number of frames completed since Power/Reset.
func (p *PPU) Frame() uint64 { return p.frame }

// Scanline and Dot expose the current dot position, for the debugger and
// for tests driving the PPU to a specific point in the frame.
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }

func (p *PPU) updateNMILine() {
	p.nmiLine = p.status&0x80 != 0 && p.ctrl&0x80 != 0
}

// --- CPU-facing register access ($2000-$2007, mirrored every 8 bytes) ---

func (p *PPU) WriteRegister(addr uint16, value uint8) {
	p.openBus = value
	switch addr & 7 {
	case 0: // PPUCTRL
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | uint16(value&0x03)<<10
		p.updateNMILine()
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.w {
			p.t = (p.t &^ 0x001F) | uint16(value>>3)
			p.x = value & 0x07
		} else {
			p.t = (p.t &^ 0x73E0) | uint16(value&0x07)<<12 | uint16(value&0xF8)<<2
		}
		p.w = !p.w
	case 6: // PPUADDR
		if !p.w {
			p.t = (p.t &^ 0x7F00) | uint16(value&0x3F)<<8
		} else {
			p.t = (p.t &^ 0x00FF) | uint16(value)
			p.v = p.t
		}
		p.w = !p.w
	case 7: // PPUDATA
		p.writeVRAM(p.v, value)
		p.v += p.vramIncrement()
	}
}

func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 2: // PPUSTATUS
		if p.vblankJustSet {
			p.status &^= 0x80
			p.vblankJustSet = false
		}
		result := (p.status & 0xE0) | (p.openBus & 0x1F)
		p.status &^= 0x80
		p.updateNMILine()
		p.w = false
		p.openBus = result
		return result
	case 4: // OAMDATA
		v := p.oam[p.oamAddr]
		p.openBus = v
		return v
	case 7: // PPUDATA
		var result uint8
		if p.v&0x3FFF >= 0x3F00 {
			result = p.readVRAM(p.v) & 0x3F
			p.readBuffer = p.readVRAMNoPalette(p.v)
		} else {
			result = p.readBuffer
			p.readBuffer = p.readVRAM(p.v)
		}
		p.v += p.vramIncrement()
		p.openBus = result
		return result
	default: // write-only registers read back as open bus
		return p.openBus
	}
}

// PeekRegister reads without side effects, for the debugger.
func (p *PPU) PeekRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 2:
		return (p.status & 0xE0) | (p.openBus & 0x1F)
	case 4:
		return p.oam[p.oamAddr]
	case 7:
		if p.v&0x3FFF >= 0x3F00 {
			return p.readVRAM(p.v) & 0x3F
		}
		return p.readBuffer
	default:
		return p.openBus
	}
}

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

// WriteOAMByte is used by Machine's OAM DMA to deposit each of the 256 bytes
// transferred from CPU page memory, starting at the current OAMADDR.
func (p *PPU) WriteOAMByte(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

// --- VRAM (0x0000-0x3FFF as seen through $2007) ---

func (p *PPU) readVRAM(addr uint16) uint8 {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		return p.readPalette(addr)
	}
	return p.readVRAMNoPalette(addr)
}

// readVRAMNoPalette is used both for the $2007 read-buffer path (which never
// sees the palette directly) and to fill the buffer on a palette read.
func (p *PPU) readVRAMNoPalette(addr uint16) uint8 {
	addr &= 0x3FFF
	if addr < 0x2000 {
		return p.bus.PPURead(addr)
	}
	return p.readNametable(addr)
}

func (p *PPU) writeVRAM(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.bus.PPUWrite(addr, value)
	case addr < 0x3F00:
		p.writeNametable(addr, value)
	default:
		p.writePalette(addr, value)
	}
}

func (p *PPU) readNametable(addr uint16) uint8 {
	addr = (addr - 0x2000) & 0x0FFF
	page := p.bus.PPUFetch(0x2000 + addr)
	offset := addr & 0x03FF
	switch page {
	case PageInternalA:
		return p.vram[offset]
	case PageInternalB:
		return p.vram[0x0400+offset]
	default:
		return p.bus.ExternalRead(addr)
	}
}

func (p *PPU) writeNametable(addr uint16, value uint8) {
	addr = (addr - 0x2000) & 0x0FFF
	page := p.bus.PPUFetch(0x2000 + addr)
	offset := addr & 0x03FF
	switch page {
	case PageInternalA:
		p.vram[offset] = value
	case PageInternalB:
		p.vram[0x0400+offset] = value
	default:
		p.bus.ExternalWrite(addr, value)
	}
}

// palette mirroring: 0x3F10/14/18/1C alias 0x3F00/04/08/0C.
func palIndex(addr uint16) uint16 {
	i := addr & 0x1F
	if i&0x13 == 0x10 {
		i &^= 0x10
	}
	return i
}

func (p *PPU) readPalette(addr uint16) uint8 { return p.palette[palIndex(addr)] }
func (p *PPU) writePalette(addr uint16, value uint8) {
	p.palette[palIndex(addr)] = value & 0x3F
}

// PeekPalette exposes palette RAM for the debugger (§6 peek_ppu).
func (p *PPU) PeekPalette(addr uint16) uint8 { return p.readPalette(addr) }

func (p *PPU) String() string {
	return fmt.Sprintf("PPU scanline=%d dot=%d v=%04X t=%04X ctrl=%02X mask=%02X status=%02X",
		p.scanline, p.dot, p.v, p.t, p.ctrl, p.mask, p.status)
}
