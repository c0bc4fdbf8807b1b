package ppu_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/ppu"
	"gones/internal/region"
)

// fakeBus is a minimal horizontally-mirrored CHR-RAM stand-in, enough to
// drive the PPU without a real mapper.
type fakeBus struct {
	chr      [0x2000]uint8
	external [0x400]uint8
}

func (b *fakeBus) PPURead(addr uint16) uint8        { return b.chr[addr&0x1FFF] }
func (b *fakeBus) PPUWrite(addr uint16, v uint8)    { b.chr[addr&0x1FFF] = v }
func (b *fakeBus) ExternalRead(addr uint16) uint8   { return b.external[addr&0x3FF] }
func (b *fakeBus) ExternalWrite(addr uint16, v uint8) { b.external[addr&0x3FF] = v }
func (b *fakeBus) PPUFetch(addr uint16) ppu.NametablePage {
	// horizontal mirroring: page flips every 1KiB within the first half,
	// same page for the mirrored half.
	if (addr/0x400)%2 == 0 {
		return ppu.PageInternalA
	}
	return ppu.PageInternalB
}

func newTestPPU() (*ppu.PPU, *fakeBus) {
	r := region.New(region.NTSC)
	p := ppu.New(r)
	bus := &fakeBus{}
	p.SetBus(bus)
	p.Power()
	return p, bus
}

func TestPPUCTRLWriteSetsNametableBitsOfT(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2000, 0x03)
	require.Equal(t, uint16(0x0C00), p.Snapshot().T&0x0C00)
	// A read of write-only $2000 returns the open-bus latch, which holds the
	// value just written.
	require.Equal(t, uint8(0x03)&0x1F, p.ReadRegister(0x2000)&0x1F)
}

func TestPPUDATAReadIsBufferedExceptForPalette(t *testing.T) {
	p, bus := newTestPPU()
	bus.chr[0x0010] = 0x42

	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2006, 0x10) // v = 0x0010
	first := p.ReadRegister(0x2007)
	require.Equal(t, uint8(0), first) // buffer was empty on power-on
	second := p.ReadRegister(0x2007)
	require.Equal(t, uint8(0x42), second)
}

func TestPaletteWriteMirrorsSpriteBackdropEntries(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x10)
	p.WriteRegister(0x2007, 0x16)
	require.Equal(t, uint8(0x16), p.PeekPalette(0x3F00))
}

func TestVBlankSetsAndRaisesNMIWhenEnabled(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2000, 0x80) // enable NMI
	require.False(t, p.NMIOutput())

	runToVBlankSetDot(p)
	require.True(t, p.NMIOutput())
}

func TestReadingPPUSTATUSAtVBlankSetClearsAndSuppressesNMI(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2000, 0x80)

	runToVBlankSetDot(p)
	// Reading in the window between the set tick and the next tick races
	// the internal flag and reads it back clear, suppressing NMI.
	status := p.ReadRegister(0x2002)
	require.Equal(t, uint8(0), status&0x80)
	require.False(t, p.NMIOutput())
}

// runToVBlankSetDot ticks the PPU to just past the dot that sets the vblank
// flag (scanline VBlankLine, dot 1).
func runToVBlankSetDot(p *ppu.PPU) {
	for !(p.Scanline() == 241 && p.Dot() == 0) {
		p.Tick()
	}
	p.Tick() // processes dot 0, no-op
	p.Tick() // processes dot 1: sets vblank and (if enabled) NMI
}

func TestOddFrameDotSkipOnlyWhenRenderingEnabled(t *testing.T) {
	p, _ := newTestPPU()

	dotsRenderingOff := framesDots(p, 2)
	require.Equal(t, 89342+89342, dotsRenderingOff)

	p2, _ := newTestPPU()
	p2.WriteRegister(0x2001, 0x08) // enable background rendering
	dotsRenderingOn := framesDots(p2, 2)
	require.Equal(t, 89342+89341, dotsRenderingOn)
}

func TestSpriteOverflowFlagSetsPastEighthHit(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2001, 0x10) // enable sprites

	for i := 0; i < 64; i++ {
		p.WriteRegister(0x2003, uint8(i*4))
		p.WriteRegister(0x2004, 10) // Y: all 64 sprites intersect scanline 10
		p.WriteRegister(0x2004, 0)
		p.WriteRegister(0x2004, 0)
		p.WriteRegister(0x2004, 0)
	}

	for !(p.Scanline() == 9 && p.Dot() == 257) {
		p.Tick()
	}
	p.Tick() // dot 257: runs sprite evaluation for the next scanline (10)

	status := p.ReadRegister(0x2002)
	require.NotZero(t, status&0x20)
}

func runDots(p *ppu.PPU, n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
}

// framesDots ticks n frames and returns the total dot count, detected via
// OnFrame callbacks.
func framesDots(p *ppu.PPU, n int) int {
	frames := 0
	total := 0
	p.OnFrame = func() { frames++ }
	for frames < n {
		p.Tick()
		total++
	}
	return total
}
