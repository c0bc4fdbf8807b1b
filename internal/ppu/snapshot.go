package ppu

// Snapshot captures the PPU's full architectural and rendering-pipeline
// state for Machine's save-state support.
type Snapshot struct {
	Ctrl, Mask, Status, OAMAddr uint8

	V, T uint16
	X    uint8
	W    bool

	ReadBuffer, OpenBus uint8

	OAM          [256]uint8
	SecondaryOAM [32]uint8
	SpriteCount  int
	SpriteIndex  [8]uint8
	SpritePatLo  [8]uint8
	SpritePatHi  [8]uint8
	SpriteAttr   [8]uint8
	SpriteX      [8]uint8
	Sprite0OnScanline bool

	VRAM    [2048]uint8
	Palette [32]uint8

	Scanline int
	Dot      int
	OddFrame bool
	Frame    uint64

	NTByte, ATByte, PatLo, PatHi uint8
	BGShiftLo, BGShiftHi         uint16
	ATShiftLo, ATShiftHi         uint16

	VBlankJustSet bool
	NMILine       bool

	FrameBuffer [256 * 240]uint16
}

func (p *PPU) Snapshot() Snapshot {
	return Snapshot{
		Ctrl: p.ctrl, Mask: p.mask, Status: p.status, OAMAddr: p.oamAddr,
		V: p.v, T: p.t, X: p.x, W: p.w,
		ReadBuffer: p.readBuffer, OpenBus: p.openBus,
		OAM: p.oam, SecondaryOAM: p.secondaryOAM, SpriteCount: p.spriteCount,
		SpriteIndex: p.spriteIndex, SpritePatLo: p.spritePatLo, SpritePatHi: p.spritePatHi,
		SpriteAttr: p.spriteAttr, SpriteX: p.spriteX,
		Sprite0OnScanline: p.sprite0OnScanline,
		VRAM: p.vram, Palette: p.palette,
		Scanline: p.scanline, Dot: p.dot, OddFrame: p.oddFrame, Frame: p.frame,
		NTByte: p.ntByte, ATByte: p.atByte, PatLo: p.patLo, PatHi: p.patHi,
		BGShiftLo: p.bgShiftLo, BGShiftHi: p.bgShiftHi,
		ATShiftLo: p.atShiftLo, ATShiftHi: p.atShiftHi,
		VBlankJustSet: p.vblankJustSet, NMILine: p.nmiLine,
		FrameBuffer: p.FrameBuffer,
	}
}

func (p *PPU) Restore(s Snapshot) {
	p.ctrl, p.mask, p.status, p.oamAddr = s.Ctrl, s.Mask, s.Status, s.OAMAddr
	p.v, p.t, p.x, p.w = s.V, s.T, s.X, s.W
	p.readBuffer, p.openBus = s.ReadBuffer, s.OpenBus
	p.oam, p.secondaryOAM, p.spriteCount = s.OAM, s.SecondaryOAM, s.SpriteCount
	p.spriteIndex, p.spritePatLo, p.spritePatHi = s.SpriteIndex, s.SpritePatLo, s.SpritePatHi
	p.spriteAttr, p.spriteX = s.SpriteAttr, s.SpriteX
	p.sprite0OnScanline = s.Sprite0OnScanline
	p.vram, p.palette = s.VRAM, s.Palette
	p.scanline, p.dot, p.oddFrame, p.frame = s.Scanline, s.Dot, s.OddFrame, s.Frame
	p.ntByte, p.atByte, p.patLo, p.patHi = s.NTByte, s.ATByte, s.PatLo, s.PatHi
	p.bgShiftLo, p.bgShiftHi = s.BGShiftLo, s.BGShiftHi
	p.atShiftLo, p.atShiftHi = s.ATShiftLo, s.ATShiftHi
	p.vblankJustSet, p.nmiLine = s.VBlankJustSet, s.NMILine
	p.FrameBuffer = s.FrameBuffer
}
