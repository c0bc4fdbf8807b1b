package ppu

// Tick advances the PPU by exactly one dot, per the schedule in §4.3: 341
// dots per scanline, scanlines -1 (prerender) through VBlankLine-1 visible,
// VBlankLine..PrerenderLine-1 idle/vblank.
func (p *PPU) Tick() {
	p.vblankJustSet = false // consume any unread sentinel from the prior tick

	if p.scanline >= 0 && p.scanline < 240 {
		p.visibleOrPrerenderDot()
	} else if p.scanline == -1 {
		p.visibleOrPrerenderDot()
		p.prerenderExtras()
	} else if p.scanline == 240 {
		// idle scanline, nothing to do
	} else if p.scanline == p.region.VBlankLine {
		if p.dot == 1 {
			p.status |= 0x80
			p.vblankJustSet = true
			p.updateNMILine()
		}
	}

	p.advanceDot()
}

func (p *PPU) advanceDot() {
	p.dot++
	maxDot := 340
	if p.scanline == -1 && p.region.UnevenFrames && p.oddFrame && p.renderingEnabled() {
		maxDot = 339 // NTSC odd-frame: skip dot 339->340 (dot 340 never happens)
	}
	if p.dot > maxDot {
		p.dot = 0
		p.scanline++
		if p.scanline > p.region.PrerenderLine-1 {
			p.scanline = -1
			p.frame++
			p.oddFrame = !p.oddFrame
			if p.OnFrame != nil {
				p.OnFrame()
			}
		}
	}
}

func (p *PPU) prerenderExtras() {
	if p.dot == 1 {
		p.status &^= 0xE0 // clear vblank, sprite-0 hit, and overflow
		p.updateNMILine()
	}
	if p.renderingEnabled() && p.dot >= 280 && p.dot <= 304 {
		// copy vertical bits of t into v
		p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
	}
}

// visibleOrPrerenderDot runs the background/sprite pipeline shared by
// visible scanlines and the prerender line.
func (p *PPU) visibleOrPrerenderDot() {
	if !p.renderingEnabled() {
		if p.scanline >= 0 && p.dot >= 1 && p.dot <= 256 {
			p.emitPixel()
		}
		return
	}

	switch {
	case p.dot >= 1 && p.dot <= 256:
		p.backgroundFetchCycle()
		if p.scanline >= 0 {
			p.emitPixel()
		}
		p.shiftBackgroundRegisters()
		if p.dot == 256 {
			p.incrementY()
		}
	case p.dot == 257:
		p.reloadShiftRegisters()
		p.copyHorizontalBits()
		if p.scanline >= 0 {
			p.evaluateSprites()
		}
	case p.dot >= 258 && p.dot <= 320:
		p.oamAddr = 0
		if p.dot >= 261 && (p.dot-261)%8 == 5 {
			p.fetchSprite((p.dot - 261) / 8)
		}
	case p.dot >= 321 && p.dot <= 336:
		p.backgroundFetchCycle()
		p.shiftBackgroundRegisters()
	case p.dot == 337 || p.dot == 339:
		// dummy nametable fetches
		p.readNametable(0x2000 | (p.v & 0x0FFF))
	}
}

// backgroundFetchCycle runs the 8-dot NT/AT/pattern-low/pattern-high fetch
// sequence and increments coarse X every 8 dots.
func (p *PPU) backgroundFetchCycle() {
	switch p.dot % 8 {
	case 1:
		p.reloadShiftRegisters()
		p.ntByte = p.readNametable(0x2000 | (p.v & 0x0FFF))
	case 3:
		p.atByte = p.fetchAttribute()
	case 5:
		p.patLo = p.fetchPatternByte(false)
	case 7:
		p.patHi = p.fetchPatternByte(true)
	case 0:
		p.incrementCoarseX()
	}
}

func (p *PPU) fetchAttribute() uint8 {
	v := p.v
	addr := 0x23C0 | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
	raw := p.readNametable(addr)
	shift := ((v >> 4) & 4) | (v & 2)
	return (raw >> shift) & 0x03
}

func (p *PPU) bgPatternTable() uint16 {
	if p.ctrl&0x10 != 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) fetchPatternByte(high bool) uint8 {
	fineY := (p.v >> 12) & 0x07
	addr := p.bgPatternTable() + uint16(p.ntByte)*16 + fineY
	if high {
		addr += 8
	}
	return p.bus.PPURead(addr)
}

func (p *PPU) reloadShiftRegisters() {
	p.bgShiftLo = (p.bgShiftLo &^ 0x00FF) | uint16(p.patLo)
	p.bgShiftHi = (p.bgShiftHi &^ 0x00FF) | uint16(p.patHi)
	var loFill, hiFill uint16
	if p.atByte&0x01 != 0 {
		loFill = 0x00FF
	}
	if p.atByte&0x02 != 0 {
		hiFill = 0x00FF
	}
	p.atShiftLo = (p.atShiftLo &^ 0x00FF) | loFill
	p.atShiftHi = (p.atShiftHi &^ 0x00FF) | hiFill
}

func (p *PPU) shiftBackgroundRegisters() {
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.atShiftLo <<= 1
	p.atShiftHi <<= 1
}

func (p *PPU) incrementCoarseX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyHorizontalBits() {
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

// emitPixel composites the background and sprite pipelines for the current
// dot into one 9-bit frame buffer value.
func (p *PPU) emitPixel() {
	x := p.dot - 1
	bgColor, bgPalette, bgOpaque := p.backgroundPixel(x)
	sp, spriteDrawn := p.spritePixelAt(x)

	var finalColor, finalPalette uint8
	isBackground := true
	if spriteDrawn && sp.Opaque {
		if !bgOpaque || !sp.Priority {
			finalColor, finalPalette = sp.Color, sp.Palette
			isBackground = false
		} else {
			finalColor, finalPalette = bgColor, bgPalette
		}
		if sp.IsSprite0 && bgOpaque && x != 255 && x >= 0 && !(x < 8 && p.leftClipped()) {
			p.status |= 0x40
		}
	} else if bgOpaque {
		finalColor, finalPalette = bgColor, bgPalette
	}

	var palAddr uint16
	if finalColor == 0 {
		palAddr = 0x3F00
		_ = isBackground
	} else if isBackground {
		palAddr = 0x3F00 + uint16(finalPalette)*4 + uint16(finalColor)
	} else {
		palAddr = 0x3F10 + uint16(finalPalette)*4 + uint16(finalColor)
	}
	idx := p.readPalette(palAddr) & 0x3F
	emphasis := (p.mask >> 5) & 0x07
	pixel := uint16(emphasis)<<6 | uint16(idx)

	if p.scanline >= 0 && p.scanline < 240 && x >= 0 && x < 256 {
		p.FrameBuffer[p.scanline*256+x] = pixel
	}
}

func (p *PPU) leftClipped() bool { return p.mask&0x02 == 0 }

func (p *PPU) backgroundPixel(x int) (color, palette uint8, opaque bool) {
	if !p.showBackground() || (x < 8 && p.mask&0x02 == 0) {
		return 0, 0, false
	}
	shift := uint(15 - p.x)
	lo := uint8((p.bgShiftLo >> shift) & 1)
	hi := uint8((p.bgShiftHi >> shift) & 1)
	color = lo | hi<<1
	alo := uint8((p.atShiftLo >> shift) & 1)
	ahi := uint8((p.atShiftHi >> shift) & 1)
	palette = alo | ahi<<1
	return color, palette, color != 0
}
