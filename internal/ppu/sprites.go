package ppu

// Sprite evaluation scans the 64 OAM entries for the NEXT scanline and fills
// secondary OAM with up to 8 hits, reproducing the well-known hardware bug
// where overflow detection keeps incrementing the OAM byte index (not just
// the sprite index) once 8 sprites have already been found, walking
// diagonally through OAM instead of checking Y bytes only.
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}
	targetLine := p.scanline + 1

	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}
	p.spriteCount = 0
	sawSprite0 := false

	n := 0
	m := 0
	for n < 64 {
		y := int(p.oam[n*4+m])
		if targetLine >= y && targetLine < y+height {
			if p.spriteCount < 8 {
				copy(p.secondaryOAM[p.spriteCount*4:], p.oam[n*4:n*4+4])
				p.spriteIndex[p.spriteCount] = uint8(n)
				if n == 0 {
					sawSprite0 = true
				}
				p.spriteCount++
				n++
				continue
			}
			p.status |= 0x20 // overflow
			break
		}
		if p.spriteCount >= 8 {
			// Once full, a miss advances both the sprite index n and the byte
			// index m (the hardware bug), so the next Y test reads byte m of
			// the next sprite: the diagonal walk.
			n++
			m++
			if m == 4 {
				m = 0
			}
			continue
		}
		n++
	}

	p.sprite0OnScanline = sawSprite0
}

// fetchSprite runs the dots-257..320 pattern fetch for secondary-OAM slot i,
// latching its pattern bytes, attribute and X for use during the next
// scanline's pixel compositing.
func (p *PPU) fetchSprite(i int) {
	if i >= 8 {
		return
	}
	if i >= p.spriteCount {
		p.spritePatLo[i] = 0
		p.spritePatHi[i] = 0
		p.spriteAttr[i] = 0
		p.spriteX[i] = 0xFF
		return
	}

	y := p.secondaryOAM[i*4]
	tile := p.secondaryOAM[i*4+1]
	attr := p.secondaryOAM[i*4+2]
	x := p.secondaryOAM[i*4+3]

	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}
	row := (p.scanline + 1) - int(y)
	if attr&0x80 != 0 { // vertical flip
		row = height - 1 - row
	}

	var table uint16
	var patternTile uint8
	if height == 16 {
		table = uint16(tile&1) * 0x1000
		patternTile = tile &^ 1
		if row >= 8 {
			patternTile++
			row -= 8
		}
	} else {
		if p.ctrl&0x08 != 0 {
			table = 0x1000
		}
		patternTile = tile
	}

	addr := table + uint16(patternTile)*16 + uint16(row)
	lo := p.bus.PPURead(addr)
	hi := p.bus.PPURead(addr + 8)
	if attr&0x40 != 0 { // horizontal flip
		lo = reverseBits(lo)
		hi = reverseBits(hi)
	}

	p.spritePatLo[i] = lo
	p.spritePatHi[i] = hi
	p.spriteAttr[i] = attr
	p.spriteX[i] = x
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// spritePixelAt returns the highest-priority opaque sprite pixel covering
// dot x on the current scanline, if any.
func (p *PPU) spritePixelAt(x int) (SpritePixel, bool) {
	if !p.showSprites() || (x < 8 && p.mask&0x04 == 0) {
		return SpritePixel{}, false
	}
	for i := 0; i < p.spriteCount; i++ {
		offset := x - int(p.spriteX[i])
		if offset < 0 || offset > 7 {
			continue
		}
		shift := uint(7 - offset)
		lo := (p.spritePatLo[i] >> shift) & 1
		hi := (p.spritePatHi[i] >> shift) & 1
		color := lo | hi<<1
		if color == 0 {
			continue
		}
		attr := p.spriteAttr[i]
		return SpritePixel{
			Color:     color,
			Palette:   attr & 0x03,
			Priority:  attr&0x20 != 0,
			IsSprite0: p.spriteIndex[i] == 0 && p.sprite0OnScanline,
			Opaque:    true,
		}, true
	}
	return SpritePixel{}, false
}
