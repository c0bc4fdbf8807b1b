// Package region carries the per-video-standard constants that the rest of
// the core reads rather than hard-coding: cycle ratios, vblank/prerender
// scanlines, the APU frame-sequence schedule, the DMC rate table and the
// default palette. Everything here is a value, not a behaviour.
package region

// Standard identifies a video standard.
type Standard uint8

const (
	NTSC Standard = iota
	PAL
)

func (s Standard) String() string {
	if s == PAL {
		return "PAL"
	}
	return "NTSC"
}

// EmphasisOrder names the bit order color-emphasis bits are packed in a
// frame-buffer pixel's top bits, per §4.3 and §4.7.
type EmphasisOrder uint8

const (
	EmphasisBGR EmphasisOrder = iota
	EmphasisBRG
)

// Region bundles the constants that vary between NTSC and PAL.
type Region struct {
	Standard Standard

	// FrameTicks is the CPU-cycle length of one frame (fractional on real
	// hardware; NTSC drops the fraction via the odd-frame dot skip).
	FrameTicks float64
	// RefreshRate in Hz.
	RefreshRate float64

	VBlankLine    int
	PrerenderLine int

	// UnevenFrames: NTSC skips the last prerender dot on odd frames when
	// rendering is enabled.
	UnevenFrames bool
	// ExtraPPUTick: PAL runs one extra PPU dot every five CPU cycles.
	ExtraPPUTick bool

	EmphasisOrder EmphasisOrder

	// FourStepSequence and FiveStepSequence are APU frame-sequencer
	// schedules, in CPU cycles, per §4.4.
	FourStepSequence [5]int
	FiveStepSequence [5]int

	// DMCRateTable holds the 16 DMC timer periods in CPU cycles.
	DMCRateTable [16]int

	// NoisePeriodTable holds the 16 noise-channel timer periods in CPU
	// cycles.
	NoisePeriodTable [16]int

	// Palette is the default 64-entry (or NES2.0 extended) RGB palette,
	// packed as 1536 bytes of R,G,B triplets indexed by a 9-bit pixel
	// value per §6.
	Palette [1536]byte
}

// New returns the constant table for the given standard.
func New(std Standard) *Region {
	if std == PAL {
		return palRegion()
	}
	return ntscRegion()
}

func ntscRegion() *Region {
	r := &Region{
		Standard:      NTSC,
		FrameTicks:    29780.5,
		RefreshRate:   60.0988,
		VBlankLine:    241,
		PrerenderLine: 261,
		UnevenFrames:  true,
		ExtraPPUTick:  false,
		EmphasisOrder: EmphasisBGR,
		FourStepSequence: [5]int{7457, 14913, 22371, 29829, 29830},
		FiveStepSequence: [5]int{7457, 14913, 22371, 37281, 37282},
		DMCRateTable: [16]int{
			428, 380, 340, 320, 286, 254, 226, 214,
			190, 160, 142, 128, 106, 84, 72, 54,
		},
		NoisePeriodTable: [16]int{
			4, 8, 16, 32, 64, 96, 128, 160,
			202, 254, 380, 508, 762, 1016, 2034, 4068,
		},
	}
	fillNTSCPalette(&r.Palette)
	return r
}

func palRegion() *Region {
	r := &Region{
		Standard:      PAL,
		FrameTicks:    33247.5,
		RefreshRate:   50.007,
		VBlankLine:    241,
		PrerenderLine: 310,
		UnevenFrames:  false,
		ExtraPPUTick:  true,
		EmphasisOrder: EmphasisBRG,
		FourStepSequence: [5]int{8313, 16627, 24939, 33253, 33254},
		FiveStepSequence: [5]int{8313, 16627, 24939, 41565, 41566},
		DMCRateTable: [16]int{
			398, 354, 316, 298, 276, 236, 210, 198,
			176, 148, 132, 118, 98, 78, 66, 50,
		},
		NoisePeriodTable: [16]int{
			4, 8, 14, 30, 60, 88, 118, 148,
			188, 236, 354, 426, 638, 850, 1702, 3404,
		},
	}
	fillPALPalette(&r.Palette)
	return r
}

// RateHz is the samples-per-second rate audio is generated at: one sample
// per CPU cycle, at the CPU's effective clock (FrameTicks * RefreshRate).
func (r *Region) RateHz() float64 {
	return r.FrameTicks * r.RefreshRate
}
