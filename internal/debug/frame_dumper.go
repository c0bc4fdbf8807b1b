package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// FrameDumper writes a PPU frame buffer (9-bit palette indices, as produced
// by Machine.GetScreen) to a PNG file, resolved through a region's RGB LUT.
// It exists so a debugger can pull a screenshot without a display backend.
type FrameDumper struct {
	outputDir string
	scale     int
}

// NewFrameDumper creates a dumper that writes PNGs under dir.
func NewFrameDumper(dir string) *FrameDumper {
	return &FrameDumper{outputDir: dir, scale: 1}
}

// SetScale sets the nearest-neighbour upscale factor applied before writing;
// 1 (the default) writes at native 256x240.
func (fd *FrameDumper) SetScale(scale int) {
	if scale < 1 {
		scale = 1
	}
	fd.scale = scale
}

// DumpPNG resolves frameBuffer through palette (a region's 1536-byte RGB
// LUT) and writes it as a PNG named frame_<n>.png under the dumper's
// directory.
func (fd *FrameDumper) DumpPNG(frameBuffer [256 * 240]uint16, palette [1536]byte, frameNum uint64) error {
	if err := os.MkdirAll(fd.outputDir, 0755); err != nil {
		return fmt.Errorf("debug: create dump dir: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 256, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			idx := frameBuffer[y*256+x] & 0x1FF
			off := int(idx%64) * 3
			img.Set(x, y, color.RGBA{palette[off], palette[off+1], palette[off+2], 0xFF})
		}
	}

	out := image.Image(img)
	if fd.scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, 256*fd.scale, 240*fd.scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		out = dst
	}

	path := filepath.Join(fd.outputDir, fmt.Sprintf("frame_%06d.png", frameNum))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("debug: create %s: %w", path, err)
	}
	defer file.Close()
	return png.Encode(file, out)
}
