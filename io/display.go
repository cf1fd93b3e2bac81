package io

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"iter"
	"maps"

	"golang.org/x/image/draw"

	"github.com/ezrec/retrovm/vm"
)

// Palette maps framebuffer bytes, modulo its length, to colors.
var Palette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff}, // black
	color.RGBA{0xff, 0xff, 0xff, 0xff}, // white
	color.RGBA{0xff, 0x00, 0x00, 0xff}, // red
	color.RGBA{0x00, 0xff, 0x00, 0xff}, // green
	color.RGBA{0x00, 0x00, 0xff, 0xff}, // blue
	color.RGBA{0xff, 0xff, 0x00, 0xff}, // yellow
	color.RGBA{0xff, 0x00, 0xff, 0xff}, // magenta
	color.RGBA{0x00, 0xff, 0xff, 0xff}, // cyan
	color.RGBA{0xff, 0xa5, 0x00, 0xff}, // orange
	color.RGBA{0x80, 0x80, 0x80, 0xff}, // gray
	color.RGBA{0x4b, 0x00, 0x82, 0xff}, // indigo
}

var _display_defines = map[string]string{
	"SCREEN_WIDTH":     fmt.Sprintf("%v", vm.SCREEN_WIDTH),
	"SCREEN_HEIGHT":    fmt.Sprintf("%v", vm.SCREEN_HEIGHT),
	"FRAMEBUFFER_BASE": fmt.Sprintf("%#x", vm.FRAMEBUFFER_BASE),
	"PALETTE_SIZE":     fmt.Sprintf("%v", len(Palette)),
}

// Display renders a framebuffer into images.
type Display struct {
	Scale int // Snapshot pixel scale, 1 when zero.
}

var _ Device = (*Display)(nil)

// Defines returns an iter of defines for the device.
func (disp *Display) Defines() iter.Seq2[string, string] {
	return maps.All(_display_defines)
}

// Rewind does nothing, the display has no state of its own.
func (disp *Display) Rewind() {
}

// Image converts a row major framebuffer to a paletted image. Missing
// bytes render as palette entry 0.
func (disp *Display) Image(framebuffer []byte) (img *image.Paletted) {
	img = image.NewPaletted(image.Rect(0, 0, vm.SCREEN_WIDTH, vm.SCREEN_HEIGHT), Palette)
	for n, index := range framebuffer {
		if n >= vm.FRAMEBUFFER_SIZE {
			break
		}
		img.Pix[n] = index % uint8(len(Palette))
	}

	return
}

// Snapshot renders the framebuffer at the display scale.
func (disp *Display) Snapshot(framebuffer []byte) (img *image.RGBA) {
	scale := max(disp.Scale, 1)

	src := disp.Image(framebuffer)
	img = image.NewRGBA(image.Rect(0, 0, vm.SCREEN_WIDTH*scale, vm.SCREEN_HEIGHT*scale))
	draw.NearestNeighbor.Scale(img, img.Bounds(), src, src.Bounds(), draw.Src, nil)

	return
}

// WritePNG encodes a snapshot of the framebuffer as PNG.
func (disp *Display) WritePNG(w io.Writer, framebuffer []byte) (err error) {
	err = png.Encode(w, disp.Snapshot(framebuffer))
	return
}
