package stitch

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

// DefaultColors is the palette size used by Encode when quantizing.
const DefaultColors = 256

// Image returns the stitched pixels as an *image.NRGBA, or an
// *image.NRGBA64 for 16-bit spritemaps.
func (im *Image) Image() image.Image {
	r := image.Rect(0, 0, im.Width, im.Height)
	var (
		out    image.Image
		pix    []byte
		stride int
	)
	if im.BitDepth > 8 {
		m := image.NewNRGBA64(r)
		out, pix, stride = m, m.Pix, m.Stride
	} else {
		m := image.NewNRGBA(r)
		out, pix, stride = m, m.Pix, m.Stride
	}
	y := 0
	for row := range im.Rows() {
		copy(pix[y*stride:], row)
		y++
	}
	return out
}

// Paletted quantizes the image down to at most n colors, one of which is
// always color.Transparent at index 0.
func (im *Image) Paletted(n int) *image.Paletted {
	src := im.Image()
	pal := color.Palette{color.Transparent}
	if n > 1 {
		q := quantize.MedianCutQuantizer{}
		pal = q.Quantize(append(make(color.Palette, 0, n), color.Transparent), src)
	}
	dst := image.NewPaletted(src.Bounds(), pal)
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	return dst
}

// Encode writes the image to w as PNG. With palette set, the image is first
// quantized to DefaultColors colors.
func (im *Image) Encode(w io.Writer, palette bool) error {
	var img image.Image
	if palette {
		img = im.Paletted(DefaultColors)
	} else {
		img = im.Image()
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}
