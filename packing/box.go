package packing

import (
	"fmt"
	"image"
	"iter"
)

// PixelSource is a decoded raster image able to produce its pixel rows.
//
// Rows yields one row at a time, top to bottom. Each row holds
// non-premultiplied RGBA samples, depth/8 bytes per channel, big-endian when
// depth is 16. Sources must support depth values of 8 and 16.
type PixelSource interface {
	Size() (w, h int)
	BitDepth() int
	Rows(depth int) iter.Seq[[]byte]
}

// Box is one sprite to be packed. It is immutable once built.
type Box struct {
	name string
	src  PixelSource
	pad  Pad
	w, h int
}

// NewBox builds a box named name (usually the source path) for the passed
// pixel source.
func NewBox(name string, src PixelSource, pad Pad) *Box {
	w, h := src.Size()
	return &Box{name: name, src: src, pad: pad, w: w, h: h}
}

func (b *Box) Name() string        { return b.name }
func (b *Box) Source() PixelSource { return b.src }
func (b *Box) Pad() Pad            { return b.pad }
func (b *Box) Width() int          { return b.w }
func (b *Box) Height() int         { return b.h }
func (b *Box) Area() int           { return b.w * b.h }

// Aspect is width over height, padding excluded.
func (b *Box) Aspect() float64 { return float64(b.w) / float64(b.h) }

func (b *Box) OuterWidth() int  { return b.w + b.pad.X }
func (b *Box) OuterHeight() int { return b.h + b.pad.Y }
func (b *Box) OuterArea() int   { return b.OuterWidth() * b.OuterHeight() }

// CalcBox returns the rect the box's pixels occupy when placed at pos.
func (b *Box) CalcBox(pos image.Point) Rect {
	return Rect{X1: pos.X, Y1: pos.Y, X2: pos.X + b.w, Y2: pos.Y + b.h}
}

// OuterBox is like CalcBox, but includes the padding.
func (b *Box) OuterBox(pos image.Point) Rect {
	return Rect{X1: pos.X, Y1: pos.Y, X2: pos.X + b.OuterWidth(), Y2: pos.Y + b.OuterHeight()}
}

func (b *Box) String() string {
	return fmt.Sprintf("<Box %s (%dx%d)>", b.name, b.w, b.h)
}
