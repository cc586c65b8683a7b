// Package packing places a set of boxes (sprites) into one larger box (a
// spritemap) using a partition tree and a simulated annealing search over the
// insertion order.
//
// Insertion is a simple divide-and-conquer: a node with children tries each
// child in turn, a childless node carves out room for the box and splits what
// remains into child nodes.
package packing

import (
	"fmt"
	"image"
)

// Pad is the padding kept to the right of and below a box.
type Pad struct {
	X, Y int
}

// DefaultPad is the padding used when none is configured.
var DefaultPad = Pad{X: 1, Y: 1}

// Rect is an axis-aligned rectangle in canvas coordinates. X2 and Y2 are
// exclusive.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// RectFromSize returns a rect of the given size at the origin.
func RectFromSize(w, h int) Rect {
	return Rect{X2: w, Y2: h}
}

func (r Rect) Width() int  { return r.X2 - r.X1 }
func (r Rect) Height() int { return r.Y2 - r.Y1 }
func (r Rect) Area() int   { return r.Width() * r.Height() }

// Aspect is width over height.
func (r Rect) Aspect() float64 {
	return float64(r.Width()) / float64(r.Height())
}

// Min is the top left corner.
func (r Rect) Min() image.Point { return image.Pt(r.X1, r.Y1) }

// Size is the width and height as a point.
func (r Rect) Size() image.Point { return image.Pt(r.Width(), r.Height()) }

// SameSize reports whether o would fit exactly inside r. Position is ignored.
func (r Rect) SameSize(o Rect) bool {
	return r.Width() == o.Width() && r.Height() == o.Height()
}

// Fits reports whether b, padding included, fits inside r.
func (r Rect) Fits(b *Box) bool {
	return r.Width() >= b.OuterWidth() && r.Height() >= b.OuterHeight()
}

// Overlaps reports whether r and o share any area. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X1 < o.X2 && o.X1 < r.X2 && r.Y1 < o.Y2 && o.Y1 < r.Y2
}

// Image converts r into an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d (%dx%d)", r.X1, r.Y1, r.X2, r.Y2, r.Width(), r.Height())
}
