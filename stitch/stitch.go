// Package stitch composites a packed partition tree into a spritemap image.
//
// Rows are produced lazily, top to bottom, by walking the tree: a box's node
// yields the box's own rows, empty space yields transparent rows, and a
// node's two children are joined either one above the other or side by side.
// Only binary joins are supported; the packer never produces anything else.
package stitch

import (
	"fmt"
	"iter"

	"github.com/pkg/errors"

	"badc0de.net/pkg/spritemapper/packing"
)

var (
	ErrTooManyChildren = errors.New("stitch: node has too many children")
	ErrNotAdjacent     = errors.New("stitch: nodes are not adjacent")
	ErrMalformed       = errors.New("stitch: malformed node")
)

// Planes is the number of samples per pixel. Alpha is always included.
const Planes = 4

// Image is a stitched spritemap. Pixel data is only generated when pulled
// through Rows (or one of the helpers built on it).
type Image struct {
	Width, Height int
	BitDepth      int
	Planes        int

	root *packing.Node
}

// Stitch checks the tree of p and returns its image. The bit depth is the
// highest depth of any placed sprite.
func Stitch(p *packing.Packed) (*Image, error) {
	return New(p.Root, p.BitDepth())
}

// New returns the image of the tree rooted at root, at the given bit depth
// (8 or 16).
func New(root *packing.Node, depth int) (*Image, error) {
	if depth != 8 && depth != 16 {
		return nil, errors.Errorf("stitch: unsupported bit depth %d", depth)
	}
	if err := validate(root); err != nil {
		return nil, err
	}
	return &Image{
		Width:    root.Rect.Width(),
		Height:   root.Rect.Height(),
		BitDepth: depth,
		Planes:   Planes,
		root:     root,
	}, nil
}

func validate(n *packing.Node) error {
	switch n.Kind {
	case packing.Free:
		if len(n.Children) > 0 {
			return errors.Wrapf(ErrMalformed, "free node %v has children", n)
		}
		return nil
	case packing.Opaque:
		if n.Box == nil || len(n.Children) > 0 {
			return errors.Wrapf(ErrMalformed, "opaque node %v", n)
		}
		return nil
	case packing.Split, packing.Used:
		switch len(n.Children) {
		case 0:
			return errors.Wrapf(ErrMalformed, "%s node %v has no children", n.Kind, n)
		case 1:
		case 2:
			a, b := n.Children[0], n.Children[1]
			if !stacked(a, b) && !beside(a, b) {
				return errors.Wrapf(ErrNotAdjacent, "%v and %v", a, b)
			}
		default:
			return errors.Wrapf(ErrTooManyChildren, "%v has %d", n, len(n.Children))
		}
		for _, c := range n.Children {
			if err := validate(c); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Wrapf(ErrMalformed, "unknown kind %v", n.Kind)
	}
}

// stacked reports whether b sits directly below a, spanning the same columns.
func stacked(a, b *packing.Node) bool {
	return a.Rect.X1 == b.Rect.X1 && a.Rect.X2 == b.Rect.X2 && a.Rect.Y2 == b.Rect.Y1
}

// beside reports whether b sits directly right of a, spanning the same rows.
func beside(a, b *packing.Node) bool {
	return a.Rect.Y1 == b.Rect.Y1 && a.Rect.Y2 == b.Rect.Y2 && a.Rect.X2 == b.Rect.X1
}

// PixelBytes is the size of one pixel in bytes.
func (im *Image) PixelBytes() int {
	if im.BitDepth > 8 {
		return im.Planes * 2
	}
	return im.Planes
}

// Len is the total size of the pixel data in bytes.
func (im *Image) Len() int {
	return im.Width * im.Height * im.PixelBytes()
}

// Rows yields the image rows top to bottom. Each row is a fresh slice.
func (im *Image) Rows() iter.Seq[[]byte] {
	return im.rows(im.root)
}

func (im *Image) transparent(pixels int) []byte {
	return make([]byte, pixels*im.PixelBytes())
}

func (im *Image) rows(n *packing.Node) iter.Seq[[]byte] {
	switch n.Kind {
	case packing.Free:
		return im.emptyRows(n)
	case packing.Opaque:
		return im.padRows(n.Box.Source().Rows(im.BitDepth), n)
	case packing.Split, packing.Used:
		switch len(n.Children) {
		case 1:
			return im.padRows(im.rows(n.Children[0]), n)
		case 2:
			return im.joinRows(n.Children[0], n.Children[1])
		}
	}
	panic(fmt.Sprintf("stitch: node %v was not validated", n))
}

func (im *Image) emptyRows(n *packing.Node) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for range n.Rect.Height() {
			if !yield(im.transparent(n.Rect.Width())) {
				return
			}
		}
	}
}

// padRows fits rows to n: each row is cut or right-padded to n's width, and
// transparent rows are added until n's height is reached.
func (im *Image) padRows(rows iter.Seq[[]byte], n *packing.Node) iter.Seq[[]byte] {
	w, h := n.Rect.Width()*im.PixelBytes(), n.Rect.Height()
	return func(yield func([]byte) bool) {
		y := 0
		for row := range rows {
			if y >= h {
				break
			}
			if len(row) != w {
				padded := make([]byte, w)
				copy(padded, row)
				row = padded
			}
			if !yield(row) {
				return
			}
			y++
		}
		for ; y < h; y++ {
			if !yield(make([]byte, w)) {
				return
			}
		}
	}
}

func (im *Image) joinRows(a, b *packing.Node) iter.Seq[[]byte] {
	if stacked(a, b) {
		rowsA, rowsB := im.rows(a), im.rows(b)
		return func(yield func([]byte) bool) {
			for row := range rowsA {
				if !yield(row) {
					return
				}
			}
			for row := range rowsB {
				if !yield(row) {
					return
				}
			}
		}
	}
	return im.zipRows(a, b)
}

// zipRows joins the rows of two nodes side by side.
func (im *Image) zipRows(a, b *packing.Node) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		next, stop := iter.Pull(im.rows(b))
		defer stop()
		for left := range im.rows(a) {
			right, ok := next()
			if !ok {
				right = im.transparent(b.Rect.Width())
			}
			row := make([]byte, 0, len(left)+len(right))
			row = append(append(row, left...), right...)
			if !yield(row) {
				return
			}
		}
	}
}

// Bytes returns all pixel data, row after row.
func (im *Image) Bytes() []byte {
	buf := make([]byte, 0, im.Len())
	for row := range im.Rows() {
		buf = append(buf, row...)
	}
	return buf
}
