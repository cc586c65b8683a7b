// Package sprite adapts decoded images into pixel sources for packing, and
// loads sprite files into boxes.
package sprite

import (
	"image"
	"image/color"
	"io"
	"iter"
	"os"

	// Formats sprites may be stored in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/spritemapper/packing"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("sprite: empty image")

// Source is a packing.PixelSource backed by an image.Image.
type Source struct {
	img   image.Image
	depth int
}

// NewSource wraps img. 16-bit images keep their precision, anything else is
// treated as 8 bits per channel.
func NewSource(img image.Image) *Source {
	return &Source{img: img, depth: bitDepth(img)}
}

func bitDepth(img image.Image) int {
	switch img.(type) {
	case *image.NRGBA64, *image.RGBA64, *image.Gray16:
		return 16
	}
	switch img.ColorModel() {
	case color.NRGBA64Model, color.RGBA64Model, color.Gray16Model:
		return 16
	}
	return 8
}

// Image returns the wrapped image.
func (s *Source) Image() image.Image { return s.img }

func (s *Source) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Source) BitDepth() int { return s.depth }

// Rows yields non-premultiplied RGBA rows at the requested depth. 8-bit
// samples are widened to 16-bit by replication, so 0xff becomes 0xffff.
func (s *Source) Rows(depth int) iter.Seq[[]byte] {
	b := s.img.Bounds()
	return func(yield func([]byte) bool) {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			var row []byte
			if depth > 8 {
				row = s.row16(y)
			} else {
				row = s.row8(y)
			}
			if !yield(row) {
				return
			}
		}
	}
}

func (s *Source) row8(y int) []byte {
	b := s.img.Bounds()
	if m, ok := s.img.(*image.NRGBA); ok {
		i := m.PixOffset(b.Min.X, y)
		row := make([]byte, b.Dx()*4)
		copy(row, m.Pix[i:i+len(row)])
		return row
	}
	row := make([]byte, 0, b.Dx()*4)
	for x := b.Min.X; x < b.Max.X; x++ {
		c := color.NRGBAModel.Convert(s.img.At(x, y)).(color.NRGBA)
		row = append(row, c.R, c.G, c.B, c.A)
	}
	return row
}

func (s *Source) row16(y int) []byte {
	b := s.img.Bounds()
	if m, ok := s.img.(*image.NRGBA64); ok {
		i := m.PixOffset(b.Min.X, y)
		row := make([]byte, b.Dx()*8)
		copy(row, m.Pix[i:i+len(row)])
		return row
	}
	row := make([]byte, 0, b.Dx()*8)
	for x := b.Min.X; x < b.Max.X; x++ {
		c := color.NRGBA64Model.Convert(s.img.At(x, y)).(color.NRGBA64)
		row = append(row,
			uint8(c.R>>8), uint8(c.R),
			uint8(c.G>>8), uint8(c.G),
			uint8(c.B>>8), uint8(c.B),
			uint8(c.A>>8), uint8(c.A))
	}
	return row
}

// Decode reads an image in any registered format.
func Decode(r io.Reader) (*Source, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	glog.V(3).Infof("decoded %s image %v", format, img.Bounds().Size())
	return NewSource(img), nil
}

// Load reads the image at path into a box with the given padding.
func Load(path string, pad packing.Pad) (*packing.Box, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening sprite")
	}
	defer f.Close()

	src, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: invalid image file", path)
	}
	return packing.NewBox(path, src, pad), nil
}

// LoadAll loads every path. Files that cannot be opened fail the whole call;
// files that are not images are skipped with a warning.
func LoadAll(paths []string, pad packing.Pad) ([]*packing.Box, error) {
	boxes := make([]*packing.Box, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "opening sprite")
		}
		src, err := Decode(f)
		f.Close()
		if err != nil {
			glog.Warningf("%s: invalid image file: %v", path, err)
			continue
		}
		boxes = append(boxes, packing.NewBox(path, src, pad))
	}
	return boxes, nil
}
