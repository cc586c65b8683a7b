package imageprint

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ErrUnsupportedTerminal is returned when no graphics protocol is available.
var ErrUnsupportedTerminal = errors.New("imageprint: terminal cannot show images")

// Thumbnail shrinks i to fit within maxW by maxH, keeping its aspect ratio.
// Images that already fit are returned unchanged.
func Thumbnail(i image.Image, maxW, maxH int) image.Image {
	sz := i.Bounds().Size()
	if maxW <= 0 || maxH <= 0 || (sz.X <= maxW && sz.Y <= maxH) {
		return i
	}
	return resize.Thumbnail(uint(maxW), uint(maxH), i, resize.Lanczos3)
}
