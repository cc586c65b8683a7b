//go:build go1.13 && !windows
// +build go1.13,!windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

func isTermItermWez() bool {
	return rasterm.IsTermItermWez()
}

// PrintRasTerm draws an image using the RasTerm library.
//
// This should enable drawing in Kitty terminal, iTerm and anything that
// speaks sixel.
func PrintRasTerm(w io.Writer, i image.Image) error {
	if rasterm.IsTermKitty() {
		defer fmt.Fprintf(w, "\n")
		return rasterm.Settings{}.KittyWriteImage(w, i)
	}
	if rasterm.IsTermItermWez() {
		defer fmt.Fprintf(w, "\n")
		return rasterm.Settings{}.ItermWriteImage(w, i)
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage := image.NewPaletted(i.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, i.Bounds(), i, image.ZP)

		defer fmt.Fprintf(w, "\n")
		return rasterm.Settings{}.SixelWriteImage(w, palettedImage)
	}
	return ErrUnsupportedTerminal
}
