// Package imageprint prints images on terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
)

type sprinter interface {
	Sprintf(s string, arg ...interface{}) string
}

type plainSprinter struct{}

func (plainSprinter) Sprintf(s string, arg ...interface{}) string {
	return fmt.Sprintf(s, arg...)
}

func shade(w io.Writer, col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := color16to8(col)
	if cA == 0 {
		fmt.Fprintf(w, "\x1b[0m  ")
		return
	}

	var d sprinter = plainSprinter{}
	if !noColor {
		if escapesTrueColor {
			fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm", cR, cG, cB)
		} else {
			d = color.RGB(cR, cG, cB, true)
		}
	}
	if blanks {
		fmt.Fprint(w, d.Sprintf("  "))
	} else {
		a := (int(cR) + int(cG) + int(cB)) / 3
		switch {
		case a < 32:
			fmt.Fprint(w, d.Sprintf(".."))
		case a < 64:
			fmt.Fprint(w, d.Sprintf("--"))
		case a < 128:
			fmt.Fprint(w, d.Sprintf("=="))
		default:
			fmt.Fprint(w, d.Sprintf("##"))
		}
	}
	if escapesTrueColor && !noColor {
		fmt.Fprintf(w, "\x1b[0m")
	}
}

func color16to8(col ic.Color) (r, g, b, a uint8) {
	cR, cG, cB, cA := col.RGBA()
	return uint8(cR >> 8), uint8(cG >> 8), uint8(cB >> 8), uint8(cA >> 8)
}

func printRows(w io.Writer, i image.Image, trueColor, blanks, noColor bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(w, i.At(x, y), trueColor, blanks, noColor)
		}
		if !noColor {
			fmt.Fprintf(w, "\x1b[0m")
		}
		fmt.Fprintf(w, "\n")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(w io.Writer, i image.Image, blanks bool) {
	printRows(w, i, false, blanks, false)
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func Print24bit(w io.Writer, i image.Image, blanks bool) {
	printRows(w, i, true, blanks, false)
}

// PrintNoColor draws an image without using color escape sequences. Only makes sense with blanks=false.
func PrintNoColor(w io.Writer, i image.Image, blanks bool) {
	printRows(w, i, true, blanks, true)
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, i image.Image, fn string) {
	if !isTermItermWez() {
		return
	}
	writeITerm(w, i, fn)
}

func writeITerm(w io.Writer, i image.Image, fn string) {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	png.Encode(bEnc, i)
	bEnc.Close()
	fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
}
