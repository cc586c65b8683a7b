package main

import (
	"image"
	"os"

	"github.com/golang/glog"

	"badc0de.net/pkg/spritemapper/imageprint"
)

func out(img image.Image, name string) {
	if *downsize {
		termSize, err := GetTermSize()
		if err == nil {
			if (termSize.WSXPixel != 0 && termSize.WSYPixel != 0) && (*rasterm || *iterm) {
				// Prefer printing out in native size if there's a chance we print out an image rather than pixels.
				img = imageprint.Thumbnail(img, int(termSize.WSXPixel/2), int(termSize.WSYPixel/2))
			} else {
				// Every pixel takes two columns.
				img = imageprint.Thumbnail(img, int(termSize.WSCol/2), int(termSize.WSRow))
			}
		}
	}

	w := os.Stderr
	switch {
	case *rasterm:
		if err := imageprint.PrintRasTerm(w, img); err != nil {
			glog.Warningf("preview of %s: %v", name, err)
		}
	case *nocolor:
		imageprint.PrintNoColor(w, img, *blanks)
	case *iterm:
		imageprint.PrintITerm(w, img, name)
	case *col256:
		imageprint.Print256Color(w, img, *blanks)
	default:
		imageprint.Print24bit(w, img, *blanks)
	}
}
