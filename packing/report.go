package packing

import (
	"fmt"
	"io"
)

// PrintPackedSize writes a one line summary of the canvas size and how much
// of it is empty.
func PrintPackedSize(w io.Writer, p *Packed) error {
	_, err := fmt.Fprintf(w, "Packed size is %dx%d (%.3f%% empty space)\n",
		p.Size.X, p.Size.Y, p.UnusedAmount()*100)
	return err
}

// DumpPlacements writes one "name,x1,y1,x2,y2" line per placed box. The
// coordinates exclude padding.
func DumpPlacements(w io.Writer, p *Packed) error {
	for _, pl := range p.Placements {
		r := pl.Rect()
		if _, err := fmt.Fprintf(w, "%s,%d,%d,%d,%d\n", pl.Box.Name(), r.X1, r.Y1, r.X2, r.Y2); err != nil {
			return err
		}
	}
	return nil
}
