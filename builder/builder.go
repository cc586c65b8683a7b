// Package builder turns manifest groups into spritemap files.
package builder

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/spritemapper/config"
	"badc0de.net/pkg/spritemapper/manifest"
	"badc0de.net/pkg/spritemapper/packing"
	"badc0de.net/pkg/spritemapper/paths"
	"badc0de.net/pkg/spritemapper/sprite"
	"badc0de.net/pkg/spritemapper/stitch"
)

// ErrNoSprites is returned for groups with nothing to pack.
var ErrNoSprites = errors.New("builder: no sprites to pack")

// Spritemap is a packed and stitched group.
type Spritemap struct {
	Group  manifest.Group
	Packed *packing.Packed
	Image  *stitch.Image

	// Base is the output path without extension.
	Base string
}

// Placement is where one sprite ended up, padding excluded.
type Placement struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Sheet describes a spritemap for its consumers.
type Sheet struct {
	Name    string      `json:"name"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Sprites []Placement `json:"sprites"`
}

func (sm *Spritemap) Sheet() Sheet {
	s := Sheet{
		Name:    sm.Group.Name,
		Width:   sm.Packed.Size.X,
		Height:  sm.Packed.Size.Y,
		Sprites: make([]Placement, 0, len(sm.Packed.Placements)),
	}
	for _, pl := range sm.Packed.Placements {
		r := pl.Rect()
		s.Sprites = append(s.Sprites, Placement{
			Name:   pl.Box.Name(),
			X:      r.X1,
			Y:      r.Y1,
			Width:  r.Width(),
			Height: r.Height(),
		})
	}
	return s
}

// PNG encodes the spritemap image.
func (sm *Spritemap) PNG(palette bool) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := sm.Image.Encode(buf, palette); err != nil {
		return nil, errors.Wrap(err, "encoding png")
	}
	return buf.Bytes(), nil
}

// DataURL returns the PNG as a data: URL.
func DataURL(png []byte) ([]byte, error) {
	return dataurl.New(png, "image/png").MarshalText()
}

// Result is the outcome of building one group.
type Result struct {
	Group     manifest.Group
	Spritemap *Spritemap
	Err       error
}

type Builder struct {
	cfg *config.Config

	// Sink receives every built spritemap. It defaults to Write.
	Sink func(*Spritemap) error
}

func New(cfg *config.Config) *Builder {
	b := &Builder{cfg: cfg}
	b.Sink = b.Write
	return b
}

// BuildGroup loads, packs and stitches the sprites of g.
func (b *Builder) BuildGroup(g manifest.Group) (*Spritemap, error) {
	boxes, err := sprite.LoadAll(g.Sprites, b.cfg.Pad())
	if err != nil {
		return nil, err
	}
	if len(boxes) == 0 {
		return nil, ErrNoSprites
	}

	p, err := packing.Pack(boxes, b.cfg.PackOptions())
	if err != nil {
		return nil, errors.Wrap(err, "packing")
	}
	glog.Infof("%s: packed %d sprites into %dx%d (%.3f%% empty space)",
		g.Name, len(p.Placements), p.Size.X, p.Size.Y, p.UnusedAmount()*100)

	im, err := stitch.Stitch(p)
	if err != nil {
		return nil, errors.Wrap(err, "stitching")
	}
	return &Spritemap{
		Group:  g,
		Packed: p,
		Image:  im,
		Base:   paths.OutputBase(g.Name, b.cfg.OutputDir),
	}, nil
}

// Write stores sm as <base>.png and <base>.json, plus <base>.dataurl if
// data URLs are enabled.
func (b *Builder) Write(sm *Spritemap) error {
	if err := os.MkdirAll(filepath.Dir(sm.Base), 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	png, err := sm.PNG(b.cfg.Palette)
	if err != nil {
		return err
	}
	if err := os.WriteFile(sm.Base+".png", png, 0o644); err != nil {
		return errors.Wrap(err, "writing png")
	}

	sheet, err := json.MarshalIndent(sm.Sheet(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding placements")
	}
	if err := os.WriteFile(sm.Base+".json", append(sheet, '\n'), 0o644); err != nil {
		return errors.Wrap(err, "writing placements")
	}

	if b.cfg.DataURL {
		u, err := DataURL(png)
		if err != nil {
			return errors.Wrap(err, "encoding data url")
		}
		if err := os.WriteFile(sm.Base+".dataurl", u, 0o644); err != nil {
			return errors.Wrap(err, "writing data url")
		}
	}
	glog.Infof("%s: wrote %s.png", sm.Group.Name, sm.Base)
	return nil
}

// Build builds every group, up to Workers at a time, and hands the results to
// Sink. A failing group does not stop the others. Results are in the order of
// groups.
func (b *Builder) Build(groups []manifest.Group) []Result {
	results := make([]Result, len(groups))

	var eg errgroup.Group
	eg.SetLimit(max(b.cfg.Workers, 1))
	for i, g := range groups {
		eg.Go(func() error {
			results[i] = b.build(g)
			return nil
		})
	}
	eg.Wait()
	return results
}

func (b *Builder) build(g manifest.Group) Result {
	res := Result{Group: g}
	sm, err := b.BuildGroup(g)
	if err == nil {
		res.Spritemap = sm
		err = b.Sink(sm)
	}
	if err != nil {
		res.Err = errors.Wrap(err, g.Name)
		glog.Errorf("%v", res.Err)
	}
	return res
}

// Failed counts the results holding an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
