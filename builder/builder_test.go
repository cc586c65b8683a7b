package builder

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/spritemapper/config"
	"badc0de.net/pkg/spritemapper/manifest"
)

func writeSprite(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.AnnealSteps = 200
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.Workers = 2
	return cfg
}

func TestBuild_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	square := filepath.Join(dir, "square.png")
	wide := filepath.Join(dir, "wide.png")
	writeSprite(t, square, 10, 10, color.NRGBA{B: 0xff, A: 0xff})
	writeSprite(t, wide, 10, 5, color.NRGBA{R: 0xff, A: 0xff})

	cfg := testConfig(dir)
	cfg.DataURL = true
	b := New(cfg)

	results := b.Build([]manifest.Group{{Name: filepath.Join(dir, "icons.png"), Sprites: []string{square, wide}}})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 0, Failed(results))

	base := filepath.Join(dir, "out", "icons")
	assert.Equal(t, base, results[0].Spritemap.Base)

	f, err := os.Open(base + ".png")
	require.NoError(t, err)
	defer f.Close()
	cfgImg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 11, cfgImg.Width)
	assert.Equal(t, 17, cfgImg.Height)

	raw, err := os.ReadFile(base + ".json")
	require.NoError(t, err)
	var sheet Sheet
	require.NoError(t, json.Unmarshal(raw, &sheet))
	assert.Equal(t, 11, sheet.Width)
	assert.Equal(t, 17, sheet.Height)
	assert.ElementsMatch(t, []Placement{
		{Name: wide, X: 0, Y: 0, Width: 10, Height: 5},
		{Name: square, X: 0, Y: 6, Width: 10, Height: 10},
	}, sheet.Sprites)

	u, err := os.ReadFile(base + ".dataurl")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(u), "data:image/png;base64,"), "got %.40s", u)
}

func TestBuild_FailuresAreIsolated(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writeSprite(t, good, 4, 4, color.White)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not a png"), 0o644))

	groups := []manifest.Group{
		{Name: "a.png", Sprites: []string{good}},
		{Name: "missing.png", Sprites: []string{filepath.Join(dir, "nope.png")}},
		{Name: "junk.png", Sprites: []string{filepath.Join(dir, "junk.png")}},
		{Name: "b.png", Sprites: []string{good}},
	}

	var mu sync.Mutex
	var sunk []string
	b := New(testConfig(dir))
	b.Sink = func(sm *Spritemap) error {
		mu.Lock()
		defer mu.Unlock()
		sunk = append(sunk, sm.Group.Name)
		return nil
	}

	results := b.Build(groups)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, groups[i].Name, r.Group.Name, "results keep input order")
	}
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Contains(t, results[1].Err.Error(), "missing.png")
	assert.Equal(t, ErrNoSprites, errors.Cause(results[2].Err), "invalid images are skipped, leaving nothing")
	assert.NoError(t, results[3].Err)
	assert.Equal(t, 2, Failed(results))
	assert.ElementsMatch(t, []string{"a.png", "b.png"}, sunk)
}

func TestBuild_SinkError(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writeSprite(t, good, 2, 2, color.Black)

	b := New(testConfig(dir))
	b.Sink = func(*Spritemap) error { return errors.New("disk full") }

	results := b.Build([]manifest.Group{{Name: "x.png", Sprites: []string{good}}})
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "disk full")
}

func TestBuildGroup_Deterministic(t *testing.T) {
	dir := t.TempDir()
	var sprites []string
	for i, sz := range [][2]int{{3, 7}, {8, 2}, {5, 5}, {1, 9}, {6, 4}} {
		path := filepath.Join(dir, string(rune('a'+i))+".png")
		writeSprite(t, path, sz[0], sz[1], color.NRGBA{G: uint8(40 * i), A: 0xff})
		sprites = append(sprites, path)
	}
	g := manifest.Group{Name: "m.png", Sprites: sprites}

	b := New(testConfig(dir))
	sm1, err := b.BuildGroup(g)
	require.NoError(t, err)
	sm2, err := b.BuildGroup(g)
	require.NoError(t, err)

	assert.Equal(t, sm1.Sheet(), sm2.Sheet())
	assert.True(t, bytes.Equal(sm1.Image.Bytes(), sm2.Image.Bytes()))
}

func TestWrite_Palette(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writeSprite(t, good, 3, 3, color.NRGBA{R: 0x80, G: 0x40, A: 0xff})

	cfg := testConfig(dir)
	cfg.Palette = true
	cfg.OutputDir = ""
	b := New(cfg)

	sm, err := b.BuildGroup(manifest.Group{Name: filepath.Join(dir, "pal.png"), Sprites: []string{good}})
	require.NoError(t, err)
	require.NoError(t, b.Write(sm))

	f, err := os.Open(filepath.Join(dir, "pal.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	_, ok := img.(*image.Paletted)
	assert.True(t, ok, "got %T", img)
	_, err = os.Stat(filepath.Join(dir, "pal.dataurl"))
	assert.True(t, os.IsNotExist(err), "data url written although disabled")
}
